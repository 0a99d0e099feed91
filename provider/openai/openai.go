// Package openai backs the engine's capability interfaces with any
// OpenAI-compatible endpoint via the official SDK: batched embeddings, chat
// completions and streaming chat completions. Configuration is explicit —
// API key and base URL travel in Options, never in process-wide state.
package openai

import (
	"context"
	"fmt"
	"sort"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/reverblab/reverb/core"
	"github.com/reverblab/reverb/provider"
)

// Options configure the OpenAI adapter. Fields mirror a minimal subset of the
// Chat Completions and Embeddings parameters; extend via functional options
// without breaking callers.
type Options struct {
	APIKey              string
	BaseURL             string // Empty means the SDK default endpoint
	Model               string // Chat model for judgments and conversation
	EmbeddingModel      string // Embedding model; part of every fingerprint's identity
	Temperature         float64
	MaxCompletionTokens int64
}

// Client implements provider.Embedder, provider.Completer and
// provider.StreamCompleter over one OpenAI-compatible endpoint.
type Client struct {
	client *openai.Client
	opts   Options
}

var (
	_ provider.Embedder        = (*Client)(nil)
	_ provider.Completer       = (*Client)(nil)
	_ provider.StreamCompleter = (*Client)(nil)
)

// New creates a Client. The API key is required; a missing key is a
// configuration error, surfaced immediately.
func New(optFns ...func(o *Options)) (*Client, error) {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		EmbeddingModel:      string(openai.EmbeddingModelTextEmbedding3Small),
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai: api key: %w", core.ErrConfiguration)
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(clientOpts...)
	return &Client{client: &client, opts: opts}, nil
}

// NewFromClient wraps an existing SDK client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		EmbeddingModel:      string(openai.EmbeddingModelTextEmbedding3Small),
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Model implements provider.Embedder.
func (c *Client) Model() string { return c.opts.EmbeddingModel }

// EmbedBatch implements provider.Embedder. One outbound request per call;
// results follow input order. An incomplete response is a transport failure
// for the whole batch.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([]provider.Embedding, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:          openai.EmbeddingModel(c.opts.EmbeddingModel),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, core.TransportError("openai embeddings", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, core.TransportError("openai embeddings",
			fmt.Errorf("got %d embeddings for %d inputs", len(resp.Data), len(texts)))
	}

	// The API documents index-aligned output; sort anyway so a reordered
	// response cannot scramble note/vector pairing.
	sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })

	model := resp.Model
	if model == "" {
		model = c.opts.EmbeddingModel
	}
	out := make([]provider.Embedding, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = provider.Embedding{Vector: d.Embedding, Model: model}
	}
	return out, nil
}

// Complete implements provider.Completer.
func (c *Client) Complete(ctx context.Context, req provider.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := c.params(messages)
	if req.Structured {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", core.TransportError("openai completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", core.TransportError("openai completion", fmt.Errorf("no choices returned"))
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteStream implements provider.StreamCompleter using the SDK's
// streaming chat completions.
func (c *Client) CompleteStream(ctx context.Context, system string, messages []core.Message) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errCh := make(chan error, 1)

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if system != "" {
		params = append(params, openai.SystemMessage(system))
	}
	for _, m := range messages {
		if m.Role == core.RoleAssistant {
			params = append(params, openai.AssistantMessage(m.Content))
			continue
		}
		params = append(params, openai.UserMessage(m.Content))
	}

	go func() {
		defer close(out)
		defer close(errCh)
		stream := c.client.Chat.Completions.NewStreaming(ctx, c.params(params))
		for stream.Next() {
			ck := stream.Current()
			for _, ch := range ck.Choices {
				if ch.Delta.Content == "" {
					continue
				}
				select {
				case <-ctx.Done():
					errCh <- core.TransportError("openai stream", ctx.Err())
					return
				case out <- ch.Delta.Content:
				}
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- core.TransportError("openai stream", err)
		}
	}()
	return out, errCh
}

func (c *Client) params(messages []openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               c.opts.Model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
	}
}
