// Package anthropic backs the engine's completion capabilities with the
// Anthropic Messages API. It covers judgment calls and streamed conversation
// replies; embeddings come from another provider (Anthropic does not offer
// an embeddings endpoint).
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/reverblab/reverb/core"
	"github.com/reverblab/reverb/provider"
)

// Options configure the Anthropic adapter (model id, temperature, max tokens,
// API key). Extend via functional options to preserve stability.
type Options struct {
	APIKey      string
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
}

// Client implements provider.Completer and provider.StreamCompleter over the
// Anthropic Messages API.
type Client struct {
	client *anthropic.Client
	opts   Options
}

var (
	_ provider.Completer       = (*Client)(nil)
	_ provider.StreamCompleter = (*Client)(nil)
)

// New creates a Client. The API key is required; a missing key is a
// configuration error, surfaced immediately.
func New(optFns ...func(o *Options)) (*Client, error) {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("anthropic: api key: %w", core.ErrConfiguration)
	}

	client := anthropic.NewClient(option.WithAPIKey(opts.APIKey))
	return &Client{client: &client, opts: opts}, nil
}

// NewFromClient wraps an existing SDK client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Complete implements provider.Completer.
func (c *Client) Complete(ctx context.Context, req provider.CompletionRequest) (string, error) {
	params := c.params(req.System, []core.Message{{Role: core.RoleUser, Content: req.Prompt}})

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", core.TransportError("anthropic completion", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	return text, nil
}

// CompleteStream implements provider.StreamCompleter using Messages API
// streaming events.
func (c *Client) CompleteStream(ctx context.Context, system string, messages []core.Message) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)
		stream := c.client.Messages.NewStreaming(ctx, c.params(system, messages))
		for stream.Next() {
			event := stream.Current()
			deltaEvent, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
			if !ok {
				continue
			}
			textDelta, ok := deltaEvent.Delta.AsAny().(anthropic.TextDelta)
			if !ok || textDelta.Text == "" {
				continue
			}
			select {
			case <-ctx.Done():
				errCh <- core.TransportError("anthropic stream", ctx.Err())
				return
			case out <- textDelta.Text:
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- core.TransportError("anthropic stream", err)
		}
	}()
	return out, errCh
}

func (c *Client) params(system string, messages []core.Message) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	for _, m := range messages {
		if m.Role == core.RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			continue
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}
	return params
}
