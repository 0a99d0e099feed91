package provider

import (
	"context"

	"github.com/reverblab/reverb/core"
)

// Embedding is one vector returned by an embedding capability, tagged with the
// identity of the model that produced it.
type Embedding struct {
	Vector []float64 `json:"vector"`
	Model  string    `json:"model"`
}

// CompletionRequest captures a single judgment or generation call.
type CompletionRequest struct {
	System string // Optional system prompt
	Prompt string // User-turn prompt text

	// Structured hints that the prompt instructs the model to emit a
	// JSON-shaped reply. The contract does not enforce structure; callers
	// parse defensively regardless.
	Structured bool
}

// Embedder converts texts into semantic vectors. Implementations must be
// order-preserving (result i corresponds to input i) and batched: one outbound
// request per call. A malformed or partial provider response is a transport
// failure for the whole batch, never a partial result.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([]Embedding, error)

	// Model returns the identifier of the embedding model in use. Cached
	// fingerprints from a different model are stale.
	Model() string
}

// Completer performs a single text completion call. The returned text may be
// free-form or JSON-shaped depending on the prompt's own instructions.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// StreamCompleter is the streaming variant used by conversation sessions.
// Implementations emit text increments on the first channel and at most one
// error on the second, closing both when done. Context cancellation must stop
// the underlying call.
type StreamCompleter interface {
	CompleteStream(ctx context.Context, system string, messages []core.Message) (<-chan string, <-chan error)
}
