package provider

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/reverblab/reverb/core"
)

// Mock is a lightweight in-memory implementation of all three capabilities,
// useful for tests and examples. Embeddings are derived deterministically from
// the input text so equal texts always produce equal vectors.
type Mock struct {
	mu sync.Mutex

	model string
	dims  int

	completions map[string]string // canned completions keyed by prompt
	queued      []string          // FIFO completions consumed before canned ones
	stream      []string          // chunks emitted by CompleteStream

	embedErr    error
	completeErr error
	streamErr   error

	// Call counters, readable by tests.
	EmbedCalls    int
	CompleteCalls int
	StreamCalls   int
}

// NewMock constructs a Mock producing vectors of the given dimensionality.
func NewMock(model string, dims int) *Mock {
	return &Mock{
		model:       model,
		dims:        dims,
		completions: make(map[string]string),
	}
}

// AddCompletion registers a deterministic canned completion for a prompt.
func (m *Mock) AddCompletion(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions[prompt] = response
}

// QueueCompletion appends a response returned by the next Complete call
// regardless of prompt.
func (m *Mock) QueueCompletion(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, response)
}

// SetStream sets the chunks emitted by subsequent CompleteStream calls.
func (m *Mock) SetStream(chunks ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stream = chunks
}

// FailEmbed makes EmbedBatch return err.
func (m *Mock) FailEmbed(err error) { m.embedErr = err }

// FailComplete makes Complete return err.
func (m *Mock) FailComplete(err error) { m.completeErr = err }

// FailStream makes CompleteStream emit err after its chunks.
func (m *Mock) FailStream(err error) { m.streamErr = err }

// Model implements Embedder.
func (m *Mock) Model() string { return m.model }

// EmbedBatch implements Embedder with deterministic pseudo-embeddings.
func (m *Mock) EmbedBatch(ctx context.Context, texts []string) ([]Embedding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmbedCalls++
	if m.embedErr != nil {
		return nil, core.TransportError("mock embed", m.embedErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, core.TransportError("mock embed", err)
	}
	out := make([]Embedding, len(texts))
	for i, t := range texts {
		out[i] = Embedding{Vector: pseudoVector(t, m.dims), Model: m.model}
	}
	return out, nil
}

// Complete implements Completer.
func (m *Mock) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalls++
	if m.completeErr != nil {
		return "", core.TransportError("mock complete", m.completeErr)
	}
	if err := ctx.Err(); err != nil {
		return "", core.TransportError("mock complete", err)
	}
	if len(m.queued) > 0 {
		resp := m.queued[0]
		m.queued = m.queued[1:]
		return resp, nil
	}
	if resp, ok := m.completions[req.Prompt]; ok {
		return resp, nil
	}
	return fmt.Sprintf("Mock response to: %s", req.Prompt), nil
}

// CompleteStream implements StreamCompleter, emitting the configured chunks.
func (m *Mock) CompleteStream(ctx context.Context, system string, messages []core.Message) (<-chan string, <-chan error) {
	m.mu.Lock()
	m.StreamCalls++
	chunks := make([]string, len(m.stream))
	copy(chunks, m.stream)
	streamErr := m.streamErr
	m.mu.Unlock()

	out := make(chan string, len(chunks)+1)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		for _, c := range chunks {
			select {
			case <-ctx.Done():
				errCh <- core.TransportError("mock stream", ctx.Err())
				return
			case out <- c:
			}
		}
		if streamErr != nil {
			errCh <- core.TransportError("mock stream", streamErr)
		}
	}()
	return out, errCh
}

// pseudoVector hashes text into a unit-scaled vector so similarity math stays
// meaningful without a real model.
func pseudoVector(text string, dims int) []float64 {
	v := make([]float64, dims)
	for i := 0; i < dims; i++ {
		h := fnv.New64a()
		fmt.Fprintf(h, "%d:%s", i, text)
		// Map the hash onto [-1, 1).
		v[i] = float64(int64(h.Sum64())) / float64(1<<63)
	}
	return v
}
