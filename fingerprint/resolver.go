// Package fingerprint resolves note fingerprints against caller-supplied
// cached vectors, batching every miss into a single embedding call. The
// resolver holds no durable storage: newly computed fingerprints are handed
// back to the caller for persistence.
package fingerprint

import (
	"context"
	"fmt"
	"time"

	"github.com/reverblab/reverb/core"
	"github.com/reverblab/reverb/logging"
	"github.com/reverblab/reverb/provider"
)

// DefaultTimeout bounds a single embedding call.
const DefaultTimeout = 30 * time.Second

// Options configure a Resolver.
type Options struct {
	// Timeout bounds the outbound embedding call. A timeout is a transport
	// failure, not empty output.
	Timeout time.Duration
	// Logger receives resolution diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Resolver produces a complete fingerprint set for a slice of notes,
// reusing valid cached fingerprints and computing the rest in one batch.
type Resolver struct {
	embedder provider.Embedder
	opts     Options
}

// NewResolver creates a Resolver over the given embedding capability.
func NewResolver(embedder provider.Embedder, optFns ...func(o *Options)) *Resolver {
	opts := Options{
		Timeout: DefaultTimeout,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resolver{embedder: embedder, opts: opts}
}

// Resolve returns a fingerprint for every note in notes. Cached fingerprints
// from existing are reused when they carry a non-empty vector produced by the
// resolver's current model; everything else is treated as a miss. All misses
// go out in a single embedding call. The call fails atomically: on provider
// failure no fingerprints are returned for the batch.
//
// The second return value lists only the newly computed fingerprints, in note
// input order, so the caller can persist them.
func (r *Resolver) Resolve(ctx context.Context, notes []core.Note, existing map[int64]core.Fingerprint) (map[int64]core.Fingerprint, []core.Fingerprint, error) {
	resolved := make(map[int64]core.Fingerprint, len(notes))
	var missing []core.Note

	model := r.embedder.Model()
	for _, n := range notes {
		fp, ok := existing[n.ID]
		if ok && r.valid(fp, model) {
			resolved[n.ID] = fp
			continue
		}
		missing = append(missing, n)
	}

	if len(missing) == 0 {
		return resolved, nil, nil
	}

	texts := make([]string, len(missing))
	for i, n := range missing {
		texts[i] = n.Content
	}

	callCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	start := time.Now()
	embeddings, err := r.embedder.EmbedBatch(callCtx, texts)
	if err != nil {
		r.opts.Logger.Error("embedding batch failed", "batch_size", len(texts), "error", err)
		return nil, nil, fmt.Errorf("resolve fingerprints: %w", err)
	}
	if len(embeddings) != len(missing) {
		err := core.TransportError("resolve fingerprints",
			fmt.Errorf("embedder returned %d vectors for %d inputs", len(embeddings), len(missing)))
		r.opts.Logger.Error("embedding batch incomplete", "error", err)
		return nil, nil, err
	}
	r.opts.Logger.Debug("embedding batch completed",
		"batch_size", len(texts), "model", model, "duration", time.Since(start))

	computed := make([]core.Fingerprint, len(missing))
	for i, n := range missing {
		fp := core.Fingerprint{NoteID: n.ID, Vector: embeddings[i].Vector, Model: embeddings[i].Model}
		if fp.Model == "" {
			fp.Model = model
		}
		resolved[n.ID] = fp
		computed[i] = fp
	}
	return resolved, computed, nil
}

// valid reports whether a cached fingerprint can be reused for the current
// model. Model identity is part of the cache key; a fingerprint from another
// model lineage is stale, not an error.
func (r *Resolver) valid(fp core.Fingerprint, model string) bool {
	return len(fp.Vector) > 0 && fp.Model == model
}
