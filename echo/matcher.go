// Package echo ranks prior notes against a query fingerprint. Ranking is a
// pure computation over supplied data; no I/O happens here.
package echo

import (
	"fmt"
	"sort"

	"github.com/reverblab/reverb/core"
	"github.com/reverblab/reverb/vector"
)

const (
	// DefaultThreshold is the minimum similarity (exclusive) for an echo.
	DefaultThreshold = 0.5
	// DefaultLimit caps the number of matches returned per query.
	DefaultLimit = 5
)

// Options configure a Matcher.
type Options struct {
	// Threshold keeps only candidates with similarity strictly above it.
	Threshold float64
	// Limit truncates the ranked result.
	Limit int
}

// Matcher selects the top echoes for a query fingerprint.
type Matcher struct {
	opts Options
}

// NewMatcher creates a Matcher with default threshold and limit.
func NewMatcher(optFns ...func(o *Options)) *Matcher {
	opts := Options{Threshold: DefaultThreshold, Limit: DefaultLimit}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Matcher{opts: opts}
}

// Rank scores every candidate against query and returns the matches with
// similarity strictly above the threshold, sorted descending. Ties keep
// candidate input order so results are deterministic. The candidate whose
// note id equals excludeID is skipped: a note never matches itself.
//
// A candidate fingerprint of different dimensionality or model lineage is a
// hard error, never a silent zero score.
func (m *Matcher) Rank(query core.Fingerprint, candidates []core.Candidate, excludeID int64) ([]core.EchoMatch, error) {
	matches := make([]core.EchoMatch, 0, len(candidates))
	for _, c := range candidates {
		if c.Note.ID == excludeID {
			continue
		}
		if query.Model != "" && c.Fingerprint.Model != "" && c.Fingerprint.Model != query.Model {
			return nil, &core.DimensionMismatchError{
				LenA: query.Dimensions(), LenB: c.Fingerprint.Dimensions(),
				ModelA: query.Model, ModelB: c.Fingerprint.Model,
			}
		}
		sim, err := vector.CosineSimilarity(query.Vector, c.Fingerprint.Vector)
		if err != nil {
			return nil, fmt.Errorf("rank note %d: %w", c.Note.ID, err)
		}
		if sim > m.opts.Threshold {
			matches = append(matches, core.EchoMatch{Note: c.Note, Similarity: sim})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if m.opts.Limit > 0 && len(matches) > m.opts.Limit {
		matches = matches[:m.opts.Limit]
	}
	return matches, nil
}
