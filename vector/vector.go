// Package vector provides the numeric primitives used to compare note
// fingerprints. All functions are pure and deterministic.
package vector

import (
	"math"

	"github.com/reverblab/reverb/core"
)

// CosineSimilarity returns the normalized dot product of a and b, a value in
// [-1, 1]. A result of 0 is only ever the genuine mathematical result (one of
// the vectors is the zero vector); mismatched lengths are a caller contract
// violation and fail with core.DimensionMismatchError.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, &core.DimensionMismatchError{LenA: len(a), LenB: len(b)}
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
