package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates required provider credentials or endpoint
	// configuration are absent. Fatal, surfaced immediately, no retry.
	ErrConfiguration = errors.New("provider configuration missing")

	// ErrTransport indicates the external capability was unreachable or timed
	// out. Fatal to the current operation; the caller may retry the whole
	// request.
	ErrTransport = errors.New("provider transport failure")

	// ErrMalformedResponse indicates a structured verdict could not be parsed.
	// Judgment steps degrade this locally to a "not worth" verdict; it never
	// aborts the pipeline. A malformed embedding response is ErrTransport
	// instead, never swallowed.
	ErrMalformedResponse = errors.New("malformed structured response")

	// ErrEmptyStream indicates a streaming reply completed without producing
	// any content. Surfaced as a distinct terminal signal, not a silent
	// empty success.
	ErrEmptyStream = errors.New("stream completed without content")
)

// DimensionMismatchError reports an attempt to compare two vectors of
// different length or different model lineage. Always fatal; never silently
// scored as zero similarity.
type DimensionMismatchError struct {
	LenA, LenB     int
	ModelA, ModelB string
}

func (e *DimensionMismatchError) Error() string {
	if e.ModelA != e.ModelB && e.ModelA != "" && e.ModelB != "" {
		return fmt.Sprintf("fingerprint model mismatch: %q vs %q", e.ModelA, e.ModelB)
	}
	return fmt.Sprintf("vector dimension mismatch: %d vs %d", e.LenA, e.LenB)
}

// TransportError wraps an underlying provider failure while keeping it
// matchable via errors.Is(err, ErrTransport).
func TransportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
}
