package conversation

import "strings"

// NewlineToken replaces literal newlines inside a delta frame. The incremental
// channel uses newlines as record separators, so content newlines must be
// escape-encoded on the way out and decoded back by the consumer.
const NewlineToken = "[NEWLINE]"

// EventType discriminates the frames of a reply stream.
type EventType int

const (
	// EventDelta carries an escape-encoded text increment.
	EventDelta EventType = iota
	// EventDone is the explicit end-of-stream marker. A well-formed stream
	// ends with exactly one EventDone; an empty reply ends with an error
	// instead.
	EventDone
)

// Event is one frame of a reply stream.
type Event struct {
	Type EventType
	Data string // Escape-encoded for EventDelta, empty for EventDone
}

// EncodeChunk escapes literal newlines for transmission inside a delta frame.
func EncodeChunk(s string) string {
	return strings.ReplaceAll(s, "\n", NewlineToken)
}

// DecodeChunk restores newlines in a received delta frame.
func DecodeChunk(s string) string {
	return strings.ReplaceAll(s, NewlineToken, "\n")
}
