package core

import "time"

// Note is a single journal entry. Notes are immutable once created and are
// owned by the caller's storage; the engine only ever reads them.
type Note struct {
	ID        int64     `json:"id"`        // Unique within a user's corpus
	Content   string    `json:"content"`   // Raw note text
	CreatedAt time.Time `json:"createdAt"` // Creation timestamp
}

// Date returns the calendar date of the note in YYYY-MM-DD form, used when
// presenting historical echoes.
func (n Note) Date() string {
	return n.CreatedAt.Format("2006-01-02")
}

// Fingerprint is the semantic vector representation of a note, produced by an
// external embedding capability. A fingerprint is valid only for the embedding
// model that produced it; model identity is part of the cache key.
type Fingerprint struct {
	NoteID int64     `json:"noteId"`
	Vector []float64 `json:"vector"`
	Model  string    `json:"model"`
}

// Dimensions returns the vector length.
func (f Fingerprint) Dimensions() int { return len(f.Vector) }

// Candidate pairs a note with its fingerprint for ranking.
type Candidate struct {
	Note        Note
	Fingerprint Fingerprint
}

// EchoMatch is a prior note whose fingerprint is sufficiently similar to a
// query note's fingerprint. Derived, never persisted.
type EchoMatch struct {
	Note       Note    `json:"note"`
	Similarity float64 `json:"similarity"` // In [-1, 1]
}

// EchoGroup collects the echoes found for one of today's notes.
type EchoGroup struct {
	Note    Note        `json:"note"`
	Matches []EchoMatch `json:"relatedMatches"`
}
