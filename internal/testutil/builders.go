package testutil

import (
	"time"

	"github.com/reverblab/reverb/core"
)

// NoteBuilder provides a fluent helper for constructing notes in tests.
// Example:
//
//	n := testutil.NewNoteBuilder(1).Content("long day").On(2026, 8, 20).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type NoteBuilder struct {
	id      int64
	content string
	at      time.Time
}

// NewNoteBuilder creates a builder with a default content and timestamp.
func NewNoteBuilder(id int64) *NoteBuilder {
	return &NoteBuilder{
		id:      id,
		content: "test note",
		at:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Content sets the note text (chainable).
func (b *NoteBuilder) Content(c string) *NoteBuilder { b.content = c; return b }

// On sets the creation date (chainable).
func (b *NoteBuilder) On(year int, month time.Month, day int) *NoteBuilder {
	b.at = time.Date(year, month, day, b.at.Hour(), 0, 0, 0, time.UTC)
	return b
}

// CreatedAt sets the exact creation timestamp (chainable).
func (b *NoteBuilder) CreatedAt(t time.Time) *NoteBuilder { b.at = t; return b }

// Build returns the constructed note.
func (b *NoteBuilder) Build() core.Note {
	return core.Note{ID: b.id, Content: b.content, CreatedAt: b.at}
}

// Fingerprint constructs a fingerprint for a note id from literal vector values.
func Fingerprint(noteID int64, model string, vec ...float64) core.Fingerprint {
	return core.Fingerprint{NoteID: noteID, Vector: vec, Model: model}
}

// DialogueBuilder accumulates dialogue messages for conversation tests.
type DialogueBuilder struct {
	messages []core.Message
}

// NewDialogueBuilder creates an empty dialogue.
func NewDialogueBuilder() *DialogueBuilder { return &DialogueBuilder{} }

// User appends a user turn (chainable).
func (b *DialogueBuilder) User(text string) *DialogueBuilder {
	b.messages = append(b.messages, core.Message{Role: core.RoleUser, Content: text})
	return b
}

// Assistant appends an assistant turn (chainable).
func (b *DialogueBuilder) Assistant(text string) *DialogueBuilder {
	b.messages = append(b.messages, core.Message{Role: core.RoleAssistant, Content: text})
	return b
}

// Raw appends a turn with an arbitrary, possibly non-normalized role (chainable).
func (b *DialogueBuilder) Raw(role, text string) *DialogueBuilder {
	b.messages = append(b.messages, core.Message{Role: role, Content: text})
	return b
}

// Build returns the accumulated messages.
func (b *DialogueBuilder) Build() []core.Message { return b.messages }
