package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/reverblab/reverb/core"
	"github.com/reverblab/reverb/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeChunk(t *testing.T) {
	in := "first line\nsecond line\n"
	encoded := EncodeChunk(in)
	assert.NotContains(t, encoded, "\n")
	assert.Equal(t, "first line[NEWLINE]second line[NEWLINE]", encoded)
	assert.Equal(t, in, DecodeChunk(encoded))
}

func TestBuildMessages_NormalizesRoles(t *testing.T) {
	req := ReplyRequest{
		History: []core.Message{
			{Role: "ai", Content: "what stands out?"},
			{Role: "user", Content: "the waiting part"},
			{Role: "tool", Content: "weird role"},
			{Role: "assistant", Content: ""},
		},
		NewMessage: "maybe it's not about her at all",
	}

	messages := buildMessages(req)
	require.Len(t, messages, 4)
	assert.Equal(t, core.RoleAssistant, messages[0].Role)
	assert.Equal(t, core.RoleUser, messages[1].Role)
	assert.Equal(t, core.RoleUser, messages[2].Role) // unknown role collapses to user
	assert.Equal(t, core.RoleUser, messages[3].Role)
	assert.Equal(t, "maybe it's not about her at all", messages[3].Content)
}

func collect(t *testing.T, events <-chan Event, errCh <-chan error) ([]Event, error) {
	t.Helper()
	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	return got, <-errCh
}

func TestReply_StreamsDeltasThenDone(t *testing.T) {
	mock := provider.NewMock("m", 4)
	mock.SetStream("I hear", " you.\nTake", " your time.")
	s := NewSession(mock)

	events, errCh := s.Reply(context.Background(), ReplyRequest{NewMessage: "hello"})
	got, err := collect(t, events, errCh)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, EventDelta, got[0].Type)
	assert.Equal(t, "I hear", got[0].Data)
	assert.Equal(t, " you.[NEWLINE]Take", got[1].Data)
	assert.Equal(t, EventDone, got[3].Type)

	var reply string
	for _, ev := range got[:3] {
		reply += DecodeChunk(ev.Data)
	}
	assert.Equal(t, "I hear you.\nTake your time.", reply)
}

func TestReply_EmptyStreamError(t *testing.T) {
	mock := provider.NewMock("m", 4)
	mock.SetStream() // provider completes without emitting content
	s := NewSession(mock)

	events, errCh := s.Reply(context.Background(), ReplyRequest{NewMessage: "hello"})
	got, err := collect(t, events, errCh)
	assert.Empty(t, got) // no done frame
	assert.ErrorIs(t, err, core.ErrEmptyStream)
}

func TestReply_WhitespaceOnlyIsEmpty(t *testing.T) {
	mock := provider.NewMock("m", 4)
	mock.SetStream("  ", "\n")
	s := NewSession(mock)

	events, errCh := s.Reply(context.Background(), ReplyRequest{NewMessage: "hello"})
	got, err := collect(t, events, errCh)
	assert.ErrorIs(t, err, core.ErrEmptyStream)
	// Whitespace deltas are still forwarded; only the terminal signal differs.
	assert.Len(t, got, 2)
}

func TestReply_StreamErrorForwarded(t *testing.T) {
	mock := provider.NewMock("m", 4)
	mock.SetStream("partial")
	mock.FailStream(errors.New("connection reset"))
	s := NewSession(mock)

	events, errCh := s.Reply(context.Background(), ReplyRequest{NewMessage: "hello"})
	got, err := collect(t, events, errCh)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTransport)
	for _, ev := range got {
		assert.NotEqual(t, EventDone, ev.Type)
	}
}

func TestNewSession_UniqueIDs(t *testing.T) {
	mock := provider.NewMock("m", 4)
	a := NewSession(mock)
	b := NewSession(mock)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
