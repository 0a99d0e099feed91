package reverb

import (
	"context"
	"testing"
	"time"

	"github.com/reverblab/reverb/conversation"
	"github.com/reverblab/reverb/core"
	"github.com/reverblab/reverb/insight"
	"github.com/reverblab/reverb/internal/testutil"
	"github.com/reverblab/reverb/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(id int64, content string, day int) core.Note {
	return testutil.NewNoteBuilder(id).Content(content).On(2026, time.August, day).Build()
}

func TestCheckInsight_NotWorth(t *testing.T) {
	mock := provider.NewMock("test-model", 8)
	mock.QueueCompletion(`{"worth": false, "rationale": "routine"}`)
	engine := New(mock, mock, mock)

	today := note(1, "I always assume my boss is annoyed at me when she doesn't reply quickly", 20)
	history := []core.Note{note(2, "groceries list", 3), note(3, "fixed the bike", 5)}

	res, err := engine.CheckInsight(context.Background(), today, history, nil)
	require.NoError(t, err)
	assert.False(t, res.Worth)
	assert.Empty(t, res.Question)
	assert.Equal(t, 1, mock.EmbedCalls)
	assert.Len(t, res.NewFingerprints, 3)
}

func TestCheckInsight_WorthWithFollowUp(t *testing.T) {
	mock := provider.NewMock("test-model", 8)
	mock.QueueCompletion(`{"worth": true, "rationale": "attribution habit"}`)
	mock.QueueCompletion("What does a slow reply mean when it isn't about you?")
	engine := New(mock, mock, mock)

	today := note(1, "I always assume my boss is annoyed at me", 20)
	res, err := engine.CheckInsight(context.Background(), today, nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Worth)
	assert.Equal(t, "What does a slow reply mean when it isn't about you?", res.Question)
	assert.Equal(t, "attribution habit", res.Rationale)
	assert.Empty(t, res.Echoes)
}

func TestCrossDateInsight_EmptyHistory(t *testing.T) {
	mock := provider.NewMock("test-model", 8)
	engine := New(mock, mock, mock)

	today := []core.Note{note(1, "I always assume my boss is annoyed at me when she doesn't reply quickly", 20)}
	res, err := engine.CrossDateInsight(context.Background(), today, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Echoes)
	assert.Equal(t, insight.DefaultNoEchoSummary, res.Summary)
	assert.Zero(t, mock.EmbedCalls)
	assert.Zero(t, mock.CompleteCalls)
	assert.Empty(t, res.NewFingerprints)
}

func TestCrossDateInsight_PresuppliedFingerprints(t *testing.T) {
	mock := provider.NewMock("test-model", 2)
	mock.QueueCompletion("I notice the same waiting shows up again.")
	engine := New(mock, mock, mock)

	today := []core.Note{note(1, "waiting on a reply again", 20)}
	history := []core.Note{note(2, "the silence before an answer always feels loaded", 2)}
	// cos(a, b) = 0.9 exactly.
	fps := map[int64]core.Fingerprint{
		1: testutil.Fingerprint(1, "test-model", 1, 0),
		2: testutil.Fingerprint(2, "test-model", 0.9, 0.43588989435406735),
	}

	res, err := engine.CrossDateInsight(context.Background(), today, history, fps)
	require.NoError(t, err)
	assert.Zero(t, mock.EmbedCalls)
	assert.Empty(t, res.NewFingerprints)
	require.Len(t, res.Echoes, 1)
	require.Len(t, res.Echoes[0].Matches, 1)
	assert.Equal(t, int64(2), res.Echoes[0].Matches[0].Note.ID)
	assert.InDelta(t, 0.9, res.Echoes[0].Matches[0].Similarity, 1e-9)
	assert.Equal(t, "I notice the same waiting shows up again.", res.Summary)
}

func TestCrossDateInsight_NoTodayNotes(t *testing.T) {
	mock := provider.NewMock("test-model", 2)
	engine := New(mock, mock, mock)

	_, err := engine.CrossDateInsight(context.Background(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoNotes)
}

func TestCrossDateInsight_DimensionMismatchFailsLoudly(t *testing.T) {
	mock := provider.NewMock("test-model", 2)
	engine := New(mock, mock, mock)

	today := []core.Note{note(1, "a", 20)}
	history := []core.Note{note(2, "b", 2)}
	fps := map[int64]core.Fingerprint{
		1: testutil.Fingerprint(1, "test-model", 1, 0),
		2: testutil.Fingerprint(2, "test-model", 1, 0, 0),
	}

	_, err := engine.CrossDateInsight(context.Background(), today, history, fps)
	require.Error(t, err)
	var dim *core.DimensionMismatchError
	assert.ErrorAs(t, err, &dim)
}

func TestConverse_EmptyStreamSurfaces(t *testing.T) {
	mock := provider.NewMock("test-model", 2)
	mock.SetStream()
	engine := New(mock, mock, mock)

	events, errCh := engine.Converse(context.Background(), ConverseRequest{NewMessage: "hi"})
	for range events {
		t.Fatal("no frames expected from an empty stream")
	}
	assert.ErrorIs(t, <-errCh, core.ErrEmptyStream)
}

func TestConverse_StreamsReply(t *testing.T) {
	mock := provider.NewMock("test-model", 2)
	mock.SetStream("that sounds", " heavy to carry.")
	engine := New(mock, mock, mock)

	events, errCh := engine.Converse(context.Background(), ConverseRequest{
		ContextNotes:    []core.Note{note(1, "long day", 20)},
		InitialQuestion: "What made it long?",
		History:         testutil.NewDialogueBuilder().Raw("ai", "What made it long?").Build(),
		NewMessage:      "everything at once",
	})

	var reply string
	var done bool
	for ev := range events {
		switch ev.Type {
		case conversation.EventDelta:
			reply += conversation.DecodeChunk(ev.Data)
		case conversation.EventDone:
			done = true
		}
	}
	require.NoError(t, <-errCh)
	assert.True(t, done)
	assert.Equal(t, "that sounds heavy to carry.", reply)
}
