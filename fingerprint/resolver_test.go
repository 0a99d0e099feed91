package fingerprint

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reverblab/reverb/core"
	"github.com/reverblab/reverb/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(id int64, content string) core.Note {
	return core.Note{ID: id, Content: content, CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func TestResolve_AllCached_NoEmbedCall(t *testing.T) {
	mock := provider.NewMock("test-model", 4)
	r := NewResolver(mock)

	notes := []core.Note{note(1, "a"), note(2, "b")}
	existing := map[int64]core.Fingerprint{
		1: {NoteID: 1, Vector: []float64{1, 0, 0, 0}, Model: "test-model"},
		2: {NoteID: 2, Vector: []float64{0, 1, 0, 0}, Model: "test-model"},
	}

	resolved, computed, err := r.Resolve(context.Background(), notes, existing)
	require.NoError(t, err)
	assert.Zero(t, mock.EmbedCalls)
	assert.Empty(t, computed)
	assert.Len(t, resolved, 2)
	assert.Equal(t, existing[1], resolved[1])
}

func TestResolve_AllMissing_SingleBatchCall(t *testing.T) {
	mock := provider.NewMock("test-model", 4)
	r := NewResolver(mock)

	notes := []core.Note{note(1, "a"), note(2, "b"), note(3, "c")}
	resolved, computed, err := r.Resolve(context.Background(), notes, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.EmbedCalls)
	assert.Len(t, resolved, 3)
	require.Len(t, computed, 3)
	for i, fp := range computed {
		assert.Equal(t, notes[i].ID, fp.NoteID)
		assert.Equal(t, "test-model", fp.Model)
		assert.Len(t, fp.Vector, 4)
	}
}

func TestResolve_StaleModelTreatedAsMiss(t *testing.T) {
	mock := provider.NewMock("model-v2", 4)
	r := NewResolver(mock)

	notes := []core.Note{note(1, "a")}
	existing := map[int64]core.Fingerprint{
		1: {NoteID: 1, Vector: []float64{1, 0, 0, 0}, Model: "model-v1"},
	}

	resolved, computed, err := r.Resolve(context.Background(), notes, existing)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.EmbedCalls)
	require.Len(t, computed, 1)
	assert.Equal(t, "model-v2", resolved[1].Model)
}

func TestResolve_EmptyVectorTreatedAsMiss(t *testing.T) {
	mock := provider.NewMock("test-model", 4)
	r := NewResolver(mock)

	existing := map[int64]core.Fingerprint{1: {NoteID: 1, Model: "test-model"}}
	_, computed, err := r.Resolve(context.Background(), []core.Note{note(1, "a")}, existing)
	require.NoError(t, err)
	assert.Len(t, computed, 1)
}

func TestResolve_ProviderFailureIsAtomic(t *testing.T) {
	mock := provider.NewMock("test-model", 4)
	mock.FailEmbed(errors.New("connection refused"))
	r := NewResolver(mock)

	notes := []core.Note{note(1, "a"), note(2, "b")}
	existing := map[int64]core.Fingerprint{
		1: {NoteID: 1, Vector: []float64{1, 0, 0, 0}, Model: "test-model"},
	}

	resolved, computed, err := r.Resolve(context.Background(), notes, existing)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTransport)
	assert.Nil(t, resolved)
	assert.Nil(t, computed)
}

func TestResolve_MixedHitsAndMisses(t *testing.T) {
	mock := provider.NewMock("test-model", 4)
	r := NewResolver(mock)

	notes := []core.Note{note(1, "a"), note(2, "b"), note(3, "c")}
	existing := map[int64]core.Fingerprint{
		2: {NoteID: 2, Vector: []float64{0, 1, 0, 0}, Model: "test-model"},
	}

	resolved, computed, err := r.Resolve(context.Background(), notes, existing)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.EmbedCalls)
	assert.Len(t, resolved, 3)
	require.Len(t, computed, 2)
	assert.Equal(t, int64(1), computed[0].NoteID)
	assert.Equal(t, int64(3), computed[1].NoteID)
	// The cached fingerprint is reused unchanged.
	assert.Equal(t, existing[2], resolved[2])
}
