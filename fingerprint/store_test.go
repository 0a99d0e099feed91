package fingerprint

import (
	"context"
	"sync"
	"testing"

	"github.com/reverblab/reverb/core"
	"github.com/reverblab/reverb/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_PutGetDelete(t *testing.T) {
	store := NewInMemoryStore()

	fp := core.Fingerprint{NoteID: 1, Vector: []float64{1, 0}, Model: "test-model"}
	store.Put(fp)

	got, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, fp, got)

	store.Delete(1)
	_, ok = store.Get(1)
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestInMemoryStore_SnapshotIsACopy(t *testing.T) {
	store := NewInMemoryStore()
	store.Put(core.Fingerprint{NoteID: 1, Vector: []float64{1, 0}, Model: "test-model"})

	snap := store.Snapshot()
	delete(snap, 1)

	_, ok := store.Get(1)
	assert.True(t, ok)
}

func TestInMemoryStore_FeedsResolveAcrossCalls(t *testing.T) {
	mock := provider.NewMock("test-model", 4)
	r := NewResolver(mock)
	store := NewInMemoryStore()

	notes := []core.Note{note(1, "a"), note(2, "b")}

	_, computed, err := r.Resolve(context.Background(), notes, store.Snapshot())
	require.NoError(t, err)
	require.Len(t, computed, 2)
	store.Put(computed...)

	_, computed, err = r.Resolve(context.Background(), notes, store.Snapshot())
	require.NoError(t, err)
	assert.Empty(t, computed)
	assert.Equal(t, 1, mock.EmbedCalls)
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Put(core.Fingerprint{NoteID: id, Vector: []float64{1}, Model: "test-model"})
			store.Get(id)
			store.Snapshot()
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 20, store.Len())
}
