package fingerprint

import (
	"sync"

	"github.com/reverblab/reverb/core"
)

// InMemoryStore is a process-local fingerprint cache for callers that have no
// durable store of their own. It holds one fingerprint per note and hands out
// snapshots in the map shape Resolve consumes.
//
// Concurrency: protected by RWMutex. Linear memory in the number of notes;
// swap for a database-backed store when the journal outgrows one process.
type InMemoryStore struct {
	mu           sync.RWMutex
	fingerprints map[int64]core.Fingerprint
}

// NewInMemoryStore creates an empty in-memory fingerprint store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		fingerprints: make(map[int64]core.Fingerprint),
	}
}

// Get returns the stored fingerprint for a note, if any.
func (s *InMemoryStore) Get(noteID int64) (core.Fingerprint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fp, ok := s.fingerprints[noteID]
	return fp, ok
}

// Put stores the given fingerprints, replacing any previous entry per note.
// Feeding it the newly computed slice returned by Resolve keeps the store
// current across calls.
func (s *InMemoryStore) Put(fingerprints ...core.Fingerprint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fp := range fingerprints {
		s.fingerprints[fp.NoteID] = fp
	}
}

// Delete removes the fingerprint for a note, typically after the note itself
// was edited and the old vector no longer describes it.
func (s *InMemoryStore) Delete(noteID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fingerprints, noteID)
}

// Snapshot returns a copy of the store's contents, keyed by note ID.
func (s *InMemoryStore) Snapshot() map[int64]core.Fingerprint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]core.Fingerprint, len(s.fingerprints))
	for id, fp := range s.fingerprints {
		out[id] = fp
	}
	return out
}

// Len reports the number of stored fingerprints.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fingerprints)
}
