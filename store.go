package session

import "sync"

// Store holds the single current Snapshot. It is mutated only through apply,
// and only the Manager calls apply, always followed by a broadcast.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
}

// NewStore returns a store holding the null-identity initial snapshot.
func NewStore() *Store {
	return &Store{}
}

// Read returns the current snapshot by value.
func (s *Store) Read() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// apply merges patch over the current snapshot and returns the result.
// When the resulting identity is empty the whole snapshot is reset, keeping
// the invariant that a logged out snapshot carries no profile fields.
func (s *Store) apply(patch Patch) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.applyTo(s.current)
	if next.ID == "" {
		next = Snapshot{}
	}

	s.current = next
	return next
}
