package session

import "sync"

// Store maps session identifiers to the last matched knowledge category.
// It is advisory conversation context: retrieval never consults it, but the
// chat service records it as a hook for follow-up handling. Entries live for
// the process lifetime; there is no eviction (see DESIGN.md).
type Store struct {
	mu         sync.RWMutex
	categories map[string]string
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{categories: make(map[string]string)}
}

// Set records the last matched category for a session. Concurrent writes to
// different sessions are independent; per key, last writer wins.
func (s *Store) Set(sessionID, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[sessionID] = category
}

// Get returns the last matched category for a session.
func (s *Store) Get(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.categories[sessionID]
	return category, ok
}

// Len returns the number of tracked sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categories)
}
