package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemorySessionStateStore is an in-memory implementation of SessionStateStore.
// Suitable for single-instance deployments.
type MemorySessionStateStore struct {
	states map[string]json.RawMessage // sessionID -> last state
	mu     sync.RWMutex
}

// NewMemorySessionStateStore creates a new in-memory session state store.
func NewMemorySessionStateStore() *MemorySessionStateStore {
	return &MemorySessionStateStore{
		states: make(map[string]json.RawMessage),
	}
}

// Put stores or overwrites the state for a session.
func (s *MemorySessionStateStore) Put(ctx context.Context, sessionID string, state json.RawMessage) error {
	// Copy so later mutations of the caller's buffer don't leak in.
	stateCopy := make(json.RawMessage, len(state))
	copy(stateCopy, state)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sessionID] = stateCopy
	return nil
}

// Get retrieves the last stored state for a session.
func (s *MemorySessionStateStore) Get(ctx context.Context, sessionID string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[sessionID]
	if !ok {
		return nil, false, nil
	}

	stateCopy := make(json.RawMessage, len(state))
	copy(stateCopy, state)
	return stateCopy, true, nil
}

// Len returns the number of sessions with stored state.
func (s *MemorySessionStateStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states), nil
}

// Ensure MemorySessionStateStore implements SessionStateStore interface
var _ SessionStateStore = (*MemorySessionStateStore)(nil)
