package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"users-ui/internal/usecase/userinterface"
)

// MemoryStateStore implements userinterface.StateStore in process memory.
// Expired entries are dropped lazily on access and on Save.
type MemoryStateStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	state     *userinterface.State
	expiresAt time.Time
}

// NewMemoryStateStore creates a new in-memory state store.
func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Load returns a copy of the stored state, or nil when absent or expired.
func (s *MemoryStateStore) Load(_ context.Context, key string) (*userinterface.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	return e.state.Clone(), nil
}

// Save stores a copy of state and extends its TTL.
func (s *MemoryStateStore) Save(_ context.Context, key string, state *userinterface.State) error {
	if state == nil {
		return fmt.Errorf("cannot store nil state")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}

	s.entries[key] = memoryEntry{state: state.Clone(), expiresAt: now.Add(s.ttl)}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
