package storage

import (
	"context"
	"sync"

	"github.com/attestia/certificate-registry-backend/interfaces"
)

// MemoryStore keeps the snapshot in process memory. Used by tests and for
// registries that do not need to survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	state *interfaces.RegistryState
}

var _ interfaces.StateStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the saved snapshot, or ErrStateNotFound if nothing
// has been saved.
func (s *MemoryStore) Load(ctx context.Context) (*interfaces.RegistryState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return nil, interfaces.ErrStateNotFound
	}
	return s.state.Clone(), nil
}

// Save replaces the snapshot with a copy of state.
func (s *MemoryStore) Save(ctx context.Context, state *interfaces.RegistryState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state.Clone()
	return nil
}

// Available always reports true for the in-memory store.
func (s *MemoryStore) Available(ctx context.Context) bool {
	return true
}

// Name returns a unique identifier for this store.
func (s *MemoryStore) Name() string {
	return "memory"
}

// LocationURI returns the URI this store was created from.
func (s *MemoryStore) LocationURI() string {
	return "mem://"
}
