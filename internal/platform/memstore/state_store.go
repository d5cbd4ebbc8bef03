package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/store"
)

// StateStore implements store.StateStore backed by a map.
type StateStore struct {
	mu     sync.RWMutex
	states map[uuid.UUID]*domain.TrackerState
}

// Ensure StateStore implements store.StateStore
var _ store.StateStore = (*StateStore)(nil)

// NewStateStore creates an empty StateStore.
func NewStateStore() *StateStore {
	return &StateStore{
		states: make(map[uuid.UUID]*domain.TrackerState),
	}
}

// Get implements store.StateStore.Get. Users without saved state get a
// zero-valued TrackerState rather than an error.
func (s *StateStore) Get(ctx context.Context, userID uuid.UUID) (*domain.TrackerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]
	if !ok {
		return &domain.TrackerState{}, nil
	}
	return state.Clone(), nil
}

// Save implements store.StateStore.Save.
func (s *StateStore) Save(ctx context.Context, userID uuid.UUID, state *domain.TrackerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[userID] = state.Clone()
	return nil
}
