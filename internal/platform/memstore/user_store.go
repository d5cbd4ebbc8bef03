// Package memstore provides in-memory, mutex-guarded implementations of
// the store interfaces. The core keeps all state in process memory by
// design; durable storage is an external collaborator (see the snapshot
// package).
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/store"
)

// UserStore implements store.UserStore backed by maps.
type UserStore struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*domain.User
	byUsername map[string]uuid.UUID
	order      []uuid.UUID // insertion order for List
}

// Ensure UserStore implements store.UserStore
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:       make(map[uuid.UUID]*domain.User),
		byUsername: make(map[string]uuid.UUID),
	}
}

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[user.Username]; exists {
		return store.ErrUsernameExists
	}

	clone := *user
	s.byID[clone.ID] = &clone
	s.byUsername[clone.Username] = clone.ID
	s.order = append(s.order, clone.ID)
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// GetByUsername implements store.UserStore.GetByUsername.
// The lookup is case-sensitive.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	clone := *s.byID[id]
	return &clone, nil
}

// List implements store.UserStore.List.
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.order))
	for _, id := range s.order {
		clone := *s.byID[id]
		users = append(users, &clone)
	}
	return users, nil
}
