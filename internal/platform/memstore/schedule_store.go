package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/store"
)

// ScheduleStore implements store.ScheduleStore backed by per-user slices.
// Slices preserve the stable insertion order the List contract requires.
type ScheduleStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]*domain.MedicineEntry
}

// Ensure ScheduleStore implements store.ScheduleStore
var _ store.ScheduleStore = (*ScheduleStore)(nil)

// NewScheduleStore creates an empty ScheduleStore.
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{
		entries: make(map[uuid.UUID][]*domain.MedicineEntry),
	}
}

// Add implements store.ScheduleStore.Add.
func (s *ScheduleStore) Add(ctx context.Context, userID uuid.UUID, entry *domain.MedicineEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[userID] = append(s.entries[userID], entry.Clone())
	return nil
}

// Get implements store.ScheduleStore.Get.
func (s *ScheduleStore) Get(ctx context.Context, userID, entryID uuid.UUID) (*domain.MedicineEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.entries[userID] {
		if entry.ID == entryID {
			return entry.Clone(), nil
		}
	}
	return nil, store.ErrMedicineNotFound
}

// Update implements store.ScheduleStore.Update.
// The stored ID and DateCreated always win; callers cannot rewrite either.
func (s *ScheduleStore) Update(ctx context.Context, userID uuid.UUID, entry *domain.MedicineEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.entries[userID] {
		if existing.ID == entry.ID {
			clone := entry.Clone()
			clone.DateCreated = existing.DateCreated
			s.entries[userID][i] = clone
			return nil
		}
	}
	return store.ErrMedicineNotFound
}

// Remove implements store.ScheduleStore.Remove.
func (s *ScheduleStore) Remove(ctx context.Context, userID, entryID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.entries[userID]
	for i, entry := range list {
		if entry.ID == entryID {
			s.entries[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return store.ErrMedicineNotFound
}

// List implements store.ScheduleStore.List.
func (s *ScheduleStore) List(ctx context.Context, userID uuid.UUID) ([]*domain.MedicineEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.entries[userID]
	result := make([]*domain.MedicineEntry, 0, len(list))
	for _, entry := range list {
		result = append(result, entry.Clone())
	}
	return result, nil
}

// Clear implements store.ScheduleStore.Clear.
func (s *ScheduleStore) Clear(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
	return nil
}
