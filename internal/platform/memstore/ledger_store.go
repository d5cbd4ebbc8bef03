package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/store"
)

// LedgerStore implements store.LedgerStore backed by per-user date maps.
type LedgerStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]map[domain.Date]domain.AdherenceRecord
}

// Ensure LedgerStore implements store.LedgerStore
var _ store.LedgerStore = (*LedgerStore)(nil)

// NewLedgerStore creates an empty LedgerStore.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		records: make(map[uuid.UUID]map[domain.Date]domain.AdherenceRecord),
	}
}

// Commit implements store.LedgerStore.Commit. Keying by date makes the
// commit idempotent per date: a recommit replaces, never duplicates.
func (s *LedgerStore) Commit(ctx context.Context, userID uuid.UUID, record domain.AdherenceRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byDate, ok := s.records[userID]
	if !ok {
		byDate = make(map[domain.Date]domain.AdherenceRecord)
		s.records[userID] = byDate
	}
	byDate[record.Date] = record
	return nil
}

// Series implements store.LedgerStore.Series.
func (s *LedgerStore) Series(ctx context.Context, userID uuid.UUID, from, to domain.Date) ([]domain.AdherenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.AdherenceRecord
	for date, record := range s.records[userID] {
		if date.Before(from) || to.Before(date) {
			continue
		}
		result = append(result, record)
	}

	sortByDate(result)
	return result, nil
}

// All implements store.LedgerStore.All.
func (s *LedgerStore) All(ctx context.Context, userID uuid.UUID) ([]domain.AdherenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AdherenceRecord, 0, len(s.records[userID]))
	for _, record := range s.records[userID] {
		result = append(result, record)
	}

	sortByDate(result)
	return result, nil
}

func sortByDate(records []domain.AdherenceRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}
