// Package tracker implements the orchestrating service over the schedule,
// ledger, and state stores: day rollover, schedule operations, and the
// derived adherence statistics.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/domain/adherence"
	"github.com/phrazzld/medtrack-api/internal/service/session"
	"github.com/phrazzld/medtrack-api/internal/store"
)

// EditFields carries the mutable fields of a medicine entry for Edit.
// Nil pointers leave the corresponding field unchanged; ID and DateCreated
// can never be edited.
type EditFields struct {
	Name          *string
	ScheduledTime *domain.TimeOfDay
	Dose          *string
	Kind          *string
}

// Stats is the derived, read-only adherence snapshot for one user.
type Stats struct {
	Daily  int                 `json:"daily"`
	Weekly int                 `json:"weekly"`
	Streak int                 `json:"streak"`
	Tier   domain.FeedbackTier `json:"tier"`
}

// Service defines the core tracker operations invoked by the collaborating
// presentation layer. Every operation runs the session staleness check and
// the lazy day rollover before touching any state.
type Service interface {
	// AddMedicine appends a new entry to the user's active schedule.
	AddMedicine(ctx context.Context, userID uuid.UUID, name string, at domain.TimeOfDay, dose, kind string) (*domain.MedicineEntry, error)

	// EditMedicine updates the mutable fields of an entry in place.
	// Returns store.ErrMedicineNotFound for a stale id.
	EditMedicine(ctx context.Context, userID, entryID uuid.UUID, fields EditFields) (*domain.MedicineEntry, error)

	// SetTaken sets an entry's taken state. This is the only write path the
	// daily adherence numerator depends on.
	SetTaken(ctx context.Context, userID, entryID uuid.UUID, taken bool) (*domain.MedicineEntry, error)

	// RemoveMedicine deletes an entry. A second call for the same id
	// returns store.ErrMedicineNotFound.
	RemoveMedicine(ctx context.Context, userID, entryID uuid.UUID) error

	// MarkAllTaken sets every entry taken and returns how many entries were
	// updated.
	MarkAllTaken(ctx context.Context, userID uuid.UUID) (int, error)

	// ResetSchedule removes every entry from the active schedule and returns
	// how many entries were removed. The ledger keeps its closed days; only
	// the live day starts over.
	ResetSchedule(ctx context.Context, userID uuid.UUID) (int, error)

	// ListMedicines returns the active schedule in insertion order.
	ListMedicines(ctx context.Context, userID uuid.UUID) ([]*domain.MedicineEntry, error)

	// GetStats returns the daily and weekly adherence percentages, the
	// streak value, and the feedback tier.
	GetStats(ctx context.Context, userID uuid.UUID) (*Stats, error)
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	schedule store.ScheduleStore
	ledger   store.LedgerStore
	states   store.StateStore
	sessions *session.Manager
	logger   *slog.Logger
	timeFunc func() time.Time // Injectable for testing

	// Writes are serialized per user to preserve the single-writer
	// invariant the adherence model assumes.
	mu        sync.Mutex
	userLocks map[uuid.UUID]*sync.Mutex
}

// New creates a tracker Service over the given stores.
func New(
	schedule store.ScheduleStore,
	ledger store.LedgerStore,
	states store.StateStore,
	sessions *session.Manager,
	logger *slog.Logger,
) Service {
	return newWithClock(schedule, ledger, states, sessions, logger, time.Now)
}

// NewWithClock creates a tracker Service with an injected clock. Used by
// tests that need to cross a day boundary.
func NewWithClock(
	schedule store.ScheduleStore,
	ledger store.LedgerStore,
	states store.StateStore,
	sessions *session.Manager,
	logger *slog.Logger,
	timeFunc func() time.Time,
) Service {
	return newWithClock(schedule, ledger, states, sessions, logger, timeFunc)
}

func newWithClock(
	schedule store.ScheduleStore,
	ledger store.LedgerStore,
	states store.StateStore,
	sessions *session.Manager,
	logger *slog.Logger,
	timeFunc func() time.Time,
) Service {
	return &serviceImpl{
		schedule:  schedule,
		ledger:    ledger,
		states:    states,
		sessions:  sessions,
		logger:    logger.With("component", "tracker_service"),
		timeFunc:  timeFunc,
		userLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockUser returns the per-user mutex, creating it on first use.
func (s *serviceImpl) lockUser(userID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// begin runs the per-operation preamble: session staleness check, then the
// lazy day rollover. The returned unlock function releases the user lock.
func (s *serviceImpl) begin(ctx context.Context, userID uuid.UUID) (func(), error) {
	if err := s.sessions.Require(userID); err != nil {
		return nil, err
	}

	lock := s.lockUser(userID)
	lock.Lock()

	if err := s.rollover(ctx, userID); err != nil {
		lock.Unlock()
		return nil, err
	}

	return lock.Unlock, nil
}

// AddMedicine implements Service.AddMedicine.
func (s *serviceImpl) AddMedicine(ctx context.Context, userID uuid.UUID, name string, at domain.TimeOfDay, dose, kind string) (*domain.MedicineEntry, error) {
	unlock, err := s.begin(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	entry, err := domain.NewMedicineEntry(name, at, dose, kind, domain.DateOf(s.timeFunc()))
	if err != nil {
		return nil, err
	}

	if err := s.schedule.Add(ctx, userID, entry); err != nil {
		return nil, fmt.Errorf("failed to add medicine: %w", err)
	}

	if err := s.reconcileStreak(ctx, userID); err != nil {
		return nil, err
	}

	s.logger.Debug("medicine added", "user_id", userID, "entry_id", entry.ID, "name", name)
	return entry, nil
}

// EditMedicine implements Service.EditMedicine.
func (s *serviceImpl) EditMedicine(ctx context.Context, userID, entryID uuid.UUID, fields EditFields) (*domain.MedicineEntry, error) {
	unlock, err := s.begin(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	entry, err := s.schedule.Get(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if fields.Name != nil {
		entry.Name = *fields.Name
	}
	if fields.ScheduledTime != nil {
		entry.ScheduledTime = *fields.ScheduledTime
	}
	if fields.Dose != nil {
		entry.Dose = *fields.Dose
	}
	if fields.Kind != nil {
		entry.Kind = *fields.Kind
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.schedule.Update(ctx, userID, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// SetTaken implements Service.SetTaken.
func (s *serviceImpl) SetTaken(ctx context.Context, userID, entryID uuid.UUID, taken bool) (*domain.MedicineEntry, error) {
	unlock, err := s.begin(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	entry, err := s.schedule.Get(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	entry.Taken = taken
	if err := s.schedule.Update(ctx, userID, entry); err != nil {
		return nil, err
	}

	if err := s.reconcileStreak(ctx, userID); err != nil {
		return nil, err
	}

	return entry, nil
}

// RemoveMedicine implements Service.RemoveMedicine.
func (s *serviceImpl) RemoveMedicine(ctx context.Context, userID, entryID uuid.UUID) error {
	unlock, err := s.begin(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.schedule.Remove(ctx, userID, entryID); err != nil {
		return err
	}

	// Removing an untaken entry can complete the day; removing the last
	// entry can empty it. Either way the streak view must follow.
	return s.reconcileStreak(ctx, userID)
}

// MarkAllTaken implements Service.MarkAllTaken.
func (s *serviceImpl) MarkAllTaken(ctx context.Context, userID uuid.UUID) (int, error) {
	unlock, err := s.begin(ctx, userID)
	if err != nil {
		return 0, err
	}
	defer unlock()

	entries, err := s.schedule.List(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list schedule: %w", err)
	}

	updated := 0
	for _, entry := range entries {
		if entry.Taken {
			continue
		}
		entry.Taken = true
		if err := s.schedule.Update(ctx, userID, entry); err != nil {
			return updated, err
		}
		updated++
	}

	if err := s.reconcileStreak(ctx, userID); err != nil {
		return updated, err
	}

	return updated, nil
}

// ResetSchedule implements Service.ResetSchedule.
func (s *serviceImpl) ResetSchedule(ctx context.Context, userID uuid.UUID) (int, error) {
	unlock, err := s.begin(ctx, userID)
	if err != nil {
		return 0, err
	}
	defer unlock()

	entries, err := s.schedule.List(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list schedule: %w", err)
	}

	if err := s.schedule.Clear(ctx, userID); err != nil {
		return 0, fmt.Errorf("failed to clear schedule: %w", err)
	}

	// An empty day no longer qualifies, so any provisional credit for today
	// goes with the schedule.
	if err := s.reconcileStreak(ctx, userID); err != nil {
		return len(entries), err
	}

	s.logger.Info("schedule reset", "user_id", userID, "removed", len(entries))
	return len(entries), nil
}

// ListMedicines implements Service.ListMedicines.
func (s *serviceImpl) ListMedicines(ctx context.Context, userID uuid.UUID) ([]*domain.MedicineEntry, error) {
	unlock, err := s.begin(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.schedule.List(ctx, userID)
}

// GetStats implements Service.GetStats.
func (s *serviceImpl) GetStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	unlock, err := s.begin(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	entries, err := s.schedule.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule: %w", err)
	}
	taken, total := countTaken(entries)
	daily := adherence.Daily(taken, total)

	today := domain.DateOf(s.timeFunc())
	records, err := s.ledger.Series(ctx, userID, today.AddDays(-6), today)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	// The ledger only holds closed days; synthesize a record for today from
	// the live schedule so the current day participates in the trend.
	records = append(records, domain.AdherenceRecord{
		Date:       today,
		TakenCount: taken,
		TotalCount: total,
	})

	state, err := s.states.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracker state: %w", err)
	}

	return &Stats{
		Daily:  daily,
		Weekly: adherence.Weekly(records, today),
		Streak: state.Streak.Value,
		Tier:   adherence.Tier(daily, total),
	}, nil
}

// countTaken tallies the schedule's taken and total counts.
func countTaken(entries []*domain.MedicineEntry) (taken, total int) {
	for _, entry := range entries {
		if entry.Taken {
			taken++
		}
	}
	return taken, len(entries)
}
