package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/medtrack-api/internal/domain"
)

// ScheduleStore defines the interface for the active day's medicine
// schedule, keyed per user. Entries live here only until the day rolls
// over, at which point the tracker aggregates them into the ledger and
// clears the schedule.
type ScheduleStore interface {
	// Add appends a new entry to the user's schedule.
	// Returns validation errors from the domain MedicineEntry if data is
	// invalid.
	Add(ctx context.Context, userID uuid.UUID, entry *domain.MedicineEntry) error

	// Get retrieves a single entry by id.
	// Returns ErrMedicineNotFound if the entry does not exist.
	Get(ctx context.Context, userID, entryID uuid.UUID) (*domain.MedicineEntry, error)

	// Update replaces the stored entry having the same ID.
	// ID and DateCreated are immutable; implementations must preserve the
	// stored values for both.
	// Returns ErrMedicineNotFound if the entry does not exist.
	Update(ctx context.Context, userID uuid.UUID, entry *domain.MedicineEntry) error

	// Remove deletes an entry by id.
	// Returns ErrMedicineNotFound if the entry does not exist; a second
	// Remove for the same id must fail, never silently no-op.
	Remove(ctx context.Context, userID, entryID uuid.UUID) error

	// List returns the user's entries in stable insertion order.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.MedicineEntry, error)

	// Clear drops every entry in the user's schedule. Invoked by the day
	// rollover after the outgoing day has been committed to the ledger.
	Clear(ctx context.Context, userID uuid.UUID) error
}
