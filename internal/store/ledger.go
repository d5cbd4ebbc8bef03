package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/medtrack-api/internal/domain"
)

// LedgerStore defines the interface for the append-only history of closed
// days. Records are immutable once written; committing the same date again
// replaces the record rather than duplicating it.
type LedgerStore interface {
	// Commit writes the record for its date, replacing any existing record
	// for that date (idempotent per date).
	// Returns validation errors from the domain AdherenceRecord if data is
	// invalid.
	Commit(ctx context.Context, userID uuid.UUID, record domain.AdherenceRecord) error

	// Series returns the user's records with from <= date <= to, sorted by
	// date ascending. Dates with no record are simply absent; consumers
	// treat them as 0%.
	Series(ctx context.Context, userID uuid.UUID, from, to domain.Date) ([]domain.AdherenceRecord, error)

	// All returns every record for the user sorted by date ascending.
	// Used by the snapshot collaborator to externalize state.
	All(ctx context.Context, userID uuid.UUID) ([]domain.AdherenceRecord, error)
}

// StateStore defines the interface for per-user tracker bookkeeping:
// streak counter, streak credit date, and last seen date.
type StateStore interface {
	// Get retrieves the user's tracker state. A user with no saved state
	// gets a zero-valued TrackerState, not an error.
	Get(ctx context.Context, userID uuid.UUID) (*domain.TrackerState, error)

	// Save stores the user's tracker state, replacing any previous value.
	Save(ctx context.Context, userID uuid.UUID, state *domain.TrackerState) error
}
