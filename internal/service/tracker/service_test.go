package tracker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/platform/memstore"
	"github.com/phrazzld/medtrack-api/internal/service/session"
	"github.com/phrazzld/medtrack-api/internal/store"
)

// fixture wires a tracker over in-memory stores with a controllable clock.
// The session TTL is generous so multi-day scenarios do not trip the
// staleness check; expiry behavior has its own test.
type fixture struct {
	svc      Service
	sessions *session.Manager
	ledger   *memstore.LedgerStore
	now      *time.Time
	userID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	f := &fixture{now: &now, userID: uuid.New()}
	timeFunc := func() time.Time { return *f.now }

	f.sessions = session.NewManagerWithClock(365*24*time.Hour, timeFunc)
	f.ledger = memstore.NewLedgerStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewWithClock(memstore.NewScheduleStore(), f.ledger, memstore.NewStateStore(), f.sessions, logger, timeFunc)

	f.sessions.Login(f.userID)
	return f
}

func (f *fixture) advanceDays(n int) {
	*f.now = f.now.AddDate(0, 0, n)
}

func (f *fixture) add(t *testing.T, name string, at domain.TimeOfDay) *domain.MedicineEntry {
	t.Helper()
	entry, err := f.svc.AddMedicine(context.Background(), f.userID, name, at, "", "")
	require.NoError(t, err)
	return entry
}

func (f *fixture) stats(t *testing.T) *Stats {
	t.Helper()
	stats, err := f.svc.GetStats(context.Background(), f.userID)
	require.NoError(t, err)
	return stats
}

func TestAddAndListMedicines(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	b := f.add(t, "Metformin", domain.TimeOfDay{Hour: 21})

	list, err := f.svc.ListMedicines(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, "Amlodipine", list[0].Name)
	assert.False(t, list[0].Taken)
	assert.Equal(t, b.ID, list[1].ID)
}

func TestEditMedicine(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	entry := f.add(t, "Paracetamol", domain.TimeOfDay{Hour: 9})

	t.Run("partial edit leaves other fields alone", func(t *testing.T) {
		newName := "Ibuprofen"
		newDose := "400mg"
		got, err := f.svc.EditMedicine(ctx, f.userID, entry.ID, EditFields{Name: &newName, Dose: &newDose})
		require.NoError(t, err)

		assert.Equal(t, "Ibuprofen", got.Name)
		assert.Equal(t, "400mg", got.Dose)
		assert.Equal(t, entry.ScheduledTime, got.ScheduledTime)
		assert.Equal(t, entry.ID, got.ID)
		assert.Equal(t, entry.DateCreated, got.DateCreated)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		empty := ""
		_, err := f.svc.EditMedicine(ctx, f.userID, entry.ID, EditFields{Name: &empty})
		assert.ErrorIs(t, err, domain.ErrEmptyMedicineName)
	})

	t.Run("unknown id", func(t *testing.T) {
		name := "x"
		_, err := f.svc.EditMedicine(ctx, f.userID, uuid.New(), EditFields{Name: &name})
		assert.ErrorIs(t, err, store.ErrMedicineNotFound)
	})
}

func TestSetTakenDrivesDailyAdherence(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	b := f.add(t, "Metformin", domain.TimeOfDay{Hour: 21})

	stats := f.stats(t)
	assert.Equal(t, 0, stats.Daily)
	assert.Equal(t, domain.TierEncouraging, stats.Tier)

	_, err := f.svc.SetTaken(ctx, f.userID, a.ID, true)
	require.NoError(t, err)

	stats = f.stats(t)
	assert.Equal(t, 50, stats.Daily)
	assert.Equal(t, 0, stats.Streak)
	assert.Equal(t, domain.TierEncouraging, stats.Tier)

	_, err = f.svc.SetTaken(ctx, f.userID, b.ID, true)
	require.NoError(t, err)

	stats = f.stats(t)
	assert.Equal(t, 100, stats.Daily)
	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, domain.TierProud, stats.Tier)
}

func TestUntakingRevokesTodaysStreakCredit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	entry := f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	_, err := f.svc.SetTaken(ctx, f.userID, entry.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, f.stats(t).Streak)

	_, err = f.svc.SetTaken(ctx, f.userID, entry.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, f.stats(t).Streak)

	// Re-taking credits again, but only once.
	_, err = f.svc.SetTaken(ctx, f.userID, entry.ID, true)
	require.NoError(t, err)
	_, err = f.svc.SetTaken(ctx, f.userID, entry.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, f.stats(t).Streak)
}

func TestAddingAfterFullDayRevokesCredit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	entry := f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	_, err := f.svc.SetTaken(ctx, f.userID, entry.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, f.stats(t).Streak)

	// A new untaken entry drops today below 100%.
	f.add(t, "Metformin", domain.TimeOfDay{Hour: 21})

	stats := f.stats(t)
	assert.Equal(t, 50, stats.Daily)
	assert.Equal(t, 0, stats.Streak)
}

func TestRemovingLastUntakenEntryCompletesDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	b := f.add(t, "Metformin", domain.TimeOfDay{Hour: 21})

	_, err := f.svc.SetTaken(ctx, f.userID, a.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 0, f.stats(t).Streak)

	// Removing the only untaken entry leaves a 100% day.
	require.NoError(t, f.svc.RemoveMedicine(ctx, f.userID, b.ID))
	assert.Equal(t, 1, f.stats(t).Streak)
}

func TestRemoveMedicineTwice(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	entry := f.add(t, "Paracetamol", domain.TimeOfDay{Hour: 9})

	require.NoError(t, f.svc.RemoveMedicine(ctx, f.userID, entry.ID))
	assert.ErrorIs(t, f.svc.RemoveMedicine(ctx, f.userID, entry.ID), store.ErrMedicineNotFound)
}

func TestMarkAllTaken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	f.add(t, "Metformin", domain.TimeOfDay{Hour: 13})
	f.add(t, "Cetirizine", domain.TimeOfDay{Hour: 21})

	_, err := f.svc.SetTaken(ctx, f.userID, a.ID, true)
	require.NoError(t, err)

	// Only entries that were untaken count as updated.
	updated, err := f.svc.MarkAllTaken(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	stats := f.stats(t)
	assert.Equal(t, 100, stats.Daily)
	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, domain.TierProud, stats.Tier)

	// A second pass has nothing left to update and credits nothing new.
	updated, err = f.svc.MarkAllTaken(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
	assert.Equal(t, 1, f.stats(t).Streak)
}

func TestResetSchedule(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	f.add(t, "Metformin", domain.TimeOfDay{Hour: 21})
	_, err := f.svc.MarkAllTaken(ctx, f.userID)
	require.NoError(t, err)
	require.Equal(t, 1, f.stats(t).Streak)

	removed, err := f.svc.ResetSchedule(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list, err := f.svc.ListMedicines(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// An empty day no longer qualifies, so today's provisional credit is gone.
	stats := f.stats(t)
	assert.Equal(t, 0, stats.Streak)
	assert.Equal(t, domain.TierEmpty, stats.Tier)

	// Closed days stay in the ledger; only the live schedule was wiped.
	records, err := f.ledger.All(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, records, "reset commits nothing to the ledger")

	removed, err = f.svc.ResetSchedule(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestResetScheduleKeepsClosedDays(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	_, err := f.svc.MarkAllTaken(ctx, f.userID)
	require.NoError(t, err)
	f.advanceDays(1)

	f.add(t, "Metformin", domain.TimeOfDay{Hour: 21})
	_, err = f.svc.ResetSchedule(ctx, f.userID)
	require.NoError(t, err)

	records, err := f.ledger.All(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-06-01", records[0].Date.String())
	assert.Equal(t, 1, records[0].TakenCount)
}

func TestMarkAllTakenOnEmptySchedule(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	updated, err := f.svc.MarkAllTaken(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	stats := f.stats(t)
	assert.Equal(t, 0, stats.Daily)
	assert.Equal(t, 0, stats.Streak)
	assert.Equal(t, domain.TierEmpty, stats.Tier)
}

func TestRolloverClosesOutgoingDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	f.add(t, "Metformin", domain.TimeOfDay{Hour: 21})
	_, err := f.svc.SetTaken(ctx, f.userID, a.ID, true)
	require.NoError(t, err)

	f.advanceDays(1)

	// The first operation on the new day triggers the rollover.
	list, err := f.svc.ListMedicines(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, list, "schedule starts fresh after a day boundary")

	records, err := f.ledger.All(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-06-01", records[0].Date.String())
	assert.Equal(t, 1, records[0].TakenCount)
	assert.Equal(t, 2, records[0].TotalCount)

	// Further operations on the same day do not commit again.
	_, err = f.svc.ListMedicines(ctx, f.userID)
	require.NoError(t, err)
	records, err = f.ledger.All(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStreakOverConsecutivePerfectDays(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	for day := 0; day < 5; day++ {
		f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
		_, err := f.svc.MarkAllTaken(ctx, f.userID)
		require.NoError(t, err)
		require.Equal(t, day+1, f.stats(t).Streak)
		f.advanceDays(1)
	}

	// The live credits already counted each day; crossing the boundary must
	// not double-count the outgoing one.
	assert.Equal(t, 5, f.stats(t).Streak)
}

func TestIncompleteDayResetsStreakAtRollover(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	// Two perfect days.
	for day := 0; day < 2; day++ {
		f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
		_, err := f.svc.MarkAllTaken(ctx, f.userID)
		require.NoError(t, err)
		f.advanceDays(1)
	}

	// A half-adherent day.
	f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	f.add(t, "Metformin", domain.TimeOfDay{Hour: 21})
	entries, err := f.svc.ListMedicines(ctx, f.userID)
	require.NoError(t, err)
	_, err = f.svc.SetTaken(ctx, f.userID, entries[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, f.stats(t).Streak, "streak intact while the day is still open")

	f.advanceDays(1)
	assert.Equal(t, 0, f.stats(t).Streak, "closing a sub-100% day resets the streak")
}

func TestEmptyDayLeavesStreakUntouched(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	_, err := f.svc.MarkAllTaken(ctx, f.userID)
	require.NoError(t, err)
	f.advanceDays(1)

	// Touch the tracker so the empty day is the one being closed next.
	_, err = f.svc.ListMedicines(ctx, f.userID)
	require.NoError(t, err)
	f.advanceDays(1)

	assert.Equal(t, 1, f.stats(t).Streak, "a day with nothing scheduled neither extends nor resets")
}

func TestWeeklyAdherenceIncludesToday(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	// Three closed perfect days, then a live perfect day.
	for day := 0; day < 3; day++ {
		f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
		_, err := f.svc.MarkAllTaken(ctx, f.userID)
		require.NoError(t, err)
		f.advanceDays(1)
	}
	f.add(t, "Amlodipine", domain.TimeOfDay{Hour: 9})
	_, err := f.svc.MarkAllTaken(ctx, f.userID)
	require.NoError(t, err)

	stats := f.stats(t)
	assert.Equal(t, 100, stats.Daily)
	// Four perfect days out of seven: 400 / 7 = 57.14...
	assert.Equal(t, 57, stats.Weekly)
}

func TestOperationsRequireSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	t.Run("other user has no session", func(t *testing.T) {
		_, err := f.svc.ListMedicines(ctx, uuid.New())
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("logged out", func(t *testing.T) {
		f.sessions.Logout()
		_, err := f.svc.GetStats(ctx, f.userID)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})
}

func TestExpiredSessionBlocksOperations(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	timeFunc := func() time.Time { return now }
	sessions := session.NewManagerWithClock(48*time.Hour, timeFunc)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewWithClock(memstore.NewScheduleStore(), memstore.NewLedgerStore(), memstore.NewStateStore(), sessions, logger, timeFunc)

	userID := uuid.New()
	sessions.Login(userID)

	now = now.Add(49 * time.Hour)

	_, err := svc.ListMedicines(context.Background(), userID)
	assert.ErrorIs(t, err, session.ErrSessionExpired)

	// The expired session was cleared; the user must log in again.
	_, err = svc.ListMedicines(context.Background(), userID)
	assert.ErrorIs(t, err, session.ErrNoSession)

	sessions.Login(userID)
	_, err = svc.ListMedicines(context.Background(), userID)
	assert.NoError(t, err)
}

func TestStatsOnFreshUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	stats := f.stats(t)
	assert.Equal(t, 0, stats.Daily)
	assert.Equal(t, 0, stats.Weekly)
	assert.Equal(t, 0, stats.Streak)
	assert.Equal(t, domain.TierEmpty, stats.Tier)
}

func TestUsersAreIsolated(t *testing.T) {
	t.Parallel()

	// Two trackers sharing stores but with separate sessions; the singleton
	// session means only one user is active at a time.
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	timeFunc := func() time.Time { return now }
	sessions := session.NewManagerWithClock(48*time.Hour, timeFunc)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	schedule := memstore.NewScheduleStore()
	svc := NewWithClock(schedule, memstore.NewLedgerStore(), memstore.NewStateStore(), sessions, logger, timeFunc)

	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	sessions.Login(alice)
	_, err := svc.AddMedicine(ctx, alice, "Amlodipine", domain.TimeOfDay{Hour: 9}, "", "")
	require.NoError(t, err)

	sessions.Login(bob)
	list, err := svc.ListMedicines(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Alice's session was displaced by bob's login.
	_, err = svc.ListMedicines(ctx, alice)
	assert.ErrorIs(t, err, session.ErrNoSession)
}
