package tracker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/domain/adherence"
)

// rollover lazily closes the outgoing day when the calendar date has
// advanced since the user's last operation: it commits the outgoing day's
// totals to the ledger, folds the day into the streak, clears the active
// schedule, and records the new date. It runs at most once per date
// transition and always before the operation that triggered it.
//
// Callers must hold the user's lock.
func (s *serviceImpl) rollover(ctx context.Context, userID uuid.UUID) error {
	today := domain.DateOf(s.timeFunc())

	state, err := s.states.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read tracker state: %w", err)
	}

	// First operation ever for this user: nothing to close.
	if state.LastSeenDate.IsZero() {
		state.LastSeenDate = today
		return s.states.Save(ctx, userID, state)
	}

	if state.LastSeenDate == today {
		return nil
	}

	entries, err := s.schedule.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list schedule: %w", err)
	}
	taken, total := countTaken(entries)
	outgoing := state.LastSeenDate

	if err := s.ledger.Commit(ctx, userID, domain.AdherenceRecord{
		Date:       outgoing,
		TakenCount: taken,
		TotalCount: total,
	}); err != nil {
		return fmt.Errorf("failed to commit ledger record: %w", err)
	}

	// Fold the closed day into the streak. A fully-adherent day was already
	// credited live the moment it reached 100% (StreakDate == outgoing), so
	// only credit here if that somehow never happened.
	daily := adherence.Daily(taken, total)
	if state.StreakDate != outgoing || daily < 100 || total == 0 {
		state.Streak = adherence.ApplyDay(state.Streak, daily, total)
		if total > 0 && daily == 100 {
			state.StreakDate = outgoing
		}
	}

	if err := s.schedule.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear schedule: %w", err)
	}

	state.LastSeenDate = today
	if err := s.states.Save(ctx, userID, state); err != nil {
		return fmt.Errorf("failed to save tracker state: %w", err)
	}

	s.logger.Info("day rolled over",
		"user_id", userID,
		"closed_date", outgoing.String(),
		"taken", taken,
		"total", total,
		"streak", state.Streak.Value)
	return nil
}

// reconcileStreak keeps the live streak view consistent with today's
// schedule after a mutation. Reaching 100% with a non-empty schedule
// credits the streak immediately, at most once per date; if today later
// stops qualifying (an entry untaken, added, or removed), the provisional
// credit for today is revoked. The day-close rule in rollover then only
// has to handle the reset case.
//
// Callers must hold the user's lock.
func (s *serviceImpl) reconcileStreak(ctx context.Context, userID uuid.UUID) error {
	entries, err := s.schedule.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list schedule: %w", err)
	}
	taken, total := countTaken(entries)

	state, err := s.states.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read tracker state: %w", err)
	}

	today := domain.DateOf(s.timeFunc())
	qualifies := total > 0 && adherence.Daily(taken, total) == 100

	switch {
	case qualifies && state.StreakDate != today:
		state.Streak.Value++
		state.StreakDate = today
	case !qualifies && state.StreakDate == today:
		if state.Streak.Value > 0 {
			state.Streak.Value--
		}
		state.StreakDate = domain.Date{}
	default:
		return nil
	}

	return s.states.Save(ctx, userID, state)
}
