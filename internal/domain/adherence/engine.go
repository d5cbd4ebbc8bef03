// Package adherence implements the pure adherence computations: daily and
// weekly percentages, the streak day-close rule, and feedback tiers.
//
// Every function here is a pure computation over schedule counts and ledger
// records; nothing in this package mutates a store.
package adherence

import (
	"math"

	"github.com/phrazzld/medtrack-api/internal/domain"
)

// weeklyWindowDays is the length of the trailing window used for the
// weekly trend, today inclusive.
const weeklyWindowDays = 7

// Daily returns the day's adherence percentage: taken/total scaled to 0-100
// and rounded to the nearest integer, ties away from zero. A day with no
// scheduled medicines is 0.
//
// This is the single rounding rule for the whole application; every other
// percentage in this package is derived through it.
func Daily(taken, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(taken) / float64(total) * 100))
}

// Weekly returns the mean daily adherence over the 7 calendar days ending
// today inclusive. Days without a record count as 0% and stay in the
// denominator. The result uses the same rounding rule as Daily.
//
// The caller decides whether "today" is represented: the ledger only holds
// closed days, so the tracker synthesizes a record for the current day from
// the live schedule before calling Weekly.
func Weekly(records []domain.AdherenceRecord, today domain.Date) int {
	byDate := make(map[domain.Date]domain.AdherenceRecord, len(records))
	for _, r := range records {
		byDate[r.Date] = r
	}

	sum := 0
	for i := 0; i < weeklyWindowDays; i++ {
		day := today.AddDays(-i)
		if r, ok := byDate[day]; ok {
			sum += Daily(r.TakenCount, r.TotalCount)
		}
	}

	return int(math.Round(float64(sum) / weeklyWindowDays))
}

// ApplyDay folds one closed day into the streak and returns the new counter.
// A fully-adherent day with at least one medicine extends the streak; an
// incomplete day with at least one medicine resets it; a day with nothing
// scheduled leaves it unchanged.
//
// The input counter is not modified; a new value is returned.
func ApplyDay(streak domain.StreakCounter, daily, total int) domain.StreakCounter {
	if total <= 0 {
		return streak
	}

	if daily == 100 {
		return domain.StreakCounter{Value: streak.Value + 1}
	}

	return domain.StreakCounter{Value: 0}
}

// Tier maps a day's adherence onto the feedback tier shown by the
// collaborating UI.
func Tier(daily, total int) domain.FeedbackTier {
	switch {
	case total <= 0:
		return domain.TierEmpty
	case daily == 100:
		return domain.TierProud
	default:
		return domain.TierEncouraging
	}
}
