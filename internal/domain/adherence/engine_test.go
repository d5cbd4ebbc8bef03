package adherence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/medtrack-api/internal/domain"
)

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDaily(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		taken    int
		total    int
		expected int
	}{
		{name: "empty schedule is zero", taken: 0, total: 0, expected: 0},
		{name: "nothing taken", taken: 0, total: 4, expected: 0},
		{name: "half taken", taken: 1, total: 2, expected: 50},
		{name: "all taken", taken: 2, total: 2, expected: 100},
		{name: "one third rounds down", taken: 1, total: 3, expected: 33},
		{name: "two thirds rounds up", taken: 2, total: 3, expected: 67},
		{name: "exact half percent rounds away from zero", taken: 1, total: 8, expected: 13}, // 12.5%
		{name: "five of six", taken: 5, total: 6, expected: 83},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Daily(tc.taken, tc.total))
		})
	}
}

func TestDailyStaysInBounds(t *testing.T) {
	t.Parallel()

	for total := 1; total <= 10; total++ {
		for taken := 0; taken <= total; taken++ {
			got := Daily(taken, total)
			assert.GreaterOrEqual(t, got, 0, "taken=%d total=%d", taken, total)
			assert.LessOrEqual(t, got, 100, "taken=%d total=%d", taken, total)
		}
	}
}

func TestWeekly(t *testing.T) {
	t.Parallel()

	today := mustDate(t, "2025-06-08")

	record := func(day string, taken, total int) domain.AdherenceRecord {
		return domain.AdherenceRecord{Date: mustDate(t, day), TakenCount: taken, TotalCount: total}
	}

	testCases := []struct {
		name     string
		records  []domain.AdherenceRecord
		expected int
	}{
		{
			name:     "no records at all",
			records:  nil,
			expected: 0,
		},
		{
			name: "seven perfect days",
			records: []domain.AdherenceRecord{
				record("2025-06-02", 2, 2), record("2025-06-03", 2, 2),
				record("2025-06-04", 2, 2), record("2025-06-05", 2, 2),
				record("2025-06-06", 2, 2), record("2025-06-07", 2, 2),
				record("2025-06-08", 2, 2),
			},
			expected: 100,
		},
		{
			name: "missing days count as zero",
			records: []domain.AdherenceRecord{
				record("2025-06-07", 2, 2),
				record("2025-06-08", 2, 2),
			},
			expected: 29, // 200 / 7 = 28.57...
		},
		{
			name: "records outside the window are ignored",
			records: []domain.AdherenceRecord{
				record("2025-06-01", 2, 2), // 8 days ago
				record("2025-06-08", 1, 2),
			},
			expected: 7, // 50 / 7 = 7.14...
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Weekly(tc.records, today))
		})
	}
}

func TestApplyDay(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		streak   int
		daily    int
		total    int
		expected int
	}{
		{name: "perfect day extends streak", streak: 3, daily: 100, total: 2, expected: 4},
		{name: "perfect day starts streak", streak: 0, daily: 100, total: 1, expected: 1},
		{name: "incomplete day resets streak", streak: 9, daily: 50, total: 2, expected: 0},
		{name: "zero percent resets streak", streak: 1, daily: 0, total: 2, expected: 0},
		{name: "empty day leaves streak untouched", streak: 5, daily: 0, total: 0, expected: 5},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ApplyDay(domain.StreakCounter{Value: tc.streak}, tc.daily, tc.total)
			assert.Equal(t, tc.expected, got.Value)
		})
	}
}

func TestApplyDayConsecutive(t *testing.T) {
	t.Parallel()

	// N consecutive fully-adherent days yield a streak of N.
	streak := domain.StreakCounter{}
	for i := 0; i < 14; i++ {
		streak = ApplyDay(streak, 100, 3)
	}
	assert.Equal(t, 14, streak.Value)

	// One incomplete day wipes it out regardless of prior value.
	streak = ApplyDay(streak, 99, 3)
	assert.Equal(t, 0, streak.Value)
}

func TestTier(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		daily    int
		total    int
		expected domain.FeedbackTier
	}{
		{name: "nothing scheduled", daily: 0, total: 0, expected: domain.TierEmpty},
		{name: "nothing taken", daily: 0, total: 3, expected: domain.TierEncouraging},
		{name: "partial", daily: 67, total: 3, expected: domain.TierEncouraging},
		{name: "almost there", daily: 99, total: 100, expected: domain.TierEncouraging},
		{name: "perfect", daily: 100, total: 3, expected: domain.TierProud},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Tier(tc.daily, tc.total))
		})
	}
}

// Guards against accidental reintroduction of time-zone sensitivity in the
// weekly window arithmetic.
func TestWeeklyWindowUsesCalendarDays(t *testing.T) {
	t.Parallel()

	today := domain.DateOf(time.Date(2025, time.March, 1, 0, 30, 0, 0, time.UTC))
	records := []domain.AdherenceRecord{
		{Date: mustDate(t, "2025-02-23"), TakenCount: 1, TotalCount: 1}, // 6 days before, in window
		{Date: mustDate(t, "2025-02-22"), TakenCount: 1, TotalCount: 1}, // 7 days before, out of window
	}

	assert.Equal(t, 14, Weekly(records, today)) // 100 / 7 = 14.28...
}
