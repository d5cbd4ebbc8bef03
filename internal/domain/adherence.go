package domain

// FeedbackTier classifies a day's adherence for the presentation layer.
// It is purely presentational; the adherence invariants are carried by the
// percentages and the streak counter.
type FeedbackTier string

// Possible feedback tier values
const (
	// TierEmpty means no medicines are scheduled for the day.
	TierEmpty FeedbackTier = "empty"

	// TierEncouraging means at least one medicine is scheduled and
	// adherence is below 100%.
	TierEncouraging FeedbackTier = "encouraging"

	// TierProud means every scheduled medicine has been taken.
	TierProud FeedbackTier = "proud"
)

// AdherenceRecord is the immutable ledger entry for one closed calendar day.
// Days with no record are treated as 0% by consumers; they are never
// materialized in the ledger.
type AdherenceRecord struct {
	Date       Date `json:"date"`
	TakenCount int  `json:"taken_count"`
	TotalCount int  `json:"total_count"`
}

// Validate checks if the AdherenceRecord has valid data.
func (r *AdherenceRecord) Validate() error {
	if r.Date.IsZero() {
		return ErrInvalidDate
	}

	if r.TakenCount < 0 || r.TotalCount < 0 || r.TakenCount > r.TotalCount {
		return ErrInvalidCounts
	}

	return nil
}

// StreakCounter counts consecutive fully-adherent days.
// Value only grows when a day reaches exactly 100% with at least one
// medicine scheduled, and resets to 0 on the first day below 100% with a
// non-empty schedule. Zero-medicine days leave it untouched.
type StreakCounter struct {
	Value int `json:"value"`
}

// TrackerState is the per-user rollover bookkeeping: the current streak,
// the date the streak was last credited, and the last calendar date the
// tracker has seen for this user.
type TrackerState struct {
	Streak       StreakCounter `json:"streak"`
	StreakDate   Date          `json:"streak_date"`
	LastSeenDate Date          `json:"last_seen_date"`
}

// Clone returns a copy of the state.
func (s *TrackerState) Clone() *TrackerState {
	clone := *s
	return &clone
}
