package domain

import (
	"github.com/google/uuid"
)

// MedicineEntry is a single scheduled medicine in the active day's schedule.
// The ID is assigned at creation and never changes through edits, so
// references held by the collaborating UI cannot dangle mid-lifecycle.
type MedicineEntry struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ScheduledTime TimeOfDay `json:"scheduled_time"`
	Dose          string    `json:"dose,omitempty"`
	Kind          string    `json:"kind,omitempty"`
	Taken         bool      `json:"taken"`
	DateCreated   Date      `json:"date_created"`
}

// NewMedicineEntry creates a new, not-yet-taken MedicineEntry scheduled at
// the given time of day. It generates a fresh UUID and stamps the entry with
// the supplied creation date. Returns an error if validation fails.
func NewMedicineEntry(name string, at TimeOfDay, dose, kind string, created Date) (*MedicineEntry, error) {
	entry := &MedicineEntry{
		ID:            uuid.New(),
		Name:          name,
		ScheduledTime: at,
		Dose:          dose,
		Kind:          kind,
		Taken:         false,
		DateCreated:   created,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the MedicineEntry has valid data.
// Returns an error if any field fails validation.
func (m *MedicineEntry) Validate() error {
	if m.ID == uuid.Nil {
		return ErrInvalidID
	}

	if m.Name == "" {
		return ErrEmptyMedicineName
	}

	return nil
}

// Clone returns a copy of the entry. Stores hand out clones so callers
// cannot mutate stored state behind the store's back.
func (m *MedicineEntry) Clone() *MedicineEntry {
	clone := *m
	return &clone
}
