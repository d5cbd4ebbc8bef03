package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT access token used for API authorization
	Token string `json:"token"`
}

// CreateMedicineRequest defines the payload for adding a medicine entry.
// Time is an HH:MM 24-hour string.
type CreateMedicineRequest struct {
	Name string `json:"name" validate:"required"`
	Time string `json:"time" validate:"required"`
	Dose string `json:"dose"`
	Kind string `json:"kind"`
}

// UpdateMedicineRequest defines the payload for editing a medicine entry.
// Absent fields are left unchanged.
type UpdateMedicineRequest struct {
	Name *string `json:"name,omitempty"`
	Time *string `json:"time,omitempty"`
	Dose *string `json:"dose,omitempty"`
	Kind *string `json:"kind,omitempty"`
}

// SetTakenRequest defines the payload for marking a medicine taken or not.
// The pointer distinguishes an explicit false from an absent field.
type SetTakenRequest struct {
	Taken *bool `json:"taken" validate:"required"`
}

// MarkAllTakenResponse reports how many entries a bulk mark-all updated.
type MarkAllTakenResponse struct {
	Updated int `json:"updated"`
}

// ResetScheduleResponse reports how many entries a schedule reset removed.
type ResetScheduleResponse struct {
	Removed int `json:"removed"`
}
