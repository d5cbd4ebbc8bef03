package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/service/auth"
	"github.com/phrazzld/medtrack-api/internal/service/session"
	"github.com/phrazzld/medtrack-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrBadCredential),
		errors.Is(err, session.ErrSessionExpired),
		errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized

	// An unknown username is a credential failure at this boundary, not a
	// resource miss. Checked before the generic not-found case so the
	// status stays aligned with GetSafeErrorMessage's "Invalid credentials".
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyUsername),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrEmptyMedicineName),
		errors.Is(err, domain.ErrInvalidTimeOfDay),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrBadCredential),
		errors.Is(err, store.ErrUserNotFound):
		// One message for both so login responses don't reveal which
		// usernames exist.
		return "Invalid credentials"

	case errors.Is(err, session.ErrSessionExpired):
		return "Session expired, please log in again"

	case errors.Is(err, session.ErrNoSession):
		return "No active session, please log in"

	// Not found errors
	case errors.Is(err, store.ErrMedicineNotFound):
		return "Medicine not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	// Validation errors keep their own message; domain errors carry no
	// sensitive detail.
	case MapErrorToStatusCode(err) == http.StatusBadRequest:
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// RespondWithMappedError writes the status code and sanitized message for
// the given internal error.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
}
