// Package api implements the HTTP handlers through which the presentation
// layer reads from and writes into the core.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/medtrack-api/internal/service/account"
	"github.com/phrazzld/medtrack-api/internal/service/auth"
	"github.com/phrazzld/medtrack-api/internal/service/session"
	"github.com/phrazzld/medtrack-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	accounts   account.Service
	sessions   *session.Manager
	jwtService auth.JWTService
	validator  *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	accounts account.Service,
	sessions *session.Manager,
	jwtService auth.JWTService,
) *AuthHandler {
	return &AuthHandler{
		accounts:   accounts,
		sessions:   sessions,
		jwtService: jwtService,
		validator:  validator.New(),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			RespondWithError(w, r, http.StatusConflict, "Username already exists")
			return
		}
		if MapErrorToStatusCode(err) == http.StatusBadRequest {
			RespondWithMappedError(w, r, err)
			return
		}
		slog.Error("failed to register user", "error", err, "username", req.Username)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	// Registration logs the new user straight in, matching the
	// single-session model.
	h.sessions.Login(user.ID)

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", user.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID: user.ID,
		Token:  token,
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) || errors.Is(err, auth.ErrBadCredential) {
			RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to authenticate user", "error", err, "username", req.Username)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	// Overwrites any prior session; only one session is supported.
	h.sessions.Login(user.ID)

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", user.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID: user.ID,
		Token:  token,
	})
}

// Logout handles the /auth/logout endpoint. Idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout()
	RespondWithJSON(w, r, http.StatusNoContent, nil)
}
