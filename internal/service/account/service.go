// Package account implements registration and credential verification on
// top of the user store.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/service/auth"
	"github.com/phrazzld/medtrack-api/internal/store"
)

// Service provides account registration and authentication.
type Service interface {
	// Register creates a new user with the given username and secret.
	// The secret is stored only as a bcrypt digest.
	// Returns store.ErrUsernameExists when the username is taken, or a
	// domain validation error for an unacceptable username/secret.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// Authenticate verifies a login attempt.
	// Returns store.ErrUserNotFound when the username is unknown and
	// auth.ErrBadCredential when the secret does not match.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	logger    *slog.Logger
}

// NewService creates an account Service.
func NewService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) Service {
	return &serviceImpl{
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
		logger:    logger.With("component", "account_service"),
	}
}

// Register implements Service.Register.
func (s *serviceImpl) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" {
		return nil, domain.ErrEmptyUsername
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash credential", "error", err, "username", username)
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	user, err := domain.NewUser(username, digest)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return nil, err
		}
		s.logger.Error("failed to create user", "error", err, "username", username)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Authenticate implements Service.Authenticate. An unknown username and a
// wrong secret surface as distinct error kinds; the API layer decides how
// much of that distinction to expose.
func (s *serviceImpl) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error("failed to look up user", "error", err, "username", username)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, auth.ErrBadCredential
	}

	return user, nil
}
