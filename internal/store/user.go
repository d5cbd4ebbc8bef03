// Package store defines the persistence interfaces for the tracker's
// entities, together with the sentinel errors implementations must return.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/medtrack-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The user must already carry a credential digest; stores never see
	// plaintext secrets.
	// Returns ErrUsernameExists if the username is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their username (case-sensitive).
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns all users in insertion order. Used by the snapshot
	// collaborator to externalize state.
	List(ctx context.Context) ([]*domain.User, error)
}
