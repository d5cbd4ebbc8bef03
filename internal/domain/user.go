package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user of the tracker.
// Only the bcrypt digest of the credential is ever stored; the plaintext
// secret exists solely as an argument to the auth service.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Never expose the credential digest in JSON
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with the given username and credential digest.
// It generates a new UUID for the user ID and sets the creation timestamp.
// Returns an error if validation fails.
//
// The caller is responsible for hashing the plaintext secret before calling
// this constructor; NewUser never sees the plaintext.
func NewUser(username, hashedPassword string) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrInvalidID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// ValidatePassword checks a plaintext secret against the length policy
// before it is hashed. The upper bound is bcrypt's 72-byte input limit.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < 8:
		return ErrPasswordTooShort
	case len(password) > 72:
		return ErrPasswordTooLong
	}
	return nil
}
