// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyUsername is returned when a username is empty.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrEmptyPassword is returned when a password is empty.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrPasswordTooShort is returned when a password is below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")

	// ErrPasswordTooLong is returned when a password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters long")

	// ErrEmptyHashedPassword is returned when a user carries no credential digest.
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")

	// ErrEmptyMedicineName is returned when a medicine entry has no name.
	ErrEmptyMedicineName = errors.New("medicine name cannot be empty")

	// ErrInvalidTimeOfDay is returned when a time-of-day string is not HH:MM 24-hour.
	ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:MM")

	// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrInvalidCounts is returned when an adherence record carries
	// negative counts or more taken than scheduled.
	ErrInvalidCounts = errors.New("invalid adherence counts")
)
