package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned when a password is shorter than MinPasswordLength.
	ErrWeakPassword = errors.New("password should be at least 6 characters")

	// ErrEmptyEmail is returned when an email is required but blank.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrEmptyPassword is returned when a password is required but blank.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrInvalidDocument is returned when a stored document is missing
	// fields the entity needs.
	ErrInvalidDocument = errors.New("invalid document")
)
