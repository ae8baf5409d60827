// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when email or password do not match.
	// Login never reveals whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidGoogleToken is returned when a federated ID token fails verification.
	ErrInvalidGoogleToken = errors.New("invalid google id token")
)
