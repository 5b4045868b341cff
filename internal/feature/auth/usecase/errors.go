// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrInvalidCredentials is returned when email or password is wrong.
	// It deliberately does not distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotActivated is returned when a user tries to log in before
	// confirming their email address.
	ErrNotActivated = errors.New("account is not activated")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidRefreshToken is returned when a refresh token is revoked,
	// expired or otherwise unusable.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
