// Package usecase implements the business logic for the users feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by ID or token.
	ErrUserNotFound = errors.New("user not found")

	// ErrNameAlreadyExists is returned when the unique name constraint is violated.
	ErrNameAlreadyExists = errors.New("name already exists")

	// ErrEmailAlreadyExists is returned when the unique email constraint is violated.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrTokenNotFound is returned when no user holds the given activation token.
	// A consumed token behaves exactly like a token that never existed.
	ErrTokenNotFound = errors.New("activation token not found")

	// ErrForbidden is returned when the actor is not the owner of the target user.
	ErrForbidden = errors.New("operation not permitted")
)
