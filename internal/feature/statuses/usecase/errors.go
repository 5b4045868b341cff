// Package usecase implements the business logic for the statuses feature.
package usecase

import "errors"

var (
	// ErrStatusNotFound is returned when a status cannot be found by ID.
	ErrStatusNotFound = errors.New("status not found")

	// ErrForbidden is returned when the actor is not the owner of the status.
	ErrForbidden = errors.New("operation not permitted")
)
