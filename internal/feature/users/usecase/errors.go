// Package usecase implements the business logic for the users feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by id, email or Google id.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when another user already holds the email.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidSort is returned when the requested sort field is not sortable.
	ErrInvalidSort = errors.New("invalid sort field")
)
