// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"errors"

	users "customer_backend/internal/feature/users/usecase"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailAlreadyExists is returned when registering an email that is already taken.
	ErrEmailAlreadyExists = users.ErrEmailAlreadyExists

	// ErrUserNotFound is returned when the authenticated user no longer exists.
	ErrUserNotFound = users.ErrUserNotFound

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRevoked is returned when a revoked refresh token is presented.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionExpired is returned when an expired refresh token is presented.
	ErrSessionExpired = errors.New("session has expired")

	// ErrInvalidRefreshToken is returned when a refresh token is malformed or unknown.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrGoogleProfileIncomplete is returned when Google does not share a verified email.
	ErrGoogleProfileIncomplete = errors.New("google profile has no verified email")
)
