// Package usecase implements the business logic for the customers feature.
package usecase

import "errors"

var (
	// ErrCustomerNotFound is returned when no customer matches the id or CNPJ.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrCNPJAlreadyExists is returned when another customer already holds the CNPJ.
	ErrCNPJAlreadyExists = errors.New("cnpj already registered")

	// ErrInvalidCNPJ is returned when a CNPJ fails the check digit validation.
	ErrInvalidCNPJ = errors.New("invalid cnpj")

	// ErrTooManyTags is returned when a customer would carry more than entity.MaxTags tags.
	ErrTooManyTags = errors.New("too many tags")
)
