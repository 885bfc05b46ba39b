// Package entity defines the domain entities for the customers feature.
package entity

import "time"

// Status tells whether a customer is active.
type Status string

const (
	StatusActive   Status = "ativo"
	StatusInactive Status = "inativo"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// MaxTags is the maximum number of tags a customer may carry.
const MaxTags = 3

// Customer is a company registered by its CNPJ.
type Customer struct {
	ID          uint
	RazaoSocial string // legal name
	CNPJ        string // always stored formatted: NN.NNN.NNN/NNNN-NN
	NomeFachada string // trade name
	Tags        []string
	Status      Status
	ConectaPlus bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the customer status is ativo.
func (c *Customer) IsActive() bool {
	return c.Status == StatusActive
}
