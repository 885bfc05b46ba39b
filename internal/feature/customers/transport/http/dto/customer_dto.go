// Package dto defines the request and response bodies of the customers endpoints.
package dto

import (
	"time"

	"customer_backend/internal/feature/customers/domain/entity"
)

// CreateCustomerReq is the body of POST /customers.
type CreateCustomerReq struct {
	RazaoSocial string   `json:"razaoSocial" validate:"required,max=100"`
	CNPJ        string   `json:"cnpj" validate:"required,cnpj"`
	NomeFachada string   `json:"nomeFachada" validate:"required,max=255"`
	Tags        []string `json:"tags" validate:"omitempty,max=3,dive,max=50"`
	Status      string   `json:"status" validate:"omitempty,customer_status"`
	ConectaPlus bool     `json:"conectaPlus"`
}

// UpdateCustomerReq is the body of PATCH /customers/:id. Absent fields are left unchanged.
type UpdateCustomerReq struct {
	RazaoSocial *string   `json:"razaoSocial" validate:"omitempty,min=1,max=100"`
	CNPJ        *string   `json:"cnpj" validate:"omitempty,cnpj"`
	NomeFachada *string   `json:"nomeFachada" validate:"omitempty,min=1,max=255"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=3,dive,max=50"`
	Status      *string   `json:"status" validate:"omitempty,customer_status"`
	ConectaPlus *bool     `json:"conectaPlus"`
}

// CustomerRes is the public representation of a customer.
type CustomerRes struct {
	ID          uint      `json:"id"`
	RazaoSocial string    `json:"razaoSocial"`
	CNPJ        string    `json:"cnpj"`
	NomeFachada string    `json:"nomeFachada"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	ConectaPlus bool      `json:"conectaPlus"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewCustomerRes converts a customer entity to its response body.
func NewCustomerRes(c entity.Customer) CustomerRes {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return CustomerRes{
		ID:          c.ID,
		RazaoSocial: c.RazaoSocial,
		CNPJ:        c.CNPJ,
		NomeFachada: c.NomeFachada,
		Tags:        tags,
		Status:      string(c.Status),
		ConectaPlus: c.ConectaPlus,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
