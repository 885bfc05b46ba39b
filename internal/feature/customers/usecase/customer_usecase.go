package usecase

import (
	"context"
	"errors"
	"strings"

	"customer_backend/internal/feature/customers/domain/entity"
	"customer_backend/internal/shared/cnpj"
	"customer_backend/internal/shared/pagination"
)

// CustomerRepository abstracts the persistence layer for customer entities.
type CustomerRepository interface {
	// Create persists a new customer. It returns ErrCNPJAlreadyExists on a duplicate CNPJ.
	Create(ctx context.Context, c *entity.Customer) error

	// FindByID returns ErrCustomerNotFound when no customer has the id.
	FindByID(ctx context.Context, id uint) (*entity.Customer, error)

	// FindByCNPJ looks up a formatted CNPJ. It returns ErrCustomerNotFound when absent.
	FindByCNPJ(ctx context.Context, formatted string) (*entity.Customer, error)

	// FindMatching returns one page of customers and the number of customers matching q.Filters.
	FindMatching(ctx context.Context, q pagination.Query) ([]entity.Customer, int64, error)

	// Update overwrites the stored customer. It returns ErrCustomerNotFound or ErrCNPJAlreadyExists.
	Update(ctx context.Context, c *entity.Customer) error

	// Delete removes the customer. It returns ErrCustomerNotFound when nothing was deleted.
	Delete(ctx context.Context, id uint) error
}

// CreateCustomerInput carries the fields of a new customer.
type CreateCustomerInput struct {
	RazaoSocial string
	CNPJ        string // any punctuation
	NomeFachada string
	Tags        []string
	Status      entity.Status // defaults to ativo
	ConectaPlus bool
}

// UpdateCustomerInput carries the fields to change; nil means unchanged.
type UpdateCustomerInput struct {
	RazaoSocial *string
	CNPJ        *string
	NomeFachada *string
	Tags        *[]string
	Status      *entity.Status
	ConectaPlus *bool
}

// ListCustomersFilter narrows a customer listing. Zero values are ignored.
type ListCustomersFilter struct {
	RazaoSocial string // substring
	CNPJ        string // exact, any punctuation
	Status      string // exact
	ConectaPlus *bool
}

type customerUsecase struct {
	customers CustomerRepository
}

// NewCustomerUsecase creates the customers usecase.
func NewCustomerUsecase(customers CustomerRepository) *customerUsecase {
	return &customerUsecase{customers: customers}
}

// Create registers a customer after checking that its CNPJ is valid and unused.
func (u *customerUsecase) Create(ctx context.Context, in CreateCustomerInput) (*entity.Customer, error) {
	if !cnpj.IsValid(in.CNPJ) {
		return nil, ErrInvalidCNPJ
	}
	tags, err := cleanTags(in.Tags)
	if err != nil {
		return nil, err
	}

	formatted := cnpj.Format(in.CNPJ)
	if err := u.ensureCNPJFree(ctx, formatted, 0); err != nil {
		return nil, err
	}

	c := &entity.Customer{
		RazaoSocial: strings.TrimSpace(in.RazaoSocial),
		CNPJ:        formatted,
		NomeFachada: strings.TrimSpace(in.NomeFachada),
		Tags:        tags,
		Status:      in.Status,
		ConectaPlus: in.ConectaPlus,
	}
	if c.Status == "" {
		c.Status = entity.StatusActive
	}

	if err := u.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns one page of customers, newest first.
func (u *customerUsecase) List(ctx context.Context, req *pagination.Request, f ListCustomersFilter) (pagination.Result[entity.Customer], error) {
	req.WhereContains("razao_social", f.RazaoSocial).
		WhereEqual("status", f.Status).
		WhereEqual("conecta_plus", f.ConectaPlus)
	if f.CNPJ != "" {
		req.WhereEqual("cnpj", cnpj.Format(f.CNPJ))
	}
	return pagination.Paginate[entity.Customer](ctx, u.customers, *req)
}

// ListActive returns one page of customers whose status is ativo.
func (u *customerUsecase) ListActive(ctx context.Context, req *pagination.Request) (pagination.Result[entity.Customer], error) {
	return u.List(ctx, req, ListCustomersFilter{Status: string(entity.StatusActive)})
}

// ListConectaPlus returns one page of customers enrolled in Conecta Plus.
func (u *customerUsecase) ListConectaPlus(ctx context.Context, req *pagination.Request) (pagination.Result[entity.Customer], error) {
	yes := true
	return u.List(ctx, req, ListCustomersFilter{ConectaPlus: &yes})
}

// Get returns the customer with the given id.
func (u *customerUsecase) Get(ctx context.Context, id uint) (*entity.Customer, error) {
	return u.customers.FindByID(ctx, id)
}

// GetByCNPJ returns the customer holding raw, which may be formatted or digits only.
func (u *customerUsecase) GetByCNPJ(ctx context.Context, raw string) (*entity.Customer, error) {
	if !cnpj.IsValid(raw) {
		return nil, ErrInvalidCNPJ
	}
	return u.customers.FindByCNPJ(ctx, cnpj.Format(raw))
}

// Update applies the non-nil fields of in to the customer.
func (u *customerUsecase) Update(ctx context.Context, id uint, in UpdateCustomerInput) (*entity.Customer, error) {
	c, err := u.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CNPJ != nil {
		if !cnpj.IsValid(*in.CNPJ) {
			return nil, ErrInvalidCNPJ
		}
		formatted := cnpj.Format(*in.CNPJ)
		if formatted != c.CNPJ {
			if err := u.ensureCNPJFree(ctx, formatted, c.ID); err != nil {
				return nil, err
			}
			c.CNPJ = formatted
		}
	}
	if in.Tags != nil {
		tags, err := cleanTags(*in.Tags)
		if err != nil {
			return nil, err
		}
		c.Tags = tags
	}
	if in.RazaoSocial != nil {
		c.RazaoSocial = strings.TrimSpace(*in.RazaoSocial)
	}
	if in.NomeFachada != nil {
		c.NomeFachada = strings.TrimSpace(*in.NomeFachada)
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if in.ConectaPlus != nil {
		c.ConectaPlus = *in.ConectaPlus
	}

	if err := u.customers.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the customer with the given id.
func (u *customerUsecase) Delete(ctx context.Context, id uint) error {
	if _, err := u.customers.FindByID(ctx, id); err != nil {
		return err
	}
	return u.customers.Delete(ctx, id)
}

// ensureCNPJFree fails with ErrCNPJAlreadyExists when a customer other than self holds formatted.
func (u *customerUsecase) ensureCNPJFree(ctx context.Context, formatted string, self uint) error {
	existing, err := u.customers.FindByCNPJ(ctx, formatted)
	switch {
	case errors.Is(err, ErrCustomerNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return ErrCNPJAlreadyExists
	}
	return nil
}

// cleanTags trims tags, drops empty ones and never returns nil.
func cleanTags(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	if len(out) > entity.MaxTags {
		return nil, ErrTooManyTags
	}
	return out, nil
}
