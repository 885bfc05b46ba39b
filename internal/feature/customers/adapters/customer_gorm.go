// Package adapters provides the gorm repository for the customers feature.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"customer_backend/internal/feature/customers/domain/entity"
	"customer_backend/internal/feature/customers/usecase"
	"customer_backend/internal/platform/db"
	"customer_backend/internal/shared/pagination"
)

type customerGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure customerGorm implements CustomerRepository.
var _ usecase.CustomerRepository = (*customerGorm)(nil)

// NewCustomerGorm creates a new instance of customerGorm.
func NewCustomerGorm(db *gorm.DB) *customerGorm {
	return &customerGorm{db: db}
}

// Create inserts the customer and fills in its id and timestamps.
func (r *customerGorm) Create(ctx context.Context, c *entity.Customer) error {
	model := CustomerModelFromEntity(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrCNPJAlreadyExists
		}
		return fmt.Errorf("create customer: %w", err)
	}
	*c = *model.ToEntity()
	return nil
}

func (r *customerGorm) FindByID(ctx context.Context, id uint) (*entity.Customer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *customerGorm) FindByCNPJ(ctx context.Context, formatted string) (*entity.Customer, error) {
	return r.first(ctx, "cnpj = ?", formatted)
}

func (r *customerGorm) first(ctx context.Context, query string, arg any) (*entity.Customer, error) {
	var m CustomerModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCustomerNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// FindMatching returns one page of customers matching q.
func (r *customerGorm) FindMatching(ctx context.Context, q pagination.Query) ([]entity.Customer, int64, error) {
	models, total, err := pagination.FindMatching[CustomerModel](ctx, r.db, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	out := make([]entity.Customer, len(models))
	for i := range models {
		out[i] = *models[i].ToEntity()
	}
	return out, total, nil
}

// Update writes every mutable column of c.
func (r *customerGorm) Update(ctx context.Context, c *entity.Customer) error {
	model := CustomerModelFromEntity(c)
	model.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&CustomerModel{}).
		Where("id = ?", c.ID).
		Select("razao_social", "cnpj", "nome_fachada", "tags", "status", "conecta_plus", "updated_at").
		Updates(model)
	if result.Error != nil {
		if db.IsDuplicateKey(result.Error) {
			return usecase.ErrCNPJAlreadyExists
		}
		return fmt.Errorf("update customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return usecase.ErrCustomerNotFound
	}
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *customerGorm) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&CustomerModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return usecase.ErrCustomerNotFound
	}
	return nil
}

// Count returns the number of stored customers.
func (r *customerGorm) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&CustomerModel{}).Count(&n).Error
	return n, err
}
