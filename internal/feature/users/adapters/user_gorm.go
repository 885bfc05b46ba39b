// Package adapters provides the gorm repository for the users feature.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"customer_backend/internal/feature/users/domain/entity"
	"customer_backend/internal/feature/users/usecase"
	"customer_backend/internal/platform/db"
	"customer_backend/internal/shared/pagination"
)

// userGorm implements the user repositories on top of gorm.
type userGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure userGorm implements UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a new instance of userGorm.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create inserts the user and fills in its id and timestamps.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	model := UserModelFromEntity(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	*u = *model.ToEntity()
	return nil
}

func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userGorm) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return r.first(ctx, "google_id = ?", googleID)
}

func (r *userGorm) first(ctx context.Context, query string, arg any) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// FindMatching returns one page of users matching q.
func (r *userGorm) FindMatching(ctx context.Context, q pagination.Query) ([]entity.User, int64, error) {
	models, total, err := pagination.FindMatching[UserModel](ctx, r.db, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	users := make([]entity.User, len(models))
	for i := range models {
		users[i] = *models[i].ToEntity()
	}
	return users, total, nil
}

// Update writes every mutable column of u.
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	model := UserModelFromEntity(u)
	model.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", u.ID).
		Select("name", "email", "password", "role", "google_id", "last_login", "updated_at").
		Updates(model)
	if result.Error != nil {
		if db.IsDuplicateKey(result.Error) {
			return usecase.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdateLastLogin stamps the user's last successful login.
func (r *userGorm) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *userGorm) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&UserModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// FindInactiveSince returns users whose last login is before cutoff, plus users who never
// logged in and were created before cutoff, ordered by email.
func (r *userGorm) FindInactiveSince(ctx context.Context, cutoff time.Time) ([]entity.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).
		Where("last_login < ?", cutoff).
		Or("last_login IS NULL AND created_at < ?", cutoff).
		Order("email ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find inactive users: %w", err)
	}

	users := make([]entity.User, len(models))
	for i := range models {
		users[i] = *models[i].ToEntity()
	}
	return users, nil
}

// Count returns the number of stored users.
func (r *userGorm) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&UserModel{}).Count(&n).Error
	return n, err
}
