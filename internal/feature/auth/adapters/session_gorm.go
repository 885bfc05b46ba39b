// Package adapters provides the relational session store of the auth feature.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"customer_backend/internal/feature/auth/domain/entity"
	"customer_backend/internal/feature/auth/usecase"
)

// sessionGorm stores refresh sessions in the sessions table. Used when Redis is not configured.
type sessionGorm struct {
	db *gorm.DB
}

var _ usecase.SessionRepository = (*sessionGorm)(nil)

// NewSessionGorm creates a new instance of sessionGorm.
func NewSessionGorm(db *gorm.DB) *sessionGorm {
	return &sessionGorm{db: db}
}

func (r *sessionGorm) Create(ctx context.Context, s *entity.Session) error {
	if err := r.db.WithContext(ctx).Create(SessionModelFromEntity(s)).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *sessionGorm) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var m SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

func (r *sessionGorm) Revoke(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&SessionModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return usecase.ErrSessionNotFound
		}
		return usecase.ErrSessionRevoked
	}
	return nil
}

func (r *sessionGorm) RevokeAllByUserID(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at).Error
}

func (r *sessionGorm) active(ctx context.Context, userID uint, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now)
}

func (r *sessionGorm) CountActive(ctx context.Context, userID uint, now time.Time) (int64, error) {
	var n int64
	err := r.active(ctx, userID, now).Count(&n).Error
	return n, err
}

func (r *sessionGorm) DeleteOldest(ctx context.Context, userID uint, now time.Time) error {
	var oldest SessionModel
	err := r.active(ctx, userID, now).Order("created_at ASC").First(&oldest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&SessionModel{}, "id = ?", oldest.ID).Error
}

func (r *sessionGorm) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&SessionModel{})
	return result.RowsAffected, result.Error
}
