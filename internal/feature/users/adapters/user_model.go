package adapters

import (
	"time"

	"customer_backend/internal/feature/users/domain/entity"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID        uint       `gorm:"primaryKey"`
	Name      string     `gorm:"size:255;not null"`
	Email     string     `gorm:"uniqueIndex;size:255;not null"`
	Password  string     `gorm:"size:255"`
	Role      string     `gorm:"size:10;not null;default:user;index"`
	GoogleID  *string    `gorm:"column:google_id;uniqueIndex;size:255"`
	LastLogin *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"index"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the GORM model to a domain entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Password:  m.Password,
		Role:      entity.Role(m.Role),
		GoogleID:  m.GoogleID,
		LastLogin: m.LastLogin,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// UserModelFromEntity converts a domain entity to a GORM model.
func UserModelFromEntity(u *entity.User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		GoogleID:  u.GoogleID,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
