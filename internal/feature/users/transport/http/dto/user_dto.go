// Package dto defines the request and response bodies of the users endpoints.
package dto

import (
	"time"

	"customer_backend/internal/feature/users/domain/entity"
)

// CreateUserReq is the body of POST /users.
type CreateUserReq struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,role"`
}

// UpdateUserReq is the body of PATCH /users/:id. Absent fields are left unchanged.
type UpdateUserReq struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *string `json:"role" validate:"omitempty,role"`
}

// ListUsersQuery is the query string of GET /users.
type ListUsersQuery struct {
	Page      string `form:"page" json:"page"`
	Limit     string `form:"limit" json:"limit"`
	Name      string `form:"name" json:"name"`
	Email     string `form:"email" json:"email"`
	Role      string `form:"role" json:"role" validate:"omitempty,role"`
	SortBy    string `form:"sortBy" json:"sortBy" validate:"omitempty,oneof=name email role createdAt updatedAt lastLogin"`
	SortOrder string `form:"sortOrder" json:"sortOrder" validate:"omitempty,oneof=ASC DESC asc desc"`
}

// UserRes is the public representation of a user. The password hash is never exposed.
type UserRes struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	GoogleLinked bool       `json:"googleLinked"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NewUserRes converts a user entity to its response body.
func NewUserRes(u entity.User) UserRes {
	return UserRes{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		GoogleLinked: u.GoogleID != nil,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
