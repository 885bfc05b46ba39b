// Package handler provides the HTTP handlers of the users feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"customer_backend/internal/api"
	"customer_backend/internal/feature/users/domain/entity"
	"customer_backend/internal/feature/users/transport/http/dto"
	"customer_backend/internal/feature/users/usecase"
	"customer_backend/internal/shared/pagination"
	"customer_backend/internal/shared/validation"
)

// UserUsecase defines the user management operations used by the handler.
type UserUsecase interface {
	Create(ctx context.Context, in usecase.CreateUserInput) (*entity.User, error)
	List(ctx context.Context, req *pagination.Request, f usecase.ListUsersFilter) (pagination.Result[entity.User], error)
	Get(ctx context.Context, id uint) (*entity.User, error)
	Update(ctx context.Context, id uint, in usecase.UpdateUserInput) (*entity.User, error)
	Delete(ctx context.Context, id uint) error
}

// UserHandler serves the /users endpoints.
type UserHandler struct {
	users UserUsecase
	log   *zap.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log.With(zap.String("component", "user_handler"))}
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if details := validation.Struct(req); details != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "validation failed", Details: details})
		return
	}

	user, err := h.users.Create(c.Request.Context(), usecase.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserRes(*user))
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	var q dto.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query"})
		return
	}
	if details := validation.Struct(q); details != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "validation failed", Details: details})
		return
	}

	res, err := h.users.List(c.Request.Context(), pagination.NewRequest(q.Page, q.Limit), usecase.ListUsersFilter{
		Name:      q.Name,
		Email:     q.Email,
		Role:      q.Role,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(res, dto.NewUserRes))
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(*user))
}

// Update handles PATCH /users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if details := validation.Struct(req); details != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "validation failed", Details: details})
		return
	}

	in := usecase.UpdateUserInput{Name: req.Name, Email: req.Email, Password: req.Password}
	if req.Role != nil {
		role := entity.Role(*req.Role)
		in.Role = &role
	}

	user, err := h.users.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(*user))
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "email already in use"})
	case errors.Is(err, usecase.ErrInvalidSort):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		h.log.Error("user request failed", zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := api.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return 0, false
	}
	return id, true
}
