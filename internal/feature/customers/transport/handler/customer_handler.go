// Package handler provides the HTTP handlers of the customers feature.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"customer_backend/internal/api"
	"customer_backend/internal/feature/customers/domain/entity"
	"customer_backend/internal/feature/customers/transport/http/dto"
	"customer_backend/internal/feature/customers/usecase"
	"customer_backend/internal/shared/pagination"
	"customer_backend/internal/shared/validation"
)

// CustomerUsecase defines the customer operations used by the handler.
type CustomerUsecase interface {
	Create(ctx context.Context, in usecase.CreateCustomerInput) (*entity.Customer, error)
	List(ctx context.Context, req *pagination.Request, f usecase.ListCustomersFilter) (pagination.Result[entity.Customer], error)
	ListActive(ctx context.Context, req *pagination.Request) (pagination.Result[entity.Customer], error)
	ListConectaPlus(ctx context.Context, req *pagination.Request) (pagination.Result[entity.Customer], error)
	Get(ctx context.Context, id uint) (*entity.Customer, error)
	GetByCNPJ(ctx context.Context, raw string) (*entity.Customer, error)
	Update(ctx context.Context, id uint, in usecase.UpdateCustomerInput) (*entity.Customer, error)
	Delete(ctx context.Context, id uint) error
}

// CustomerHandler serves the /customers endpoints.
type CustomerHandler struct {
	customers CustomerUsecase
	log       *zap.Logger
}

// NewCustomerHandler creates a CustomerHandler.
func NewCustomerHandler(customers CustomerUsecase, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, log: log.With(zap.String("component", "customer_handler"))}
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if details := validation.Struct(req); details != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "validation failed", Details: details})
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), usecase.CreateCustomerInput{
		RazaoSocial: req.RazaoSocial,
		CNPJ:        req.CNPJ,
		NomeFachada: req.NomeFachada,
		Tags:        req.Tags,
		Status:      entity.Status(req.Status),
		ConectaPlus: req.ConectaPlus,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info("customer created", zap.Uint("customer_id", customer.ID), zap.String("cnpj", customer.CNPJ))
	c.JSON(http.StatusCreated, dto.NewCustomerRes(*customer))
}

// List handles GET /customers.
// Query: page, limit, razaoSocial (substring), cnpj, status, conectaPlus.
func (h *CustomerHandler) List(c *gin.Context) {
	q := c.Request.URL.Query()

	var (
		page, limit, razao, doc, status string
		conecta                         *bool
	)
	for name, dest := range map[string]any{
		"page": &page, "limit": &limit, "razaoSocial": &razao,
		"cnpj": &doc, "status": &status, "conectaPlus": &conecta,
	} {
		if err := api.BindQuery(q, name, dest); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Error:   "invalid query",
				Details: []api.FieldError{{Field: name, Reason: "invalid"}},
			})
			return
		}
	}
	if status != "" && !entity.Status(status).Valid() {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:   "validation failed",
			Details: []api.FieldError{{Field: "status", Reason: "customer_status"}},
		})
		return
	}

	res, err := h.customers.List(c.Request.Context(), pagination.NewRequest(page, limit), usecase.ListCustomersFilter{
		RazaoSocial: razao,
		CNPJ:        doc,
		Status:      status,
		ConectaPlus: conecta,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(res, dto.NewCustomerRes))
}

// Active handles GET /customers/active.
func (h *CustomerHandler) Active(c *gin.Context) {
	res, err := h.customers.ListActive(c.Request.Context(), pageRequest(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(res, dto.NewCustomerRes))
}

// ConectaPlus handles GET /customers/conecta-plus.
func (h *CustomerHandler) ConectaPlus(c *gin.Context) {
	res, err := h.customers.ListConectaPlus(c.Request.Context(), pageRequest(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(res, dto.NewCustomerRes))
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCustomerRes(*customer))
}

// GetByCNPJ handles GET /customers/cnpj/*cnpj. The wildcard lets the formatted
// CNPJ, which contains a slash, be passed as is.
func (h *CustomerHandler) GetByCNPJ(c *gin.Context) {
	raw := strings.TrimPrefix(c.Param("cnpj"), "/")
	customer, err := h.customers.GetByCNPJ(c.Request.Context(), raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCustomerRes(*customer))
}

// Update handles PATCH /customers/:id.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if details := validation.Struct(req); details != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "validation failed", Details: details})
		return
	}

	in := usecase.UpdateCustomerInput{
		RazaoSocial: req.RazaoSocial,
		CNPJ:        req.CNPJ,
		NomeFachada: req.NomeFachada,
		Tags:        req.Tags,
		ConectaPlus: req.ConectaPlus,
	}
	if req.Status != nil {
		s := entity.Status(*req.Status)
		in.Status = &s
	}

	customer, err := h.customers.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCustomerRes(*customer))
}

// Delete handles DELETE /customers/:id.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info("customer deleted", zap.Uint("customer_id", id))
	c.Status(http.StatusNoContent)
}

func (h *CustomerHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "customer not found"})
	case errors.Is(err, usecase.ErrCNPJAlreadyExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "cnpj already registered"})
	case errors.Is(err, usecase.ErrInvalidCNPJ), errors.Is(err, usecase.ErrTooManyTags):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		h.log.Error("customer request failed", zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

func pageRequest(c *gin.Context) *pagination.Request {
	return pagination.NewRequest(c.Query("page"), c.Query("limit"))
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := api.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return 0, false
	}
	return id, true
}
