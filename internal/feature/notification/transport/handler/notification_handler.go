// Package handler provides the HTTP handler of the inactive-user notification.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"customer_backend/internal/api"
	"customer_backend/internal/feature/notification/transport/http/dto"
	"customer_backend/internal/feature/notification/usecase"
)

// NotificationUsecase builds the inactive-user report.
type NotificationUsecase interface {
	InactiveUsers(ctx context.Context, days int) (usecase.InactiveReport, error)
}

type NotificationHandler struct {
	notifications NotificationUsecase
	log           *zap.Logger
}

func NewNotificationHandler(notifications NotificationUsecase, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, log: log.With(zap.String("component", "notification_handler"))}
}

// InactiveUsers handles GET /notification?days=N.
func (h *NotificationHandler) InactiveUsers(c *gin.Context) {
	var days *int
	if err := api.BindQuery(c.Request.URL.Query(), "days", &days); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:   "invalid query",
			Details: []api.FieldError{{Field: "days", Reason: "invalid"}},
		})
		return
	}
	// The usecase reads 0 as the default window, so a parsed zero is rejected here.
	window := 0
	if days != nil {
		if *days == 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: usecase.ErrInvalidDays.Error()})
			return
		}
		window = *days
	}

	report, err := h.notifications.InactiveUsers(c.Request.Context(), window)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidDays) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		h.log.Error("inactive users report failed", zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info("inactive users report", zap.Int("days", report.Days), zap.Int("count", len(report.Emails)))
	c.JSON(http.StatusOK, dto.InactiveUsersRes{
		InactiveUsers: report.Emails,
		Count:         len(report.Emails),
		DaysInactive:  report.Days,
	})
}
