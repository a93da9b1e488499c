package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flocknet/social-api/internal/core/ports"
)

// NotificationHandler handles the notification inbox endpoints.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /api/notifications. Fetching marks every returned
// notification read, a documented side effect rather than a hidden one.
func (h *NotificationHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	notifications, err := h.service.List(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notificationsResponse{
		envelope:      envelope{Success: true, Message: "notifications fetched"},
		Notifications: notifications,
	})
}

// Clear handles DELETE /api/notifications. Idempotent.
func (h *NotificationHandler) Clear(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Clear(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "notifications cleared"})
}
