package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flocknet/social-api/internal/api/middleware"
	"github.com/flocknet/social-api/internal/core/domain"
)

// ctxUser extracts the acting user resolved by the Session middleware.
// Presence proves the gate ran; a handler reached without it is a routing
// mistake, rejected before any service call.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "not authorized")
	}
	return user, nil
}
