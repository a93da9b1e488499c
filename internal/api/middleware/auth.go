package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/flocknet/social-api/internal/api/metrics"
	"github.com/flocknet/social-api/internal/core/domain"
	"github.com/flocknet/social-api/internal/core/ports"
)

// TokenCookie is the cookie the session token travels in. Set HTTP-only by
// the login handler; the Authorization header is accepted as a fallback for
// non-browser clients.
const TokenCookie = "token"

// UserContextKey is the echo context key the resolved acting user is stored
// under. Handlers must take identity from here and nowhere else.
const UserContextKey = "user"

// Session is the authorization gate: it extracts the session token, verifies
// it, resolves the user record, and stores the user (hash already excluded
// from serialization) in the request context. Every rejection is a 400, the
// status the API's clients are built against.
func Session(verify func(token string) (userID string, err error), users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("no_token").Inc()
				return echo.NewHTTPError(http.StatusBadRequest, "not authorized")
			}

			userID, err := verify(token)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("user_not_found").Inc()
				return echo.NewHTTPError(http.StatusBadRequest, "user not found")
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// extractToken reads the session token from the cookie, falling back to a
// bearer Authorization header.
func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
