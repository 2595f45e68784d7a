package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/voicify/voicify-api/internal/api/metrics"
	"github.com/voicify/voicify-api/internal/core/ports"
)

// UserIDKey is the echo context key under which Auth stores the
// authenticated caller's id.
const UserIDKey = "user_id"

// Auth verifies the bearer token and injects the caller identity into
// the request context. Verification is self-contained: no store lookup.
func Auth(issuer ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}

			userID, err := issuer.Verify(parts[1])
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}
