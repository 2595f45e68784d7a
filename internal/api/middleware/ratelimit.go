package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/voicify/voicify-api/internal/api/metrics"
)

// Limiter is the throttle backing RateLimit (Redis in production).
type Limiter interface {
	Allow(ctx context.Context, scope, client string) (bool, error)
}

// RateLimit throttles an endpoint per client IP. When the limiter
// itself fails (e.g. Redis down) the request is let through: losing
// throttling is preferable to failing all logins.
func RateLimit(limiter Limiter, scope string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), scope, c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
				return next(c)
			}
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("rate_limited").Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, try again later")
			}
			return next(c)
		}
	}
}
