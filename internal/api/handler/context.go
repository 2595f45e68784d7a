package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voicify/voicify-api/internal/api/middleware"
)

// ctxUserID extracts the caller id injected by the Auth middleware and
// fast-fails when it is absent: an empty id means the middleware never
// ran for this route, which is a wiring bug surfaced as 401.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
