package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/credjud/marketplace/internal/api/middleware"
)

// caller extracts the identity injected by the Auth middleware and fails
// fast before any service call when it is missing. Presence of both claims
// proves the middleware ran.
func caller(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	if userID == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}
