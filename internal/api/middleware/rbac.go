package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/credjud/marketplace/internal/core/domain"
)

// Require lets the request through only if the caller's role may perform op
// according to domain.Authorize. It must run after Auth.
func Require(op domain.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if err := domain.Authorize(role, op); err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				}
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
