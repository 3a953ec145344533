package middleware

import (
	"net/http"

	"socialhub/internal/service"

	"github.com/labstack/echo/v4"
)

// RequireAdmin must run after RequireAuth. The user's admin flag is the
// only thing consulted; role bindings are not.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
			}
			if !identity.Admin {
				return echo.NewHTTPError(http.StatusForbidden, service.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}
