package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireIdentity returns middleware that rejects anonymous requests with
// 401.  Any verified identity passes, attendant or not.  It assumes
// Authenticate ran earlier in the chain.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IdentityFrom(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireAttendant returns middleware that enforces the attendant
// privilege on write routes.  Anonymous requests get 401; authenticated
// callers whose token carries is_attendant=false get 403 and the wrapped
// handler is never invoked.
func RequireAttendant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !id.IsAttendant {
				return echo.NewHTTPError(http.StatusForbidden, "attendant privileges required")
			}
			return next(c)
		}
	}
}
