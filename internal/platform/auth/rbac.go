package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that lets the request through only when the
// caller has one of the given roles. Everyone else gets 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, err := CallerOf(c)
			if err != nil {
				return err
			}
			for _, required := range roles {
				if caller.Role == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Access denied")
		}
	}
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	return role == RolePatient || role == RoleCaregiver
}
