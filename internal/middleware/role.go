package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole rejects requests whose role, as stored by JWTAuth, is not
// one of roles.  The role names match the upper-cased "role" claim of the
// access token.  A request that reached this middleware without passing
// JWTAuth has no role and is refused with 403 Forbidden.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	// Build the allowed set once per route group rather than per request.
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Role returns "" when JWTAuth did not run, which is never
			// in the allowed set.
			if !allowed[Role(c)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "message": "role not permitted"})
			}
			// Otherwise call the next handler in the chain
			return next(c)
		}
	}
}

// Staff admits both staff and managers.
func Staff() echo.MiddlewareFunc { return RequireRole(RoleStaff, RoleManager) }

// Manager admits managers only.
func Manager() echo.MiddlewareFunc { return RequireRole(RoleManager) }
