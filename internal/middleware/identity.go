package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	ctxSubject = "subject"
	ctxRole    = "role"
)

// Roles carried in the token's "role" claim.  Managers can do everything
// staff can.
const (
	RoleStaff   = "STAFF"
	RoleManager = "MANAGER"
)

// Subject returns the authenticated operator id, or "anon" on routes that
// are not behind JWTAuth.
func Subject(c echo.Context) string {
	if s, ok := c.Get(ctxSubject).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// Role returns the authenticated operator's role, empty when unknown.
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}

// claimString renders a claim as a string.  JSON numbers decode as
// float64, so numeric subjects are printed without a fraction.
func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
