// Package middleware holds the echo middleware shared by every route
// group: request logging, bearer token checks, role gates and rate
// limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates a Bearer access token and stores its subject and role
// in the context.  Tokens are issued by the property's auth system; this
// service only verifies them with the shared HS256 secret.
func JWTAuth(secret string) echo.MiddlewareFunc {
	// Pin the algorithm so a token signed with "none" or an asymmetric
	// key is rejected before the key func is consulted.
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (any, error) { return []byte(secret), nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Expect "Authorization: Bearer <token>".
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse verifies the signature and the exp/nbf claims.
			claims := jwt.MapClaims{}
			tok, err := parser.ParseWithClaims(raw, claims, keyFunc)
			if err != nil || !tok.Valid {
				return unauthorized(c, "invalid token")
			}

			// Both claims are required: sub identifies the operator in
			// logs and rate-limit keys, role drives RequireRole.
			sub := claimString(claims["sub"])
			role := strings.ToUpper(claimString(claims["role"]))
			if sub == "" || role == "" {
				return unauthorized(c, "token lacks sub or role")
			}
			c.Set(ctxSubject, sub)
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": msg})
}
