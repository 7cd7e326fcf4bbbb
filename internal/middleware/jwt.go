package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/box-office/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ctxOperator = "operator"
	ctxRole     = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject and role claims into the request context.  The
// provided secret must match the one used when issuing tokens at login.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			// Downstream middleware reads these back via c.Get.
			c.Set(ctxOperator, claims["sub"])
			c.Set(ctxRole, claims["role"])
			return next(c)
		}
	}
}

// operatorID returns the authenticated operator's subject, or "anon" when
// JWTAuth has not run.
func operatorID(c echo.Context) string {
	if s, ok := c.Get(ctxOperator).(string); ok && s != "" {
		return s
	}
	return "anon"
}
