// Package middleware provides reusable HTTP middleware: the admin token
// guard, the fixed-window rate limiter and the request logger.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trailcolombo/booking-api/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer admin token
// and injects the admin's id and email into the request context under
// "admin_id" and "admin_email". Missing, malformed, tampered and expired
// tokens all produce the identical 401 body so callers cannot probe
// which defect occurred.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			id, email, err := utils.ParseAdminToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
			}

			c.Set("admin_id", id)
			c.Set("admin_email", email)
			return next(c)
		}
	}
}
