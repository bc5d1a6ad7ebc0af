package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger emits one structured log line per request with method,
// path, status, latency and client address. Errors returned by handlers
// are dispatched to the error handler first so the logged status matches
// what the client received.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			latency := time.Since(start)
			status := c.Response().Status
			fields := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
				"client_ip", c.RealIP(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			}

			if status >= 500 {
				slog.Error("request failed", fields...)
			} else {
				slog.Info("request completed", fields...)
			}
			return nil
		}
	}
}
