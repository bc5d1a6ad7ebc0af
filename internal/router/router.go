// Package router wires handlers, guards and global middleware onto an
// Echo instance. Paths and methods mirror the public API contract
// exactly; anything unmatched falls through to the JSON 404 below.
package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	em "github.com/labstack/echo/v4/middleware"

	"github.com/trailcolombo/booking-api/internal/config"
	"github.com/trailcolombo/booking-api/internal/handler"
	"github.com/trailcolombo/booking-api/internal/middleware"
)

// Deps carries everything route registration needs. Handlers and the
// counter store are constructed by the caller so tests can substitute
// their own store and configuration.
type Deps struct {
	Cfg      config.Config
	Limits   config.RateLimits
	Counters middleware.CounterStore
	Admin    *handler.AdminHandler
	Tours    *handler.TourHandler
	Bookings *handler.BookingHandler
}

// Register applies the global middleware chain and registers all routes.
func Register(e *echo.Echo, d Deps) {
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler

	e.Use(em.Recover())
	e.Use(em.RequestIDWithConfig(em.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger())
	e.Use(em.BodyLimit(d.Cfg.BodyLimit))
	e.Use(em.CORSWithConfig(em.CORSConfig{
		AllowOrigins: d.Cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		MaxAge:       86400,
	}))
	e.Use(em.SecureWithConfig(em.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))
	e.Use(middleware.NewRateLimiter(d.Limits.General, d.Counters))

	guard := middleware.JWTAuth(d.Cfg.JWTSecret)
	loginLimit := middleware.NewRateLimiter(d.Limits.Login, d.Counters)
	bookingLimit := middleware.NewRateLimiter(d.Limits.Booking, d.Counters)

	e.GET("/healthz", handler.Health)

	api := e.Group("/api")

	api.GET("/tours", d.Tours.List)
	api.POST("/tours", d.Tours.Create, guard)
	api.DELETE("/tours/:id", d.Tours.Delete, guard)

	api.GET("/bookings", d.Bookings.List, guard)
	api.POST("/bookings", d.Bookings.Create, bookingLimit)
	api.PUT("/bookings/:id", d.Bookings.UpdateStatus, guard)
	api.DELETE("/bookings/:id", d.Bookings.Delete, guard)

	api.POST("/admin/register", d.Admin.Register, loginLimit)
	api.POST("/admin/login", d.Admin.Login, loginLimit)
}

// errorHandler is the final catch-all: anything escaping a handler still
// produces a well-formed JSON envelope, never a stack trace. Unmatched
// routes get a generic 404 body.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "an unexpected error occurred"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			msg = "endpoint not found"
		case http.StatusRequestEntityTooLarge:
			msg = "request body too large"
		default:
			if code < http.StatusInternalServerError {
				if s, okStr := he.Message.(string); okStr {
					msg = s
				} else {
					msg = http.StatusText(code)
				}
			}
		}
	}

	if code >= http.StatusInternalServerError {
		slog.Error("unhandled error",
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
		)
	}

	_ = c.JSON(code, echo.Map{"success": false, "error": msg})
}
