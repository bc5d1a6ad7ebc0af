package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trailcolombo/booking-api/internal/config"
	"github.com/trailcolombo/booking-api/internal/repository"
	"github.com/trailcolombo/booking-api/internal/utils"
	"github.com/trailcolombo/booking-api/internal/validation"
)

// AdminHandler bundles dependencies for admin registration and login.
type AdminHandler struct {
	Cfg    config.Config
	Admins *repository.AdminRepo
}

func NewAdminHandler(cfg config.Config, a *repository.AdminRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Admins: a}
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an admin account. A malformed email, a password under
// 8 characters and an already-registered email all produce the identical
// 400 body: revealing which rule failed would let a caller enumerate
// accounts. The real reason is logged server-side.
func (h *AdminHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "registration failed")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validation.IsEmail(email) || len(req.Password) < 8 {
		slog.Info("admin registration rejected", "reason", "invalid email or password policy")
		return fail(c, http.StatusBadRequest, "registration failed")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Admins.Create(ctx, email, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			slog.Info("admin registration rejected", "reason", "duplicate email")
			return fail(c, http.StatusBadRequest, "registration failed")
		}
		slog.Error("admin registration failed", "error", err)
		return fail(c, http.StatusInternalServerError, "an error occurred, please try again")
	}

	return ok(c, echo.Map{"message": "admin account created successfully"})
}

// Login verifies credentials and issues a signed admin token. Unknown
// email and wrong password return the same generic 401.
func (h *AdminHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusUnauthorized, "invalid credentials")
		}
		slog.Error("admin lookup failed", "error", err)
		return fail(c, http.StatusInternalServerError, "an error occurred, please try again")
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	tok, err := utils.NewAdminToken(h.Cfg.JWTSecret, a.ID, a.Email, h.Cfg.TokenTTLHours)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		return fail(c, http.StatusInternalServerError, "an error occurred, please try again")
	}

	return ok(c, echo.Map{"token": tok.Token, "message": "login successful"})
}
