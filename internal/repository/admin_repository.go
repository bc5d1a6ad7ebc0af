package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/trailcolombo/booking-api/internal/model"
	"github.com/trailcolombo/booking-api/internal/utils"
)

type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// Create hashes the password and inserts the admin, returning its ID.
// The email must already be normalized (lower-cased, trimmed) by the
// caller. A duplicate email maps to ErrEmailExists.
func (r *AdminRepo) Create(ctx context.Context, email, password string, cost int) (int64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admins (email, password) VALUES (?,?)",
		email, hash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

// GetByEmail fetches an admin by normalized email. sql.ErrNoRows passes
// through so login can fold "unknown email" and "wrong password" into
// one response.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, password, created_at FROM admins WHERE email = ? LIMIT 1",
		email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	return a, err
}

// Count returns the number of admin rows. Used by tests to verify that
// rejected registrations never create accounts.
func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&n)
	return n, err
}
