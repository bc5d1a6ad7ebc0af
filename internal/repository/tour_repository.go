package repository

import (
	"context"
	"database/sql"

	"github.com/trailcolombo/booking-api/internal/model"
)

type TourRepo struct{ DB *sql.DB }

func NewTourRepo(db *sql.DB) *TourRepo { return &TourRepo{DB: db} }

// Create inserts a tour and fills in its assigned ID.
func (r *TourRepo) Create(ctx context.Context, t *model.Tour) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tours (title, price, description, image, whatsapp) VALUES (?,?,?,?,?)",
		t.Title, t.Price, t.Description, t.Image, t.Whatsapp)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// List returns all tours, newest first.
func (r *TourRepo) List(ctx context.Context) ([]model.Tour, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, title, price, COALESCE(description,''), COALESCE(image,''), COALESCE(whatsapp,''), created_at FROM tours ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tours := make([]model.Tour, 0)
	for rows.Next() {
		var t model.Tour
		if err := rows.Scan(&t.ID, &t.Title, &t.Price, &t.Description, &t.Image, &t.Whatsapp, &t.CreatedAt); err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

// Delete removes a tour by id. Dependent bookings are removed by the
// store's ON DELETE CASCADE, not here. Zero affected rows means the tour
// did not exist.
func (r *TourRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tours WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
