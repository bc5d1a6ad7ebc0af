package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/trailcolombo/booking-api/internal/model"
)

type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// CreateForTour checks that the referenced tour exists and inserts the
// booking within one transaction, so no intermediate state is observable
// and a failure between the two steps leaves no booking row behind. The
// existence check runs strictly before the insert; the foreign key is
// the second line of defense. Returns the tour title for the
// confirmation notification. A dangling tour reference yields
// ErrNotFound.
func (r *BookingRepo) CreateForTour(ctx context.Context, b *model.Booking) (string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var title string
	err = tx.QueryRowContext(ctx, "SELECT title FROM tours WHERE id = ?", b.TourID).Scan(&title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (name, email, phone, tour_id, date, status) VALUES (?,?,?,?,?,?)",
		b.Name, b.Email, b.Phone, b.TourID, b.Date, model.StatusPending)
	if err != nil {
		return "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	b.ID = id
	b.Status = model.StatusPending
	return title, nil
}

// ListWithTours returns all bookings joined with their tour title,
// newest first.
func (r *BookingRepo) ListWithTours(ctx context.Context) ([]model.BookingWithTour, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id, b.name, b.email, b.phone, b.tour_id, b.date, b.status, b.created_at, t.title
		 FROM bookings b JOIN tours t ON b.tour_id = t.id
		 ORDER BY b.created_at DESC, b.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.BookingWithTour, 0)
	for rows.Next() {
		var b model.BookingWithTour
		if err := rows.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.TourID, &b.Date, &b.Status, &b.CreatedAt, &b.TourTitle); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// UpdateStatus sets the status column, the only mutable booking field.
// Zero affected rows means the booking did not exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE bookings SET status = ? WHERE id = ?", status, id)
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

// Delete removes a booking by id.
func (r *BookingRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
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

// CountForTour returns the number of bookings referencing a tour. Used
// by tests to verify the cascade guarantee.
func (r *BookingRepo) CountForTour(ctx context.Context, tourID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings WHERE tour_id = ?", tourID).Scan(&n)
	return n, err
}
