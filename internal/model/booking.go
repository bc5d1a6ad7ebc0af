package model

import "time"

// Booking status values. A booking starts as pending; an admin may move
// it to any other value directly, there is no enforced ordering.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking records a customer's reservation request against a tour.
// The tour reference must exist at creation time; the store backs this
// up with a foreign key that cascades on tour deletion.
type Booking struct {
	ID        int64     `json:"id"`         // bookings.id
	Name      string    `json:"name"`       // bookings.name (sanitized)
	Email     string    `json:"email"`      // bookings.email (sanitized)
	Phone     string    `json:"phone"`      // bookings.phone (sanitized)
	TourID    int64     `json:"tour_id"`    // bookings.tour_id
	Date      string    `json:"date"`       // bookings.date (YYYY-MM-DD)
	Status    string    `json:"status"`     // bookings.status
	CreatedAt time.Time `json:"created_at"` // bookings.created_at
}

// BookingWithTour joins a booking with the title of its tour for the
// admin listing.
type BookingWithTour struct {
	Booking
	TourTitle string `json:"tour_title"`
}
