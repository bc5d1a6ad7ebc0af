// Package queue defines the message payload exchanged with the
// confirmation-notifier worker, plus the worker's consume loop.
package queue

// BookingCreatedEvent is published after a booking row is durably
// persisted. It carries everything a downstream notifier needs to
// address the customer without querying the primary database.
type BookingCreatedEvent struct {
	BookingID int64  `json:"booking_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	TourID    int64  `json:"tour_id"`
	TourTitle string `json:"tour_title"`
	Date      string `json:"date"`
	CreatedAt string `json:"created_at"`
}

// BookingQueueName is the durable queue the API publishes to and the
// notifier worker consumes from.
const BookingQueueName = "booking.created"
