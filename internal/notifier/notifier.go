// Package notifier delivers booking-confirmation notifications. The
// booking handler invokes it only after the booking row is durably
// persisted, always in a goroutine: a notifier failure is logged and
// never blocks or fails the booking response.
package notifier

import (
	"context"
	"log/slog"

	"github.com/trailcolombo/booking-api/internal/queue"
)

// Notifier is the collaborator responsible for informing a customer that
// their booking was received.
type Notifier interface {
	Notify(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// Log is the stub implementation: it records the intent instead of
// sending anything. A production deployment substitutes a transactional
// email sender or the AMQP publisher.
type Log struct{}

func (Log) Notify(_ context.Context, ev queue.BookingCreatedEvent) error {
	slog.Info("booking confirmation email would be sent",
		"booking_id", ev.BookingID,
		"email", ev.Email,
		"tour", ev.TourTitle,
		"date", ev.Date,
	)
	return nil
}
