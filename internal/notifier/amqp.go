package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/trailcolombo/booking-api/internal/queue"
)

// AMQP publishes booking events to the booking.created queue for the
// notifier worker. It never panics; any error is logged and returned so
// the caller can ignore it. Messages are marked persistent so they
// survive broker restarts.
type AMQP struct {
	URL string
}

func (p *AMQP) Notify(ctx context.Context, ev queue.BookingCreatedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		slog.Error("notifier: dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		slog.Error("notifier: channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.BookingQueueName, // name
		true,                   // durable
		false,                  // autoDelete
		false,                  // exclusive
		false,                  // noWait
		nil,                    // args
	); err != nil {
		slog.Error("notifier: queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		slog.Error("notifier: marshal event failed", "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                     // default exchange
		queue.BookingQueueName, // routing key = queue name
		false,                  // mandatory
		false,                  // immediate
		pub,
	); err != nil {
		slog.Error("notifier: publish failed", "error", err)
		return err
	}

	return nil
}
