// The notifier worker consumes booking.created events published by the
// API and records confirmation intents. It is the production seat for a
// transactional email sender.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/trailcolombo/booking-api/internal/queue"
)

func main() {
	_ = godotenv.Load()

	log.Printf("booking notifier worker starting")
	if err := queue.StartBookingConsumer(os.Getenv("RABBITMQ_URL")); err != nil {
		log.Fatal(err)
	}
}
