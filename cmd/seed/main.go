// Seed inserts a starter set of tours into the configured database so a
// fresh deployment has something to show.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/trailcolombo/booking-api/internal/database"
	"github.com/trailcolombo/booking-api/internal/model"
	"github.com/trailcolombo/booking-api/internal/repository"
	"github.com/trailcolombo/booking-api/internal/validation"
)

var tours = []model.Tour{
	{
		Title:       "Galle Face & City Walk",
		Price:       40,
		Description: "Explore the iconic Galle Face Green and historic colonial architecture in the city center. Perfect for a relaxing evening walk.",
		Image:       "/images/galle-face.jpg",
		Whatsapp:    "94771234567",
	},
	{
		Title:       "Lotus Tower Visit",
		Price:       50,
		Description: "Visit the iconic Lotus Tower for panoramic views of Colombo. An engineering marvel and the perfect spot for photography.",
		Image:       "/images/lotus-tower.jpg",
		Whatsapp:    "94771234567",
	},
	{
		Title:       "Temple & Museum Tour",
		Price:       75,
		Description: "Visit the sacred Gangaramaya Temple and explore the National Museum. Learn about Sri Lankan culture and heritage.",
		Image:       "/images/gangaramaya.jpg",
		Whatsapp:    "94771234567",
	},
	{
		Title:       "Old Parliament & Viharamaha Devi Park",
		Price:       55,
		Description: "Discover the historic Old Parliament building and relax in the serene Viharamaha Devi Park with its scenic views.",
		Image:       "/images/parliament.jpg",
		Whatsapp:    "94771234567",
	},
}

func main() {
	_ = godotenv.Load()

	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "data/bookings.db"
	}

	db, err := database.Open(path)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	repo := repository.NewTourRepo(db)
	for i := range tours {
		t := tours[i]
		// Same escaped-at-rest convention the API applies on create.
		t.Title = validation.Escape(t.Title)
		t.Description = validation.Escape(t.Description)
		if err := repo.Create(ctx, &t); err != nil {
			log.Printf("error inserting %s: %v", t.Title, err)
			continue
		}
		log.Printf("added tour: %s (id=%d)", t.Title, t.ID)
	}
	log.Printf("database seeding completed")
}
