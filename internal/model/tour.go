package model

import "time"

// Tour is a bookable product offering managed by admins.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title, 3–200 characters, sanitized.
//  Price       – positive price, always stored as a normalized number.
//  Description – optional descriptive text, up to 1000 characters.
//  Image       – optional image URL; empty when the submitted URL was
//                malformed.
//  Whatsapp    – optional WhatsApp contact string.
//  CreatedAt   – creation timestamp assigned by the store.
type Tour struct {
	ID          int64     `json:"id"`          // tours.id
	Title       string    `json:"title"`       // tours.title
	Price       float64   `json:"price"`       // tours.price
	Description string    `json:"description"` // tours.description
	Image       string    `json:"image"`       // tours.image
	Whatsapp    string    `json:"whatsapp"`    // tours.whatsapp
	CreatedAt   time.Time `json:"created_at"`  // tours.created_at
}
