package model

import "time"

// Admin is an operator account. Only the bcrypt hash of the password is
// ever stored; the hash never leaves the server.
type Admin struct {
	ID           int64     `json:"id"`         // admins.id
	Email        string    `json:"email"`      // admins.email (unique, normalized)
	PasswordHash string    `json:"-"`          // admins.password
	CreatedAt    time.Time `json:"created_at"` // admins.created_at
}
