// Package repository implements data access for tours, bookings and
// admins over parameterized SQL. Sentinel errors defined here let
// handlers distinguish failure scenarios without inspecting driver
// errors: ErrNotFound marks a well-formed reference to a row that does
// not exist, ErrEmailExists marks a duplicate admin registration.
package repository

import "errors"

// ErrNotFound is returned when a referenced row does not exist or an
// update/delete affected zero rows. Handlers translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an admin email is already registered.
// Handlers must report it generically to avoid account enumeration.
var ErrEmailExists = errors.New("email already exists")
