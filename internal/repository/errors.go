// Package repository defines the MySQL data access layer and the error
// values shared across repositories.  Higher layers match these with
// errors.Is instead of inspecting driver errors.
package repository

import "errors"

// ErrFacilityNotFound is returned when a facility lookup finds no row.
var ErrFacilityNotFound = errors.New("facility not found")

// ErrReservationNotFound is returned when a reservation lookup finds no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrAdminNotFound is returned when no admin has the given username.
var ErrAdminNotFound = errors.New("admin not found")

// ErrConflict is returned when an insert violates a unique key, such as
// a facility name that is already taken.
var ErrConflict = errors.New("conflict")
