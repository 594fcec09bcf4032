// Package repository contains the data access layer. Sentinel errors
// defined here let handlers distinguish failure scenarios without
// inspecting driver-specific errors: not-found conditions map to 404,
// ErrNoChange to 409/200 depending on the endpoint, and everything else
// is treated as a store failure (500).
package repository

import "errors"

// ErrReservationNotFound indicates the reservation id does not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrEventNotFound indicates the calendar event id does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrStaffNotFound indicates no staff account matches the given email.
var ErrStaffNotFound = errors.New("staff not found")

// ErrNoChange indicates an UPDATE matched a row but changed nothing,
// e.g. confirming a reservation that is already confirmed.
var ErrNoChange = errors.New("no change")
