// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking service and handlers to distinguish between different failure
// scenarios and map each one to a stable response, so a client can
// decide whether to retry (Conflict) or give up and refresh its view
// (NotAvailable, InvalidTransition, NotFound, Forbidden).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as cancelling another student's
// booking. Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a conditional update lost a race: the
// stored state changed between the caller's read and the write. The
// caller must re-read current state before retrying. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition is returned when a requested lifecycle move is
// illegal from the booking's current status, e.g. confirming a
// cancelled booking or paying twice.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrSlotNotFound indicates that a slot was not located in the DB, or
// does not belong to the court named by the caller.
var ErrSlotNotFound = errors.New("slot not found")

// ErrSlotNotAvailable is returned when a reservation attempt finds the
// slot in any status other than Available, including losing the race
// against a concurrent reservation for the same slot.
var ErrSlotNotAvailable = errors.New("slot not available")

// ErrSlotNotBooked is returned by the release path when the slot row
// was not in Booked status. Given the ledger invariants this should
// not happen; callers log it and continue rather than failing the
// cancellation.
var ErrSlotNotBooked = errors.New("slot not booked")

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// ErrCourtNotFound indicates that a court was not located in the DB.
var ErrCourtNotFound = errors.New("court not found")
