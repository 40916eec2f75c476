package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  A
// booking is created Pending and moves only along the transitions
// allowed by CanTransition.  Cancelled and Completed are terminal.
type BookingStatus string

// PaymentStatus enumerates the payment states of a booking.  Unpaid
// moves to Paid when a payment outcome is recorded, and Paid moves to
// Refunded when a paid booking is cancelled.
type PaymentStatus string

const (
    BookingPending   BookingStatus = "Pending"
    BookingConfirmed BookingStatus = "Confirmed"
    BookingCancelled BookingStatus = "Cancelled"
    BookingCompleted BookingStatus = "Completed"

    PaymentUnpaid   PaymentStatus = "Unpaid"
    PaymentPaid     PaymentStatus = "Paid"
    PaymentRefunded PaymentStatus = "Refunded"
)

// statusTransitions is the closed transition table for booking
// statuses.  A status missing from the map is terminal.
var statusTransitions = map[BookingStatus][]BookingStatus{
    BookingPending:   {BookingConfirmed, BookingCancelled},
    BookingConfirmed: {BookingCancelled, BookingCompleted},
}

// CanTransition reports whether a booking may move from one status to
// another.  It encodes the lifecycle state machine: confirm is only
// legal from Pending, cancel from Pending or Confirmed, and complete
// from Confirmed.  Terminal states admit no further transitions.
func CanTransition(from, to BookingStatus) bool {
    for _, next := range statusTransitions[from] {
        if next == to {
            return true
        }
    }
    return false
}

// ValidBookingStatus reports whether s is one of the four known
// booking statuses.  Used to validate status filters from query
// strings before they reach SQL.
func ValidBookingStatus(s BookingStatus) bool {
    switch s {
    case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
        return true
    }
    return false
}

// IsActive reports whether a booking in the given status still holds
// its slot.  Exactly one active booking may reference a slot at any
// time; this predicate defines "active".
func IsActive(s BookingStatus) bool {
    return s == BookingPending || s == BookingConfirmed
}

// CanPay reports whether a payment may be recorded for a booking in
// the given status/payment pair.  Payment is only accepted once and
// only while the booking still holds its slot.
func CanPay(status BookingStatus, payment PaymentStatus) bool {
    return IsActive(status) && payment == PaymentUnpaid
}

// Booking records a student's claim on a single court slot and tracks
// it through its status and payment lifecycle.  Bookings are never
// deleted; cancellation is a status transition that preserves the row
// for audit history.
//
// Fields:
//  ID               – primary key identifier.
//  StudentID        – student who made the booking.
//  CourtID          – court being booked.
//  SlotID           – slot being held; unique among active bookings.
//  Status           – lifecycle state (Pending, Confirmed, Cancelled,
//                     Completed).
//  PaymentStatus    – payment state (Unpaid, Paid, Refunded).
//  TotalAmountCents – price in cents, fixed at reservation time from
//                     the court's hourly rate and the slot duration.
//  PaymentMethod    – method recorded with the payment, if any.
//  TransactionRef   – external payment reference, if any.
//  Notes            – free-form notes.
//  CancellationDate – when the booking was cancelled (null otherwise).
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Booking struct {
    ID               uint64        `json:"id"`                         // bookings.id
    StudentID        uint64        `json:"student_id"`                 // bookings.student_id
    CourtID          uint64        `json:"court_id"`                   // bookings.court_id
    SlotID           uint64        `json:"slot_id"`                    // bookings.slot_id
    Status           BookingStatus `json:"booking_status"`             // bookings.booking_status
    PaymentStatus    PaymentStatus `json:"payment_status"`             // bookings.payment_status
    TotalAmountCents uint32        `json:"total_amount_cents"`         // bookings.total_amount_cents
    PaymentMethod    *string       `json:"payment_method,omitempty"`   // bookings.payment_method (nullable)
    TransactionRef   *string       `json:"transaction_ref,omitempty"`  // bookings.transaction_ref (nullable)
    Notes            *string       `json:"notes,omitempty"`            // bookings.notes (nullable)
    CancellationDate *time.Time    `json:"cancellation_date,omitempty"` // bookings.cancellation_date (nullable)
    CreatedAt        time.Time     `json:"created_at"`                 // bookings.created_at
    UpdatedAt        time.Time     `json:"updated_at"`                 // bookings.updated_at
}
