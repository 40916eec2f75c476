// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// Event types published to the booking.events queue.
const (
    EventBookingCreated   = "booking.created"
    EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published when a booking is created or cancelled.
// It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type BookingEvent struct {
    Type             string `json:"type"`
    BookingID        uint64 `json:"booking_id"`
    StudentID        uint64 `json:"student_id"`
    CourtID          uint64 `json:"court_id"`
    SlotID           uint64 `json:"slot_id"`
    BookingStatus    string `json:"booking_status"`
    PaymentStatus    string `json:"payment_status"`
    TotalAmountCents uint32 `json:"total_amount_cents"`
    OccurredAt       string `json:"occurred_at"`
}
