package model

import "testing"

func TestCanTransition(t *testing.T) {
    cases := []struct {
        name string
        from BookingStatus
        to   BookingStatus
        want bool
    }{
        {"confirm pending", BookingPending, BookingConfirmed, true},
        {"cancel pending", BookingPending, BookingCancelled, true},
        {"cancel confirmed", BookingConfirmed, BookingCancelled, true},
        {"complete confirmed", BookingConfirmed, BookingCompleted, true},
        {"confirm cancelled", BookingCancelled, BookingConfirmed, false},
        {"confirm completed", BookingCompleted, BookingConfirmed, false},
        {"cancel cancelled", BookingCancelled, BookingCancelled, false},
        {"cancel completed", BookingCompleted, BookingCancelled, false},
        {"complete pending", BookingPending, BookingCompleted, false},
        {"pending from confirmed", BookingConfirmed, BookingPending, false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := CanTransition(tc.from, tc.to); got != tc.want {
                t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
            }
        })
    }
}

func TestValidBookingStatus(t *testing.T) {
    for _, s := range []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted} {
        if !ValidBookingStatus(s) {
            t.Fatalf("%s must be a valid status", s)
        }
    }
    if ValidBookingStatus("Archived") || ValidBookingStatus("") {
        t.Fatal("unknown statuses must be rejected")
    }
}

func TestIsActive(t *testing.T) {
    if !IsActive(BookingPending) || !IsActive(BookingConfirmed) {
        t.Fatal("Pending and Confirmed bookings must be active")
    }
    if IsActive(BookingCancelled) || IsActive(BookingCompleted) {
        t.Fatal("Cancelled and Completed bookings must not be active")
    }
}

func TestCanPay(t *testing.T) {
    if !CanPay(BookingPending, PaymentUnpaid) {
        t.Fatal("paying an unpaid pending booking must be allowed")
    }
    if !CanPay(BookingConfirmed, PaymentUnpaid) {
        t.Fatal("paying an unpaid confirmed booking must be allowed")
    }
    if CanPay(BookingPending, PaymentPaid) {
        t.Fatal("paying twice must be rejected")
    }
    if CanPay(BookingCancelled, PaymentUnpaid) {
        t.Fatal("paying a cancelled booking must be rejected")
    }
    if CanPay(BookingCompleted, PaymentUnpaid) {
        t.Fatal("paying a completed booking must be rejected")
    }
}
