package repository

import (
    "context"
    "database/sql"
)

// DashboardStats aggregates counters shown on the admin dashboard.
// The numbers are computed with independent subqueries in a single
// round trip; they are a point-in-time snapshot, not a consistent
// view relative to in-flight bookings.
type DashboardStats struct {
    ConfirmedBookings uint64 `json:"confirmed_bookings"`
    PendingBookings   uint64 `json:"pending_bookings"`
    CancelledBookings uint64 `json:"cancelled_bookings"`
    CompletedBookings uint64 `json:"completed_bookings"`
    ActiveCourts      uint64 `json:"active_courts"`
    ActiveStudents    uint64 `json:"active_students"`
    TotalRevenueCents uint64 `json:"total_revenue_cents"`
    AvailableSlots    uint64 `json:"available_slots"`
    BookedSlots       uint64 `json:"booked_slots"`
}

// DashboardRepo serves read-only aggregate queries for the admin view.
type DashboardRepo struct{ db *sql.DB }

// NewDashboardRepo constructs a DashboardRepo with the given DB handle.
func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{db: db} }

// Stats returns the dashboard counters.
func (r *DashboardRepo) Stats(ctx context.Context) (*DashboardStats, error) {
    const q = `SELECT
        (SELECT COUNT(*) FROM bookings WHERE booking_status = 'Confirmed'),
        (SELECT COUNT(*) FROM bookings WHERE booking_status = 'Pending'),
        (SELECT COUNT(*) FROM bookings WHERE booking_status = 'Cancelled'),
        (SELECT COUNT(*) FROM bookings WHERE booking_status = 'Completed'),
        (SELECT COUNT(*) FROM courts WHERE status = 'Active'),
        (SELECT COUNT(*) FROM students WHERE status = 'Active'),
        (SELECT COALESCE(SUM(total_amount_cents), 0) FROM bookings WHERE payment_status = 'Paid'),
        (SELECT COUNT(*) FROM slots WHERE status = 'Available'),
        (SELECT COUNT(*) FROM slots WHERE status = 'Booked')`
    var s DashboardStats
    err := r.db.QueryRowContext(ctx, q).Scan(
        &s.ConfirmedBookings, &s.PendingBookings, &s.CancelledBookings, &s.CompletedBookings,
        &s.ActiveCourts, &s.ActiveStudents, &s.TotalRevenueCents, &s.AvailableSlots, &s.BookedSlots,
    )
    if err != nil {
        return nil, err
    }
    return &s, nil
}
