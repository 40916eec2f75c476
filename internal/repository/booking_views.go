package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/sports-court-booking/internal/model"
)

// BookingDetail is a read-only projection joining a booking with its
// court, sport and slot metadata.  It is returned by the listing and
// detail queries for display to students.  The projection has no side
// effects and may be eventually consistent relative to in-flight
// writes.
type BookingDetail struct {
    ID               uint64              `json:"id"`
    Status           model.BookingStatus `json:"booking_status"`
    PaymentStatus    model.PaymentStatus `json:"payment_status"`
    TotalAmountCents uint32              `json:"total_amount_cents"`
    PaymentMethod    *string             `json:"payment_method,omitempty"`
    TransactionRef   *string             `json:"transaction_ref,omitempty"`
    Notes            *string             `json:"notes,omitempty"`
    CancellationDate *string             `json:"cancellation_date,omitempty"`
    CreatedAt        string              `json:"created_at"`
    CourtID          uint64              `json:"court_id"`
    CourtName        string              `json:"court_name"`
    Location         string              `json:"location"`
    HourlyRateCents  uint32              `json:"hourly_rate_cents"`
    SportName        string              `json:"sport_name"`
    SlotID           uint64              `json:"slot_id"`
    SlotDate         string              `json:"slot_date"`
    StartTime        string              `json:"start_time"`
    EndTime          string              `json:"end_time"`
}

// AdminBookingDetail extends BookingDetail with the identity of the
// student who made the booking.  It is used by admin endpoints only.
type AdminBookingDetail struct {
    BookingDetail
    StudentID uint64 `json:"student_id"`
    StudentNo string `json:"student_no"`
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    Email     string `json:"email"`
}

const detailJoin = ` FROM bookings b
               JOIN courts c ON c.id = b.court_id
               JOIN sports sp ON sp.id = c.sport_id
               JOIN slots sl ON sl.id = b.slot_id`

const detailColumns = `b.id, b.booking_status, b.payment_status, b.total_amount_cents,
                      b.payment_method, b.transaction_ref, b.notes, b.cancellation_date, b.created_at,
                      c.id, c.name, c.location, c.hourly_rate_cents, sp.name,
                      sl.id, sl.slot_date, sl.start_time, sl.end_time`

func scanDetail(scan func(dest ...interface{}) error) (*BookingDetail, error) {
    var (
        d       BookingDetail
        method  sql.NullString
        txnRef  sql.NullString
        notes   sql.NullString
        cancels sql.NullTime
        created time.Time
    )
    err := scan(
        &d.ID, &d.Status, &d.PaymentStatus, &d.TotalAmountCents,
        &method, &txnRef, &notes, &cancels, &created,
        &d.CourtID, &d.CourtName, &d.Location, &d.HourlyRateCents, &d.SportName,
        &d.SlotID, &d.SlotDate, &d.StartTime, &d.EndTime,
    )
    if err != nil {
        return nil, err
    }
    if method.Valid {
        m := method.String
        d.PaymentMethod = &m
    }
    if txnRef.Valid {
        ref := txnRef.String
        d.TransactionRef = &ref
    }
    if notes.Valid {
        n := notes.String
        d.Notes = &n
    }
    if cancels.Valid {
        iso := cancels.Time.UTC().Format(time.RFC3339)
        d.CancellationDate = &iso
    }
    d.CreatedAt = created.UTC().Format(time.RFC3339)
    return &d, nil
}

// GetDetailForStudent returns a single booking with joined court,
// sport and slot details, restricted to the calling student to
// enforce ownership.  ErrBookingNotFound is returned both when the
// booking does not exist and when it belongs to someone else, so the
// response does not leak other students' booking IDs.
func (r *BookingRepo) GetDetailForStudent(ctx context.Context, bookingID, studentID uint64) (*BookingDetail, error) {
    const q = `SELECT ` + detailColumns + detailJoin + ` WHERE b.id = ? AND b.student_id = ?`
    d, err := scanDetail(r.db.QueryRowContext(ctx, q, bookingID, studentID).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return d, nil
}

// ListByStudent returns all bookings for the given student along with
// court, sport and slot details, newest first.  When status is
// non-empty only bookings in that status are returned.  When no
// bookings exist, an empty slice is returned.
func (r *BookingRepo) ListByStudent(ctx context.Context, studentID uint64, status string) ([]BookingDetail, error) {
    q := `SELECT ` + detailColumns + detailJoin + ` WHERE b.student_id = ?`
    args := []interface{}{studentID}
    if status != "" {
        q += ` AND b.booking_status = ?`
        args = append(args, status)
    }
    q += ` ORDER BY b.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        d, err := scanDetail(rows.Scan)
        if err != nil {
            return nil, err
        }
        details = append(details, *d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// ListAll returns bookings across all students for the admin view,
// joined with the booking student's identity.  Optional filters
// restrict by booking status and by slot date.  Results are ordered
// by creation time descending.
func (r *BookingRepo) ListAll(ctx context.Context, status, date string) ([]AdminBookingDetail, error) {
    q := `SELECT ` + detailColumns + `,
                      st.id, st.student_no, st.first_name, st.last_name, st.email` +
        detailJoin + `
               JOIN students st ON st.id = b.student_id
               WHERE 1=1`
    args := []interface{}{}
    if status != "" {
        q += ` AND b.booking_status = ?`
        args = append(args, status)
    }
    if date != "" {
        q += ` AND sl.slot_date = ?`
        args = append(args, date)
    }
    q += ` ORDER BY b.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]AdminBookingDetail, 0)
    for rows.Next() {
        var (
            d       AdminBookingDetail
            method  sql.NullString
            txnRef  sql.NullString
            notes   sql.NullString
            cancels sql.NullTime
            created time.Time
        )
        if err := rows.Scan(
            &d.ID, &d.Status, &d.PaymentStatus, &d.TotalAmountCents,
            &method, &txnRef, &notes, &cancels, &created,
            &d.CourtID, &d.CourtName, &d.Location, &d.HourlyRateCents, &d.SportName,
            &d.SlotID, &d.SlotDate, &d.StartTime, &d.EndTime,
            &d.StudentID, &d.StudentNo, &d.FirstName, &d.LastName, &d.Email,
        ); err != nil {
            return nil, err
        }
        if method.Valid {
            m := method.String
            d.PaymentMethod = &m
        }
        if txnRef.Valid {
            ref := txnRef.String
            d.TransactionRef = &ref
        }
        if notes.Valid {
            n := notes.String
            d.Notes = &n
        }
        if cancels.Valid {
            iso := cancels.Time.UTC().Format(time.RFC3339)
            d.CancellationDate = &iso
        }
        d.CreatedAt = created.UTC().Format(time.RFC3339)
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}
