package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/sports-court-booking/internal/model"
)

// BookingRepo provides CRUD and conditional-update operations for
// bookings.  Bookings track a student's claim on a court slot through
// its status and payment lifecycle.  Rows are never deleted:
// cancellation is a status transition, preserving audit history.  All
// timestamp fields are assumed to be stored in UTC.
//
// Status mutations go through conditional updates keyed on the
// expected prior state.  This is the mechanism that makes lifecycle
// transitions race-safe without external locking: when the stored
// state has already moved, the UPDATE affects zero rows and the
// caller observes ErrConflict instead of silently overwriting.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning the booking and slot repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, student_id, court_id, slot_id, booking_status, payment_status,
               total_amount_cents, payment_method, transaction_ref, notes, cancellation_date,
               created_at, updated_at`

func scanBooking(scan func(dest ...interface{}) error) (*model.Booking, error) {
    var (
        b       model.Booking
        method  sql.NullString
        txnRef  sql.NullString
        notes   sql.NullString
        cancels sql.NullTime
    )
    err := scan(
        &b.ID, &b.StudentID, &b.CourtID, &b.SlotID, &b.Status, &b.PaymentStatus,
        &b.TotalAmountCents, &method, &txnRef, &notes, &cancels,
        &b.CreatedAt, &b.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    if method.Valid {
        m := method.String
        b.PaymentMethod = &m
    }
    if txnRef.Valid {
        ref := txnRef.String
        b.TransactionRef = &ref
    }
    if notes.Valid {
        n := notes.String
        b.Notes = &n
    }
    if cancels.Valid {
        t := cancels.Time
        b.CancellationDate = &t
    }
    return &b, nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction.  The booking starts in Pending/Unpaid regardless of
// what the caller set on the struct.  It populates the generated ID
// and DB-default fields on the provided model and returns any error
// from the database.  The caller must commit or roll back the
// transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    b.Status = model.BookingPending
    b.PaymentStatus = model.PaymentUnpaid
    const q = `INSERT INTO bookings (student_id, court_id, slot_id, booking_status, payment_status, total_amount_cents, notes)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, b.StudentID, b.CourtID, b.SlotID, b.Status, b.PaymentStatus, b.TotalAmountCents, b.Notes)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Query back the full row to populate timestamps and defaults.
    const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    got, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID).Scan)
    if err != nil {
        return err
    }
    *b = *got
    return nil
}

// GetByID retrieves a booking by its ID.  It returns
// ErrBookingNotFound when no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    return scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
}

// GetByIDTx is like GetByID but reads through the provided
// transaction so the lifecycle controller can validate against a
// state that is consistent with its subsequent conditional update.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    return scanBooking(tx.QueryRowContext(ctx, q, id).Scan)
}

// statusPlaceholders renders an IN (...) argument list for the
// expected prior statuses of a conditional update.
func statusPlaceholders(expected []model.BookingStatus) (string, []interface{}) {
    ph := ""
    args := make([]interface{}, 0, len(expected))
    for i, s := range expected {
        if i > 0 {
            ph += ", "
        }
        ph += "?"
        args = append(args, s)
    }
    return ph, args
}

// UpdateStatusTx performs a conditional status update: the booking
// moves to next only if its stored status is one of expected at the
// moment of the write.  When the stored status has already moved (for
// example another request cancelled the booking first) zero rows are
// affected and ErrConflict is returned; the caller must re-read
// current state rather than retry blindly.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, expected []model.BookingStatus, next model.BookingStatus) error {
    ph, inArgs := statusPlaceholders(expected)
    q := `UPDATE bookings SET booking_status = ? WHERE id = ? AND booking_status IN (` + ph + `)`
    args := append([]interface{}{next, id}, inArgs...)
    res, err := tx.ExecContext(ctx, q, args...)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrConflict
    }
    return nil
}

// CancelTx marks a booking Cancelled in a single conditional update.
// It stamps the cancellation time and flips a Paid booking to
// Refunded in the same statement, so the status pair can never be
// observed half-moved.  Zero affected rows mean the booking was no
// longer Pending or Confirmed and ErrConflict is returned.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64, cancelledAt time.Time) error {
    const q = `UPDATE bookings
               SET booking_status = ?,
                   cancellation_date = ?,
                   payment_status = CASE WHEN payment_status = ? THEN ? ELSE payment_status END
               WHERE id = ? AND booking_status IN (?, ?)`
    res, err := tx.ExecContext(ctx, q,
        model.BookingCancelled,
        cancelledAt.UTC().Format("2006-01-02 15:04:05"),
        model.PaymentPaid, model.PaymentRefunded,
        id, model.BookingPending, model.BookingConfirmed,
    )
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrConflict
    }
    return nil
}

// UpdatePaymentTx records a payment outcome for a booking.  The
// conditional update only succeeds while the booking is Unpaid and
// still active, so a second payment attempt or a payment racing a
// cancellation affects zero rows and yields ErrConflict.  The booking
// status itself is left untouched: paying does not confirm.
func (r *BookingRepo) UpdatePaymentTx(ctx context.Context, tx *sql.Tx, id uint64, method string, txnRef *string) error {
    const q = `UPDATE bookings
               SET payment_status = ?, payment_method = ?, transaction_ref = ?
               WHERE id = ? AND payment_status = ? AND booking_status IN (?, ?)`
    res, err := tx.ExecContext(ctx, q,
        model.PaymentPaid, method, txnRef,
        id, model.PaymentUnpaid, model.BookingPending, model.BookingConfirmed,
    )
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrConflict
    }
    return nil
}

// CountActiveForSlot returns the number of bookings in Pending or
// Confirmed status referencing the given slot.  The ledger invariant
// requires this to be at most one; the value is exposed for admin
// checks and tests.
func (r *BookingRepo) CountActiveForSlot(ctx context.Context, slotID uint64) (int, error) {
    const q = `SELECT COUNT(*) FROM bookings WHERE slot_id = ? AND booking_status IN (?, ?)`
    var n int
    err := r.db.QueryRowContext(ctx, q, slotID, model.BookingPending, model.BookingConfirmed).Scan(&n)
    return n, err
}
