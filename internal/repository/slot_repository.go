// Package repository contains data access logic for the booking domain.
// This file implements the slot ledger: the authoritative availability
// state of every bookable time interval on a court.  The ledger is the
// serialization point for reservations: TryReserveTx performs a
// conditional UPDATE so that at most one concurrent caller can flip a
// slot from Available to Booked.
package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/sports-court-booking/internal/model"
)

// SlotRepo encapsulates database operations for slots.  Mutating
// methods carry a Tx suffix and operate on a caller-provided
// transaction so that slot and booking writes share one atomic unit.
type SlotRepo struct {
    db *sql.DB
}

// NewSlotRepo constructs a SlotRepo with the given DB handle.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *SlotRepo) DB() *sql.DB { return r.db }

const slotColumns = `id, court_id, slot_date, start_time, end_time, status, created_at, updated_at`

func scanSlot(row *sql.Row) (*model.Slot, error) {
    var s model.Slot
    err := row.Scan(&s.ID, &s.CourtID, &s.SlotDate, &s.StartTime, &s.EndTime, &s.Status, &s.CreatedAt, &s.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrSlotNotFound
        }
        return nil, err
    }
    return &s, nil
}

// GetByID retrieves a slot by its ID.  It returns ErrSlotNotFound if
// there is no matching row.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (*model.Slot, error) {
    const q = `SELECT ` + slotColumns + ` FROM slots WHERE id = ?`
    return scanSlot(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDTx is like GetByID but reads through the provided
// transaction so that the returned state is consistent with other
// reads in the same atomic unit.
func (r *SlotRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Slot, error) {
    const q = `SELECT ` + slotColumns + ` FROM slots WHERE id = ?`
    return scanSlot(tx.QueryRowContext(ctx, q, id))
}

// TryReserveTx attempts to transition a slot from Available to Booked
// within the provided transaction.  The conditional UPDATE guarantees
// that when two callers race for the same slot, at most one observes
// an affected row; the loser must treat the slot as not available.
// The caller must commit or roll back the transaction.
func (r *SlotRepo) TryReserveTx(ctx context.Context, tx *sql.Tx, slotID uint64) (bool, error) {
    const q = `UPDATE slots SET status = ? WHERE id = ? AND status = ?`
    res, err := tx.ExecContext(ctx, q, model.SlotBooked, slotID, model.SlotAvailable)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n == 1, nil
}

// ReleaseTx transitions a slot from Booked back to Available within
// the provided transaction.  It returns ErrSlotNotBooked when the row
// was not in Booked status; callers treat that as a non-fatal
// invariant violation to be logged, since a cancelled booking must
// still complete.
func (r *SlotRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, slotID uint64) error {
    const q = `UPDATE slots SET status = ? WHERE id = ? AND status = ?`
    res, err := tx.ExecContext(ctx, q, model.SlotAvailable, slotID, model.SlotBooked)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrSlotNotBooked
    }
    return nil
}

// Create inserts a new slot for a court and populates the generated
// ID and DB-default fields on the given model.  Administrators use
// this to open intervals for booking; status defaults to Available
// unless explicitly provided.
func (r *SlotRepo) Create(ctx context.Context, s *model.Slot) error {
    if s.Status == "" {
        s.Status = model.SlotAvailable
    }
    const q = `INSERT INTO slots (court_id, slot_date, start_time, end_time, status) VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, s.CourtID, s.SlotDate, s.StartTime, s.EndTime, s.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    const sel = `SELECT ` + slotColumns + ` FROM slots WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, s.ID).Scan(
        &s.ID, &s.CourtID, &s.SlotDate, &s.StartTime, &s.EndTime, &s.Status, &s.CreatedAt, &s.UpdatedAt,
    )
}

// ListByCourt returns all slots for a court ordered by date and start
// time.  When date is non-empty, only slots on that calendar date are
// returned.  An empty result is a valid outcome and yields an empty
// slice.
func (r *SlotRepo) ListByCourt(ctx context.Context, courtID uint64, date string) ([]model.Slot, error) {
    q := `SELECT ` + slotColumns + ` FROM slots WHERE court_id = ?`
    args := []interface{}{courtID}
    if date != "" {
        q += ` AND slot_date = ?`
        args = append(args, date)
    }
    q += ` ORDER BY slot_date, start_time`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    slots := make([]model.Slot, 0)
    for rows.Next() {
        var s model.Slot
        if err := rows.Scan(&s.ID, &s.CourtID, &s.SlotDate, &s.StartTime, &s.EndTime, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        slots = append(slots, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return slots, nil
}

// Update rewrites the schedule fields and status of a slot.  It is an
// administrative operation; the booking engine never calls it.  Note
// that status here may also set Blocked for maintenance windows.
// Booked slots are off limits: only the reservation and cancellation
// paths move a slot in or out of Booked, so the guard below refuses
// the rewrite with ErrConflict while an active booking holds the row.
func (r *SlotRepo) Update(ctx context.Context, s *model.Slot) error {
    const q = `UPDATE slots SET slot_date = ?, start_time = ?, end_time = ?, status = ? WHERE id = ? AND status <> ?`
    res, err := r.db.ExecContext(ctx, q, s.SlotDate, s.StartTime, s.EndTime, s.Status, s.ID, model.SlotBooked)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // Missing row, Booked row, or a no-change write; distinguish.
        var status model.SlotStatus
        err := r.db.QueryRowContext(ctx, `SELECT status FROM slots WHERE id = ?`, s.ID).Scan(&status)
        if errors.Is(err, sql.ErrNoRows) {
            return ErrSlotNotFound
        }
        if err != nil {
            return err
        }
        if status == model.SlotBooked {
            return ErrConflict
        }
    }
    return nil
}

// Delete removes a slot unless an active booking still references it.
// It returns ErrConflict when a Pending or Confirmed booking exists
// for the slot and ErrSlotNotFound when the slot is absent.
func (r *SlotRepo) Delete(ctx context.Context, id uint64) error {
    var active int
    const check = `SELECT COUNT(*) FROM bookings WHERE slot_id = ? AND booking_status IN (?, ?)`
    if err := r.db.QueryRowContext(ctx, check, id, model.BookingPending, model.BookingConfirmed).Scan(&active); err != nil {
        return err
    }
    if active > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrSlotNotFound
    }
    return nil
}
