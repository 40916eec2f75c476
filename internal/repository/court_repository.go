package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/sports-court-booking/internal/model"
)

// CourtRepo manages persistence for courts.  Courts are reference
// data for the booking engine: the hourly rate is re-read at
// reservation time so that rate changes affect new bookings only.
type CourtRepo struct {
    db *sql.DB
}

// NewCourtRepo constructs a CourtRepo with the given DB handle.
func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

const courtColumns = `id, sport_id, staff_id, name, location, capacity, hourly_rate_cents, status, created_at, updated_at`

// Create inserts a new court and populates the generated ID and
// DB-default fields on the given model.
func (r *CourtRepo) Create(ctx context.Context, c *model.Court) error {
    if c.Status == "" {
        c.Status = "Active"
    }
    const q = `INSERT INTO courts (sport_id, staff_id, name, location, capacity, hourly_rate_cents, status)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, c.SportID, c.StaffID, c.Name, c.Location, c.Capacity, c.HourlyRateCents, c.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    const sel = `SELECT ` + courtColumns + ` FROM courts WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, c.ID).Scan(
        &c.ID, &c.SportID, &c.StaffID, &c.Name, &c.Location, &c.Capacity, &c.HourlyRateCents, &c.Status, &c.CreatedAt, &c.UpdatedAt,
    )
}

// GetByID retrieves a court by its ID.  It returns ErrCourtNotFound
// if there is no matching row.
func (r *CourtRepo) GetByID(ctx context.Context, id uint64) (*model.Court, error) {
    const q = `SELECT ` + courtColumns + ` FROM courts WHERE id = ?`
    var c model.Court
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &c.ID, &c.SportID, &c.StaffID, &c.Name, &c.Location, &c.Capacity, &c.HourlyRateCents, &c.Status, &c.CreatedAt, &c.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrCourtNotFound
        }
        return nil, err
    }
    return &c, nil
}

// GetByIDTx is like GetByID but reads through the provided
// transaction.  The reservation path uses it so the hourly rate it
// prices a booking with is consistent with the rest of the atomic
// unit; rates are re-read on every reservation, never cached.
func (r *CourtRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Court, error) {
    const q = `SELECT ` + courtColumns + ` FROM courts WHERE id = ?`
    var c model.Court
    err := tx.QueryRowContext(ctx, q, id).Scan(
        &c.ID, &c.SportID, &c.StaffID, &c.Name, &c.Location, &c.Capacity, &c.HourlyRateCents, &c.Status, &c.CreatedAt, &c.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrCourtNotFound
        }
        return nil, err
    }
    return &c, nil
}

// CourtDetail joins a court with its sport and managing staff names
// for listing views.
type CourtDetail struct {
    model.Court
    SportName string `json:"sport_name"`
    StaffName string `json:"staff_name"`
}

// ListAll returns every court joined with sport and staff names,
// ordered by court name.
func (r *CourtRepo) ListAll(ctx context.Context) ([]CourtDetail, error) {
    const q = `SELECT c.id, c.sport_id, c.staff_id, c.name, c.location, c.capacity, c.hourly_rate_cents, c.status,
                      c.created_at, c.updated_at, sp.name, st.name
               FROM courts c
               JOIN sports sp ON sp.id = c.sport_id
               JOIN staff st ON st.id = c.staff_id
               ORDER BY c.name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    courts := make([]CourtDetail, 0)
    for rows.Next() {
        var d CourtDetail
        if err := rows.Scan(
            &d.ID, &d.SportID, &d.StaffID, &d.Name, &d.Location, &d.Capacity, &d.HourlyRateCents, &d.Status,
            &d.CreatedAt, &d.UpdatedAt, &d.SportName, &d.StaffName,
        ); err != nil {
            return nil, err
        }
        courts = append(courts, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return courts, nil
}

// Update rewrites all mutable fields of a court.  ErrCourtNotFound is
// returned when the court does not exist.
func (r *CourtRepo) Update(ctx context.Context, c *model.Court) error {
    const q = `UPDATE courts SET sport_id = ?, staff_id = ?, name = ?, location = ?, capacity = ?, hourly_rate_cents = ?, status = ?
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, c.SportID, c.StaffID, c.Name, c.Location, c.Capacity, c.HourlyRateCents, c.Status, c.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var exists uint64
        err := r.db.QueryRowContext(ctx, `SELECT id FROM courts WHERE id = ?`, c.ID).Scan(&exists)
        if errors.Is(err, sql.ErrNoRows) {
            return ErrCourtNotFound
        }
        return err
    }
    return nil
}

// Delete removes a court unless active bookings reference it.  It
// returns ErrConflict when Pending or Confirmed bookings exist and
// ErrCourtNotFound when the court is absent.
func (r *CourtRepo) Delete(ctx context.Context, id uint64) error {
    var active int
    const check = `SELECT COUNT(*) FROM bookings WHERE court_id = ? AND booking_status IN (?, ?)`
    if err := r.db.QueryRowContext(ctx, check, id, model.BookingPending, model.BookingConfirmed).Scan(&active); err != nil {
        return err
    }
    if active > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM courts WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrCourtNotFound
    }
    return nil
}
