package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/sports-court-booking/internal/model"
)

// ErrStaffNotFound indicates that a staff member was not located in the DB.
var ErrStaffNotFound = errors.New("staff not found")

// StaffRepo manages persistence for staff members, the administrative
// principals who maintain courts, sports and slots.
type StaffRepo struct{ DB *sql.DB }

// NewStaffRepo constructs a StaffRepo with the given DB handle.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

const staffColumns = `id, name, email, password_hash, role, reports_to, created_at, updated_at`

func scanStaff(scan func(dest ...interface{}) error) (model.Staff, error) {
    var (
        s         model.Staff
        reportsTo sql.NullInt64
    )
    err := scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Role, &reportsTo, &s.CreatedAt, &s.UpdatedAt)
    if err != nil {
        return model.Staff{}, err
    }
    if reportsTo.Valid {
        rt := uint64(reportsTo.Int64)
        s.ReportsTo = &rt
    }
    return s, nil
}

// Create inserts a staff member and populates the generated ID.
func (r *StaffRepo) Create(ctx context.Context, s *model.Staff) error {
    if s.Role == "" {
        s.Role = "Admin"
    }
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO staff (name, email, password_hash, role, reports_to) VALUES (?, ?, ?, ?, ?)`,
        s.Name, s.Email, s.PasswordHash, s.Role, s.ReportsTo)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    got, err := scanStaff(r.DB.QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = ?`, s.ID).Scan)
    if err != nil {
        return err
    }
    *s = got
    return nil
}

// GetByEmail fetches a staff member by email for admin login.
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (model.Staff, error) {
    return scanStaff(r.DB.QueryRowContext(ctx,
        `SELECT `+staffColumns+` FROM staff WHERE LOWER(email) = LOWER(?) LIMIT 1`, email).Scan)
}

// GetByID fetches a staff member by id.
func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (model.Staff, error) {
    return scanStaff(r.DB.QueryRowContext(ctx,
        `SELECT `+staffColumns+` FROM staff WHERE id = ? LIMIT 1`, id).Scan)
}

// ListAll returns all staff members ordered by name.
func (r *StaffRepo) ListAll(ctx context.Context) ([]model.Staff, error) {
    rows, err := r.DB.QueryContext(ctx, `SELECT `+staffColumns+` FROM staff ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    staff := make([]model.Staff, 0)
    for rows.Next() {
        s, err := scanStaff(rows.Scan)
        if err != nil {
            return nil, err
        }
        staff = append(staff, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return staff, nil
}

// Update rewrites a staff member's profile fields.
func (r *StaffRepo) Update(ctx context.Context, s *model.Staff) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE staff SET name = ?, email = ?, role = ?, reports_to = ? WHERE id = ?`,
        s.Name, s.Email, s.Role, s.ReportsTo, s.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var exists uint64
        err := r.DB.QueryRowContext(ctx, `SELECT id FROM staff WHERE id = ?`, s.ID).Scan(&exists)
        if errors.Is(err, sql.ErrNoRows) {
            return ErrStaffNotFound
        }
        return err
    }
    return nil
}

// Delete removes a staff member unless they still manage courts, in
// which case ErrConflict is returned.
func (r *StaffRepo) Delete(ctx context.Context, id uint64) error {
    var courts int
    if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM courts WHERE staff_id = ?`, id).Scan(&courts); err != nil {
        return err
    }
    if courts > 0 {
        return ErrConflict
    }
    res, err := r.DB.ExecContext(ctx, `DELETE FROM staff WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrStaffNotFound
    }
    return nil
}
