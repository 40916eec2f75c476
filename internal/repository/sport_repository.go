package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/sports-court-booking/internal/model"
)

// ErrSportNotFound indicates that a sport was not located in the DB.
var ErrSportNotFound = errors.New("sport not found")

// SportRepo manages persistence for the sports reference table.
type SportRepo struct{ db *sql.DB }

// NewSportRepo constructs a SportRepo with the given DB handle.
func NewSportRepo(db *sql.DB) *SportRepo { return &SportRepo{db: db} }

// Create inserts a sport and populates its generated ID.
func (r *SportRepo) Create(ctx context.Context, s *model.Sport) error {
    res, err := r.db.ExecContext(ctx, `INSERT INTO sports (name, description) VALUES (?, ?)`, s.Name, s.Description)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    return r.db.QueryRowContext(ctx, `SELECT id, name, description, created_at FROM sports WHERE id = ?`, s.ID).
        Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt)
}

// ListAll returns every sport ordered by name.
func (r *SportRepo) ListAll(ctx context.Context) ([]model.Sport, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM sports ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    sports := make([]model.Sport, 0)
    for rows.Next() {
        var s model.Sport
        if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt); err != nil {
            return nil, err
        }
        sports = append(sports, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return sports, nil
}

// Update rewrites a sport's name and description.
func (r *SportRepo) Update(ctx context.Context, s *model.Sport) error {
    res, err := r.db.ExecContext(ctx, `UPDATE sports SET name = ?, description = ? WHERE id = ?`, s.Name, s.Description, s.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var exists uint64
        err := r.db.QueryRowContext(ctx, `SELECT id FROM sports WHERE id = ?`, s.ID).Scan(&exists)
        if errors.Is(err, sql.ErrNoRows) {
            return ErrSportNotFound
        }
        return err
    }
    return nil
}

// Delete removes a sport unless courts are still assigned to it, in
// which case ErrConflict is returned.
func (r *SportRepo) Delete(ctx context.Context, id uint64) error {
    var courts int
    if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courts WHERE sport_id = ?`, id).Scan(&courts); err != nil {
        return err
    }
    if courts > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM sports WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrSportNotFound
    }
    return nil
}
