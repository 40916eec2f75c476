package repository

import (
    "context"
    "database/sql"
    "time"
)

// TokenRepo persists/validates refresh tokens (single 'token_hash'
// column).  Tokens are stored for both students and staff; the
// subject_role column records which kind of principal owns the row.
type TokenRepo struct{ DB *sql.DB }

// NewTokenRepo constructs a TokenRepo with the given DB handle.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, subjectID uint64, role, tokenHash string, exp time.Time) error {
    _, err := r.DB.ExecContext(ctx,
        "INSERT INTO refresh_tokens (subject_id, subject_role, token_hash, expires_at) VALUES (?,?,?,?)",
        subjectID, role, tokenHash, exp)
    return err
}

// ValidateRefresh returns the subject ID and role if a non-revoked,
// non-expired token exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, string, error) {
    var (
        subjectID uint64
        role      string
        expiresAt time.Time
        revokedAt sql.NullTime
    )
    err := r.DB.QueryRowContext(ctx,
        "SELECT subject_id, subject_role, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
        tokenHash).Scan(&subjectID, &role, &expiresAt, &revokedAt)
    if err != nil {
        return 0, "", err
    }
    if revokedAt.Valid {
        return 0, "", sql.ErrNoRows
    }
    if time.Now().UTC().After(expiresAt) {
        return 0, "", sql.ErrNoRows
    }
    return subjectID, role, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
    _, err := r.DB.ExecContext(ctx,
        "UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
        tokenHash)
    return err
}

// RevokeAllForSubject revokes all of a principal's active tokens.
func (r *TokenRepo) RevokeAllForSubject(ctx context.Context, subjectID uint64, role string) error {
    _, err := r.DB.ExecContext(ctx,
        "UPDATE refresh_tokens SET revoked_at=NOW() WHERE subject_id=? AND subject_role=? AND revoked_at IS NULL",
        subjectID, role)
    return err
}
