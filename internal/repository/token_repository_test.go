package repository

import (
    "context"
    "database/sql"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
)

func newTokenRepo(t *testing.T) (*TokenRepo, sqlmock.Sqlmock, func()) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock.New: %v", err)
    }
    return NewTokenRepo(db), mock, func() { db.Close() }
}

func TestValidateRefresh(t *testing.T) {
    future := time.Now().UTC().Add(time.Hour)
    past := time.Now().UTC().Add(-time.Hour)
    revoked := time.Now().UTC().Add(-time.Minute)

    cases := []struct {
        name      string
        expiresAt time.Time
        revokedAt interface{}
        wantErr   bool
    }{
        {"valid token", future, nil, false},
        {"expired token", past, nil, true},
        {"revoked token", future, revoked, true},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            repo, mock, done := newTokenRepo(t)
            defer done()

            mock.ExpectQuery(`SELECT subject_id, subject_role, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=\?`).
                WithArgs("hash").
                WillReturnRows(sqlmock.NewRows([]string{"subject_id", "subject_role", "expires_at", "revoked_at"}).
                    AddRow(5, "STUDENT", tc.expiresAt, tc.revokedAt))

            id, role, err := repo.ValidateRefresh(context.Background(), "hash")
            if tc.wantErr {
                if !errors.Is(err, sql.ErrNoRows) {
                    t.Fatalf("want sql.ErrNoRows, got %v", err)
                }
                return
            }
            if err != nil {
                t.Fatalf("ValidateRefresh: %v", err)
            }
            if id != 5 || role != "STUDENT" {
                t.Fatalf("got subject %d/%s, want 5/STUDENT", id, role)
            }
            if err := mock.ExpectationsWereMet(); err != nil {
                t.Fatal(err)
            }
        })
    }
}

func TestRevokeAllForSubject(t *testing.T) {
    repo, mock, done := newTokenRepo(t)
    defer done()

    // Every non-revoked token of the principal is stamped at once.
    mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at=NOW\(\) WHERE subject_id=\? AND subject_role=\? AND revoked_at IS NULL`).
        WithArgs(uint64(5), "STUDENT").
        WillReturnResult(sqlmock.NewResult(0, 3))

    if err := repo.RevokeAllForSubject(context.Background(), 5, "STUDENT"); err != nil {
        t.Fatalf("RevokeAllForSubject: %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}
