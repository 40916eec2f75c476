package repository

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"

    "github.com/iliyamo/sports-court-booking/internal/model"
)

func newMockDB(t *testing.T) (sqlmock.Sqlmock, func() (*BookingRepo, *SlotRepo), func()) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock.New: %v", err)
    }
    repos := func() (*BookingRepo, *SlotRepo) {
        return NewBookingRepo(db), NewSlotRepo(db)
    }
    return mock, repos, func() { db.Close() }
}

func TestTryReserveTx(t *testing.T) {
    mock, repos, done := newMockDB(t)
    defer done()
    _, slots := repos()

    cases := []struct {
        name    string
        rows    int64
        wantWon bool
    }{
        {"wins the flip", 1, true},
        {"loses the flip", 0, false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            mock.ExpectBegin()
            mock.ExpectExec(`UPDATE slots SET status = \? WHERE id = \? AND status = \?`).
                WithArgs(string(model.SlotBooked), uint64(42), string(model.SlotAvailable)).
                WillReturnResult(sqlmock.NewResult(0, tc.rows))
            mock.ExpectRollback()

            tx, err := slots.DB().Begin()
            if err != nil {
                t.Fatalf("begin: %v", err)
            }
            defer tx.Rollback()

            won, err := slots.TryReserveTx(context.Background(), tx, 42)
            if err != nil {
                t.Fatalf("TryReserveTx: %v", err)
            }
            if won != tc.wantWon {
                t.Fatalf("won = %v, want %v", won, tc.wantWon)
            }
        })
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestReleaseTxNotBooked(t *testing.T) {
    mock, repos, done := newMockDB(t)
    defer done()
    _, slots := repos()

    mock.ExpectBegin()
    mock.ExpectExec(`UPDATE slots SET status = \? WHERE id = \? AND status = \?`).
        WithArgs(string(model.SlotAvailable), uint64(42), string(model.SlotBooked)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    tx, err := slots.DB().Begin()
    if err != nil {
        t.Fatalf("begin: %v", err)
    }

    if err := slots.ReleaseTx(context.Background(), tx, 42); !errors.Is(err, ErrSlotNotBooked) {
        t.Fatalf("want ErrSlotNotBooked, got %v", err)
    }
    _ = tx.Rollback()
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestCancelTxRefundsInOneStatement(t *testing.T) {
    mock, repos, done := newMockDB(t)
    defer done()
    bookings, _ := repos()

    cancelledAt := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

    mock.ExpectBegin()
    // One statement moves booking_status, stamps cancellation_date and
    // flips Paid to Refunded via CASE, guarded by the active statuses.
    mock.ExpectExec(`UPDATE bookings\s+SET booking_status = \?,\s+cancellation_date = \?,\s+payment_status = CASE`).
        WithArgs(string(model.BookingCancelled), "2026-09-10 12:00:00",
            string(model.PaymentPaid), string(model.PaymentRefunded),
            uint64(11), string(model.BookingPending), string(model.BookingConfirmed)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectRollback()

    tx, err := bookings.DB().Begin()
    if err != nil {
        t.Fatalf("begin: %v", err)
    }

    if err := bookings.CancelTx(context.Background(), tx, 11, cancelledAt); err != nil {
        t.Fatalf("CancelTx: %v", err)
    }
    _ = tx.Rollback()
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestCancelTxConflictWhenAlreadyTerminal(t *testing.T) {
    mock, repos, done := newMockDB(t)
    defer done()
    bookings, _ := repos()

    mock.ExpectBegin()
    mock.ExpectExec(`UPDATE bookings`).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    tx, err := bookings.DB().Begin()
    if err != nil {
        t.Fatalf("begin: %v", err)
    }

    if err := bookings.CancelTx(context.Background(), tx, 11, time.Now().UTC()); !errors.Is(err, ErrConflict) {
        t.Fatalf("want ErrConflict, got %v", err)
    }
    _ = tx.Rollback()
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestUpdatePaymentTxConflict(t *testing.T) {
    mock, repos, done := newMockDB(t)
    defer done()
    bookings, _ := repos()

    mock.ExpectBegin()
    // Already paid, or the booking is no longer active: zero rows.
    mock.ExpectExec(`UPDATE bookings\s+SET payment_status = \?`).
        WithArgs(string(model.PaymentPaid), "Card", nil, uint64(11),
            string(model.PaymentUnpaid), string(model.BookingPending), string(model.BookingConfirmed)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    tx, err := bookings.DB().Begin()
    if err != nil {
        t.Fatalf("begin: %v", err)
    }

    if err := bookings.UpdatePaymentTx(context.Background(), tx, 11, "Card", nil); !errors.Is(err, ErrConflict) {
        t.Fatalf("want ErrConflict, got %v", err)
    }
    _ = tx.Rollback()
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}
