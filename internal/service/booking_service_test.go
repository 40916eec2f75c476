package service

import (
    "context"
    "database/sql"
    "errors"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"

    "github.com/iliyamo/sports-court-booking/internal/model"
    "github.com/iliyamo/sports-court-booking/internal/repository"
)

// newEngine builds a BookingService over a sqlmock database.
func newEngine(t *testing.T) (*BookingService, sqlmock.Sqlmock, func()) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock.New: %v", err)
    }
    svc := NewBookingService(db,
        repository.NewSlotRepo(db),
        repository.NewBookingRepo(db),
        repository.NewCourtRepo(db),
    )
    return svc, mock, func() { db.Close() }
}

var (
    slotCols = []string{"id", "court_id", "slot_date", "start_time", "end_time", "status", "created_at", "updated_at"}
    courtCols = []string{"id", "sport_id", "staff_id", "name", "location", "capacity", "hourly_rate_cents", "status", "created_at", "updated_at"}
    bookingCols = []string{"id", "student_id", "court_id", "slot_id", "booking_status", "payment_status",
        "total_amount_cents", "payment_method", "transaction_ref", "notes", "cancellation_date", "created_at", "updated_at"}
)

func slotRow(status model.SlotStatus) *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows(slotCols).
        AddRow(42, 7, "2026-09-10", "10:00:00", "11:30:00", string(status), now, now)
}

func courtRow(rateCents uint32, status string) *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows(courtCols).
        AddRow(7, 1, 2, "Court A", "North Hall", 4, rateCents, status, now, now)
}

func bookingRow(status model.BookingStatus, payment model.PaymentStatus) *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows(bookingCols).
        AddRow(11, 5, 7, 42, string(status), string(payment), 3000, nil, nil, nil, nil, now, now)
}

func expectSlotSelect(mock sqlmock.Sqlmock, status model.SlotStatus) {
    mock.ExpectQuery(`FROM slots WHERE id = \?`).WithArgs(42).WillReturnRows(slotRow(status))
}

func expectCourtSelect(mock sqlmock.Sqlmock, rateCents uint32) {
    mock.ExpectQuery(`FROM courts WHERE id = \?`).WithArgs(7).WillReturnRows(courtRow(rateCents, "Active"))
}

func expectBookingSelect(mock sqlmock.Sqlmock, status model.BookingStatus, payment model.PaymentStatus) {
    mock.ExpectQuery(`FROM bookings WHERE id = \?`).WithArgs(11).WillReturnRows(bookingRow(status, payment))
}

func TestReserve(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectSlotSelect(mock, model.SlotAvailable)
    expectCourtSelect(mock, 2000)
    // The conditional flip wins: one row affected.
    mock.ExpectExec(`UPDATE slots SET status = \?`).
        WithArgs(string(model.SlotBooked), 42, string(model.SlotAvailable)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    // 90 minutes at 2000 cents/hour prices the booking at 3000.
    mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bookings`)).
        WithArgs(uint64(5), uint64(7), uint64(42), string(model.BookingPending), string(model.PaymentUnpaid), uint32(3000), nil).
        WillReturnResult(sqlmock.NewResult(11, 1))
    expectBookingSelect(mock, model.BookingPending, model.PaymentUnpaid)
    mock.ExpectCommit()

    b, err := svc.Reserve(context.Background(), 5, 7, 42, nil)
    if err != nil {
        t.Fatalf("Reserve: %v", err)
    }
    if b.ID != 11 || b.Status != model.BookingPending || b.TotalAmountCents != 3000 {
        t.Fatalf("unexpected booking: %+v", b)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestReserveLostRace(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectSlotSelect(mock, model.SlotAvailable)
    expectCourtSelect(mock, 2000)
    // A concurrent reservation flipped the slot first: zero rows.
    mock.ExpectExec(`UPDATE slots SET status = \?`).
        WithArgs(string(model.SlotBooked), 42, string(model.SlotAvailable)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    _, err := svc.Reserve(context.Background(), 5, 7, 42, nil)
    if !errors.Is(err, repository.ErrSlotNotAvailable) {
        t.Fatalf("want ErrSlotNotAvailable, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestReserveBlockedSlot(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectSlotSelect(mock, model.SlotBlocked)
    mock.ExpectRollback()

    _, err := svc.Reserve(context.Background(), 5, 7, 42, nil)
    if !errors.Is(err, repository.ErrSlotNotAvailable) {
        t.Fatalf("want ErrSlotNotAvailable, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestReserveCourtUnderMaintenance(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectSlotSelect(mock, model.SlotAvailable)
    // The slot itself is Available but its court is not Active, so
    // the reservation is refused before the flip is attempted.
    mock.ExpectQuery(`FROM courts WHERE id = \?`).WithArgs(7).
        WillReturnRows(courtRow(2000, "Maintenance"))
    mock.ExpectRollback()

    _, err := svc.Reserve(context.Background(), 5, 7, 42, nil)
    if !errors.Is(err, repository.ErrSlotNotAvailable) {
        t.Fatalf("want ErrSlotNotAvailable, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestReserveSlotOnOtherCourt(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectSlotSelect(mock, model.SlotAvailable) // slot belongs to court 7
    mock.ExpectRollback()

    _, err := svc.Reserve(context.Background(), 5, 99, 42, nil)
    if !errors.Is(err, repository.ErrSlotNotFound) {
        t.Fatalf("want ErrSlotNotFound, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestReserveInsertFailureRollsBackSlot(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectSlotSelect(mock, model.SlotAvailable)
    expectCourtSelect(mock, 2000)
    mock.ExpectExec(`UPDATE slots SET status = \?`).
        WithArgs(string(model.SlotBooked), 42, string(model.SlotAvailable)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bookings`)).
        WillReturnError(sql.ErrConnDone)
    // The whole transaction rolls back, so the slot flip never lands.
    mock.ExpectRollback()

    _, err := svc.Reserve(context.Background(), 5, 7, 42, nil)
    if err == nil {
        t.Fatal("want error, got nil")
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestConfirm(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingPending, model.PaymentUnpaid)
    mock.ExpectExec(`UPDATE bookings SET booking_status = \?`).
        WithArgs(string(model.BookingConfirmed), uint64(11), string(model.BookingPending)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    if err := svc.Confirm(context.Background(), 11, 5); err != nil {
        t.Fatalf("Confirm: %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestConfirmCancelledBooking(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingCancelled, model.PaymentUnpaid)
    mock.ExpectRollback()

    err := svc.Confirm(context.Background(), 11, 5)
    if !errors.Is(err, repository.ErrInvalidTransition) {
        t.Fatalf("want ErrInvalidTransition, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestConfirmLostRace(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingPending, model.PaymentUnpaid)
    // The booking moved between the read and the write: zero rows.
    mock.ExpectExec(`UPDATE bookings SET booking_status = \?`).
        WithArgs(string(model.BookingConfirmed), uint64(11), string(model.BookingPending)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    err := svc.Confirm(context.Background(), 11, 5)
    if !errors.Is(err, repository.ErrConflict) {
        t.Fatalf("want ErrConflict, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestConfirmForeignBooking(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingPending, model.PaymentUnpaid) // owned by student 5
    mock.ExpectRollback()

    err := svc.Confirm(context.Background(), 11, 6)
    if !errors.Is(err, repository.ErrForbidden) {
        t.Fatalf("want ErrForbidden, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestCancelReleasesSlotAndRefunds(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingConfirmed, model.PaymentPaid)
    mock.ExpectExec(`UPDATE bookings`).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE slots SET status = \?`).
        WithArgs(string(model.SlotAvailable), uint64(42), string(model.SlotBooked)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    b, err := svc.Cancel(context.Background(), 11, 5)
    if err != nil {
        t.Fatalf("Cancel: %v", err)
    }
    if b.Status != model.BookingCancelled {
        t.Fatalf("status = %s, want Cancelled", b.Status)
    }
    if b.PaymentStatus != model.PaymentRefunded {
        t.Fatalf("payment = %s, want Refunded", b.PaymentStatus)
    }
    if b.CancellationDate == nil {
        t.Fatal("cancellation date not set")
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestCancelCompletedBooking(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingCompleted, model.PaymentPaid)
    mock.ExpectRollback()

    _, err := svc.Cancel(context.Background(), 11, 5)
    if !errors.Is(err, repository.ErrInvalidTransition) {
        t.Fatalf("want ErrInvalidTransition, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestCancelCommitsDespiteUnbookedSlot(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingPending, model.PaymentUnpaid)
    mock.ExpectExec(`UPDATE bookings`).
        WillReturnResult(sqlmock.NewResult(0, 1))
    // The slot was not Booked; the release affects zero rows but the
    // cancellation still commits.
    mock.ExpectExec(`UPDATE slots SET status = \?`).
        WithArgs(string(model.SlotAvailable), uint64(42), string(model.SlotBooked)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectCommit()

    if _, err := svc.Cancel(context.Background(), 11, 5); err != nil {
        t.Fatalf("Cancel: %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestPay(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    ref := "TXN-123"
    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingConfirmed, model.PaymentUnpaid)
    mock.ExpectExec(`UPDATE bookings`).
        WithArgs(string(model.PaymentPaid), "Card", &ref, uint64(11),
            string(model.PaymentUnpaid), string(model.BookingPending), string(model.BookingConfirmed)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    if err := svc.Pay(context.Background(), 11, 5, "Card", &ref); err != nil {
        t.Fatalf("Pay: %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestPayTwice(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingConfirmed, model.PaymentPaid)
    mock.ExpectRollback()

    err := svc.Pay(context.Background(), 11, 5, "Card", nil)
    if !errors.Is(err, repository.ErrInvalidTransition) {
        t.Fatalf("want ErrInvalidTransition, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestPayDoesNotConfirm(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingPending, model.PaymentUnpaid)
    // Only payment columns move; booking_status is not among the SET
    // arguments.
    mock.ExpectExec(`UPDATE bookings\s+SET payment_status = \?`).
        WithArgs(string(model.PaymentPaid), "Cash", nil, uint64(11),
            string(model.PaymentUnpaid), string(model.BookingPending), string(model.BookingConfirmed)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    if err := svc.Pay(context.Background(), 11, 5, "Cash", nil); err != nil {
        t.Fatalf("Pay: %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestComplete(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingConfirmed, model.PaymentPaid)
    mock.ExpectExec(`UPDATE bookings SET booking_status = \?`).
        WithArgs(string(model.BookingCompleted), uint64(11), string(model.BookingConfirmed)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    if err := svc.Complete(context.Background(), 11); err != nil {
        t.Fatalf("Complete: %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestCompleteUnpaidBooking(t *testing.T) {
    svc, mock, done := newEngine(t)
    defer done()

    mock.ExpectBegin()
    expectBookingSelect(mock, model.BookingConfirmed, model.PaymentUnpaid)
    mock.ExpectRollback()

    err := svc.Complete(context.Background(), 11)
    if !errors.Is(err, repository.ErrInvalidTransition) {
        t.Fatalf("want ErrInvalidTransition, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestAmountCents(t *testing.T) {
    cases := []struct {
        name  string
        rate  uint32
        start string
        end   string
        want  uint32
    }{
        {"full hour", 2000, "10:00:00", "11:00:00", 2000},
        {"ninety minutes", 2000, "10:00:00", "11:30:00", 3000},
        {"half hour", 1500, "09:00:00", "09:30:00", 750},
        {"zero-length interval", 2000, "10:00:00", "10:00:00", 0},
        {"inverted interval", 2000, "11:00:00", "10:00:00", 0},
        {"malformed time", 2000, "bogus", "11:00:00", 0},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := amountCents(tc.rate, tc.start, tc.end); got != tc.want {
                t.Fatalf("amountCents(%d, %q, %q) = %d, want %d", tc.rate, tc.start, tc.end, got, tc.want)
            }
        })
    }
}
