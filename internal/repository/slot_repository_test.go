package repository

import (
    "context"
    "errors"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"

    "github.com/iliyamo/sports-court-booking/internal/model"
)

func TestUpdateRewritesUnbookedSlot(t *testing.T) {
    mock, repos, done := newMockDB(t)
    defer done()
    _, slots := repos()

    // The guard excludes Booked rows from the rewrite.
    mock.ExpectExec(`UPDATE slots SET slot_date = \?, start_time = \?, end_time = \?, status = \? WHERE id = \? AND status <> \?`).
        WithArgs("2026-09-12", "08:00:00", "09:00:00", string(model.SlotBlocked), uint64(42), string(model.SlotBooked)).
        WillReturnResult(sqlmock.NewResult(0, 1))

    s := model.Slot{ID: 42, SlotDate: "2026-09-12", StartTime: "08:00:00", EndTime: "09:00:00", Status: model.SlotBlocked}
    if err := slots.Update(context.Background(), &s); err != nil {
        t.Fatalf("Update: %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestUpdateRefusesBookedSlot(t *testing.T) {
    mock, repos, done := newMockDB(t)
    defer done()
    _, slots := repos()

    // The row exists but is Booked, so the guarded UPDATE touches
    // nothing and the follow-up read reveals why.
    mock.ExpectExec(`UPDATE slots SET slot_date = \?, start_time = \?, end_time = \?, status = \? WHERE id = \? AND status <> \?`).
        WithArgs("2026-09-12", "08:00:00", "09:00:00", string(model.SlotAvailable), uint64(42), string(model.SlotBooked)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(`SELECT status FROM slots WHERE id = \?`).
        WithArgs(uint64(42)).
        WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(string(model.SlotBooked)))

    s := model.Slot{ID: 42, SlotDate: "2026-09-12", StartTime: "08:00:00", EndTime: "09:00:00", Status: model.SlotAvailable}
    if err := slots.Update(context.Background(), &s); !errors.Is(err, ErrConflict) {
        t.Fatalf("want ErrConflict, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestUpdateMissingSlot(t *testing.T) {
    mock, repos, done := newMockDB(t)
    defer done()
    _, slots := repos()

    mock.ExpectExec(`UPDATE slots SET`).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(`SELECT status FROM slots WHERE id = \?`).
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows([]string{"status"}))

    s := model.Slot{ID: 99, SlotDate: "2026-09-12", StartTime: "08:00:00", EndTime: "09:00:00", Status: model.SlotAvailable}
    if err := slots.Update(context.Background(), &s); !errors.Is(err, ErrSlotNotFound) {
        t.Fatalf("want ErrSlotNotFound, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestCountActiveForSlot(t *testing.T) {
    mock, repos, done := newMockDB(t)
    defer done()
    bookings, _ := repos()

    // The ledger invariant: at most one booking in Pending or
    // Confirmed may reference a slot.
    mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE slot_id = \? AND booking_status IN \(\?, \?\)`).
        WithArgs(uint64(42), string(model.BookingPending), string(model.BookingConfirmed)).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

    n, err := bookings.CountActiveForSlot(context.Background(), 42)
    if err != nil {
        t.Fatalf("CountActiveForSlot: %v", err)
    }
    if n > 1 {
        t.Fatalf("active bookings for slot = %d, invariant allows at most 1", n)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}
