// Package service implements the booking engine: the reservation
// coordinator that links the slot ledger with the booking store, and
// the lifecycle controller that validates and applies status and
// payment transitions.  All mutations run inside a single database
// transaction so that slot and booking state move both-or-neither.
package service

import (
    "context"
    "database/sql"
    "errors"
    "log"
    "time"

    "github.com/iliyamo/sports-court-booking/internal/model"
    "github.com/iliyamo/sports-court-booking/internal/repository"
)

// BookingService coordinates the slot ledger and booking store.  It
// is the only component allowed to touch both tables in one atomic
// unit; handlers never mutate slot or booking state directly.
//
// Every principal-scoped operation verifies ownership before doing
// anything else, and every lifecycle transition follows the same
// shape: read current state, reject illegal moves with
// ErrInvalidTransition, then apply a conditional update that yields
// ErrConflict when a concurrent request moved the state first.
type BookingService struct {
    db       *sql.DB
    Slots    *repository.SlotRepo
    Bookings *repository.BookingRepo
    Courts   *repository.CourtRepo
}

// NewBookingService constructs a BookingService with the provided
// repositories.  All dependencies must be non-nil.
func NewBookingService(db *sql.DB, slots *repository.SlotRepo, bookings *repository.BookingRepo, courts *repository.CourtRepo) *BookingService {
    if db == nil || slots == nil || bookings == nil || courts == nil {
        panic("nil dependency passed to NewBookingService")
    }
    return &BookingService{db: db, Slots: slots, Bookings: bookings, Courts: courts}
}

// amountCents prices a slot from the court's hourly rate and the slot
// duration.  Times are DB TIME strings ("15:04:05"); a malformed or
// non-positive interval prices at zero rather than failing the
// reservation, since slot rows are validated at creation time.
func amountCents(hourlyRateCents uint32, startTime, endTime string) uint32 {
    const layout = "15:04:05"
    start, err1 := time.Parse(layout, startTime)
    end, err2 := time.Parse(layout, endTime)
    if err1 != nil || err2 != nil {
        return 0
    }
    minutes := end.Sub(start).Minutes()
    if minutes <= 0 {
        return 0
    }
    return uint32(float64(hourlyRateCents) * minutes / 60.0)
}

// Reserve attempts to create exactly one Pending/Unpaid booking for
// exactly one Available slot on the given court.  The slot flip and
// the booking insert share one transaction: if the insert fails the
// flip is rolled back, so a failed reservation leaves no residue and
// can be retried safely.
//
// It returns repository.ErrSlotNotFound when the slot is absent or
// belongs to another court, and repository.ErrSlotNotAvailable when
// the slot is Booked or Blocked, when the court itself is not Active,
// or when this call lost the race against a concurrent reservation
// for the same slot.
func (s *BookingService) Reserve(ctx context.Context, studentID, courtID, slotID uint64, notes *string) (*model.Booking, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    slot, err := s.Slots.GetByIDTx(ctx, tx, slotID)
    if err != nil {
        return nil, err
    }
    if slot.CourtID != courtID {
        return nil, repository.ErrSlotNotFound
    }
    if slot.Status != model.SlotAvailable {
        return nil, repository.ErrSlotNotAvailable
    }
    court, err := s.Courts.GetByIDTx(ctx, tx, courtID)
    if err != nil {
        return nil, err
    }
    // A court under maintenance or retired keeps its slot rows, but
    // none of them are bookable until the court is Active again.
    if court.Status != "Active" {
        return nil, repository.ErrSlotNotAvailable
    }

    // The conditional flip is the at-most-one-winner guarantee: of
    // any number of concurrent reservations for this slot, exactly
    // one observes an affected row here.
    won, err := s.Slots.TryReserveTx(ctx, tx, slotID)
    if err != nil {
        return nil, err
    }
    if !won {
        return nil, repository.ErrSlotNotAvailable
    }

    booking := &model.Booking{
        StudentID:        studentID,
        CourtID:          courtID,
        SlotID:           slotID,
        TotalAmountCents: amountCents(court.HourlyRateCents, slot.StartTime, slot.EndTime),
        Notes:            notes,
    }
    if err := s.Bookings.CreateTx(ctx, tx, booking); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return booking, nil
}

// loadOwned fetches a booking inside the transaction and enforces
// that it belongs to the calling student.
func (s *BookingService) loadOwned(ctx context.Context, tx *sql.Tx, bookingID, studentID uint64) (*model.Booking, error) {
    b, err := s.Bookings.GetByIDTx(ctx, tx, bookingID)
    if err != nil {
        return nil, err
    }
    if b.StudentID != studentID {
        return nil, repository.ErrForbidden
    }
    return b, nil
}

// Confirm transitions a booking from Pending to Confirmed.  Any other
// current status yields repository.ErrInvalidTransition; losing a
// race against a concurrent transition yields repository.ErrConflict.
func (s *BookingService) Confirm(ctx context.Context, bookingID, studentID uint64) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    b, err := s.loadOwned(ctx, tx, bookingID, studentID)
    if err != nil {
        return err
    }
    if !model.CanTransition(b.Status, model.BookingConfirmed) {
        return repository.ErrInvalidTransition
    }
    if err := s.Bookings.UpdateStatusTx(ctx, tx, bookingID,
        []model.BookingStatus{model.BookingPending}, model.BookingConfirmed); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Cancel transitions a booking from Pending or Confirmed to Cancelled
// and releases its slot back to Available in the same atomic unit.  A
// Paid booking is flipped to Refunded by the same statement.  When
// the slot turns out not to be Booked the inconsistency is logged and
// the cancellation still commits: the booking-side transition is the
// authoritative one.
func (s *BookingService) Cancel(ctx context.Context, bookingID, studentID uint64) (*model.Booking, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    b, err := s.loadOwned(ctx, tx, bookingID, studentID)
    if err != nil {
        return nil, err
    }
    if !model.CanTransition(b.Status, model.BookingCancelled) {
        return nil, repository.ErrInvalidTransition
    }
    cancelledAt := time.Now().UTC()
    if err := s.Bookings.CancelTx(ctx, tx, bookingID, cancelledAt); err != nil {
        return nil, err
    }
    if err := s.Slots.ReleaseTx(ctx, tx, b.SlotID); err != nil {
        if errors.Is(err, repository.ErrSlotNotBooked) {
            log.Printf("booking-cancel: invariant violation: slot %d was not Booked while cancelling booking %d", b.SlotID, bookingID)
        } else {
            return nil, err
        }
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true

    // Reflect the committed transition in the returned snapshot so
    // callers (and published events) see the post-cancel state.
    b.Status = model.BookingCancelled
    b.CancellationDate = &cancelledAt
    if b.PaymentStatus == model.PaymentPaid {
        b.PaymentStatus = model.PaymentRefunded
    }
    return b, nil
}

// Pay records a payment outcome decided elsewhere (the gateway is out
// of scope) for a Pending or Confirmed, Unpaid booking.  Paying never
// confirms the booking; confirm and pay are independent calls.  An
// already-Paid, Cancelled or Completed booking yields
// repository.ErrInvalidTransition.
func (s *BookingService) Pay(ctx context.Context, bookingID, studentID uint64, method string, txnRef *string) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    b, err := s.loadOwned(ctx, tx, bookingID, studentID)
    if err != nil {
        return err
    }
    if !model.CanPay(b.Status, b.PaymentStatus) {
        return repository.ErrInvalidTransition
    }
    if err := s.Bookings.UpdatePaymentTx(ctx, tx, bookingID, method, txnRef); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Complete transitions a Confirmed, Paid booking to Completed.  It is
// an administrative operation (triggered once the slot time has
// elapsed) and is not scoped to a student principal.
func (s *BookingService) Complete(ctx context.Context, bookingID uint64) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    b, err := s.Bookings.GetByIDTx(ctx, tx, bookingID)
    if err != nil {
        return err
    }
    if b.PaymentStatus != model.PaymentPaid || !model.CanTransition(b.Status, model.BookingCompleted) {
        return repository.ErrInvalidTransition
    }
    if err := s.Bookings.UpdateStatusTx(ctx, tx, bookingID,
        []model.BookingStatus{model.BookingConfirmed}, model.BookingCompleted); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
