package handler // handler implements HTTP endpoints for student bookings

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sports-court-booking/internal/model"
    "github.com/iliyamo/sports-court-booking/internal/queue"
    "github.com/iliyamo/sports-court-booking/internal/repository"
    "github.com/iliyamo/sports-court-booking/internal/service"
)

// BookingHandler exposes the student-facing booking lifecycle over
// HTTP.  All mutations are delegated to the BookingService; the
// handler only binds requests, enforces the authenticated identity
// and translates engine errors into status codes.
type BookingHandler struct {
    Engine   *service.BookingService
    Bookings *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(engine *service.BookingService, bookings *repository.BookingRepo) *BookingHandler {
    return &BookingHandler{Engine: engine, Bookings: bookings}
}

// reserveRequest is the JSON body accepted by Reserve.
type reserveRequest struct {
    CourtID uint64  `json:"court_id"`
    SlotID  uint64  `json:"slot_id"`
    Notes   *string `json:"notes"`
}

// payRequest is the JSON body accepted by Pay.
type payRequest struct {
    PaymentMethod  string  `json:"payment_method"`
    TransactionRef *string `json:"transaction_ref"`
}

// allowedPaymentMethods mirrors the payment_method column's enum.
var allowedPaymentMethods = map[string]bool{
    "Cash": true, "Card": true, "Online": true,
}

// Reserve creates a Pending booking for an Available slot.  On
// success a booking.created event is published asynchronously; event
// delivery never affects the HTTP response.
func (h *BookingHandler) Reserve(c echo.Context) error {
    studentID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req reserveRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.CourtID == 0 || req.SlotID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "court_id and slot_id are required"})
    }

    b, err := h.Engine.Reserve(c.Request().Context(), studentID, req.CourtID, req.SlotID, req.Notes)
    if err != nil {
        return writeEngineError(c, err)
    }

    go publishEvent(queue.EventBookingCreated, b)

    return c.JSON(http.StatusCreated, b)
}

// List returns the calling student's bookings, optionally filtered by
// status via the ?status= query parameter.
func (h *BookingHandler) List(c echo.Context) error {
    studentID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    status := strings.TrimSpace(c.QueryParam("status"))
    if status != "" && !model.ValidBookingStatus(model.BookingStatus(status)) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
    }
    details, err := h.Bookings.ListByStudent(c.Request().Context(), studentID, status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Get returns one booking with joined court, sport and slot details.
// Bookings belonging to other students read as 404, not 403, so the
// endpoint does not reveal which IDs exist.
func (h *BookingHandler) Get(c echo.Context) error {
    studentID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    d, err := h.Bookings.GetDetailForStudent(c.Request().Context(), id, studentID)
    if err != nil {
        return writeEngineError(c, err)
    }
    return c.JSON(http.StatusOK, d)
}

// Confirm moves a Pending booking to Confirmed.
func (h *BookingHandler) Confirm(c echo.Context) error {
    studentID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    if err := h.Engine.Confirm(c.Request().Context(), id, studentID); err != nil {
        return writeEngineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "booking confirmed"})
}

// Cancel moves a Pending or Confirmed booking to Cancelled, releases
// its slot, and refunds the payment if one was recorded.  A
// booking.cancelled event is published asynchronously on success.
func (h *BookingHandler) Cancel(c echo.Context) error {
    studentID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    b, err := h.Engine.Cancel(c.Request().Context(), id, studentID)
    if err != nil {
        return writeEngineError(c, err)
    }

    go publishEvent(queue.EventBookingCancelled, b)

    return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled"})
}

// Pay records a payment for a Pending or Confirmed, Unpaid booking.
// Paying does not confirm the booking; that is a separate call.
func (h *BookingHandler) Pay(c echo.Context) error {
    studentID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var req payRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if !allowedPaymentMethods[req.PaymentMethod] {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method must be one of Cash, Card, Online"})
    }
    if err := h.Engine.Pay(c.Request().Context(), id, studentID, req.PaymentMethod, req.TransactionRef); err != nil {
        return writeEngineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "payment recorded"})
}

// publishEvent sends a booking event to the queue with a detached
// context so that publishing outlives the originating request.
// Failures are already logged by the publisher and are ignored here.
func publishEvent(eventType string, b *model.Booking) {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    _ = queue.PublishBookingEvent(ctx, queue.BookingEvent{
        Type:             eventType,
        BookingID:        b.ID,
        StudentID:        b.StudentID,
        CourtID:          b.CourtID,
        SlotID:           b.SlotID,
        BookingStatus:    string(b.Status),
        PaymentStatus:    string(b.PaymentStatus),
        TotalAmountCents: b.TotalAmountCents,
        OccurredAt:       time.Now().UTC().Format(time.RFC3339),
    })
}
