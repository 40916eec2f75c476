package handler // handler implements HTTP endpoints for administrators

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sports-court-booking/internal/model"
    "github.com/iliyamo/sports-court-booking/internal/repository"
    "github.com/iliyamo/sports-court-booking/internal/service"
)

// AdminHandler exposes the staff-facing surface: dashboard counters,
// the cross-student booking backlog and the Complete transition.
// Catalog maintenance (sports, courts, slots, staff) lives in the
// catalog handler file.
type AdminHandler struct {
    Dashboard *repository.DashboardRepo
    Bookings  *repository.BookingRepo
    Engine    *service.BookingService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(dashboard *repository.DashboardRepo, bookings *repository.BookingRepo, engine *service.BookingService) *AdminHandler {
    return &AdminHandler{Dashboard: dashboard, Bookings: bookings, Engine: engine}
}

// Stats returns the dashboard counters: booking totals by status,
// active courts and students, paid revenue and slot availability.
func (h *AdminHandler) Stats(c echo.Context) error {
    stats, err := h.Dashboard.Stats(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, stats)
}

// ListBookings returns bookings across all students, optionally
// filtered by ?status= and ?date= (slot date, YYYY-MM-DD).
func (h *AdminHandler) ListBookings(c echo.Context) error {
    status := strings.TrimSpace(c.QueryParam("status"))
    if status != "" && !model.ValidBookingStatus(model.BookingStatus(status)) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
    }
    date := strings.TrimSpace(c.QueryParam("date"))
    details, err := h.Bookings.ListAll(c.Request().Context(), status, date)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// CompleteBooking transitions a Confirmed, Paid booking to Completed.
// Staff trigger it once the slot time has elapsed.
func (h *AdminHandler) CompleteBooking(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    if err := h.Engine.Complete(c.Request().Context(), id); err != nil {
        return writeEngineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "booking completed"})
}
