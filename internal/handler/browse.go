package handler // handler implements the unauthenticated browse endpoints

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sports-court-booking/internal/repository"
)

// BrowseHandler serves the public catalog: sports, courts and slot
// availability.  No authentication is required; responses are
// read-only and sit behind the Redis response cache.
type BrowseHandler struct {
    Sports *repository.SportRepo
    Courts *repository.CourtRepo
    Slots  *repository.SlotRepo
}

// NewBrowseHandler constructs a BrowseHandler.
func NewBrowseHandler(sports *repository.SportRepo, courts *repository.CourtRepo, slots *repository.SlotRepo) *BrowseHandler {
    return &BrowseHandler{Sports: sports, Courts: courts, Slots: slots}
}

// ListSports lists every sport in the catalog.
func (h *BrowseHandler) ListSports(c echo.Context) error {
    sports, err := h.Sports.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"sports": sports})
}

// ListCourts lists every court with its sport and managing staff.
func (h *BrowseHandler) ListCourts(c echo.Context) error {
    courts, err := h.Courts.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"courts": courts})
}

// CourtSlots lists a court's slots with their availability status,
// optionally restricted to one calendar date via ?date=YYYY-MM-DD.
// Students pick a slot here and then reserve it through the booking
// endpoints.
func (h *BrowseHandler) CourtSlots(c echo.Context) error {
    courtID, ok := pathID(c, "court_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
    }
    if _, err := h.Courts.GetByID(c.Request().Context(), courtID); err != nil {
        return writeEngineError(c, err)
    }
    slots, err := h.Slots.ListByCourt(c.Request().Context(), courtID, strings.TrimSpace(c.QueryParam("date")))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"slots": slots})
}
