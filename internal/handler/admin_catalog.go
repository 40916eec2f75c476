package handler // handler implements catalog maintenance endpoints for administrators

import (
    "database/sql"
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sports-court-booking/internal/config"
    "github.com/iliyamo/sports-court-booking/internal/model"
    "github.com/iliyamo/sports-court-booking/internal/repository"
    "github.com/iliyamo/sports-court-booking/internal/utils"
)

// CatalogHandler maintains the reference data the booking engine
// depends on: sports, courts, slots and staff.  Deletions are refused
// with 409 while dependent rows exist, so the engine never prices a
// booking against a missing court or slot.
type CatalogHandler struct {
    Sports *repository.SportRepo
    Courts *repository.CourtRepo
    Slots  *repository.SlotRepo
    Staff  *repository.StaffRepo
    Cfg    config.Config
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(sports *repository.SportRepo, courts *repository.CourtRepo, slots *repository.SlotRepo, staff *repository.StaffRepo, cfg config.Config) *CatalogHandler {
    return &CatalogHandler{Sports: sports, Courts: courts, Slots: slots, Staff: staff, Cfg: cfg}
}

// ---- sports ----

type sportRequest struct {
    Name        string  `json:"name"`
    Description *string `json:"description"`
}

// CreateSport adds a sport to the catalog.
func (h *CatalogHandler) CreateSport(c echo.Context) error {
    var req sportRequest
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    s := model.Sport{Name: strings.TrimSpace(req.Name), Description: req.Description}
    if err := h.Sports.Create(c.Request().Context(), &s); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, s)
}

// ListSports returns every sport.
func (h *CatalogHandler) ListSports(c echo.Context) error {
    sports, err := h.Sports.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"sports": sports})
}

// UpdateSport rewrites a sport's name and description.
func (h *CatalogHandler) UpdateSport(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sport id"})
    }
    var req sportRequest
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    s := model.Sport{ID: id, Name: strings.TrimSpace(req.Name), Description: req.Description}
    if err := h.Sports.Update(c.Request().Context(), &s); err != nil {
        if errors.Is(err, repository.ErrSportNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "sport not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "sport updated"})
}

// DeleteSport removes a sport.  409 while courts still reference it.
func (h *CatalogHandler) DeleteSport(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sport id"})
    }
    if err := h.Sports.Delete(c.Request().Context(), id); err != nil {
        switch {
        case errors.Is(err, repository.ErrSportNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "sport not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "sport still has courts assigned"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "sport deleted"})
}

// ---- courts ----

type courtRequest struct {
    SportID         uint64 `json:"sport_id"`
    StaffID         uint64 `json:"staff_id"`
    Name            string `json:"name"`
    Location        string `json:"location"`
    Capacity        uint32 `json:"capacity"`
    HourlyRateCents uint32 `json:"hourly_rate_cents"`
    Status          string `json:"status"`
}

// allowedCourtStatuses mirrors the courts.status column's enum.
var allowedCourtStatuses = map[string]bool{
    "Active": true, "Maintenance": true, "Inactive": true,
}

func (req *courtRequest) validate() string {
    if req.SportID == 0 || req.StaffID == 0 {
        return "sport_id and staff_id are required"
    }
    if strings.TrimSpace(req.Name) == "" {
        return "name is required"
    }
    if req.Status != "" && !allowedCourtStatuses[req.Status] {
        return "status must be one of Active, Maintenance, Inactive"
    }
    return ""
}

// CreateCourt adds a court to the catalog.
func (h *CatalogHandler) CreateCourt(c echo.Context) error {
    var req courtRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    court := model.Court{
        SportID: req.SportID, StaffID: req.StaffID,
        Name: strings.TrimSpace(req.Name), Location: req.Location,
        Capacity: req.Capacity, HourlyRateCents: req.HourlyRateCents, Status: req.Status,
    }
    if err := h.Courts.Create(c.Request().Context(), &court); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, court)
}

// ListCourts returns every court with sport and staff names.
func (h *CatalogHandler) ListCourts(c echo.Context) error {
    courts, err := h.Courts.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"courts": courts})
}

// UpdateCourt rewrites a court's fields.  Rate changes price future
// reservations only; existing bookings keep their recorded amount.
func (h *CatalogHandler) UpdateCourt(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
    }
    var req courtRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    court := model.Court{
        ID: id, SportID: req.SportID, StaffID: req.StaffID,
        Name: strings.TrimSpace(req.Name), Location: req.Location,
        Capacity: req.Capacity, HourlyRateCents: req.HourlyRateCents, Status: req.Status,
    }
    if court.Status == "" {
        court.Status = "Active"
    }
    if err := h.Courts.Update(c.Request().Context(), &court); err != nil {
        if errors.Is(err, repository.ErrCourtNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "court updated"})
}

// DeleteCourt removes a court.  409 while active bookings reference it.
func (h *CatalogHandler) DeleteCourt(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
    }
    if err := h.Courts.Delete(c.Request().Context(), id); err != nil {
        switch {
        case errors.Is(err, repository.ErrCourtNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "court has active bookings"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "court deleted"})
}

// ---- slots ----

type slotRequest struct {
    CourtID   uint64 `json:"court_id"`
    SlotDate  string `json:"slot_date"`
    StartTime string `json:"start_time"`
    EndTime   string `json:"end_time"`
    Status    string `json:"status"`
}

// allowedSlotStatuses restricts what administrators may set directly.
// Booked is excluded: only the reservation path flips a slot to
// Booked, otherwise a slot could be held with no booking behind it.
var allowedSlotStatuses = map[string]bool{
    string(model.SlotAvailable): true,
    string(model.SlotBlocked):   true,
}

func (req *slotRequest) validate(requireCourt bool) string {
    if requireCourt && req.CourtID == 0 {
        return "court_id is required"
    }
    if req.SlotDate == "" || req.StartTime == "" || req.EndTime == "" {
        return "slot_date, start_time and end_time are required"
    }
    if req.StartTime >= req.EndTime {
        return "start_time must be before end_time"
    }
    if req.Status != "" && !allowedSlotStatuses[req.Status] {
        return "status must be Available or Blocked"
    }
    return ""
}

// CreateSlot opens a bookable interval on a court.
func (h *CatalogHandler) CreateSlot(c echo.Context) error {
    var req slotRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg := req.validate(true); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    // Verify the court exists up front for a clean 404.
    if _, err := h.Courts.GetByID(c.Request().Context(), req.CourtID); err != nil {
        if errors.Is(err, repository.ErrCourtNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    slot := model.Slot{
        CourtID: req.CourtID, SlotDate: req.SlotDate,
        StartTime: req.StartTime, EndTime: req.EndTime,
        Status: model.SlotStatus(req.Status),
    }
    if err := h.Slots.Create(c.Request().Context(), &slot); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, slot)
}

// ListSlots returns a court's slots, optionally filtered by ?date=.
func (h *CatalogHandler) ListSlots(c echo.Context) error {
    courtID, ok := pathID(c, "court_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
    }
    slots, err := h.Slots.ListByCourt(c.Request().Context(), courtID, strings.TrimSpace(c.QueryParam("date")))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"slots": slots})
}

// UpdateSlot rewrites a slot's schedule or blocks it for maintenance.
func (h *CatalogHandler) UpdateSlot(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
    }
    var req slotRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg := req.validate(false); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    slot := model.Slot{
        ID: id, SlotDate: req.SlotDate,
        StartTime: req.StartTime, EndTime: req.EndTime,
        Status: model.SlotStatus(req.Status),
    }
    if slot.Status == "" {
        slot.Status = model.SlotAvailable
    }
    if err := h.Slots.Update(c.Request().Context(), &slot); err != nil {
        switch {
        case errors.Is(err, repository.ErrSlotNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "slot is booked; cancel the booking first"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "slot updated"})
}

// DeleteSlot removes a slot.  409 while an active booking holds it.
func (h *CatalogHandler) DeleteSlot(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
    }
    if err := h.Slots.Delete(c.Request().Context(), id); err != nil {
        switch {
        case errors.Is(err, repository.ErrSlotNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "slot has an active booking"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "slot deleted"})
}

// ---- staff ----

type staffRequest struct {
    Name      string  `json:"name"`
    Email     string  `json:"email"`
    Password  string  `json:"password"`
    Role      string  `json:"role"`
    ReportsTo *uint64 `json:"reports_to"`
}

// CreateStaff adds a staff member.  The password is bcrypt-hashed
// before storage.
func (h *CatalogHandler) CreateStaff(c echo.Context) error {
    var req staffRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if strings.TrimSpace(req.Name) == "" || req.Email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
    }
    if len(req.Password) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
    }
    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash error"})
    }
    st := model.Staff{
        Name: strings.TrimSpace(req.Name), Email: req.Email,
        PasswordHash: hash, Role: req.Role, ReportsTo: req.ReportsTo,
    }
    if err := h.Staff.Create(c.Request().Context(), &st); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, st)
}

// ListStaff returns every staff member.
func (h *CatalogHandler) ListStaff(c echo.Context) error {
    staff, err := h.Staff.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"staff": staff})
}

// UpdateStaff rewrites a staff member's profile fields.  Passwords
// are not changed through this endpoint.
func (h *CatalogHandler) UpdateStaff(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff id"})
    }
    var req staffRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if strings.TrimSpace(req.Name) == "" || req.Email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
    }
    st := model.Staff{
        ID: id, Name: strings.TrimSpace(req.Name), Email: req.Email,
        Role: req.Role, ReportsTo: req.ReportsTo,
    }
    if st.Role == "" {
        st.Role = "Admin"
    }
    if err := h.Staff.Update(c.Request().Context(), &st); err != nil {
        if errors.Is(err, repository.ErrStaffNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "staff not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "staff updated"})
}

// DeleteStaff removes a staff member.  409 while they manage courts.
func (h *CatalogHandler) DeleteStaff(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff id"})
    }
    if err := h.Staff.Delete(c.Request().Context(), id); err != nil {
        switch {
        case errors.Is(err, repository.ErrStaffNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "staff not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "staff member still manages courts"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "staff deleted"})
}

// GetStaff returns one staff member by id.
func (h *CatalogHandler) GetStaff(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff id"})
    }
    st, err := h.Staff.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "staff not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, st)
}
