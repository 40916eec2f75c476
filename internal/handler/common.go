package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "net/http"
    "strconv" // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/sports-court-booking/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// writeEngineError maps booking engine sentinel errors to stable,
// distinguishable HTTP responses so clients can decide whether to
// retry (409) or give up and refresh their view (404, 403, 422).
// Unknown errors become 500.
func writeEngineError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrSlotNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
    case errors.Is(err, repository.ErrBookingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, repository.ErrCourtNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, repository.ErrSlotNotAvailable):
        return c.JSON(http.StatusConflict, echo.Map{"error": "slot not available"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "conflict, please re-read current state"})
    case errors.Is(err, repository.ErrInvalidTransition):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid transition"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
}
