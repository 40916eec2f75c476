package handler

import (
    "net/http" // HTTP status codes

    "github.com/labstack/echo/v4" // echo context for handlers
)

// Health responds with a simple JSON document so load balancers and
// uptime checks can verify the process is serving requests.
func Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
