package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health is the liveness endpoint consumed by load balancers and lock
// controller watchdogs.  It answers a plain "ok" with status 200 and
// requires no authentication.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
