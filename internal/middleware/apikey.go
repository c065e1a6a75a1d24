package middleware

import (
    "crypto/subtle"
    "net/http"

    "github.com/labstack/echo/v4"
)

// APIKey returns an Echo middleware that requires the static shared secret
// in the X-API-Key header.  The comparison is constant time.  This guards
// every mutating endpoint; the status listing and health check stay open.
func APIKey(key string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            got := c.Request().Header.Get("X-API-Key")
            if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized: missing or invalid api key"})
            }
            return next(c)
        }
    }
}
