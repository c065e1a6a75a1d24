package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/lockerbay/locker-reservation/internal/handler"
    "github.com/lockerbay/locker-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.  The
// health check is used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterLockers wires the reservation endpoints.  The status listing is
// public (and cached); assign, validate and release require the static
// API key and share the rate limiter.  Either middleware may be nil to
// disable the corresponding layer.
func RegisterLockers(e *echo.Echo, h *handler.LockerHandler, apiKey string, cache, limit echo.MiddlewareFunc) {
    if cache != nil {
        e.GET("/v1/lockers", h.Status, cache)
    } else {
        e.GET("/v1/lockers", h.Status)
    }

    g := e.Group("/v1")
    g.Use(middleware.APIKey(apiKey))
    if limit != nil {
        g.Use(limit)
    }
    g.POST("/lockers/assign", h.Assign)
    g.POST("/codes/validate", h.Validate)
    g.POST("/lockers/:id/release", h.Release)
}
