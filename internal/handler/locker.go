package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/lockerbay/locker-reservation/internal/engine"
    "github.com/lockerbay/locker-reservation/internal/model"
    "github.com/lockerbay/locker-reservation/internal/queue"
    "github.com/lockerbay/locker-reservation/internal/repository"
)

// EventPublisher pushes locker lifecycle events to the message broker.
// Publishing is best effort: a broker outage must never fail the request
// that triggered the event.
type EventPublisher interface {
    Publish(ctx context.Context, ev queue.LockerEvent) error
}

// LockerHandler exposes the reservation engine over HTTP.  Each endpoint
// maps 1:1 onto one engine operation; the handler only binds input,
// translates sentinel errors to status codes and emits lifecycle events.
// API key authentication is applied by middleware before these run.
type LockerHandler struct {
    Engine *engine.Engine
    Events EventPublisher // optional; nil disables event publishing
}

// NewLockerHandler constructs a LockerHandler.  The engine must be
// non-nil; events may be nil.
func NewLockerHandler(eng *engine.Engine, events EventPublisher) *LockerHandler {
    if eng == nil {
        panic("nil engine passed to NewLockerHandler")
    }
    return &LockerHandler{Engine: eng, Events: events}
}

// Assign handles POST /v1/lockers/assign.  The body carries the customer
// payload; which fields are required depends on the configured profile.
// On success it returns 201 with the locker id, access code, expiry and QR
// render URL.
func (h *LockerHandler) Assign(c echo.Context) error {
    var customer model.Customer
    if err := c.Bind(&customer); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    a, err := h.Engine.Assign(c.Request().Context(), customer)
    switch {
    case errors.Is(err, engine.ErrMissingFields):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrNoCapacity):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "no lockers available, try again later"})
    case err != nil:
        log.Printf("assign failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to assign locker"})
    }
    h.publish(c, queue.LockerEvent{
        Type:      queue.EventAssigned,
        LockerID:  a.LockerID,
        Code:      a.Code,
        ExpiresAt: a.ExpiresAt.UTC().Format(time.RFC3339),
        ClientID:  a.Customer.ClientID,
    })
    return c.JSON(http.StatusCreated, echo.Map{
        "customer":   a.Customer,
        "locker_id":  a.LockerID,
        "code":       a.Code,
        "expires_at": a.ExpiresAt.UTC().Format(time.RFC3339),
        "qr_url":     a.QRURL,
    })
}

// Validate handles POST /v1/codes/validate.  It is read-only and always
// answers 200: unknown, redeemed and malformed codes all collapse into
// the same invalid result.
func (h *LockerHandler) Validate(c echo.Context) error {
    var body struct {
        Code string `json:"code"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    v, err := h.Engine.Validate(c.Request().Context(), body.Code)
    if err != nil {
        log.Printf("validate failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to validate code"})
    }
    return c.JSON(http.StatusOK, v)
}

// Release handles POST /v1/lockers/:id/release.  It consumes the code and
// frees the locker.  Releasing an already-available locker with its spent
// code succeeds again, so lock controllers can safely retry.
func (h *LockerHandler) Release(c echo.Context) error {
    lockerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || lockerID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid locker id"})
    }
    var body struct {
        Code string `json:"code"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Code == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
    }
    err = h.Engine.Redeem(c.Request().Context(), lockerID, body.Code)
    switch {
    case errors.Is(err, repository.ErrLockerNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "locker not found"})
    case errors.Is(err, engine.ErrCodeMismatch):
        return c.JSON(http.StatusConflict, echo.Map{"error": "code does not match locker"})
    case err != nil:
        log.Printf("release failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release locker"})
    }
    h.publish(c, queue.LockerEvent{
        Type:     queue.EventReleased,
        LockerID: lockerID,
        Code:     body.Code,
    })
    return c.JSON(http.StatusOK, echo.Map{"message": "locker released"})
}

// Status handles GET /v1/lockers.  It returns one row per locker in id
// order; occupied rows include the active assignment's details.
func (h *LockerHandler) Status(c echo.Context) error {
    views, err := h.Engine.Status(c.Request().Context())
    if err != nil {
        log.Printf("status failed: %v", err)
        if errors.Is(err, engine.ErrInconsistentState) {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "inconsistent locker state"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load locker status"})
    }
    return c.JSON(http.StatusOK, views)
}

// publish sends a lifecycle event, stamping id and timestamp.  Failures
// are logged and swallowed so the HTTP response is never held hostage by
// the broker.
func (h *LockerHandler) publish(c echo.Context, ev queue.LockerEvent) {
    if h.Events == nil {
        return
    }
    ev.EventID = uuid.NewString()
    ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
    if err := h.Events.Publish(c.Request().Context(), ev); err != nil {
        log.Printf("locker-events: publish failed: %v", err)
    }
}
