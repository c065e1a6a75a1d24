// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried by LockerEvent.Type.
const (
    EventAssigned = "locker.assigned"
    EventReleased = "locker.released"
)

// LockerEvent is published whenever a locker changes occupancy.  Lock
// controllers and audit consumers subscribe to the lifecycle queue instead
// of polling the status endpoint.  The code is included so a controller
// can program the physical lock without a follow-up query.
type LockerEvent struct {
    EventID    string `json:"event_id"`
    Type       string `json:"type"`
    LockerID   uint64 `json:"locker_id"`
    Code       string `json:"code,omitempty"`
    ExpiresAt  string `json:"expires_at,omitempty"`
    ClientID   string `json:"client_id,omitempty"`
    OccurredAt string `json:"occurred_at"`
}
