package model

import "time"

// LockerState is the occupancy state of a locker.  A locker is OCCUPIED
// exactly while one active (unredeemed) assignment references it and
// AVAILABLE otherwise.
type LockerState string

const (
    LockerAvailable LockerState = "AVAILABLE" // no active assignment
    LockerOccupied  LockerState = "OCCUPIED"  // claimed by an active assignment
)

// Locker describes a single physical locker.  The set of lockers is fixed
// at initialization; lockers are never created or destroyed at runtime,
// only flipped between AVAILABLE and OCCUPIED.
//
// Fields:
//  ID        – stable positive identifier.
//  State     – current occupancy state.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last state change timestamp.
type Locker struct {
    ID        uint64      // lockers.id
    State     LockerState // lockers.state
    CreatedAt time.Time   // lockers.created_at
    UpdatedAt time.Time   // lockers.updated_at
}

// LockerView is one row of the public status listing.  Available lockers
// expose only their id and state.  Occupied lockers additionally carry the
// active assignment's code, expiry, QR URL and customer record.
type LockerView struct {
    LockerID  uint64      `json:"locker_id"`
    State     LockerState `json:"state"`
    ExpiresAt *string     `json:"expires_at,omitempty"`
    Code      *string     `json:"code,omitempty"`
    QRURL     *string     `json:"qr_url,omitempty"`
    Customer  *Customer   `json:"customer,omitempty"`
}
