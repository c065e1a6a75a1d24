package model

import "time"

// Profile selects which customer fields a deployment requires.  The simple
// profile carries a bare client identifier; the contact profile carries a
// structured contact record.  The engine stores and echoes the record either
// way and never interprets it.
type Profile string

const (
    ProfileSimple  Profile = "simple"  // client_id only
    ProfileContact Profile = "contact" // email, first/last name, phone, shift
)

// Customer is the opaque identifying payload attached to an assignment.
// Which fields are required depends on the deployment profile; all fields
// are persisted verbatim regardless of profile.
type Customer struct {
    ClientID  string `json:"client_id,omitempty"`
    Email     string `json:"email,omitempty"`
    FirstName string `json:"first_name,omitempty"`
    LastName  string `json:"last_name,omitempty"`
    Phone     string `json:"phone,omitempty"`
    Shift     string `json:"shift,omitempty"`
}

// MissingFields returns the names of required fields that are empty for the
// given profile.  An unknown profile is treated as simple.
func (c Customer) MissingFields(p Profile) []string {
    var missing []string
    switch p {
    case ProfileContact:
        if c.Email == "" {
            missing = append(missing, "email")
        }
        if c.FirstName == "" {
            missing = append(missing, "first_name")
        }
        if c.LastName == "" {
            missing = append(missing, "last_name")
        }
        if c.Phone == "" {
            missing = append(missing, "phone")
        }
        if c.Shift == "" {
            missing = append(missing, "shift")
        }
    default:
        if c.ClientID == "" {
            missing = append(missing, "client_id")
        }
    }
    return missing
}

// Assignment binds a customer to a locker through a single-use numeric
// access code.  Assignments are created by Assign, flipped to redeemed
// exactly once by Redeem and retained afterwards as history.
//
// Fields:
//  ID        – primary key identifier.
//  Code      – numeric access code, unique among active assignments.
//  LockerID  – locker occupied by this assignment.
//  Customer  – opaque customer record, echoed back to callers.
//  IssuedAt  – creation timestamp.
//  ExpiresAt – IssuedAt plus the configured TTL.
//  Redeemed  – whether the code has been consumed.
//  QRURL     – external QR render URL embedding the code.
type Assignment struct {
    ID        uint64    // assignments.id
    Code      string    // assignments.code
    LockerID  uint64    // assignments.locker_id
    Customer  Customer  // assignments.client_id .. assignments.shift
    IssuedAt  time.Time // assignments.issued_at
    ExpiresAt time.Time // assignments.expires_at
    Redeemed  bool      // assignments.redeemed
    QRURL     string    // assignments.qr_url
}

// Active reports whether the assignment still occupies its locker.
func (a Assignment) Active() bool { return !a.Redeemed }

// Expired reports whether the assignment's code has passed its expiry.
// Expiry is only consulted when enforcement is enabled (see engine.Options).
func (a Assignment) Expired(now time.Time) bool { return now.After(a.ExpiresAt) }
