// Package repository defines the sentinel errors shared by every store
// implementation. Higher layers match these with errors.Is to translate
// failures into responses: ErrNoCapacity maps to a "try later" answer,
// ErrLockerNotFound and ErrAssignmentNotFound to 404-style responses, and
// ErrDuplicateCode signals a generator collision the store refused to accept.
package repository

import "errors"

// ErrNoCapacity is returned by a claim when every locker is occupied.
var ErrNoCapacity = errors.New("no lockers available")

// ErrLockerNotFound is returned when the named locker id does not exist
// in the pool.
var ErrLockerNotFound = errors.New("locker not found")

// ErrAssignmentNotFound is returned when no assignment matches the given
// code or locker.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrDuplicateCode is returned when an insert would create a second active
// assignment with the same code. The generator checks the active set before
// drawing, so this guards against a race or a broken caller.
var ErrDuplicateCode = errors.New("duplicate active code")
