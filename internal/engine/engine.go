// Package engine implements the locker reservation engine: assigning free
// lockers to customers, issuing single-use numeric access codes, validating
// codes and releasing lockers on redemption.  The engine owns no state of
// its own; it orchestrates a Store and serializes every mutating operation
// behind one lock so concurrent requests can never double-book a locker.
package engine

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "sync"
    "time"

    "github.com/lockerbay/locker-reservation/internal/model"
    "github.com/lockerbay/locker-reservation/internal/repository"
    "github.com/lockerbay/locker-reservation/internal/utils"
)

// Store is the persistence adapter the engine drives.  Implementations
// must make AssignFree and RedeemAndRelease atomic: each couples a locker
// state flip with an assignment write, and neither half may be observable
// without the other.  The repository package provides a MySQL and an
// in-memory implementation.
type Store interface {
    Locker(ctx context.Context, id uint64) (model.Locker, error)
    ListLockers(ctx context.Context) ([]model.Locker, error)
    AssignmentByCode(ctx context.Context, code string) (model.Assignment, error)
    ActiveByLocker(ctx context.Context, lockerID uint64) (model.Assignment, error)
    ActiveCodes(ctx context.Context) (map[string]struct{}, error)
    AssignFree(ctx context.Context, a *model.Assignment) error
    RedeemAndRelease(ctx context.Context, lockerID uint64, code string) error
}

// ErrMissingFields is returned by Assign when the customer payload lacks
// required fields for the configured profile.  The wrapped message names
// the missing fields.
var ErrMissingFields = errors.New("missing fields")

// ErrCodeMismatch is returned by Redeem when the presented code belongs to
// a different locker than the one being released.
var ErrCodeMismatch = errors.New("code does not match locker")

// ErrInconsistentState is returned when stored state violates an engine
// invariant, such as an occupied locker without an active assignment.
// Callers should treat it as a fatal integrity fault, not retry it.
var ErrInconsistentState = errors.New("inconsistent reservation state")

// Options configures an Engine.  Zero values fall back to the observed
// deployment defaults: a 24h code TTL, the simple customer profile and the
// api.qrserver.com render URL.
type Options struct {
    TTL           time.Duration // assignment lifetime; ExpiresAt = IssuedAt + TTL
    Profile       model.Profile // required customer fields
    QRBaseURL     string        // base URL of the external QR renderer
    EnforceExpiry bool          // when true, Validate rejects expired codes
    Now           func() time.Time
}

// Engine is a stateless orchestrator over the locker pool and assignment
// store.  Mutating operations (Assign, Redeem) run under a single mutex:
// each reads shared state and writes a derivation of it, so without the
// critical section two racing assigns could both observe the same free
// locker.  Validate and Status are read-only and take no lock.
type Engine struct {
    mu    sync.Mutex
    store Store
    codes *CodeGenerator
    opts  Options
}

// New constructs an Engine.  Both store and codes must be non-nil.
func New(store Store, codes *CodeGenerator, opts Options) *Engine {
    if store == nil || codes == nil {
        panic("nil dependency passed to engine.New")
    }
    if opts.TTL <= 0 {
        opts.TTL = 24 * time.Hour
    }
    if opts.Profile == "" {
        opts.Profile = model.ProfileSimple
    }
    if opts.QRBaseURL == "" {
        opts.QRBaseURL = utils.DefaultQRBaseURL
    }
    if opts.Now == nil {
        opts.Now = time.Now
    }
    return &Engine{store: store, codes: codes, opts: opts}
}

// Assign validates the customer payload, claims a free locker, issues a
// collision-free code and persists the new assignment together with the
// locker's OCCUPIED state as one unit.  It returns the full assignment on
// success, ErrMissingFields on an incomplete payload and
// repository.ErrNoCapacity when every locker is occupied.
func (e *Engine) Assign(ctx context.Context, customer model.Customer) (model.Assignment, error) {
    if missing := customer.MissingFields(e.opts.Profile); len(missing) > 0 {
        return model.Assignment{}, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
    }
    e.mu.Lock()
    defer e.mu.Unlock()
    active, err := e.store.ActiveCodes(ctx)
    if err != nil {
        return model.Assignment{}, err
    }
    code, err := e.codes.Generate(active)
    if err != nil {
        return model.Assignment{}, err
    }
    now := e.opts.Now().UTC()
    a := model.Assignment{
        Code:      code,
        Customer:  customer,
        IssuedAt:  now,
        ExpiresAt: now.Add(e.opts.TTL),
        QRURL:     utils.QRURL(e.opts.QRBaseURL, code),
    }
    if err := e.store.AssignFree(ctx, &a); err != nil {
        return model.Assignment{}, err
    }
    return a, nil
}

// Validation is the outcome of checking a code.  Unknown, already-redeemed
// and (when enforcement is on) expired codes all collapse into the same
// invalid result so callers cannot probe which codes exist.
type Validation struct {
    Valid    bool   `json:"valid"`
    LockerID uint64 `json:"locker_id,omitempty"`
    Message  string `json:"message"`
}

// Validate checks whether a code is currently redeemable.  It mutates
// nothing, so a code can be shown to an attendant any number of times
// before being consumed.  A non-nil error only signals a store failure;
// an unknown code is a Valid=false result, not an error.
func (e *Engine) Validate(ctx context.Context, code string) (Validation, error) {
    invalid := Validation{Valid: false, Message: "invalid code"}
    a, err := e.store.AssignmentByCode(ctx, code)
    if errors.Is(err, repository.ErrAssignmentNotFound) {
        return invalid, nil
    }
    if err != nil {
        return Validation{}, err
    }
    if a.Redeemed {
        return invalid, nil
    }
    if e.opts.EnforceExpiry && a.Expired(e.opts.Now().UTC()) {
        return invalid, nil
    }
    return Validation{Valid: true, LockerID: a.LockerID, Message: "code accepted"}, nil
}

// Redeem consumes a code and releases the named locker.  The locker must
// exist; a code bound to a different locker is rejected with
// ErrCodeMismatch.  A code with no active assignment is tolerated and the
// locker released anyway, which keeps a repeated redeem of the same pair
// idempotent: the second call finds the assignment already redeemed and
// simply releases an already-available locker.
func (e *Engine) Redeem(ctx context.Context, lockerID uint64, code string) error {
    e.mu.Lock()
    defer e.mu.Unlock()
    if _, err := e.store.Locker(ctx, lockerID); err != nil {
        return err
    }
    a, err := e.store.AssignmentByCode(ctx, code)
    if err != nil && !errors.Is(err, repository.ErrAssignmentNotFound) {
        return err
    }
    if err == nil && a.Active() && a.LockerID != lockerID {
        return ErrCodeMismatch
    }
    return e.store.RedeemAndRelease(ctx, lockerID, code)
}

// Status returns one view per locker in ascending id order.  Occupied
// lockers carry the code, expiry, QR URL and customer of their active
// assignment.  An occupied locker without an active assignment violates
// the conservation invariant and fails the whole listing with
// ErrInconsistentState rather than papering over it with nulls.
//
// Status takes no lock, so a redeem may commit between the pool listing
// and the per-locker assignment lookup.  A locker observed occupied with
// no active assignment is therefore re-read before being called a fault:
// if it is available by then, the listing just caught a release mid-flight
// and reports the locker as available.
func (e *Engine) Status(ctx context.Context) ([]model.LockerView, error) {
    lockers, err := e.store.ListLockers(ctx)
    if err != nil {
        return nil, err
    }
    views := make([]model.LockerView, 0, len(lockers))
    for _, l := range lockers {
        v := model.LockerView{LockerID: l.ID, State: l.State}
        if l.State == model.LockerOccupied {
            a, err := e.store.ActiveByLocker(ctx, l.ID)
            if errors.Is(err, repository.ErrAssignmentNotFound) {
                cur, rerr := e.store.Locker(ctx, l.ID)
                if rerr != nil {
                    return nil, rerr
                }
                if cur.State == model.LockerAvailable {
                    v.State = model.LockerAvailable
                    views = append(views, v)
                    continue
                }
                return nil, fmt.Errorf("%w: locker %d occupied with no active assignment", ErrInconsistentState, l.ID)
            }
            if err != nil {
                return nil, err
            }
            expires := a.ExpiresAt.UTC().Format(time.RFC3339)
            customer := a.Customer
            v.ExpiresAt = &expires
            v.Code = &a.Code
            v.QRURL = &a.QRURL
            v.Customer = &customer
        }
        views = append(views, v)
    }
    return views, nil
}
