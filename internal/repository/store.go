package repository

import (
    "context"
    "database/sql"

    "github.com/lockerbay/locker-reservation/internal/model"
)

// Store combines the locker pool and the assignment store over one MySQL
// database and exposes the two coupled write pairs as single transactions:
// claiming a locker together with inserting its assignment, and redeeming
// a code together with releasing its locker.  A crash can therefore never
// leave one half of either pair applied.
type Store struct {
    db          *sql.DB
    lockers     *LockerRepo
    assignments *AssignmentRepo
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store {
    return &Store{
        db:          db,
        lockers:     NewLockerRepo(db),
        assignments: NewAssignmentRepo(db),
    }
}

// SeedLockers initializes the pool on first startup. See LockerRepo.Seed.
func (s *Store) SeedLockers(ctx context.Context, count int) error {
    return s.lockers.Seed(ctx, count)
}

// Locker returns a single locker by id.
func (s *Store) Locker(ctx context.Context, id uint64) (model.Locker, error) {
    return s.lockers.Get(ctx, id)
}

// ListLockers returns all lockers ordered by ascending id.
func (s *Store) ListLockers(ctx context.Context) ([]model.Locker, error) {
    return s.lockers.List(ctx)
}

// AssignmentByCode looks up an assignment by its code.
func (s *Store) AssignmentByCode(ctx context.Context, code string) (model.Assignment, error) {
    return s.assignments.ByCode(ctx, code)
}

// ActiveByLocker returns the active assignment occupying a locker.
func (s *Store) ActiveByLocker(ctx context.Context, lockerID uint64) (model.Assignment, error) {
    return s.assignments.ActiveByLocker(ctx, lockerID)
}

// ActiveCodes returns the codes of all unredeemed assignments.
func (s *Store) ActiveCodes(ctx context.Context) (map[string]struct{}, error) {
    return s.assignments.ActiveCodes(ctx)
}

// AssignFree claims the lowest-id free locker and inserts the assignment
// bound to it in one transaction.  On success the record's ID and LockerID
// are populated.  It returns ErrNoCapacity when every locker is occupied
// and ErrDuplicateCode when the code already belongs to an active
// assignment.
func (s *Store) AssignFree(ctx context.Context, a *model.Assignment) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    lockerID, err := s.lockers.claimFreeTx(ctx, tx)
    if err != nil {
        return err
    }
    a.LockerID = lockerID
    if err := s.assignments.createTx(ctx, tx, a); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// RedeemAndRelease marks the active assignment for the code redeemed (a
// no-op when none exists) and releases the named locker, committing both
// writes as one transaction.  It returns ErrLockerNotFound when the locker
// id is not part of the pool.
func (s *Store) RedeemAndRelease(ctx context.Context, lockerID uint64, code string) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := s.lockers.releaseTx(ctx, tx, lockerID); err != nil {
        return err
    }
    if err := s.assignments.markRedeemedTx(ctx, tx, code); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
