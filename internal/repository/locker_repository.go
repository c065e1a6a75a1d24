package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/lockerbay/locker-reservation/internal/model"
)

// LockerRepo provides data access to the lockers table.  The pool is a
// fixed set seeded once at startup; rows only ever change state between
// AVAILABLE and OCCUPIED.  All timestamps are stored in UTC.
type LockerRepo struct {
    db *sql.DB
}

// NewLockerRepo returns a new LockerRepo bound to the given database.
func NewLockerRepo(db *sql.DB) *LockerRepo { return &LockerRepo{db: db} }

// Seed inserts lockers 1..count with state AVAILABLE, but only when the
// pool is empty.  Restarting the service against an initialized database
// must never reset occupancy, so a non-empty table is left untouched.
func (r *LockerRepo) Seed(ctx context.Context, count int) error {
    if count <= 0 {
        return nil
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    var existing int
    if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM lockers`).Scan(&existing); err != nil {
        return err
    }
    if existing > 0 {
        return tx.Commit()
    }
    query := `INSERT INTO lockers (id, state) VALUES `
    args := make([]interface{}, 0, count)
    placeholders := make([]string, 0, count)
    for id := 1; id <= count; id++ {
        placeholders = append(placeholders, "(?, 'AVAILABLE')")
        args = append(args, id)
    }
    if _, err := tx.ExecContext(ctx, query+strings.Join(placeholders, ","), args...); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Get returns a single locker by id.  ErrLockerNotFound is returned when
// the id is not part of the pool.
func (r *LockerRepo) Get(ctx context.Context, id uint64) (model.Locker, error) {
    const q = `SELECT id, state, created_at, updated_at FROM lockers WHERE id = ?`
    var l model.Locker
    err := r.db.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.State, &l.CreatedAt, &l.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Locker{}, ErrLockerNotFound
    }
    if err != nil {
        return model.Locker{}, err
    }
    return l, nil
}

// List returns every locker ordered by ascending id so that status output
// is deterministic.
func (r *LockerRepo) List(ctx context.Context) ([]model.Locker, error) {
    const q = `SELECT id, state, created_at, updated_at FROM lockers ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    lockers := make([]model.Locker, 0)
    for rows.Next() {
        var l model.Locker
        if err := rows.Scan(&l.ID, &l.State, &l.CreatedAt, &l.UpdatedAt); err != nil {
            return nil, err
        }
        lockers = append(lockers, l)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return lockers, nil
}

// claimFreeTx selects the lowest-id AVAILABLE locker under a row lock and
// flips it to OCCUPIED within the provided transaction.  The row lock is
// what prevents two concurrent assigns from claiming the same locker.  It
// returns ErrNoCapacity when every locker is occupied.  The caller must
// commit or roll back the transaction.
func (r *LockerRepo) claimFreeTx(ctx context.Context, tx *sql.Tx) (uint64, error) {
    var id uint64
    err := tx.QueryRowContext(ctx,
        `SELECT id FROM lockers WHERE state = 'AVAILABLE' ORDER BY id LIMIT 1 FOR UPDATE`,
    ).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, ErrNoCapacity
    }
    if err != nil {
        return 0, err
    }
    if _, err := tx.ExecContext(ctx, `UPDATE lockers SET state = 'OCCUPIED' WHERE id = ?`, id); err != nil {
        return 0, err
    }
    return id, nil
}

// releaseTx flips the named locker back to AVAILABLE within the provided
// transaction.  Releasing an already-available locker is not an error;
// only an unknown id is.  The row is locked first so the release and the
// accompanying assignment flip commit as one unit.
func (r *LockerRepo) releaseTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    var state string
    err := tx.QueryRowContext(ctx, `SELECT state FROM lockers WHERE id = ? FOR UPDATE`, id).Scan(&state)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrLockerNotFound
    }
    if err != nil {
        return err
    }
    _, err = tx.ExecContext(ctx, `UPDATE lockers SET state = 'AVAILABLE' WHERE id = ?`, id)
    return err
}
