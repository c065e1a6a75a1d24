package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/lockerbay/locker-reservation/internal/model"
)

// AssignmentRepo provides data access to the assignments table.  Assignment
// rows are append-only history: they are created by Assign, flipped to
// redeemed exactly once, and never deleted.  Codes are therefore only
// unique among active (unredeemed) rows; a historical row may carry the
// same code as a newer one.  All timestamps are stored in UTC.
type AssignmentRepo struct {
    db *sql.DB
}

// NewAssignmentRepo returns a new AssignmentRepo bound to the given database.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

const assignmentColumns = `id, code, locker_id, client_id, email, first_name, last_name, phone, shift, issued_at, expires_at, redeemed, qr_url`

func scanAssignment(row interface{ Scan(...interface{}) error }) (model.Assignment, error) {
    var a model.Assignment
    err := row.Scan(
        &a.ID, &a.Code, &a.LockerID,
        &a.Customer.ClientID, &a.Customer.Email, &a.Customer.FirstName,
        &a.Customer.LastName, &a.Customer.Phone, &a.Customer.Shift,
        &a.IssuedAt, &a.ExpiresAt, &a.Redeemed, &a.QRURL,
    )
    return a, err
}

// ByCode returns the assignment for a code.  When history holds several
// rows with the same code, the active one wins; otherwise the most recent
// historical row is returned.  ErrAssignmentNotFound is returned when the
// code has never been issued.
func (r *AssignmentRepo) ByCode(ctx context.Context, code string) (model.Assignment, error) {
    q := `SELECT ` + assignmentColumns + ` FROM assignments WHERE code = ? ORDER BY redeemed ASC, id DESC LIMIT 1`
    a, err := scanAssignment(r.db.QueryRowContext(ctx, q, code))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Assignment{}, ErrAssignmentNotFound
    }
    if err != nil {
        return model.Assignment{}, err
    }
    return a, nil
}

// ActiveByLocker returns the active (unredeemed) assignment occupying the
// given locker, or ErrAssignmentNotFound when the locker has none.
func (r *AssignmentRepo) ActiveByLocker(ctx context.Context, lockerID uint64) (model.Assignment, error) {
    q := `SELECT ` + assignmentColumns + ` FROM assignments WHERE locker_id = ? AND redeemed = 0 ORDER BY id DESC LIMIT 1`
    a, err := scanAssignment(r.db.QueryRowContext(ctx, q, lockerID))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Assignment{}, ErrAssignmentNotFound
    }
    if err != nil {
        return model.Assignment{}, err
    }
    return a, nil
}

// ActiveCodes returns the set of codes belonging to unredeemed assignments.
// The code generator draws against this snapshot to avoid collisions.
func (r *AssignmentRepo) ActiveCodes(ctx context.Context) (map[string]struct{}, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT code FROM assignments WHERE redeemed = 0`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    codes := make(map[string]struct{})
    for rows.Next() {
        var code string
        if err := rows.Scan(&code); err != nil {
            return nil, err
        }
        codes[code] = struct{}{}
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return codes, nil
}

// createTx inserts a new unredeemed assignment within the provided
// transaction and populates the generated ID on the record.  It returns
// ErrDuplicateCode when an active assignment already carries the same
// code; the generator should have prevented this, but the store defends
// against it anyway.  The duplicate check locks the code's index range
// (FOR UPDATE), so two instances inserting the same code serialize on the
// database instead of both passing a snapshot read.  The caller must
// commit or roll back.
func (r *AssignmentRepo) createTx(ctx context.Context, tx *sql.Tx, a *model.Assignment) error {
    var clash int
    err := tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM assignments WHERE code = ? AND redeemed = 0 FOR UPDATE`, a.Code,
    ).Scan(&clash)
    if err != nil {
        return err
    }
    if clash > 0 {
        return ErrDuplicateCode
    }
    const q = `INSERT INTO assignments
        (code, locker_id, client_id, email, first_name, last_name, phone, shift, issued_at, expires_at, redeemed, qr_url)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`
    result, err := tx.ExecContext(ctx, q,
        a.Code, a.LockerID,
        a.Customer.ClientID, a.Customer.Email, a.Customer.FirstName,
        a.Customer.LastName, a.Customer.Phone, a.Customer.Shift,
        a.IssuedAt.UTC().Format("2006-01-02 15:04:05"),
        a.ExpiresAt.UTC().Format("2006-01-02 15:04:05"),
        a.QRURL,
    )
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    a.ID = uint64(id)
    return nil
}

// markRedeemedTx flips the active assignment for a code to redeemed within
// the provided transaction.  A code with no active assignment is a no-op,
// which is what makes a repeated redeem of the same pair idempotent.
func (r *AssignmentRepo) markRedeemedTx(ctx context.Context, tx *sql.Tx, code string) error {
    _, err := tx.ExecContext(ctx, `UPDATE assignments SET redeemed = 1 WHERE code = ? AND redeemed = 0`, code)
    return err
}
