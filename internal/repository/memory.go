package repository

import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/lockerbay/locker-reservation/internal/model"
)

// Memory is an embedded, mutex-guarded store with the same surface as the
// MySQL Store.  It backs single-node deployments that do not want to run a
// database, and the test suite.  Every method takes the lock for its whole
// body, so each composite operation is atomic with respect to concurrent
// callers.
type Memory struct {
    mu          sync.RWMutex
    lockers     map[uint64]*model.Locker
    assignments []model.Assignment // append-only history, ids ascending
    nextID      uint64
}

// NewMemory returns an empty in-memory store.  Call SeedLockers before use.
func NewMemory() *Memory {
    return &Memory{lockers: make(map[uint64]*model.Locker)}
}

// SeedLockers creates lockers 1..count, all AVAILABLE.  A non-empty pool is
// left untouched so restarts never reset occupancy.
func (m *Memory) SeedLockers(ctx context.Context, count int) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if len(m.lockers) > 0 || count <= 0 {
        return nil
    }
    now := time.Now().UTC()
    for id := uint64(1); id <= uint64(count); id++ {
        m.lockers[id] = &model.Locker{ID: id, State: model.LockerAvailable, CreatedAt: now, UpdatedAt: now}
    }
    return nil
}

// Locker returns a single locker by id.
func (m *Memory) Locker(ctx context.Context, id uint64) (model.Locker, error) {
    m.mu.RLock()
    defer m.mu.RUnlock()
    l, ok := m.lockers[id]
    if !ok {
        return model.Locker{}, ErrLockerNotFound
    }
    return *l, nil
}

// ListLockers returns all lockers ordered by ascending id.
func (m *Memory) ListLockers(ctx context.Context) ([]model.Locker, error) {
    m.mu.RLock()
    defer m.mu.RUnlock()
    out := make([]model.Locker, 0, len(m.lockers))
    for _, l := range m.lockers {
        out = append(out, *l)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

// AssignmentByCode returns the assignment for a code, preferring the active
// row over redeemed history, newest first.
func (m *Memory) AssignmentByCode(ctx context.Context, code string) (model.Assignment, error) {
    m.mu.RLock()
    defer m.mu.RUnlock()
    found := false
    var best model.Assignment
    for _, a := range m.assignments {
        if a.Code != code {
            continue
        }
        switch {
        case !found:
            best = a
        case best.Redeemed && !a.Redeemed:
            best = a
        case best.Redeemed == a.Redeemed && a.ID > best.ID:
            best = a
        }
        found = true
    }
    if !found {
        return model.Assignment{}, ErrAssignmentNotFound
    }
    return best, nil
}

// ActiveByLocker returns the active assignment occupying a locker.
func (m *Memory) ActiveByLocker(ctx context.Context, lockerID uint64) (model.Assignment, error) {
    m.mu.RLock()
    defer m.mu.RUnlock()
    for i := len(m.assignments) - 1; i >= 0; i-- {
        a := m.assignments[i]
        if a.LockerID == lockerID && !a.Redeemed {
            return a, nil
        }
    }
    return model.Assignment{}, ErrAssignmentNotFound
}

// ActiveCodes returns the codes of all unredeemed assignments.
func (m *Memory) ActiveCodes(ctx context.Context) (map[string]struct{}, error) {
    m.mu.RLock()
    defer m.mu.RUnlock()
    codes := make(map[string]struct{})
    for _, a := range m.assignments {
        if !a.Redeemed {
            codes[a.Code] = struct{}{}
        }
    }
    return codes, nil
}

// AssignFree claims the lowest-id free locker and records the assignment
// against it in one step.
func (m *Memory) AssignFree(ctx context.Context, a *model.Assignment) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    for _, existing := range m.assignments {
        if !existing.Redeemed && existing.Code == a.Code {
            return ErrDuplicateCode
        }
    }
    ids := make([]uint64, 0, len(m.lockers))
    for id := range m.lockers {
        ids = append(ids, id)
    }
    sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
    for _, id := range ids {
        l := m.lockers[id]
        if l.State != model.LockerAvailable {
            continue
        }
        l.State = model.LockerOccupied
        l.UpdatedAt = time.Now().UTC()
        m.nextID++
        a.ID = m.nextID
        a.LockerID = id
        m.assignments = append(m.assignments, *a)
        return nil
    }
    return ErrNoCapacity
}

// RedeemAndRelease marks the active assignment for the code redeemed (a
// no-op when none exists) and releases the named locker, atomically.
func (m *Memory) RedeemAndRelease(ctx context.Context, lockerID uint64, code string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    l, ok := m.lockers[lockerID]
    if !ok {
        return ErrLockerNotFound
    }
    for i := range m.assignments {
        if m.assignments[i].Code == code && !m.assignments[i].Redeemed {
            m.assignments[i].Redeemed = true
        }
    }
    l.State = model.LockerAvailable
    l.UpdatedAt = time.Now().UTC()
    return nil
}
