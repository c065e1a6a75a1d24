package repository

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/lockerbay/locker-reservation/internal/model"
)

func newSeededMemory(t *testing.T, count int) *Memory {
    t.Helper()
    m := NewMemory()
    require.NoError(t, m.SeedLockers(context.Background(), count))
    return m
}

func testAssignment(code string) *model.Assignment {
    now := time.Now().UTC()
    return &model.Assignment{
        Code:      code,
        Customer:  model.Customer{ClientID: "client"},
        IssuedAt:  now,
        ExpiresAt: now.Add(24 * time.Hour),
        QRURL:     "https://example.com/qr?data=" + code,
    }
}

func TestMemorySeedOnce(t *testing.T) {
    ctx := context.Background()
    m := newSeededMemory(t, 3)

    a := testAssignment("111111")
    require.NoError(t, m.AssignFree(ctx, a))

    // A second seed with a different count must not reset the pool.
    require.NoError(t, m.SeedLockers(ctx, 10))
    lockers, err := m.ListLockers(ctx)
    require.NoError(t, err)
    require.Len(t, lockers, 3)
    assert.Equal(t, model.LockerOccupied, lockers[0].State)
}

func TestMemoryAssignClaimsLowestID(t *testing.T) {
    ctx := context.Background()
    m := newSeededMemory(t, 3)

    first := testAssignment("111111")
    require.NoError(t, m.AssignFree(ctx, first))
    assert.Equal(t, uint64(1), first.LockerID)
    assert.NotZero(t, first.ID)

    second := testAssignment("222222")
    require.NoError(t, m.AssignFree(ctx, second))
    assert.Equal(t, uint64(2), second.LockerID)

    // Free locker 1; the next claim goes back to it.
    require.NoError(t, m.RedeemAndRelease(ctx, 1, "111111"))
    third := testAssignment("333333")
    require.NoError(t, m.AssignFree(ctx, third))
    assert.Equal(t, uint64(1), third.LockerID)
}

func TestMemoryAssignNoCapacity(t *testing.T) {
    ctx := context.Background()
    m := newSeededMemory(t, 1)
    require.NoError(t, m.AssignFree(ctx, testAssignment("111111")))
    err := m.AssignFree(ctx, testAssignment("222222"))
    require.ErrorIs(t, err, ErrNoCapacity)
}

func TestMemoryAssignRejectsDuplicateActiveCode(t *testing.T) {
    ctx := context.Background()
    m := newSeededMemory(t, 2)
    require.NoError(t, m.AssignFree(ctx, testAssignment("555555")))
    err := m.AssignFree(ctx, testAssignment("555555"))
    require.ErrorIs(t, err, ErrDuplicateCode)
}

func TestMemoryByCodePrefersActive(t *testing.T) {
    ctx := context.Background()
    m := newSeededMemory(t, 2)

    // Issue, redeem, then reuse the same code for a fresh assignment.
    first := testAssignment("777777")
    require.NoError(t, m.AssignFree(ctx, first))
    require.NoError(t, m.RedeemAndRelease(ctx, first.LockerID, "777777"))

    second := testAssignment("777777")
    require.NoError(t, m.AssignFree(ctx, second))

    got, err := m.AssignmentByCode(ctx, "777777")
    require.NoError(t, err)
    assert.Equal(t, second.ID, got.ID)
    assert.False(t, got.Redeemed)
}

func TestMemoryByCodeNotFound(t *testing.T) {
    m := newSeededMemory(t, 1)
    _, err := m.AssignmentByCode(context.Background(), "000000")
    require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestMemoryActiveByLocker(t *testing.T) {
    ctx := context.Background()
    m := newSeededMemory(t, 2)

    a := testAssignment("123456")
    require.NoError(t, m.AssignFree(ctx, a))

    got, err := m.ActiveByLocker(ctx, a.LockerID)
    require.NoError(t, err)
    assert.Equal(t, a.Code, got.Code)

    _, err = m.ActiveByLocker(ctx, 2)
    require.ErrorIs(t, err, ErrAssignmentNotFound)

    require.NoError(t, m.RedeemAndRelease(ctx, a.LockerID, a.Code))
    _, err = m.ActiveByLocker(ctx, a.LockerID)
    require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestMemoryActiveCodes(t *testing.T) {
    ctx := context.Background()
    m := newSeededMemory(t, 3)

    require.NoError(t, m.AssignFree(ctx, testAssignment("111111")))
    require.NoError(t, m.AssignFree(ctx, testAssignment("222222")))
    require.NoError(t, m.RedeemAndRelease(ctx, 1, "111111"))

    codes, err := m.ActiveCodes(ctx)
    require.NoError(t, err)
    assert.Equal(t, map[string]struct{}{"222222": {}}, codes)
}

func TestMemoryRedeemUnknownLocker(t *testing.T) {
    m := newSeededMemory(t, 1)
    err := m.RedeemAndRelease(context.Background(), 99, "111111")
    require.ErrorIs(t, err, ErrLockerNotFound)
}

func TestMemoryLockerLookup(t *testing.T) {
    m := newSeededMemory(t, 2)
    l, err := m.Locker(context.Background(), 2)
    require.NoError(t, err)
    assert.Equal(t, uint64(2), l.ID)
    assert.Equal(t, model.LockerAvailable, l.State)

    _, err = m.Locker(context.Background(), 3)
    require.ErrorIs(t, err, ErrLockerNotFound)
}
