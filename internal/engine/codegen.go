package engine

import (
    "crypto/rand"
    "errors"
    "math/big"
    "strconv"
)

// ErrCodeSpaceExhausted is returned when the generator cannot draw a free
// code within its attempt budget.  Bounding the retry loop keeps a nearly
// saturated code space from turning into an infinite loop; the deployment
// constraint is that the code space must stay much larger than the locker
// count, so hitting this error means the configuration is broken.
var ErrCodeSpaceExhausted = errors.New("code space exhausted")

const defaultMaxAttempts = 1000

// CodeGenerator draws random numeric access codes from a fixed code space
// and guarantees the result does not collide with any currently active
// code.  It is a pure function of the active-code snapshot and the random
// source; it never touches storage.
type CodeGenerator struct {
    min         int64 // lowest code in the space, inclusive
    span        int64 // number of codes in the space
    maxAttempts int
}

// NewCodeGenerator returns a generator for the given code width.  The
// 6-digit space [100000, 999999] is the default profile; 4 selects the
// [1000, 9999] space.  Any other width falls back to 6 digits.
func NewCodeGenerator(digits int) *CodeGenerator {
    g := &CodeGenerator{min: 100000, span: 900000, maxAttempts: defaultMaxAttempts}
    if digits == 4 {
        g.min = 1000
        g.span = 9000
    }
    return g
}

// Generate draws codes until one is absent from the active set, using
// crypto/rand for the draws.  It returns ErrCodeSpaceExhausted after the
// attempt budget is spent.
func (g *CodeGenerator) Generate(active map[string]struct{}) (string, error) {
    for i := 0; i < g.maxAttempts; i++ {
        n, err := rand.Int(rand.Reader, big.NewInt(g.span))
        if err != nil {
            return "", err
        }
        code := strconv.FormatInt(g.min+n.Int64(), 10)
        if _, taken := active[code]; !taken {
            return code, nil
        }
    }
    return "", ErrCodeSpaceExhausted
}
