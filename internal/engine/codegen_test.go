package engine

import (
    "strconv"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestGenerateSixDigitRange(t *testing.T) {
    g := NewCodeGenerator(6)
    for i := 0; i < 500; i++ {
        code, err := g.Generate(nil)
        require.NoError(t, err)
        require.Len(t, code, 6)
        n, err := strconv.ParseInt(code, 10, 64)
        require.NoError(t, err)
        assert.GreaterOrEqual(t, n, int64(100000))
        assert.LessOrEqual(t, n, int64(999999))
    }
}

func TestGenerateFourDigitRange(t *testing.T) {
    g := NewCodeGenerator(4)
    for i := 0; i < 500; i++ {
        code, err := g.Generate(nil)
        require.NoError(t, err)
        require.Len(t, code, 4)
        n, err := strconv.ParseInt(code, 10, 64)
        require.NoError(t, err)
        assert.GreaterOrEqual(t, n, int64(1000))
        assert.LessOrEqual(t, n, int64(9999))
    }
}

func TestGenerateUnknownWidthFallsBackToSix(t *testing.T) {
    g := NewCodeGenerator(9)
    code, err := g.Generate(nil)
    require.NoError(t, err)
    assert.Len(t, code, 6)
}

// Mark the lower half of the 4-digit space active and check the generator
// never hands out a taken code.
func TestGenerateAvoidsActiveCodes(t *testing.T) {
    g := NewCodeGenerator(4)
    active := make(map[string]struct{}, 4500)
    for n := int64(1000); n <= 5499; n++ {
        active[strconv.FormatInt(n, 10)] = struct{}{}
    }
    for i := 0; i < 500; i++ {
        code, err := g.Generate(active)
        require.NoError(t, err)
        _, taken := active[code]
        assert.False(t, taken, "generated an active code: %s", code)
    }
}

func TestGenerateExhaustedSpace(t *testing.T) {
    g := NewCodeGenerator(4)
    active := make(map[string]struct{}, 9000)
    for n := int64(1000); n <= 9999; n++ {
        active[strconv.FormatInt(n, 10)] = struct{}{}
    }
    _, err := g.Generate(active)
    require.ErrorIs(t, err, ErrCodeSpaceExhausted)
}
