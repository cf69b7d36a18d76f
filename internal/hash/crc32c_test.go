package hash

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalBits(t *testing.T) {
	assert.Equal(t, CanonicalBits(0), CanonicalBits(math.Copysign(0, -1)))
	assert.Equal(t, CanonicalBits(math.NaN()), CanonicalBits(math.Float64frombits(0x7FF0000000000ABC)))
	assert.NotEqual(t, CanonicalBits(0.1), CanonicalBits(0.2))
	assert.Equal(t, math.Float64bits(0.5), CanonicalBits(0.5))
}

func TestFloat64s(t *testing.T) {
	a := []float64{0.1, 0.5, 0}
	b := []float64{0.1, 0.5, math.Copysign(0, -1)}

	assert.Equal(t, Float64s(a), Float64s(b))
	assert.NotEqual(t, Float64s(a), Float64s([]float64{0.1, 0.5, 1}))
	assert.Len(t, AppendFloat64s(nil, a), 24)
}
