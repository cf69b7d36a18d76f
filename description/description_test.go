package description

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 27},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Identical", []float64{0.1, 0.2, 0.3}, []float64{0.1, 0.2, 0.3}, 0},
		{"Mixed", []float64{1, -1}, []float64{-1, 1}, 8},
		{"Empty", []float64{}, []float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredL2(tt.a, tt.b), 1e-12)
		})
	}
}

func TestDescription(t *testing.T) {
	t.Run("CopiesInput", func(t *testing.T) {
		in := []float64{0.1, 0.2}
		d := New(in)
		in[0] = 0.9
		assert.Equal(t, 0.1, d.At(0))

		out := d.Values()
		out[1] = 0.9
		assert.Equal(t, 0.2, d.At(1))
		assert.Equal(t, 2, d.Len())
	})

	t.Run("Equality", func(t *testing.T) {
		a := New([]float64{0.1, 0.5})
		b := New([]float64{0.1, 0.5})
		c := New([]float64{0.1, 0.50000001})

		assert.True(t, a.Equal(a))
		assert.True(t, a.Equal(b))
		assert.True(t, b.Equal(a))
		assert.False(t, a.Equal(c))
		assert.Equal(t, a.Key(), b.Key())
		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("SignedZero", func(t *testing.T) {
		a := New([]float64{0})
		b := New([]float64{math.Copysign(0, -1)})
		assert.True(t, a.Equal(b))
		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("NaNIsReflexive", func(t *testing.T) {
		a := New([]float64{math.NaN()})
		assert.True(t, a.Equal(New([]float64{math.NaN()})))
	})

	t.Run("DifferentLengths", func(t *testing.T) {
		assert.False(t, New([]float64{0}).Equal(New([]float64{0, 0})))
		assert.False(t, New(nil).Equal(New([]float64{0})))
		assert.True(t, Description{}.Equal(New(nil)))
	})

	t.Run("Distance", func(t *testing.T) {
		a := New([]float64{0, 0})
		b := New([]float64{0.3, 0.4})

		assert.InDelta(t, 0.25, a.SquaredDistance(b), 1e-12)
		assert.InDelta(t, 0.5, a.Distance(b), 1e-12)
		assert.Equal(t, a.SquaredDistance(b), b.SquaredDistance(a))
		assert.Zero(t, b.Distance(New([]float64{0.3, 0.4})))
	})

	t.Run("Within", func(t *testing.T) {
		a := New([]float64{0.1})
		b := New([]float64{0.5})

		assert.True(t, a.Within(b, 0.5))
		assert.False(t, a.Within(b, 0.3))
		assert.False(t, a.Within(a, 0))
	})

	t.Run("MismatchedLengthPanics", func(t *testing.T) {
		require.Panics(t, func() {
			New([]float64{1, 2}).SquaredDistance(New([]float64{1}))
		})
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "[0.1 0.5]", New([]float64{0.1, 0.5}).String())
		assert.Equal(t, "[]", Description{}.String())
	})
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, math.Sqrt(3), Norm(3), 1e-12)
	assert.Zero(t, Norm(0))
}

func TestEqualDescriptionsHaveZeroDistance(t *testing.T) {
	values := [][]float64{{0.1, 0.2, 0.3}, {0, 1, 0.5}, {0.25}}
	for _, v := range values {
		a, b := New(v), New(v)
		assert.True(t, a.Equal(b))
		assert.Zero(t, a.Distance(b))
	}
}
