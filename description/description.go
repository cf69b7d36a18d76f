package description

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/nearset/internal/hash"
)

// Key is a comparable form of a Description. Two descriptions have the same
// Key if and only if they are Equal.
type Key string

// Description is an immutable vector of normalized probe-function values.
//
// The zero value is a valid zero-dimensional description.
type Description struct {
	values []float64
	key    Key
}

// New creates a description from values. The slice is copied.
func New(values []float64) Description {
	v := slices.Clone(values)
	return Description{
		values: v,
		key:    Key(hash.AppendFloat64s(make([]byte, 0, 8*len(v)), v)),
	}
}

// Len returns the number of dimensions.
func (d Description) Len() int {
	return len(d.values)
}

// At returns the value of dimension i.
func (d Description) At(i int) float64 {
	return d.values[i]
}

// Values returns a copy of the underlying values.
func (d Description) Values() []float64 {
	return slices.Clone(d.values)
}

// Key returns the exact-equality key of d.
func (d Description) Key() Key {
	return d.key
}

// Hash returns a 32-bit hash consistent with Equal.
func (d Description) Hash() uint32 {
	return hash.Float64s(d.values)
}

// Equal reports whether d and other are component-wise identical.
// Positive and negative zero are equal; NaN equals NaN.
func (d Description) Equal(other Description) bool {
	return d.key == other.key
}

// SquaredDistance returns the squared Euclidean distance to other.
// Both descriptions must have the same length (caller's responsibility).
func (d Description) SquaredDistance(other Description) float64 {
	return SquaredL2(d.values, other.values)
}

// Distance returns the Euclidean distance to other.
func (d Description) Distance(other Description) float64 {
	return math.Sqrt(d.SquaredDistance(other))
}

// Within reports whether other lies strictly inside the epsilon ball around d.
func (d Description) Within(other Description, epsilon float64) bool {
	return d.SquaredDistance(other) < epsilon*epsilon
}

// String formats the description as "[v0 v1 ...]".
func (d Description) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range d.values {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}

// SquaredL2 calculates the squared L2 distance between two vectors.
// Assumes a and b are the same length.
func SquaredL2(a, b []float64) float64 {
	b = b[:len(a)]
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// Norm returns the largest possible distance between two descriptions of
// the given dimensionality, given every dimension is normalized to [0, 1].
func Norm(dimensions int) float64 {
	return math.Sqrt(float64(dimensions))
}
