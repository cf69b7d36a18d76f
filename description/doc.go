// Package description provides the feature-space vector of a perceptual object.
//
// A Description holds one normalized probe-function output per dimension.
// Descriptions are immutable values: equality is exact per component and
// Key/Hash are consistent with it, which makes them usable as bucket keys.
//
//	a := description.New([]float64{0.1, 0.5})
//	b := description.New([]float64{0.1, 0.9})
//	a.Equal(b)              // false
//	a.SquaredDistance(b)    // 0.16
//	a.Within(b, 0.5)        // true
//
// Distance functions assume both operands have the same length, which holds
// whenever they were produced by the same ordered probe-function list.
package description
