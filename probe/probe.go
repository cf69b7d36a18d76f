package probe

import (
	"errors"
	"fmt"
	"math"
)

// Source gives probe functions access to the objects of a perceptual system.
type Source[O any] interface {
	// Object returns the object at index. ok is false for empty or
	// out-of-range slots.
	Object(index int) (o O, ok bool)
}

// Func is a bounded feature extractor.
type Func[O any] interface {
	// Name identifies the probe in logs and CLI output.
	Name() string
	// Min is the lower bound of Map's output.
	Min() float64
	// Max is the upper bound of Map's output.
	Max() float64
	// Map returns the raw feature value of the object at index.
	Map(index int, src Source[O]) float64
}

// ErrInvalidRange indicates a probe whose bounds cannot normalize values.
type ErrInvalidRange struct {
	Name     string
	Min, Max float64
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("probe %q: invalid range [%g, %g]", e.Name, e.Min, e.Max)
}

// ErrOutOfRange indicates a raw value outside the probe's declared bounds.
type ErrOutOfRange struct {
	Name  string
	Index int
	Value float64
	Min   float64
	Max   float64
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("probe %q: value %g for object %d outside [%g, %g]", e.Name, e.Value, e.Index, e.Min, e.Max)
}

// ErrNilFunc is returned when a nil probe function is registered.
var ErrNilFunc = errors.New("probe: nil function")

// Validate checks that f has finite bounds with Max > Min.
func Validate[O any](f Func[O]) error {
	if f == nil {
		return ErrNilFunc
	}
	lo, hi := f.Min(), f.Max()
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || hi <= lo {
		return &ErrInvalidRange{Name: f.Name(), Min: lo, Max: hi}
	}
	return nil
}

// Apply returns the normalized value of f for the object at index.
// The result is not clamped to [0, 1].
func Apply[O any](f Func[O], index int, src Source[O]) float64 {
	lo := f.Min()
	return (f.Map(index, src) - lo) / (f.Max() - lo)
}

// ApplyChecked is Apply with a range check on the raw value.
func ApplyChecked[O any](f Func[O], index int, src Source[O]) (float64, error) {
	raw := f.Map(index, src)
	lo, hi := f.Min(), f.Max()
	if !(raw >= lo && raw <= hi) {
		return 0, &ErrOutOfRange{Name: f.Name(), Index: index, Value: raw, Min: lo, Max: hi}
	}
	return (raw - lo) / (hi - lo), nil
}

type valueFunc[O any] struct {
	name     string
	min, max float64
	fn       func(O) float64
}

// New returns a probe that maps objects by value.
func New[O any](name string, minVal, maxVal float64, fn func(O) float64) Func[O] {
	return &valueFunc[O]{name: name, min: minVal, max: maxVal, fn: fn}
}

func (f *valueFunc[O]) Name() string { return f.name }
func (f *valueFunc[O]) Min() float64 { return f.min }
func (f *valueFunc[O]) Max() float64 { return f.max }

func (f *valueFunc[O]) Map(index int, src Source[O]) float64 {
	o, _ := src.Object(index)
	return f.fn(o)
}

type indexedFunc[O any] struct {
	name     string
	min, max float64
	fn       func(int, Source[O]) float64
}

// NewIndexed returns a probe that maps objects by index. Use it for
// features that depend on other objects of the system, such as the
// neighbourhood of a pixel.
func NewIndexed[O any](name string, minVal, maxVal float64, fn func(index int, src Source[O]) float64) Func[O] {
	return &indexedFunc[O]{name: name, min: minVal, max: maxVal, fn: fn}
}

func (f *indexedFunc[O]) Name() string { return f.name }
func (f *indexedFunc[O]) Min() float64 { return f.min }
func (f *indexedFunc[O]) Max() float64 { return f.max }

func (f *indexedFunc[O]) Map(index int, src Source[O]) float64 {
	return f.fn(index, src)
}
