package nearset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/nearset/progress"
)

var (
	// ErrEmptySlot is returned when an operation references an index whose
	// slot holds no object.
	ErrEmptySlot = errors.New("empty object slot")

	// ErrCanceled is returned when an operation is stopped by its context or
	// subscriber. The accompanying result is always nil.
	ErrCanceled = progress.ErrCanceled
)

// ErrIndexOutOfRange indicates an object index outside the registry.
type ErrIndexOutOfRange struct {
	Index int
	Len   int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index out of range: %d (len %d)", e.Index, e.Len)
}

// ErrInvalidEpsilon indicates a negative or non-finite tolerance.
type ErrInvalidEpsilon struct {
	Epsilon float64
}

func (e *ErrInvalidEpsilon) Error() string {
	return fmt.Sprintf("invalid epsilon: %g", e.Epsilon)
}

// IsCanceled reports whether err marks a canceled operation.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}
