package nearset

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/nearset/description"
	"github.com/hupe1980/nearset/internal/cache"
	"github.com/hupe1980/nearset/probe"
)

// maxIndex is the largest object index (indices are stored in 32-bit bitmaps).
const maxIndex = math.MaxUint32

// ProbeID identifies a registered probe function.
type ProbeID uint64

type slot[O any] struct {
	obj O
	ok  bool
}

type probeEntry[O any] struct {
	id ProbeID
	fn probe.Func[O]
}

// System is a perceptual system: a registry of objects addressed by dense
// integer index, an ordered list of probe functions, and the set operations
// defined over the descriptions they produce.
//
// A System is not safe for concurrent mutation. Operations only read the
// registry; callers must not mutate it while an operation is in flight.
type System[O any] struct {
	objects []slot[O]
	count   int
	probes  []probeEntry[O]
	nextID  ProbeID
	cache   *cache.LRU[int, description.Description]
	opts    options
}

// New creates an empty perceptual system.
func New[O any](optFns ...Option) *System[O] {
	s := &System[O]{opts: applyOptions(optFns)}
	if s.opts.size > 0 {
		s.objects = make([]slot[O], s.opts.size)
	}
	if s.opts.cacheCapacity > 0 {
		s.cache = cache.NewLRU[int, description.Description](s.opts.cacheCapacity)
	}
	return s
}

// Set stores o at index, growing the registry as needed. Slots between the
// previous end and index become empty.
func (s *System[O]) Set(index int, o O) error {
	if index < 0 || uint64(index) > maxIndex {
		return &ErrIndexOutOfRange{Index: index, Len: len(s.objects)}
	}
	if index >= len(s.objects) {
		s.objects = append(s.objects, make([]slot[O], index+1-len(s.objects))...)
	}
	if !s.objects[index].ok {
		s.count++
	}
	s.objects[index] = slot[O]{obj: o, ok: true}
	s.invalidate()
	return nil
}

// Append stores o after the last slot and returns its index.
func (s *System[O]) Append(o O) int {
	index := len(s.objects)
	s.objects = append(s.objects, slot[O]{obj: o, ok: true})
	s.count++
	s.invalidate()
	return index
}

// Get returns the object at index.
func (s *System[O]) Get(index int) (O, error) {
	var zero O
	if err := s.checkIndex(index); err != nil {
		return zero, err
	}
	if !s.objects[index].ok {
		return zero, fmt.Errorf("%w: %d", ErrEmptySlot, index)
	}
	return s.objects[index].obj, nil
}

// Object implements probe.Source.
func (s *System[O]) Object(index int) (O, bool) {
	if index < 0 || index >= len(s.objects) {
		var zero O
		return zero, false
	}
	return s.objects[index].obj, s.objects[index].ok
}

// Clear empties the slot at index.
func (s *System[O]) Clear(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if s.objects[index].ok {
		s.count--
	}
	s.objects[index] = slot[O]{}
	s.invalidate()
	return nil
}

// SetObjects replaces the registry with objs. Every slot is occupied.
func (s *System[O]) SetObjects(objs []O) error {
	if uint64(len(objs)) > maxIndex+1 {
		return &ErrIndexOutOfRange{Index: len(objs) - 1, Len: len(s.objects)}
	}
	s.objects = make([]slot[O], len(objs))
	for i, o := range objs {
		s.objects[i] = slot[O]{obj: o, ok: true}
	}
	s.count = len(objs)
	s.invalidate()
	return nil
}

// ClearAll empties every slot. Len is unchanged.
func (s *System[O]) ClearAll() {
	clear(s.objects)
	s.count = 0
	s.invalidate()
}

// Objects returns a copy of the registry, one element per slot. Empty
// slots hold the zero value of O; Indices lists the occupied ones.
func (s *System[O]) Objects() []O {
	out := make([]O, len(s.objects))
	for i, sl := range s.objects {
		out[i] = sl.obj
	}
	return out
}

// Len returns the number of slots, including empty ones.
func (s *System[O]) Len() int {
	return len(s.objects)
}

// Count returns the number of occupied slots.
func (s *System[O]) Count() int {
	return s.count
}

// Indices returns the indices of all occupied slots in ascending order.
func (s *System[O]) Indices() []int {
	out := make([]int, 0, s.count)
	for i, sl := range s.objects {
		if sl.ok {
			out = append(out, i)
		}
	}
	return out
}

// AddProbeFunc appends f to the probe-function list. Every description
// computed afterwards has one more dimension.
//
// Probe functions are addressed by identity: adding the same function twice
// yields two dimensions.
func (s *System[O]) AddProbeFunc(f probe.Func[O]) (ProbeID, error) {
	if err := probe.Validate(f); err != nil {
		return 0, err
	}
	s.nextID++
	s.probes = append(s.probes, probeEntry[O]{id: s.nextID, fn: f})
	s.invalidate()
	s.opts.logger.LogProbeChange(context.Background(), "add", f.Name(), len(s.probes))
	return s.nextID, nil
}

// RemoveProbeFunc removes the probe registered under id. Dimensions after
// it shift down by one. It reports whether id was registered.
func (s *System[O]) RemoveProbeFunc(id ProbeID) bool {
	i := slices.IndexFunc(s.probes, func(p probeEntry[O]) bool { return p.id == id })
	if i < 0 {
		return false
	}
	name := s.probes[i].fn.Name()
	s.probes = slices.Delete(s.probes, i, i+1)
	s.invalidate()
	s.opts.logger.LogProbeChange(context.Background(), "remove", name, len(s.probes))
	return true
}

// ProbeFuncs returns the registered probe functions in dimension order.
func (s *System[O]) ProbeFuncs() []probe.Func[O] {
	out := make([]probe.Func[O], len(s.probes))
	for i, p := range s.probes {
		out[i] = p.fn
	}
	return out
}

// NumProbeFuncs returns the dimensionality of descriptions.
func (s *System[O]) NumProbeFuncs() int {
	return len(s.probes)
}

// Norm returns the largest possible distance between two descriptions,
// sqrt(NumProbeFuncs()).
func (s *System[O]) Norm() float64 {
	return description.Norm(len(s.probes))
}

// Description evaluates every probe function, in registration order,
// against the object at index.
func (s *System[O]) Description(index int) (description.Description, error) {
	return s.describe(index)
}

// InvalidateDescriptions drops cached descriptions. Call it after changing
// state that probe functions read outside the registry. With no indices
// the whole cache is dropped.
func (s *System[O]) InvalidateDescriptions(indices ...int) {
	if s.cache == nil {
		return
	}
	if len(indices) == 0 {
		s.cache.Purge()
		return
	}
	for _, i := range indices {
		s.cache.Remove(i)
	}
}

// CacheStats returns counters of the description cache. It is the zero
// value when the cache is disabled.
func (s *System[O]) CacheStats() CacheStats {
	if s.cache == nil {
		return CacheStats{}
	}
	hits, misses, evictions := s.cache.Stats()
	return CacheStats{
		Len:       s.cache.Len(),
		Capacity:  s.cache.Capacity(),
		Hits:      hits,
		Misses:    misses,
		Evictions: evictions,
	}
}

func (s *System[O]) invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *System[O]) checkIndex(index int) error {
	if index < 0 || index >= len(s.objects) {
		return &ErrIndexOutOfRange{Index: index, Len: len(s.objects)}
	}
	return nil
}

func (s *System[O]) describe(index int) (description.Description, error) {
	if err := s.checkIndex(index); err != nil {
		return description.Description{}, err
	}
	if !s.objects[index].ok {
		return description.Description{}, fmt.Errorf("%w: %d", ErrEmptySlot, index)
	}

	if s.cache != nil {
		d, ok := s.cache.Get(index)
		s.opts.metricsCollector.RecordCacheLookup(ok)
		if ok {
			return d, nil
		}
	}

	values := make([]float64, len(s.probes))
	for i, p := range s.probes {
		if !s.opts.validateRanges {
			values[i] = probe.Apply(p.fn, index, s)
			continue
		}
		v, err := probe.ApplyChecked(p.fn, index, s)
		if err != nil {
			s.opts.logger.LogRangeViolation(context.Background(), index, err)
			return description.Description{}, err
		}
		values[i] = v
	}

	d := description.New(values)
	s.opts.metricsCollector.RecordDescriptions(1)
	if s.cache != nil {
		s.cache.Set(index, d)
	}
	return d, nil
}
