package bitmap

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// IndexSet is a set of non-negative object indices below 2^32.
type IndexSet struct {
	rb *roaring.Bitmap
}

// New creates an empty set.
func New() *IndexSet {
	return &IndexSet{rb: roaring.New()}
}

// Of creates a set holding indices.
func Of(indices []int) *IndexSet {
	s := New()
	for _, i := range indices {
		s.Add(i)
	}
	return s
}

// Add inserts index.
func (s *IndexSet) Add(index int) {
	s.rb.Add(uint32(index))
}

// CheckedAdd inserts index and reports whether it was absent.
func (s *IndexSet) CheckedAdd(index int) bool {
	return s.rb.CheckedAdd(uint32(index))
}

// Contains reports whether index is in the set.
func (s *IndexSet) Contains(index int) bool {
	return s.rb.Contains(uint32(index))
}

// IsEmpty returns true if the set is empty.
func (s *IndexSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of indices in the set.
func (s *IndexSet) Cardinality() int {
	return int(s.rb.GetCardinality())
}

// Clone returns a deep copy of the set.
func (s *IndexSet) Clone() *IndexSet {
	return &IndexSet{rb: s.rb.Clone()}
}

// Or adds every index of other.
func (s *IndexSet) Or(other *IndexSet) {
	s.rb.Or(other.rb)
}

// All iterates the set in ascending order.
func (s *IndexSet) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// ToSlice returns the indices in ascending order.
func (s *IndexSet) ToSlice() []int {
	out := make([]int, 0, s.Cardinality())
	for i := range s.All() {
		out = append(out, i)
	}
	return out
}
