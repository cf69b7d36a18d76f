// Package bucket groups object indices by exact description equality.
package bucket

import "github.com/hupe1980/nearset/description"

// Map maps each distinct description to the indices that share it.
// Buckets are kept in first-insertion order.
type Map struct {
	slots   map[description.Key]int
	descs   []description.Description
	members [][]int
}

// New returns an empty map sized for n insertions.
func New(n int) *Map {
	return &Map{slots: make(map[description.Key]int, n)}
}

// Add appends index to the bucket of d and returns the bucket position.
func (m *Map) Add(d description.Description, index int) int {
	pos, ok := m.slots[d.Key()]
	if !ok {
		pos = len(m.descs)
		m.slots[d.Key()] = pos
		m.descs = append(m.descs, d)
		m.members = append(m.members, nil)
	}
	m.members[pos] = append(m.members[pos], index)
	return pos
}

// Lookup returns the bucket position of d.
func (m *Map) Lookup(d description.Description) (int, bool) {
	pos, ok := m.slots[d.Key()]
	return pos, ok
}

// Contains reports whether some index has description d.
func (m *Map) Contains(d description.Description) bool {
	_, ok := m.slots[d.Key()]
	return ok
}

// Len returns the number of distinct descriptions.
func (m *Map) Len() int { return len(m.descs) }

// Description returns the description of bucket pos.
func (m *Map) Description(pos int) description.Description { return m.descs[pos] }

// Members returns the indices of bucket pos in insertion order.
// The slice must not be modified.
func (m *Map) Members(pos int) []int { return m.members[pos] }
