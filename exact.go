package nearset

import (
	"context"
	"slices"

	"github.com/hupe1980/nearset/description"
	"github.com/hupe1980/nearset/internal/bitmap"
)

// Class is an equivalence class: all objects of the universe sharing one
// description.
type Class struct {
	Description description.Description
	Indices     []int
}

// Neighbourhood returns the indices in region whose description equals the
// description of x, in region order. x itself is included only if it is a
// member of region.
func (s *System[O]) Neighbourhood(ctx context.Context, x int, region []int, optFns ...func(*CallOptions)) ([]int, error) {
	return runOp(ctx, s, OpNeighbourhood, len(region)+1, optFns, func(c *call[O]) ([]int, error) {
		return c.neighbourhood(x, region)
	})
}

// Intersection returns every index of a or b whose description occurs in
// both regions. Each index appears once.
func (s *System[O]) Intersection(ctx context.Context, a, b []int, optFns ...func(*CallOptions)) ([]int, error) {
	return runOp(ctx, s, OpIntersection, len(a)+len(b), optFns, func(c *call[O]) ([]int, error) {
		return c.intersection(a, b)
	})
}

// Difference returns the indices of a whose description does not occur
// anywhere in b. Each index appears once.
func (s *System[O]) Difference(ctx context.Context, a, b []int, optFns ...func(*CallOptions)) ([]int, error) {
	return runOp(ctx, s, OpDifference, len(a)+len(b), optFns, func(c *call[O]) ([]int, error) {
		return c.difference(a, b)
	})
}

// Complement returns the occupied indices whose description does not occur
// in region.
func (s *System[O]) Complement(ctx context.Context, region []int, optFns ...func(*CallOptions)) ([]int, error) {
	universe := s.Indices()
	return runOp(ctx, s, OpComplement, len(universe)+len(region), optFns, func(c *call[O]) ([]int, error) {
		return c.difference(universe, region)
	})
}

// EquivalenceClasses returns one class per distinct description in region,
// in order of first occurrence. Each class holds every occupied index of the
// universe with that description, not only members of region.
func (s *System[O]) EquivalenceClasses(ctx context.Context, region []int, optFns ...func(*CallOptions)) ([]Class, error) {
	universe := s.Indices()
	return runOp(ctx, s, OpEquivalenceClasses, len(universe)+len(region), optFns, func(c *call[O]) ([]Class, error) {
		all, err := c.buckets(universe, 0, 0.8)
		if err != nil {
			return nil, err
		}
		reps, err := c.buckets(region, 0.8, 0.95)
		if err != nil {
			return nil, err
		}

		ph := c.tr.Phase(0.95, 1, reps.Len())
		classes := make([]Class, 0, reps.Len())
		for pos := range reps.Len() {
			if err := ph.Step(); err != nil {
				return nil, err
			}
			d := reps.Description(pos)
			upos, ok := all.Lookup(d)
			if !ok {
				continue
			}
			classes = append(classes, Class{
				Description: d,
				Indices:     slices.Clone(all.Members(upos)),
			})
		}
		return classes, nil
	})
}

func (c *call[O]) neighbourhood(x int, region []int) ([]int, error) {
	if err := c.tr.Err(); err != nil {
		return nil, err
	}
	dx, err := c.description(x)
	if err != nil {
		return nil, err
	}
	m, err := c.buckets(region, 0, 1)
	if err != nil {
		return nil, err
	}
	pos, ok := m.Lookup(dx)
	if !ok {
		return []int{}, nil
	}
	return slices.Clone(m.Members(pos)), nil
}

func (c *call[O]) intersection(a, b []int) ([]int, error) {
	ma, err := c.buckets(a, 0, 0.45)
	if err != nil {
		return nil, err
	}
	mb, err := c.buckets(b, 0.45, 0.9)
	if err != nil {
		return nil, err
	}

	ph := c.tr.Phase(0.9, 1, ma.Len())
	seen := bitmap.New()
	out := []int{}
	for pos := range ma.Len() {
		if err := ph.Step(); err != nil {
			return nil, err
		}
		posB, ok := mb.Lookup(ma.Description(pos))
		if !ok {
			continue
		}
		out = appendUnique(out, seen, ma.Members(pos))
		out = appendUnique(out, seen, mb.Members(posB))
	}
	return out, nil
}

func (c *call[O]) difference(a, b []int) ([]int, error) {
	ma, err := c.buckets(a, 0, 0.45)
	if err != nil {
		return nil, err
	}
	mb, err := c.buckets(b, 0.45, 0.9)
	if err != nil {
		return nil, err
	}

	ph := c.tr.Phase(0.9, 1, ma.Len())
	seen := bitmap.New()
	out := []int{}
	for pos := range ma.Len() {
		if err := ph.Step(); err != nil {
			return nil, err
		}
		if mb.Contains(ma.Description(pos)) {
			continue
		}
		out = appendUnique(out, seen, ma.Members(pos))
	}
	return out, nil
}

func appendUnique(out []int, seen *bitmap.IndexSet, indices []int) []int {
	for _, i := range indices {
		if seen.CheckedAdd(i) {
			out = append(out, i)
		}
	}
	return out
}

