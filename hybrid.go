package nearset

import (
	"context"

	"github.com/hupe1980/nearset/internal/bitmap"
)

// HybridNeighbourhood returns the indices y in region with
// distance(x, y) < epsilon, in region order. An epsilon of 0 is
// Neighbourhood.
func (s *System[O]) HybridNeighbourhood(ctx context.Context, x int, region []int, epsilon float64, optFns ...func(*CallOptions)) ([]int, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return nil, err
	}
	if epsilon == 0 {
		return s.Neighbourhood(ctx, x, region, optFns...)
	}
	return runOp(ctx, s, OpHybridNeighbourhood, len(region)+1, optFns, func(c *call[O]) ([]int, error) {
		if err := c.tr.Err(); err != nil {
			return nil, err
		}
		dx, err := c.description(x)
		if err != nil {
			return nil, err
		}
		descs, err := c.describeAll(region, 0, 0.9)
		if err != nil {
			return nil, err
		}

		ph := c.tr.Phase(0.9, 1, len(region))
		out := []int{}
		for i, y := range region {
			if err := ph.Step(); err != nil {
				return nil, err
			}
			if dx.Within(descs[i], epsilon) {
				out = append(out, y)
			}
		}
		return out, nil
	})
}

// HybridIntersection matches the distinct descriptions of a against those
// of b within epsilon and returns the indices of every matched description
// on both sides. An epsilon of 0 is Intersection.
//
// Matching is greedy and one-to-one: descriptions of a are visited in order
// of first occurrence, and each takes the first unmatched description of b
// within epsilon. A description of b that has been matched is not offered to
// later descriptions of a, even a closer one. The result therefore depends on
// region order and is maximal but not necessarily maximum.
func (s *System[O]) HybridIntersection(ctx context.Context, a, b []int, epsilon float64, optFns ...func(*CallOptions)) ([]int, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return nil, err
	}
	if epsilon == 0 {
		return s.Intersection(ctx, a, b, optFns...)
	}
	return runOp(ctx, s, OpHybridIntersection, len(a)+len(b), optFns, func(c *call[O]) ([]int, error) {
		ma, err := c.buckets(a, 0, 0.3)
		if err != nil {
			return nil, err
		}
		mb, err := c.buckets(b, 0.3, 0.6)
		if err != nil {
			return nil, err
		}

		matchedA := make([]bool, ma.Len())
		matchedB := make([]bool, mb.Len())
		ph := c.tr.Phase(0.6, 0.95, ma.Len())
		for i := range ma.Len() {
			if err := ph.Step(); err != nil {
				return nil, err
			}
			da := ma.Description(i)
			for j := range mb.Len() {
				if !matchedB[j] && da.Within(mb.Description(j), epsilon) {
					matchedB[j] = true
					matchedA[i] = true
					break
				}
			}
		}

		seen := bitmap.New()
		out := []int{}
		for i, ok := range matchedA {
			if ok {
				out = appendUnique(out, seen, ma.Members(i))
			}
		}
		for j, ok := range matchedB {
			if ok {
				out = appendUnique(out, seen, mb.Members(j))
			}
		}
		return out, nil
	})
}

// HybridDifference returns the indices of a whose description is not within
// epsilon of any description in b. An epsilon of 0 is Difference.
func (s *System[O]) HybridDifference(ctx context.Context, a, b []int, epsilon float64, optFns ...func(*CallOptions)) ([]int, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return nil, err
	}
	if epsilon == 0 {
		return s.Difference(ctx, a, b, optFns...)
	}
	return runOp(ctx, s, OpHybridDifference, len(a)+len(b), optFns, func(c *call[O]) ([]int, error) {
		return c.hybridDifference(a, b, epsilon)
	})
}

// HybridComplement returns the occupied indices whose description is not
// within epsilon of any description in region. An epsilon of 0 is
// Complement.
func (s *System[O]) HybridComplement(ctx context.Context, region []int, epsilon float64, optFns ...func(*CallOptions)) ([]int, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return nil, err
	}
	if epsilon == 0 {
		return s.Complement(ctx, region, optFns...)
	}
	universe := s.Indices()
	return runOp(ctx, s, OpHybridComplement, len(universe)+len(region), optFns, func(c *call[O]) ([]int, error) {
		return c.hybridDifference(universe, region, epsilon)
	})
}

func (c *call[O]) hybridDifference(a, b []int, epsilon float64) ([]int, error) {
	ma, err := c.buckets(a, 0, 0.3)
	if err != nil {
		return nil, err
	}
	mb, err := c.buckets(b, 0.3, 0.6)
	if err != nil {
		return nil, err
	}

	removed := make([]bool, ma.Len())
	ph := c.tr.Phase(0.6, 0.95, mb.Len())
	for j := range mb.Len() {
		if err := ph.Step(); err != nil {
			return nil, err
		}
		db := mb.Description(j)
		for i := range ma.Len() {
			if !removed[i] && db.Within(ma.Description(i), epsilon) {
				removed[i] = true
			}
		}
	}

	seen := bitmap.New()
	out := []int{}
	for i, gone := range removed {
		if !gone {
			out = appendUnique(out, seen, ma.Members(i))
		}
	}
	return out, nil
}
