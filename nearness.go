package nearset

import (
	"context"

	"github.com/hupe1980/nearset/internal/bitmap"
)

// NearnessMeasure returns the nearness measure of regions a and b:
//
//	NM = Σ |C| · min(|C∩a|, |C∩b|) / max(|C∩a|, |C∩b|)  /  Σ |C|
//
// where C ranges over the classes of objects in a ∪ b sharing a description.
// NM is 1 when every class is equally represented in both regions and 0
// when no description occurs in both. Duplicate indices count once.
// An empty union yields 0.
func (s *System[O]) NearnessMeasure(ctx context.Context, a, b []int, optFns ...func(*CallOptions)) (float64, error) {
	return runOp(ctx, s, OpNearnessMeasure, len(a)+len(b), optFns, func(c *call[O]) (float64, error) {
		for _, i := range append(a[:len(a):len(a)], b...) {
			if err := c.s.checkIndex(i); err != nil {
				return 0, err
			}
		}

		inA, inB := bitmap.Of(a), bitmap.Of(b)
		union := inA.Clone()
		union.Or(inB)
		if union.IsEmpty() {
			return 0, nil
		}

		m, err := c.buckets(union.ToSlice(), 0, 0.9)
		if err != nil {
			return 0, err
		}

		ph := c.tr.Phase(0.9, 1, m.Len())
		var weighted, total float64
		for pos := range m.Len() {
			if err := ph.Step(); err != nil {
				return 0, err
			}
			var na, nb int
			members := m.Members(pos)
			for _, i := range members {
				if inA.Contains(i) {
					na++
				}
				if inB.Contains(i) {
					nb++
				}
			}
			size := float64(len(members))
			total += size
			if hi := max(na, nb); hi > 0 {
				weighted += size * float64(min(na, nb)) / float64(hi)
			}
		}
		if total == 0 {
			return 0, nil
		}
		return weighted / total, nil
	})
}
