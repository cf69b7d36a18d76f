package nearset

import (
	"context"
	"math"
	"time"

	"github.com/hupe1980/nearset/description"
	"github.com/hupe1980/nearset/internal/bitmap"
	"github.com/hupe1980/nearset/internal/bucket"
	"github.com/hupe1980/nearset/progress"
	"golang.org/x/sync/errgroup"
)

// minParallelRegion is the smallest region worth fanning out.
const minParallelRegion = 64

// call holds the state of one operation: its progress tracker and the
// descriptions computed so far. Each index is described at most once per call.
type call[O any] struct {
	ctx  context.Context
	s    *System[O]
	tr   *progress.Tracker
	memo map[int]description.Description
}

func runOp[O, R any](ctx context.Context, s *System[O], op Op, inputs int, optFns []func(*CallOptions), fn func(c *call[O]) (R, error)) (R, error) {
	co := CallOptions{}
	for _, f := range optFns {
		if f != nil {
			f(&co)
		}
	}

	start := time.Now()
	c := &call[O]{
		ctx:  ctx,
		s:    s,
		tr:   progress.NewTracker(ctx, co.Subscriber, s.opts.progressInterval),
		memo: make(map[int]description.Description),
	}

	res, err := fn(c)
	if err == nil {
		// No output is committed once cancellation was requested.
		err = c.tr.Err()
	}

	elapsed := time.Since(start)
	s.opts.metricsCollector.RecordOperation(op, elapsed, err)
	if err != nil {
		if IsCanceled(err) {
			s.opts.logger.LogCanceled(ctx, op, inputs, c.tr.Last(), elapsed)
		} else {
			s.opts.logger.LogOperation(ctx, op, inputs, 0, elapsed, err)
		}
		var zero R
		return zero, err
	}
	s.opts.logger.LogOperation(ctx, op, inputs, resultSize(res), elapsed, nil)
	c.tr.Done()
	return res, nil
}

func resultSize(res any) int {
	switch r := res.(type) {
	case []int:
		return len(r)
	case []Class:
		return len(r)
	default:
		return -1
	}
}

func checkEpsilon(epsilon float64) error {
	if epsilon < 0 || math.IsNaN(epsilon) || math.IsInf(epsilon, 0) {
		return &ErrInvalidEpsilon{Epsilon: epsilon}
	}
	return nil
}

func (c *call[O]) description(index int) (description.Description, error) {
	if d, ok := c.memo[index]; ok {
		return d, nil
	}
	d, err := c.s.describe(index)
	if err != nil {
		return description.Description{}, err
	}
	c.memo[index] = d
	return d, nil
}

// describeAll returns the descriptions of region, aligned with it, while
// advancing progress over [lo, hi).
func (c *call[O]) describeAll(region []int, lo, hi float64) ([]description.Description, error) {
	if c.s.opts.parallelism > 1 && len(region) >= minParallelRegion {
		return c.describeParallel(region, lo, hi)
	}

	ph := c.tr.Phase(lo, hi, len(region))
	out := make([]description.Description, len(region))
	for i, index := range region {
		if err := ph.Step(); err != nil {
			return nil, err
		}
		d, err := c.description(index)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	ph.Finish()
	return out, nil
}

func (c *call[O]) describeParallel(region []int, lo, hi float64) ([]description.Description, error) {
	// Each distinct, not yet described index is evaluated once.
	pending := make([]int, 0, len(region))
	seen := bitmap.New()
	for _, index := range region {
		if _, ok := c.memo[index]; ok {
			continue
		}
		if err := c.s.checkIndex(index); err != nil {
			return nil, err
		}
		if seen.CheckedAdd(index) {
			pending = append(pending, index)
		}
	}

	ph := c.tr.Phase(lo, hi, len(pending))
	results := make([]description.Description, len(pending))

	g, gctx := errgroup.WithContext(c.ctx)
	g.SetLimit(c.s.opts.parallelism)
	for i, index := range pending {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := ph.Step(); err != nil {
				return err
			}
			d, err := c.s.describe(index)
			if err != nil {
				return err
			}
			results[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Prefer the cancellation error of the call over errgroup's own
		// context error.
		if cerr := c.tr.Err(); cerr != nil {
			return nil, cerr
		}
		return nil, err
	}

	for i, index := range pending {
		c.memo[index] = results[i]
	}
	ph.Finish()

	out := make([]description.Description, len(region))
	for i, index := range region {
		out[i] = c.memo[index]
	}
	return out, nil
}

// buckets groups region by exact description.
func (c *call[O]) buckets(region []int, lo, hi float64) (*bucket.Map, error) {
	descs, err := c.describeAll(region, lo, hi)
	if err != nil {
		return nil, err
	}
	m := bucket.New(len(region))
	for i, index := range region {
		m.Add(descs[i], index)
	}
	return m, nil
}
