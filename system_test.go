package nearset

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/nearset/probe"
	"github.com/hupe1980/nearset/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRowSystem returns a system over rows with one [0, 1] probe per column.
func newRowSystem(t testing.TB, rows [][]float64, optFns ...Option) *System[[]float64] {
	t.Helper()
	s := New[[]float64](optFns...)
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	for _, p := range testutil.ColumnProbes(width) {
		_, err := s.AddProbeFunc(p)
		require.NoError(t, err)
	}
	for _, row := range rows {
		s.Append(row)
	}
	return s
}

// scenarioRows is a universe of five objects with one-dimensional
// descriptions.
func scenarioRows() [][]float64 {
	return [][]float64{{0.1}, {0.1}, {0.5}, {0.9}, {0.9}}
}

func TestRegistry(t *testing.T) {
	s := New[string]()

	t.Run("SetGrowsWithHoles", func(t *testing.T) {
		require.NoError(t, s.Set(2, "c"))
		assert.Equal(t, 3, s.Len())
		assert.Equal(t, 1, s.Count())
		assert.Equal(t, []int{2}, s.Indices())

		_, err := s.Get(0)
		assert.ErrorIs(t, err, ErrEmptySlot)

		v, err := s.Get(2)
		require.NoError(t, err)
		assert.Equal(t, "c", v)
	})

	t.Run("Append", func(t *testing.T) {
		assert.Equal(t, 3, s.Append("d"))
		assert.Equal(t, []int{2, 3}, s.Indices())
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(2, "C"))
		assert.Equal(t, 2, s.Count())
		v, _ := s.Object(2)
		assert.Equal(t, "C", v)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, s.Clear(2))
		require.NoError(t, s.Clear(2))
		assert.Equal(t, 1, s.Count())
		_, ok := s.Object(2)
		assert.False(t, ok)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		var oor *ErrIndexOutOfRange
		_, err := s.Get(10)
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, 10, oor.Index)
		assert.Equal(t, 4, oor.Len)

		assert.ErrorAs(t, s.Set(-1, "x"), &oor)
		assert.ErrorAs(t, s.Clear(-1), &oor)

		_, ok := s.Object(-1)
		assert.False(t, ok)
	})
}

func TestRegistryBulk(t *testing.T) {
	s := New[string]()

	t.Run("SetObjects", func(t *testing.T) {
		require.NoError(t, s.Set(5, "old"))
		require.NoError(t, s.SetObjects([]string{"a", "b", "c"}))
		assert.Equal(t, 3, s.Len())
		assert.Equal(t, 3, s.Count())
		assert.Equal(t, []int{0, 1, 2}, s.Indices())
	})

	t.Run("ObjectsIsSnapshot", func(t *testing.T) {
		require.NoError(t, s.Clear(1))
		objs := s.Objects()
		assert.Equal(t, []string{"a", "", "c"}, objs)

		objs[0] = "changed"
		v, err := s.Get(0)
		require.NoError(t, err)
		assert.Equal(t, "a", v)
	})

	t.Run("ClearAll", func(t *testing.T) {
		s.ClearAll()
		assert.Equal(t, 3, s.Len())
		assert.Zero(t, s.Count())
		assert.Empty(t, s.Indices())
		_, err := s.Get(2)
		assert.ErrorIs(t, err, ErrEmptySlot)
	})

	t.Run("WithSize", func(t *testing.T) {
		sized := New[string](WithSize(4))
		assert.Equal(t, 4, sized.Len())
		assert.Zero(t, sized.Count())
		_, err := sized.Get(3)
		assert.ErrorIs(t, err, ErrEmptySlot)

		assert.Zero(t, New[string](WithSize(-1)).Len())
	})

	t.Run("BulkChangesInvalidateCache", func(t *testing.T) {
		c := newRowSystem(t, scenarioRows(), WithDescriptionCache(8))
		_, err := c.Description(0)
		require.NoError(t, err)
		assert.Equal(t, 1, c.CacheStats().Len)

		require.NoError(t, c.SetObjects([][]float64{{0.7}}))
		assert.Zero(t, c.CacheStats().Len)
		d, err := c.Description(0)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.7}, d.Values())

		c.ClearAll()
		assert.Zero(t, c.CacheStats().Len)
	})
}

func TestProbeFuncs(t *testing.T) {
	s := New[float64]()
	ident := func(v float64) float64 { return v }

	r, err := s.AddProbeFunc(probe.New("raw", 0, 10, ident))
	require.NoError(t, err)
	_, err = s.AddProbeFunc(probe.New("half", 0, 20, ident))
	require.NoError(t, err)
	_, err = s.AddProbeFunc(probe.New("raw", 0, 10, ident))
	require.NoError(t, err)

	assert.Equal(t, 3, s.NumProbeFuncs())
	assert.InDelta(t, math.Sqrt(3), s.Norm(), 1e-12)

	s.Append(5)
	d, err := s.Description(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25, 0.5}, d.Values())

	t.Run("RemoveShiftsDimensions", func(t *testing.T) {
		assert.True(t, s.RemoveProbeFunc(r))
		assert.False(t, s.RemoveProbeFunc(r))

		d, err := s.Description(0)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.25, 0.5}, d.Values())
		assert.Len(t, s.ProbeFuncs(), 2)
		assert.Equal(t, "half", s.ProbeFuncs()[0].Name())
	})

	t.Run("InvalidRange", func(t *testing.T) {
		var ir *probe.ErrInvalidRange
		_, err := s.AddProbeFunc(probe.New("flat", 1, 1, ident))
		assert.ErrorAs(t, err, &ir)
		assert.ErrorIs(t, func() error { _, err := s.AddProbeFunc(nil); return err }(), probe.ErrNilFunc)
		assert.Equal(t, 2, s.NumProbeFuncs())
	})
}

func TestDescription(t *testing.T) {
	t.Run("IdenticalRawOutputs", func(t *testing.T) {
		s := newRowSystem(t, [][]float64{{0.2, 0.4}, {0.2, 0.4}, {0.2, 0.5}})

		a, err := s.Description(0)
		require.NoError(t, err)
		b, err := s.Description(1)
		require.NoError(t, err)
		c, err := s.Description(2)
		require.NoError(t, err)

		assert.True(t, a.Equal(b))
		assert.Zero(t, a.Distance(b))
		assert.False(t, a.Equal(c))
		assert.Equal(t, a.SquaredDistance(c), c.SquaredDistance(a))
	})

	t.Run("EmptySlot", func(t *testing.T) {
		s := newRowSystem(t, [][]float64{{0.1}})
		require.NoError(t, s.Set(3, []float64{0.2}))
		_, err := s.Description(1)
		assert.ErrorIs(t, err, ErrEmptySlot)
	})

	t.Run("NoClampByDefault", func(t *testing.T) {
		s := newRowSystem(t, [][]float64{{1.5}})
		d, err := s.Description(0)
		require.NoError(t, err)
		assert.Equal(t, 1.5, d.At(0))
	})

	t.Run("RangeValidation", func(t *testing.T) {
		s := newRowSystem(t, [][]float64{{0.5}, {1.5}}, WithRangeValidation(true))
		_, err := s.Description(0)
		require.NoError(t, err)

		_, err = s.Description(1)
		var oor *probe.ErrOutOfRange
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, 1, oor.Index)

		_, err = s.Intersection(context.Background(), []int{0}, []int{1})
		assert.ErrorAs(t, err, &oor)
	})
}

func TestDescriptionCache(t *testing.T) {
	var evals atomic.Int64
	metrics := &BasicMetricsCollector{}
	s := New[float64](WithDescriptionCache(16), WithMetricsCollector(metrics))
	_, err := s.AddProbeFunc(probe.New("v", 0, 1, func(v float64) float64 {
		evals.Add(1)
		return v
	}))
	require.NoError(t, err)

	s.Append(0.1)
	s.Append(0.2)
	ctx := context.Background()

	_, err = s.Intersection(ctx, []int{0, 1}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), evals.Load())

	_, err = s.Intersection(ctx, []int{0, 1}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), evals.Load(), "second call should be served from cache")

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.Descriptions)
	assert.Equal(t, int64(2), stats.CacheHits)
	assert.Equal(t, int64(2), stats.CacheMisses)

	t.Run("InvalidatedOnSet", func(t *testing.T) {
		require.NoError(t, s.Set(1, 0.1))
		res, err := s.Intersection(ctx, []int{0}, []int{1})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, res)
	})

	t.Run("InvalidateSelected", func(t *testing.T) {
		_, err := s.Intersection(ctx, []int{0}, []int{1})
		require.NoError(t, err)
		assert.Equal(t, 2, s.CacheStats().Len)

		s.InvalidateDescriptions(1)
		assert.Equal(t, 1, s.CacheStats().Len)
		s.InvalidateDescriptions()
		assert.Zero(t, s.CacheStats().Len)
	})

	t.Run("InvalidatedOnProbeChange", func(t *testing.T) {
		_, err := s.AddProbeFunc(probe.New("w", 0, 1, func(float64) float64 { return 0 }))
		require.NoError(t, err)
		d, err := s.Description(0)
		require.NoError(t, err)
		assert.Equal(t, 2, d.Len())
	})
}

func TestCacheStats(t *testing.T) {
	assert.Equal(t, CacheStats{}, newRowSystem(t, scenarioRows()).CacheStats())

	s := newRowSystem(t, scenarioRows(), WithDescriptionCache(2))
	for i := range 5 {
		_, err := s.Description(i)
		require.NoError(t, err)
	}
	_, err := s.Description(4)
	require.NoError(t, err)

	assert.Equal(t, CacheStats{Len: 2, Capacity: 2, Hits: 1, Misses: 5, Evictions: 3}, s.CacheStats())
}

func TestMetrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	s := newRowSystem(t, scenarioRows(), WithMetricsCollector(metrics), WithLogger(nil))
	ctx := context.Background()

	_, err := s.Intersection(ctx, []int{0}, []int{1})
	require.NoError(t, err)
	_, err = s.Intersection(ctx, []int{0}, []int{9})
	require.Error(t, err)
	_, err = s.Intersection(ctx, []int{0}, []int{1}, WithSubscriber(&testutil.Recorder{CancelAfter: -1}))
	require.NoError(t, err)

	rec := &testutil.Recorder{}
	rec.Cancel()
	_, err = s.Difference(ctx, []int{0}, []int{1}, WithSubscriber(rec))
	require.True(t, IsCanceled(err))

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.Ops["intersection"].Count)
	assert.Equal(t, int64(1), stats.Ops["intersection"].Errors)
	assert.Equal(t, int64(1), stats.Ops["difference"].Canceled)
	assert.NotContains(t, stats.Ops, "complement")

	assert.Equal(t, "hybrid_intersection", OpHybridIntersection.String())
	assert.Equal(t, "Unknown(99)", Op(99).String())
}
