package testutil

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/nearset/description"
	"github.com/hupe1980/nearset/probe"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FillUniform fills dst with random values in range [0, 1).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// UniformRows generates num rows of the given width with values in [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformRows(num, width int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*width)
	rows := make([][]float64, num)
	for i := range num {
		row := data[i*width : (i+1)*width]
		for j := range row {
			row[j] = r.rand.Float64()
		}
		rows[i] = row
	}
	return rows
}

// QuantizedRows generates rows whose values are drawn from levels evenly
// spaced points in [0, 1]. Small level counts yield many duplicate rows.
func (r *RNG) QuantizedRows(num, width, levels int) [][]float64 {
	if levels < 2 {
		panic(fmt.Sprintf("testutil: levels must be >= 2, got %d", levels))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	step := 1 / float64(levels-1)
	rows := make([][]float64, num)
	for i := range num {
		row := make([]float64, width)
		for j := range row {
			row[j] = float64(r.rand.Intn(levels)) * step
		}
		rows[i] = row
	}
	return rows
}

// Region returns size random indices below n. Indices may repeat.
func (r *RNG) Region(n, size int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, size)
	for i := range out {
		out[i] = r.rand.Intn(n)
	}
	return out
}

// Rows is a probe.Source over feature rows.
type Rows [][]float64

// Object implements probe.Source.
func (rs Rows) Object(index int) ([]float64, bool) {
	if index < 0 || index >= len(rs) {
		return nil, false
	}
	return rs[index], true
}

// ColumnProbes returns one probe per column of a row, each with range [0, 1].
func ColumnProbes(width int) []probe.Func[[]float64] {
	out := make([]probe.Func[[]float64], width)
	for c := range width {
		out[c] = probe.New(fmt.Sprintf("col%d", c), 0, 1, func(row []float64) float64 {
			return row[c]
		})
	}
	return out
}

// Describe returns the descriptions of rows under ColumnProbes.
func Describe(rows [][]float64) []description.Description {
	out := make([]description.Description, len(rows))
	for i, row := range rows {
		out[i] = description.New(row)
	}
	return out
}

// Recorder is a progress.Subscriber that records every report.
// If CancelAfter is positive, it requests cancellation once that many
// reports were received. It is thread-safe.
type Recorder struct {
	CancelAfter int

	mu        sync.Mutex
	reports   []float64
	cancelled bool
}

// SetProgress implements progress.Subscriber.
func (r *Recorder) SetProgress(fraction float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, fraction)
	if r.CancelAfter > 0 && len(r.reports) >= r.CancelAfter {
		r.cancelled = true
	}
}

// IsCancelled implements progress.Subscriber.
func (r *Recorder) IsCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

// Cancel requests cancellation.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = true
}

// Reports returns a copy of the recorded fractions.
func (r *Recorder) Reports() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.reports)
}

// Sorted returns a sorted, deduplicated copy of indices.
func Sorted(indices []int) []int {
	out := slices.Clone(indices)
	slices.Sort(out)
	return slices.Compact(out)
}

// BruteIntersection returns the sorted indices of a and b whose row occurs
// in both regions, comparing every pair.
func BruteIntersection(rows [][]float64, a, b []int) []int {
	var out []int
	for _, i := range a {
		for _, j := range b {
			if slices.Equal(rows[i], rows[j]) {
				out = append(out, i, j)
			}
		}
	}
	return Sorted(out)
}

// BruteDifference returns the sorted indices of a whose row occurs nowhere
// in b.
func BruteDifference(rows [][]float64, a, b []int) []int {
	var out []int
	for _, i := range a {
		if !slices.ContainsFunc(b, func(j int) bool { return slices.Equal(rows[i], rows[j]) }) {
			out = append(out, i)
		}
	}
	return Sorted(out)
}

// BruteNeighbourhood returns the indices of region within epsilon of x, in
// region order. An epsilon of 0 selects equal rows.
func BruteNeighbourhood(rows [][]float64, x int, region []int, epsilon float64) []int {
	out := []int{}
	for _, y := range region {
		if epsilon == 0 {
			if slices.Equal(rows[x], rows[y]) {
				out = append(out, y)
			}
			continue
		}
		if description.SquaredL2(rows[x], rows[y]) < epsilon*epsilon {
			out = append(out, y)
		}
	}
	return out
}
