package nearset

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// Op identifies a set operation.
type Op int

const (
	OpNeighbourhood Op = iota
	OpHybridNeighbourhood
	OpIntersection
	OpHybridIntersection
	OpDifference
	OpHybridDifference
	OpComplement
	OpHybridComplement
	OpEquivalenceClasses
	OpNearnessMeasure
	numOps
)

var opNames = [numOps]string{
	"neighbourhood",
	"hybrid_neighbourhood",
	"intersection",
	"hybrid_intersection",
	"difference",
	"hybrid_difference",
	"complement",
	"hybrid_complement",
	"equivalence_classes",
	"nearness_measure",
}

func (o Op) String() string {
	if o < 0 || o >= numOps {
		return fmt.Sprintf("Unknown(%d)", int(o))
	}
	return opNames[o]
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordOperation is called after each set operation.
	// err is nil on success and matches ErrCanceled on cancellation.
	RecordOperation(op Op, duration time.Duration, err error)

	// RecordDescriptions is called with the number of descriptions computed
	// by evaluating probe functions.
	RecordDescriptions(count int)

	// RecordCacheLookup is called for each description cache lookup.
	RecordCacheLookup(hit bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperation(Op, time.Duration, error) {}
func (NoopMetricsCollector) RecordDescriptions(int)                  {}
func (NoopMetricsCollector) RecordCacheLookup(bool)                  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpCount      [numOps]atomic.Int64
	OpErrors     [numOps]atomic.Int64
	OpCanceled   [numOps]atomic.Int64
	OpTotalNanos [numOps]atomic.Int64
	Descriptions atomic.Int64
	CacheHits    atomic.Int64
	CacheMisses  atomic.Int64
}

// RecordOperation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOperation(op Op, duration time.Duration, err error) {
	if op < 0 || op >= numOps {
		return
	}
	b.OpCount[op].Add(1)
	b.OpTotalNanos[op].Add(duration.Nanoseconds())
	switch {
	case errors.Is(err, ErrCanceled):
		b.OpCanceled[op].Add(1)
	case err != nil:
		b.OpErrors[op].Add(1)
	}
}

// RecordDescriptions implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDescriptions(count int) {
	b.Descriptions.Add(int64(count))
}

// RecordCacheLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheLookup(hit bool) {
	if hit {
		b.CacheHits.Add(1)
	} else {
		b.CacheMisses.Add(1)
	}
}

// OpStats is a snapshot of the counters of one operation.
type OpStats struct {
	Count    int64
	Errors   int64
	Canceled int64
	AvgNanos int64
}

// CacheStats describes the description cache of a System.
type CacheStats struct {
	Len       int
	Capacity  int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Stats is a snapshot of all collected metrics.
type Stats struct {
	Ops          map[string]OpStats
	Descriptions int64
	CacheHits    int64
	CacheMisses  int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() Stats {
	s := Stats{
		Ops:          make(map[string]OpStats),
		Descriptions: b.Descriptions.Load(),
		CacheHits:    b.CacheHits.Load(),
		CacheMisses:  b.CacheMisses.Load(),
	}
	for op := range numOps {
		count := b.OpCount[op].Load()
		if count == 0 {
			continue
		}
		s.Ops[op.String()] = OpStats{
			Count:    count,
			Errors:   b.OpErrors[op].Load(),
			Canceled: b.OpCanceled[op].Load(),
			AvgNanos: b.OpTotalNanos[op].Load() / count,
		}
	}
	return s
}
