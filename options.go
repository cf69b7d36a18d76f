package nearset

import (
	"log/slog"
	"time"

	"github.com/hupe1980/nearset/progress"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	size             int
	cacheCapacity    int
	validateRanges   bool
	parallelism      int
	progressInterval time.Duration
}

// Option configures a System.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &nearset.BasicMetricsCollector{}
//	sys := nearset.New[Pixel](nearset.WithMetricsCollector(metrics))
//	// ... run operations ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithDescriptionCache keeps up to capacity descriptions across operations
// in an LRU cache. The cache is purged whenever objects or probe functions
// change. A capacity <= 0 disables caching (the default).
func WithDescriptionCache(capacity int) Option {
	return func(o *options) {
		o.cacheCapacity = capacity
	}
}

// WithRangeValidation makes description computation fail with
// *probe.ErrOutOfRange when a probe leaves its declared range.
//
// Validation costs a comparison per probe evaluation. It is meant for tests
// and for checking new probe functions; production runs normally leave it off.
func WithRangeValidation(enabled bool) Option {
	return func(o *options) {
		o.validateRanges = enabled
	}
}

// WithParallelism lets operations evaluate region descriptions on up to n
// goroutines. Probe functions must be safe for concurrent use.
// n <= 1 keeps evaluation on the calling goroutine (the default).
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithProgressInterval limits intermediate progress reports to one per
// interval. Completion is always reported.
func WithProgressInterval(interval time.Duration) Option {
	return func(o *options) {
		o.progressInterval = interval
	}
}

// WithSize preallocates n empty slots, so indices below n are valid before
// any object is stored.
func WithSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.size = n
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		parallelism:      1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// CallOptions configures a single operation call.
type CallOptions struct {
	// Subscriber receives progress and is polled for cancellation.
	Subscriber progress.Subscriber
}

// WithSubscriber attaches a progress/cancellation subscriber to a call.
func WithSubscriber(sub progress.Subscriber) func(*CallOptions) {
	return func(o *CallOptions) {
		o.Subscriber = sub
	}
}
