package progress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrCanceled is returned by operations stopped through a Subscriber or a
// canceled context. It marks a normal termination path, not a failure.
var ErrCanceled = errors.New("operation canceled")

// Subscriber receives progress and is polled for cancellation.
type Subscriber interface {
	// SetProgress receives a fraction in [0, 1].
	SetProgress(fraction float64)
	// IsCancelled reports whether the operation should stop.
	IsCancelled() bool
}

// Noop ignores progress and never cancels.
type Noop struct{}

func (Noop) SetProgress(float64) {}
func (Noop) IsCancelled() bool   { return false }

// Flag is a Subscriber backed by an atomic cancel flag. It is safe for
// concurrent use.
type Flag struct {
	cancelled  atomic.Bool
	last       atomic.Uint64
	onProgress func(float64)
}

// NewFlag returns a Flag that forwards progress to fn (which may be nil).
func NewFlag(fn func(fraction float64)) *Flag {
	return &Flag{onProgress: fn}
}

// Cancel requests cancellation.
func (f *Flag) Cancel() { f.cancelled.Store(true) }

// Reset clears the cancel flag and the recorded progress.
func (f *Flag) Reset() {
	f.cancelled.Store(false)
	f.last.Store(0)
}

// IsCancelled implements Subscriber.
func (f *Flag) IsCancelled() bool { return f.cancelled.Load() }

// SetProgress implements Subscriber.
func (f *Flag) SetProgress(fraction float64) {
	f.last.Store(math.Float64bits(fraction))
	if f.onProgress != nil {
		f.onProgress(fraction)
	}
}

// Progress returns the last reported fraction.
func (f *Flag) Progress() float64 {
	return math.Float64frombits(f.last.Load())
}

// Tracker reports progress for one operation call and checks for
// cancellation. Reports are strictly increasing and clamped to [0, 1].
// A Tracker is safe for concurrent use.
type Tracker struct {
	ctx      context.Context
	sub      Subscriber
	throttle *rate.Sometimes

	mu   sync.Mutex
	last float64
	done bool
}

// NewTracker returns a Tracker for ctx and sub. sub may be nil.
// If interval is positive, intermediate reports are sent at most once per
// interval. The final report from Done is never throttled.
func NewTracker(ctx context.Context, sub Subscriber, interval time.Duration) *Tracker {
	if sub == nil {
		sub = Noop{}
	}
	t := &Tracker{ctx: ctx, sub: sub}
	if interval > 0 {
		t.throttle = &rate.Sometimes{Interval: interval}
	}
	return t
}

// Err returns a non-nil error wrapping ErrCanceled once the context is done
// or the subscriber asks to cancel.
func (t *Tracker) Err() error {
	if err := t.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	if t.sub.IsCancelled() {
		return ErrCanceled
	}
	return nil
}

// Report sends fraction to the subscriber if it exceeds the last report.
func (t *Tracker) Report(fraction float64) {
	fraction = min(max(fraction, 0), 1)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done || fraction <= t.last || fraction >= 1 {
		return
	}
	if t.throttle == nil {
		t.last = fraction
		t.sub.SetProgress(fraction)
		return
	}
	t.throttle.Do(func() {
		t.last = fraction
		t.sub.SetProgress(fraction)
	})
}

// Done reports completion. It must only be called on success.
func (t *Tracker) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return
	}
	t.done = true
	t.last = 1
	t.sub.SetProgress(1)
}

// Last returns the last fraction sent to the subscriber.
func (t *Tracker) Last() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Phase returns a sub-range [lo, hi) of the tracker split into total steps.
func (t *Tracker) Phase(lo, hi float64, total int) *Phase {
	return &Phase{t: t, lo: lo, hi: hi, total: total}
}

// Phase is one stage of a multi-phase operation.
type Phase struct {
	t      *Tracker
	lo, hi float64
	total  int
	steps  atomic.Int64
}

// Step checks for cancellation and, if none is pending, advances the phase
// by one unit of work.
func (p *Phase) Step() error {
	if err := p.t.Err(); err != nil {
		return err
	}
	n := p.steps.Add(1)
	if p.total > 0 {
		p.t.Report(p.lo + (p.hi-p.lo)*float64(n)/float64(p.total))
	}
	return nil
}

// Finish moves the tracker to the end of the phase.
func (p *Phase) Finish() {
	p.t.Report(p.hi)
}
