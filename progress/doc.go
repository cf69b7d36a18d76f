// Package progress implements cooperative progress reporting and cancellation
// for long-running set operations.
//
// Callers hand an operation a Subscriber. The operation polls IsCancelled at
// every unit of work and reports a monotonically increasing fraction through
// SetProgress. A Flag is the usual implementation for a UI thread:
//
//	flag := progress.NewFlag(func(f float64) { bar.Set(f) })
//	go func() {
//	    res, err := sys.Intersection(ctx, a, b, nearset.WithSubscriber(flag))
//	    ...
//	}()
//	flag.Cancel() // from any goroutine
//
// Subscriber callbacks run on the goroutine executing the operation.
package progress
