// Package nearset computes near-set relations over a perceptual system.
//
// A perceptual system is a registry of objects addressed by integer index and
// an ordered list of probe functions. Each probe maps an object to a bounded
// real value; normalized into [0, 1] and taken in registration order, the
// values form the object's description. Operations compare objects only
// through their descriptions and return object indices, never objects.
//
// # Quick Start
//
//	sys := nearset.New[color.RGBA]()
//	sys.AddProbeFunc(probe.New("red", 0, 255, func(c color.RGBA) float64 { return float64(c.R) }))
//	sys.AddProbeFunc(probe.New("green", 0, 255, func(c color.RGBA) float64 { return float64(c.G) }))
//	for _, px := range pixels {
//	    sys.Append(px)
//	}
//
//	common, err := sys.Intersection(ctx, regionA, regionB)
//
// # Exact and Hybrid Operations
//
// Exact operations bucket descriptions by component-wise equality:
// Neighbourhood, Intersection, Difference, Complement and EquivalenceClasses.
// Each has a hybrid counterpart taking a tolerance epsilon; two descriptions
// are near when their Euclidean distance is strictly less than epsilon.
// An epsilon of 0 always runs the exact operation, which costs O(n) hash
// insertions instead of O(n·m) distance computations.
//
// NearnessMeasure quantifies how evenly the description classes of two
// regions are shared.
//
// # Progress and Cancellation
//
// Every operation takes a context and optionally a progress.Subscriber:
//
//	flag := progress.NewFlag(func(f float64) { fmt.Printf("%.0f%%\n", f*100) })
//	res, err := sys.Difference(ctx, a, b, nearset.WithSubscriber(flag))
//	if nearset.IsCanceled(err) {
//	    // res is nil
//	}
//
// Cancellation is polled at every unit of work. A canceled operation
// returns a nil result and an error matching ErrCanceled.
//
// # Concurrency
//
// Operations read the registry without locking. Do not mutate objects or
// probe functions while an operation runs. WithParallelism lets operations
// evaluate descriptions on several goroutines; probe functions must then be
// safe for concurrent use.
package nearset
