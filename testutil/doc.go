// Package testutil provides testing utilities for nearset.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG for generating object feature rows, probe
// functions that read row columns, a recording progress subscriber and
// brute-force reference implementations of the set operations.
//
// # Random Rows
//
//	rng := testutil.NewRNG(seed)
//	rows := rng.QuantizedRows(1000, 3, 4) // values in {0, 1/3, 2/3, 1}
//
// Quantized rows produce many identical descriptions, which exercises
// exact bucketing.
//
// # Reference Results
//
//	want := testutil.BruteIntersection(rows, a, b)
package testutil
