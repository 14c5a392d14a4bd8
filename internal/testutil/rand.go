// Package testutil provides deterministic helpers for timing tests.
package testutil

import "math/rand"

// NewRand returns a rand.Rand with a fixed seed for reproducible draws.
//
// Tests that depend on synthesis output must pass this to
// timings.WithRand; relying on the process-wide source makes failures
// unreproducible.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Beats builds a reference timestamp sequence of n samples with a regular
// period, starting at 0. Use Jump to splice in outlier gaps.
func Beats(n int, period float64) []float64 {
	seq := make([]float64, n)
	for i := 1; i < n; i++ {
		seq[i] = seq[i-1] + period
	}
	return seq
}

// Jump shifts every timestamp from index i onward by gap, creating a
// single enlarged inter-beat interval at position i-1. The input is
// modified in place and returned for chaining.
func Jump(seq []float64, i int, gap float64) []float64 {
	for ; i < len(seq); i++ {
		seq[i] += gap
	}
	return seq
}
