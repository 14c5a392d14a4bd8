// Package stats provides the statistical primitives used by timing
// generation: mean, population standard deviation, and iterative z-score
// outlier detection.
//
// All standard deviation calculations use population stddev (divide by n,
// not n-1). This matches the estimator used by the reference recordings
// pipeline, and keeps outlier masks reproducible across tools.
package stats

import "math"

// Mean returns the arithmetic mean of values.
// Returns 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// MeanStdDev returns the arithmetic mean and population standard deviation.
// Returns (0, 0) for an empty slice.
func MeanStdDev(values []float64) (mean, stddev float64) {
	count := len(values)
	if count == 0 {
		return 0, 0
	}

	mean = Mean(values)

	var sumSq float64
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}

	return mean, math.Sqrt(sumSq / float64(count))
}
