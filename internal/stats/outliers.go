package stats

import "math"

// DefaultOutlierIterations bounds the outlier refinement loop.
// Three passes are empirically sufficient for inter-beat interval data;
// the loop usually converges after one or two.
const DefaultOutlierIterations = 3

// FindOutliers classifies values as statistical outliers using iterative
// z-score rejection.
//
// Each pass computes the mean and population standard deviation of the
// values that survived every previous pass, then flags any surviving value
// whose absolute z-score against those statistics exceeds threshold.
// Re-estimating on progressively cleaner data catches outliers that
// distort the statistics enough to mask each other in a single pass.
//
// The returned mask is parallel to values, true where a value was flagged.
// Flagging is monotonic: once flagged, a value is never un-flagged.
//
// The loop stops early when a pass flags nothing new, or when the
// surviving values have zero standard deviation (all identical, so no
// further value can be flagged). Both are convergence, not errors.
//
// maxIter <= 0 is treated as DefaultOutlierIterations.
func FindOutliers(values []float64, threshold float64, maxIter int) []bool {
	if maxIter <= 0 {
		maxIter = DefaultOutlierIterations
	}

	mask := make([]bool, len(values))
	kept := make([]float64, 0, len(values))

	for iter := 0; iter < maxIter; iter++ {
		kept = kept[:0]
		for i, v := range values {
			if !mask[i] {
				kept = append(kept, v)
			}
		}

		mean, stddev := MeanStdDev(kept)
		if stddev == 0 {
			break
		}

		flagged := false
		for i, v := range values {
			if mask[i] {
				continue
			}
			if math.Abs(v-mean)/stddev > threshold {
				mask[i] = true
				flagged = true
			}
		}
		if !flagged {
			break
		}
	}

	return mask
}
