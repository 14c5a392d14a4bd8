package timings

import "github.com/pulselab/cadence/internal/validate"

// Isochronous returns n evenly spaced timestamps starting at 0 with the
// given period between consecutive stimuli. Timestamps are computed as
// k * period rather than accumulated, so long sequences carry no rounding
// drift.
//
// n must be at least 2 and period strictly positive.
func Isochronous(n int, period float64) ([]float64, error) {
	if err := validate.Positive("period", period); err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, &validate.ValidationError{
			Code:    validate.CodeTooShort,
			Field:   "n",
			Message: "must be at least 2",
		}
	}

	out := make([]float64, n)
	for k := 1; k < n; k++ {
		out[k] = float64(k) * period
	}
	return out, nil
}

// IsochronousFromReference returns n evenly spaced timestamps whose period
// is the mean surviving interval of a reference block. Used when an
// isochronous block must match the average cardiac rhythm of the preceding
// synchronous block.
func IsochronousFromReference(n int, ref Reference) ([]float64, error) {
	return Isochronous(n, ref.MeanInterval())
}
