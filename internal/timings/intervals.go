package timings

// Intervals returns the consecutive inter-event intervals of a timestamp
// sequence: element i is seq[i+1] - seq[i]. The result has one element
// fewer than seq. Returns nil for sequences shorter than two samples.
//
// The input is read-only; the returned slice never aliases it.
func Intervals(seq []float64) []float64 {
	if len(seq) < 2 {
		return nil
	}

	out := make([]float64, len(seq)-1)
	for i := range out {
		out[i] = seq[i+1] - seq[i]
	}
	return out
}
