package timings

import (
	"github.com/pulselab/cadence/internal/stats"
	"github.com/pulselab/cadence/internal/validate"
)

// Reference holds the cleaned interval statistics of a reference block,
// the output of the extraction and outlier-rejection stages.
type Reference struct {
	// Surviving contains the intervals that passed outlier rejection,
	// in their original order.
	Surviving []float64

	// Mask is parallel to the raw interval set, true where the interval
	// was flagged as an outlier.
	Mask []bool

	// Total is the raw interval count, len(sequence) - 1.
	Total int
}

// Dropped returns the number of intervals flagged as outliers.
func (r Reference) Dropped() int {
	return r.Total - len(r.Surviving)
}

// MeanInterval returns the mean of the surviving intervals.
// Returns 0 when nothing survived.
func (r Reference) MeanInterval() float64 {
	return stats.Mean(r.Surviving)
}

// Result is the outcome of asynchronous timing generation.
//
// Valid is advisory: a low surviving fraction degrades confidence but does
// not suppress the sequence. The one exception is an empty surviving set,
// in which case Timings is nil and Empty() reports true - callers must
// check Empty before using Timings.
type Result struct {
	// Timings is the synthesized timestamp sequence, same length as the
	// reference sequence, starting at 0 and non-decreasing. Nil when no
	// sequence could be generated.
	Timings []float64

	// Valid reports whether enough intervals survived outlier rejection.
	Valid bool

	// Survived and Total are the validity-gate counts.
	Survived int
	Total    int

	// Ratio is 100 * Survived / Total.
	Ratio float64
}

// Empty reports whether no sequence could be generated. This happens only
// when every interval was rejected as an outlier, which under normal inputs
// means the z-score threshold was catastrophically misconfigured.
func (r Result) Empty() bool {
	return r.Timings == nil
}

// Analyze runs the extraction and outlier-rejection stages on a reference
// sequence. The mask is deterministic for a fixed input and threshold.
//
// The sequence must hold at least two finite, non-decreasing timestamps.
func Analyze(sequence []float64, opts ...Option) (Reference, error) {
	o := newOptions(opts)

	if err := validate.Sequence("sequence", sequence); err != nil {
		return Reference{}, err
	}

	intervals := Intervals(sequence)
	mask := stats.FindOutliers(intervals, o.zscore, o.maxIter)

	surviving := make([]float64, 0, len(intervals))
	for i, v := range intervals {
		if !mask[i] {
			surviving = append(surviving, v)
		}
	}

	return Reference{
		Surviving: surviving,
		Mask:      mask,
		Total:     len(intervals),
	}, nil
}

// Generate derives an asynchronous timing sequence from the timings of a
// synchronous reference block.
//
// Outlier intervals are removed by iterative z-score rejection, the
// surviving fraction is compared against the validity threshold, and a new
// sequence of equal length is synthesized by drawing inter-stimulus
// intervals with replacement from the surviving set and accumulating them
// from 0.
//
// A validity threshold outside [0, 100] is a configuration error, reported
// before the sequence is touched. A reference sequence shorter than two
// samples, non-finite, or decreasing is a validation error. Both surface
// as *validate.ValidationError.
//
// An empty surviving set is not an error: Generate returns an empty Result
// (Empty() true, Valid false) and a nil error.
func Generate(sequence []float64, opts ...Option) (Result, error) {
	o := newOptions(opts)

	if err := validate.Percent("validPercent", o.validPercent); err != nil {
		return Result{}, err
	}

	ref, err := Analyze(sequence, opts...)
	if err != nil {
		return Result{}, err
	}

	if len(ref.Surviving) == 0 {
		// Should not occur under normal inputs; nothing to sample from.
		return Result{Valid: false, Total: ref.Total}, nil
	}

	ratio := 100 * float64(len(ref.Surviving)) / float64(ref.Total)
	valid := ratio >= o.validPercent
	if !valid {
		o.log().Warn("asynchronous timing generation dropped too many intervals",
			"dropped", ref.Dropped(),
			"total", ref.Total,
			"valid_percent", o.validPercent,
		)
	}

	out := make([]float64, len(sequence))
	var sum float64
	for k := 0; k < len(out)-1; k++ {
		sum += ref.Surviving[o.intn(len(ref.Surviving))]
		out[k+1] = sum
	}

	return Result{
		Timings:  out,
		Valid:    valid,
		Survived: len(ref.Surviving),
		Total:    ref.Total,
		Ratio:    ratio,
	}, nil
}
