package timings

import (
	"math/rand"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/pulselab/cadence/internal/validate"
)

// GenerateBatch derives count asynchronous sequences from one reference
// sequence, one per future asynchronous block of the session.
//
// Sequences are generated concurrently on a bounded worker pool. Each draw
// uses its own random source seeded with baseSeed+index, so a fixed
// baseSeed reproduces the whole batch regardless of scheduling order. Any
// WithRand option is ignored in favor of the per-worker sources.
//
// Validation runs once up front; the per-sequence soft failure (empty
// surviving set) is reported through the individual Results.
func GenerateBatch(sequence []float64, count int, baseSeed int64, opts ...Option) ([]Result, error) {
	o := newOptions(opts)
	if err := validate.Percent("validPercent", o.validPercent); err != nil {
		return nil, err
	}
	if err := validate.Sequence("sequence", sequence); err != nil {
		return nil, err
	}

	results := make([]Result, count)
	workers := pool.New().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for i := 0; i < count; i++ {
		i := i // per-iteration copy; required under the go 1.21 language version
		workers.Go(func() {
			rng := rand.New(rand.NewSource(baseSeed + int64(i)))
			// Errors are ruled out by the validation above.
			results[i], _ = Generate(sequence, append(opts[:len(opts):len(opts)], WithRand(rng))...)
		})
	}
	workers.Wait()

	return results, nil
}
