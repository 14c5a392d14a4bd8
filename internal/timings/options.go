package timings

import (
	"log/slog"
	"math/rand"

	"github.com/pulselab/cadence/internal/stats"
)

// Default thresholds for asynchronous timing generation.
const (
	// DefaultZScore is the z-score above which an interval is an outlier.
	DefaultZScore = 4.0

	// DefaultValidPercent is the minimum percentage of intervals that must
	// survive outlier rejection for a result to be considered valid.
	DefaultValidPercent = 60.0
)

// Option configures Analyze and Generate.
type Option func(*options)

type options struct {
	zscore       float64
	validPercent float64
	maxIter      int
	rng          *rand.Rand
	logger       *slog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{
		zscore:       DefaultZScore,
		validPercent: DefaultValidPercent,
		maxIter:      stats.DefaultOutlierIterations,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithZScore sets the outlier-rejection z-score threshold.
// Default: DefaultZScore (4.0).
func WithZScore(z float64) Option {
	return func(o *options) {
		o.zscore = z
	}
}

// WithValidPercent sets the minimum surviving-interval percentage for the
// validity gate. Must be in [0, 100]; checked before any computation.
// Default: DefaultValidPercent (60).
func WithValidPercent(p float64) Option {
	return func(o *options) {
		o.validPercent = p
	}
}

// WithMaxIterations caps the outlier refinement loop.
// Default: stats.DefaultOutlierIterations (3).
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIter = n
	}
}

// WithRand sets the random source used to draw intervals during synthesis.
// If unset, the process-wide math/rand source is used; callers needing
// reproducibility must either pass a seeded source here or seed the global
// one themselves.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithLogger sets the logger for the validity-gate diagnostic warning.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func (o *options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

func (o *options) intn(n int) int {
	if o.rng != nil {
		return o.rng.Intn(n)
	}
	return rand.Intn(n)
}
