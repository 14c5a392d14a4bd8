package timings

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulselab/cadence/internal/testutil"
	"github.com/pulselab/cadence/internal/validate"
)

// boundarySequence has ten intervals of which exactly four are rejected at
// a z-score threshold of 1.0: six intervals of 1s and four of 5s.
func boundarySequence() []float64 {
	return []float64{0, 1, 2, 3, 4, 5, 6, 11, 16, 21, 26}
}

func TestAnalyze_CleanReference(t *testing.T) {
	seq := testutil.Beats(10, 0.8)

	ref, err := Analyze(seq)
	require.NoError(t, err)

	assert.Equal(t, 9, ref.Total)
	assert.Len(t, ref.Surviving, 9)
	assert.Zero(t, ref.Dropped())
	assert.InDelta(t, 0.8, ref.MeanInterval(), 1e-9)
}

func TestAnalyze_FlagsLargeGap(t *testing.T) {
	// 23 inter-beat intervals of 1s with a single 97s gap spliced in;
	// the gap's z-score exceeds the default threshold of 4.
	seq := testutil.Jump(testutil.Beats(24, 1.0), 12, 96)

	ref, err := Analyze(seq)
	require.NoError(t, err)

	assert.Equal(t, 23, ref.Total)
	assert.Equal(t, 1, ref.Dropped())
	assert.True(t, ref.Mask[11], "spliced gap not flagged")
	assert.InDelta(t, 1.0, ref.MeanInterval(), 1e-9)
}

func TestAnalyze_MaskDeterministic(t *testing.T) {
	seq := boundarySequence()

	first, err := Analyze(seq, WithZScore(1.0))
	require.NoError(t, err)
	second, err := Analyze(seq, WithZScore(1.0))
	require.NoError(t, err)

	assert.Equal(t, first.Mask, second.Mask)
	assert.Equal(t, first.Surviving, second.Surviving)
}

func TestAnalyze_RejectsBadSequence(t *testing.T) {
	_, err := Analyze([]float64{1})
	assert.True(t, validate.IsCode(err, validate.CodeTooShort))

	_, err = Analyze([]float64{0, 2, 1})
	assert.True(t, validate.IsCode(err, validate.CodeNotMonotonic))
}

func TestGenerate_LengthAndMonotonicity(t *testing.T) {
	seq := testutil.Jump(testutil.Beats(24, 1.0), 12, 96)

	res, err := Generate(seq, WithRand(testutil.NewRand(1)))
	require.NoError(t, err)
	require.False(t, res.Empty())

	assert.Len(t, res.Timings, len(seq))
	assert.Zero(t, res.Timings[0])
	for i := 1; i < len(res.Timings); i++ {
		assert.GreaterOrEqual(t, res.Timings[i], res.Timings[i-1],
			"output decreases at index %d", i)
	}
	assert.True(t, res.Valid)
	assert.Equal(t, 22, res.Survived)
	assert.Equal(t, 23, res.Total)
}

func TestGenerate_DoesNotMutateInput(t *testing.T) {
	seq := []float64{0, 1, 2, 3, 100, 101, 102}
	orig := append([]float64(nil), seq...)

	_, err := Generate(seq, WithRand(testutil.NewRand(1)))
	require.NoError(t, err)
	assert.Equal(t, orig, seq)
}

func TestGenerate_SynthesizedIntervalsComeFromSurvivingSet(t *testing.T) {
	// Irregular but clean reference: every synthesized interval must be an
	// exact member of the surviving interval population. Intervals are
	// multiples of 0.25 so accumulation and re-differencing stay exact.
	seq := []float64{0, 0.75, 1.75, 2.25, 3.5, 4.25, 5.25, 5.75, 6.5, 7.75}

	ref, err := Analyze(seq)
	require.NoError(t, err)
	population := make(map[float64]bool, len(ref.Surviving))
	for _, v := range ref.Surviving {
		population[v] = true
	}

	res, err := Generate(seq, WithRand(testutil.NewRand(7)))
	require.NoError(t, err)
	require.False(t, res.Empty())

	for i, d := range Intervals(res.Timings) {
		assert.True(t, population[d], "synthesized interval %d (%g) not in surviving set", i, d)
	}
}

func TestGenerate_ValidityThresholdBoundary(t *testing.T) {
	seq := boundarySequence()

	// 6 of 10 intervals survive: ratio 60 passes a 60 threshold...
	res, err := Generate(seq,
		WithZScore(1.0),
		WithValidPercent(60),
		WithRand(testutil.NewRand(1)),
	)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 6, res.Survived)
	assert.Equal(t, 10, res.Total)
	assert.InDelta(t, 60.0, res.Ratio, 1e-9)

	// ...and fails a 61 threshold, but still produces a sequence.
	res, err = Generate(seq,
		WithZScore(1.0),
		WithValidPercent(61),
		WithRand(testutil.NewRand(1)),
	)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.False(t, res.Empty())
	assert.Len(t, res.Timings, len(seq))
}

func TestGenerate_GateFailureLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := Generate(boundarySequence(),
		WithZScore(1.0),
		WithValidPercent(61),
		WithRand(testutil.NewRand(1)),
		WithLogger(logger),
	)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "dropped too many intervals")
	assert.Contains(t, out, "dropped=4")
	assert.Contains(t, out, "total=10")
	assert.Contains(t, out, "valid_percent=61")
}

func TestGenerate_GatePassIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := Generate(testutil.Beats(10, 0.8),
		WithRand(testutil.NewRand(1)),
		WithLogger(logger),
	)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestGenerate_ConfigErrorBeforeSequence(t *testing.T) {
	// An out-of-range threshold is reported before the sequence is
	// touched: the deliberately broken sequence never gets the chance to
	// fail its own validation.
	_, err := Generate([]float64{3, 2, 1}, WithValidPercent(150))
	require.Error(t, err)
	assert.True(t, validate.IsCode(err, validate.CodeOutOfRange))

	_, err = Generate(nil, WithValidPercent(-1))
	require.Error(t, err)
	assert.True(t, validate.IsCode(err, validate.CodeOutOfRange))
}

func TestGenerate_EmptySurvivingSet(t *testing.T) {
	// A near-zero threshold rejects every interval; generation fails
	// softly with an empty result rather than an error.
	res, err := Generate([]float64{0, 1, 2, 3, 100},
		WithZScore(0.001),
		WithRand(testutil.NewRand(1)),
	)
	require.NoError(t, err)

	assert.True(t, res.Empty())
	assert.Nil(t, res.Timings)
	assert.False(t, res.Valid)
	assert.Equal(t, 4, res.Total)
	assert.Zero(t, res.Survived)
}

func TestGenerate_LargeGapEndToEnd(t *testing.T) {
	// Regular beats with one obvious detection gap: the gap interval is
	// rejected, the rest survive, and the result passes the default gate.
	seq := []float64{0, 1, 2, 3, 100, 101, 102}

	res, err := Generate(seq, WithZScore(2.0), WithRand(testutil.NewRand(3)))
	require.NoError(t, err)
	require.False(t, res.Empty())

	assert.Equal(t, 5, res.Survived)
	assert.Equal(t, 6, res.Total)
	assert.InDelta(t, 100.0*5/6, res.Ratio, 1e-9)
	assert.True(t, res.Valid)
	assert.Len(t, res.Timings, 7)
	assert.Zero(t, res.Timings[0])
	for i := 1; i < len(res.Timings); i++ {
		assert.GreaterOrEqual(t, res.Timings[i], res.Timings[i-1])
	}
	// The gap never reappears in the synthesized rhythm.
	for _, d := range Intervals(res.Timings) {
		assert.InDelta(t, 1.0, d, 1e-9)
	}
}

func TestGenerate_ReproducibleWithFixedSeed(t *testing.T) {
	seq := []float64{0, 0.71, 1.55, 2.31, 3.29, 4.01, 4.88, 5.61, 6.52, 7.3}

	first, err := Generate(seq, WithRand(testutil.NewRand(99)))
	require.NoError(t, err)
	second, err := Generate(seq, WithRand(testutil.NewRand(99)))
	require.NoError(t, err)

	assert.Equal(t, first.Timings, second.Timings)
}
