package timings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulselab/cadence/internal/testutil"
	"github.com/pulselab/cadence/internal/validate"
)

func TestIsochronous(t *testing.T) {
	seq, err := Isochronous(5, 0.75)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.75, 1.5, 2.25, 3}, seq)
}

func TestIsochronous_InvalidArgs(t *testing.T) {
	_, err := Isochronous(5, 0)
	assert.True(t, validate.IsCode(err, validate.CodeNotPositive))

	_, err = Isochronous(5, -1)
	assert.True(t, validate.IsCode(err, validate.CodeNotPositive))

	_, err = Isochronous(1, 0.75)
	assert.True(t, validate.IsCode(err, validate.CodeTooShort))
}

func TestIsochronousFromReference(t *testing.T) {
	ref, err := Analyze(testutil.Beats(6, 2.0))
	require.NoError(t, err)

	seq, err := IsochronousFromReference(5, ref)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, seq)
}

func TestIsochronousFromReference_EmptyReference(t *testing.T) {
	_, err := IsochronousFromReference(5, Reference{})
	assert.True(t, validate.IsCode(err, validate.CodeNotPositive))
}
