package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRand_Reproducible(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}

func TestBeats(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1, 1.5}, Beats(4, 0.5))
	assert.Equal(t, []float64{0}, Beats(1, 0.5))
}

func TestJump(t *testing.T) {
	seq := Jump(Beats(5, 1.0), 2, 10)
	assert.Equal(t, []float64{0, 1, 12, 13, 14}, seq)
}
