package timings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervals(t *testing.T) {
	tests := []struct {
		name string
		seq  []float64
		want []float64
	}{
		{"nil", nil, nil},
		{"single", []float64{1}, nil},
		{"pair", []float64{0, 0.8}, []float64{0.8}},
		{"regular", []float64{0, 1, 2, 3}, []float64{1, 1, 1}},
		{"jump", []float64{0, 1, 2, 3, 100, 101}, []float64{1, 1, 1, 97, 1}},
		{"repeated", []float64{0, 1, 1, 2}, []float64{1, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intervals(tt.seq))
		})
	}
}

func TestIntervals_DoesNotAliasInput(t *testing.T) {
	seq := []float64{0, 1, 2}
	got := Intervals(seq)
	got[0] = 99

	assert.Equal(t, []float64{0, 1, 2}, seq)
}
