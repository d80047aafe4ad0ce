package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpSmoothingConvergesNinetyPercent(t *testing.T) {
	pos := 0.0
	dt := 1.0 / 240.0
	for elapsed := 0.0; elapsed < 0.2-1e-9; elapsed += dt {
		pos += (1 - pos) * ExpSmoothing(0.2, dt)
	}
	assert.InDelta(t, 0.9, pos, 0.01)
}

func TestClampAndSign(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"clamp_low", Clamp(-2, -1, 1), -1},
		{"clamp_high", Clamp(3, -1, 1), 1},
		{"clamp_inside", Clamp(0.5, -1, 1), 0.5},
		{"sign_pos", Sign(4), 1},
		{"sign_neg", Sign(-0.1), -1},
		{"sign_zero", Sign(0), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
	assert.True(t, IsFinite(1e300))
}
