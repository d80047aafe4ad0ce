package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameClock(t *testing.T) {
	start := time.Unix(100, 0)
	c := FrameClock{Max: 0.25}

	assert.Zero(t, c.Tick(start))
	assert.InDelta(t, 1.0/144, c.Tick(start.Add(time.Second/144)), 1e-9)

	tests := []struct {
		name  string
		after time.Duration
		want  float64
	}{
		{"vsync_60", time.Second / 60, 1.0 / 60},
		{"stall_capped", 3 * time.Second, 0.25},
		{"clock_backwards", -time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := c.last.Add(tt.after)
			assert.InDelta(t, tt.want, c.Tick(now), 1e-9)
		})
	}
}
