package common

import "time"

// FrameClock measures the wall time between render frames.
type FrameClock struct {
	// Max caps a single delta, so a stall (window drag, breakpoint) does not
	// arrive as one huge step. Zero means no cap.
	Max  float64
	last time.Time
}

// Tick returns the seconds since the previous Tick. The first call returns 0.
func (c *FrameClock) Tick(now time.Time) float64 {
	prev := c.last
	c.last = now
	if prev.IsZero() || now.Before(prev) {
		return 0
	}
	dt := now.Sub(prev).Seconds()
	if c.Max > 0 && dt > c.Max {
		return c.Max
	}
	return dt
}
