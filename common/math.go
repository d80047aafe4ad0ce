package common

import "math"

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// PixelsPerUnit converts world units (metres) to screen pixels.
	PixelsPerUnit = 48.0
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ExpSmoothing returns the per-frame blend factor that converges 90% of the
// way to a target after t90 seconds.
func ExpSmoothing(t90, dt float64) float64 {
	if t90 <= 0 {
		return 1
	}
	k := math.Ln10 / t90
	return 1 - math.Exp(-k*dt)
}
