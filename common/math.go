package common

// Logical screen size; the window scales this to fit.
const (
	BaseWidth  = 1280
	BaseHeight = 720
)

// TPS is the fixed update rate the physics and timers are tuned for.
const TPS = 60

// Gravity is in pixels per second squared, y pointing down.
const Gravity = 1800.0

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

// FramesFor converts a duration in milliseconds to whole update ticks,
// rounding up so that a non-zero duration is at least one frame.
func FramesFor(ms int) int {
	if ms <= 0 {
		return 0
	}
	return (ms*TPS + 999) / 1000
}
