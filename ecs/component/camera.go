package component

import "image/color"

// Camera follows Target (an ecs.Entity value) with per-axis lerp and is
// clamped to LevelBounds when present.
type Camera struct {
	Target  uint64
	LerpX   float64
	LerpY   float64
	Zoom    float64
	Snapped bool
}

var CameraComponent = NewComponent[Camera]()

// Fade darkens the view toward Color over DurationFrames. OnComplete runs
// once, on the frame the fade finishes.
type Fade struct {
	Color          color.Color
	DurationFrames int
	ElapsedFrames  int
	Done           bool
	OnComplete     func()
}

// Progress is the fade coverage in [0, 1].
func (f *Fade) Progress() float64 {
	if f.DurationFrames <= 0 {
		return 1
	}
	p := float64(f.ElapsedFrames) / float64(f.DurationFrames)
	if p > 1 {
		return 1
	}
	return p
}

var FadeComponent = NewComponent[Fade]()
