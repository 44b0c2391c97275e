package component

import "github.com/hajimehoshi/ebiten/v2"

type AnimationDef struct {
	Name       string
	Row        int
	ColStart   int
	FrameCount int
	FrameW     int
	FrameH     int
	FPS        float64
	Loop       bool
}

type Animation struct {
	Sheet      *ebiten.Image
	Defs       map[string]AnimationDef
	Current    string
	Frame      int
	FrameTimer int
	Playing    bool
}

// Play switches to name. Asking for the current animation is a no-op, so a
// finished one-shot animation stays on its last frame.
func (a *Animation) Play(name string) {
	if a.Current == name {
		return
	}
	if _, ok := a.Defs[name]; !ok {
		return
	}
	a.Current = name
	a.Frame = 0
	a.FrameTimer = 0
	a.Playing = true
}

var AnimationComponent = NewComponent[Animation]()
