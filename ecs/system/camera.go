package system

import (
	"math"

	"github.com/milk9111/atthegym/common"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
)

// CameraSystem moves the camera centre toward its target, clamps it to the
// level bounds and advances any running fade.
type CameraSystem struct {
	viewW float64
	viewH float64
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{viewW: common.BaseWidth, viewH: common.BaseHeight}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return
	}
	cam, _ := ecs.Get(w, camEntity, component.CameraComponent.Kind())
	camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	if fade, ok := ecs.Get(w, camEntity, component.FadeComponent.Kind()); ok {
		advanceFade(fade)
	}

	target := ecs.Entity(cam.Target)
	targetTransform, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return
	}

	if !cam.Snapped {
		camTransform.X = targetTransform.X
		camTransform.Y = targetTransform.Y
		cam.Snapped = true
	} else {
		camTransform.X += (targetTransform.X - camTransform.X) * cam.LerpX
		camTransform.Y += (targetTransform.Y - camTransform.Y) * cam.LerpY
	}

	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	camTransform.X = math.Round(camTransform.X*zoom) / zoom
	camTransform.Y = math.Round(camTransform.Y*zoom) / zoom

	if boundsEntity, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		bounds, _ := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
		camTransform.X = clampAxis(camTransform.X, cs.viewW/zoom/2, bounds.Width)
		camTransform.Y = clampAxis(camTransform.Y, cs.viewH/zoom/2, bounds.Height)
	}
}

// clampAxis keeps a half view of size half inside [0, world]; a world smaller
// than the view is centred.
func clampAxis(v, half, world float64) float64 {
	if world <= 0 {
		return v
	}
	lo, hi := half, world-half
	if hi < lo {
		return world / 2
	}
	return common.Clamp(v, lo, hi)
}

func advanceFade(f *component.Fade) {
	if f.Done {
		return
	}
	if f.ElapsedFrames < f.DurationFrames {
		f.ElapsedFrames++
	}
	if f.ElapsedFrames < f.DurationFrames {
		return
	}
	f.Done = true
	if f.OnComplete != nil {
		done := f.OnComplete
		f.OnComplete = nil
		done()
	}
}

// ViewTopLeft returns the world-space corner of the view for a camera centre.
func ViewTopLeft(t *component.Transform, cam *component.Camera) (float64, float64, float64) {
	zoom := 1.0
	if cam != nil && cam.Zoom > 0 {
		zoom = cam.Zoom
	}
	if t == nil {
		return 0, 0, zoom
	}
	return t.X - common.BaseWidth/zoom/2, t.Y - common.BaseHeight/zoom/2, zoom
}
