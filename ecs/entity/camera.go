package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/atthegym/common"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
	"github.com/milk9111/atthegym/prefabs"
)

// NewCamera creates the camera entity from its prefab, centred on the
// middle of the base view until it has a target.
func NewCamera(w *ecs.World, spec prefabs.CameraSpec) (ecs.Entity, error) {
	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.TransformComponent.Kind(), &component.Transform{
		X:      common.BaseWidth / 2,
		Y:      common.BaseHeight / 2,
		ScaleX: 1,
		ScaleY: 1,
	}); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}

	zoom := spec.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{
		LerpX: spec.LerpX,
		LerpY: spec.LerpY,
		Zoom:  zoom,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return camera, nil
}

// Follow points the camera at target with the given per-axis smoothing.
func Follow(w *ecs.World, camera, target ecs.Entity, lerpX, lerpY float64) error {
	cam, ok := ecs.Get(w, camera, component.CameraComponent.Kind())
	if !ok {
		return fmt.Errorf("camera: entity %v has no camera", camera)
	}
	cam.Target = uint64(target)
	cam.LerpX = lerpX
	cam.LerpY = lerpY
	cam.Snapped = false
	return nil
}

// StartFade begins a fade on the camera. A running fade is left alone.
func StartFade(w *ecs.World, camera ecs.Entity, frames int, c color.Color, done func()) error {
	if ecs.Has(w, camera, component.FadeComponent.Kind()) {
		return nil
	}
	return ecs.Add(w, camera, component.FadeComponent.Kind(), &component.Fade{
		Color:          c,
		DurationFrames: frames,
		OnComplete:     done,
	})
}
