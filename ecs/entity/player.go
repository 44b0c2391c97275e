package entity

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
	"github.com/milk9111/atthegym/ecs/render"
	"github.com/milk9111/atthegym/prefabs"
)

// NewPlayerAt builds the player from its prefab with the body centred on
// (x, y).
func NewPlayerAt(w *ecs.World, spec prefabs.PlayerSpec, textures *render.Textures, x, y float64) (ecs.Entity, error) {
	sheet, err := textures.Resolve(spec.Sprite.Image, "")
	if err != nil {
		return 0, fmt.Errorf("player: sprite: %w", err)
	}

	lib := render.NewAnimationLibrary(spec.Animation.Defs)
	current := spec.Animation.Current
	if _, ok := lib.Get(current); !ok {
		return 0, fmt.Errorf("player: unknown starting animation %q", current)
	}
	def, _ := lib.Get(current)
	x0 := def.ColStart * def.FrameW
	y0 := def.Row * def.FrameH
	first := sheet.SubImage(image.Rect(x0, y0, x0+def.FrameW, y0+def.FrameH)).(*ebiten.Image)

	e := ecs.CreateEntity(w)
	add := func(err error, what string) error {
		if err != nil {
			ecs.DestroyEntity(w, e)
			return fmt.Errorf("player: add %s: %w", what, err)
		}
		return nil
	}

	if err := add(ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}), "tag"); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed:    spec.MoveSpeed,
		JumpSpeed:    spec.JumpSpeed,
		CoyoteFrames: spec.CoyoteFrames,
		JumpSound:    spec.JumpSound,
	}), "player"); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}), "input"); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.PlayerCollisionComponent.Kind(), &component.PlayerCollision{}), "player collision"); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}), "transform"); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Image:   first,
		OriginX: spec.Sprite.OriginX,
		OriginY: spec.Sprite.OriginY,
	}), "sprite"); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.AnimationComponent.Kind(), &component.Animation{
		Sheet:   sheet,
		Defs:    lib.Defs(),
		Current: current,
		Playing: true,
	}), "animation"); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.RenderLayer.Index}), "render layer"); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:         spec.Collider.Width,
		Height:        spec.Collider.Height,
		Density:       spec.Density,
		Friction:      spec.Friction,
		FixedRotation: true,
	}), "physics body"); err != nil {
		return 0, err
	}
	return e, nil
}

// Freeze marks e so input, animation and physics stop moving it.
func Freeze(w *ecs.World, e ecs.Entity) error {
	if ecs.Has(w, e, component.FrozenComponent.Kind()) {
		return nil
	}
	return ecs.Add(w, e, component.FrozenComponent.Kind(), &component.Frozen{})
}
