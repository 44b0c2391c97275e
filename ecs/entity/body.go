package entity

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
)

// BodyParams describes a physics body created from a level object.
type BodyParams struct {
	Static      bool
	Sensor      bool
	Circle      bool
	Density     float64
	Friction    float64
	Restitution float64
	AirFriction float64
	Scale       float64
	// Width and Height override the image size when non-zero.
	Width   float64
	Height  float64
	RepeatX int
	Depth   int
	Pinned  bool
}

// NewImageBody adds a sprite with a matching collider centred on (x, y). A
// circle collider uses the larger image side as its diameter.
func NewImageBody(w *ecs.World, x, y float64, img *ebiten.Image, p BodyParams) (ecs.Entity, error) {
	if img == nil {
		return 0, fmt.Errorf("image body: nil image")
	}
	scale := p.Scale
	if scale <= 0 {
		scale = 1
	}
	repeat := p.RepeatX
	if repeat < 1 {
		repeat = 1
	}
	iw := float64(img.Bounds().Dx())
	ih := float64(img.Bounds().Dy())

	width, height := p.Width, p.Height
	if width <= 0 {
		width = iw * float64(repeat) * scale
	}
	if height <= 0 {
		height = ih * scale
	}
	sx := width / (iw * float64(repeat))
	sy := height / ih

	body := component.PhysicsBody{
		Width:       width,
		Height:      height,
		Density:     p.Density,
		Friction:    p.Friction,
		Elasticity:  p.Restitution,
		AirFriction: p.AirFriction,
		Static:      p.Static,
		Sensor:      p.Sensor,
		Pinned:      p.Pinned,
	}
	if p.Circle {
		body.Radius = max(width, height) / 2
	}

	e, err := newBodyEntity(w, x, y, sx, sy, &body)
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Image:   img,
		OriginX: iw * float64(repeat) / 2,
		OriginY: ih / 2,
		RepeatX: p.RepeatX,
	}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("image body: add sprite: %w", err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: p.Depth}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("image body: add render layer: %w", err)
	}
	return e, nil
}

// NewRectangleBody adds an invisible box collider centred on (x, y).
func NewRectangleBody(w *ecs.World, x, y, width, height float64, p BodyParams) (ecs.Entity, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("rectangle body: size %vx%v", width, height)
	}
	return newBodyEntity(w, x, y, 1, 1, &component.PhysicsBody{
		Width:       width,
		Height:      height,
		Density:     p.Density,
		Friction:    p.Friction,
		Elasticity:  p.Restitution,
		AirFriction: p.AirFriction,
		Static:      p.Static,
		Sensor:      p.Sensor,
		Pinned:      p.Pinned,
	})
}

func newBodyEntity(w *ecs.World, x, y, sx, sy float64, body *component.PhysicsBody) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("body: add transform: %w", err)
	}
	t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	t.ScaleX, t.ScaleY = sx, sy
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("body: add physics body: %w", err)
	}
	return e, nil
}

// SetEntityTransform moves e, adding a unit-scale Transform when missing.
func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

// SetAngularVelocity gives e a spin once. Bodies not yet in the space pick it
// up when the physics system creates them.
func SetAngularVelocity(w *ecs.World, e ecs.Entity, v float64) error {
	b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return fmt.Errorf("entity %v has no physics body", e)
	}
	b.AngularVelocity = v
	if b.Body != nil && !b.Static {
		b.Body.SetAngularVelocity(v)
	}
	return nil
}

// Pin fixes the centre of e to the world.
func Pin(w *ecs.World, e ecs.Entity) error {
	b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return fmt.Errorf("entity %v has no physics body", e)
	}
	if b.Static {
		return fmt.Errorf("entity %v is static", e)
	}
	b.Pinned = true
	return nil
}
