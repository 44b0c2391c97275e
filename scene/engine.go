// Package scene holds the level state machine. It reaches the game engine
// only through the Engine capability interface, so it can be driven by the
// Ebiten host or by a recording fake.
package scene

import (
	"image/color"
	"time"

	"github.com/milk9111/atthegym/levels"
)

// Body is an opaque engine handle for a physics body.
type Body uint64

// NoBody as a collision target matches any body.
const NoBody Body = 0

// BodyOptions configure bodies created through AddImage and AddRectangle.
type BodyOptions struct {
	Static      bool
	Sensor      bool
	Circle      bool
	Density     float64
	Friction    float64
	Restitution float64
	AirFriction float64
	// Scale multiplies the texture size for both sprite and collider.
	Scale float64
	// Frame selects a frame when the texture key names an atlas.
	Frame string
	// Width and Height override the texture size when non-zero.
	Width   float64
	Height  float64
	RepeatX int
	Depth   int
}

// TileInfo describes the tile side of a contact.
type TileInfo struct {
	Layer      string
	Properties levels.Properties
}

// Contact is a begin-touch delivered to OnCollideStart callbacks. Tile is nil
// when Other is not a tilemap collider.
type Contact struct {
	Self  Body
	Other Body
	Tile  *TileInfo
}

type Subscription interface {
	Cancel()
}

type Countdown interface {
	RemainingSeconds() float64
}

type Label interface {
	SetText(text string)
}

// LabelStyle is the look of a screen-space text label.
type LabelStyle struct {
	FontSize   float64
	PaddingX   int
	PaddingY   int
	Background color.Color
	Color      color.Color
}

type Tilemap interface {
	Map() *levels.Map
	CreateLayer(name string, depth int) error
	// ConvertTilemapLayer turns tiles whose property is true into static
	// colliders.
	ConvertTilemapLayer(name, property string) error
}

type Physics interface {
	SetBounds(width, height float64)
	AddPlayer(x, y float64) (Body, error)
	FreezePlayer(b Body)
	Position(b Body) (x, y float64)
	AddImage(x, y float64, texture string, opts BodyOptions) (Body, error)
	AddRectangle(x, y, w, h float64, opts BodyOptions) (Body, error)
	PinToWorld(b Body) error
	SetAngularVelocity(b Body, v float64)
}

type Collisions interface {
	// OnCollideStart calls fn after the physics step for each new contact
	// between source and target.
	OnCollideStart(source, target Body, fn func(Contact)) Subscription
}

type Clock interface {
	NewCountdown(d time.Duration) Countdown
}

type Overlay interface {
	NewLabel(x, y float64, text string, style LabelStyle) Label
}

type Camera interface {
	Follow(b Body, lerpX, lerpY float64)
	// Fade darkens the view over d and calls done once it has finished.
	Fade(d time.Duration, c color.Color, done func())
}

type Audio interface {
	StopAllSounds()
	PlaySound(key string)
}

type Lifecycle interface {
	Restart()
}

// Engine is everything a level needs from the host.
type Engine interface {
	Tilemap
	Physics
	Collisions
	Clock
	Overlay
	Camera
	Audio
	Lifecycle
}
