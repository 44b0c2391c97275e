// Package host runs a scene.Level on the ECS world: it implements the
// scene.Engine capabilities with entities, components and systems.
package host

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/atthegym/common"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
	"github.com/milk9111/atthegym/ecs/entity"
	"github.com/milk9111/atthegym/ecs/render"
	"github.com/milk9111/atthegym/ecs/system"
	"github.com/milk9111/atthegym/levels"
	"github.com/milk9111/atthegym/prefabs"
	"github.com/milk9111/atthegym/scene"
)

var ErrUnknownBody = errors.New("host: unknown body")

type Options struct {
	Map      *levels.Map
	Textures *render.Textures
	// Sounds plays queued audio; nil disables sound.
	Sounds system.SoundPlayer
	Player prefabs.PlayerSpec
	Camera prefabs.CameraSpec
	Logger *log.Logger
	// Debug draws physics shapes and player state over the scene.
	Debug bool
	// Headless skips the input and drawing systems.
	Headless bool
}

// Host owns one world per level attempt.
type Host struct {
	opts    Options
	logger  *log.Logger
	world   *ecs.World
	physics *system.PhysicsSystem

	camera ecs.Entity
	queue  ecs.Entity

	restartRequested bool
	debugLines       func() []string
}

var _ scene.Engine = (*Host)(nil)

func New(opts Options) (*Host, error) {
	if opts.Map == nil {
		return nil, scene.ErrNoMap
	}
	if opts.Textures == nil {
		opts.Textures = render.NewTextures()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := &Host{
		opts:    opts,
		logger:  logger,
		world:   ecs.NewWorld(),
		physics: system.NewPhysicsSystem(),
	}

	if !opts.Headless {
		h.world.AddSystem(system.NewInputSystem())
	}
	h.world.AddSystem(system.NewPlayerControllerSystem())
	h.world.AddSystem(h.physics)
	h.world.AddSystem(system.NewTimerSystem())
	h.world.AddSystem(system.NewAnimationSystem())
	h.world.AddSystem(system.NewCameraSystem())
	h.world.AddSystem(system.NewAudioSystem(opts.Sounds, logger))
	if !opts.Headless {
		h.world.AddSystem(system.NewRenderSystem())
		h.world.AddSystem(system.NewHUDSystem())
		h.world.AddSystem(system.NewFadeOverlaySystem())
	}

	var err error
	if h.camera, err = entity.NewCamera(h.world, opts.Camera); err != nil {
		return nil, err
	}
	if h.queue, err = entity.NewSoundQueue(h.world); err != nil {
		return nil, err
	}
	return h, nil
}

// World exposes the ECS world for tooling and tests.
func (h *Host) World() *ecs.World { return h.world }

// Update runs one tick of every system.
func (h *Host) Update() {
	h.world.Update()
}

// Draw renders the world, then the debug overlay when enabled.
func (h *Host) Draw(screen *ebiten.Image) {
	h.world.Draw(screen)
	if !h.opts.Debug {
		return
	}
	h.physics.DrawDebug(h.world, screen)
	var extra []string
	if h.debugLines != nil {
		extra = h.debugLines()
	}
	system.DrawPlayerDebug(h.world, screen, extra...)
}

// SetDebugLines adds caller-supplied lines to the debug overlay.
func (h *Host) SetDebugLines(fn func() []string) { h.debugLines = fn }

// RestartRequested reports whether the level asked to be rebuilt.
func (h *Host) RestartRequested() bool { return h.restartRequested }

func (h *Host) Map() *levels.Map { return h.opts.Map }

func (h *Host) CreateLayer(name string, depth int) error {
	n, err := entity.LoadTileLayer(h.world, h.opts.Map, h.opts.Textures, name, depth)
	if err != nil {
		return err
	}
	h.logger.Debug("tile layer", "name", name, "tiles", n, "depth", depth)
	return nil
}

func (h *Host) ConvertTilemapLayer(name, property string) error {
	n, err := entity.AddTileColliders(h.world, h.opts.Map, name, property)
	if err != nil {
		return err
	}
	h.logger.Debug("tile colliders", "layer", name, "bodies", n)
	return nil
}

func (h *Host) SetBounds(width, height float64) {
	if _, err := entity.NewLevelBounds(h.world, width, height); err != nil {
		h.logger.Warn("set bounds", "error", err)
	}
}

func (h *Host) AddPlayer(x, y float64) (scene.Body, error) {
	e, err := entity.NewPlayerAt(h.world, h.opts.Player, h.opts.Textures, x, y)
	if err != nil {
		return scene.NoBody, err
	}
	return scene.Body(e), nil
}

func (h *Host) FreezePlayer(b scene.Body) {
	if err := entity.Freeze(h.world, ecs.Entity(b)); err != nil {
		h.logger.Warn("freeze player", "error", err)
	}
}

func (h *Host) Position(b scene.Body) (float64, float64) {
	t, ok := ecs.Get(h.world, ecs.Entity(b), component.TransformComponent.Kind())
	if !ok {
		return 0, 0
	}
	return t.X, t.Y
}

func (h *Host) AddImage(x, y float64, texture string, opts scene.BodyOptions) (scene.Body, error) {
	img, err := h.opts.Textures.Resolve(texture, opts.Frame)
	if err != nil {
		return scene.NoBody, err
	}
	e, err := entity.NewImageBody(h.world, x, y, img, bodyParams(opts))
	if err != nil {
		return scene.NoBody, err
	}
	return scene.Body(e), nil
}

func (h *Host) AddRectangle(x, y, w, hgt float64, opts scene.BodyOptions) (scene.Body, error) {
	e, err := entity.NewRectangleBody(h.world, x, y, w, hgt, bodyParams(opts))
	if err != nil {
		return scene.NoBody, err
	}
	return scene.Body(e), nil
}

func (h *Host) PinToWorld(b scene.Body) error {
	if !ecs.IsAlive(h.world, ecs.Entity(b)) {
		return fmt.Errorf("%w: %d", ErrUnknownBody, b)
	}
	return entity.Pin(h.world, ecs.Entity(b))
}

func (h *Host) SetAngularVelocity(b scene.Body, v float64) {
	if err := entity.SetAngularVelocity(h.world, ecs.Entity(b), v); err != nil {
		h.logger.Warn("set angular velocity", "error", err)
	}
}

func (h *Host) OnCollideStart(source, target scene.Body, fn func(scene.Contact)) scene.Subscription {
	return h.world.Collisions().Subscribe(ecs.Entity(source), ecs.Entity(target), func(c ecs.Contact) {
		fn(scene.Contact{
			Self:  scene.Body(c.Self),
			Other: scene.Body(c.Other),
			Tile:  h.tileInfo(c.Other),
		})
	})
}

func (h *Host) tileInfo(e ecs.Entity) *scene.TileInfo {
	tile, ok := ecs.Get(h.world, e, component.TileComponent.Kind())
	if !ok {
		return nil
	}
	return &scene.TileInfo{Layer: tile.Layer, Properties: tile.Properties}
}

func (h *Host) NewCountdown(d time.Duration) scene.Countdown {
	frames := common.FramesFor(int(d / time.Millisecond))
	e, err := entity.NewCountdown(h.world, frames)
	if err != nil {
		h.logger.Warn("countdown", "error", err)
	}
	return &countdown{world: h.world, entity: e}
}

func (h *Host) NewLabel(x, y float64, text string, style scene.LabelStyle) scene.Label {
	e, err := entity.NewLabel(h.world, component.Label{
		X:          x,
		Y:          y,
		Text:       text,
		FontSize:   style.FontSize,
		PaddingX:   style.PaddingX,
		PaddingY:   style.PaddingY,
		Background: style.Background,
		Color:      style.Color,
	})
	if err != nil {
		h.logger.Warn("label", "error", err)
	}
	return &label{world: h.world, entity: e}
}

func (h *Host) Follow(b scene.Body, lerpX, lerpY float64) {
	if err := entity.Follow(h.world, h.camera, ecs.Entity(b), lerpX, lerpY); err != nil {
		h.logger.Warn("camera follow", "error", err)
	}
}

func (h *Host) Fade(d time.Duration, c color.Color, done func()) {
	frames := common.FramesFor(int(d / time.Millisecond))
	if err := entity.StartFade(h.world, h.camera, frames, c, done); err != nil {
		h.logger.Warn("camera fade", "error", err)
	}
}

func (h *Host) StopAllSounds() {
	if q := h.soundQueue(); q != nil {
		q.StopAll()
	}
}

func (h *Host) PlaySound(key string) {
	if q := h.soundQueue(); q != nil {
		q.Play(key)
	}
}

func (h *Host) soundQueue() *component.SoundQueue {
	q, _ := ecs.Get(h.world, h.queue, component.SoundQueueComponent.Kind())
	return q
}

func (h *Host) Restart() {
	h.restartRequested = true
}

func bodyParams(o scene.BodyOptions) entity.BodyParams {
	return entity.BodyParams{
		Static:      o.Static,
		Sensor:      o.Sensor,
		Circle:      o.Circle,
		Density:     o.Density,
		Friction:    o.Friction,
		Restitution: o.Restitution,
		AirFriction: o.AirFriction,
		Scale:       o.Scale,
		Width:       o.Width,
		Height:      o.Height,
		RepeatX:     o.RepeatX,
		Depth:       o.Depth,
	}
}

type countdown struct {
	world  *ecs.World
	entity ecs.Entity
}

func (c *countdown) RemainingSeconds() float64 {
	cd, ok := ecs.Get(c.world, c.entity, component.CountdownComponent.Kind())
	if !ok {
		return 0
	}
	return float64(cd.RemainingFrames()) / common.TPS
}

type label struct {
	world  *ecs.World
	entity ecs.Entity
}

func (l *label) SetText(text string) {
	if lc, ok := ecs.Get(l.world, l.entity, component.LabelComponent.Kind()); ok {
		lc.Text = text
	}
}
