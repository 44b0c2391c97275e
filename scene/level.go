package scene

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

var (
	ErrNoMap         = errors.New("scene: engine has no map loaded")
	ErrMissingSpawn  = errors.New("scene: spawn point missing")
	ErrMissingSensor = errors.New("scene: sensor missing")
)

// Map layer and object names the level is built from.
const (
	LayerGround     = "Ground"
	LayerLava       = "Lava"
	LayerBackground = "Background"
	LayerForeground = "Foreground"

	ObjectsSpawn     = "Spawn"
	ObjectsCrates    = "Crates"
	ObjectsPlatforms = "Platform Locations"
	ObjectsSensors   = "Sensors"

	SpawnPointName  = "Spawn Point"
	CelebrationName = "Celebration"
	ExitName        = "Exit"

	PropertyCollides = "collides"
	PropertyLethal   = "isLethal"
)

type State int

const (
	StatePlaying State = iota
	StateEnding
	StateRestarting
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateEnding:
		return "ending"
	case StateRestarting:
		return "restarting"
	}
	return "unknown"
}

type EndReason int

const (
	ReasonNone EndReason = iota
	ReasonTimeout
	ReasonDeath
	ReasonExit
)

func (r EndReason) String() string {
	switch r {
	case ReasonTimeout:
		return "timeout"
	case ReasonDeath:
		return "death"
	case ReasonExit:
		return "exit"
	}
	return "none"
}

// Outcome is reported once per attempt when it leaves the playing state.
type Outcome struct {
	Reason  EndReason
	Elapsed time.Duration
}

type Options struct {
	Config Config
	Rand   *rand.Rand
	Logger *log.Logger
	// OnEnd is called once, when the attempt ends.
	OnEnd func(Outcome)
}

// Level is one attempt at the gym level. A restart builds a new Level.
type Level struct {
	engine Engine
	cfg    Config
	rng    *rand.Rand
	logger *log.Logger
	onEnd  func(Outcome)

	state    State
	reason   EndReason
	gameOver bool
	frames   int

	player    *Player
	countdown Countdown
	label     Label

	lethal    *oneShot
	celebrate *oneShot
	exit      *oneShot
}

func NewLevel(e Engine, opts Options) *Level {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Level{
		engine: e,
		cfg:    opts.Config,
		rng:    rng,
		logger: logger,
		onEnd:  opts.OnEnd,
	}
}

// Create builds the level: tile layers and colliders, bounds, player and
// camera, crates, platforms, sensors, the countdown label and music. Layers
// sharing a depth draw in creation order, so Background covers Ground and
// Lava.
func (l *Level) Create() error {
	m := l.engine.Map()
	if m == nil {
		return ErrNoMap
	}

	for _, layer := range []struct {
		name  string
		depth int
	}{
		{LayerGround, 0},
		{LayerLava, 0},
		{LayerBackground, 0},
		{LayerForeground, l.cfg.ForegroundDepth},
	} {
		if err := l.engine.CreateLayer(layer.name, layer.depth); err != nil {
			return fmt.Errorf("scene: layer %s: %w", layer.name, err)
		}
	}
	for _, name := range []string{LayerGround, LayerLava} {
		if err := l.engine.ConvertTilemapLayer(name, PropertyCollides); err != nil {
			return fmt.Errorf("scene: convert %s: %w", name, err)
		}
	}
	l.engine.SetBounds(m.WidthInPixels(), m.HeightInPixels())

	spawn, ok := m.FindObject(ObjectsSpawn, SpawnPointName)
	if !ok {
		return fmt.Errorf("%w: %q in %q", ErrMissingSpawn, SpawnPointName, ObjectsSpawn)
	}
	player, err := NewPlayer(l.engine, spawn.X, spawn.Y)
	if err != nil {
		return fmt.Errorf("scene: player: %w", err)
	}
	l.player = player
	l.engine.Follow(player.Body(), l.cfg.CameraLerpX, l.cfg.CameraLerpY)

	l.lethal = l.subscribe(player.Body(), NoBody, isLethalTile, func(Contact) {
		l.end(ReasonDeath)
	})

	for _, o := range m.Objects(ObjectsCrates) {
		// Tile objects are anchored bottom-left.
		x, y := o.X+o.Width/2, o.Y-o.Height/2
		if _, err := l.engine.AddImage(x, y, l.cfg.Crate.Texture, BodyOptions{
			Density:  l.cfg.Crate.Density,
			Friction: l.cfg.Crate.Friction,
			Width:    o.Width,
			Height:   o.Height,
			Depth:    3,
		}); err != nil {
			return fmt.Errorf("scene: crate %d: %w", o.ID, err)
		}
	}

	for _, o := range m.Objects(ObjectsPlatforms) {
		if _, err := CreateRotatingPlatform(l.engine, o.X, o.Y, l.cfg.Platform); err != nil {
			return fmt.Errorf("scene: platform %d: %w", o.ID, err)
		}
	}

	celebration, err := l.sensor(CelebrationName)
	if err != nil {
		return err
	}
	exit, err := l.sensor(ExitName)
	if err != nil {
		return err
	}
	l.celebrate = l.subscribe(player.Body(), celebration, nil, l.onCelebrate)
	l.exit = l.subscribe(player.Body(), exit, nil, func(Contact) {
		l.end(ReasonExit)
	})

	l.countdown = l.engine.NewCountdown(l.cfg.Countdown)
	l.label = l.engine.NewLabel(l.cfg.LabelX, l.cfg.LabelY, l.cfg.CountdownText, l.cfg.LabelStyle)

	l.engine.StopAllSounds()
	l.engine.PlaySound(l.cfg.MusicSound)

	l.logger.Debug("level created", "spawn_x", spawn.X, "spawn_y", spawn.Y, "countdown", l.cfg.Countdown)
	return nil
}

func (l *Level) sensor(name string) (Body, error) {
	o, ok := l.engine.Map().FindObject(ObjectsSensors, name)
	if !ok {
		return NoBody, fmt.Errorf("%w: %q in %q", ErrMissingSensor, name, ObjectsSensors)
	}
	b, err := l.engine.AddRectangle(o.X+o.Width/2, o.Y+o.Height/2, o.Width, o.Height, BodyOptions{
		Static: true,
		Sensor: true,
	})
	if err != nil {
		return NoBody, fmt.Errorf("scene: sensor %s: %w", name, err)
	}
	return b, nil
}

// Update runs once per frame after the engine has stepped.
func (l *Level) Update() {
	l.frames++
	if l.gameOver || l.countdown == nil {
		return
	}
	t := math.Round(l.countdown.RemainingSeconds()*10) / 10
	if t > 0 {
		l.label.SetText(strconv.FormatFloat(t, 'f', 1, 64))
		return
	}
	l.end(ReasonTimeout)
}

// end moves a playing level into Ending. Only the first terminal trigger
// takes effect.
func (l *Level) end(reason EndReason) {
	if l.state != StatePlaying {
		return
	}
	l.state = StateEnding
	l.reason = reason
	l.gameOver = true

	var fade time.Duration
	switch reason {
	case ReasonTimeout:
		l.label.SetText(l.cfg.TimeoutText)
		l.player.Freeze()
		fade = l.cfg.TimeoutFade
	case ReasonDeath:
		l.player.Freeze()
		l.engine.PlaySound(l.cfg.DeathSound)
		fade = l.cfg.DeathFade
	case ReasonExit:
		l.engine.PlaySound(l.cfg.ExitSound)
		l.player.Freeze()
		fade = l.cfg.ExitFade
	}

	l.logger.Info("attempt ended", "reason", reason, "frames", l.frames)
	if l.onEnd != nil {
		l.onEnd(Outcome{Reason: reason, Elapsed: l.Elapsed()})
	}
	l.engine.Fade(fade, l.cfg.FadeColor, l.restart)
}

func (l *Level) restart() {
	if l.state != StateEnding {
		return
	}
	l.state = StateRestarting
	l.logger.Debug("restarting level", "reason", l.reason)
	l.engine.Restart()
}

func (l *Level) onCelebrate(Contact) {
	if l.state != StatePlaying {
		return
	}
	x, y := l.player.Position()
	c := l.cfg.Celebration
	for i := 0; i < c.Count; i++ {
		ex := x + float64(l.intInRange(-c.SpreadX, c.SpreadX))
		ey := y + c.OffsetY + float64(l.intInRange(-c.JitterY, c.JitterY))
		if _, err := l.engine.AddImage(ex, ey, c.Texture, BodyOptions{
			Circle:      true,
			Restitution: c.Restitution,
			Friction:    c.Friction,
			Density:     c.Density,
			Scale:       c.Scale,
			Frame:       c.Frame,
			Depth:       4,
		}); err != nil {
			l.logger.Warn("celebration spawn failed", "error", err)
			return
		}
	}
	l.logger.Debug("celebration", "count", c.Count)
}

// intInRange returns an integer in [lo, hi], both inclusive.
func (l *Level) intInRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + l.rng.IntN(hi-lo+1)
}

func isLethalTile(c Contact) bool {
	return c.Tile != nil && c.Tile.Properties.Bool(PropertyLethal)
}

func (l *Level) subscribe(source, target Body, accept func(Contact) bool, fire func(Contact)) *oneShot {
	o := &oneShot{accept: accept, fire: fire}
	o.sub = l.engine.OnCollideStart(source, target, o.handle)
	return o
}

func (l *Level) State() State         { return l.state }
func (l *Level) Reason() EndReason    { return l.reason }
func (l *Level) GameOver() bool       { return l.gameOver }
func (l *Level) Player() *Player      { return l.player }
func (l *Level) Elapsed() time.Duration {
	if l.countdown == nil {
		return 0
	}
	d := l.cfg.Countdown - time.Duration(l.countdown.RemainingSeconds()*float64(time.Second))
	if d < 0 {
		return 0
	}
	return d
}

// oneShot runs fire for the first accepted contact and cancels the
// underlying subscription. Later deliveries are ignored even if the engine
// had already queued them.
type oneShot struct {
	sub    Subscription
	accept func(Contact) bool
	fire   func(Contact)
	fired  bool
}

func (o *oneShot) handle(c Contact) {
	if o.fired {
		return
	}
	if o.accept != nil && !o.accept(c) {
		return
	}
	o.fired = true
	if o.sub != nil {
		o.sub.Cancel()
	}
	o.fire(c)
}

func (o *oneShot) Fired() bool {
	return o != nil && o.fired
}
