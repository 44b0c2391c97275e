package scene

import (
	"errors"
	"image/color"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"github.com/milk9111/atthegym/levels"
)

type fakeImage struct {
	body    Body
	x, y    float64
	texture string
	opts    BodyOptions
}

type fakeSub struct {
	source, target Body
	fn             func(Contact)
	cancelled      bool
	cancels        int
}

func (s *fakeSub) Cancel() {
	s.cancels++
	s.cancelled = true
}

type fakeCountdown struct {
	remaining float64
}

func (c *fakeCountdown) RemainingSeconds() float64 { return c.remaining }

type fakeLabel struct {
	text   string
	writes int
}

func (l *fakeLabel) SetText(text string) {
	l.text = text
	l.writes++
}

type fakeFade struct {
	d    time.Duration
	c    color.Color
	done func()
}

// fakeEngine records every call made by a Level.
type fakeEngine struct {
	m *levels.Map

	next      Body
	positions map[Body][2]float64
	player    Body
	frozen    int

	layers    []string
	converted []string
	bounds    [2]float64
	images    []fakeImage
	rects     []fakeImage
	pinned    []Body
	angular   map[Body]float64

	subs []*fakeSub
	// ignoreCancel keeps delivering to cancelled subscriptions.
	ignoreCancel bool

	countdown *fakeCountdown
	label     *fakeLabel
	follow    Body
	fades     []fakeFade

	sounds   []string
	stops    int
	restarts int
}

func newFakeEngine(m *levels.Map) *fakeEngine {
	return &fakeEngine{
		m:         m,
		positions: map[Body][2]float64{},
		angular:   map[Body]float64{},
	}
}

func (f *fakeEngine) body(x, y float64) Body {
	f.next++
	f.positions[f.next] = [2]float64{x, y}
	return f.next
}

func (f *fakeEngine) Map() *levels.Map { return f.m }

func (f *fakeEngine) CreateLayer(name string, depth int) error {
	f.layers = append(f.layers, name+":"+strconv.Itoa(depth))
	return nil
}

func (f *fakeEngine) ConvertTilemapLayer(name, property string) error {
	f.converted = append(f.converted, name+":"+property)
	return nil
}

func (f *fakeEngine) SetBounds(w, h float64) { f.bounds = [2]float64{w, h} }

func (f *fakeEngine) AddPlayer(x, y float64) (Body, error) {
	f.player = f.body(x, y)
	return f.player, nil
}

func (f *fakeEngine) FreezePlayer(b Body) { f.frozen++ }

func (f *fakeEngine) Position(b Body) (float64, float64) {
	p := f.positions[b]
	return p[0], p[1]
}

func (f *fakeEngine) AddImage(x, y float64, texture string, opts BodyOptions) (Body, error) {
	b := f.body(x, y)
	f.images = append(f.images, fakeImage{body: b, x: x, y: y, texture: texture, opts: opts})
	return b, nil
}

func (f *fakeEngine) AddRectangle(x, y, w, h float64, opts BodyOptions) (Body, error) {
	opts.Width, opts.Height = w, h
	b := f.body(x, y)
	f.rects = append(f.rects, fakeImage{body: b, x: x, y: y, opts: opts})
	return b, nil
}

func (f *fakeEngine) PinToWorld(b Body) error {
	f.pinned = append(f.pinned, b)
	return nil
}

func (f *fakeEngine) SetAngularVelocity(b Body, v float64) { f.angular[b] = v }

func (f *fakeEngine) OnCollideStart(source, target Body, fn func(Contact)) Subscription {
	s := &fakeSub{source: source, target: target, fn: fn}
	f.subs = append(f.subs, s)
	return s
}

func (f *fakeEngine) NewCountdown(d time.Duration) Countdown {
	f.countdown = &fakeCountdown{remaining: d.Seconds()}
	return f.countdown
}

func (f *fakeEngine) NewLabel(x, y float64, text string, style LabelStyle) Label {
	f.label = &fakeLabel{text: text}
	return f.label
}

func (f *fakeEngine) Follow(b Body, lerpX, lerpY float64) { f.follow = b }

func (f *fakeEngine) Fade(d time.Duration, c color.Color, done func()) {
	f.fades = append(f.fades, fakeFade{d: d, c: c, done: done})
}

func (f *fakeEngine) StopAllSounds() { f.stops++ }

func (f *fakeEngine) PlaySound(key string) { f.sounds = append(f.sounds, key) }

func (f *fakeEngine) Restart() { f.restarts++ }

// touch delivers a begin-contact between a and b the way the host does.
func (f *fakeEngine) touch(a, b Body, tile *TileInfo) {
	for _, s := range append([]*fakeSub(nil), f.subs...) {
		if s.cancelled && !f.ignoreCancel {
			continue
		}
		if s.source != a || (s.target != NoBody && s.target != b) {
			continue
		}
		s.fn(Contact{Self: a, Other: b, Tile: tile})
	}
}

func (f *fakeEngine) count(sound string) int {
	n := 0
	for _, s := range f.sounds {
		if s == sound {
			n++
		}
	}
	return n
}

func testMap() *levels.Map {
	return &levels.Map{
		Width: 10, Height: 5, TileWidth: 32, TileHeight: 32,
		Layers: []levels.Layer{
			{Name: ObjectsSpawn, Type: levels.LayerTypeObjects, Objects: []levels.Object{
				{ID: 1, Name: SpawnPointName, X: 100, Y: 100, Point: true},
			}},
			{Name: ObjectsCrates, Type: levels.LayerTypeObjects, Objects: []levels.Object{
				{ID: 2, X: 40, Y: 128, Width: 64, Height: 64, GID: 17},
				{ID: 3, X: 200, Y: 96, Width: 32, Height: 20, GID: 17},
			}},
			{Name: ObjectsPlatforms, Type: levels.LayerTypeObjects, Objects: []levels.Object{
				{ID: 4, X: 150, Y: 60, Point: true},
			}},
			{Name: ObjectsSensors, Type: levels.LayerTypeObjects, Objects: []levels.Object{
				{ID: 5, Name: CelebrationName, X: 200, Y: 20, Width: 40, Height: 60},
				{ID: 6, Name: ExitName, X: 280, Y: 20, Width: 20, Height: 80},
			}},
		},
	}
}

func without(m *levels.Map, layer, name string) *levels.Map {
	for i := range m.Layers {
		if m.Layers[i].Name != layer {
			continue
		}
		var keep []levels.Object
		for _, o := range m.Layers[i].Objects {
			if o.Name != name {
				keep = append(keep, o)
			}
		}
		m.Layers[i].Objects = keep
	}
	return m
}

func newTestLevel(t *testing.T, f *fakeEngine) (*Level, *[]Outcome) {
	t.Helper()
	var outcomes []Outcome
	l := NewLevel(f, Options{
		Config: DefaultConfig(),
		Rand:   rand.New(rand.NewPCG(1, 2)),
		OnEnd:  func(o Outcome) { outcomes = append(outcomes, o) },
	})
	if err := l.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return l, &outcomes
}

func (f *fakeEngine) sensorBody(t *testing.T, name string) Body {
	t.Helper()
	o, ok := f.m.FindObject(ObjectsSensors, name)
	if !ok {
		t.Fatalf("sensor %q missing from map", name)
	}
	for _, r := range f.rects {
		if r.x == o.X+o.Width/2 && r.y == o.Y+o.Height/2 {
			return r.body
		}
	}
	t.Fatalf("sensor %q was not created", name)
	return NoBody
}

var lavaTile = &TileInfo{Layer: LayerLava, Properties: levels.Properties{"collides": true, "isLethal": true}}

func TestCreateBuildsLevel(t *testing.T) {
	f := newFakeEngine(testMap())
	l, _ := newTestLevel(t, f)

	if l.State() != StatePlaying || l.GameOver() {
		t.Fatalf("new level state = %v gameOver=%v", l.State(), l.GameOver())
	}
	if x, y := l.Player().Position(); x != 100 || y != 100 {
		t.Fatalf("player at %v,%v, want 100,100", x, y)
	}
	if f.follow != f.player {
		t.Fatalf("camera follows %v, want player %v", f.follow, f.player)
	}
	if f.bounds != [2]float64{320, 160} {
		t.Fatalf("bounds = %v", f.bounds)
	}
	if len(f.converted) != 2 || f.converted[0] != "Ground:collides" || f.converted[1] != "Lava:collides" {
		t.Fatalf("converted = %v", f.converted)
	}
	wantLayers := []string{"Ground:0", "Lava:0", "Background:0", "Foreground:10"}
	if len(f.layers) != len(wantLayers) {
		t.Fatalf("layers = %v, want %v", f.layers, wantLayers)
	}
	for i := range wantLayers {
		if f.layers[i] != wantLayers[i] {
			t.Fatalf("layers = %v, want %v", f.layers, wantLayers)
		}
	}
	if len(f.subs) != 3 {
		t.Fatalf("subscriptions = %d, want 3", len(f.subs))
	}
	if f.stops != 1 || len(f.sounds) != 1 || f.sounds[0] != "music" {
		t.Fatalf("audio stops=%d sounds=%v", f.stops, f.sounds)
	}
	if f.label == nil || f.label.text != "Countdown: " {
		t.Fatalf("label = %+v", f.label)
	}
	if f.countdown == nil || f.countdown.remaining != 60 {
		t.Fatalf("countdown = %+v", f.countdown)
	}
	for _, r := range f.rects {
		if !r.opts.Sensor || !r.opts.Static {
			t.Fatalf("sensor rect options = %+v", r.opts)
		}
	}
}

func TestCratesAreRecentred(t *testing.T) {
	f := newFakeEngine(testMap())
	newTestLevel(t, f)

	tests := []struct {
		name string
		x, y float64
	}{
		{name: "64x64 at 40,128", x: 72, y: 96},
		{name: "32x20 at 200,96", x: 216, y: 86},
	}
	var crates []fakeImage
	for _, img := range f.images {
		if img.texture == "block" {
			crates = append(crates, img)
		}
	}
	if len(crates) != len(tests) {
		t.Fatalf("crates = %d, want %d", len(crates), len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if crates[i].x != tt.x || crates[i].y != tt.y {
				t.Fatalf("centre = %v,%v, want %v,%v", crates[i].x, crates[i].y, tt.x, tt.y)
			}
		})
	}
}

func TestRotatingPlatform(t *testing.T) {
	f := newFakeEngine(testMap())
	cfg := DefaultConfig().Platform
	b, err := CreateRotatingPlatform(f, 150, 60, cfg)
	if err != nil {
		t.Fatalf("CreateRotatingPlatform() failed: %v", err)
	}
	if len(f.pinned) != 1 || f.pinned[0] != b {
		t.Fatalf("pinned = %v, want [%v]", f.pinned, b)
	}
	if f.angular[b] != cfg.AngularVelocity {
		t.Fatalf("angular velocity = %v, want %v", f.angular[b], cfg.AngularVelocity)
	}
	img := f.images[0]
	if img.x != 150 || img.y != 60 {
		t.Fatalf("platform at %v,%v", img.x, img.y)
	}
	if img.opts.Width != cfg.TileWidth*float64(cfg.Tiles) || img.opts.RepeatX != cfg.Tiles {
		t.Fatalf("platform opts = %+v", img.opts)
	}
}

func TestCreateMissingData(t *testing.T) {
	tests := []struct {
		name string
		m    *levels.Map
		want error
	}{
		{name: "no map", m: nil, want: ErrNoMap},
		{name: "no spawn", m: without(testMap(), ObjectsSpawn, SpawnPointName), want: ErrMissingSpawn},
		{name: "no celebration", m: without(testMap(), ObjectsSensors, CelebrationName), want: ErrMissingSensor},
		{name: "no exit", m: without(testMap(), ObjectsSensors, ExitName), want: ErrMissingSensor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeEngine(tt.m)
			l := NewLevel(f, Options{Config: DefaultConfig()})
			err := l.Create()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCountdownDisplay(t *testing.T) {
	f := newFakeEngine(testMap())
	l, _ := newTestLevel(t, f)

	tests := []struct {
		remaining float64
		want      string
	}{
		{remaining: 60, want: "60.0"},
		{remaining: 42.26, want: "42.3"},
		{remaining: 0.06, want: "0.1"},
	}
	for _, tt := range tests {
		f.countdown.remaining = tt.remaining
		l.Update()
		if f.label.text != tt.want {
			t.Fatalf("remaining %v: label = %q, want %q", tt.remaining, f.label.text, tt.want)
		}
	}
	if l.GameOver() {
		t.Fatalf("gameOver set before the countdown ran out")
	}
}

func TestTimeout(t *testing.T) {
	f := newFakeEngine(testMap())
	l, outcomes := newTestLevel(t, f)

	f.countdown.remaining = 0.04
	l.Update()

	if !l.GameOver() || l.Reason() != ReasonTimeout {
		t.Fatalf("gameOver=%v reason=%v", l.GameOver(), l.Reason())
	}
	if f.label.text != "Time is up!" {
		t.Fatalf("label = %q", f.label.text)
	}
	if f.frozen != 1 {
		t.Fatalf("player frozen %d times", f.frozen)
	}
	if len(f.fades) != 1 || f.fades[0].d != 2*time.Second {
		t.Fatalf("fades = %+v", f.fades)
	}

	writes := f.label.writes
	for i := 0; i < 5; i++ {
		l.Update()
	}
	if f.label.writes != writes || f.label.text != "Time is up!" {
		t.Fatalf("label rewritten after game over: %q (%d writes)", f.label.text, f.label.writes)
	}
	if len(f.fades) != 1 || len(*outcomes) != 1 {
		t.Fatalf("fades=%d outcomes=%d after repeated updates", len(f.fades), len(*outcomes))
	}
	if e := (*outcomes)[0].Elapsed; e < 59*time.Second || e > 60*time.Second {
		t.Fatalf("elapsed = %v", (*outcomes)[0].Elapsed)
	}
}

func TestLethalTile(t *testing.T) {
	tests := []struct {
		name         string
		ignoreCancel bool
	}{
		{name: "cancel honoured"},
		{name: "late delivery after cancel", ignoreCancel: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeEngine(testMap())
			l, _ := newTestLevel(t, f)
			f.ignoreCancel = tt.ignoreCancel
			wall := f.body(0, 0)

			f.countdown.remaining = 50
			l.Update()

			// Non-lethal tiles and plain bodies leave the subscription armed.
			f.touch(f.player, wall, &TileInfo{Layer: LayerGround, Properties: levels.Properties{"collides": true}})
			f.touch(f.player, wall, nil)
			if l.GameOver() {
				t.Fatalf("non-lethal contact ended the level")
			}

			f.touch(f.player, wall, lavaTile)
			f.touch(f.player, wall, lavaTile)

			if got := f.count("ouch"); got != 1 {
				t.Fatalf("ouch played %d times, want 1", got)
			}
			if !l.GameOver() || l.Reason() != ReasonDeath || l.State() != StateEnding {
				t.Fatalf("gameOver=%v reason=%v state=%v", l.GameOver(), l.Reason(), l.State())
			}
			if f.frozen != 1 {
				t.Fatalf("frozen %d times", f.frozen)
			}
			if len(f.fades) != 1 || f.fades[0].d != 2*time.Second {
				t.Fatalf("fades = %+v", f.fades)
			}
			if f.subs[0].cancels != 1 {
				t.Fatalf("lethal subscription cancelled %d times", f.subs[0].cancels)
			}
		})
	}
}

func TestExitSensor(t *testing.T) {
	f := newFakeEngine(testMap())
	l, outcomes := newTestLevel(t, f)
	f.ignoreCancel = true
	exit := f.sensorBody(t, ExitName)

	f.touch(f.player, exit, nil)
	f.touch(f.player, exit, nil)

	if got := f.count("outro"); got != 1 {
		t.Fatalf("outro played %d times, want 1", got)
	}
	if !l.Player().Frozen() || f.frozen != 1 {
		t.Fatalf("player not frozen exactly once: %d", f.frozen)
	}
	if len(f.fades) != 1 || f.fades[0].d != 4000*time.Millisecond {
		t.Fatalf("fades = %+v", f.fades)
	}
	if len(*outcomes) != 1 || (*outcomes)[0].Reason != ReasonExit {
		t.Fatalf("outcomes = %+v", *outcomes)
	}
}

func TestCelebration(t *testing.T) {
	f := newFakeEngine(testMap())
	l, _ := newTestLevel(t, f)
	f.ignoreCancel = true
	sensor := f.sensorBody(t, CelebrationName)
	before := len(f.images)

	f.touch(f.player, sensor, nil)
	f.touch(f.player, sensor, nil)

	spawned := f.images[before:]
	if len(spawned) != 35 {
		t.Fatalf("spawned %d emojis, want 35", len(spawned))
	}
	px, py := l.Player().Position()
	for i, e := range spawned {
		if e.x < px-50 || e.x > px+50 {
			t.Fatalf("emoji %d x = %v outside [%v, %v]", i, e.x, px-50, px+50)
		}
		if e.y < py-760 || e.y > py-740 {
			t.Fatalf("emoji %d y = %v outside [%v, %v]", i, e.y, py-760, py-740)
		}
		if !e.opts.Circle || e.opts.Friction != 0 || e.opts.Frame != "1f4a9" {
			t.Fatalf("emoji %d opts = %+v", i, e.opts)
		}
	}
	if l.GameOver() || l.State() != StatePlaying {
		t.Fatalf("celebration ended the level")
	}
}

func TestCelebrationAfterGameOverIsIgnored(t *testing.T) {
	f := newFakeEngine(testMap())
	l, _ := newTestLevel(t, f)
	sensor := f.sensorBody(t, CelebrationName)

	f.countdown.remaining = 0
	l.Update()
	before := len(f.images)
	f.touch(f.player, sensor, nil)

	if len(f.images) != before {
		t.Fatalf("celebration spawned %d bodies after game over", len(f.images)-before)
	}
}

func TestTerminalTransitionsAreExclusive(t *testing.T) {
	f := newFakeEngine(testMap())
	l, outcomes := newTestLevel(t, f)
	exit := f.sensorBody(t, ExitName)
	wall := f.body(0, 0)

	f.touch(f.player, wall, lavaTile)
	f.touch(f.player, exit, nil)
	f.countdown.remaining = 0
	l.Update()

	if l.Reason() != ReasonDeath {
		t.Fatalf("reason = %v, want death", l.Reason())
	}
	if len(f.fades) != 1 || len(*outcomes) != 1 || f.count("outro") != 0 {
		t.Fatalf("fades=%d outcomes=%d outro=%d", len(f.fades), len(*outcomes), f.count("outro"))
	}
	if f.label.text == "Time is up!" {
		t.Fatalf("timeout text shown after death")
	}
}

func TestFadeCompletionRestartsOnce(t *testing.T) {
	f := newFakeEngine(testMap())
	l, _ := newTestLevel(t, f)
	wall := f.body(0, 0)

	f.touch(f.player, wall, lavaTile)
	if f.restarts != 0 {
		t.Fatalf("restart requested before the fade finished")
	}
	f.fades[0].done()
	f.fades[0].done()

	if f.restarts != 1 {
		t.Fatalf("restarts = %d, want 1", f.restarts)
	}
	if l.State() != StateRestarting {
		t.Fatalf("state = %v, want restarting", l.State())
	}
}

func TestRestartBuildsFreshState(t *testing.T) {
	f := newFakeEngine(testMap())
	first, _ := newTestLevel(t, f)
	f.countdown.remaining = 0
	first.Update()

	second, _ := newTestLevel(t, newFakeEngine(testMap()))
	if second.GameOver() || second.State() != StatePlaying || second.Reason() != ReasonNone {
		t.Fatalf("fresh level inherited state: %v %v", second.State(), second.Reason())
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	def := DefaultConfig()

	if cfg.Countdown != def.Countdown || cfg.TimeoutText != def.TimeoutText {
		t.Fatalf("countdown %v %q", cfg.Countdown, cfg.TimeoutText)
	}
	if cfg.TimeoutFade != 2*time.Second || cfg.DeathFade != 2*time.Second || cfg.ExitFade != 4*time.Second {
		t.Fatalf("fades %v %v %v", cfg.TimeoutFade, cfg.DeathFade, cfg.ExitFade)
	}
	if cfg.Celebration != def.Celebration {
		t.Fatalf("celebration = %+v, want %+v", cfg.Celebration, def.Celebration)
	}
	if cfg.Platform.Tiles != 5 || cfg.Platform.Density != 0.005 {
		t.Fatalf("platform motion not applied: %+v", cfg.Platform)
	}
	if cfg.MusicSound != "music" || cfg.DeathSound != "ouch" || cfg.ExitSound != "outro" {
		t.Fatalf("sounds %q %q %q", cfg.MusicSound, cfg.DeathSound, cfg.ExitSound)
	}
}

func TestEndReasonString(t *testing.T) {
	tests := []struct {
		r    EndReason
		want string
	}{
		{ReasonNone, "none"},
		{ReasonTimeout, "timeout"},
		{ReasonDeath, "death"},
		{ReasonExit, "exit"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Fatalf("%d.String() = %q, want %q", tt.r, got, tt.want)
		}
	}
}
