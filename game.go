package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/atthegym/assets"
	"github.com/milk9111/atthegym/common"
	"github.com/milk9111/atthegym/ecs/render"
	"github.com/milk9111/atthegym/host"
	"github.com/milk9111/atthegym/levels"
	"github.com/milk9111/atthegym/prefabs"
	"github.com/milk9111/atthegym/scene"
	"github.com/milk9111/atthegym/storage"
)

type GameOptions struct {
	Level  string
	Debug  bool
	Seed   uint64
	DBPath string
	Watch  bool
	Logger *log.Logger
}

// Game owns the loaded assets and rebuilds the host and level for every
// attempt.
type Game struct {
	opts   GameOptions
	logger *log.Logger

	cfg      scene.Config
	player   prefabs.PlayerSpec
	camera   prefabs.CameraSpec
	levelMap *levels.Map
	textures *render.Textures
	sounds   *assets.SoundBank

	store   *storage.Store
	watcher *prefabs.Watcher

	host  *host.Host
	level *scene.Level

	seed     uint64
	attempts int

	paused       bool
	pauseUI      *ebitenui.UI
	restartQueue bool
	quit         bool
}

func NewGame(opts GameOptions) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	g := &Game{opts: opts, logger: logger, seed: opts.Seed}
	if g.seed == 0 {
		g.seed = uint64(time.Now().UnixNano())
	}

	manifest, err := prefabs.LoadAssetManifest()
	if err != nil {
		return nil, err
	}
	if g.textures, err = render.LoadTextures(manifest); err != nil {
		return nil, err
	}
	sounds := make([]assets.Sound, 0, len(manifest.Sounds))
	for _, s := range manifest.Sounds {
		sounds = append(sounds, assets.Sound{Key: s.Key, File: s.File, Volume: s.Volume, Loop: s.Loop})
	}
	if g.sounds, err = assets.NewSoundBank(sounds); err != nil {
		return nil, err
	}

	if err := g.loadSpecs(); err != nil {
		g.Close()
		return nil, err
	}

	if opts.DBPath != "" {
		if g.store, err = storage.Open(opts.DBPath); err != nil {
			// Attempts are nice to have; the game still runs without them.
			logger.Warn("attempt history disabled", "path", opts.DBPath, "error", err)
		}
	}
	if opts.Watch {
		if g.watcher, err = prefabs.NewWatcher("levels"); err != nil {
			logger.Warn("prefab watcher disabled", "error", err)
		}
	}

	g.pauseUI = NewPauseUI(PauseActions{
		Resume:  func() { g.paused = false },
		Restart: func() { g.paused = false; g.restartQueue = true },
		Quit:    func() { g.quit = true },
	})

	if err := g.start(); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// loadSpecs reads the scene config, player, camera and map. It leaves the
// current values untouched on error.
func (g *Game) loadSpecs() error {
	cfg, err := scene.LoadConfig()
	if err != nil {
		return fmt.Errorf("game: scene config: %w", err)
	}
	if g.opts.Level != "" {
		cfg.Level = g.opts.Level
	}
	player, err := prefabs.LoadSpec[prefabs.PlayerSpec]("player.yaml")
	if err != nil {
		return fmt.Errorf("game: player spec: %w", err)
	}
	camera, err := prefabs.LoadSpec[prefabs.CameraSpec]("camera.yaml")
	if err != nil {
		return fmt.Errorf("game: camera spec: %w", err)
	}
	m, err := levels.Load(cfg.Level)
	if err != nil {
		return err
	}
	g.cfg, g.player, g.camera, g.levelMap = cfg, player, camera, m
	return nil
}

// start builds a fresh host and level for the next attempt.
func (g *Game) start() error {
	h, err := host.New(host.Options{
		Map:      g.levelMap,
		Textures: g.textures,
		Sounds:   g.sounds,
		Player:   g.player,
		Camera:   g.camera,
		Logger:   g.logger,
		Debug:    g.opts.Debug,
	})
	if err != nil {
		return err
	}

	g.attempts++
	seed := g.seed + uint64(g.attempts)
	level := scene.NewLevel(h, scene.Options{
		Config: g.cfg,
		Rand:   rand.New(rand.NewPCG(seed, seed>>1|1)),
		Logger: g.logger.With("attempt", g.attempts),
		OnEnd: func(o scene.Outcome) {
			g.record(o, seed)
		},
	})
	if err := level.Create(); err != nil {
		return err
	}

	h.SetDebugLines(func() []string {
		return []string{
			fmt.Sprintf("state: %s", level.State()),
			fmt.Sprintf("attempt: %d seed: %d", g.attempts, seed),
		}
	})
	g.host, g.level = h, level
	return nil
}

func (g *Game) record(o scene.Outcome, seed uint64) {
	g.logger.Info("attempt finished", "reason", o.Reason, "elapsed", o.Elapsed.Round(100*time.Millisecond))
	if g.store == nil {
		return
	}
	if _, err := g.store.SaveAttempt(storage.Attempt{
		Level:   levels.CleanName(g.cfg.Level),
		Reason:  o.Reason.String(),
		Elapsed: o.Elapsed,
		Seed:    seed,
	}); err != nil {
		g.logger.Warn("save attempt", "error", err)
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.reloadChanged()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.host.Update()
	g.level.Update()

	if g.restartQueue || g.host.RestartRequested() {
		g.restartQueue = false
		if err := g.start(); err != nil {
			return fmt.Errorf("game: restart: %w", err)
		}
	}
	return nil
}

// reloadChanged re-reads specs after watched files change and queues a
// restart. A broken edit keeps the previous specs.
func (g *Game) reloadChanged() {
	if g.watcher == nil {
		return
	}
	names, err := g.watcher.Drain()
	if err != nil {
		g.logger.Warn("prefab watcher", "error", err)
	}
	if len(names) == 0 {
		return
	}
	if err := g.loadSpecs(); err != nil {
		g.logger.Error("reload failed", "files", names, "error", err)
		return
	}
	g.logger.Info("reloaded", "files", names)
	g.restartQueue = true
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.host.Draw(screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Close() error {
	var errs []error
	if g.watcher != nil {
		errs = append(errs, g.watcher.Close())
	}
	if g.store != nil {
		errs = append(errs, g.store.Close())
	}
	if g.sounds != nil {
		errs = append(errs, g.sounds.Close())
	}
	return errors.Join(errs...)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
