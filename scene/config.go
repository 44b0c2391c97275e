package scene

import (
	"fmt"
	"image/color"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/atthegym/prefabs"
)

type CelebrationConfig struct {
	Count       int
	SpreadX     int
	OffsetY     float64
	JitterY     int
	Texture     string
	Frame       string
	Restitution float64
	Friction    float64
	Density     float64
	Scale       float64
}

type CrateConfig struct {
	Texture  string
	Density  float64
	Friction float64
}

// Config is everything tunable about one attempt.
type Config struct {
	Level         string
	Countdown     time.Duration
	CountdownText string
	TimeoutText   string
	LabelX        float64
	LabelY        float64
	LabelStyle    LabelStyle

	FadeColor   color.Color
	TimeoutFade time.Duration
	DeathFade   time.Duration
	ExitFade    time.Duration

	CameraLerpX float64
	CameraLerpY float64

	ForegroundDepth int

	Celebration CelebrationConfig
	Crate       CrateConfig
	Platform    PlatformConfig

	MusicSound string
	DeathSound string
	ExitSound  string
}

func DefaultConfig() Config {
	return Config{
		Level:         "level.json",
		Countdown:     60 * time.Second,
		CountdownText: "Countdown: ",
		TimeoutText:   "Time is up!",
		LabelX:        16,
		LabelY:        16,
		LabelStyle: LabelStyle{
			FontSize:   18,
			PaddingX:   10,
			PaddingY:   5,
			Background: color.White,
			Color:      color.Black,
		},
		FadeColor:       color.Black,
		TimeoutFade:     2 * time.Second,
		DeathFade:       2 * time.Second,
		ExitFade:        4 * time.Second,
		CameraLerpX:     0.5,
		CameraLerpY:     0.5,
		ForegroundDepth: 10,
		Celebration: CelebrationConfig{
			Count:       35,
			SpreadX:     50,
			OffsetY:     -750,
			JitterY:     10,
			Texture:     "emoji",
			Frame:       "1f4a9",
			Restitution: 1,
			Friction:    0,
			Density:     0.0001,
			Scale:       0.5,
		},
		Crate: CrateConfig{Texture: "block", Density: 0.001},
		Platform: PlatformConfig{
			Texture:         "wooden-plank",
			TileWidth:       64,
			Height:          18,
			Tiles:           5,
			AngularVelocity: 0.6,
			Friction:        0.2,
			AirFriction:     0.2,
			Restitution:     0,
			Density:         0.005,
		},
		MusicSound: "music",
		DeathSound: "ouch",
		ExitSound:  "outro",
	}
}

// LoadConfig overlays scene.yaml, camera.yaml, hud.yaml, platform.yaml and
// the platform motion script on top of DefaultConfig. Zero values in the
// specs keep the default.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	sc, err := prefabs.LoadSpec[prefabs.SceneSpec]("scene.yaml")
	if err != nil {
		return cfg, err
	}
	setString(&cfg.Level, sc.Level)
	if sc.CountdownSeconds > 0 {
		cfg.Countdown = time.Duration(sc.CountdownSeconds * float64(time.Second))
	}
	setString(&cfg.TimeoutText, sc.TimeoutText)
	setString(&cfg.CountdownText, sc.Label.Text)
	setFloat(&cfg.LabelX, sc.Label.X)
	setFloat(&cfg.LabelY, sc.Label.Y)
	cfg.FadeColor = sc.Fade.Color.Or(cfg.FadeColor)
	setMillis(&cfg.TimeoutFade, sc.Fade.TimeoutMS)
	setMillis(&cfg.DeathFade, sc.Fade.DeathMS)
	setMillis(&cfg.ExitFade, sc.Fade.ExitMS)

	cel := sc.Celebration
	if cel.Count > 0 {
		cfg.Celebration.Count = cel.Count
	}
	if cel.SpreadX > 0 {
		cfg.Celebration.SpreadX = cel.SpreadX
	}
	if cel.JitterY > 0 {
		cfg.Celebration.JitterY = cel.JitterY
	}
	setFloat(&cfg.Celebration.OffsetY, cel.OffsetY)
	setString(&cfg.Celebration.Texture, cel.Texture)
	setString(&cfg.Celebration.Frame, cel.Frame)
	setFloat(&cfg.Celebration.Restitution, cel.Restitution)
	setFloat(&cfg.Celebration.Friction, cel.Friction)
	setFloat(&cfg.Celebration.Density, cel.Density)
	setFloat(&cfg.Celebration.Scale, cel.Scale)

	setString(&cfg.Crate.Texture, sc.Crate.Texture)
	setFloat(&cfg.Crate.Density, sc.Crate.Density)
	setFloat(&cfg.Crate.Friction, sc.Crate.Friction)

	setString(&cfg.MusicSound, sc.Sounds.Music)
	setString(&cfg.DeathSound, sc.Sounds.Death)
	setString(&cfg.ExitSound, sc.Sounds.Exit)

	cam, err := prefabs.LoadSpec[prefabs.CameraSpec]("camera.yaml")
	if err != nil {
		return cfg, err
	}
	setFloat(&cfg.CameraLerpX, cam.LerpX)
	setFloat(&cfg.CameraLerpY, cam.LerpY)

	hud, err := prefabs.LoadSpec[prefabs.HUDSpec]("hud.yaml")
	if err != nil {
		return cfg, err
	}
	setFloat(&cfg.LabelStyle.FontSize, hud.FontSize)
	if hud.PaddingX > 0 {
		cfg.LabelStyle.PaddingX = hud.PaddingX
	}
	if hud.PaddingY > 0 {
		cfg.LabelStyle.PaddingY = hud.PaddingY
	}
	cfg.LabelStyle.Background = hud.Background.Or(cfg.LabelStyle.Background)
	cfg.LabelStyle.Color = hud.Foreground.Or(cfg.LabelStyle.Color)

	plat, err := prefabs.LoadSpec[prefabs.PlatformSpec]("platform.yaml")
	if err != nil {
		return cfg, err
	}
	setString(&cfg.Platform.Texture, plat.Texture)
	setFloat(&cfg.Platform.TileWidth, plat.TileWidth)
	setFloat(&cfg.Platform.Height, plat.Height)
	if plat.Script != "" {
		if err := applyMotionScript(&cfg.Platform, plat.Script); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// applyMotionScript runs a tengo script and copies its `motion` map into the
// platform config.
func applyMotionScript(p *PlatformConfig, name string) error {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return fmt.Errorf("scene: load script %s: %w", name, err)
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	compiled, err := script.Run()
	if err != nil {
		return fmt.Errorf("scene: run script %s: %w", name, err)
	}

	motion := compiled.Get("motion")
	if motion == nil || motion.IsUndefined() {
		return fmt.Errorf("scene: script %s does not define 'motion'", name)
	}
	m := motion.Map()
	if m == nil {
		return fmt.Errorf("scene: script %s: 'motion' must be a map", name)
	}

	if v, ok := number(m["tiles"]); ok && v > 0 {
		p.Tiles = int(v)
	}
	if v, ok := number(m["angular_velocity"]); ok {
		p.AngularVelocity = v
	}
	if v, ok := number(m["friction"]); ok {
		p.Friction = v
	}
	if v, ok := number(m["air_friction"]); ok {
		p.AirFriction = v
	}
	if v, ok := number(m["restitution"]); ok {
		p.Restitution = v
	}
	if v, ok := number(m["density"]); ok && v > 0 {
		p.Density = v
	}
	return nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setMillis(dst *time.Duration, ms int) {
	if ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}
