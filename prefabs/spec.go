package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SceneSpec tunes one attempt of the level: timings, texts, celebration and
// the sound keys each transition plays.
type SceneSpec struct {
	Name             string          `yaml:"name"`
	Level            string          `yaml:"level"`
	CountdownSeconds float64         `yaml:"countdown_seconds"`
	TimeoutText      string          `yaml:"timeout_text"`
	Label            LabelSpec       `yaml:"label"`
	Fade             FadeSpec        `yaml:"fade"`
	Celebration      CelebrationSpec `yaml:"celebration"`
	Crate            CrateSpec       `yaml:"crate"`
	Sounds           SceneSoundsSpec `yaml:"sounds"`
}

type LabelSpec struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Text string  `yaml:"text"`
}

type FadeSpec struct {
	Color     *YAMLColor `yaml:"color"`
	TimeoutMS int        `yaml:"timeout_ms"`
	DeathMS   int        `yaml:"death_ms"`
	ExitMS    int        `yaml:"exit_ms"`
}

type CelebrationSpec struct {
	Count       int     `yaml:"count"`
	SpreadX     int     `yaml:"spread_x"`
	OffsetY     float64 `yaml:"offset_y"`
	JitterY     int     `yaml:"jitter_y"`
	Texture     string  `yaml:"texture"`
	Frame       string  `yaml:"frame"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
	Density     float64 `yaml:"density"`
	Scale       float64 `yaml:"scale"`
}

type CrateSpec struct {
	Texture  string  `yaml:"texture"`
	Density  float64 `yaml:"density"`
	Friction float64 `yaml:"friction"`
}

type SceneSoundsSpec struct {
	Music string `yaml:"music"`
	Death string `yaml:"death"`
	Exit  string `yaml:"exit"`
}

type CameraSpec struct {
	Name  string  `yaml:"name"`
	LerpX float64 `yaml:"lerp_x"`
	LerpY float64 `yaml:"lerp_y"`
	Zoom  float64 `yaml:"zoom"`
}

type PlayerSpec struct {
	Name         string          `yaml:"name"`
	MoveSpeed    float64         `yaml:"move_speed"`
	JumpSpeed    float64         `yaml:"jump_speed"`
	CoyoteFrames int             `yaml:"coyote_frames"`
	JumpSound    string          `yaml:"jump_sound"`
	Density      float64         `yaml:"density"`
	Friction     float64         `yaml:"friction"`
	Collider     ColliderSpec    `yaml:"collider"`
	Sprite       SpriteSpec      `yaml:"sprite"`
	Animation    AnimationSpec   `yaml:"animation"`
	RenderLayer  RenderLayerSpec `yaml:"render_layer"`
}

type PlatformSpec struct {
	Name      string  `yaml:"name"`
	Texture   string  `yaml:"texture"`
	TileWidth float64 `yaml:"tile_width"`
	Height    float64 `yaml:"height"`
	Script    string  `yaml:"script"`
}

// HUDSpec styles screen-space labels.
type HUDSpec struct {
	FontSize   float64    `yaml:"font_size"`
	PaddingX   int        `yaml:"padding_x"`
	PaddingY   int        `yaml:"padding_y"`
	Background *YAMLColor `yaml:"background"`
	Foreground *YAMLColor `yaml:"foreground"`
}

type RenderLayerSpec struct {
	Index int `yaml:"index"`
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type SpriteSpec struct {
	Image   string  `yaml:"image"`
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
}

type AnimationSpec struct {
	Defs    map[string]AnimationDefSpec `yaml:"defs"`
	Current string                      `yaml:"current"`
}

type AnimationDefSpec struct {
	Row        int     `yaml:"row"`
	ColStart   int     `yaml:"col_start"`
	FrameCount int     `yaml:"frame_count"`
	FrameW     int     `yaml:"frame_w"`
	FrameH     int     `yaml:"frame_h"`
	FPS        float64 `yaml:"fps"`
	Loop       bool    `yaml:"loop"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	col, err := ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = col
	return nil
}

// Or returns the wrapped colour, or def when c is unset.
func (c *YAMLColor) Or(def color.Color) color.Color {
	if c == nil || c.Color == nil {
		return def
	}
	return c.Color
}

// ParseHexColor accepts #rrggbb and #rrggbbaa.
func ParseHexColor(v string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", v)
	}

	parse := func(start int) (uint8, error) {
		n, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(n), err
	}

	var ch [4]uint8
	ch[3] = 255
	for i := 0; i < len(s)/2; i++ {
		n, err := parse(i * 2)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %s: %w", v, err)
		}
		ch[i] = n
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}
