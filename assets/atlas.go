package assets

import (
	"encoding/json"
	"fmt"
	"image"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// Atlas is a texture atlas in the TexturePacker "hash" JSON layout.
type Atlas struct {
	Image  *ebiten.Image
	Frames map[string]image.Rectangle
}

type atlasRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type atlasDoc struct {
	Frames map[string]struct {
		Frame atlasRect `json:"frame"`
	} `json:"frames"`
	Meta struct {
		Image string `json:"image"`
	} `json:"meta"`
}

// ParseAtlas decodes an atlas document, returning the image file it refers to
// and the frame rectangles keyed by frame name.
func ParseAtlas(data []byte) (string, map[string]image.Rectangle, error) {
	var doc atlasDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("assets: atlas: %w", err)
	}
	if doc.Meta.Image == "" {
		return "", nil, fmt.Errorf("assets: atlas: missing meta.image")
	}
	frames := make(map[string]image.Rectangle, len(doc.Frames))
	for name, f := range doc.Frames {
		r := f.Frame
		frames[name] = image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
	}
	return doc.Meta.Image, frames, nil
}

func LoadAtlas(path string) (*Atlas, error) {
	data, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	imgPath, frames, err := ParseAtlas(data)
	if err != nil {
		return nil, err
	}
	img, err := LoadImage(imgPath)
	if err != nil {
		return nil, err
	}
	return &Atlas{Image: img, Frames: frames}, nil
}

// Frame returns the sub image for name.
func (a *Atlas) Frame(name string) (*ebiten.Image, bool) {
	if a == nil || a.Image == nil {
		return nil, false
	}
	r, ok := a.Frames[name]
	if !ok {
		return nil, false
	}
	return a.Image.SubImage(r).(*ebiten.Image), true
}

// Names lists frame names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.Frames))
	for n := range a.Frames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
