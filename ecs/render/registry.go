package render

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/atthegym/assets"
)

// Textures maps texture keys to images and atlases. Keys are shared between
// the two, so an image key never doubles as an atlas key.
type Textures struct {
	images  map[string]*ebiten.Image
	atlases map[string]*assets.Atlas
}

func NewTextures() *Textures {
	return &Textures{
		images:  make(map[string]*ebiten.Image),
		atlases: make(map[string]*assets.Atlas),
	}
}

// RegisterImage stores an image by key.
func (t *Textures) RegisterImage(key string, img *ebiten.Image) {
	if t == nil || key == "" || img == nil {
		return
	}
	t.images[key] = img
}

func (t *Textures) RegisterAtlas(key string, atlas *assets.Atlas) {
	if t == nil || key == "" || atlas == nil {
		return
	}
	t.atlases[key] = atlas
}

// Image returns the image registered under key.
func (t *Textures) Image(key string) (*ebiten.Image, bool) {
	if t == nil {
		return nil, false
	}
	img, ok := t.images[key]
	return img, ok
}

// Resolve returns the drawable for key. With a frame name the key must be an
// atlas; without one it must be a plain image.
func (t *Textures) Resolve(key, frame string) (*ebiten.Image, error) {
	if t == nil {
		return nil, fmt.Errorf("render: no textures loaded")
	}
	if frame != "" {
		atlas, ok := t.atlases[key]
		if !ok {
			return nil, fmt.Errorf("render: unknown atlas %q", key)
		}
		img, ok := atlas.Frame(frame)
		if !ok {
			return nil, fmt.Errorf("render: atlas %q has no frame %q", key, frame)
		}
		return img, nil
	}
	img, ok := t.images[key]
	if !ok {
		return nil, fmt.Errorf("render: unknown texture %q", key)
	}
	return img, nil
}

// Size reports the pixel size Resolve would return.
func (t *Textures) Size(key, frame string) (image.Point, error) {
	img, err := t.Resolve(key, frame)
	if err != nil {
		return image.Point{}, err
	}
	return img.Bounds().Size(), nil
}
