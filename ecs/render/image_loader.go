package render

import (
	"fmt"

	"github.com/milk9111/atthegym/assets"
	"github.com/milk9111/atthegym/prefabs"
)

// LoadTextures decodes every texture and atlas named in the manifest.
func LoadTextures(m prefabs.AssetManifest) (*Textures, error) {
	t := NewTextures()
	for _, spec := range m.Textures {
		img, err := assets.LoadImage(spec.File)
		if err != nil {
			return nil, fmt.Errorf("render: texture %q: %w", spec.Key, err)
		}
		t.RegisterImage(spec.Key, img)
	}
	for _, spec := range m.Atlases {
		atlas, err := assets.LoadAtlas(spec.File)
		if err != nil {
			return nil, fmt.Errorf("render: atlas %q: %w", spec.Key, err)
		}
		t.RegisterAtlas(spec.Key, atlas)
	}
	return t, nil
}
