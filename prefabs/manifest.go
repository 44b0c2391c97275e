package prefabs

import "fmt"

// AssetManifest maps texture and sound keys used by the scene to embedded
// files.
type AssetManifest struct {
	Textures []TextureSpec `yaml:"textures"`
	Atlases  []AtlasSpec   `yaml:"atlases"`
	Sounds   []SoundSpec   `yaml:"sounds"`
}

type TextureSpec struct {
	Key  string `yaml:"key"`
	File string `yaml:"file"`
}

type AtlasSpec struct {
	Key  string `yaml:"key"`
	File string `yaml:"file"`
}

type SoundSpec struct {
	Key    string  `yaml:"key"`
	File   string  `yaml:"file"`
	Volume float64 `yaml:"volume"`
	Loop   bool    `yaml:"loop"`
}

func LoadAssetManifest() (AssetManifest, error) {
	m, err := LoadSpec[AssetManifest]("assets.yaml")
	if err != nil {
		return AssetManifest{}, err
	}
	if err := m.validate(); err != nil {
		return AssetManifest{}, err
	}
	return m, nil
}

func (m AssetManifest) validate() error {
	seen := make(map[string]string)
	check := func(kind, key, file string) error {
		if key == "" || file == "" {
			return fmt.Errorf("prefabs: assets.yaml: %s entry needs key and file", kind)
		}
		if prev, ok := seen[kind+":"+key]; ok {
			return fmt.Errorf("prefabs: assets.yaml: %s key %q already maps to %s", kind, key, prev)
		}
		seen[kind+":"+key] = file
		return nil
	}
	for _, t := range m.Textures {
		if err := check("texture", t.Key, t.File); err != nil {
			return err
		}
	}
	for _, a := range m.Atlases {
		if err := check("texture", a.Key, a.File); err != nil {
			return err
		}
	}
	for _, s := range m.Sounds {
		if err := check("sound", s.Key, s.File); err != nil {
			return err
		}
	}
	return nil
}
