package levels

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// DefaultLevel is the map the game loads when no --level flag is given.
const DefaultLevel = "level.json"

var ErrNoTileset = errors.New("levels: map has no tileset")

// Load reads a level by basename, preferring a copy under ./levels on disk
// over the embedded one so maps can be edited without a rebuild.
func Load(name string) (*Map, error) {
	clean := CleanName(name)
	data, err := os.ReadFile(filepath.Join("levels", clean))
	if err != nil {
		data, err = LevelsFS.ReadFile(clean)
		if err != nil {
			return nil, fmt.Errorf("levels: read %s: %w", clean, err)
		}
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", clean, err)
	}
	return m, nil
}

// CleanName maps a level name as typed on the command line ("level",
// "levels/level.json") to the basename used for loading and for attempt
// history.
func CleanName(name string) string {
	if name == "" {
		return DefaultLevel
	}
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if !strings.HasSuffix(strings.ToLower(s), ".json") {
		s += ".json"
	}
	return s
}
