package levels

import (
	"errors"
	"image"
	"testing"
)

func TestLoadEmbeddedLevel(t *testing.T) {
	m, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	for _, name := range []string{"Ground", "Lava", "Background", "Foreground"} {
		if _, ok := m.TileLayer(name); !ok {
			t.Fatalf("missing tile layer %q", name)
		}
	}
	for _, name := range []string{"Spawn", "Crates", "Platform Locations", "Sensors"} {
		if _, ok := m.ObjectLayer(name); !ok {
			t.Fatalf("missing object layer %q", name)
		}
	}
	if _, ok := m.FindObject("Spawn", "Spawn Point"); !ok {
		t.Fatalf("spawn point not found")
	}
	for _, name := range []string{"Celebration", "Exit"} {
		if _, ok := m.FindObject("Sensors", name); !ok {
			t.Fatalf("sensor %q not found", name)
		}
	}

	lethal := 0
	for _, tile := range m.Tiles("Lava") {
		if tile.Properties.Bool("isLethal") {
			lethal++
		}
	}
	if lethal == 0 {
		t.Fatalf("expected lethal lava tiles")
	}
	for _, tile := range m.Tiles("Ground") {
		if tile.Properties.Bool("isLethal") {
			t.Fatalf("ground tile at %d,%d should not be lethal", tile.Col, tile.Row)
		}
	}
}

const tinyMap = `{
	"width": 2, "height": 2, "tilewidth": 16, "tileheight": 16,
	"layers": [
		{"name": "Ground", "type": "tilelayer", "data": [0, 1, 2147483650, 0]},
		{"name": "Spawn", "type": "objectgroup", "objects": [{"id": 1, "name": "Spawn Point", "x": 8, "y": 4, "point": true}]}
	],
	"tilesets": [
		{"firstgid": 1, "name": "t", "image": "t.png", "imagewidth": 32, "imageheight": 16,
		 "tilewidth": 16, "tileheight": 16, "tilecount": 2,
		 "tiles": [{"id": 1, "properties": [{"name": "isLethal", "type": "bool", "value": true}, {"name": "damage", "type": "float", "value": 2.5}]}]}
	]
}`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(tinyMap))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if m.WidthInPixels() != 32 || m.HeightInPixels() != 32 {
		t.Fatalf("unexpected pixel size %vx%v", m.WidthInPixels(), m.HeightInPixels())
	}

	tiles := m.Tiles("Ground")
	if len(tiles) != 2 {
		t.Fatalf("expected 2 tiles, got %d", len(tiles))
	}

	tests := []struct {
		name      string
		tile      Tile
		col, row  int
		index     int
		lethal    bool
		sourceMin image.Point
	}{
		{"plain", tiles[0], 1, 0, 0, false, image.Pt(0, 0)},
		{"flipped_lethal", tiles[1], 0, 1, 1, true, image.Pt(16, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.tile.Col != tc.col || tc.tile.Row != tc.row {
				t.Fatalf("expected cell %d,%d got %d,%d", tc.col, tc.row, tc.tile.Col, tc.tile.Row)
			}
			if tc.tile.Index != tc.index {
				t.Fatalf("expected index %d got %d", tc.index, tc.tile.Index)
			}
			if tc.tile.Properties.Bool("isLethal") != tc.lethal {
				t.Fatalf("expected lethal=%v", tc.lethal)
			}
			if got := tc.tile.Tileset.SourceRect(tc.tile.Index).Min; got != tc.sourceMin {
				t.Fatalf("expected source %v got %v", tc.sourceMin, got)
			}
		})
	}

	if got := tiles[1].Properties.Float("damage", 0); got != 2.5 {
		t.Fatalf("expected damage 2.5, got %v", got)
	}
	if got := tiles[0].Properties.Float("damage", 1); got != 1 {
		t.Fatalf("expected default 1, got %v", got)
	}

	spawn, ok := m.FindObject("Spawn", "Spawn Point")
	if !ok || spawn.X != 8 || spawn.Y != 4 || !spawn.Point {
		t.Fatalf("unexpected spawn %+v ok=%v", spawn, ok)
	}
	if _, ok := m.FindObject("Ground", "Spawn Point"); ok {
		t.Fatalf("tile layers must not be searched for objects")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"no_tileset", `{"width":1,"height":1,"layers":[]}`, ErrNoTileset},
		{"short_layer", `{"width":2,"height":2,"layers":[{"name":"G","type":"tilelayer","data":[1]}],"tilesets":[{"firstgid":1,"tilewidth":16}]}`, nil},
		{"bad_json", `{"width":`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPropertiesEqual(t *testing.T) {
	a := Properties{"collides": true, "isLethal": true}
	b := Properties{"collides": true, "isLethal": true}
	c := Properties{"collides": true}
	d := Properties{"collides": true, "isLethal": false}
	if !a.Equal(b) {
		t.Fatalf("identical properties should be equal")
	}
	if a.Equal(c) || a.Equal(d) {
		t.Fatalf("different properties should not be equal")
	}
	if !Properties(nil).Equal(Properties{}) {
		t.Fatalf("nil and empty should be equal")
	}
}

func TestCleanName(t *testing.T) {
	cases := map[string]string{
		"":                  DefaultLevel,
		"level":             "level.json",
		"level.json":        "level.json",
		"levels/level":      "level.json",
		"levels/level.json": "level.json",
		"other.JSON":        "other.JSON",
	}
	for in, want := range cases {
		if got := CleanName(in); got != want {
			t.Errorf("CleanName(%q) = %q, want %q", in, got, want)
		}
	}
}
