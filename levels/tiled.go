package levels

import (
	"encoding/json"
	"fmt"
	"image"
)

// Tiled stores horizontal, vertical and diagonal flip flags in the top bits
// of every gid.
const gidMask = 0x1FFFFFFF

const (
	LayerTypeTiles   = "tilelayer"
	LayerTypeObjects = "objectgroup"
)

// Map is a Tiled JSON map. Width and Height are in tiles.
type Map struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	TileWidth  int        `json:"tilewidth"`
	TileHeight int        `json:"tileheight"`
	Layers     []Layer    `json:"layers"`
	Tilesets   []*Tileset `json:"tilesets"`
	Properties Properties `json:"properties,omitempty"`
}

type Layer struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Width      int        `json:"width,omitempty"`
	Height     int        `json:"height,omitempty"`
	Data       []uint32   `json:"data,omitempty"`
	Objects    []Object   `json:"objects,omitempty"`
	Visible    bool       `json:"visible"`
	Opacity    float64    `json:"opacity"`
	Properties Properties `json:"properties,omitempty"`
}

// Object is an entry of an object group. Tile objects (GID != 0) are anchored
// at their bottom-left corner; rectangles and points at their top-left.
type Object struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type,omitempty"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	GID        uint32     `json:"gid,omitempty"`
	Point      bool       `json:"point,omitempty"`
	Properties Properties `json:"properties,omitempty"`
}

type Tileset struct {
	FirstGID    uint32    `json:"firstgid"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	ImageWidth  int       `json:"imagewidth"`
	ImageHeight int       `json:"imageheight"`
	TileWidth   int       `json:"tilewidth"`
	TileHeight  int       `json:"tileheight"`
	TileCount   int       `json:"tilecount"`
	Columns     int       `json:"columns"`
	Margin      int       `json:"margin"`
	Spacing     int       `json:"spacing"`
	Tiles       []TileDef `json:"tiles,omitempty"`

	props map[int]Properties
}

// TileDef carries per-tile properties such as collides and isLethal.
type TileDef struct {
	ID         int        `json:"id"`
	Properties Properties `json:"properties,omitempty"`
}

// Tile is one placed cell of a tile layer.
type Tile struct {
	Col        int
	Row        int
	GID        uint32
	Index      int
	Tileset    *Tileset
	Properties Properties
}

// Parse decodes a Tiled JSON document and indexes tileset properties.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal map: %w", err)
	}
	if len(m.Tilesets) == 0 {
		return nil, ErrNoTileset
	}
	for _, ts := range m.Tilesets {
		ts.index()
	}
	for i := range m.Layers {
		l := &m.Layers[i]
		if l.Type != LayerTypeTiles {
			continue
		}
		if l.Width == 0 {
			l.Width = m.Width
		}
		if l.Height == 0 {
			l.Height = m.Height
		}
		if len(l.Data) != l.Width*l.Height {
			return nil, fmt.Errorf("layer %q: %d cells, want %d", l.Name, len(l.Data), l.Width*l.Height)
		}
	}
	return &m, nil
}

func (m *Map) WidthInPixels() float64 {
	return float64(m.Width * m.TileWidth)
}

func (m *Map) HeightInPixels() float64 {
	return float64(m.Height * m.TileHeight)
}

func (m *Map) layer(name, typ string) (*Layer, bool) {
	for i := range m.Layers {
		if m.Layers[i].Name == name && m.Layers[i].Type == typ {
			return &m.Layers[i], true
		}
	}
	return nil, false
}

func (m *Map) TileLayer(name string) (*Layer, bool) {
	return m.layer(name, LayerTypeTiles)
}

func (m *Map) ObjectLayer(name string) (*Layer, bool) {
	return m.layer(name, LayerTypeObjects)
}

// FindObject returns the first object called name inside the given object
// group.
func (m *Map) FindObject(layer, name string) (Object, bool) {
	l, ok := m.ObjectLayer(layer)
	if !ok {
		return Object{}, false
	}
	for _, o := range l.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return Object{}, false
}

// Objects returns every object of the named group, or nil.
func (m *Map) Objects(layer string) []Object {
	l, ok := m.ObjectLayer(layer)
	if !ok {
		return nil
	}
	return l.Objects
}

// TilesetFor resolves the tileset that owns gid after stripping flip flags.
func (m *Map) TilesetFor(gid uint32) (*Tileset, bool) {
	gid &= gidMask
	if gid == 0 {
		return nil, false
	}
	var best *Tileset
	for _, ts := range m.Tilesets {
		if ts.FirstGID <= gid && (best == nil || ts.FirstGID > best.FirstGID) {
			best = ts
		}
	}
	return best, best != nil
}

// Tiles lists every non-empty cell of the named tile layer in row-major order.
func (m *Map) Tiles(layer string) []Tile {
	l, ok := m.TileLayer(layer)
	if !ok {
		return nil
	}
	var out []Tile
	for i, raw := range l.Data {
		gid := raw & gidMask
		if gid == 0 {
			continue
		}
		ts, ok := m.TilesetFor(gid)
		if !ok {
			continue
		}
		idx := int(gid - ts.FirstGID)
		out = append(out, Tile{
			Col:        i % l.Width,
			Row:        i / l.Width,
			GID:        gid,
			Index:      idx,
			Tileset:    ts,
			Properties: ts.props[idx],
		})
	}
	return out
}

func (ts *Tileset) index() {
	ts.props = make(map[int]Properties, len(ts.Tiles))
	for _, td := range ts.Tiles {
		ts.props[td.ID] = td.Properties
	}
	if ts.Columns <= 0 && ts.TileWidth > 0 {
		ts.Columns = (ts.ImageWidth - 2*ts.Margin + ts.Spacing) / (ts.TileWidth + ts.Spacing)
	}
}

// SourceRect is the pixel rectangle of local tile index idx in the tileset
// image.
func (ts *Tileset) SourceRect(idx int) image.Rectangle {
	cols := ts.Columns
	if cols <= 0 {
		cols = 1
	}
	x := ts.Margin + (idx%cols)*(ts.TileWidth+ts.Spacing)
	y := ts.Margin + (idx/cols)*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight)
}
