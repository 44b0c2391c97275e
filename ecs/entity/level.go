package entity

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/atthegym/assets"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
	"github.com/milk9111/atthegym/ecs/render"
	"github.com/milk9111/atthegym/levels"
)

const tileFriction = 0.9

// NewLevelBounds adds the entity the physics and camera systems clamp to.
func NewLevelBounds(w *ecs.World, width, height float64) (ecs.Entity, error) {
	if existing, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		b, _ := ecs.Get(w, existing, component.LevelBoundsComponent.Kind())
		b.Width, b.Height = width, height
		return existing, nil
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Width: width, Height: height}); err != nil {
		return 0, fmt.Errorf("level bounds: %w", err)
	}
	return e, nil
}

// LoadTileLayer creates one sprite entity per placed tile of the named layer,
// drawn at the given depth. It reports the number of tiles created.
func LoadTileLayer(w *ecs.World, m *levels.Map, textures *render.Textures, layer string, depth int) (int, error) {
	if _, ok := m.TileLayer(layer); !ok {
		return 0, fmt.Errorf("level: no tile layer %q", layer)
	}

	count := 0
	for _, tile := range m.Tiles(layer) {
		img, err := tilesetImage(textures, tile.Tileset)
		if err != nil {
			return count, err
		}
		src := tile.Tileset.SourceRect(tile.Index)
		if !src.In(img.Bounds()) {
			continue
		}

		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
			X:      float64(tile.Col * m.TileWidth),
			Y:      float64(tile.Row * m.TileHeight),
			ScaleX: float64(m.TileWidth) / float64(src.Dx()),
			ScaleY: float64(m.TileHeight) / float64(src.Dy()),
		}); err != nil {
			return count, err
		}
		if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
			Image:     img,
			Source:    src,
			UseSource: true,
		}); err != nil {
			return count, err
		}
		if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: depth}); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func tilesetImage(textures *render.Textures, ts *levels.Tileset) (*ebiten.Image, error) {
	if img, ok := textures.Image(ts.Image); ok {
		return img, nil
	}
	img, err := assets.LoadImage(ts.Image)
	if err != nil {
		return nil, fmt.Errorf("level: tileset %q: %w", ts.Name, err)
	}
	textures.RegisterImage(ts.Image, img)
	return img, nil
}

// AddTileColliders turns tiles whose property is true into static box
// colliders. Adjacent tiles with identical properties are merged into
// rectangles, so a lava pool and the floor next to it stay separate bodies.
func AddTileColliders(w *ecs.World, m *levels.Map, layer, property string) (int, error) {
	l, ok := m.TileLayer(layer)
	if !ok {
		return 0, fmt.Errorf("level: no tile layer %q", layer)
	}

	width, height := l.Width, l.Height
	cells := make([]*levels.Tile, width*height)
	for _, tile := range m.Tiles(layer) {
		if !tile.Properties.Bool(property) {
			continue
		}
		t := tile
		cells[tile.Row*width+tile.Col] = &t
	}

	rects := mergeCells(cells, width, height)
	tw, th := float64(m.TileWidth), float64(m.TileHeight)
	for _, r := range rects {
		props := cells[r.Min.Y*width+r.Min.X].Properties
		e := ecs.CreateEntity(w)
		cols, rows := r.Dx(), r.Dy()
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
			X:      (float64(r.Min.X) + float64(cols)/2) * tw,
			Y:      (float64(r.Min.Y) + float64(rows)/2) * th,
			ScaleX: 1,
			ScaleY: 1,
		}); err != nil {
			return 0, err
		}
		if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Width:    float64(cols) * tw,
			Height:   float64(rows) * th,
			Friction: tileFriction,
			Static:   true,
		}); err != nil {
			return 0, err
		}
		if err := ecs.Add(w, e, component.TileComponent.Kind(), &component.Tile{
			Layer:      layer,
			Col:        r.Min.X,
			Row:        r.Min.Y,
			Cols:       cols,
			Rows:       rows,
			Properties: props,
		}); err != nil {
			return 0, err
		}
	}
	return len(rects), nil
}

// mergeCells greedily covers the non-nil cells with rectangles, growing each
// one right then down while the properties match.
func mergeCells(cells []*levels.Tile, width, height int) []image.Rectangle {
	visited := make([]bool, len(cells))
	index := func(x, y int) int { return y*width + x }
	same := func(x, y int, props levels.Properties) bool {
		i := index(x, y)
		return !visited[i] && cells[i] != nil && cells[i].Properties.Equal(props)
	}

	var out []image.Rectangle
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := index(x, y)
			if visited[idx] || cells[idx] == nil {
				continue
			}
			props := cells[idx].Properties

			maxW := 0
			for x2 := x; x2 < width && same(x2, y, props); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !same(x2, y2, props) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}
			out = append(out, image.Rect(x, y, x+maxW, y+maxH))
		}
	}
	return out
}
