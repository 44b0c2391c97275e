package component

import "github.com/milk9111/atthegym/levels"

// Tile marks a static collider built from tilemap cells. Properties are the
// tileset properties shared by every merged cell.
type Tile struct {
	Layer      string
	Col        int
	Row        int
	Cols       int
	Rows       int
	Properties levels.Properties
}

var TileComponent = NewComponent[Tile]()
