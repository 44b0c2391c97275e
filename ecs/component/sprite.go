package component

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

type Sprite struct {
	Image      *ebiten.Image
	Source     image.Rectangle
	UseSource  bool
	OriginX    float64
	OriginY    float64
	FacingLeft bool
	// RepeatX draws the image this many times side by side; zero means once.
	RepeatX int
	Hidden  bool
}

var SpriteComponent = NewComponent[Sprite]()
