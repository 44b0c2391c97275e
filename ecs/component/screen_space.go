package component

import "image/color"

// ScreenSpace marks entities drawn in screen space, unaffected by the camera.
type ScreenSpace struct{}

var ScreenSpaceComponent = NewComponent[ScreenSpace]()

// Label is a padded text box drawn by the HUD system at a fixed screen
// position.
type Label struct {
	X          float64
	Y          float64
	Text       string
	FontSize   float64
	PaddingX   int
	PaddingY   int
	Background color.Color
	Color      color.Color
}

var LabelComponent = NewComponent[Label]()
