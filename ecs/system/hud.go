package system

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// HUDSystem renders Label components as ebitenui text boxes on top of the
// world.
type HUDSystem struct {
	labels map[ecs.Entity]*hudLabel
	faces  map[float64]ebtext.Face
}

type hudLabel struct {
	ui   *ebitenui.UI
	text *widget.Text
}

func NewHUDSystem() *HUDSystem {
	return &HUDSystem{
		labels: make(map[ecs.Entity]*hudLabel),
		faces:  make(map[float64]ebtext.Face),
	}
}

func (h *HUDSystem) Update(w *ecs.World) {
	for e := range h.labels {
		if !ecs.Has(w, e, component.LabelComponent.Kind()) {
			delete(h.labels, e)
		}
	}
	ecs.ForEach(w, component.LabelComponent.Kind(), func(e ecs.Entity, l *component.Label) {
		hl := h.labels[e]
		if hl == nil {
			hl = h.build(l)
			h.labels[e] = hl
		}
		if hl.text.Label != l.Text {
			hl.text.Label = l.Text
		}
		hl.ui.Update()
	})
}

func (h *HUDSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	ecs.ForEach(w, component.LabelComponent.Kind(), func(e ecs.Entity, _ *component.Label) {
		if hl := h.labels[e]; hl != nil {
			hl.ui.Draw(screen)
		}
	})
}

func (h *HUDSystem) build(l *component.Label) *hudLabel {
	face := h.face(l.FontSize)
	fg := l.Color
	if fg == nil {
		fg = color.Black
	}
	bg := l.Background
	if bg == nil {
		bg = color.White
	}

	text := widget.NewText(widget.TextOpts.Text(l.Text, &face, fg))

	box := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(bg)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: l.PaddingY, Bottom: l.PaddingY, Left: l.PaddingX, Right: l.PaddingX}),
		)),
	)
	box.AddChild(text)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: int(l.Y), Left: int(l.X)}),
		)),
	)
	root.AddChild(box)

	return &hudLabel{ui: &ebitenui.UI{Container: root}, text: text}
}

func (h *HUDSystem) face(size float64) ebtext.Face {
	if f, ok := h.faces[size]; ok {
		return f
	}
	var f ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	if size > 0 {
		if tt, err := opentype.Parse(goregular.TTF); err == nil {
			if xf, err := opentype.NewFace(tt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull}); err == nil {
				f = ebtext.NewGoXFace(xf)
			}
		}
	}
	h.faces[size] = f
	return f
}
