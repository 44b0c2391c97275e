package system

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/atthegym/common"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
)

type RenderSystem struct {
	// culling skips sprites whose bounds fall fully outside the view.
	culling bool
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{culling: true}
}

func (r *RenderSystem) Update(w *ecs.World) {}

type drawItem struct {
	e     ecs.Entity
	layer int
	t     *component.Transform
	s     *component.Sprite
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	camX, camY, zoom := cameraView(w)

	var items []drawItem
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.SpriteComponent.Kind(), func(e ecs.Entity, t *component.Transform, s *component.Sprite) {
		if s.Image == nil || s.Hidden || ecs.Has(w, e, component.ScreenSpaceComponent.Kind()) {
			return
		}
		layer := 0
		if l, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			layer = l.Index
		}
		items = append(items, drawItem{e: e, layer: layer, t: t, s: s})
	})
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].layer != items[j].layer {
			return items[i].layer < items[j].layer
		}
		return uint64(items[i].e) < uint64(items[j].e)
	})

	viewW := common.BaseWidth / zoom
	viewH := common.BaseHeight / zoom
	for _, it := range items {
		img := it.s.Image
		if it.s.UseSource {
			if sub, ok := img.SubImage(it.s.Source).(*ebiten.Image); ok {
				img = sub
			}
		}
		iw := float64(img.Bounds().Dx())
		ih := float64(img.Bounds().Dy())

		sx, sy := it.t.ScaleX, it.t.ScaleY
		if sx == 0 {
			sx = 1
		}
		if sy == 0 {
			sy = 1
		}
		repeat := it.s.RepeatX
		if repeat < 1 {
			repeat = 1
		}

		if r.culling && it.t.Rotation == 0 {
			reach := (iw*float64(repeat) + ih) * max(sx, sy)
			if it.t.X+reach < camX || it.t.X-reach > camX+viewW || it.t.Y+reach < camY || it.t.Y-reach > camY+viewH {
				continue
			}
		}

		for i := 0; i < repeat; i++ {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(i)*iw-it.s.OriginX, -it.s.OriginY)
			fx := sx
			if it.s.FacingLeft {
				fx = -sx
			}
			op.GeoM.Scale(fx, sy)
			op.GeoM.Rotate(it.t.Rotation)
			op.GeoM.Scale(zoom, zoom)
			op.GeoM.Translate((it.t.X-camX)*zoom, (it.t.Y-camY)*zoom)
			screen.DrawImage(img, op)
		}
	}
}

func cameraView(w *ecs.World) (float64, float64, float64) {
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return 0, 0, 1
	}
	cam, _ := ecs.Get(w, camEntity, component.CameraComponent.Kind())
	t, _ := ecs.Get(w, camEntity, component.TransformComponent.Kind())
	return ViewTopLeft(t, cam)
}

// FadeOverlaySystem covers the whole screen with the camera fade colour. It
// is registered last so the fade also covers the HUD.
type FadeOverlaySystem struct{}

func NewFadeOverlaySystem() *FadeOverlaySystem {
	return &FadeOverlaySystem{}
}

func (f *FadeOverlaySystem) Update(w *ecs.World) {}

func (f *FadeOverlaySystem) Draw(w *ecs.World, screen *ebiten.Image) {
	ecs.ForEach(w, component.FadeComponent.Kind(), func(_ ecs.Entity, fade *component.Fade) {
		alpha := fade.Progress()
		if alpha <= 0 {
			return
		}
		c := fade.Color
		if c == nil {
			c = color.Black
		}
		r, g, b, _ := c.RGBA()
		overlay := color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(alpha * 255)}
		bounds := screen.Bounds()
		vector.DrawFilledRect(screen, 0, 0, float32(bounds.Dx()), float32(bounds.Dy()), overlay, false)
	})
}
