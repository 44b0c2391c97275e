package system

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/atthegym/common"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
)

type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.AnimationComponent.Kind(), component.SpriteComponent.Kind(), func(e ecs.Entity, anim *component.Animation, sprite *component.Sprite) {
		if anim.Sheet == nil || !anim.Playing || ecs.Has(w, e, component.FrozenComponent.Kind()) {
			return
		}

		def, ok := anim.Defs[anim.Current]
		if !ok || def.FrameCount <= 0 {
			return
		}

		ticksPerFrame := 1
		if def.FPS > 0 {
			ticksPerFrame = int(common.TPS / def.FPS)
		}
		if ticksPerFrame < 1 {
			ticksPerFrame = 1
		}

		anim.FrameTimer++
		if anim.FrameTimer >= ticksPerFrame {
			anim.FrameTimer = 0
			anim.Frame++
			if anim.Frame >= def.FrameCount {
				if def.Loop {
					anim.Frame = 0
				} else {
					anim.Frame = def.FrameCount - 1
					anim.Playing = false
				}
			}
		}

		sprite.Image = anim.Sheet.SubImage(frameRect(def, anim.Frame)).(*ebiten.Image)
	})
}

func frameRect(def component.AnimationDef, frame int) image.Rectangle {
	x := (def.ColStart + frame) * def.FrameW
	y := def.Row * def.FrameH
	return image.Rect(x, y, x+def.FrameW, y+def.FrameH)
}
