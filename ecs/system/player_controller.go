package system

import (
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
)

const movingEpsilon = 5.0

// PlayerControllerSystem turns Input into body velocity and picks the
// matching animation. Frozen players are skipped.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	queue := soundQueue(w)

	ecs.ForEach4(w,
		component.PlayerComponent.Kind(),
		component.InputComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
		component.PlayerCollisionComponent.Kind(),
		func(e ecs.Entity, player *component.Player, input *component.Input, bodyComp *component.PhysicsBody, pc *component.PlayerCollision) {
			if bodyComp.Body == nil || ecs.Has(w, e, component.FrozenComponent.Kind()) {
				return
			}

			vel := bodyComp.Body.Velocity()
			vel.X = input.MoveX * player.MoveSpeed

			grounded := pc.Grounded || pc.GroundGrace > 0
			if input.JumpPressed && grounded {
				vel.Y = -player.JumpSpeed
				pc.GroundGrace = 0
				pc.Grounded = false
				grounded = false
				if queue != nil && player.JumpSound != "" {
					queue.Play(player.JumpSound)
				}
			}

			bodyComp.Body.SetVelocityVector(vel)
			bodyComp.Body.SetAngle(0)
			bodyComp.Body.SetAngularVelocity(0)

			if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
				if input.MoveX < 0 {
					sprite.FacingLeft = true
				} else if input.MoveX > 0 {
					sprite.FacingLeft = false
				}
			}
			if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
				anim.Play(playerAnimation(grounded, vel.X))
			}
		})
}

func playerAnimation(grounded bool, vx float64) string {
	switch {
	case !grounded:
		return "jump"
	case vx > movingEpsilon || vx < -movingEpsilon:
		return "run"
	default:
		return "idle"
	}
}

func soundQueue(w *ecs.World) *component.SoundQueue {
	e, ok := ecs.First(w, component.SoundQueueComponent.Kind())
	if !ok {
		return nil
	}
	q, _ := ecs.Get(w, e, component.SoundQueueComponent.Kind())
	return q
}
