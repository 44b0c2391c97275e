package system

import (
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
)

// TimerSystem advances every unpaused Countdown by one tick.
type TimerSystem struct{}

func NewTimerSystem() *TimerSystem {
	return &TimerSystem{}
}

func (t *TimerSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.CountdownComponent.Kind(), func(_ ecs.Entity, c *component.Countdown) {
		if c.Paused || c.ElapsedFrames >= c.TotalFrames {
			return
		}
		c.ElapsedFrames++
	})
}
