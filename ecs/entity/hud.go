package entity

import (
	"fmt"

	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
)

// NewLabel adds a screen-space text label.
func NewLabel(w *ecs.World, label component.Label) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ScreenSpaceComponent.Kind(), &component.ScreenSpace{}); err != nil {
		return 0, fmt.Errorf("label: add screen space: %w", err)
	}
	if err := ecs.Add(w, e, component.LabelComponent.Kind(), &label); err != nil {
		return 0, fmt.Errorf("label: add label: %w", err)
	}
	return e, nil
}

// NewCountdown adds a countdown of the given length in ticks.
func NewCountdown(w *ecs.World, frames int) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CountdownComponent.Kind(), &component.Countdown{TotalFrames: frames}); err != nil {
		return 0, fmt.Errorf("countdown: %w", err)
	}
	return e, nil
}
