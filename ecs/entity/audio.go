package entity

import (
	"fmt"

	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
)

// NewSoundQueue adds the entity systems queue audio requests on.
func NewSoundQueue(w *ecs.World) (ecs.Entity, error) {
	if e, ok := ecs.First(w, component.SoundQueueComponent.Kind()); ok {
		return e, nil
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.SoundQueueComponent.Kind(), &component.SoundQueue{}); err != nil {
		return 0, fmt.Errorf("sound queue: %w", err)
	}
	return e, nil
}
