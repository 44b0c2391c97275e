package system

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
)

// SoundPlayer is the audio backend drained by AudioSystem.
type SoundPlayer interface {
	Play(key string) error
	StopAll()
}

type AudioSystem struct {
	player SoundPlayer
	logger *log.Logger
}

func NewAudioSystem(player SoundPlayer, logger *log.Logger) *AudioSystem {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &AudioSystem{player: player, logger: logger}
}

func (a *AudioSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.SoundQueueComponent.Kind(), func(_ ecs.Entity, q *component.SoundQueue) {
		cmds := q.Commands
		q.Commands = nil
		if a.player == nil {
			return
		}
		for _, cmd := range cmds {
			if cmd.StopAll {
				a.player.StopAll()
				continue
			}
			if err := a.player.Play(cmd.Key); err != nil {
				a.logger.Warn("play sound", "key", cmd.Key, "error", err)
			}
		}
	})
}
