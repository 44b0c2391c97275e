package assets

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Sound describes one keyed sound effect or track.
type Sound struct {
	Key    string
	File   string
	Volume float64
	Loop   bool
}

// SoundBank owns decoded players for the life of the process so that
// restarting a level does not decode audio again.
type SoundBank struct {
	players map[string]*audio.Player
	order   []string
}

func NewSoundBank(sounds []Sound) (*SoundBank, error) {
	bank := &SoundBank{players: make(map[string]*audio.Player, len(sounds))}
	for _, s := range sounds {
		if _, dup := bank.players[s.Key]; dup {
			return nil, fmt.Errorf("assets: duplicate sound key %q", s.Key)
		}
		p, err := LoadAudioPlayer(s.File, s.Loop)
		if err != nil {
			return nil, err
		}
		vol := s.Volume
		if vol <= 0 {
			vol = 1
		}
		p.SetVolume(vol)
		bank.players[s.Key] = p
		bank.order = append(bank.order, s.Key)
	}
	return bank, nil
}

// Play restarts key from the beginning.
func (b *SoundBank) Play(key string) error {
	p, ok := b.players[key]
	if !ok {
		return fmt.Errorf("assets: unknown sound %q", key)
	}
	if err := p.Rewind(); err != nil {
		return fmt.Errorf("assets: rewind %q: %w", key, err)
	}
	p.Play()
	return nil
}

// StopAll pauses every player in the bank.
func (b *SoundBank) StopAll() {
	for _, key := range b.order {
		b.players[key].Pause()
	}
}

func (b *SoundBank) IsPlaying(key string) bool {
	p, ok := b.players[key]
	return ok && p.IsPlaying()
}

func (b *SoundBank) Close() error {
	var first error
	for _, key := range b.order {
		if err := b.players[key].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
