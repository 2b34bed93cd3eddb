package system

import (
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
)

// AudioSystem silences sources whose object went inactive and clears the
// playing flag of players that ran out.
type AudioSystem struct{}

func NewAudioSystem() *AudioSystem {
	return &AudioSystem{}
}

func (a *AudioSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AudioSourceComponent.Kind(), func(e ecs.Entity, src *component.AudioSource) {
		if !src.Playing {
			return
		}
		if !activeSelf(w, e) {
			src.Playing = false
			if src.Player != nil {
				src.Player.Pause()
			}
			return
		}
		if src.Player != nil && !src.Player.IsPlaying() {
			src.Playing = false
		}
	})
}
