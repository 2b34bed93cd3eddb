package binding

import (
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
	"github.com/milk9111/sequencer/timeline"
)

// PCMClip is a sound clip that carries decoded 16-bit stereo samples.
type PCMClip interface {
	timeline.SoundClip
	PCM() []byte
}

// speaker drives an AudioSource component on behalf of sound tracks.
type speaker struct {
	obj *Object
	ctx *audio.Context
}

func (s *speaker) source() *component.AudioSource {
	if !s.obj.Alive() {
		return nil
	}
	src, _ := ecs.Get(s.obj.World, s.obj.Entity, component.AudioSourceComponent.Kind())
	return src
}

// Play starts clip at offset seconds, replacing the player when the clip
// changed.
func (s *speaker) Play(clip timeline.SoundClip, offset float64) {
	src := s.source()
	if src == nil || clip == nil {
		return
	}
	if src.Clip != clip.Name() && src.Player != nil {
		src.Player.Pause()
		src.Player = nil
	}
	src.Clip = clip.Name()
	src.Position = offset
	src.Playing = true

	if src.Player == nil && s.ctx != nil {
		if pcm, ok := clip.(PCMClip); ok {
			src.Player = s.ctx.NewPlayerFromBytes(pcm.PCM())
		}
	}
	if src.Player == nil {
		return
	}
	src.Player.SetVolume(src.Volume)
	pos := time.Duration(math.Round(offset*1000)) * time.Millisecond
	if err := src.Player.SetPosition(pos); err != nil {
		log.Printf("speaker: seek %s to %v: %v", clip.Name(), pos, err)
	}
	src.Player.Play()
}

func (s *speaker) Pause() {
	src := s.source()
	if src == nil {
		return
	}
	src.Playing = false
	if src.Player != nil {
		src.Player.Pause()
	}
}

func (s *speaker) Stop() {
	src := s.source()
	if src == nil {
		return
	}
	src.Playing = false
	src.Position = 0
	if src.Player != nil {
		src.Player.Pause()
		if err := src.Player.Rewind(); err != nil {
			log.Printf("speaker: rewind %s: %v", src.Clip, err)
		}
	}
}
