package binding

import (
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
	"github.com/milk9111/sequencer/timeline"
)

// Rig resolves animators and speakers for objects of one world, adding the
// backing components on first use. Audio may be nil, in which case speakers
// only update their component.
type Rig struct {
	World *ecs.World
	Audio *audio.Context
}

func NewRig(w *ecs.World, ctx *audio.Context) *Rig {
	return &Rig{World: w, Audio: ctx}
}

func (r *Rig) object(target timeline.Target) *Object {
	obj, ok := target.(*Object)
	if !ok || !obj.Alive() || obj.World != r.World {
		return nil
	}
	return obj
}

func (r *Rig) Animator(target timeline.Target) timeline.Animator {
	obj := r.object(target)
	if obj == nil {
		return nil
	}
	anim, ok := ecs.Get(r.World, obj.Entity, component.AnimationComponent.Kind())
	if !ok {
		anim = &component.Animation{
			Defs:    make(map[string]component.AnimationDef),
			Speed:   1,
			Enabled: true,
		}
		if err := ecs.Add(r.World, obj.Entity, component.AnimationComponent.Kind(), anim); err != nil {
			return nil
		}
	}
	if anim.Controller == nil {
		anim.Controller = &SpriteController{Default: anim.Default}
	}
	return &spriteAnimator{obj: obj}
}

func (r *Rig) SoundSource(target timeline.Target) timeline.SoundSource {
	obj := r.object(target)
	if obj == nil {
		return nil
	}
	if !ecs.Has(r.World, obj.Entity, component.AudioSourceComponent.Kind()) {
		if err := ecs.Add(r.World, obj.Entity, component.AudioSourceComponent.Kind(), &component.AudioSource{Volume: 1}); err != nil {
			return nil
		}
	}
	return &speaker{obj: obj, ctx: r.Audio}
}
