package binding

import (
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
	"github.com/milk9111/sequencer/timeline"
)

// spriteAnimator drives an Animation component on behalf of motion tracks.
type spriteAnimator struct {
	obj *Object
}

func (a *spriteAnimator) anim() *component.Animation {
	if !a.obj.Alive() {
		return nil
	}
	anim, _ := ecs.Get(a.obj.World, a.obj.Entity, component.AnimationComponent.Kind())
	return anim
}

func (a *spriteAnimator) Controller() timeline.Controller {
	anim := a.anim()
	if anim == nil {
		return nil
	}
	c, _ := anim.Controller.(timeline.Controller)
	return c
}

func (a *spriteAnimator) SetController(c timeline.Controller) {
	anim := a.anim()
	if anim == nil {
		return
	}
	anim.Controller = c
	switch v := c.(type) {
	case *timeline.OverrideController:
		if clip, ok := v.Clip.(*SpriteClip); ok {
			register(anim, clip.Def)
		}
		if v.Clip != nil {
			anim.Current = v.Clip.Name()
		}
	case *SpriteController:
		anim.Default = v.Default
		anim.Current = v.Default
	}
	anim.Frame = 0
	anim.Elapsed = 0
}

func (a *spriteAnimator) ResetParameters() {
	if anim := a.anim(); anim != nil {
		anim.Frame = 0
		anim.Elapsed = 0
	}
}

func (a *spriteAnimator) Play(clip timeline.MotionClip, normalized float64) {
	anim := a.anim()
	if anim == nil || clip == nil {
		return
	}
	if sc, ok := clip.(*SpriteClip); ok {
		register(anim, sc.Def)
	}
	anim.Current = clip.Name()
	anim.Elapsed = normalized * clip.Length()
	anim.Frame = anim.Defs[anim.Current].FrameAt(anim.Elapsed)
	anim.Playing = true
}

func (a *spriteAnimator) SetSpeed(speed float64) {
	if anim := a.anim(); anim != nil {
		anim.Speed = speed
	}
}

func (a *spriteAnimator) SetEnabled(enabled bool) {
	if anim := a.anim(); anim != nil {
		anim.Enabled = enabled
	}
}

func (a *spriteAnimator) Rebind() {
	if anim := a.anim(); anim != nil {
		anim.Rewind()
	}
}
