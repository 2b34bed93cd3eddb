package binding

import (
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
	"github.com/milk9111/sequencer/timeline"
)

// SpriteClip is a sprite-sheet animation usable as a motion clip.
type SpriteClip struct {
	Def component.AnimationDef
}

func (c *SpriteClip) Name() string    { return c.Def.Name }
func (c *SpriteClip) Length() float64 { return c.Def.Length() }

// Sample poses the target on the frame at local time t without running the
// animation system.
func (c *SpriteClip) Sample(target timeline.Target, t float64) {
	obj, ok := target.(*Object)
	if !ok || !obj.Alive() {
		return
	}
	anim, ok := ecs.Get(obj.World, obj.Entity, component.AnimationComponent.Kind())
	if !ok {
		return
	}
	register(anim, c.Def)
	anim.Current = c.Def.Name
	anim.Elapsed = t
	anim.Frame = c.Def.FrameAt(t)
	anim.Playing = false
}

func register(anim *component.Animation, def component.AnimationDef) {
	if anim.Defs == nil {
		anim.Defs = make(map[string]component.AnimationDef)
	}
	if _, ok := anim.Defs[def.Name]; !ok {
		anim.Defs[def.Name] = def
	}
}

// SpriteController is the base controller of a sprite animator: it plays the
// object's default clip.
type SpriteController struct {
	Default string
}

func (c *SpriteController) Name() string {
	if c.Default == "" {
		return "sprite"
	}
	return "sprite:" + c.Default
}
