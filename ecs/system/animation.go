package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
)

// AnimationSystem advances playing animators by Step seconds scaled by their
// speed and cuts the current frame out of the sheet.
type AnimationSystem struct {
	Step float64
}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{Step: 1.0 / 60.0}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.AnimationComponent.Kind(), component.SpriteComponent.Kind(), func(e ecs.Entity, anim *component.Animation, sprite *component.Sprite) {
		if !anim.Enabled || !activeSelf(w, e) {
			return
		}

		def, ok := anim.Defs[anim.Current]
		if !ok || def.FrameCount <= 0 {
			return
		}

		if anim.Playing {
			anim.Elapsed += a.Step * anim.Speed
			anim.Frame = def.FrameAt(anim.Elapsed)
			if !def.Loop && anim.Elapsed >= def.Length() {
				anim.Playing = false
			}
		}

		if anim.Sheet == nil {
			return
		}
		if sub, ok := anim.Sheet.SubImage(def.Rect(anim.Frame)).(*ebiten.Image); ok {
			sprite.Image = sub
		}
	})
}

func activeSelf(w *ecs.World, e ecs.Entity) bool {
	act, ok := ecs.Get(w, e, component.ActivationComponent.Kind())
	return !ok || act.Active
}
