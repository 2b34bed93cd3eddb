package binding

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
)

// Object exposes an entity as a timeline target. Objects without an
// Activation component count as active.
type Object struct {
	World  *ecs.World
	Entity ecs.Entity
}

func NewObject(w *ecs.World, e ecs.Entity) *Object {
	return &Object{World: w, Entity: e}
}

func (o *Object) Alive() bool {
	return o != nil && ecs.IsAlive(o.World, o.Entity)
}

func (o *Object) ActiveSelf() bool {
	if !o.Alive() {
		return false
	}
	act, ok := ecs.Get(o.World, o.Entity, component.ActivationComponent.Kind())
	if !ok {
		return true
	}
	return act.Active
}

func (o *Object) SetActive(active bool) {
	if !o.Alive() {
		return
	}
	if act, ok := ecs.Get(o.World, o.Entity, component.ActivationComponent.Kind()); ok {
		act.Active = active
		return
	}
	_ = ecs.Add(o.World, o.Entity, component.ActivationComponent.Kind(), &component.Activation{Active: active})
}

func (o *Object) LocalOffset() cp.Vector {
	if !o.Alive() {
		return cp.Vector{}
	}
	t, ok := ecs.Get(o.World, o.Entity, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}
	}
	return t.Offset()
}

// SetLocalOffset moves the transform and drags an attached body along.
func (o *Object) SetLocalOffset(offset cp.Vector) {
	if !o.Alive() {
		return
	}
	t, ok := ecs.Get(o.World, o.Entity, component.TransformComponent.Kind())
	if !ok {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
		if err := ecs.Add(o.World, o.Entity, component.TransformComponent.Kind(), t); err != nil {
			return
		}
	}
	t.SetOffset(offset)
	if pb, ok := ecs.Get(o.World, o.Entity, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		pb.Body.SetPosition(offset)
		pb.Body.SetVelocity(0, 0)
	}
}

// Name returns the authored object name, if any.
func (o *Object) Name() string {
	if !o.Alive() {
		return ""
	}
	if n, ok := ecs.Get(o.World, o.Entity, component.NameComponent.Kind()); ok {
		return n.Value
	}
	return ""
}

func (o *Object) String() string {
	if name := o.Name(); name != "" {
		return name
	}
	return "entity " + o.Entity.String()
}
