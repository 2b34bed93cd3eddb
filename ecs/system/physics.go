package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
)

// PhysicsSystem keeps one kinematic body per PhysicsBody component and moves
// it with the object's transform. Bodies are only used for picking.
type PhysicsSystem struct {
	Step float64

	space  *cp.Space
	bodies map[ecs.Entity]*component.PhysicsBody
}

func NewPhysicsSystem() *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 10
	return &PhysicsSystem{
		Step:   1.0 / 60.0,
		space:  space,
		bodies: make(map[ecs.Entity]*component.PhysicsBody),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	for e, pb := range ps.bodies {
		if ecs.IsAlive(w, e) {
			continue
		}
		ps.detach(pb)
		delete(ps.bodies, e)
	}

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if ps.bodies[e] != pb {
			if old, ok := ps.bodies[e]; ok {
				ps.detach(old)
			}
			ps.attach(e, pb)
		}
		pb.Body.SetPosition(t.Offset())
		pb.Body.SetVelocity(0, 0)
	})

	ps.space.Step(ps.Step)
}

func (ps *PhysicsSystem) attach(e ecs.Entity, pb *component.PhysicsBody) {
	if pb.Body == nil {
		pb.Body = cp.NewKinematicBody()
	}
	pb.Body.UserData = e
	ps.space.AddBody(pb.Body)

	if pb.Shape == nil && pb.Width > 0 && pb.Height > 0 {
		pb.Shape = cp.NewBox(pb.Body, pb.Width, pb.Height, 0)
	}
	if pb.Shape != nil {
		pb.Shape.UserData = e
		ps.space.AddShape(pb.Shape)
	}
	ps.bodies[e] = pb
}

func (ps *PhysicsSystem) detach(pb *component.PhysicsBody) {
	if pb.Shape != nil {
		ps.space.RemoveShape(pb.Shape)
	}
	if pb.Body != nil {
		ps.space.RemoveBody(pb.Body)
	}
}

// Pick returns the entity whose shape contains p.
func (ps *PhysicsSystem) Pick(p cp.Vector) (ecs.Entity, bool) {
	if ps == nil || ps.space == nil {
		return 0, false
	}
	info := ps.space.PointQueryNearest(p, 0, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return 0, false
	}
	e, ok := info.Shape.UserData.(ecs.Entity)
	return e, ok
}
