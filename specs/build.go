package specs

import (
	"fmt"

	"github.com/milk9111/sequencer/assets"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/binding"
	"github.com/milk9111/sequencer/ecs/component"
	"github.com/milk9111/sequencer/timeline"
)

// Scene is a built timeline: its objects in the world and the sequencer that
// drives them.
type Scene struct {
	Spec      *TimelineSpec
	Sequencer *timeline.Sequencer
	Holder    ecs.Entity
	Objects   map[string]*binding.Object

	world *ecs.World
}

// Object returns the scene object called name.
func (s *Scene) Object(name string) (*binding.Object, bool) {
	if s == nil {
		return nil, false
	}
	o, ok := s.Objects[name]
	return o, ok
}

// Destroy stops the timeline, which restores every baseline, and removes the
// scene's entities from the world.
func (s *Scene) Destroy() {
	if s == nil || s.world == nil {
		return
	}
	if s.Sequencer != nil {
		s.Sequencer.Stop()
		_ = s.Sequencer.Clear()
	}
	for _, o := range s.Objects {
		ecs.DestroyEntity(s.world, o.Entity)
	}
	ecs.DestroyEntity(s.world, s.Holder)
	s.world = nil
}

// Builder turns timeline specs into scenes. Assets may be nil when the timeline
// references no images or sounds.
type Builder struct {
	World   *ecs.World
	Assets  *assets.Library
	Rig     timeline.Rig
	Clock   timeline.Clock
	Context *timeline.Context
}

// Build creates the objects, then the tracks, then refreshes the sequencer
// and applies its baseline. A failed build leaves nothing in the world.
func (b *Builder) Build(spec *TimelineSpec) (_ *Scene, err error) {
	if b == nil || b.World == nil {
		return nil, fmt.Errorf("specs: build without world")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ctx, _ := spec.ContextValue()
	if b.Context != nil {
		ctx = *b.Context
	}

	scene := &Scene{
		Spec:    spec,
		Objects: make(map[string]*binding.Object, len(spec.Objects)),
		world:   b.World,
	}
	defer func() {
		if err != nil {
			scene.Destroy()
		}
	}()

	for i := range spec.Objects {
		obj, err := b.buildObject(&spec.Objects[i])
		if err != nil {
			return nil, err
		}
		scene.Objects[spec.Objects[i].Name] = obj
	}

	seq := timeline.New(timeline.Config{
		Groups:  spec.GroupNames(),
		Context: ctx,
		Rig:     b.Rig,
		Clock:   b.Clock,
	})
	scene.Sequencer = seq
	group, _ := spec.GroupIndex(spec.Group)
	if err := seq.SetGroup(group); err != nil {
		return nil, err
	}

	for i := range spec.Tracks {
		track, err := b.buildTrack(scene, &spec.Tracks[i])
		if err != nil {
			return nil, fmt.Errorf("specs: track %d: %w", i, err)
		}
		if err := seq.Add(track); err != nil {
			return nil, fmt.Errorf("specs: track %d: %w", i, err)
		}
	}
	seq.Refresh()
	seq.ResetState()
	seq.SetRecording(spec.Record)

	scene.Holder = ecs.CreateEntity(b.World)
	if err := ecs.Add(b.World, scene.Holder, component.SequencerTagComponent.Kind(), &component.SequencerTag{}); err != nil {
		return nil, err
	}
	if err := ecs.Add(b.World, scene.Holder, component.SequencerComponent.Kind(), &component.Sequencer{
		Name:     spec.Name,
		Timeline: seq,
		AutoPlay: spec.AutoPlay,
	}); err != nil {
		return nil, err
	}
	return scene, nil
}

func (b *Builder) buildObject(o *ObjectSpec) (_ *binding.Object, err error) {
	w := b.World
	e := ecs.CreateEntity(w)
	obj := binding.NewObject(w, e)
	defer func() {
		if err != nil {
			ecs.DestroyEntity(w, e)
		}
	}()

	active := true
	if o.Active != nil {
		active = *o.Active
	}
	scaleX, scaleY := o.Transform.ScaleX, o.Transform.ScaleY
	if scaleX == 0 {
		scaleX = 1
	}
	if scaleY == 0 {
		scaleY = 1
	}

	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: o.Name}); err != nil {
		return nil, err
	}
	if err := ecs.Add(w, e, component.ActivationComponent.Kind(), &component.Activation{Active: active}); err != nil {
		return nil, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        o.Transform.X,
		Y:        o.Transform.Y,
		ScaleX:   scaleX,
		ScaleY:   scaleY,
		Rotation: o.Transform.Rotation,
	}); err != nil {
		return nil, err
	}

	sprite := &component.Sprite{OriginX: o.Sprite.OriginX, OriginY: o.Sprite.OriginY}
	if o.Sprite.Image != "" {
		img, err := b.Assets.Image(o.Sprite.Image)
		if err != nil {
			return nil, fmt.Errorf("specs: object %q: %w", o.Name, err)
		}
		sprite.Image = img
	}
	if o.Sprite.Image != "" || len(o.Animation.Defs) > 0 {
		if err := ecs.Add(w, e, component.SpriteComponent.Kind(), sprite); err != nil {
			return nil, err
		}
	}

	if len(o.Animation.Defs) > 0 {
		anim := &component.Animation{
			Defs:    make(map[string]component.AnimationDef, len(o.Animation.Defs)),
			Default: o.Animation.Default,
			Speed:   1,
			Enabled: true,
		}
		for name, d := range o.Animation.Defs {
			anim.Defs[name] = animationDef(name, d)
		}
		if o.Animation.Sheet != "" {
			sheet, err := b.Assets.Image(o.Animation.Sheet)
			if err != nil {
				return nil, fmt.Errorf("specs: object %q: %w", o.Name, err)
			}
			anim.Sheet = sheet
		}
		anim.Controller = &binding.SpriteController{Default: anim.Default}
		anim.Rewind()
		if err := ecs.Add(w, e, component.AnimationComponent.Kind(), anim); err != nil {
			return nil, err
		}
	}

	if o.Body != nil {
		if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Width:  o.Body.Width,
			Height: o.Body.Height,
		}); err != nil {
			return nil, err
		}
	}

	if o.Volume != nil {
		if err := ecs.Add(w, e, component.AudioSourceComponent.Kind(), &component.AudioSource{Volume: *o.Volume}); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func animationDef(name string, d AnimationDefSpec) component.AnimationDef {
	return component.AnimationDef{
		Name:       name,
		Row:        d.Row,
		ColStart:   d.ColStart,
		FrameCount: d.FrameCount,
		FrameW:     d.FrameW,
		FrameH:     d.FrameH,
		FPS:        d.FPS,
		Loop:       d.Loop,
	}
}

func (b *Builder) buildTrack(scene *Scene, t *TrackSpec) (*timeline.Track, error) {
	kind, err := timeline.ParseKind(t.Kind)
	if err != nil {
		return nil, err
	}

	var target timeline.Target
	if obj, ok := scene.Objects[t.Target]; ok {
		target = obj
	}
	duration := 0.0
	if t.Duration != nil {
		duration = *t.Duration
	}

	var track *timeline.Track
	switch kind {
	case timeline.KindActive:
		desired := true
		if t.Active != nil {
			desired = *t.Active
		}
		track = timeline.NewActiveTrack(t.Start, duration, target, desired)
	case timeline.KindMotion:
		var clip timeline.MotionClip
		if objSpec, ok := scene.Spec.object(t.Target); ok {
			if d, ok := objSpec.Animation.Defs[t.Clip]; ok {
				clip = &binding.SpriteClip{Def: animationDef(t.Clip, d)}
			}
		}
		if t.Duration == nil && clip != nil {
			duration = clip.Length()
		}
		track = timeline.NewMotionTrack(t.Start, duration, target, clip)
	case timeline.KindSound:
		clip, err := b.Assets.Sound(t.Clip)
		if err != nil {
			return nil, err
		}
		if t.Duration == nil {
			duration = clip.Length()
		}
		track = timeline.NewSoundTrack(t.Start, duration, target, clip)
	}

	group, _ := scene.Spec.GroupIndex(t.Group)
	if err := track.SetGroup(group); err != nil {
		return nil, err
	}
	if err := track.SetTag(t.Tag); err != nil {
		return nil, err
	}
	return track, nil
}
