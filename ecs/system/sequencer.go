package system

import (
	"fmt"

	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
	"github.com/milk9111/sequencer/timeline"
)

// TrackEvent is the payload of EventTrackEnter and EventTrackExit.
type TrackEvent struct {
	Sequencer string
	Kind      string
	Tag       string
	Target    string
	Mode      string
	At        float64
}

// EndedEvent is the payload of EventTimelineEnded.
type EndedEvent struct {
	Sequencer string
}

// SequencerSystem ticks every Sequencer component once per frame. AutoPlay
// timelines are started the first time they are seen. Timelines whose
// component is gone are forgotten.
type SequencerSystem struct {
	wired   map[*timeline.Sequencer]bool
	started map[*timeline.Sequencer]bool
}

func NewSequencerSystem() *SequencerSystem {
	return &SequencerSystem{
		wired:   make(map[*timeline.Sequencer]bool),
		started: make(map[*timeline.Sequencer]bool),
	}
}

func (s *SequencerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	seen := make(map[*timeline.Sequencer]bool, len(s.wired))
	ecs.ForEach(w, component.SequencerComponent.Kind(), func(_ ecs.Entity, sc *component.Sequencer) {
		seq := sc.Timeline
		if seq == nil {
			return
		}
		seen[seq] = true
		if !s.wired[seq] {
			Wire(w, sc)
			s.wired[seq] = true
		}
		if sc.AutoPlay && !s.started[seq] {
			s.started[seq] = true
			seq.Play()
		}
		seq.Update()
	})

	for seq := range s.wired {
		if !seen[seq] {
			delete(s.wired, seq)
			delete(s.started, seq)
		}
	}
}

// Wire routes the transitions and the ended notification of a sequencer into
// the world event queue. Calling it again replaces the previous hooks.
func Wire(w *ecs.World, sc *component.Sequencer) {
	if w == nil || sc == nil || sc.Timeline == nil {
		return
	}
	sc.Timeline.OnTransition(func(tr timeline.Transition) {
		typ := ecs.EventTrackEnter
		if tr.Phase == timeline.PhaseExit {
			typ = ecs.EventTrackExit
		}
		w.Events().Push(ecs.Event{Type: typ, Data: TrackEvent{
			Sequencer: sc.Name,
			Kind:      tr.Track.Kind().String(),
			Tag:       tr.Track.Tag(),
			Target:    targetName(tr.Track.Target()),
			Mode:      tr.Mode.String(),
			At:        tr.At,
		}})
	})
	sc.Timeline.OnEnded(func() {
		w.Events().Push(ecs.Event{Type: ecs.EventTimelineEnded, Data: EndedEvent{Sequencer: sc.Name}})
	})
}

func targetName(t timeline.Target) string {
	if t == nil {
		return ""
	}
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", t)
}
