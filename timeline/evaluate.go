package timeline

import "github.com/milk9111/sequencer/common"

// Mode tells the evaluator why it runs.
type Mode int

const (
	// Tick is the steady advance of the play clock. Enter and Exit fire only on
	// window crossings.
	Tick Mode = iota
	// Seek follows a direct time change. Every track re-runs Enter or Exit
	// regardless of whether it was armed, because the jump may have skipped its
	// crossings.
	Seek
)

func (m Mode) String() string {
	if m == Seek {
		return "seek"
	}
	return "tick"
}

// Phase is the kind of transition reported to observers.
type Phase int

const (
	PhaseEnter Phase = iota
	PhaseExit
)

func (p Phase) String() string {
	if p == PhaseExit {
		return "exit"
	}
	return "enter"
}

// Transition describes one Enter or Exit of a track.
type Transition struct {
	Track *Track
	Phase Phase
	At    float64
	Mode  Mode
}

// Evaluate runs one pass over the ordered tracks at time at. Tracks outside
// the selected group are skipped unless they belong to group 0.
func (s *Sequencer) Evaluate(at float64, mode Mode) {
	for _, t := range s.tracks.ordered {
		if t.group != s.group && t.group != 0 {
			continue
		}

		sinceStart := at - t.start
		sinceEnd := at - (t.start + t.duration)

		if sinceStart >= 0 && sinceEnd < 0 {
			if !t.armed || mode == Seek {
				s.enter(t, at)
				t.armed = true
				if mode == Seek {
					// let the next tick enter once more from the new position
					t.armed = false
				}
				s.notify(t, PhaseEnter, at, mode)
			}
			s.hold(t, at)
			continue
		}

		if t.armed || mode == Seek {
			s.exit(t)
			t.armed = false
			s.notify(t, PhaseExit, at, mode)
		}
	}
}

func (s *Sequencer) notify(t *Track, phase Phase, at float64, mode Mode) {
	if s.onTransition == nil {
		return
	}
	s.onTransition(Transition{Track: t, Phase: phase, At: at, Mode: mode})
}

func (s *Sequencer) enter(t *Track, at float64) {
	switch t.kind {
	case KindActive:
		// held every tick instead
	case KindMotion:
		s.enterMotion(t, at)
	case KindSound:
		s.enterSound(t, at)
	}
}

func (s *Sequencer) hold(t *Track, at float64) {
	switch t.kind {
	case KindActive:
		if alive(t.target) {
			t.target.SetActive(t.active.desired)
		}
	case KindMotion:
		s.holdMotion(t, at)
	case KindSound:
		s.holdSound(t, at)
	}
}

func (s *Sequencer) exit(t *Track) {
	switch t.kind {
	case KindActive:
		if alive(t.target) {
			t.target.SetActive(t.active.original)
		}
	case KindMotion:
		t.motion.loop = 0
	case KindSound:
		t.sound.loop = 0
	}
}

func (s *Sequencer) enterMotion(t *Track, at float64) {
	m := &t.motion
	if !alive(t.target) || m.clip == nil || m.clip.Length() <= 0 {
		return
	}
	if s.context != ContextLive {
		return
	}

	animator := m.animator
	if animator == nil {
		if s.rig == nil {
			return
		}
		animator = s.rig.Animator(t.target)
		if animator == nil {
			return
		}
		m.animator = animator
	}

	if displaced := handoff(animator, m.clip); displaced != nil && m.displaced == nil {
		m.displaced = displaced
	}

	t.target.SetLocalOffset(m.originalOffset)

	_, normalized := common.LoopPosition(at-t.start, m.clip.Length())
	animator.SetEnabled(true)
	animator.Play(m.clip, normalized)
	if s.playing {
		animator.SetSpeed(1)
	} else {
		animator.SetSpeed(0)
	}
}

func (s *Sequencer) holdMotion(t *Track, at float64) {
	m := &t.motion
	if !alive(t.target) || m.clip == nil {
		return
	}
	length := m.clip.Length()
	if length <= 0 {
		return
	}

	loop, _ := common.LoopPosition(at-t.start, length)
	if loop > m.loop {
		m.loop = loop
		t.armed = false
	}

	if s.context == ContextSampled {
		m.clip.Sample(t.target, common.LocalTime(at-t.start, length))
	}
}

func (s *Sequencer) enterSound(t *Track, at float64) {
	snd := &t.sound
	if snd.clip == nil || !alive(t.target) {
		return
	}
	length := snd.clip.Length()
	if length <= 0 {
		return
	}

	loop, normalized := common.LoopPosition(at-t.start, length)
	if loop < snd.loop {
		return
	}
	// offsets are handed to players in whole milliseconds
	position := int(normalized * length * 1000)

	if snd.sounding != nil {
		snd.sounding.Stop()
		snd.sounding = nil
	}
	if s.rig == nil {
		return
	}
	source := s.rig.SoundSource(t.target)
	if source == nil {
		return
	}
	if s.playing {
		source.Play(snd.clip, float64(position)/1000)
		snd.sounding = source
	} else {
		source.Pause()
	}
}

func (s *Sequencer) holdSound(t *Track, at float64) {
	snd := &t.sound
	if snd.clip == nil {
		return
	}
	length := snd.clip.Length()
	if length <= 0 || t.duration <= length {
		return
	}
	loop, _ := common.LoopPosition(at-t.start, length)
	if loop > snd.loop {
		snd.loop = loop
		t.armed = false
	}
}
