package timeline

import (
	"math"
	"slices"
	"time"
)

// State is the transport state derived from the clock.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Config configures a Sequencer. Zero values are usable: one "ALL" group, the
// live context, no rig and the wall clock.
type Config struct {
	Groups  []string
	Context Context
	Rig     Rig
	Clock   Clock
}

// Sequencer owns a set of tracks and the clock that drives them. It is not
// safe for concurrent use; every call is expected from the frame loop.
type Sequencer struct {
	tracks trackSet
	groups []string
	group  int

	current   float64
	length    float64
	playing   bool
	recording bool
	lastTime  float64

	context Context
	rig     Rig
	clock   Clock

	onEnded      func()
	onTransition func(Transition)
}

// New creates a stopped sequencer with its baseline applied.
func New(cfg Config) *Sequencer {
	groups := slices.Clone(cfg.Groups)
	if len(groups) == 0 {
		groups = []string{"ALL"}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = wallClock{origin: time.Now()}
	}

	s := &Sequencer{
		groups:  groups,
		context: cfg.Context,
		rig:     cfg.Rig,
		clock:   clock,
	}
	s.Refresh()
	s.ResetState()
	return s
}

func (s *Sequencer) Time() float64 { return s.current }
func (s *Sequencer) Length() float64 { return s.length }
func (s *Sequencer) Playing() bool { return s.playing }
func (s *Sequencer) Context() Context { return s.context }
func (s *Sequencer) Group() int { return s.group }
func (s *Sequencer) Groups() []string { return slices.Clone(s.groups) }
func (s *Sequencer) SetRig(rig Rig) { s.rig = rig }
func (s *Sequencer) SetClock(c Clock) { s.clock = c }
func (s *Sequencer) OnEnded(fn func()) { s.onEnded = fn }

// OnTransition registers the observer of Enter and Exit transitions.
func (s *Sequencer) OnTransition(fn func(Transition)) { s.onTransition = fn }

func (s *Sequencer) State() State {
	switch {
	case s.playing:
		return Playing
	case s.current == 0:
		return Stopped
	default:
		return Paused
	}
}

// SetGroup selects which group plays besides group 0.
func (s *Sequencer) SetGroup(index int) error {
	if index < 0 || index >= len(s.groups) {
		return ErrGroupRange
	}
	s.group = index
	return nil
}

// Add appends a track. It takes part in evaluation after the next Refresh.
func (s *Sequencer) Add(t *Track) error {
	if t == nil {
		return ErrNilTrack
	}
	if s.playing {
		return ErrLive
	}
	if t.owner != nil && t.owner != s {
		return ErrForeignTrack
	}
	if s.tracks.contains(t) {
		return nil
	}
	t.owner = s
	s.tracks.add(t)
	return nil
}

// Remove writes the track's baseline back and detaches it, so a track removed
// while paused inside its window leaves its target as it found it.
func (s *Sequencer) Remove(t *Track) error {
	if t == nil {
		return ErrNilTrack
	}
	if s.playing {
		return ErrLive
	}
	if !s.tracks.contains(t) {
		return ErrUnknownTrack
	}
	s.restore(t)
	s.tracks.remove(t)
	t.owner = nil
	return nil
}

// Clear restores every baseline, in the same order as ResetState, and
// detaches every track.
func (s *Sequencer) Clear() error {
	if s.playing {
		return ErrLive
	}
	s.ResetState()
	for _, t := range s.tracks.all() {
		t.owner = nil
	}
	s.tracks.clear()
	return nil
}

// Tracks returns the evaluation order from the last Refresh.
func (s *Sequencer) Tracks() []*Track {
	return slices.Clone(s.tracks.ordered)
}

// Members returns every added track, including ones not refreshed yet.
func (s *Sequencer) Members() []*Track {
	return s.tracks.all()
}

// FindTrack returns the first refreshed track of kind carrying tag.
func (s *Sequencer) FindTrack(kind Kind, tag string) *Track {
	return s.tracks.find(kind, tag)
}

// Refresh rebuilds the evaluation order and the length. It does nothing while
// playing so the order cannot shift under armed tracks.
func (s *Sequencer) Refresh() float64 {
	if s.playing {
		return s.length
	}
	s.length = s.tracks.refresh()
	return s.length
}

// Play starts or resumes playback. Starting from zero captures the baseline
// when recording is set.
func (s *Sequencer) Play() {
	if s.playing {
		return
	}
	if math.Abs(s.current) < 0.01 {
		s.SaveState()
	}
	s.playing = true
	s.lastTime = s.clock.Now()
	s.Evaluate(s.current, Tick)
}

// Update is the per-frame tick. It evaluates at the current time and then
// advances the clock by the elapsed wall time, stopping once the end is reached.
func (s *Sequencer) Update() {
	if !s.playing {
		return
	}
	if s.current >= s.length {
		s.Stop()
		return
	}
	s.Evaluate(s.current, Tick)
	now := s.clock.Now()
	s.current += now - s.lastTime
	s.lastTime = now
}

func (s *Sequencer) Pause() {
	s.playing = false
	s.Evaluate(s.current, Seek)
}

// Stop rewinds to zero, restores every baseline and reports the end of
// playback.
func (s *Sequencer) Stop() {
	s.current = 0
	s.playing = false
	s.Evaluate(s.current, Seek)
	s.ResetState()
	if s.onEnded != nil {
		s.onEnded()
	}
}

// SetTime jumps to t, clamped to [0, length]. Playback state is unchanged.
func (s *Sequencer) SetTime(t float64) {
	s.current = s.clamp(t)
	s.Evaluate(s.current, Seek)
}

// Step moves by delta and pauses. Reaching the end wraps to zero, as does a
// delta that is not a number.
func (s *Sequencer) Step(delta float64) {
	s.current += delta
	if s.current >= s.length || s.current < 0 || math.IsNaN(s.current) {
		s.current = 0
	}
	s.playing = false
	s.Evaluate(s.current, Seek)
}

func (s *Sequencer) clamp(t float64) float64 {
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	if t > s.length {
		return s.length
	}
	return t
}
