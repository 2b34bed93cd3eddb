package timeline

import (
	"testing"

	"github.com/jakecoffman/cp"
)

type fakeTarget struct {
	dead      bool
	active    bool
	offset    cp.Vector
	activeSet int
}

func newFakeTarget(active bool) *fakeTarget {
	return &fakeTarget{active: active}
}

func (f *fakeTarget) Alive() bool                { return !f.dead }
func (f *fakeTarget) ActiveSelf() bool           { return f.active }
func (f *fakeTarget) LocalOffset() cp.Vector     { return f.offset }
func (f *fakeTarget) SetLocalOffset(o cp.Vector) { f.offset = o }

func (f *fakeTarget) SetActive(active bool) {
	f.active = active
	f.activeSet++
}

type fakeMotionClip struct {
	name    string
	length  float64
	samples []float64
}

func (c *fakeMotionClip) Name() string    { return c.name }
func (c *fakeMotionClip) Length() float64 { return c.length }

func (c *fakeMotionClip) Sample(_ Target, t float64) {
	c.samples = append(c.samples, t)
}

type fakeController struct {
	name string
}

func (c *fakeController) Name() string { return c.name }

type fakeAnimator struct {
	controller Controller
	speed      float64
	enabled    bool
	played     []float64
	rebinds    int
	resets     int
}

func (a *fakeAnimator) Controller() Controller     { return a.controller }
func (a *fakeAnimator) SetController(c Controller) { a.controller = c }
func (a *fakeAnimator) ResetParameters()           { a.resets++ }
func (a *fakeAnimator) SetSpeed(speed float64)     { a.speed = speed }
func (a *fakeAnimator) SetEnabled(enabled bool)    { a.enabled = enabled }
func (a *fakeAnimator) Rebind()                    { a.rebinds++ }

func (a *fakeAnimator) Play(_ MotionClip, normalized float64) {
	a.played = append(a.played, normalized)
}

type fakeSoundClip struct {
	name   string
	length float64
}

func (c *fakeSoundClip) Name() string    { return c.name }
func (c *fakeSoundClip) Length() float64 { return c.length }

type fakeSource struct {
	plays  []float64
	pauses int
	stops  int
}

func (s *fakeSource) Play(_ SoundClip, offset float64) { s.plays = append(s.plays, offset) }
func (s *fakeSource) Pause()                           { s.pauses++ }
func (s *fakeSource) Stop()                            { s.stops++ }

type fakeRig struct {
	animators map[Target]*fakeAnimator
	sources   map[Target]*fakeSource
}

func newFakeRig() *fakeRig {
	return &fakeRig{
		animators: make(map[Target]*fakeAnimator),
		sources:   make(map[Target]*fakeSource),
	}
}

func (r *fakeRig) Animator(target Target) Animator {
	a, ok := r.animators[target]
	if !ok {
		a = &fakeAnimator{speed: 1}
		r.animators[target] = a
	}
	return a
}

func (r *fakeRig) SoundSource(target Target) SoundSource {
	s, ok := r.sources[target]
	if !ok {
		s = &fakeSource{}
		r.sources[target] = s
	}
	return s
}

type manualClock struct {
	now float64
}

func (c *manualClock) Now() float64 { return c.now }

type recorder struct {
	transitions []Transition
}

func (r *recorder) observe(tr Transition) {
	r.transitions = append(r.transitions, tr)
}

func (r *recorder) count(t *Track, phase Phase) int {
	n := 0
	for _, tr := range r.transitions {
		if tr.Track == t && tr.Phase == phase {
			n++
		}
	}
	return n
}

func mustAdd(t testing.TB, s *Sequencer, tracks ...*Track) {
	t.Helper()
	for _, tr := range tracks {
		if err := s.Add(tr); err != nil {
			t.Fatalf("add %v: %v", tr, err)
		}
	}
	s.Refresh()
}
