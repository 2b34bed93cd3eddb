package director

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/timeline"
)

type stubClock struct{ now float64 }

func (c *stubClock) Now() float64 { return c.now }

type stubTarget struct{ active bool }

func (s *stubTarget) Alive() bool              { return true }
func (s *stubTarget) ActiveSelf() bool         { return s.active }
func (s *stubTarget) SetActive(a bool)         { s.active = a }
func (s *stubTarget) LocalOffset() cp.Vector   { return cp.Vector{} }
func (s *stubTarget) SetLocalOffset(cp.Vector) {}

func newTimeline(t *testing.T) *timeline.Sequencer {
	t.Helper()
	seq := timeline.New(timeline.Config{Groups: []string{"ALL", "day", "night"}, Clock: &stubClock{}})
	track := timeline.NewActiveTrack(1, 2, &stubTarget{active: true}, false)
	_ = track.SetTag("door")
	if err := seq.Add(track); err != nil {
		t.Fatal(err)
	}
	seq.Refresh()
	return seq
}

func TestDirectorDrivesTransport(t *testing.T) {
	seq := newTimeline(t)
	src := `
update := func(engine, state, frame) {
	if frame == 0 {
		engine.group("night")
		engine.play()
	} else if frame == 1 {
		door := engine.find("active", "door")
		engine.seek(door.start + 0.5)
	} else if frame == 2 {
		engine.pause()
		state.seen = engine.time()
		state.length = engine.length()
		state.state = engine.state()
	}
}
`
	d, err := New("drive", []byte(src), func() *timeline.Sequencer { return seq })
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := d.Update(0); err != nil {
		t.Fatalf("frame 0: %v", err)
	}
	if !seq.Playing() || seq.Group() != 2 {
		t.Fatalf("expected playing in group 2, got playing=%v group=%d", seq.Playing(), seq.Group())
	}
	if err := d.Update(1); err != nil {
		t.Fatalf("frame 1: %v", err)
	}
	if seq.Time() != 1.5 {
		t.Fatalf("expected seek to 1.5, got %v", seq.Time())
	}
	if err := d.Update(2); err != nil {
		t.Fatalf("frame 2: %v", err)
	}
	if seq.Playing() {
		t.Fatalf("expected pause")
	}
	if d.State("seen") != 1.5 || d.State("length") != 3.0 || d.State("state") != "paused" {
		t.Fatalf("unexpected script state seen=%v length=%v state=%v", d.State("seen"), d.State("length"), d.State("state"))
	}
}

func TestDirectorEndedHook(t *testing.T) {
	seq := newTimeline(t)
	src := `
on_ended := func(engine, state, name) {
	if is_undefined(state.count) {
		state.count = 0
	}
	state.count += 1
	state.last = name
	if state.count < 2 {
		engine.play()
	}
}
`
	d, err := New("loop", []byte(src), func() *timeline.Sequencer { return seq })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Update(0); err != nil {
		t.Fatalf("update without an update function must be a no-op: %v", err)
	}

	if err := d.Ended("intro"); err != nil {
		t.Fatal(err)
	}
	if !seq.Playing() {
		t.Fatalf("first end must restart playback")
	}
	seq.Stop()
	if err := d.Ended("intro"); err != nil {
		t.Fatal(err)
	}
	if seq.Playing() {
		t.Fatalf("second end must leave the timeline stopped")
	}
	if d.State("count") != 2 || d.State("last") != "intro" {
		t.Fatalf("unexpected state count=%v last=%v", d.State("count"), d.State("last"))
	}
}

func TestDirectorCompileErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"no_entry_points", "x := 1", ErrNoUpdate},
		{"syntax", "update := func(", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.name, []byte(c.src), func() *timeline.Sequencer { return nil })
			if err == nil {
				t.Fatalf("expected an error")
			}
			if c.want != nil && !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestDirectorWithoutTimeline(t *testing.T) {
	src := `
update := func(engine, state, frame) {
	state.ok = engine.play()
	state.t = engine.time()
}
`
	d, err := New("none", []byte(src), func() *timeline.Sequencer { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Update(0); err != nil {
		t.Fatal(err)
	}
	if d.State("ok") != false || d.State("t") != 0.0 {
		t.Fatalf("engine calls without a timeline must be inert, got ok=%v t=%v", d.State("ok"), d.State("t"))
	}
}

func TestLoadEmbeddedDemo(t *testing.T) {
	if _, err := Load("demo.tengo", func() *timeline.Sequencer { return nil }); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
