package control

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/timeline"
)

type stubTarget struct {
	active bool
	offset cp.Vector
}

func (s *stubTarget) Alive() bool                { return true }
func (s *stubTarget) ActiveSelf() bool           { return s.active }
func (s *stubTarget) SetActive(active bool)      { s.active = active }
func (s *stubTarget) LocalOffset() cp.Vector     { return s.offset }
func (s *stubTarget) SetLocalOffset(o cp.Vector) { s.offset = o }
func (s *stubTarget) String() string             { return "stub" }

type stubClock struct{ now float64 }

func (c *stubClock) Now() float64 { return c.now }

func newTimeline(t *testing.T) *timeline.Sequencer {
	t.Helper()
	seq := timeline.New(timeline.Config{Groups: []string{"ALL", "day", "night"}, Clock: &stubClock{}})
	track := timeline.NewActiveTrack(0, 4, &stubTarget{active: true}, false)
	if err := track.SetTag("lamp"); err != nil {
		t.Fatalf("SetTag: %v", err)
	}
	if err := seq.Add(track); err != nil {
		t.Fatalf("Add: %v", err)
	}
	seq.Refresh()
	return seq
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
		err  bool
	}{
		{line: "play", want: Command{Op: OpPlay}},
		{line: "  PAUSE ", want: Command{Op: OpPause}},
		{line: "seek 1.5", want: Command{Op: OpSeek, Value: 1.5}},
		{line: "step", want: Command{Op: OpStep, Value: DefaultStep}},
		{line: "step -0.5", want: Command{Op: OpStep, Value: -0.5}},
		{line: "group night", want: Command{Op: OpGroup, Group: "night"}},
		{line: "record on", want: Command{Op: OpRecord, Flag: true}},
		{line: "record off", want: Command{Op: OpRecord}},
		{line: "reload", want: Command{Op: OpReload}},
		{line: "", err: true},
		{line: "rewind", err: true},
		{line: "seek", err: true},
		{line: "seek soon", err: true},
		{line: "seek inf", err: true},
		{line: "step nan", err: true},
		{line: "step -Inf", err: true},
		{line: "stop now", err: true},
		{line: "record maybe", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.err {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestApplierDrivesSequencer(t *testing.T) {
	seq := newTimeline(t)
	reloads := 0
	a := &Applier{
		Sequencer: func() *timeline.Sequencer { return seq },
		Reload:    func() { reloads++ },
	}

	steps := []struct {
		cmd   Command
		state timeline.State
		time  float64
	}{
		{Command{Op: OpPlay}, timeline.Playing, 0},
		{Command{Op: OpSeek, Value: 2}, timeline.Playing, 2},
		{Command{Op: OpPause}, timeline.Paused, 2},
		{Command{Op: OpStep, Value: 0.5}, timeline.Paused, 2.5},
		{Command{Op: OpStop}, timeline.Stopped, 0},
	}
	for _, s := range steps {
		if err := a.Apply(s.cmd); err != nil {
			t.Fatalf("%v: %v", s.cmd, err)
		}
		if seq.State() != s.state || seq.Time() != s.time {
			t.Fatalf("%v: expected %v at %v, got %v at %v", s.cmd, s.state, s.time, seq.State(), seq.Time())
		}
	}

	if err := a.Apply(Command{Op: OpGroup, Group: "Night"}); err != nil || seq.Group() != 2 {
		t.Fatalf("group by name: group=%d err=%v", seq.Group(), err)
	}
	if err := a.Apply(Command{Op: OpGroup, Group: "1"}); err != nil || seq.Group() != 1 {
		t.Fatalf("group by index: group=%d err=%v", seq.Group(), err)
	}
	if err := a.Apply(Command{Op: OpGroup, Group: "9"}); !errors.Is(err, timeline.ErrGroupRange) {
		t.Fatalf("expected ErrGroupRange, got %v", err)
	}
	if err := a.Apply(Command{Op: OpGroup, Group: "dusk"}); !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}
	if err := a.Apply(Command{Op: OpRecord, Flag: true}); err != nil || !seq.Recording() {
		t.Fatalf("record: recording=%v err=%v", seq.Recording(), err)
	}
	if err := a.Apply(Command{Op: OpReload}); err != nil || reloads != 1 {
		t.Fatalf("reload: reloads=%d err=%v", reloads, err)
	}
}

func TestApplierWithoutTimeline(t *testing.T) {
	a := &Applier{Sequencer: func() *timeline.Sequencer { return nil }}
	if err := a.Apply(Command{Op: OpPlay}); !errors.Is(err, ErrNoTimeline) {
		t.Fatalf("expected ErrNoTimeline, got %v", err)
	}
	if err := a.Apply(Command{Op: OpReload}); err == nil {
		t.Fatalf("reload without a reloader must fail")
	}
}

func TestQueueDrainsInOrder(t *testing.T) {
	q := NewQueue()
	q.Push(Command{Op: OpPlay})
	q.Push(Command{Op: OpSeek, Value: 1})
	if q.Len() != 2 {
		t.Fatalf("expected 2 pending, got %d", q.Len())
	}

	got := q.Drain()
	if len(got) != 2 || got[0].Op != OpPlay || got[1].Op != OpSeek {
		t.Fatalf("unexpected drain %v", got)
	}
	if q.Len() != 0 || len(q.Drain()) != 0 {
		t.Fatalf("drain must empty the queue")
	}
}

func TestCapture(t *testing.T) {
	if snap := Capture("none", nil); snap.Loaded || snap.State != "stopped" {
		t.Fatalf("nil sequencer must give an unloaded snapshot, got %+v", snap)
	}

	seq := newTimeline(t)
	seq.SetTime(1)
	snap := Capture("demo", seq)
	if !snap.Loaded || snap.State != "paused" || snap.Time != 1 || snap.Length != 4 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Group != "ALL" || len(snap.Groups) != 3 {
		t.Fatalf("unexpected groups %q %v", snap.Group, snap.Groups)
	}
	if len(snap.Tracks) != 1 || snap.Tracks[0].Tag != "lamp" || snap.Tracks[0].Kind != "active" || snap.Tracks[0].Target != "stub" {
		t.Fatalf("unexpected tracks %+v", snap.Tracks)
	}
}

func TestConsoleHandle(t *testing.T) {
	q := NewQueue()
	var out bytes.Buffer
	c := &Console{queue: q, out: &out}

	if !c.Handle("seek 2") || !c.Handle("") || !c.Handle("bogus") {
		t.Fatalf("console must keep running")
	}
	if !strings.Contains(out.String(), "error:") {
		t.Fatalf("expected an error line, got %q", out.String())
	}
	if cmds := q.Drain(); len(cmds) != 1 || cmds[0] != (Command{Op: OpSeek, Value: 2}) {
		t.Fatalf("unexpected commands %v", cmds)
	}

	out.Reset()
	c.Handle("status")
	if !strings.Contains(out.String(), "no timeline loaded") {
		t.Fatalf("unexpected status %q", out.String())
	}
	q.Publish(Capture("demo", newTimeline(t)))
	out.Reset()
	c.Handle("status")
	if !strings.Contains(out.String(), "demo: stopped") || !strings.Contains(out.String(), "lamp") {
		t.Fatalf("unexpected status %q", out.String())
	}

	if c.Handle("exit") {
		t.Fatalf("exit must stop the console")
	}
}
