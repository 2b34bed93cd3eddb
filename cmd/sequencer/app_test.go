package main

import (
	"testing"

	"github.com/milk9111/sequencer/control"
	"github.com/milk9111/sequencer/timeline"
)

func newTestApp(t *testing.T, opts options) (*App, *frameClock) {
	t.Helper()
	if opts.timeline == "" {
		opts.timeline = "demo.yaml"
	}
	clock := &frameClock{}
	app, err := newApp(opts, nil, clock)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(func() {
		if s := app.reloader.Scene(); s != nil {
			s.Destroy()
		}
	})
	return app, clock
}

func tick(app *App, clock *frameClock, frames int) (ended int) {
	for i := 0; i < frames; i++ {
		clock.Advance(1.0 / 60)
		app.Frame()
		if app.Ended() {
			ended++
		}
	}
	return ended
}

func TestScriptDrivesDemo(t *testing.T) {
	app, clock := newTestApp(t, options{})

	tick(app, clock, 2)
	seq := app.Sequencer()
	if seq == nil || !seq.Playing() {
		t.Fatalf("the demo script must start playback")
	}
	if got := seq.Groups()[seq.Group()]; got != "day" {
		t.Fatalf("expected the day group, got %s", got)
	}

	// three runs of a three second timeline
	if ended := tick(app, clock, 60*10); ended != 3 {
		t.Fatalf("expected three runs, got %d", ended)
	}
	if got := seq.Groups()[seq.Group()]; got != "night" {
		t.Fatalf("expected the night group after the second run, got %s", got)
	}
	if seq.State() != timeline.Stopped {
		t.Fatalf("expected stopped, got %v", seq.State())
	}
}

func TestCommandsReachTheTimeline(t *testing.T) {
	app, clock := newTestApp(t, options{script: "missing.tengo", group: "night"})
	seq := app.Sequencer()
	if got := seq.Groups()[seq.Group()]; got != "night" {
		t.Fatalf("group flag must select night, got %s", got)
	}

	app.queue.Push(control.Command{Op: control.OpSeek, Value: 1.5})
	tick(app, clock, 1)
	snap := app.queue.Snapshot()
	if !snap.Loaded || snap.State != "paused" || snap.Time != 1.5 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	app.queue.Push(control.Command{Op: control.OpPlay})
	tick(app, clock, 30)
	if !seq.Playing() || seq.Time() <= 1.5 {
		t.Fatalf("expected playback past 1.5, got playing=%v t=%v", seq.Playing(), seq.Time())
	}

	app.queue.Push(control.Command{Op: control.OpStop})
	tick(app, clock, 1)
	if seq.State() != timeline.Stopped || !app.Ended() {
		t.Fatalf("stop must end playback, state=%v ended=%v", seq.State(), app.Ended())
	}
}

func TestReloadCommandRebuildsScene(t *testing.T) {
	app, clock := newTestApp(t, options{script: "missing.tengo"})
	before := app.reloader.Scene()

	app.queue.Push(control.Command{Op: control.OpReload})
	tick(app, clock, 1)

	after := app.reloader.Scene()
	if after == before || after == nil {
		t.Fatalf("reload must build a new scene")
	}
	if app.Sequencer() != after.Sequencer {
		t.Fatalf("commands must reach the reloaded timeline")
	}
}
