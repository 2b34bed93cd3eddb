package timeline

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestReverseOrderRestore(t *testing.T) {
	clock := &manualClock{}
	seq := New(Config{Clock: clock})
	ended := 0
	seq.OnEnded(func() { ended++ })

	target := newFakeTarget(true)
	a := NewActiveTrack(0, 5, target, false)
	b := NewActiveTrack(2, 1, target, true)
	// b was authored while a kept the object hidden
	if err := b.SetOriginalActive(false); err != nil {
		t.Fatalf("SetOriginalActive: %v", err)
	}
	mustAdd(t, seq, a, b)

	seq.Play()
	for _, now := range []float64{1, 2.5, 4} {
		clock.now = now
		seq.Update()
	}
	seq.Stop()

	if !target.active {
		t.Fatalf("expected the earliest track's baseline to win, got active=%v", target.active)
	}
	if ended != 1 {
		t.Fatalf("expected one ended notification, got %d", ended)
	}
	for _, tr := range []*Track{a, b} {
		if tr.Armed() {
			t.Fatalf("%v still armed after stop", tr)
		}
	}
}

func TestSaveStateRequiresRecording(t *testing.T) {
	seq := New(Config{Clock: &manualClock{}})
	target := newFakeTarget(true)
	target.offset = cp.Vector{X: 1, Y: 1}
	active := NewActiveTrack(0, 1, target, false)
	motion := NewMotionTrack(0, 1, target, &fakeMotionClip{name: "m", length: 1})
	mustAdd(t, seq, active, motion)

	target.active = false
	target.offset = cp.Vector{X: 9, Y: 9}

	seq.SaveState()
	if !active.OriginalActive() || motion.OriginalOffset() != (cp.Vector{X: 1, Y: 1}) {
		t.Fatalf("save without recording must not capture")
	}

	seq.SetRecording(true)
	seq.SaveState()
	if active.OriginalActive() || motion.OriginalOffset() != (cp.Vector{X: 9, Y: 9}) {
		t.Fatalf("save with recording must capture the current state")
	}
	if seq.Recording() {
		t.Fatalf("save must clear the recording flag")
	}

	target.active = true
	seq.SaveState()
	if active.OriginalActive() {
		t.Fatalf("second save must not capture again")
	}
}

func TestPlayFromZeroCapturesBaseline(t *testing.T) {
	clock := &manualClock{}
	seq := New(Config{Clock: clock})
	target := newFakeTarget(true)
	track := NewActiveTrack(1, 1, target, true)
	mustAdd(t, seq, track)

	target.active = false
	seq.SetRecording(true)
	seq.SetTime(0.5)
	seq.Play()
	if track.OriginalActive() != true {
		t.Fatalf("play away from zero must not capture")
	}
	if !seq.Recording() {
		t.Fatalf("recording flag must survive a play away from zero")
	}

	seq.Stop()
	target.active = false
	seq.Play()
	if track.OriginalActive() {
		t.Fatalf("play from zero must capture the baseline")
	}
}

func TestHandoffRestoresDisplacedController(t *testing.T) {
	clock := &manualClock{}
	rig := newFakeRig()
	seq := New(Config{Rig: rig, Clock: clock})

	target := newFakeTarget(true)
	target.offset = cp.Vector{X: 3, Y: 4}
	base := &fakeController{name: "base"}
	rig.animators[target] = &fakeAnimator{controller: base, speed: 1}

	a := NewMotionTrack(0, 2, target, &fakeMotionClip{name: "a", length: 2})
	b := NewMotionTrack(1, 2, target, &fakeMotionClip{name: "b", length: 2})
	mustAdd(t, seq, a, b)

	seq.Play()
	animator := rig.animators[target]
	override, ok := animator.controller.(*OverrideController)
	if !ok || override.Base != base {
		t.Fatalf("expected an override over the base controller, got %v", animator.controller)
	}
	if a.Displaced() != base {
		t.Fatalf("first handoff must remember the base controller")
	}

	target.offset = cp.Vector{X: 50, Y: 50}
	seq.SetTime(1.5)
	if b.Displaced() != nil {
		t.Fatalf("second handoff must not capture an override as displaced")
	}
	if a.Displaced() != base {
		t.Fatalf("displaced controller must not be re-captured")
	}
	if target.offset != (cp.Vector{X: 3, Y: 4}) {
		t.Fatalf("enter must put the target back at its baseline offset")
	}
	if cur := animator.controller.(*OverrideController); cur.Base != base || cur.Clip.Name() != "b" {
		t.Fatalf("override must stack on the base, got %v", cur.Name())
	}

	target.offset = cp.Vector{X: 7, Y: 7}
	seq.Stop()
	if animator.controller != base {
		t.Fatalf("stop must restore the base controller, got %v", animator.controller)
	}
	if a.Displaced() != nil {
		t.Fatalf("restore must clear the displaced controller")
	}
	if animator.speed != 1 || animator.rebinds == 0 {
		t.Fatalf("stop must rebind at normal speed, speed=%v rebinds=%d", animator.speed, animator.rebinds)
	}
	if target.offset != (cp.Vector{X: 3, Y: 4}) {
		t.Fatalf("stop must restore the baseline offset, got %v", target.offset)
	}
}

func TestSoundKeepsOneSoundingPlayer(t *testing.T) {
	clock := &manualClock{}
	rig := newFakeRig()
	seq := New(Config{Rig: rig, Clock: clock})

	target := newFakeTarget(true)
	track := NewSoundTrack(0, 5, target, &fakeSoundClip{name: "hum", length: 4})
	mustAdd(t, seq, track)

	seq.Play()
	source := rig.sources[target]
	if len(source.plays) != 1 || source.plays[0] != 0 {
		t.Fatalf("expected one play at 0, got %v", source.plays)
	}
	if track.Sounding() == nil {
		t.Fatalf("playing track must keep its sounding source")
	}

	seq.SetTime(1.5)
	if source.stops != 1 || len(source.plays) != 2 || source.plays[1] != 1.5 {
		t.Fatalf("seek must stop then restart at 1.5, stops=%d plays=%v", source.stops, source.plays)
	}

	seq.Pause()
	if source.stops != 2 || source.pauses != 1 {
		t.Fatalf("pause must stop the sounding source and pause, stops=%d pauses=%d", source.stops, source.pauses)
	}
	if track.Sounding() != nil {
		t.Fatalf("paused track must not keep a sounding source")
	}

	seq.Play()
	seq.Stop()
	if track.Sounding() != nil || track.LoopIndex() != 0 {
		t.Fatalf("stop must detach the sounding source and reset the loop")
	}
	if source.stops != 3 {
		t.Fatalf("stop must silence the source, stops=%d", source.stops)
	}
}

func TestSoundLoopRestarts(t *testing.T) {
	rig := newFakeRig()
	seq := New(Config{Rig: rig, Clock: &manualClock{}})

	target := newFakeTarget(true)
	track := NewSoundTrack(0, 5, target, &fakeSoundClip{name: "hum", length: 2})
	mustAdd(t, seq, track)

	seq.Play()
	seq.Evaluate(1, Tick)
	seq.Evaluate(2, Tick)
	if track.LoopIndex() != 1 || track.Armed() {
		t.Fatalf("crossing the clip end must advance the loop and disarm, loop=%d", track.LoopIndex())
	}
	seq.Evaluate(2.5, Tick)

	source := rig.sources[target]
	if len(source.plays) != 2 || source.plays[1] != 0.5 {
		t.Fatalf("expected a restart at 0.5, got %v", source.plays)
	}
	if source.stops != 1 {
		t.Fatalf("restart must stop the previous player first, stops=%d", source.stops)
	}

	// a seek back into an earlier loop must not start a second player
	seq.SetTime(0.5)
	if len(source.plays) != 2 {
		t.Fatalf("seek to an earlier loop restarted sound: %v", source.plays)
	}
}

func TestSoundShorterThanClipDoesNotLoop(t *testing.T) {
	seq := New(Config{Rig: newFakeRig(), Clock: &manualClock{}})
	track := NewSoundTrack(0, 1.5, newFakeTarget(true), &fakeSoundClip{name: "blip", length: 2})
	mustAdd(t, seq, track)

	seq.Play()
	seq.Evaluate(1, Tick)
	if track.LoopIndex() != 0 || !track.Armed() {
		t.Fatalf("short track must stay armed on loop 0")
	}
}

func TestRemoveRestoresTrack(t *testing.T) {
	rig := newFakeRig()
	seq := New(Config{Rig: rig, Clock: &manualClock{}})

	door := newFakeTarget(true)
	hide := NewActiveTrack(0, 4, door, false)

	walker := newFakeTarget(true)
	walker.offset = cp.Vector{X: 1, Y: 2}
	base := &fakeController{name: "base"}
	rig.animators[walker] = &fakeAnimator{controller: base, speed: 1}
	walk := NewMotionTrack(0, 4, walker, &fakeMotionClip{name: "walk", length: 4})

	mustAdd(t, seq, hide, walk)

	seq.Play()
	seq.Pause()
	seq.SetTime(2)
	if door.active {
		t.Fatalf("expected the door hidden inside the window")
	}
	if _, ok := rig.animators[walker].controller.(*OverrideController); !ok {
		t.Fatalf("expected the walk clip bound")
	}
	walker.offset = cp.Vector{X: 9, Y: 9}

	tests := []struct {
		name  string
		track *Track
		check func(t *testing.T)
	}{
		{"active", hide, func(t *testing.T) {
			if !door.active {
				t.Fatalf("removed active track must restore its baseline")
			}
		}},
		{"motion", walk, func(t *testing.T) {
			if got := rig.animators[walker].controller; got != base {
				t.Fatalf("removed motion track must hand back the base controller, got %v", got)
			}
			if walker.offset != (cp.Vector{X: 1, Y: 2}) {
				t.Fatalf("removed motion track must restore its offset, got %v", walker.offset)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := seq.Remove(tt.track); err != nil {
				t.Fatalf("remove: %v", err)
			}
			tt.check(t)
			if tt.track.Armed() || tt.track.Displaced() != nil {
				t.Fatalf("removed track must be disarmed")
			}
		})
	}
}
