package main

import (
	"log"
	"sync/atomic"

	"github.com/milk9111/sequencer/control"
	"github.com/milk9111/sequencer/director"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/system"
	"github.com/milk9111/sequencer/specs"
	"github.com/milk9111/sequencer/timeline"
)

// App is everything one frame touches. Both the window and the headless loop
// call Frame once per tick.
type App struct {
	world    *ecs.World
	reloader *specs.Reloader
	queue    *control.Queue
	applier  *control.Applier

	physics *system.PhysicsSystem
	render  *system.RenderSystem
	journal *system.JournalSystem
	script  *scriptSlot
	ends    *endWatcher

	scriptName    string
	scriptChanged atomic.Bool
	frames        int
}

func (a *App) Sequencer() *timeline.Sequencer {
	if s := a.reloader.Scene(); s != nil {
		return s.Sequencer
	}
	return nil
}

// Frame applies queued commands and pending reloads, then runs the world.
func (a *App) Frame() {
	a.frames++

	for _, cmd := range a.queue.Drain() {
		if err := a.applier.Apply(cmd); err != nil {
			log.Printf("sequencer: %s: %v", cmd, err)
		}
	}
	if _, err := a.reloader.Apply(); err != nil {
		log.Printf("sequencer: reload %s: %v", a.reloader.Name(), err)
	}
	if a.scriptChanged.Swap(false) {
		a.loadScript()
	}

	a.world.Update()
	a.queue.Publish(control.Capture(a.reloader.Name(), a.Sequencer()))
}

// Ended reports whether a timeline finished during the last frame.
func (a *App) Ended() bool {
	return a.ends.ended
}

func (a *App) loadScript() {
	if a.scriptName == "" {
		return
	}
	d, err := director.Load(a.scriptName, a.Sequencer)
	if err != nil {
		log.Printf("sequencer: script %s: %v", a.scriptName, err)
		return
	}
	a.script.set(d)
	log.Printf("sequencer: script %s loaded", a.scriptName)
}

// scriptSlot lets the script be swapped without touching the world's system
// list.
type scriptSlot struct {
	current system.Script
}

func (s *scriptSlot) set(script system.Script) { s.current = script }

func (s *scriptSlot) Update(frame int) error {
	if s.current == nil {
		return nil
	}
	return s.current.Update(frame)
}

func (s *scriptSlot) Ended(sequencer string) error {
	if s.current == nil {
		return nil
	}
	return s.current.Ended(sequencer)
}

// endWatcher notes end-of-playback events before the world flushes them.
type endWatcher struct {
	ended bool
}

func (e *endWatcher) Update(w *ecs.World) {
	e.ended = false
	for _, evt := range w.Events().Pending() {
		if evt.Type == ecs.EventTimelineEnded {
			e.ended = true
		}
	}
}
