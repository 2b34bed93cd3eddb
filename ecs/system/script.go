package system

import (
	"log"

	"github.com/milk9111/sequencer/ecs"
)

// Script is a per-frame controller, usually a director script.
type Script interface {
	Update(frame int) error
	Ended(sequencer string) error
}

// ScriptSystem runs a script every frame and forwards end-of-playback events
// seen in the same frame. A failing script is disabled after logging.
type ScriptSystem struct {
	script   Script
	frame    int
	disabled bool
}

func NewScriptSystem(script Script) *ScriptSystem {
	return &ScriptSystem{script: script}
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if s == nil || s.script == nil || s.disabled {
		return
	}
	for _, evt := range w.Events().Pending() {
		ended, ok := evt.Data.(EndedEvent)
		if !ok {
			continue
		}
		if err := s.script.Ended(ended.Sequencer); err != nil {
			s.fail(err)
			return
		}
	}
	if err := s.script.Update(s.frame); err != nil {
		s.fail(err)
		return
	}
	s.frame++
}

func (s *ScriptSystem) fail(err error) {
	log.Printf("script: disabled after error: %v", err)
	s.disabled = true
}

func (s *ScriptSystem) Disabled() bool {
	return s != nil && s.disabled
}
