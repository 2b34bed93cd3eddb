package timeline

// SetRecording arms the next SaveState call.
func (s *Sequencer) SetRecording(recording bool) {
	s.recording = recording
}

func (s *Sequencer) Recording() bool {
	return s.recording
}

// SaveState captures every target's current state as the baseline restored by
// ResetState. It only runs when recording is set and clears the flag, so each
// request captures exactly once.
func (s *Sequencer) SaveState() {
	if !s.recording {
		return
	}
	for _, t := range s.tracks.all() {
		if !alive(t.target) {
			continue
		}
		switch t.kind {
		case KindActive:
			t.active.original = t.target.ActiveSelf()
		case KindMotion:
			t.motion.originalOffset = t.target.LocalOffset()
		case KindSound:
		}
	}
	s.recording = false
}

// ResetState writes every baseline back. Tracks are restored latest start
// first so that when several tracks drive the same property, the earliest
// track's baseline is written last.
func (s *Sequencer) ResetState() {
	for _, t := range s.tracks.restoreOrder() {
		s.restore(t)
	}
}

// restore writes one track's baseline back and disarms it.
func (s *Sequencer) restore(t *Track) {
	switch t.kind {
	case KindActive:
		if alive(t.target) {
			t.target.SetActive(t.active.original)
		}
	case KindMotion:
		s.resetMotion(t)
	case KindSound:
		t.sound.loop = 0
		if t.sound.sounding != nil {
			t.sound.sounding.Stop()
			t.sound.sounding = nil
		}
	}
	t.armed = false
}

func (s *Sequencer) resetMotion(t *Track) {
	m := &t.motion
	m.loop = 0
	if alive(t.target) {
		t.target.SetLocalOffset(m.originalOffset)
	}

	if s.context == ContextLive {
		if m.animator != nil {
			restoreHandoff(m.animator, m.displaced)
			m.displaced = nil
			m.animator.Rebind()
			m.animator.SetSpeed(1)
		}
		return
	}

	if m.clip != nil && alive(t.target) {
		m.clip.Sample(t.target, 0)
	}
}
