package timeline

import "errors"

var (
	ErrLive         = errors.New("timeline: tracks cannot change while playing")
	ErrNegative     = errors.New("timeline: start and duration must not be negative")
	ErrNilTrack     = errors.New("timeline: track is nil")
	ErrForeignTrack = errors.New("timeline: track belongs to another sequencer")
	ErrUnknownTrack = errors.New("timeline: track not in sequencer")
	ErrGroupRange   = errors.New("timeline: group index out of range")
	ErrKindMismatch = errors.New("timeline: operation does not apply to this track kind")
)
