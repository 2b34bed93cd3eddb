package component

import "github.com/hajimehoshi/ebiten/v2/audio"

// AudioSource is the single sound player of an object. Player is nil when no
// audio context is available; Clip, Position and Playing still track what the
// sequencer asked for.
type AudioSource struct {
	Player   *audio.Player
	Clip     string
	Position float64
	Volume   float64
	Playing  bool
}

var AudioSourceComponent = NewComponent[AudioSource]()
