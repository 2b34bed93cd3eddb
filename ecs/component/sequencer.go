package component

import "github.com/milk9111/sequencer/timeline"

// Sequencer attaches a timeline to the world. The sequencer system ticks it
// once per frame.
type Sequencer struct {
	Name     string
	Timeline *timeline.Sequencer
	AutoPlay bool
}

var SequencerComponent = NewComponent[Sequencer]()
