package component

// Name is the authored identifier of a scene object. Timeline files refer to
// objects by it.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()

// SequencerTag marks the entity that carries the Sequencer component.
type SequencerTag struct{}

var SequencerTagComponent = NewComponent[SequencerTag]()
