package component

// Activation is the self-active flag of an object. Inactive objects are not
// drawn and their animations do not advance.
type Activation struct {
	Active bool
}

var ActivationComponent = NewComponent[Activation]()
