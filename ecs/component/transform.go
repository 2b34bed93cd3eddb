package component

import "github.com/jakecoffman/cp"

// Transform is the local placement of an object relative to its parent.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

func (t *Transform) Offset() cp.Vector {
	return cp.Vector{X: t.X, Y: t.Y}
}

func (t *Transform) SetOffset(v cp.Vector) {
	t.X = v.X
	t.Y = v.Y
}

var TransformComponent = NewComponent[Transform]()
