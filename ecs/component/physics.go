package component

import "github.com/jakecoffman/cp"

// PhysicsBody is a kinematic Chipmunk body that follows the object's transform.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Width  float64
	Height float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
