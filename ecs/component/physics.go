package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data for an entity that can be pushed
// around by damage impulses.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Width  float64
	Height float64
	Mass   float64
	Static bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
