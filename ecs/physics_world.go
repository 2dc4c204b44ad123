package ecs

import "github.com/jakecoffman/cp"

// PhysicsWorld owns the Chipmunk space and the bodies created for entities.
type PhysicsWorld struct {
	space  *cp.Space
	bodies map[Entity]*cp.Body
	shapes map[Entity]*cp.Shape
}

// NewPhysicsWorld creates a space with the given vertical gravity.
func NewPhysicsWorld(gravityY float64) *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravityY})
	return &PhysicsWorld{
		space:  space,
		bodies: make(map[Entity]*cp.Body),
		shapes: make(map[Entity]*cp.Shape),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// AddBox creates a dynamic box body for e, replacing any previous one.
func (pw *PhysicsWorld) AddBox(e Entity, mass, width, height float64) (*cp.Body, *cp.Shape) {
	if pw == nil || pw.space == nil || !e.Valid() {
		return nil, nil
	}
	if mass <= 0 {
		mass = 1
	}
	if width <= 0 {
		width = 32
	}
	if height <= 0 {
		height = 32
	}
	pw.Remove(e)

	body := pw.space.AddBody(cp.NewBody(mass, cp.MomentForBox(mass, width, height)))
	shape := pw.space.AddShape(cp.NewBox(body, width, height, 0))
	pw.bodies[e] = body
	pw.shapes[e] = shape
	return body, shape
}

// Body returns the body created for e.
func (pw *PhysicsWorld) Body(e Entity) (*cp.Body, bool) {
	if pw == nil {
		return nil, false
	}
	b, ok := pw.bodies[e]
	return b, ok
}

// Remove deletes e's body and shape from the space.
func (pw *PhysicsWorld) Remove(e Entity) {
	if pw == nil {
		return
	}
	if shape, ok := pw.shapes[e]; ok {
		pw.space.RemoveShape(shape)
		delete(pw.shapes, e)
	}
	if body, ok := pw.bodies[e]; ok {
		pw.space.RemoveBody(body)
		delete(pw.bodies, e)
	}
}

// Step advances the simulation by dt seconds.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}
