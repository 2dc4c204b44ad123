package ecs

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestPhysicsBodiesFollowEntities(t *testing.T) {
	w := NewWorld()
	pw := NewPhysicsWorld(0)
	w.SetPhysicsWorld(pw)
	e := CreateEntity(w)

	body, shape := pw.AddBox(e, 2, 16, 16)
	assert.Assert(t, body != nil)
	assert.Assert(t, shape != nil)
	assert.Equal(t, body.Mass(), 2.0)
	assert.Assert(t, pw.Space() != nil)

	got, ok := pw.Body(e)
	assert.Assert(t, ok)
	assert.Assert(t, got == body)

	DestroyEntity(w, e)
	_, ok = pw.Body(e)
	assert.Assert(t, !ok)
}

func TestPhysicsStepMovesBodies(t *testing.T) {
	pw := NewPhysicsWorld(0)
	e := makeEntity(1, 0)
	body, _ := pw.AddBox(e, 1, 8, 8)
	body.SetVelocity(10, 0)

	pw.Step(0.5)
	assert.Assert(t, body.Position().X > 0)
}

func TestNilPhysicsWorld(t *testing.T) {
	var pw *PhysicsWorld
	assert.Assert(t, pw.Space() == nil)
	body, shape := pw.AddBox(makeEntity(1, 0), 1, 1, 1)
	assert.Assert(t, body == nil && shape == nil)
	pw.Remove(makeEntity(1, 0))
	pw.Step(1)
}
