package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/vitals/combat"
	"github.com/milk9111/vitals/ecs"
	"github.com/milk9111/vitals/ecs/component"
)

const defaultKnockbackMaxDeltaV = 28.0

// AttachKnockback subscribes an OnTakeDamage observer on e that pushes e's
// physics body by the event impulse. Only X and Y are used; the space is 2D.
func AttachKnockback(w *ecs.World, e ecs.Entity) ecs.Subscription {
	return combat.ObserveDamage(w.Observers(), e, combat.OnTakeDamage, func(evt *combat.DamageEvent) {
		applyKnockback(w, e, evt)
	})
}

func applyKnockback(w *ecs.World, e ecs.Entity, evt *combat.DamageEvent) {
	if !ecs.Has(w, e, component.KnockbackableComponent.Kind()) {
		return
	}
	if evt.Impulse.IsZero() {
		return
	}
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil || body.Static {
		return
	}
	impulse := cp.Vector{X: evt.Impulse.X, Y: evt.Impulse.Y}
	length := impulse.Length()
	if length <= 1e-6 {
		return
	}

	maxDeltaV := defaultKnockbackMaxDeltaV
	if kb, ok := ecs.Get(w, e, component.KnockbackableComponent.Kind()); ok && kb.MaxDeltaV > 0 {
		maxDeltaV = kb.MaxDeltaV
	}

	before := body.Body.Velocity()
	body.Body.ApplyImpulseAtWorldPoint(impulse, body.Body.Position())

	// Cap the velocity change along the impulse direction so stacked hits
	// don't launch the body.
	n := impulse.Mult(1 / length)
	after := body.Body.Velocity()
	delta := after.Sub(before)
	along := delta.Dot(n)
	if along > maxDeltaV {
		body.Body.SetVelocityVector(after.Sub(n.Mult(along - maxDeltaV)))
	}
}

// PhysicsSystem steps the world's chipmunk space by a fixed timestep.
type PhysicsSystem struct {
	Step float64
}

func NewPhysicsSystem(step float64) *PhysicsSystem {
	if step <= 0 {
		step = 1.0 / 60.0
	}
	return &PhysicsSystem{Step: step}
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	w.PhysicsWorld().Step(s.Step)
}
