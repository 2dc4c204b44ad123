package system

import (
	"math"

	"github.com/milk9111/vitals/combat"
	"github.com/milk9111/vitals/ecs"
	"github.com/milk9111/vitals/ecs/component"
)

// AttachResistance subscribes an OnIncomingDamage observer on e that reduces
// the amount by e's Resistance component. The component is read on every
// event, so later changes to it apply immediately.
func AttachResistance(w *ecs.World, e ecs.Entity) ecs.Subscription {
	return combat.ObserveDamage(w.Observers(), e, combat.OnIncomingDamage, func(evt *combat.DamageEvent) {
		r, ok := ecs.Get(w, e, component.ResistanceComponent.Kind())
		if !ok || evt.Amount <= 0 {
			return
		}
		evt.Amount = Resist(evt.Amount, *r)
	})
}

// Resist applies flat then ratio reduction and never returns less than zero.
func Resist(amount float64, r component.Resistance) float64 {
	ratio := math.Min(math.Max(r.Ratio, 0), 1)
	return math.Max(amount-r.Flat, 0) * (1 - ratio)
}

// AttachInvulnerable subscribes an OnIncomingDamage observer on e that vetoes
// every event while e has an Invulnerable component.
func AttachInvulnerable(w *ecs.World, e ecs.Entity) ecs.Subscription {
	return combat.ObserveDamage(w.Observers(), e, combat.OnIncomingDamage, func(evt *combat.DamageEvent) {
		if ecs.Has(w, e, component.InvulnerableComponent.Kind()) {
			evt.Vetoed = true
		}
	})
}

// InvulnerabilitySystem counts down timed Invulnerable components and removes
// them when they expire.
type InvulnerabilitySystem struct{}

func NewInvulnerabilitySystem() *InvulnerabilitySystem {
	return &InvulnerabilitySystem{}
}

func (s *InvulnerabilitySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.InvulnerableComponent.Kind(), func(e ecs.Entity, inv *component.Invulnerable) {
		if inv.Frames <= 0 {
			return
		}
		inv.Frames--
		if inv.Frames == 0 {
			ecs.Remove(w, e, component.InvulnerableComponent.Kind())
		}
	})
}
