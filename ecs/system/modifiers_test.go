package system

import (
	"testing"

	"github.com/milk9111/vitals/combat"
	"github.com/milk9111/vitals/ecs"
	"github.com/milk9111/vitals/ecs/component"
	"gotest.tools/v3/assert"
)

func TestResist(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		r      component.Resistance
		want   float64
	}{
		{"none", 10, component.Resistance{}, 10},
		{"flat", 10, component.Resistance{Flat: 3}, 7},
		{"ratio", 10, component.Resistance{Ratio: 0.5}, 5},
		{"flat_then_ratio", 10, component.Resistance{Flat: 2, Ratio: 0.25}, 6},
		{"flat_floors_at_zero", 2, component.Resistance{Flat: 5}, 0},
		{"ratio_clamped", 10, component.Resistance{Ratio: 3}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, Resist(tc.amount, tc.r), tc.want)
		})
	}
}

func TestAttachResistance(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	h, err := combat.AttachHealth(w, e, 20)
	assert.NilError(t, err)
	assert.NilError(t, ecs.Add(w, e, component.ResistanceComponent.Kind(), &component.Resistance{Flat: 1, Ratio: 0.5}))
	AttachResistance(w, e)

	assert.Assert(t, h.ApplyDamage(combat.NewDamageEvent(9)))
	assert.Equal(t, h.Current, 16)

	// Full absorption still counts as applied damage.
	r, _ := ecs.Get(w, e, component.ResistanceComponent.Kind())
	r.Flat = 100
	assert.Assert(t, h.ApplyDamage(combat.NewDamageEvent(9)))
	assert.Equal(t, h.Current, 16)
}

func TestAttachInvulnerable(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewInvulnerabilitySystem())
	e := w.CreateEntity()
	h, err := combat.AttachHealth(w, e, 10)
	assert.NilError(t, err)
	assert.NilError(t, ecs.Add(w, e, component.InvulnerableComponent.Kind(), &component.Invulnerable{Frames: 2}))
	AttachInvulnerable(w, e)

	assert.Assert(t, !h.ApplyDamage(combat.NewDamageEvent(5)))
	assert.Equal(t, h.Current, 10)

	w.Update()
	assert.Assert(t, ecs.Has(w, e, component.InvulnerableComponent.Kind()))
	w.Update()
	assert.Assert(t, !ecs.Has(w, e, component.InvulnerableComponent.Kind()))

	assert.Assert(t, h.ApplyDamage(combat.NewDamageEvent(5)))
	assert.Equal(t, h.Current, 5)
}

func TestIndefiniteInvulnerabilityStays(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewInvulnerabilitySystem())
	e := w.CreateEntity()
	assert.NilError(t, ecs.Add(w, e, component.InvulnerableComponent.Kind(), &component.Invulnerable{}))

	for i := 0; i < 5; i++ {
		w.Update()
	}
	assert.Assert(t, ecs.Has(w, e, component.InvulnerableComponent.Kind()))
}
