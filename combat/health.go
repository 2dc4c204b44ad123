package combat

import (
	"github.com/milk9111/vitals/ecs"
	"github.com/milk9111/vitals/ecs/component"
)

// Health is the hit point pool of one entity.
//
// Max is a reference value only: Current is never clamped to it and may go
// negative on overkill. Current and Max may be written directly (e.g. to
// heal); such writes are not validated and fire no notifications.
type Health struct {
	Max     int
	Current int

	// Owner is the entity this pool belongs to; reports name it as victim.
	Owner ecs.Entity
	// Notify delivers notifications. Nil behaves like an empty registry.
	Notify Dispatcher
}

var HealthComponent = component.NewComponent[Health]()

// NewHealth creates a full Health for owner.
func NewHealth(owner ecs.Entity, max int, notify Dispatcher) *Health {
	return &Health{Max: max, Current: max, Owner: owner, Notify: notify}
}

// AttachHealth adds a full Health to e that notifies through w's observers.
func AttachHealth(w *ecs.World, e ecs.Entity, max int) (*Health, error) {
	h := NewHealth(e, max, w.Observers())
	if err := ecs.Add(w, e, HealthComponent.Kind(), h); err != nil {
		return nil, err
	}
	return h, nil
}

// Alive reports whether Current is above zero.
func (h *Health) Alive() bool {
	return h != nil && h.Current > 0
}

// ApplyDamage runs one damage exchange and reports whether health changed.
//
// It returns false without side effects when the owner is already dead, and
// false after OnIncomingDamage when an observer vetoed the event. Otherwise
// Current drops by evt.Amount truncated toward zero and the victim gets
// OnTakeDamage, the attacker (if any) gets OnDamageDealt, then on death the
// victim gets OnKilled and the attacker gets OnKilledOther with the same
// report. Observers run synchronously and may call ApplyDamage again.
func (h *Health) ApplyDamage(evt *DamageEvent) bool {
	if h == nil || evt == nil || !h.Alive() {
		return false
	}

	h.dispatch(h.Owner, OnIncomingDamage, evt)
	if evt.Vetoed {
		return false
	}

	h.Current -= int(evt.Amount)

	h.dispatch(h.Owner, OnTakeDamage, evt)

	attacker, hasAttacker := evt.Attacker.Get()
	var report *DamageReport
	if hasAttacker {
		report = &DamageReport{Victim: h.Owner, Event: evt}
		h.dispatch(attacker, OnDamageDealt, report)
	}

	if !h.Alive() {
		h.dispatch(h.Owner, OnKilled, evt)
		if hasAttacker {
			h.dispatch(attacker, OnKilledOther, report)
		}
	}

	return true
}

func (h *Health) dispatch(target ecs.Entity, name ecs.Notification, payload any) {
	if h.Notify == nil {
		return
	}
	h.Notify.Dispatch(target, name, payload)
}
