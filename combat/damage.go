package combat

import (
	"github.com/milk9111/vitals/common"
	"github.com/milk9111/vitals/ecs"
)

// Notifications fired by Health.ApplyDamage. OnIncomingDamage, OnTakeDamage and
// OnKilled go to the victim with a *DamageEvent. OnDamageDealt and
// OnKilledOther go to the attacker with a *DamageReport.
const (
	OnIncomingDamage ecs.Notification = "OnIncomingDamage"
	OnTakeDamage     ecs.Notification = "OnTakeDamage"
	OnKilled         ecs.Notification = "OnKilled"
	OnDamageDealt    ecs.Notification = "OnDamageDealt"
	OnKilledOther    ecs.Notification = "OnKilledOther"
)

// Notifications lists every notification name in protocol order.
var Notifications = []ecs.Notification{
	OnIncomingDamage,
	OnTakeDamage,
	OnDamageDealt,
	OnKilled,
	OnKilledOther,
}

// DamageEvent describes one attempt to damage an entity.
//
// Build a fresh event for every ApplyDamage call. Observers of
// OnIncomingDamage may set Vetoed or adjust Amount; a reused event carries
// those changes into the next exchange.
type DamageEvent struct {
	// Amount is subtracted from health after truncation toward zero.
	Amount float64
	// Inflictor is the object used to deal the damage, e.g. a sword.
	Inflictor ecs.Ref
	// Attacker is credited with the damage and receives reports.
	Attacker ecs.Ref
	// Impulse is left to the victim's observers to interpret.
	Impulse common.Vector3
	// Vetoed discards the event when set during OnIncomingDamage.
	Vetoed bool
}

type DamageOption func(*DamageEvent)

func WithAttacker(e ecs.Entity) DamageOption {
	return func(d *DamageEvent) { d.Attacker = ecs.Present(e) }
}

func WithInflictor(e ecs.Entity) DamageOption {
	return func(d *DamageEvent) { d.Inflictor = ecs.Present(e) }
}

func WithImpulse(v common.Vector3) DamageOption {
	return func(d *DamageEvent) { d.Impulse = v }
}

func NewDamageEvent(amount float64, opts ...DamageOption) *DamageEvent {
	d := &DamageEvent{Amount: amount}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// DamageReport tells an attacker about damage it dealt.
type DamageReport struct {
	Victim ecs.Entity
	Event  *DamageEvent
}

// Dispatcher delivers a notification to the observers of target. It must be
// synchronous and treat a target with no observers as a no-op.
type Dispatcher interface {
	Dispatch(target ecs.Entity, name ecs.Notification, payload any)
}

var _ Dispatcher = (*ecs.Observers)(nil)

// ObserveDamage subscribes fn to a victim-side notification.
func ObserveDamage(obs *ecs.Observers, e ecs.Entity, name ecs.Notification, fn func(*DamageEvent)) ecs.Subscription {
	return ecs.Observe(obs, e, name, fn)
}

// ObserveReport subscribes fn to an attacker-side notification.
func ObserveReport(obs *ecs.Observers, e ecs.Entity, name ecs.Notification, fn func(*DamageReport)) ecs.Subscription {
	return ecs.Observe(obs, e, name, fn)
}
