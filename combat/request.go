package combat

import "github.com/milk9111/vitals/ecs"

// DamageRequestEvent is the world event type carrying a *DamageRequest.
const DamageRequestEvent = "damage_request"

// DamageRequest asks the damage system to apply Event to Victim on the next
// world update.
type DamageRequest struct {
	Victim ecs.Entity
	Event  *DamageEvent
}

// DamageOutcome records what happened to one queued request.
type DamageOutcome struct {
	Victim  ecs.Entity
	Event   *DamageEvent
	Applied bool
	Killed  bool
	// Skipped is set when the victim had no Health component.
	Skipped bool
}

// QueueDamage pushes a request onto w's event queue.
func QueueDamage(w *ecs.World, victim ecs.Entity, evt *DamageEvent) {
	if w == nil || evt == nil {
		return
	}
	w.Events().Push(ecs.Event{
		Type: DamageRequestEvent,
		Data: &DamageRequest{Victim: victim, Event: evt},
	})
}
