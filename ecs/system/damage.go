package system

import (
	"github.com/milk9111/vitals/combat"
	"github.com/milk9111/vitals/ecs"
	"github.com/rs/zerolog"
)

// DamageSystem applies queued damage requests to their victims' Health in
// FIFO order. Requests queued by observers while the queue is being drained
// are applied in the same update.
type DamageSystem struct {
	log  zerolog.Logger
	last []combat.DamageOutcome
}

func NewDamageSystem(logger zerolog.Logger) *DamageSystem {
	return &DamageSystem{log: logger.With().Str("system", "damage").Logger()}
}

func (s *DamageSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.last = s.last[:0]

	for {
		batch := w.Events().DrainType(combat.DamageRequestEvent)
		if len(batch) == 0 {
			return
		}
		for _, evt := range batch {
			req, ok := evt.Data.(*combat.DamageRequest)
			if !ok || req == nil || req.Event == nil {
				continue
			}
			s.last = append(s.last, s.apply(w, req))
		}
	}
}

func (s *DamageSystem) apply(w *ecs.World, req *combat.DamageRequest) combat.DamageOutcome {
	out := combat.DamageOutcome{Victim: req.Victim, Event: req.Event}

	h, ok := ecs.Get(w, req.Victim, combat.HealthComponent.Kind())
	if !ok {
		s.log.Debug().Stringer("victim", req.Victim).Msg("damage request for entity without health")
		out.Skipped = true
		return out
	}

	out.Applied = h.ApplyDamage(req.Event)
	out.Killed = out.Applied && !h.Alive()

	s.log.Debug().
		Stringer("victim", req.Victim).
		Stringer("attacker", req.Event.Attacker).
		Float64("amount", req.Event.Amount).
		Bool("applied", out.Applied).
		Bool("killed", out.Killed).
		Int("health", h.Current).
		Msg("damage request")
	return out
}

// Last returns the outcomes of the most recent Update. The slice is reused by
// the next Update.
func (s *DamageSystem) Last() []combat.DamageOutcome {
	return s.last
}
