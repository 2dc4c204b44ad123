package system

import (
	"testing"

	"github.com/milk9111/vitals/combat"
	"github.com/milk9111/vitals/ecs"
	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

const scalingScript = `
hooks := {
	OnIncomingDamage: func(engine, evt, state) {
		state.hits = is_undefined(state.hits) ? 1 : state.hits + 1
		evt.amount = evt.amount * state.hits
		if evt.amount > 50 {
			evt.vetoed = true
		}
	}
}
`

func TestNewScriptObserverHooks(t *testing.T) {
	src := `
hooks := {
	OnKilledOther: func(engine, report, state) {},
	OnIncomingDamage: func(engine, evt, state) {},
	NotANotification: func(engine, evt, state) {}
}
`
	obs, err := NewScriptObserver("test.tengo", []byte(src), zerolog.Nop())
	assert.NilError(t, err)
	assert.Equal(t, obs.Path(), "test.tengo")
	assert.Assert(t, is.DeepEqual(obs.Hooks(), []ecs.Notification{combat.OnIncomingDamage, combat.OnKilledOther}))
}

func TestNewScriptObserverErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"compile", "hooks := {", "compile"},
		{"runtime", "hooks := {}\nx := len(hooks) / 0", "init"},
		{"no_hooks", "hooks := {Unknown: func(a, b, c) {}}", "no known notification"},
		{"hooks_missing", "y := 1", "compile"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewScriptObserver(tc.name+".tengo", []byte(tc.src), zerolog.Nop())
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestScriptObserverModifiesIncomingDamage(t *testing.T) {
	obs, err := NewScriptObserver("scaling.tengo", []byte(scalingScript), zerolog.Nop())
	assert.NilError(t, err)

	w := ecs.NewWorld()
	a := w.CreateEntity()
	b := w.CreateEntity()
	ha, _ := combat.AttachHealth(w, a, 100)
	hb, _ := combat.AttachHealth(w, b, 100)
	assert.Equal(t, len(obs.Attach(w, a)), 1)
	obs.Attach(w, b)

	// Each entity keeps its own hit counter.
	assert.Assert(t, ha.ApplyDamage(combat.NewDamageEvent(10)))
	assert.Equal(t, ha.Current, 90)
	assert.Assert(t, ha.ApplyDamage(combat.NewDamageEvent(10)))
	assert.Equal(t, ha.Current, 70)
	assert.Assert(t, hb.ApplyDamage(combat.NewDamageEvent(10)))
	assert.Equal(t, hb.Current, 90)

	evt := combat.NewDamageEvent(20)
	assert.Assert(t, !ha.ApplyDamage(evt))
	assert.Assert(t, evt.Vetoed)
	assert.Equal(t, evt.Amount, 60.0)
	assert.Equal(t, ha.Current, 70)
}

func TestScriptObserverWritesOnlyDuringIncoming(t *testing.T) {
	src := `
hooks := {
	OnTakeDamage: func(engine, evt, state) {
		evt.amount = 999
		evt.vetoed = true
	}
}
`
	obs, err := NewScriptObserver("late.tengo", []byte(src), zerolog.Nop())
	assert.NilError(t, err)

	w := ecs.NewWorld()
	e := w.CreateEntity()
	h, _ := combat.AttachHealth(w, e, 10)
	obs.Attach(w, e)

	evt := combat.NewDamageEvent(3)
	assert.Assert(t, h.ApplyDamage(evt))
	assert.Equal(t, evt.Amount, 3.0)
	assert.Assert(t, !evt.Vetoed)
	assert.Equal(t, h.Current, 7)
}

func TestScriptObserverQueuesDamage(t *testing.T) {
	obs, err := LoadScriptObserver("scripts/thorns.tengo", zerolog.Nop())
	assert.NilError(t, err)

	w := ecs.NewWorld()
	attacker := w.CreateEntity()
	victim := w.CreateEntity()
	combat.AttachHealth(w, attacker, 10)
	h, _ := combat.AttachHealth(w, victim, 10)
	obs.Attach(w, victim)

	assert.Assert(t, h.ApplyDamage(combat.NewDamageEvent(4, combat.WithAttacker(attacker))))
	queued := w.Events().DrainType(combat.DamageRequestEvent)
	assert.Equal(t, len(queued), 1)
	req := queued[0].Data.(*combat.DamageRequest)
	assert.Equal(t, req.Victim, attacker)
	assert.Equal(t, req.Event.Amount, 2.0)
	src, ok := req.Event.Attacker.Get()
	assert.Assert(t, ok)
	assert.Equal(t, src, victim)

	// No attacker, nothing reflected.
	assert.Assert(t, h.ApplyDamage(combat.NewDamageEvent(4)))
	assert.Equal(t, w.Events().Len(), 0)
}

func TestScriptObserverAlive(t *testing.T) {
	src := `
hooks := {
	OnIncomingDamage: func(engine, evt, state) {
		if !is_undefined(evt.attacker) && !engine.alive(evt.attacker) {
			evt.vetoed = true
		}
	}
}
`
	obs, err := NewScriptObserver("ghost.tengo", []byte(src), zerolog.Nop())
	assert.NilError(t, err)

	w := ecs.NewWorld()
	ghost := w.CreateEntity()
	living := w.CreateEntity()
	victim := w.CreateEntity()
	hg, _ := combat.AttachHealth(w, ghost, 5)
	hg.Current = 0
	combat.AttachHealth(w, living, 5)
	h, _ := combat.AttachHealth(w, victim, 10)
	obs.Attach(w, victim)

	assert.Assert(t, !h.ApplyDamage(combat.NewDamageEvent(1, combat.WithAttacker(ghost))))
	assert.Assert(t, h.ApplyDamage(combat.NewDamageEvent(1, combat.WithAttacker(living))))
	assert.Equal(t, h.Current, 9)
}

func TestScriptObserverReportHooks(t *testing.T) {
	obs, err := LoadScriptObserver("bloodlust.tengo", zerolog.Nop())
	assert.NilError(t, err)
	assert.Assert(t, is.DeepEqual(obs.Hooks(), []ecs.Notification{combat.OnIncomingDamage, combat.OnKilledOther}))

	w := ecs.NewWorld()
	knight := w.CreateEntity()
	hk, _ := combat.AttachHealth(w, knight, 30)
	obs.Attach(w, knight)

	// Weak hits land until the third kill.
	for i := 0; i < 3; i++ {
		assert.Assert(t, hk.ApplyDamage(combat.NewDamageEvent(1)))
		victim := w.CreateEntity()
		hv, _ := combat.AttachHealth(w, victim, 1)
		assert.Assert(t, hv.ApplyDamage(combat.NewDamageEvent(1, combat.WithAttacker(knight))))
	}
	assert.Equal(t, hk.Current, 27)

	assert.Assert(t, !hk.ApplyDamage(combat.NewDamageEvent(1.5)))
	assert.Assert(t, hk.ApplyDamage(combat.NewDamageEvent(2)))
	assert.Equal(t, hk.Current, 25)
}

func TestScriptObserverHookErrorIsLogged(t *testing.T) {
	src := `
hooks := {
	OnTakeDamage: func(engine, evt, state) {
		x := evt.victim / 0
	}
}
`
	obs, err := NewScriptObserver("boom.tengo", []byte(src), zerolog.Nop())
	assert.NilError(t, err)

	w := ecs.NewWorld()
	e := w.CreateEntity()
	h, _ := combat.AttachHealth(w, e, 10)
	obs.Attach(w, e)

	assert.Assert(t, h.ApplyDamage(combat.NewDamageEvent(2)))
	assert.Equal(t, h.Current, 8)
}
