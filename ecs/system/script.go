package system

import (
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/vitals/combat"
	"github.com/milk9111/vitals/ecs"
	"github.com/milk9111/vitals/prefabs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Scripts declare a `hooks` map keyed by notification name. Each hook is
// called as hook(engine, payload, state):
//
//	hooks := {
//		OnIncomingDamage: func(engine, evt, state) {
//			evt.amount = evt.amount / 2
//		}
//	}
//
// Damage payloads are {victim, amount, vetoed, attacker, inflictor, impulse};
// report payloads are {victim, event}. Only amount and vetoed written during
// OnIncomingDamage are copied back to the event. state persists per entity.
const scriptHookDispatch = `
__hook := undefined
if is_map(hooks) {
	__hook = hooks[__phase]
}
if is_callable(__hook) {
	__hook(__engine, __payload, __state)
}
`

// ScriptObserver is a compiled tengo script that can be attached to entities
// as an observer of damage notifications.
type ScriptObserver struct {
	path     string
	compiled *tengo.Compiled
	hooks    []ecs.Notification
	log      zerolog.Logger
}

// LoadScriptObserver loads a script through prefabs.LoadScript and compiles it.
func LoadScriptObserver(path string, logger zerolog.Logger) (*ScriptObserver, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, eris.Wrapf(err, "script %q", path)
	}
	return NewScriptObserver(path, src, logger)
}

// NewScriptObserver compiles src and resolves which notifications it hooks.
func NewScriptObserver(path string, src []byte, logger zerolog.Logger) (*ScriptObserver, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + scriptHookDispatch))
	for _, name := range []string{"__phase", "__engine", "__payload", "__state"} {
		if err := script.Add(name, tengo.UndefinedValue); err != nil {
			return nil, eris.Wrapf(err, "script %q: declare %s", path, name)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, eris.Wrapf(err, "script %q: compile", path)
	}
	// Run once with no phase so the hooks map is populated.
	if err := compiled.Run(); err != nil {
		return nil, eris.Wrapf(err, "script %q: init", path)
	}

	s := &ScriptObserver{
		path:     path,
		compiled: compiled,
		log:      logger.With().Str("script", path).Logger(),
	}
	declared := compiled.Get("hooks").Map()
	for _, name := range combat.Notifications {
		if _, ok := declared[string(name)]; ok {
			s.hooks = append(s.hooks, name)
		}
	}
	if len(s.hooks) == 0 {
		unknown := make([]string, 0, len(declared))
		for k := range declared {
			unknown = append(unknown, k)
		}
		sort.Strings(unknown)
		return nil, eris.Errorf("script %q: no known notification in hooks %v", path, unknown)
	}
	return s, nil
}

// Path returns the script's prefab path.
func (s *ScriptObserver) Path() string {
	return s.path
}

// Hooks returns the notifications the script handles, in protocol order.
func (s *ScriptObserver) Hooks() []ecs.Notification {
	return append([]ecs.Notification(nil), s.hooks...)
}

// Attach subscribes the script's hooks on e. Each attachment gets its own
// copy of the compiled script and its own state map.
func (s *ScriptObserver) Attach(w *ecs.World, e ecs.Entity) []ecs.Subscription {
	rt := &scriptRuntime{
		owner:    s,
		w:        w,
		entity:   e,
		compiled: s.compiled.Clone(),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	rt.engine = rt.buildEngine()

	subs := make([]ecs.Subscription, 0, len(s.hooks))
	for _, name := range s.hooks {
		name := name
		switch name {
		case combat.OnIncomingDamage, combat.OnTakeDamage, combat.OnKilled:
			subs = append(subs, combat.ObserveDamage(w.Observers(), e, name, func(evt *combat.DamageEvent) {
				rt.onDamage(name, evt)
			}))
		case combat.OnDamageDealt, combat.OnKilledOther:
			subs = append(subs, combat.ObserveReport(w.Observers(), e, name, func(r *combat.DamageReport) {
				rt.onReport(name, r)
			}))
		}
	}
	return subs
}

type scriptRuntime struct {
	owner    *ScriptObserver
	w        *ecs.World
	entity   ecs.Entity
	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap
}

func (rt *scriptRuntime) onDamage(name ecs.Notification, evt *combat.DamageEvent) {
	payload := eventToObject(rt.entity, evt)
	if err := rt.run(name, payload); err != nil {
		rt.owner.log.Error().Err(err).Stringer("entity", rt.entity).Str("hook", string(name)).Msg("script hook failed")
		return
	}
	if name != combat.OnIncomingDamage {
		return
	}
	if v, ok := tengo.ToFloat64(payload.Value["amount"]); ok {
		evt.Amount = v
	}
	if v, ok := tengo.ToBool(payload.Value["vetoed"]); ok {
		evt.Vetoed = v
	}
}

func (rt *scriptRuntime) onReport(name ecs.Notification, r *combat.DamageReport) {
	payload := &tengo.Map{Value: map[string]tengo.Object{
		"victim": entityObject(r.Victim),
		"event":  eventToObject(r.Victim, r.Event),
	}}
	if err := rt.run(name, payload); err != nil {
		rt.owner.log.Error().Err(err).Stringer("entity", rt.entity).Str("hook", string(name)).Msg("script hook failed")
	}
}

func (rt *scriptRuntime) run(name ecs.Notification, payload *tengo.Map) error {
	if err := rt.compiled.Set("__phase", string(name)); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", rt.engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__payload", payload); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (rt *scriptRuntime) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["self"] = entityObject(rt.entity)

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		rt.owner.log.Info().Stringer("entity", rt.entity).Msg(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	// queue_damage(target, amount) queues damage from this entity; it is
	// applied by the damage system, never inside the running hook.
	values["queue_damage"] = &tengo.UserFunction{Name: "queue_damage", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		target, ok := tengo.ToInt64(args[0])
		if !ok || target <= 0 {
			return tengo.FalseValue, nil
		}
		amount, ok := tengo.ToFloat64(args[1])
		if !ok {
			return tengo.FalseValue, nil
		}
		combat.QueueDamage(rt.w, ecs.Entity(target), combat.NewDamageEvent(amount, combat.WithAttacker(rt.entity)))
		return tengo.TrueValue, nil
	}}

	values["alive"] = &tengo.UserFunction{Name: "alive", Value: func(args ...tengo.Object) (tengo.Object, error) {
		target := rt.entity
		if len(args) > 0 {
			if id, ok := tengo.ToInt64(args[0]); ok {
				target = ecs.Entity(id)
			}
		}
		h, ok := ecs.Get(rt.w, target, combat.HealthComponent.Kind())
		if ok && h.Alive() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func eventToObject(victim ecs.Entity, evt *combat.DamageEvent) *tengo.Map {
	vetoed := tengo.FalseValue
	if evt.Vetoed {
		vetoed = tengo.TrueValue
	}
	return &tengo.Map{Value: map[string]tengo.Object{
		"victim":    entityObject(victim),
		"amount":    &tengo.Float{Value: evt.Amount},
		"vetoed":    vetoed,
		"attacker":  refObject(evt.Attacker),
		"inflictor": refObject(evt.Inflictor),
		"impulse": &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"x": &tengo.Float{Value: evt.Impulse.X},
			"y": &tengo.Float{Value: evt.Impulse.Y},
			"z": &tengo.Float{Value: evt.Impulse.Z},
		}},
	}}
}

func entityObject(e ecs.Entity) tengo.Object {
	return &tengo.Int{Value: int64(e)}
}

func refObject(r ecs.Ref) tengo.Object {
	e, ok := r.Get()
	if !ok {
		return tengo.UndefinedValue
	}
	return entityObject(e)
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
