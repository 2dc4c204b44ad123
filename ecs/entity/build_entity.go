package entity

import (
	"sort"

	"github.com/milk9111/vitals/combat"
	"github.com/milk9111/vitals/ecs"
	"github.com/milk9111/vitals/ecs/component"
	"github.com/milk9111/vitals/ecs/system"
	"github.com/milk9111/vitals/prefabs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type buildContext struct {
	PrefabPath string
	Log        zerolog.Logger
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"health":       addHealth,
	"resistance":   addResistance,
	"invulnerable": addInvulnerable,
	"physics_body": addPhysicsBody,
	"knockback":    addKnockback,
	"scripts":      addScripts,
}

// Observers run in subscription order, so the build order is also the order
// in which OnIncomingDamage modifiers see an event: invulnerability vetoes
// before resistance reduces, and scripts see the reduced amount.
var componentBuildOrder = []string{
	"health",
	"invulnerable",
	"resistance",
	"physics_body",
	"knockback",
	"scripts",
}

// BuildEntity creates an entity from a prefab. On any error the partially
// built entity is destroyed.
func BuildEntity(w *ecs.World, prefabPath string, logger zerolog.Logger) (ecs.Entity, error) {
	if w == nil {
		return 0, eris.New("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, eris.Wrapf(err, "build entity: load %q", prefabPath)
	}
	if len(spec.Components) == 0 {
		return 0, eris.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{
		PrefabPath: prefabPath,
		Log:        logger.With().Str("prefab", prefabPath).Stringer("entity", e).Logger(),
	}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	names := make([]string, 0, len(remaining))
	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; ok {
			names = append(names, name)
			delete(remaining, name)
		}
	}
	if len(remaining) > 0 {
		unknown := make([]string, 0, len(remaining))
		for name := range remaining {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		ecs.DestroyEntity(w, e)
		return 0, eris.Errorf("build entity: %q: no builder for components %v", prefabPath, unknown)
	}

	for _, name := range names {
		if err := componentRegistry[name](w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, eris.Wrapf(err, "build entity: %q: add %q", prefabPath, name)
		}
	}

	ctx.Log.Debug().Str("name", spec.Name).Strs("components", names).Msg("entity built")
	return e, nil
}

type healthSpec = prefabs.HealthComponentSpec

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[healthSpec](raw)
	if err != nil {
		return eris.Wrap(err, "decode health spec")
	}
	h, err := combat.AttachHealth(w, e, spec.Max)
	if err != nil {
		return err
	}
	if spec.Current != nil {
		h.Current = *spec.Current
	}
	return nil
}

type resistanceSpec = prefabs.ResistanceComponentSpec

func addResistance(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[resistanceSpec](raw)
	if err != nil {
		return eris.Wrap(err, "decode resistance spec")
	}
	if spec.Ratio < 0 || spec.Ratio > 1 {
		return eris.Errorf("resistance ratio %v outside [0, 1]", spec.Ratio)
	}
	if err := ecs.Add(w, e, component.ResistanceComponent.Kind(), &component.Resistance{Flat: spec.Flat, Ratio: spec.Ratio}); err != nil {
		return err
	}
	system.AttachResistance(w, e)
	return nil
}

type invulnerableSpec = prefabs.InvulnerableComponentSpec

func addInvulnerable(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[invulnerableSpec](raw)
	if err != nil {
		return eris.Wrap(err, "decode invulnerable spec")
	}
	if err := ecs.Add(w, e, component.InvulnerableComponent.Kind(), &component.Invulnerable{Frames: spec.Frames}); err != nil {
		return err
	}
	system.AttachInvulnerable(w, e)
	return nil
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return eris.Wrap(err, "decode physics body spec")
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return eris.New("world has no physics world")
	}
	if !spec.Static && spec.Mass == 0 {
		spec.Mass = 1
	}
	body := &component.PhysicsBody{
		Width:  spec.Width,
		Height: spec.Height,
		Mass:   spec.Mass,
		Static: spec.Static,
	}
	// Static bodies never move, so they get no chipmunk body.
	if !spec.Static {
		body.Body, body.Shape = pw.AddBox(e, spec.Mass, spec.Width, spec.Height)
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body)
}

type knockbackSpec = prefabs.KnockbackComponentSpec

func addKnockback(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[knockbackSpec](raw)
	if err != nil {
		return eris.Wrap(err, "decode knockback spec")
	}
	if err := ecs.Add(w, e, component.KnockbackableComponent.Kind(), &component.Knockbackable{MaxDeltaV: spec.MaxDeltaV}); err != nil {
		return err
	}
	system.AttachKnockback(w, e)
	return nil
}

func addScripts(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	paths, err := prefabs.DecodeComponentSpec[[]string](raw)
	if err != nil {
		return eris.Wrap(err, "decode scripts spec")
	}
	for _, path := range paths {
		obs, err := system.LoadScriptObserver(path, ctx.Log)
		if err != nil {
			return err
		}
		obs.Attach(w, e)
	}
	return nil
}
