package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/milk9111/vitals/combat"
	"github.com/milk9111/vitals/common"
	"github.com/milk9111/vitals/config"
	"github.com/milk9111/vitals/ecs"
	"github.com/milk9111/vitals/ecs/entity"
	"github.com/milk9111/vitals/ecs/system"
	"github.com/milk9111/vitals/prefabs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type duelOptions struct {
	Attacker string
	Victim   string
	Rounds   int
	Damage   float64
	Impulse  common.Vector3
}

type duelResult struct {
	Rounds       int
	Applied      int
	VictimHealth int
	VictimAlive  bool
	Trace        []ecs.Notification
}

func newDuelCmd(cfg *config.Config, logger func() zerolog.Logger) *cobra.Command {
	opts := duelOptions{
		Attacker: "knight.yaml",
		Victim:   "slime.yaml",
		Rounds:   10,
		Damage:   6,
	}

	cmd := &cobra.Command{
		Use:   "duel",
		Short: "Let one prefab hit another until it dies or rounds run out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Rounds <= 0 {
				return eris.Errorf("rounds must be positive, got %d", opts.Rounds)
			}
			l := logger()
			if _, err := runDuel(opts, l); err != nil {
				return err
			}
			if !cfg.Watch {
				return nil
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watchDuel(ctx, cfg.PrefabDir, opts, l)
		},
	}
	cmd.Flags().StringVar(&opts.Attacker, "attacker", opts.Attacker, "attacker prefab")
	cmd.Flags().StringVar(&opts.Victim, "victim", opts.Victim, "victim prefab")
	cmd.Flags().IntVar(&opts.Rounds, "rounds", opts.Rounds, "maximum number of hits")
	cmd.Flags().Float64Var(&opts.Damage, "damage", opts.Damage, "raw damage per hit")
	cmd.Flags().Float64Var(&opts.Impulse.X, "impulse-x", 0, "horizontal impulse per hit")
	cmd.Flags().Float64Var(&opts.Impulse.Y, "impulse-y", 0, "vertical impulse per hit")
	cmd.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "rerun the duel whenever a prefab or script changes")
	return cmd
}

func newArenaWorld(logger zerolog.Logger) (*ecs.World, *system.DamageSystem) {
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(0))
	damage := system.NewDamageSystem(logger)
	w.AddSystem(ecs.NewScheduler(
		system.NewInvulnerabilitySystem(),
		damage,
		system.NewPhysicsSystem(0),
	))
	return w, damage
}

func runDuel(opts duelOptions, logger zerolog.Logger) (duelResult, error) {
	w, damage := newArenaWorld(logger)

	attacker, err := entity.BuildEntity(w, opts.Attacker, logger)
	if err != nil {
		return duelResult{}, err
	}
	victim, err := entity.BuildEntity(w, opts.Victim, logger)
	if err != nil {
		return duelResult{}, err
	}
	health, ok := ecs.Get(w, victim, combat.HealthComponent.Kind())
	if !ok {
		return duelResult{}, eris.Errorf("victim prefab %q has no health", opts.Victim)
	}

	var res duelResult
	for _, e := range []ecs.Entity{attacker, victim} {
		e := e
		for _, name := range combat.Notifications {
			name := name
			w.Observers().Subscribe(e, name, func(any) {
				res.Trace = append(res.Trace, name)
				logger.Debug().Stringer("entity", e).Str("notification", string(name)).Msg("notify")
			})
		}
	}

	for res.Rounds < opts.Rounds && health.Alive() {
		res.Rounds++
		combat.QueueDamage(w, victim, combat.NewDamageEvent(opts.Damage,
			combat.WithAttacker(attacker),
			combat.WithImpulse(opts.Impulse),
		))
		w.Update()

		for _, out := range damage.Last() {
			if out.Applied && out.Victim == victim {
				res.Applied++
			}
		}
		logger.Info().
			Int("round", res.Rounds).
			Int("victim_health", health.Current).
			Int("victim_max", health.Max).
			Bool("alive", health.Alive()).
			Msg("round")
	}

	res.VictimHealth = health.Current
	res.VictimAlive = health.Alive()
	logger.Info().
		Str("attacker", opts.Attacker).
		Str("victim", opts.Victim).
		Int("rounds", res.Rounds).
		Int("hits", res.Applied).
		Bool("victim_alive", res.VictimAlive).
		Msg("duel finished")
	return res, nil
}

func watchDuel(ctx context.Context, dir string, opts duelOptions, logger zerolog.Logger) error {
	watcher, err := prefabs.NewWatcher(dir, dir+"/scripts")
	if err != nil {
		return err
	}
	defer watcher.Close()

	logger.Info().Str("dir", dir).Msg("watching prefabs")
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.Info().Str("file", change.Name).Msg("prefab changed, rerunning duel")
			if _, err := runDuel(opts, logger); err != nil {
				logger.Error().Err(err).Msg("duel failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")
		}
	}
}
