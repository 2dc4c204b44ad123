package main

import (
	"os"

	"github.com/milk9111/vitals/config"
	"github.com/milk9111/vitals/prefabs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("arena failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()
	var logger zerolog.Logger

	root := &cobra.Command{
		Use:           "arena",
		Short:         "Run damage exchanges between prefab entities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			l, err := config.NewLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger = l
			log.Logger = l
			prefabs.Dir = cfg.PrefabDir
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfg.PrefabDir, "prefab-dir", cfg.PrefabDir, "directory checked for prefabs before the embedded set")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&cfg.LogPretty, "pretty", cfg.LogPretty, "human readable log output")

	root.AddCommand(newDuelCmd(&cfg, func() zerolog.Logger { return logger }))
	return root
}
