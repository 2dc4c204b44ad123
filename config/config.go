package config

import (
	"io"
	"os"
	"strings"
	"time"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config holds runtime settings read from the environment.
type Config struct {
	PrefabDir string `config:"VITALS_PREFAB_DIR"`
	LogLevel  string `config:"VITALS_LOG_LEVEL"`
	LogPretty bool   `config:"VITALS_LOG_PRETTY"`
	Watch     bool   `config:"VITALS_WATCH"`
}

func Default() Config {
	return Config{
		PrefabDir: "prefabs",
		LogLevel:  "info",
		LogPretty: true,
	}
}

// Load returns Default overridden by any VITALS_* environment variables.
func Load() (Config, error) {
	cfg := Default()
	if err := jlconfig.FromEnv().To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "config: read environment")
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level parses LogLevel. An empty level means info.
func (c Config) Level() (zerolog.Level, error) {
	if strings.TrimSpace(c.LogLevel) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil {
		return zerolog.NoLevel, eris.Wrapf(err, "config: log level %q", c.LogLevel)
	}
	return lvl, nil
}

// NewLogger builds the root logger. A nil out means stderr.
func NewLogger(c Config, out io.Writer) (zerolog.Logger, error) {
	lvl, err := c.Level()
	if err != nil {
		return zerolog.Nop(), err
	}
	if out == nil {
		out = os.Stderr
	}
	if c.LogPretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: out != os.Stderr}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
