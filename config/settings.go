// Package config reads runtime settings from the environment. Command line
// flags override them in cmd/hedgehog.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

type Settings struct {
	LogLevel string `env:"HEDGEHOG_LOG_LEVEL" envDefault:"info"`

	// Flag sources. FlagsURL wins over FlagsFile when both are set.
	FlagsURL      string        `env:"HEDGEHOG_FLAGS_URL"`
	FlagsFile     string        `env:"HEDGEHOG_FLAGS_FILE"`
	FlagsInterval time.Duration `env:"HEDGEHOG_FLAGS_INTERVAL" envDefault:"30s"`
	RulesFile     string        `env:"HEDGEHOG_RULES_FILE"`

	AnalyticsKey  string        `env:"HEDGEHOG_ANALYTICS_KEY"`
	AnalyticsHost string        `env:"HEDGEHOG_ANALYTICS_HOST" envDefault:"https://us.i.posthog.com"`
	OutboxPath    string        `env:"HEDGEHOG_OUTBOX" envDefault:"~/.hedgehog/outbox.db"`
	FlushInterval time.Duration `env:"HEDGEHOG_FLUSH_INTERVAL" envDefault:"10s"`

	// EventsAddr serves the live event websocket; empty disables it.
	EventsAddr string `env:"HEDGEHOG_EVENTS_ADDR"`
	ServeAddr  string `env:"HEDGEHOG_SERVE_ADDR" envDefault:":8080"`

	PrefabsDir string `env:"HEDGEHOG_PREFABS_DIR" envDefault:"prefabs"`
	AssetsDir  string `env:"HEDGEHOG_ASSETS_DIR"`
}

// Load parses the environment.
func Load() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// Level parses LogLevel, falling back to info.
func (s Settings) Level() log.Level {
	lvl, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
