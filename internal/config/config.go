package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	RedisURL string `env:"REDIS_URL" envDefault:"localhost:6379"`
	DataDir  string `env:"DATA_DIR" envDefault:"./data"`

	// AgentProvider selects the narrative agent backend: "venice" or
	// "mock".
	AgentProvider string `env:"AGENT_PROVIDER" envDefault:"mock"`
	VeniceAPIKey  string `env:"VENICE_API_KEY"`
	ModelName     string `env:"MODEL_NAME"`

	SRDAPIURL string `env:"SRD_API_URL" envDefault:"https://www.dnd5eapi.co/api"`

	// RNGSeed pins the dice source for reproducible sessions. Zero
	// means seed from the clock.
	RNGSeed int64 `env:"RNG_SEED" envDefault:"0"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured log level string onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
