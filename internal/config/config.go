// Package config reads engine settings from environment variables. A .env
// file in the working directory is loaded automatically.
package config

import (
	"fmt"
	"os"
	"strconv"

	// Loads .env into the environment before Load runs.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds process-level settings. All fields have working defaults so
// an empty environment is fine.
type Config struct {
	// Depth fixes the search depth; 0 lets the engine pick per move.
	Depth int
	// Workers bounds parallel root-move evaluation; 0 means one per CPU.
	Workers int
	// BookPath points at a Polyglot opening book; empty uses the default
	// location under the data directory.
	BookPath string
	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string
}

// Load reads configuration from FIANCHETTO_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		BookPath: os.Getenv("FIANCHETTO_BOOK"),
		LogLevel: os.Getenv("FIANCHETTO_LOG_LEVEL"),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	var err error
	if cfg.Depth, err = intVar("FIANCHETTO_DEPTH", 0); err != nil {
		return nil, err
	}
	if cfg.Workers, err = intVar("FIANCHETTO_WORKERS", 0); err != nil {
		return nil, err
	}
	return cfg, nil
}

func intVar(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", name, raw, err)
	}
	return v, nil
}
