// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	StorePath string
	Backend   string // "auto", "sqlite" or "json"
	SkillsDir string
	LogLevel  slog.Level
}

// Load reads configuration from environment variables and returns a
// validated Config. All variables are optional:
// CREDVAULT_STORE_PATH (default "credvault.sqlite"), CREDVAULT_BACKEND
// (auto|sqlite|json, default auto: pick by file extension),
// CREDVAULT_LOG_LEVEL (slog level name, default info) and
// CREDVAULT_SKILLS_DIR (skill-document directory for external tools).
func Load() (*Config, error) {
	storePath := "credvault.sqlite"
	if v, ok := os.LookupEnv("CREDVAULT_STORE_PATH"); ok {
		storePath = v
	}

	backend := "auto"
	if v, ok := os.LookupEnv("CREDVAULT_BACKEND"); ok {
		switch v {
		case "auto", "sqlite", "json":
			backend = v
		default:
			return nil, fmt.Errorf("CREDVAULT_BACKEND has invalid value %q (want auto, sqlite or json)", v)
		}
	}

	level := slog.LevelInfo
	if v, ok := os.LookupEnv("CREDVAULT_LOG_LEVEL"); ok {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("CREDVAULT_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return &Config{
		StorePath: storePath,
		Backend:   backend,
		SkillsDir: os.Getenv("CREDVAULT_SKILLS_DIR"),
		LogLevel:  level,
	}, nil
}
