// Package config loads server settings from defaults, an optional TOML file
// and the environment, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Storage backends.
const (
	BackendDynamo = "dynamodb"
	BackendSQLite = "sqlite"
)

// Config holds everything the server needs at start.
type Config struct {
	Addr            string        `toml:"addr" env:"TODO_ADDR"`
	Backend         string        `toml:"backend" env:"TODO_BACKEND"`
	TableName       string        `toml:"table_name" env:"DYNAMODB_TABLE_NAME"`
	Region          string        `toml:"region" env:"AWS_REGION"`
	Endpoint        string        `toml:"endpoint" env:"DYNAMODB_ENDPOINT"`
	SQLitePath      string        `toml:"sqlite_path" env:"TODO_SQLITE_PATH"`
	LogLevel        string        `toml:"log_level" env:"TODO_LOG_LEVEL"`
	LogFormat       string        `toml:"log_format" env:"TODO_LOG_FORMAT"`
	OTelEndpoint    string        `toml:"otel_endpoint" env:"TODO_OTEL_ENDPOINT"`
	OTelEnabled     bool          `toml:"otel_enabled" env:"TODO_OTEL_ENABLED"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"TODO_SHUTDOWN_TIMEOUT"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:            ":3000",
		Backend:         BackendDynamo,
		SQLitePath:      "./todos.db",
		LogLevel:        "info",
		LogFormat:       "text",
		OTelEnabled:     true,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load applies the TOML file at path (skipped when empty) and then the
// environment on top of the defaults, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr is required")
	}
	switch c.Backend {
	case BackendDynamo:
		if strings.TrimSpace(c.TableName) == "" {
			return fmt.Errorf("DYNAMODB_TABLE_NAME is required for the %s backend", BackendDynamo)
		}
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("sqlite_path is required for the %s backend", BackendSQLite)
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendDynamo, BackendSQLite)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	return nil
}
