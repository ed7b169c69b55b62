package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "NUMGUESS_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if NUMGUESS_CONFIG is set
//  3. env (prefix NUMGUESS_), after merging a .env file when one exists
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, ".env")
}

// LoadFrom is Load with an explicit dotenv path. Variables already present
// in the environment win over the dotenv file.
func LoadFrom(_ context.Context, dotenv string) (*Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, dotenv, err)
		}
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// NUMGUESS_STORE_DRIVER -> store_driver (flat keys, underscores kept).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field combinations that would break the game at runtime.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverCSV:
		if c.DataDir == "" {
			return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.LeaderboardSize < 1 {
		return fmt.Errorf("%w: leaderboard_size must be positive", ErrInvalidConfig)
	}
	switch c.ProgressScope {
	case ScopeGlobal, ScopePlayer:
	default:
		return fmt.Errorf("%w: unknown progress_scope %q", ErrInvalidConfig, c.ProgressScope)
	}
	if c.LogFile != "" && (c.LogMaxSizeMB <= 0 || c.LogMaxBackups <= 0 || c.LogMaxAgeDays <= 0) {
		return fmt.Errorf("%w: log rotation needs positive size, backups and age", ErrInvalidConfig)
	}
	return nil
}
