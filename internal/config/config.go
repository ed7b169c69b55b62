// Package config holds the game settings.
//
// New returns the defaults; Load layers a YAML file, a .env file and
// NUMGUESS_ variables on top. Failures wrap ErrLoadConfig or ErrInvalidConfig.
package config

import repository "github.com/okian/numguess/internal/adapters/repository"

// Store drivers.
const (
	DriverCSV    = repository.DriverCSV
	DriverSQLite = repository.DriverSQLite
)

// Progress scopes.
const (
	ScopeGlobal = "global"
	ScopePlayer = "player"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile routes logs to a rotating file; empty means stderr.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
	LogMaxBackups int    `koanf:"log_max_backups"`
	LogMaxAgeDays int    `koanf:"log_max_age_days"`

	// StoreDriver selects the record store backend: csv or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// DataDir holds the CSV logs.
	DataDir string `koanf:"data_dir"`

	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// LeaderboardSize is K in the top-K leaderboard view.
	LeaderboardSize int `koanf:"leaderboard_size"`

	// ProgressScope sums cumulative score over all players (global) or
	// only the current one (player).
	ProgressScope string `koanf:"progress_scope"`

	// MetricsFile, when set, receives a Prometheus textfile on exit.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFile:         "numguess.log",
		LogMaxSizeMB:    10,
		LogMaxBackups:   3,
		LogMaxAgeDays:   28,
		StoreDriver:     DriverCSV,
		DataDir:         ".",
		SQLitePath:      "numguess.db",
		LeaderboardSize: 5,
		ProgressScope:   ScopeGlobal,
	}
}
