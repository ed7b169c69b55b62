package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/numguess/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.LoadFrom(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "csv")
				convey.So(cfg.LeaderboardSize, convey.ShouldEqual, 5)
				convey.So(cfg.LogFile, convey.ShouldEqual, "numguess.log")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("NUMGUESS_STORE_DRIVER", "sqlite")
			_ = os.Setenv("NUMGUESS_SQLITE_PATH", "/tmp/games.db")
			_ = os.Setenv("NUMGUESS_LEADERBOARD_SIZE", "10")
			_ = os.Setenv("NUMGUESS_PROGRESS_SCOPE", "player")

			cfg, err := config.LoadFrom(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/games.db")
				convey.So(cfg.LeaderboardSize, convey.ShouldEqual, 10)
				convey.So(cfg.ProgressScope, convey.ShouldEqual, "player")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# comments are fine
log_level: debug
data_dir: /var/lib/numguess  # inline too
leaderboard_size: 3
metrics_file: /tmp/numguess.prom
`
			tmpFile := createTempFile(t, "config.yaml", yamlContent)
			_ = os.Setenv("NUMGUESS_CONFIG", tmpFile)

			cfg, err := config.LoadFrom(ctx, "")

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/var/lib/numguess")
				convey.So(cfg.LeaderboardSize, convey.ShouldEqual, 3)
				convey.So(cfg.MetricsFile, convey.ShouldEqual, "/tmp/numguess.prom")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "csv")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempFile(t, "config.yaml", "leaderboard_size: 3\ndata_dir: /from/file\n")
			_ = os.Setenv("NUMGUESS_CONFIG", tmpFile)
			_ = os.Setenv("NUMGUESS_LEADERBOARD_SIZE", "8")

			cfg, err := config.LoadFrom(ctx, "")

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LeaderboardSize, convey.ShouldEqual, 8)   // Overridden by env
				convey.So(cfg.DataDir, convey.ShouldEqual, "/from/file") // From file
			})
		})

		convey.Convey("When a dotenv file is present", func() {
			dotenv := createTempFile(t, ".env", "NUMGUESS_DATA_DIR=/from/dotenv\nNUMGUESS_LEADERBOARD_SIZE=4\n")
			_ = os.Setenv("NUMGUESS_LEADERBOARD_SIZE", "6")

			cfg, err := config.LoadFrom(ctx, dotenv)

			convey.Convey("Then it fills gaps but does not override the real environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/from/dotenv")
				convey.So(cfg.LeaderboardSize, convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When the dotenv file is missing", func() {
			cfg, err := config.LoadFrom(ctx, filepath.Join(t.TempDir(), ".env"))

			convey.Convey("Then it is ignored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempFile(t, "bad.yaml", `invalid: yaml: content: [`)
			_ = os.Setenv("NUMGUESS_CONFIG", tmpFile)

			cfg, err := config.LoadFrom(ctx, "")

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("NUMGUESS_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.LoadFrom(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("NUMGUESS_LEADERBOARD_SIZE", "lots")

			cfg, err := config.LoadFrom(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		convey.Convey("When the store driver is unknown", func() {
			cfg := config.New()
			cfg.StoreDriver = "postgres"

			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the csv data dir is empty", func() {
			cfg := config.New()
			cfg.DataDir = ""

			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			convey.So(cfg.Validate().Error(), convey.ShouldContainSubstring, "data_dir")
		})

		convey.Convey("When the sqlite path is empty", func() {
			cfg := config.New()
			cfg.StoreDriver = config.DriverSQLite
			cfg.SQLitePath = ""

			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the leaderboard size is zero", func() {
			cfg := config.New()
			cfg.LeaderboardSize = 0

			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the progress scope is unknown", func() {
			cfg := config.New()
			cfg.ProgressScope = "team"

			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When log rotation limits are missing", func() {
			cfg := config.New()
			cfg.LogMaxBackups = 0

			convey.So(cfg.Validate(), convey.ShouldNotBeNil)

			convey.Convey("And file logging is off", func() {
				cfg.LogFile = ""
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"NUMGUESS_CONFIG",
		"NUMGUESS_LOG_LEVEL",
		"NUMGUESS_STORE_DRIVER",
		"NUMGUESS_DATA_DIR",
		"NUMGUESS_SQLITE_PATH",
		"NUMGUESS_LEADERBOARD_SIZE",
		"NUMGUESS_PROGRESS_SCOPE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
