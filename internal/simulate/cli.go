package simulate

import (
	"fmt"
	"os"

	"github.com/okian/numguess/pkg/logger"
)

// SetupLogging initializes the global logger. With a logFile, output goes to
// that rotating file; otherwise to stderr.
func SetupLogging(logFile string, verbose bool) error {
	opts := []logger.Option{}
	if logFile != "" {
		opts = append(opts, logger.WithFile(logger.FileConfig{
			Path:       logFile,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		}))
	}
	if err := logger.Init(opts...); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the simulation tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`numguess simulation
===================

Plays automated rounds into the configured record store and checks the
leaderboard, cumulative score and achievements read back from it.

Usage:
  go run ./cmd/simulate [options]

Options:
  -rounds int
        Number of rounds to play (default 100)
  -players string
        Comma-separated player names (default "sim-1,sim-2,sim-3")
  -min-range int / -max-range int
        Bounds for the drawn range size (default 10 / 5000)
  -min-budget int / -max-budget int
        Bounds for the drawn attempt budget (default 1 / 15)
  -strategy string
        Guessing strategy: bisect or random (default "bisect")
  -seed uint
        Seed for settings and guesses; 0 picks one (default 0)
  -output string
        JSON file for the played rounds (default: none)
  -log string
        Log file (default: stderr)
  -verbose
        Log every round
  -help
        Show this help message

The store comes from the usual NUMGUESS_* settings, for example:
  NUMGUESS_STORE_DRIVER=sqlite NUMGUESS_SQLITE_PATH=sim.db go run ./cmd/simulate -rounds 500
`)
}
