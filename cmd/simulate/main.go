package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	repository "github.com/okian/numguess/internal/adapters/repository"
	app "github.com/okian/numguess/internal/app"
	"github.com/okian/numguess/internal/config"
	"github.com/okian/numguess/internal/simulate"
	"github.com/okian/numguess/pkg/logger"
	"github.com/okian/numguess/pkg/metrics"
)

// Default configuration constants.
const (
	defaultRounds      = 100
	defaultMinRange    = 10
	defaultMaxRange    = 5000
	defaultMinBudget   = 1
	defaultMaxBudget   = 15
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		rounds     = flag.Int("rounds", defaultRounds, "Number of rounds to play")
		players    = flag.String("players", "sim-1,sim-2,sim-3", "Comma-separated player names")
		minRange   = flag.Int("min-range", defaultMinRange, "Smallest range size")
		maxRange   = flag.Int("max-range", defaultMaxRange, "Largest range size")
		minBudget  = flag.Int("min-budget", defaultMinBudget, "Smallest attempt budget")
		maxBudget  = flag.Int("max-budget", defaultMaxBudget, "Largest attempt budget")
		strategy   = flag.String("strategy", simulate.StrategyBisect, "Guessing strategy: bisect or random")
		seed       = flag.Uint64("seed", 0, "Seed for settings and guesses (0 picks one)")
		outputFile = flag.String("output", "", "JSON file for the played rounds")
		logFile    = flag.String("log", "", "Log file (default: stderr)")
		verbose    = flag.Bool("verbose", false, "Log every round")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return 0
	}

	// Setup logging
	if err := simulate.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	// Create context with timeout, cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultTestTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
		return 1
	}

	location := cfg.DataDir
	if cfg.StoreDriver == config.DriverSQLite {
		location = cfg.SQLitePath
	}
	store, err := repository.Open(ctx, cfg.StoreDriver, location, repository.WithLogger(logger.Named("store")))
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to open store: " + err.Error() + "\n")
		return 1
	}

	secretSeed := *seed
	if secretSeed == 0 {
		secretSeed = rand.Uint64() //nolint:gosec // simulation only
	}
	svc := app.New(
		app.WithStore(store),
		app.WithSource(rand.New(rand.NewPCG(secretSeed, ^secretSeed))), //nolint:gosec // simulation only
		app.WithLeaderboardSize(cfg.LeaderboardSize),
		app.WithProgressScope(app.Scope(cfg.ProgressScope)),
	)
	defer func() { _ = svc.Close() }()

	simCfg := &simulate.Config{
		Rounds:     *rounds,
		Players:    splitPlayers(*players),
		MinRange:   *minRange,
		MaxRange:   *maxRange,
		MinBudget:  *minBudget,
		MaxBudget:  *maxBudget,
		Strategy:   *strategy,
		Seed:       *seed,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	// Run the simulation
	if _, err := simulate.Run(ctx, simCfg, svc, store, os.Stdout); err != nil {
		_, _ = os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return 1
	}

	if err := metrics.WriteTextfile(cfg.MetricsFile, metrics.GetRegistry()); err != nil {
		_, _ = os.Stderr.WriteString("Failed to export metrics: " + err.Error() + "\n")
		return 1
	}
	return 0
}

func splitPlayers(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
