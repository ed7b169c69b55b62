package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/okian/numguess/internal/adapters/cli"
	repository "github.com/okian/numguess/internal/adapters/repository"
	app "github.com/okian/numguess/internal/app"
	"github.com/okian/numguess/internal/config"
	"github.com/okian/numguess/pkg/logger"
	"github.com/okian/numguess/pkg/metrics"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process plumbing.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("numguess", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		statsOnly = fs.Bool("stats", false, "Print the stats screen and exit")
		asJSON    = fs.Bool("json", false, "Print the stats summary as JSON and exit")
		player    = fs.String("player", "", "Player name (skips the name prompt)")
		noClear   = fs.Bool("no-clear", false, "Do not clear the screen between rounds")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		_, _ = fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return exitError
	}

	// The terminal belongs to the game, so logs go to a file when one is set.
	if err := logger.Init(
		logger.WithWriter(stderr),
		logger.WithFile(logger.FileConfig{
			Path:       cfg.LogFile,
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
		}),
	); err != nil {
		_, _ = fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitError
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	session := uuid.NewString()
	log := logger.Get().With(logger.String("session", session))
	log.Info(ctx, "session started",
		logger.String("store_driver", cfg.StoreDriver),
		logger.String("progress_scope", cfg.ProgressScope),
	)

	defer func() {
		if err := metrics.WriteTextfile(cfg.MetricsFile, metrics.GetRegistry()); err != nil {
			log.Error(ctx, "failed to export metrics", logger.Error(err))
		}
	}()

	location := cfg.DataDir
	if cfg.StoreDriver == config.DriverSQLite {
		location = cfg.SQLitePath
	}
	store, err := repository.Open(ctx, cfg.StoreDriver, location,
		repository.WithLogger(log.Named("store")),
	)
	if err != nil {
		log.Error(ctx, "failed to open store", logger.Error(err))
		_, _ = fmt.Fprintln(stderr, "failed to open store: "+err.Error())
		return exitError
	}

	svc := app.New(
		app.WithStore(store),
		app.WithLogger(log.Named("service")),
		app.WithLeaderboardSize(cfg.LeaderboardSize),
		app.WithProgressScope(app.Scope(cfg.ProgressScope)),
	)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error(ctx, "failed to close store", logger.Error(err))
		}
	}()

	if *statsOnly || *asJSON {
		return printStats(ctx, svc, *player, *asJSON, stdout, stderr)
	}

	ui := cli.New(svc,
		cli.WithInput(stdin),
		cli.WithOutput(stdout),
		cli.WithPlayer(*player),
		cli.WithClearScreen(!*noClear),
		cli.WithLogger(log.Named("cli")),
	)

	// Reading stdin cannot be interrupted, so the loop runs aside and a
	// signal ends the session without waiting for it.
	done := make(chan error, 1)
	go func() { done <- ui.Run(ctx) }()

	select {
	case err = <-done:
	case <-ctx.Done():
		_, _ = fmt.Fprintln(stdout)
		log.Info(ctx, "session interrupted")
		return exitOK
	}

	switch {
	case err == nil, errors.Is(err, cli.ErrInputClosed):
		log.Info(ctx, "session ended")
		return exitOK
	default:
		log.Error(ctx, "session failed", logger.Error(err))
		_, _ = fmt.Fprintln(stderr, "error: "+err.Error())
		return exitError
	}
}

func printStats(ctx context.Context, svc *app.Service, player string, asJSON bool, stdout, stderr io.Writer) int {
	summary, err := svc.Stats(ctx, player)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "failed to load stats: "+err.Error())
		return exitError
	}
	if asJSON {
		if err := cli.WriteJSON(stdout, summary); err != nil {
			_, _ = fmt.Fprintln(stderr, err.Error())
			return exitError
		}
		return exitOK
	}
	cli.RenderStats(stdout, summary, cli.DefaultLanguage)
	return exitOK
}
