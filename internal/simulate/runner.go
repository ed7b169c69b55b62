// Package simulate plays automated rounds through the orchestrator and
// checks the derived views the store reports afterwards.
package simulate

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/text/language"

	"github.com/okian/numguess/internal/adapters/cli"
	repository "github.com/okian/numguess/internal/adapters/repository"
	service "github.com/okian/numguess/internal/app"
	"github.com/okian/numguess/internal/domain/model"
	"github.com/okian/numguess/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
	// seedMix derives the second PCG word from the seed.
	seedMix = 0x9e3779b97f4a7c15
)

// Run plays cfg.Rounds rounds through svc, then checks the views read back
// from store against what was played. svc must persist into store.
func Run(ctx context.Context, cfg *Config, svc *service.Service, store repository.Store, out io.Writer) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("simulate")
	stats := &Stats{StartTime: time.Now()}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64() //nolint:gosec // simulation only
	}
	rng := rand.New(rand.NewPCG(seed, seed^seedMix)) //nolint:gosec // simulation only
	var strategy Strategy = Bisect{}
	if cfg.Strategy == StrategyRandom {
		strategy = NewRandom(rng)
	}

	log.Info(ctx, "starting simulation",
		logger.Int("rounds", cfg.Rounds),
		logger.Int("players", len(cfg.Players)),
		logger.String("strategy", cfg.Strategy),
		logger.Any("seed", seed),
	)

	// Step 1: Snapshot what the store already holds
	before, err := takeSnapshot(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("read store before run: %w", err)
	}

	// Step 2: Play rounds
	played := make([]PlayedRound, 0, cfg.Rounds)
	for i := 0; i < cfg.Rounds; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := playOne(ctx, svc, cfg, rng, strategy, i)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}
		played = append(played, p)
		stats.record(p)
		if cfg.Verbose {
			log.Debug(ctx, "round played",
				logger.String("player", p.Player),
				logger.String("category", p.Category),
				logger.String("outcome", p.Outcome),
				logger.Int("score", p.Score),
			)
		}
	}

	// Step 3: Verify derived views
	summary, err := verify(ctx, svc, store, before, played)
	if err != nil {
		return nil, err
	}

	// Step 4: Dump played rounds
	if cfg.OutputFile != "" {
		if err := saveRounds(cfg.OutputFile, played); err != nil {
			log.Warn(ctx, "failed to save rounds", logger.Error(err))
		} else {
			log.Info(ctx, "rounds saved to file", logger.String("filename", cfg.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	cli.RenderStats(out, summary, language.English)
	return stats, nil
}

func playOne(ctx context.Context, svc *service.Service, cfg *Config, rng *rand.Rand, s Strategy, i int) (PlayedRound, error) {
	player := cfg.Players[i%len(cfg.Players)]
	rangeSize := cfg.MinRange + rng.IntN(cfg.MaxRange-cfg.MinRange+1)
	budget := cfg.MinBudget + rng.IntN(cfg.MaxBudget-cfg.MinBudget+1)

	r, err := svc.NewRound(ctx, player, rangeSize, budget)
	if err != nil {
		return PlayedRound{}, err
	}
	if err := playOut(r, s); err != nil {
		return PlayedRound{}, err
	}
	res, err := svc.Finish(ctx, r)
	if err != nil {
		return PlayedRound{}, err
	}

	p := PlayedRound{
		RoundID:       r.ID(),
		Player:        player,
		RangeSize:     rangeSize,
		AttemptBudget: budget,
		Category:      res.Category.Name(),
		AttemptsUsed:  res.AttemptsUsed,
		Score:         res.Score,
		Outcome:       string(res.Outcome),
	}
	for _, id := range res.Achievements {
		p.Achievements = append(p.Achievements, string(id))
	}
	return p, nil
}

func (s *Stats) record(p PlayedRound) {
	s.Rounds++
	if p.Outcome == string(model.Win) {
		s.Wins++
	} else {
		s.Losses++
	}
	s.TotalScore += p.Score
	s.Achievements += len(p.Achievements)
}

// saveRounds writes the played rounds as an indented JSON array.
func saveRounds(filename string, played []PlayedRound) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(played, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rounds: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), filePermission); err != nil {
		return fmt.Errorf("failed to write rounds: %w", err)
	}
	return nil
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var winRate, roundsPerSecond float64
	if stats.Rounds > 0 {
		winRate = float64(stats.Wins) / float64(stats.Rounds) * 100
	}
	if stats.Duration > 0 {
		roundsPerSecond = float64(stats.Rounds) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("rounds", stats.Rounds),
		logger.Int("wins", stats.Wins),
		logger.Int("losses", stats.Losses),
		logger.Int("totalScore", stats.TotalScore),
		logger.Int("achievements", stats.Achievements),
		logger.Duration("duration", stats.Duration),
		logger.Float64("winRate", winRate),
		logger.Float64("roundsPerSecond", roundsPerSecond),
	)
}
