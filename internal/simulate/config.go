package simulate

import (
	"errors"
	"fmt"
	"time"
)

// Strategy names.
const (
	StrategyBisect = "bisect"
	StrategyRandom = "random"
)

var (
	// ErrInvalidConfig is returned for unusable simulation settings.
	ErrInvalidConfig = errors.New("invalid simulation config")
	// ErrVerification is returned when a derived view disagrees with the
	// rounds that were played.
	ErrVerification = errors.New("verification failed")
)

// Config holds configuration for a simulation run.
type Config struct {
	Rounds     int      // Number of rounds to play
	Players    []string // Player names, used round-robin
	MinRange   int      // Smallest range size drawn
	MaxRange   int      // Largest range size drawn
	MinBudget  int      // Smallest attempt budget drawn
	MaxBudget  int      // Largest attempt budget drawn
	Strategy   string   // bisect or random
	Seed       uint64   // Seed for settings and guesses; 0 picks one
	OutputFile string   // JSON dump of played rounds; empty skips it
	Verbose    bool     // Log every round
}

// Validate checks the bounds.
func (c *Config) Validate() error {
	switch {
	case c.Rounds < 1:
		return fmt.Errorf("%w: rounds must be positive", ErrInvalidConfig)
	case len(c.Players) == 0:
		return fmt.Errorf("%w: at least one player is required", ErrInvalidConfig)
	case c.MinRange < 1 || c.MaxRange < c.MinRange:
		return fmt.Errorf("%w: range bounds [%d, %d]", ErrInvalidConfig, c.MinRange, c.MaxRange)
	case c.MinBudget < 1 || c.MaxBudget < c.MinBudget:
		return fmt.Errorf("%w: budget bounds [%d, %d]", ErrInvalidConfig, c.MinBudget, c.MaxBudget)
	}
	for _, p := range c.Players {
		if p == "" {
			return fmt.Errorf("%w: empty player name", ErrInvalidConfig)
		}
	}
	switch c.Strategy {
	case StrategyBisect, StrategyRandom:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
	}
	return nil
}

// PlayedRound is the JSON record of one simulated round.
type PlayedRound struct {
	RoundID       string   `json:"round_id"`
	Player        string   `json:"player"`
	RangeSize     int      `json:"range_size"`
	AttemptBudget int      `json:"attempt_budget"`
	Category      string   `json:"category"`
	AttemptsUsed  int      `json:"attempts_used"`
	Score         int      `json:"score"`
	Outcome       string   `json:"outcome"`
	Achievements  []string `json:"achievements,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	Rounds       int
	Wins         int
	Losses       int
	TotalScore   int
	Achievements int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}
