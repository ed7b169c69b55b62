// Package model contains the immutable records passed between layers.
package model

import (
	"fmt"
	"time"

	"github.com/okian/numguess/internal/domain/achievement"
	"github.com/okian/numguess/internal/domain/difficulty"
)

// Outcome is the result of a finished round.
type Outcome string

// Persisted outcome values.
const (
	Win  Outcome = "Win"
	Loss Outcome = "Loss"
)

// ParseOutcome validates a persisted outcome string.
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case Win, Loss:
		return Outcome(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
	}
}

// OutcomeOf maps a win flag to its Outcome.
func OutcomeOf(won bool) Outcome {
	if won {
		return Win
	}
	return Loss
}

// RoundRecord is the history-log fact of one finished round.
type RoundRecord struct {
	Timestamp     time.Time
	Player        string
	Category      difficulty.Category
	RangeSize     int
	AttemptBudget int
	AttemptsUsed  int
	Score         int
	Outcome       Outcome
}

// AchievementUnlock records one achievement earned by a winning round.
type AchievementUnlock struct {
	Timestamp   time.Time
	Player      string
	Achievement achievement.ID
}

// LeaderboardEntry records one winning round for ranking.
type LeaderboardEntry struct {
	Timestamp    time.Time
	Player       string
	Score        int
	Category     difficulty.Category
	AttemptsUsed int
}
