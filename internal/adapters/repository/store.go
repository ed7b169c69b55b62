// Package repository persists finished rounds as append-only logs and reads
// them back for derived views.
package repository

import (
	"context"

	"github.com/okian/numguess/internal/domain/model"
)

// Store provides append and read-back access to the three game logs.
// Records are never updated or deleted.
type Store interface {
	// AppendRound appends one history record.
	AppendRound(ctx context.Context, r model.RoundRecord) error
	// AppendAchievements appends unlocks in the given order. An empty slice
	// is a no-op.
	AppendAchievements(ctx context.Context, unlocks []model.AchievementUnlock) error
	// AppendLeaderboard appends one leaderboard entry.
	AppendLeaderboard(ctx context.Context, e model.LeaderboardEntry) error

	// SumWinningScores sums Score over winning rounds of player, or of every
	// player when player is empty. Missing data sums to 0.
	SumWinningScores(ctx context.Context, player string) (int, error)
	// Rounds returns the history log in append order.
	Rounds(ctx context.Context) ([]model.RoundRecord, error)
	// Leaderboard returns every leaderboard entry in append order.
	Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
	// Achievements returns every unlock in append order.
	Achievements(ctx context.Context) ([]model.AchievementUnlock, error)

	Close() error
}
