package repository

import (
	"fmt"
	"sort"

	"github.com/okian/numguess/internal/domain/achievement"
	"github.com/okian/numguess/internal/domain/model"
)

// Ranked is a leaderboard entry with its 1-based position.
type Ranked struct {
	Rank int
	model.LeaderboardEntry
}

// TopN ranks entries by score descending and returns the first n. Equal
// scores keep append order, so the earlier win ranks higher.
func TopN(entries []model.LeaderboardEntry, n int) ([]Ranked, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	sorted := make([]model.LeaderboardEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]Ranked, len(sorted))
	for i, e := range sorted {
		out[i] = Ranked{Rank: i + 1, LeaderboardEntry: e}
	}
	return out, nil
}

// DistinctAchievements returns each achievement once, in first-unlock order.
func DistinctAchievements(unlocks []model.AchievementUnlock) []achievement.ID {
	seen := make(map[achievement.ID]struct{}, len(unlocks))
	var out []achievement.ID
	for _, u := range unlocks {
		if _, ok := seen[u.Achievement]; ok {
			continue
		}
		seen[u.Achievement] = struct{}{}
		out = append(out, u.Achievement)
	}
	return out
}

// FilterPlayer keeps the unlocks of one player; an empty name keeps all.
func FilterPlayer(unlocks []model.AchievementUnlock, player string) []model.AchievementUnlock {
	if player == "" {
		return unlocks
	}
	var out []model.AchievementUnlock
	for _, u := range unlocks {
		if u.Player == player {
			out = append(out, u)
		}
	}
	return out
}
