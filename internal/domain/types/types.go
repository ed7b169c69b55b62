// Package types contains display types shared by the front ends.
package types

// Entry represents a ranked leaderboard row.
type Entry struct {
	Rank         int    `json:"rank"`
	Player       string `json:"player"`
	Score        int    `json:"score"`
	Category     string `json:"category"`
	AttemptsUsed int    `json:"attempts_used"`
}

// Level describes the player's progression.
type Level struct {
	Name      string `json:"name"`
	Progress  int    `json:"progress"`
	Next      string `json:"next,omitempty"`
	Remaining int    `json:"remaining"`
}

// Summary is everything the stats screen shows.
type Summary struct {
	Player          string   `json:"player,omitempty"`
	CumulativeScore int      `json:"cumulative_score"`
	Level           Level    `json:"level"`
	Leaderboard     []Entry  `json:"leaderboard"`
	Achievements    []string `json:"achievements"`
}
