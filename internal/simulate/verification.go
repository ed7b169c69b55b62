package simulate

import (
	"context"
	"fmt"
	"slices"

	repository "github.com/okian/numguess/internal/adapters/repository"
	service "github.com/okian/numguess/internal/app"
	"github.com/okian/numguess/internal/domain/achievement"
	"github.com/okian/numguess/internal/domain/model"
	"github.com/okian/numguess/internal/domain/progression"
	"github.com/okian/numguess/internal/domain/types"
)

// snapshot is the store content a run starts from.
type snapshot struct {
	sum     int
	board   []model.LeaderboardEntry
	unlocks []model.AchievementUnlock
}

func takeSnapshot(ctx context.Context, store repository.Store) (snapshot, error) {
	var (
		s   snapshot
		err error
	)
	if s.sum, err = store.SumWinningScores(ctx, ""); err != nil {
		return snapshot{}, err
	}
	if s.board, err = store.Leaderboard(ctx); err != nil {
		return snapshot{}, err
	}
	if s.unlocks, err = store.Achievements(ctx); err != nil {
		return snapshot{}, err
	}
	return s, nil
}

// verify recomputes cumulative score, top-K and the distinct achievement set
// from the snapshot plus the played rounds, and compares them with what the
// service and store report. It returns the service summary.
func verify(ctx context.Context, svc *service.Service, store repository.Store, before snapshot, played []PlayedRound) (types.Summary, error) {
	wantSum := before.sum
	wantBoard := slices.Clone(before.board)
	wantUnlocks := slices.Clone(before.unlocks)
	for _, p := range played {
		if p.Outcome != string(model.Win) {
			continue
		}
		wantSum += p.Score
		wantBoard = append(wantBoard, model.LeaderboardEntry{Player: p.Player, Score: p.Score, AttemptsUsed: p.AttemptsUsed})
		for _, a := range p.Achievements {
			wantUnlocks = append(wantUnlocks, model.AchievementUnlock{Player: p.Player, Achievement: achievement.ID(a)})
		}
	}

	after, err := takeSnapshot(ctx, store)
	if err != nil {
		return types.Summary{}, fmt.Errorf("read store after run: %w", err)
	}
	if after.sum != wantSum {
		return types.Summary{}, fmt.Errorf("%w: cumulative score %d, want %d", ErrVerification, after.sum, wantSum)
	}
	if err := verifyBoard(after.board, wantBoard); err != nil {
		return types.Summary{}, err
	}

	summary, err := svc.Stats(ctx, "")
	if err != nil {
		return types.Summary{}, fmt.Errorf("stats: %w", err)
	}
	if summary.CumulativeScore != wantSum {
		return types.Summary{}, fmt.Errorf("%w: summary score %d, want %d", ErrVerification, summary.CumulativeScore, wantSum)
	}
	if want := progression.LevelFor(wantSum).Name; summary.Level.Name != want {
		return types.Summary{}, fmt.Errorf("%w: level %q, want %q", ErrVerification, summary.Level.Name, want)
	}

	top, err := repository.TopN(wantBoard, svc.LeaderboardSize())
	if err != nil {
		return types.Summary{}, err
	}
	if len(top) != len(summary.Leaderboard) {
		return types.Summary{}, fmt.Errorf("%w: leaderboard has %d entries, want %d", ErrVerification, len(summary.Leaderboard), len(top))
	}
	for i, e := range top {
		got := summary.Leaderboard[i]
		if got.Player != e.Player || got.Score != e.Score || got.AttemptsUsed != e.AttemptsUsed {
			return types.Summary{}, fmt.Errorf("%w: leaderboard rank %d is %s/%d, want %s/%d",
				ErrVerification, i+1, got.Player, got.Score, e.Player, e.Score)
		}
	}

	wantDistinct := repository.DistinctAchievements(wantUnlocks)
	gotDistinct := repository.DistinctAchievements(after.unlocks)
	if !slices.Equal(gotDistinct, wantDistinct) {
		return types.Summary{}, fmt.Errorf("%w: achievements %v, want %v", ErrVerification, gotDistinct, wantDistinct)
	}
	return summary, nil
}

// verifyBoard checks the leaderboard log grew by exactly the expected wins,
// in order. Timestamps are not compared.
func verifyBoard(got, want []model.LeaderboardEntry) error {
	if len(got) != len(want) {
		return fmt.Errorf("%w: leaderboard log has %d entries, want %d", ErrVerification, len(got), len(want))
	}
	for i := range got {
		if got[i].Player != want[i].Player || got[i].Score != want[i].Score || got[i].AttemptsUsed != want[i].AttemptsUsed {
			return fmt.Errorf("%w: leaderboard log entry %d differs", ErrVerification, i+1)
		}
	}
	return nil
}
