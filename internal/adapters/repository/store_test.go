package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	repository "github.com/okian/numguess/internal/adapters/repository"
	"github.com/okian/numguess/internal/domain/achievement"
	"github.com/okian/numguess/internal/domain/difficulty"
	"github.com/okian/numguess/internal/domain/model"
	"github.com/okian/numguess/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

var t0 = time.Date(2026, 10, 15, 9, 30, 12, 123456789, time.UTC)

type storeFactory struct {
	name string
	open func(t *testing.T) repository.Store
}

func testMetrics() repository.Option {
	return repository.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry())))
}

func factories() []storeFactory {
	return []storeFactory{
		{
			name: "csv",
			open: func(t *testing.T) repository.Store {
				s, err := repository.NewCSVStore(filepath.Join(t.TempDir(), "data"), testMetrics())
				if err != nil {
					t.Fatal(err)
				}
				return s
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) repository.Store {
				s, err := repository.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "numguess.db"), testMetrics())
				if err != nil {
					t.Fatal(err)
				}
				return s
			},
		},
	}
}

func TestStoreContract(t *testing.T) {
	for _, f := range factories() {
		Convey("Given an empty "+f.name+" store", t, func() {
			ctx := context.Background()
			store := f.open(t)
			defer func() { _ = store.Close() }()

			Convey("When nothing has been written", func() {
				sum, errSum := store.SumWinningScores(ctx, "")
				rounds, errRounds := store.Rounds(ctx)
				board, errBoard := store.Leaderboard(ctx)
				unlocks, errUnlocks := store.Achievements(ctx)

				Convey("Then every read returns the empty state", func() {
					So(errSum, ShouldBeNil)
					So(errRounds, ShouldBeNil)
					So(errBoard, ShouldBeNil)
					So(errUnlocks, ShouldBeNil)
					So(sum, ShouldEqual, 0)
					So(rounds, ShouldBeEmpty)
					So(board, ShouldBeEmpty)
					So(unlocks, ShouldBeEmpty)
				})
			})

			Convey("When records are appended", func() {
				win := model.RoundRecord{
					Timestamp: t0, Player: "Ana, the \"Great\"", Category: difficulty.Beginner,
					RangeSize: 100, AttemptBudget: 10, AttemptsUsed: 2, Score: 180, Outcome: model.Win,
				}
				loss := model.RoundRecord{
					Timestamp: t0.Add(time.Minute), Player: "Bo", Category: difficulty.Hard,
					RangeSize: 500, AttemptBudget: 1, AttemptsUsed: 1, Score: 0, Outcome: model.Loss,
				}
				other := model.RoundRecord{
					Timestamp: t0.Add(2 * time.Minute), Player: "Bo", Category: difficulty.Extreme,
					RangeSize: 1000, AttemptBudget: 1, AttemptsUsed: 1, Score: 1000, Outcome: model.Win,
				}
				for _, r := range []model.RoundRecord{win, loss, other} {
					So(store.AppendRound(ctx, r), ShouldBeNil)
				}
				entries := []model.LeaderboardEntry{
					{Timestamp: t0, Player: win.Player, Score: 180, Category: difficulty.Beginner, AttemptsUsed: 2},
					{Timestamp: t0.Add(2 * time.Minute), Player: "Bo", Score: 1000, Category: difficulty.Extreme, AttemptsUsed: 1},
				}
				for _, e := range entries {
					So(store.AppendLeaderboard(ctx, e), ShouldBeNil)
				}
				unlocks := []model.AchievementUnlock{
					{Timestamp: t0, Player: win.Player, Achievement: achievement.Efficient},
					{Timestamp: t0, Player: win.Player, Achievement: achievement.Rookie},
					{Timestamp: t0.Add(2 * time.Minute), Player: "Bo", Achievement: achievement.Legendary},
					{Timestamp: t0.Add(2 * time.Minute), Player: "Bo", Achievement: achievement.Flawless},
				}
				So(store.AppendAchievements(ctx, unlocks[:2]), ShouldBeNil)
				So(store.AppendAchievements(ctx, unlocks[2:]), ShouldBeNil)
				So(store.AppendAchievements(ctx, nil), ShouldBeNil)

				Convey("Then every record reads back with identical fields", func() {
					gotRounds, err := store.Rounds(ctx)
					So(err, ShouldBeNil)
					So(gotRounds, ShouldResemble, []model.RoundRecord{win, loss, other})

					gotBoard, err := store.Leaderboard(ctx)
					So(err, ShouldBeNil)
					So(gotBoard, ShouldResemble, entries)

					gotUnlocks, err := store.Achievements(ctx)
					So(err, ShouldBeNil)
					So(gotUnlocks, ShouldResemble, unlocks)
				})

				Convey("Then winning scores sum globally and per player", func() {
					all, err := store.SumWinningScores(ctx, "")
					So(err, ShouldBeNil)
					So(all, ShouldEqual, 1180)

					bo, err := store.SumWinningScores(ctx, "Bo")
					So(err, ShouldBeNil)
					So(bo, ShouldEqual, 1000)

					nobody, err := store.SumWinningScores(ctx, "Cy")
					So(err, ShouldBeNil)
					So(nobody, ShouldEqual, 0)
				})
			})

			Convey("When the context is cancelled", func() {
				cctx, cancel := context.WithCancel(ctx)
				cancel()
				err := store.AppendRound(cctx, model.RoundRecord{Timestamp: t0, Category: difficulty.Easy, Outcome: model.Loss})

				Convey("Then the append is refused", func() {
					So(errors.Is(err, context.Canceled), ShouldBeTrue)
				})
			})

			Convey("When the store is closed", func() {
				So(store.Close(), ShouldBeNil)
				_, err := store.Rounds(ctx)

				Convey("Then later calls fail with ErrClosed", func() {
					So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
				})
			})
		})
	}
}

func TestCSVStoreFormat(t *testing.T) {
	Convey("Given a csv store", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		store, err := repository.NewCSVStore(dir, testMetrics())
		So(err, ShouldBeNil)

		Convey("When two rounds are appended", func() {
			r := model.RoundRecord{
				Timestamp: t0, Player: "ana", Category: difficulty.Medium,
				RangeSize: 600, AttemptBudget: 3, AttemptsUsed: 2, Score: 400, Outcome: model.Win,
			}
			So(store.AppendRound(ctx, r), ShouldBeNil)
			So(store.AppendRound(ctx, r), ShouldBeNil)

			Convey("Then the file has one header and stable columns", func() {
				data, err := os.ReadFile(filepath.Join(dir, repository.HistoryFile))
				So(err, ShouldBeNil)
				want := "timestamp,player,category,range_size,attempt_budget,attempts_used,score,outcome\n" +
					"2026-10-15T09:30:12.123456789Z,ana,B,600,3,2,400,Win\n" +
					"2026-10-15T09:30:12.123456789Z,ana,B,600,3,2,400,Win\n"
				So(string(data), ShouldEqual, want)
			})
		})

		Convey("When a history row is corrupt", func() {
			content := "timestamp,player,category,range_size,attempt_budget,attempts_used,score,outcome\n" +
				"2026-10-15T09:30:12Z,ana,B,600,3,2,400,Win\n" +
				"2026-10-15T09:31:12Z,ana,Q,600,3,2,400,Win\n"
			So(os.WriteFile(filepath.Join(dir, repository.HistoryFile), []byte(content), 0o600), ShouldBeNil)

			_, err := store.Rounds(ctx)

			Convey("Then the read fails naming the file and line", func() {
				So(errors.Is(err, repository.ErrCorruptRecord), ShouldBeTrue)
				So(errors.Is(err, difficulty.ErrUnknownCategory), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "history.csv line 3")
			})
		})

		Convey("When a file has the wrong header", func() {
			So(os.WriteFile(filepath.Join(dir, repository.AchievementsFile), []byte("a,b,c\n"), 0o600), ShouldBeNil)

			_, err := store.Achievements(ctx)

			Convey("Then it is reported as corrupt", func() {
				So(errors.Is(err, repository.ErrCorruptRecord), ShouldBeTrue)
			})
		})

		// /dev/full accepts the open and fails every flush with ENOSPC.
		if _, err := os.Stat("/dev/full"); err == nil {
			Convey("When the log file cannot take more data", func() {
				So(os.Symlink("/dev/full", filepath.Join(dir, repository.HistoryFile)), ShouldBeNil)
				err := store.AppendRound(ctx, model.RoundRecord{
					Timestamp: t0, Player: "ana", Category: difficulty.Easy,
					RangeSize: 100, AttemptBudget: 2, AttemptsUsed: 1, Score: 400, Outcome: model.Win,
				})

				Convey("Then the write error is returned", func() {
					So(err, ShouldNotBeNil)
					So(err.Error(), ShouldContainSubstring, "write history.csv")
				})
			})
		}

		Convey("When a row has the wrong number of columns", func() {
			content := "timestamp,player,score,category,attempts_used\n2026-10-15T09:30:12Z,ana,400\n"
			So(os.WriteFile(filepath.Join(dir, repository.LeaderboardFile), []byte(content), 0o600), ShouldBeNil)

			_, err := store.Leaderboard(ctx)

			Convey("Then it is reported as corrupt", func() {
				So(errors.Is(err, repository.ErrCorruptRecord), ShouldBeTrue)
			})
		})
	})
}
