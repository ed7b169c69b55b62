package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/okian/numguess/internal/adapters/cli"
	repository "github.com/okian/numguess/internal/adapters/repository"
	service "github.com/okian/numguess/internal/app"
	"github.com/okian/numguess/internal/domain/types"
	"github.com/okian/numguess/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithColor(false)); err != nil {
		panic(err)
	}
}

type fixedSecret int

func (f fixedSecret) IntN(int) int { return int(f) - 1 }

func run(t *testing.T, secret int, input string) (string, *repository.CSVStore, error) {
	store, err := repository.NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := service.New(service.WithStore(store), service.WithSource(fixedSecret(secret)))
	var out bytes.Buffer
	c := cli.New(svc, cli.WithInput(strings.NewReader(input)), cli.WithOutput(&out))
	err = c.Run(context.Background())
	return out.String(), store, err
}

func TestCLI_Run(t *testing.T) {
	Convey("Given a scripted player", t, func() {
		Convey("When they win a Beginner round and quit", func() {
			out, store, err := run(t, 7, "ana\n100\n10\n50\n7\nn\n")

			Convey("Then the round is announced, won and saved", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "No leaderboard entries yet")
				So(out, ShouldContainSubstring, "Beginner difficulty detected!")
				So(out, ShouldContainSubstring, "My number is lower")
				So(out, ShouldContainSubstring, "Congratulations ana! You guessed it in 2 attempts! (+180 points)")
				So(out, ShouldContainSubstring, "- Rookie: Win a Beginner round within two attempts")
				So(out, ShouldContainSubstring, "See you next time!")

				rounds, _ := store.Rounds(context.Background())
				So(rounds, ShouldHaveLength, 1)
			})
		})

		Convey("When they lose and play again", func() {
			out, store, err := run(t, 5, "bo\n10\n1\n1\ny\n10\n1\n5\nn\n")

			Convey("Then the secret is revealed and the name is asked once", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Out of attempts! The number was 5")
				So(strings.Count(out, "What's your name?"), ShouldEqual, 1)
				So(strings.Count(out, "PLAYER STATUS"), ShouldEqual, 2)

				rounds, _ := store.Rounds(context.Background())
				So(rounds, ShouldHaveLength, 2)
			})
		})

		Convey("When they type invalid answers", func() {
			out, _, err := run(t, 1, "\nana\nabc\n10\n0\n10\n2\n99\nx\n1\nmaybe\nn\n")

			Convey("Then each one is re-prompted", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Please enter a name")
				So(strings.Count(out, "Only whole numbers are allowed"), ShouldEqual, 2)
				So(out, ShouldContainSubstring, "Both values must be greater than 0")
				So(out, ShouldContainSubstring, "The number must be between 1 and 10")
				So(out, ShouldContainSubstring, "Invalid option. Only 'y' or 'n'")
				So(out, ShouldContainSubstring, "You guessed it in 1 attempts!")
			})
		})

		Convey("When progress is per player and someone else has scored", func() {
			ctx := context.Background()
			store, err := repository.NewCSVStore(t.TempDir())
			So(err, ShouldBeNil)
			svc := service.New(
				service.WithStore(store),
				service.WithSource(fixedSecret(1)),
				service.WithProgressScope(service.ScopePlayer),
			)
			r, err := svc.NewRound(ctx, "bo", 1000, 1)
			So(err, ShouldBeNil)
			_, _ = r.Guess(1)
			_, err = svc.Finish(ctx, r)
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			c := cli.New(svc, cli.WithInput(strings.NewReader("ana\n10\n1\n1\nn\n")), cli.WithOutput(&buf))
			err = c.Run(ctx)
			out := buf.String()

			Convey("Then the first stats screen already belongs to the new player", func() {
				So(err, ShouldBeNil)
				So(strings.Index(out, "What's your name?"), ShouldBeLessThan, strings.Index(out, "PLAYER STATUS"))
				So(out, ShouldContainSubstring, "Total score: 0")
				So(out, ShouldContainSubstring, "Current level: Novice")
				So(out, ShouldNotContainSubstring, "Total score: 1,000")
				So(out, ShouldContainSubstring, "1. bo: 1,000 pts")
			})
		})

		Convey("When the input ends mid-round", func() {
			_, store, err := run(t, 7, "ana\n100\n10\n50\n")

			Convey("Then ErrInputClosed is returned and nothing is saved", func() {
				So(errors.Is(err, cli.ErrInputClosed), ShouldBeTrue)
				rounds, _ := store.Rounds(context.Background())
				So(rounds, ShouldBeEmpty)
			})
		})
	})
}

func TestRenderStats(t *testing.T) {
	Convey("Given a populated summary", t, func() {
		s := types.Summary{
			CumulativeScore: 24999,
			Level:           types.Level{Name: "Expert", Progress: 14999, Next: "Master", Remaining: 1},
			Leaderboard: []types.Entry{
				{Rank: 1, Player: "ana", Score: 1000, Category: "Extreme", AttemptsUsed: 1},
			},
			Achievements: []string{"legendary", "flawless"},
		}

		Convey("When rendered in English", func() {
			var buf bytes.Buffer
			cli.RenderStats(&buf, s, language.English)
			out := buf.String()

			Convey("Then numbers are grouped and achievements capitalised", func() {
				So(out, ShouldContainSubstring, "Current level: Expert")
				So(out, ShouldContainSubstring, "Progress in level: 14,999 points")
				So(out, ShouldContainSubstring, "Next level: Master in 1 points")
				So(out, ShouldContainSubstring, "1. ana: 1,000 pts")
				So(out, ShouldContainSubstring, "- Legendary: Win an Extreme round on the first attempt")
				So(out, ShouldContainSubstring, "- Flawless: Win on the very last attempt")
				So(out, ShouldContainSubstring, "2 of 5 achievements unlocked")
				So(out, ShouldNotContainSubstring, "No achievements unlocked yet")
			})
		})

		Convey("When the top level is reached", func() {
			var buf bytes.Buffer
			cli.RenderStats(&buf, types.Summary{Level: types.Level{Name: "Legend"}}, language.English)

			Convey("Then no next level is shown", func() {
				So(buf.String(), ShouldContainSubstring, "Top level reached")
				So(buf.String(), ShouldContainSubstring, "No achievements unlocked yet")
			})
		})

		Convey("When written as JSON", func() {
			var buf bytes.Buffer
			err := cli.WriteJSON(&buf, s)

			Convey("Then the fields use snake case keys", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, `"cumulative_score": 24999`)
				So(buf.String(), ShouldContainSubstring, `"attempts_used": 1`)
			})
		})
	})
}
