package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func setupEnv(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("NUMGUESS_STORE_DRIVER", "csv")
	t.Setenv("NUMGUESS_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("NUMGUESS_LOG_FILE", filepath.Join(dir, "numguess.log"))
	t.Setenv("NUMGUESS_METRICS_FILE", filepath.Join(dir, "numguess.prom"))
	return dir
}

func TestRun(t *testing.T) {
	convey.Convey("Given the numguess binary", t, func() {
		ctx := context.Background()
		dir := setupEnv(t)

		convey.Convey("When printing JSON stats on an empty store", func() {
			var stdout, stderr bytes.Buffer
			code := run(ctx, []string{"-json"}, strings.NewReader(""), &stdout, &stderr)

			convey.Convey("Then the empty summary is printed", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldContainSubstring, `"cumulative_score": 0`)
				convey.So(stdout.String(), convey.ShouldContainSubstring, `"name": "Novice"`)
			})
		})

		convey.Convey("When a round is played interactively", func() {
			var stdout, stderr bytes.Buffer
			// A range of one makes the secret certain.
			input := "1\n1\n1\nn\n"
			code := run(ctx, []string{"-player", "ana", "-no-clear"}, strings.NewReader(input), &stdout, &stderr)

			convey.Convey("Then the win is shown and saved", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Congratulations ana!")
				convey.So(stdout.String(), convey.ShouldNotContainSubstring, "What's your name?")

				_, err := os.Stat(filepath.Join(dir, "data", "history.csv"))
				convey.So(err, convey.ShouldBeNil)
				_, err = os.Stat(filepath.Join(dir, "numguess.prom"))
				convey.So(err, convey.ShouldBeNil)
			})

			convey.Convey("And the stats screen is printed afterwards", func() {
				var out bytes.Buffer
				code := run(ctx, []string{"-stats"}, strings.NewReader(""), &out, &stderr)

				convey.Convey("Then it lists the round", func() {
					convey.So(code, convey.ShouldEqual, exitOK)
					convey.So(out.String(), convey.ShouldContainSubstring, "1. ana: 200 pts")
					convey.So(out.String(), convey.ShouldContainSubstring, "- Flawless")
					convey.So(out.String(), convey.ShouldContainSubstring, "- Rookie")
				})
			})
		})

		convey.Convey("When the input ends before a round is played", func() {
			var stdout, stderr bytes.Buffer
			code := run(ctx, []string{"-no-clear"}, strings.NewReader(""), &stdout, &stderr)

			convey.Convey("Then the session ends quietly", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
			})
		})

		convey.Convey("When an unknown flag is given", func() {
			var stdout, stderr bytes.Buffer
			code := run(ctx, []string{"-bogus"}, strings.NewReader(""), &stdout, &stderr)

			convey.Convey("Then usage is reported", func() {
				convey.So(code, convey.ShouldEqual, exitUsage)
			})
		})

		convey.Convey("When the configured store driver is unknown", func() {
			t.Setenv("NUMGUESS_STORE_DRIVER", "mongo")
			var stdout, stderr bytes.Buffer
			code := run(ctx, []string{"-stats"}, strings.NewReader(""), &stdout, &stderr)

			convey.Convey("Then configuration fails", func() {
				convey.So(code, convey.ShouldEqual, exitError)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "failed to load config")
			})
		})

		convey.Convey("When the sqlite driver is configured", func() {
			t.Setenv("NUMGUESS_STORE_DRIVER", "sqlite")
			t.Setenv("NUMGUESS_SQLITE_PATH", filepath.Join(dir, "numguess.db"))
			var stdout, stderr bytes.Buffer
			code := run(ctx, []string{"-player", "bo", "-no-clear"}, strings.NewReader("1\n1\n1\nn\n"), &stdout, &stderr)

			convey.Convey("Then the round is stored in the database", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				_, err := os.Stat(filepath.Join(dir, "numguess.db"))
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}
