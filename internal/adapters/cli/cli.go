// Package cli is the interactive terminal front end of the game.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	service "github.com/okian/numguess/internal/app"
	"github.com/okian/numguess/internal/domain/model"
	"github.com/okian/numguess/internal/domain/types"
	"github.com/okian/numguess/pkg/logger"
	"github.com/okian/numguess/pkg/metrics"
)

const clearSequence = "\033[H\033[2J"

// DefaultLanguage is the locale used when none is configured.
var DefaultLanguage = language.English

// Game is the part of the round orchestrator the front end drives.
type Game interface {
	NewRound(ctx context.Context, player string, rangeSize, attemptBudget int) (*service.Round, error)
	Finish(ctx context.Context, r *service.Round) (service.Result, error)
	Stats(ctx context.Context, player string) (types.Summary, error)
}

// CLI runs the prompt loop.
type CLI struct {
	game        Game
	in          io.Reader
	out         io.Writer
	lang        language.Tag
	clearScreen bool
	player      string

	logger  logger.Logger
	metrics *metrics.Manager

	scanner *bufio.Scanner
	printer *message.Printer
	title   cases.Caser
}

// New constructs a CLI over game reading stdin and writing stdout.
func New(game Game, opts ...Option) *CLI {
	c := &CLI{
		game:    game,
		in:      os.Stdin,
		out:     os.Stdout,
		lang:    DefaultLanguage,
		metrics: metrics.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Named("cli")
	}
	c.scanner = bufio.NewScanner(c.in)
	c.printer = message.NewPrinter(c.lang)
	c.title = cases.Title(c.lang)
	return c
}

// Run asks for the player name once, then shows the stats screen, plays a
// round and asks to play again until the player declines. It returns nil on
// a normal exit and ErrInputClosed when the input ends mid-game.
func (c *CLI) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Stats may be scoped to the player, so the name comes first.
		if c.player == "" {
			name, err := c.askName()
			if err != nil {
				return err
			}
			c.player = name
			c.logger.Info(ctx, "session player set", logger.String("player", name))
		}
		if err := c.ShowStats(ctx); err != nil {
			return err
		}
		if err := c.playRound(ctx); err != nil {
			return err
		}

		again, err := c.askYesNo("\nPlay another round? (y/n): ")
		if err != nil {
			return err
		}
		if !again {
			c.println("\nSee you next time!")
			return nil
		}
	}
}

// ShowStats renders the stats screen for the current player.
func (c *CLI) ShowStats(ctx context.Context) error {
	summary, err := c.game.Stats(ctx, c.player)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	if c.clearScreen {
		c.printf("%s", clearSequence)
	}
	RenderStats(c.out, summary, c.lang)
	return nil
}

func (c *CLI) playRound(ctx context.Context) error {
	rangeSize, budget, err := c.askSettings()
	if err != nil {
		return err
	}
	round, err := c.game.NewRound(ctx, c.player, rangeSize, budget)
	if err != nil {
		return fmt.Errorf("start round: %w", err)
	}

	c.printf("\n%s difficulty detected!\n", round.Category().Name())
	c.printf("\nHi %s, I'm thinking of a number between 1 and %d.\n", c.player, rangeSize)
	c.printf("You have %d attempts. Good luck!\n", budget)

	for !round.Over() {
		guess, err := c.askInt(fmt.Sprintf("\nAttempt %d/%d > Enter a number: ", round.AttemptsUsed()+1, budget))
		if err != nil {
			return err
		}
		fb, err := round.Guess(guess)
		if errors.Is(err, service.ErrOutOfRange) {
			c.invalid(ctx, "range")
			c.printf("The number must be between 1 and %d\n", rangeSize)
			continue
		}
		if err != nil {
			return err
		}
		switch fb {
		case service.Higher:
			c.println("My number is higher")
		case service.Lower:
			c.println("My number is lower")
		}
	}

	res, err := c.game.Finish(ctx, round)
	if err != nil {
		return fmt.Errorf("save round: %w", err)
	}
	c.showResult(res)
	return nil
}

func (c *CLI) showResult(res service.Result) {
	if res.Outcome != model.Win {
		c.printf("\nOut of attempts! The number was %d\n", res.Secret)
		return
	}
	c.printer.Fprintf(c.out, "\nCongratulations %s! You guessed it in %d attempts! (+%d points)\n",
		c.player, res.AttemptsUsed, res.Score)
	if len(res.Achievements) == 0 {
		return
	}
	c.println("\nAchievements unlocked!")
	for _, id := range res.Achievements {
		c.printf("- %s\n", achievementLine(c.title, string(id)))
	}
}

func (c *CLI) askName() (string, error) {
	c.println("\nWelcome to the Number Guessing Game!")
	for {
		line, err := c.readLine("\nWhat's your name? ")
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		c.println("Please enter a name")
	}
}

func (c *CLI) askSettings() (int, int, error) {
	for {
		rangeSize, err := c.askInt("\nChoose the highest number (e.g. 100): ")
		if err != nil {
			return 0, 0, err
		}
		budget, err := c.askInt("Choose the number of attempts: ")
		if err != nil {
			return 0, 0, err
		}
		if rangeSize > 0 && budget > 0 {
			return rangeSize, budget, nil
		}
		c.invalid(context.Background(), "settings")
		c.println("Both values must be greater than 0")
	}
}

// askInt re-prompts until the answer is a whole number.
func (c *CLI) askInt(prompt string) (int, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		c.invalid(context.Background(), "integer")
		c.println("Only whole numbers are allowed")
	}
}

func (c *CLI) askYesNo(prompt string) (bool, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		c.invalid(context.Background(), "choice")
		c.println("Invalid option. Only 'y' or 'n'")
	}
}

func (c *CLI) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(c.scanner.Text()), nil
}

func (c *CLI) invalid(ctx context.Context, kind string) {
	c.metrics.RecordErrorByComponent("cli", kind)
	c.logger.Debug(ctx, "invalid input", logger.String("kind", kind))
}

func (c *CLI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *CLI) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}
