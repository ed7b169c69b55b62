package service

import (
	"fmt"
	"time"

	"github.com/okian/numguess/internal/domain/difficulty"
)

// Feedback tells the player where the secret lies relative to a guess.
type Feedback int

const (
	// Higher means the secret is greater than the guess.
	Higher Feedback = iota + 1
	// Lower means the secret is less than the guess.
	Lower
	// Correct means the guess hit the secret.
	Correct
)

func (f Feedback) String() string {
	switch f {
	case Higher:
		return "higher"
	case Lower:
		return "lower"
	case Correct:
		return "correct"
	default:
		return "unknown"
	}
}

// Round is one guessing game in progress. It is not safe for concurrent use.
type Round struct {
	id        string
	player    string
	rangeSize int
	budget    int
	category  difficulty.Category
	secret    int

	used     int
	won      bool
	finished bool

	// Progress of Finish, so a retry after a failed write skips the logs
	// that already hold this round.
	savedAt      time.Time
	historySaved bool
	boardSaved   bool

	onGuess func(Feedback)
}

// ID returns the round identifier used in logs.
func (r *Round) ID() string { return r.id }

// Player returns the player name.
func (r *Round) Player() string { return r.player }

// RangeSize returns the upper bound of the secret.
func (r *Round) RangeSize() int { return r.rangeSize }

// AttemptBudget returns the number of guesses allowed.
func (r *Round) AttemptBudget() int { return r.budget }

// Category returns the difficulty derived from range and budget.
func (r *Round) Category() difficulty.Category { return r.category }

// AttemptsUsed returns the number of in-range guesses made so far.
func (r *Round) AttemptsUsed() int { return r.used }

// AttemptsLeft returns the guesses remaining.
func (r *Round) AttemptsLeft() int { return r.budget - r.used }

// Won reports whether the secret was guessed.
func (r *Round) Won() bool { return r.won }

// Over reports whether the round has ended, by a correct guess or by
// running out of attempts.
func (r *Round) Over() bool { return r.won || r.used >= r.budget }

// Guess checks n against the secret.
func (r *Round) Guess(n int) (Feedback, error) {
	if r.Over() {
		return 0, ErrRoundOver
	}
	if n < 1 || n > r.rangeSize {
		return 0, fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfRange, n, r.rangeSize)
	}
	r.used++

	var fb Feedback
	switch {
	case n < r.secret:
		fb = Higher
	case n > r.secret:
		fb = Lower
	default:
		fb = Correct
		r.won = true
	}
	if r.onGuess != nil {
		r.onGuess(fb)
	}
	return fb, nil
}

// Secret reveals the secret once the round is over.
func (r *Round) Secret() (int, bool) {
	if !r.Over() {
		return 0, false
	}
	return r.secret, true
}
