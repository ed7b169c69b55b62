// Package scoring turns a completed round into points.
package scoring

import (
	"fmt"
	"math/bits"

	"github.com/okian/numguess/internal/domain/difficulty"
)

const minWinScore = 1

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithBasePoints overrides the base points of individual categories.
// Non-positive values and invalid categories are ignored.
func WithBasePoints(points map[difficulty.Category]int) Option {
	return func(s *Scorer) {
		for c, p := range points {
			if c.Valid() && p > 0 {
				s.basePoints[c] = p
			}
		}
	}
}

// Input abstracts the round fields needed for scoring.
type Input struct {
	Category      difficulty.Category
	AttemptsUsed  int
	AttemptBudget int
	Won           bool
}

// Result contains the computed score and the efficiency behind it.
type Result struct {
	Score      int
	Efficiency float64
}

// Scorer computes round scores from a base-points table.
type Scorer struct {
	basePoints map[difficulty.Category]int
}

// New creates a Scorer seeded with the difficulty table's base points.
func New(opts ...Option) *Scorer {
	s := &Scorer{basePoints: make(map[difficulty.Category]int)}
	for _, c := range difficulty.All() {
		s.basePoints[c] = c.BasePoints()
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// BasePoints returns the points for a first-attempt win in c.
func (s *Scorer) BasePoints(c difficulty.Category) int {
	return s.basePoints[c]
}

// Score computes floor(base * (budget - used + 1) / budget) for a win and 0
// for a loss. A win is never worth less than one point, even when the budget
// dwarfs the base points.
func (s *Scorer) Score(in Input) (Result, error) {
	base, ok := s.basePoints[in.Category]
	if !ok {
		return Result{}, fmt.Errorf("%w: category %v", ErrInvalidInput, in.Category)
	}
	if in.AttemptBudget <= 0 {
		return Result{}, fmt.Errorf("%w: attempt budget %d", ErrInvalidInput, in.AttemptBudget)
	}
	if in.AttemptsUsed < 1 || in.AttemptsUsed > in.AttemptBudget {
		return Result{}, fmt.Errorf("%w: attempts used %d outside [1, %d]", ErrInvalidInput, in.AttemptsUsed, in.AttemptBudget)
	}
	if !in.Won {
		return Result{}, nil
	}

	conserved := in.AttemptBudget - in.AttemptsUsed + 1
	score := floorScaled(base, conserved, in.AttemptBudget)
	if score < minWinScore {
		score = minWinScore
	}
	return Result{
		Score:      score,
		Efficiency: float64(conserved) / float64(in.AttemptBudget),
	}, nil
}

// floorScaled returns floor(base*num/den) for 0 < num <= den without
// overflowing or losing precision to floats.
func floorScaled(base, num, den int) int {
	hi, lo := bits.Mul64(uint64(base), uint64(num))
	q, _ := bits.Div64(hi, lo, uint64(den))
	return int(q)
}

var defaultScorer = New()

// Score scores a round with the default table.
func Score(c difficulty.Category, attemptsUsed, attemptBudget int, won bool) (int, error) {
	res, err := defaultScorer.Score(Input{
		Category:      c,
		AttemptsUsed:  attemptsUsed,
		AttemptBudget: attemptBudget,
		Won:           won,
	})
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}
