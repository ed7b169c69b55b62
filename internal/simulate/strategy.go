package simulate

import (
	"math/rand/v2"

	service "github.com/okian/numguess/internal/app"
)

// Strategy picks the next guess inside the interval still consistent with
// the hints seen so far.
type Strategy interface {
	Next(lo, hi int) int
}

// Bisect always guesses the midpoint.
type Bisect struct{}

// Next implements Strategy.
func (Bisect) Next(lo, hi int) int { return lo + (hi-lo)/2 }

// Random guesses uniformly inside the interval.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random strategy drawing from rng.
func NewRandom(rng *rand.Rand) Random { return Random{rng: rng} }

// Next implements Strategy.
func (r Random) Next(lo, hi int) int { return lo + r.rng.IntN(hi-lo+1) }

// playOut guesses until the round ends and narrows the interval on each hint.
func playOut(r *service.Round, s Strategy) error {
	lo, hi := 1, r.RangeSize()
	for !r.Over() {
		g := s.Next(lo, hi)
		fb, err := r.Guess(g)
		if err != nil {
			return err
		}
		switch fb {
		case service.Higher:
			lo = g + 1
		case service.Lower:
			hi = g - 1
		}
	}
	return nil
}
