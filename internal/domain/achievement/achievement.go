// Package achievement evaluates which achievements a winning round unlocks.
package achievement

import (
	"math/bits"

	"github.com/okian/numguess/internal/domain/difficulty"
)

// ID identifies an achievement in persisted records.
type ID string

// Known achievements, in rule-table order.
const (
	Legendary ID = "legendary"
	Efficient ID = "efficient"
	Flawless  ID = "flawless"
	Master    ID = "master"
	Rookie    ID = "rookie"
)

// Round holds what the rules look at.
type Round struct {
	Category      difficulty.Category
	AttemptsUsed  int
	AttemptBudget int
}

// usedAtMost reports used/budget <= num/den without floating point. The
// products are taken in 128 bits so large budgets cannot overflow.
func (r Round) usedAtMost(num, den int) bool {
	if r.AttemptsUsed <= 0 {
		return true
	}
	lhsHi, lhsLo := bits.Mul64(uint64(r.AttemptsUsed), uint64(den))
	rhsHi, rhsLo := bits.Mul64(uint64(r.AttemptBudget), uint64(num))
	return lhsHi < rhsHi || (lhsHi == rhsHi && lhsLo <= rhsLo)
}

// Rule is one independent achievement predicate.
type Rule struct {
	ID          ID
	Description string
	Match       func(Round) bool
}

// flawless fires when the last attempt wins. The name suggests a clean win
// but the persisted history depends on this exact condition.
var rules = []Rule{
	{
		ID:          Legendary,
		Description: "Win an Extreme round on the first attempt",
		Match: func(r Round) bool {
			return r.Category == difficulty.Extreme && r.AttemptsUsed == 1
		},
	},
	{
		ID:          Efficient,
		Description: "Win using at most 20% of the attempt budget",
		Match: func(r Round) bool {
			return r.usedAtMost(1, 5)
		},
	},
	{
		ID:          Flawless,
		Description: "Win on the very last attempt",
		Match: func(r Round) bool {
			return r.AttemptsUsed == r.AttemptBudget
		},
	},
	{
		ID:          Master,
		Description: "Win an Extreme or Hard round using at most 30% of the attempt budget",
		Match: func(r Round) bool {
			return (r.Category == difficulty.Extreme || r.Category == difficulty.Hard) && r.usedAtMost(3, 10)
		},
	},
	{
		ID:          Rookie,
		Description: "Win a Beginner round within two attempts",
		Match: func(r Round) bool {
			return r.Category == difficulty.Beginner && r.AttemptsUsed <= 2
		},
	},
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Describe returns the description of id, or "" if it is unknown.
func Describe(id ID) string {
	for _, r := range rules {
		if r.ID == id {
			return r.Description
		}
	}
	return ""
}

// Evaluate returns every achievement a winning round unlocks, in rule-table
// order. It must only be called for wins.
func Evaluate(c difficulty.Category, attemptsUsed, attemptBudget int) []ID {
	if attemptBudget <= 0 {
		return nil
	}
	round := Round{Category: c, AttemptsUsed: attemptsUsed, AttemptBudget: attemptBudget}
	var unlocked []ID
	for _, r := range rules {
		if r.Match(round) {
			unlocked = append(unlocked, r.ID)
		}
	}
	return unlocked
}
