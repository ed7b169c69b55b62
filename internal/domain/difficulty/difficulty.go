// Package difficulty classifies a round by the ratio of range size to
// attempt budget.
package difficulty

import (
	"fmt"
)

// Category is one of the fixed difficulty tiers. The zero value is not a
// valid category.
type Category int

// Categories in table order, strictest first.
const (
	Extreme Category = iota + 1
	Hard
	Medium
	Easy
	Beginner
)

// tier describes one row of the classification table.
type tier struct {
	category   Category
	code       string
	name       string
	ratioMin   float64
	basePoints int
}

// table must stay strictly descending by ratioMin; Classify returns the first
// match, and Beginner at 0 guarantees one.
var table = [...]tier{
	{category: Extreme, code: "S", name: "Extreme", ratioMin: 1000, basePoints: 1000},
	{category: Hard, code: "A", name: "Hard", ratioMin: 500, basePoints: 800},
	{category: Medium, code: "B", name: "Medium", ratioMin: 200, basePoints: 600},
	{category: Easy, code: "C", name: "Easy", ratioMin: 50, basePoints: 400},
	{category: Beginner, code: "D", name: "Beginner", ratioMin: 0, basePoints: 200},
}

// All returns every category in table order.
func All() []Category {
	out := make([]Category, len(table))
	for i, t := range table {
		out[i] = t.category
	}
	return out
}

func (c Category) tier() (tier, bool) {
	if c < Extreme || c > Beginner {
		return tier{}, false
	}
	return table[c-1], true
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	_, ok := c.tier()
	return ok
}

// Code is the single-letter form used in persisted records.
func (c Category) Code() string {
	t, ok := c.tier()
	if !ok {
		return ""
	}
	return t.code
}

// Name is the human readable label.
func (c Category) Name() string {
	t, ok := c.tier()
	if !ok {
		return ""
	}
	return t.name
}

// Threshold is the minimum ratio for the category.
func (c Category) Threshold() float64 {
	t, _ := c.tier()
	return t.ratioMin
}

// BasePoints is the score for a first-attempt win in this category.
func (c Category) BasePoints() int {
	t, _ := c.tier()
	return t.basePoints
}

// String implements fmt.Stringer.
func (c Category) String() string {
	if n := c.Name(); n != "" {
		return n
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCode resolves a persisted code back to its category.
func ParseCode(code string) (Category, error) {
	for _, t := range table {
		if t.code == code {
			return t.category, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, code)
}

// Ratio returns rangeSize / attemptBudget as a real value.
func Ratio(rangeSize, attemptBudget int) float64 {
	return float64(rangeSize) / float64(attemptBudget)
}

// Classify maps a range size and attempt budget to a category.
func Classify(rangeSize, attemptBudget int) (Category, error) {
	if rangeSize <= 0 || attemptBudget <= 0 {
		return 0, fmt.Errorf("%w: range size %d, attempt budget %d", ErrInvalidInput, rangeSize, attemptBudget)
	}
	ratio := Ratio(rangeSize, attemptBudget)
	for _, t := range table {
		if t.ratioMin <= ratio {
			return t.category, nil
		}
	}
	// Unreachable while Beginner sits at 0.
	return Beginner, nil
}
