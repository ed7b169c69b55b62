package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/numguess/internal/domain/achievement"
	"github.com/okian/numguess/internal/domain/types"
)

const screenWidth = 40

// RenderStats writes the player status, leaderboard and achievement
// sections. Empty sections print a placeholder line.
func RenderStats(w io.Writer, s types.Summary, lang language.Tag) {
	p := message.NewPrinter(lang)
	title := cases.Title(lang)

	heading(w, "PLAYER STATUS")
	p.Fprintf(w, "\nCurrent level: %s\n", s.Level.Name)
	p.Fprintf(w, "Progress in level: %d points\n", s.Level.Progress)
	if s.Level.Next != "" {
		p.Fprintf(w, "Next level: %s in %d points\n", s.Level.Next, s.Level.Remaining)
	} else {
		p.Fprintf(w, "Top level reached\n")
	}
	p.Fprintf(w, "Total score: %d\n\n", s.CumulativeScore)

	heading(w, "GLOBAL LEADERBOARD")
	if len(s.Leaderboard) == 0 {
		_, _ = fmt.Fprintln(w, "\nNo leaderboard entries yet")
	}
	for _, e := range s.Leaderboard {
		p.Fprintf(w, "%d. %s: %d pts\n", e.Rank, e.Player, e.Score)
		p.Fprintf(w, "   Category: %s, Attempts: %d\n\n", e.Category, e.AttemptsUsed)
	}

	heading(w, "UNLOCKED ACHIEVEMENTS")
	if len(s.Achievements) == 0 {
		_, _ = fmt.Fprintln(w, "\nNo achievements unlocked yet")
	}
	for _, a := range s.Achievements {
		_, _ = fmt.Fprintf(w, "- %s\n", achievementLine(title, a))
	}
	if len(s.Achievements) > 0 {
		p.Fprintf(w, "\n%d of %d achievements unlocked\n", len(s.Achievements), len(achievement.Rules()))
	}
}

// achievementLine renders an achievement id with its description.
func achievementLine(title cases.Caser, id string) string {
	name := title.String(id)
	if d := achievement.Describe(achievement.ID(id)); d != "" {
		return name + ": " + d
	}
	return name
}

// WriteJSON writes the summary as indented JSON.
func WriteJSON(w io.Writer, s types.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

func heading(w io.Writer, label string) {
	rule := strings.Repeat("═", screenWidth)
	_, _ = fmt.Fprintf(w, "%s\n%s\n%s\n", rule, center("═ "+label+" ═", screenWidth), rule)
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
