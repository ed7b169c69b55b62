package cli

import (
	"io"

	"golang.org/x/text/language"

	"github.com/okian/numguess/pkg/logger"
	"github.com/okian/numguess/pkg/metrics"
)

// Option applies a configuration option to the CLI.
type Option func(*CLI)

// WithInput sets where answers are read from.
func WithInput(r io.Reader) Option {
	return func(c *CLI) {
		if r != nil {
			c.in = r
		}
	}
}

// WithOutput sets where prompts and screens are written.
func WithOutput(w io.Writer) Option {
	return func(c *CLI) {
		if w != nil {
			c.out = w
		}
	}
}

// WithLanguage sets the locale used for number grouping and capitalisation.
func WithLanguage(tag language.Tag) Option {
	return func(c *CLI) {
		c.lang = tag
	}
}

// WithClearScreen clears the terminal before each stats screen.
func WithClearScreen(enabled bool) Option {
	return func(c *CLI) {
		c.clearScreen = enabled
	}
}

// WithPlayer skips the name prompt.
func WithPlayer(name string) Option {
	return func(c *CLI) {
		c.player = name
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *CLI) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics manager invalid input is counted on.
func WithMetrics(m *metrics.Manager) Option {
	return func(c *CLI) {
		if m != nil {
			c.metrics = m
		}
	}
}
