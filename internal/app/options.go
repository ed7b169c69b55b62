package service

import (
	"time"

	repository "github.com/okian/numguess/internal/adapters/repository"
	"github.com/okian/numguess/internal/domain/scoring"
	"github.com/okian/numguess/pkg/logger"
	"github.com/okian/numguess/pkg/metrics"
)

// Source draws the secret value. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// Scope selects whose wins count toward the cumulative score.
type Scope string

// Progress scopes.
const (
	ScopeGlobal Scope = "global"
	ScopePlayer Scope = "player"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store rounds are persisted to.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets the random source for secrets.
func WithSource(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLeaderboardSize sets how many entries the stats leaderboard shows.
func WithLeaderboardSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardSize = n
		}
	}
}

// WithProgressScope sets whether levels follow all wins or the player's own.
func WithProgressScope(scope Scope) Option {
	return func(s *Service) {
		if scope == ScopeGlobal || scope == ScopePlayer {
			s.scope = scope
		}
	}
}

// WithMetrics sets the metrics manager rounds are recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithScorer replaces the default scorer.
func WithScorer(sc *scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}
