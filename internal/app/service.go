// Package service runs guessing rounds and turns finished rounds into
// persisted history, leaderboard entries and achievements.
package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/numguess/internal/adapters/repository"
	"github.com/okian/numguess/internal/domain/achievement"
	"github.com/okian/numguess/internal/domain/difficulty"
	"github.com/okian/numguess/internal/domain/model"
	"github.com/okian/numguess/internal/domain/progression"
	"github.com/okian/numguess/internal/domain/scoring"
	"github.com/okian/numguess/internal/domain/types"
	"github.com/okian/numguess/pkg/logger"
	"github.com/okian/numguess/pkg/metrics"
)

const defaultLeaderboardSize = 5

// Service is the round orchestrator.
type Service struct {
	store   repository.Store
	scorer  *scoring.Scorer
	source  Source
	now     func() time.Time
	logger  logger.Logger
	metrics *metrics.Manager

	leaderboardSize int
	scope           Scope
}

// Result is the outcome of a finished round.
type Result struct {
	Category      difficulty.Category
	Outcome       model.Outcome
	Score         int
	AttemptsUsed  int
	AttemptBudget int
	Secret        int
	Achievements  []achievement.ID
}

// New constructs a Service. Without WithStore, rounds can be played but not
// finished, and Stats reports the empty state.
func New(opts ...Option) *Service {
	s := &Service{
		scorer:          scoring.New(),
		source:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // game secret, not a credential
		now:             time.Now,
		metrics:         metrics.Default(),
		leaderboardSize: defaultLeaderboardSize,
		scope:           ScopeGlobal,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	return s
}

// LeaderboardSize returns the number of entries Stats ranks.
func (s *Service) LeaderboardSize() int { return s.leaderboardSize }

// NewRound validates the settings, classifies them and draws a secret in
// [1, rangeSize].
func (s *Service) NewRound(ctx context.Context, player string, rangeSize, attemptBudget int) (*Round, error) {
	if player == "" {
		return nil, fmt.Errorf("%w: empty player name", ErrInvalidInput)
	}
	category, err := difficulty.Classify(rangeSize, attemptBudget)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	r := &Round{
		id:        uuid.NewString(),
		player:    player,
		rangeSize: rangeSize,
		budget:    attemptBudget,
		category:  category,
		secret:    s.source.IntN(rangeSize) + 1,
		onGuess: func(fb Feedback) {
			s.metrics.RecordGuess(fb.String())
		},
	}

	s.logger.Debug(ctx, "round started",
		logger.String("round", r.id),
		logger.String("player", player),
		logger.Int("rangeSize", rangeSize),
		logger.Int("attemptBudget", attemptBudget),
		logger.String("category", category.Name()),
	)
	return r, nil
}

// Finish scores an ended round and appends its records: the history entry
// always, and on a win the leaderboard entry and any achievements.
func (s *Service) Finish(ctx context.Context, r *Round) (Result, error) {
	if r.finished {
		return Result{}, ErrRoundOver
	}
	if !r.Over() {
		return Result{}, ErrRoundInProgress
	}
	if s.store == nil {
		return Result{}, ErrNoStore
	}

	used := r.used
	if !r.won {
		used = r.budget
	}
	scored, err := s.scorer.Score(scoring.Input{
		Category:      r.category,
		AttemptsUsed:  used,
		AttemptBudget: r.budget,
		Won:           r.won,
	})
	if err != nil {
		return Result{}, fmt.Errorf("score round %s: %w", r.id, err)
	}

	res := Result{
		Category:      r.category,
		Outcome:       model.OutcomeOf(r.won),
		Score:         scored.Score,
		AttemptsUsed:  used,
		AttemptBudget: r.budget,
		Secret:        r.secret,
	}
	if r.won {
		res.Achievements = achievement.Evaluate(r.category, used, r.budget)
	}

	if err := s.persist(ctx, r, res); err != nil {
		s.metrics.RecordErrorByComponent("service", "persist")
		s.logger.Error(ctx, "failed to persist round",
			logger.String("round", r.id),
			logger.Error(err),
		)
		return Result{}, err
	}
	r.finished = true

	s.metrics.RecordRound(res.Category.Name(), string(res.Outcome), res.Score, res.AttemptsUsed)
	for _, id := range res.Achievements {
		s.metrics.RecordAchievement(string(id))
	}
	s.logger.Info(ctx, "round finished",
		logger.String("round", r.id),
		logger.String("player", r.player),
		logger.String("outcome", string(res.Outcome)),
		logger.Int("score", res.Score),
		logger.Int("achievements", len(res.Achievements)),
	)
	return res, nil
}

// persist appends the round to each log at most once. Steps that succeeded
// on an earlier attempt are skipped, and every record keeps the timestamp of
// the first attempt.
func (s *Service) persist(ctx context.Context, r *Round, res Result) error {
	if r.savedAt.IsZero() {
		r.savedAt = s.now().UTC()
	}
	ts := r.savedAt

	if !r.historySaved {
		if err := s.store.AppendRound(ctx, model.RoundRecord{
			Timestamp:     ts,
			Player:        r.player,
			Category:      res.Category,
			RangeSize:     r.rangeSize,
			AttemptBudget: r.budget,
			AttemptsUsed:  res.AttemptsUsed,
			Score:         res.Score,
			Outcome:       res.Outcome,
		}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		r.historySaved = true
	}
	if res.Outcome != model.Win {
		return nil
	}

	if !r.boardSaved {
		if err := s.store.AppendLeaderboard(ctx, model.LeaderboardEntry{
			Timestamp:    ts,
			Player:       r.player,
			Score:        res.Score,
			Category:     res.Category,
			AttemptsUsed: res.AttemptsUsed,
		}); err != nil {
			return fmt.Errorf("append leaderboard: %w", err)
		}
		r.boardSaved = true
	}

	unlocks := make([]model.AchievementUnlock, len(res.Achievements))
	for i, id := range res.Achievements {
		unlocks[i] = model.AchievementUnlock{Timestamp: ts, Player: r.player, Achievement: id}
	}
	if err := s.store.AppendAchievements(ctx, unlocks); err != nil {
		return fmt.Errorf("append achievements: %w", err)
	}
	return nil
}

// Stats builds the progression summary. With ScopePlayer, cumulative score
// and achievements cover only player; the leaderboard is always global.
// Without a store, or with no history, the summary is the empty state.
func (s *Service) Stats(ctx context.Context, player string) (types.Summary, error) {
	filter := ""
	if s.scope == ScopePlayer {
		filter = player
	}

	summary := types.Summary{
		Player:       filter,
		Leaderboard:  []types.Entry{},
		Achievements: []string{},
	}
	if s.store == nil {
		summary.Level = toLevel(progression.LevelFor(0))
		return summary, nil
	}

	total, err := s.store.SumWinningScores(ctx, filter)
	if err != nil {
		return types.Summary{}, fmt.Errorf("cumulative score: %w", err)
	}
	summary.CumulativeScore = total
	summary.Level = toLevel(progression.LevelFor(total))

	entries, err := s.store.Leaderboard(ctx)
	if err != nil {
		return types.Summary{}, fmt.Errorf("leaderboard: %w", err)
	}
	top, err := repository.TopN(entries, s.leaderboardSize)
	if err != nil {
		return types.Summary{}, err
	}
	for _, e := range top {
		summary.Leaderboard = append(summary.Leaderboard, types.Entry{
			Rank:         e.Rank,
			Player:       e.Player,
			Score:        e.Score,
			Category:     e.Category.Name(),
			AttemptsUsed: e.AttemptsUsed,
		})
	}

	unlocks, err := s.store.Achievements(ctx)
	if err != nil {
		return types.Summary{}, fmt.Errorf("achievements: %w", err)
	}
	for _, id := range repository.DistinctAchievements(repository.FilterPlayer(unlocks, filter)) {
		summary.Achievements = append(summary.Achievements, string(id))
	}

	s.metrics.UpdateCumulativeScore(total)
	s.metrics.UpdateLeaderboardEntries(len(entries))
	return summary, nil
}

// Close releases the store.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

func toLevel(l progression.Level) types.Level {
	return types.Level{
		Name:      l.Name,
		Progress:  l.Progress,
		Next:      l.NextName,
		Remaining: l.Remaining(),
	}
}
