package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/numguess/internal/domain/achievement"
	"github.com/okian/numguess/internal/domain/difficulty"
	"github.com/okian/numguess/internal/domain/model"
	"github.com/okian/numguess/pkg/logger"
)

// roundRow is the history log table. ID preserves append order.
type roundRow struct {
	ID            uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	RowID         string `gorm:"column:row_id;not null;uniqueIndex"`
	TimestampNS   int64  `gorm:"column:timestamp_ns;not null"`
	Player        string `gorm:"column:player;not null;index"`
	Category      string `gorm:"column:category;not null"`
	RangeSize     int    `gorm:"column:range_size;not null"`
	AttemptBudget int    `gorm:"column:attempt_budget;not null"`
	AttemptsUsed  int    `gorm:"column:attempts_used;not null"`
	Score         int    `gorm:"column:score;not null"`
	Outcome       string `gorm:"column:outcome;not null;index"`
}

func (roundRow) TableName() string { return "history" }

type achievementRow struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	RowID       string `gorm:"column:row_id;not null;uniqueIndex"`
	TimestampNS int64  `gorm:"column:timestamp_ns;not null"`
	Player      string `gorm:"column:player;not null;index"`
	Achievement string `gorm:"column:achievement;not null"`
}

func (achievementRow) TableName() string { return "achievements" }

type leaderboardRow struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	RowID        string `gorm:"column:row_id;not null;uniqueIndex"`
	TimestampNS  int64  `gorm:"column:timestamp_ns;not null"`
	Player       string `gorm:"column:player;not null"`
	Score        int    `gorm:"column:score;not null;index"`
	Category     string `gorm:"column:category;not null"`
	AttemptsUsed int    `gorm:"column:attempts_used;not null"`
}

func (leaderboardRow) TableName() string { return "leaderboard" }

// SQLStore keeps the three logs as SQLite tables through GORM. Timestamps
// are stored as Unix nanoseconds so they read back exactly.
type SQLStore struct {
	mu     sync.Mutex
	db     *gorm.DB
	closed bool
	opts   options
}

// OpenSQLite opens (or creates) the database at path and migrates the
// schema. Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// One writer; also keeps ":memory:" on a single shared connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	s := &SQLStore{db: db, opts: newOptions(opts)}
	if err := s.AutoMigrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	s.opts.logger.Info(ctx, "sqlite store ready", logger.String("path", path))
	return s, nil
}

// AutoMigrate creates or updates the log tables.
func (s *SQLStore) AutoMigrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&roundRow{}, &achievementRow{}, &leaderboardRow{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// AppendRound implements Store.
func (s *SQLStore) AppendRound(ctx context.Context, r model.RoundRecord) (err error) {
	defer s.opts.observeAppend("history", time.Now(), &err)
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	row := roundRow{
		RowID:         uuid.NewString(),
		TimestampNS:   r.Timestamp.UnixNano(),
		Player:        r.Player,
		Category:      r.Category.Code(),
		RangeSize:     r.RangeSize,
		AttemptBudget: r.AttemptBudget,
		AttemptsUsed:  r.AttemptsUsed,
		Score:         r.Score,
		Outcome:       string(r.Outcome),
	}
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// AppendAchievements implements Store. All unlocks of a round commit
// together.
func (s *SQLStore) AppendAchievements(ctx context.Context, unlocks []model.AchievementUnlock) (err error) {
	if len(unlocks) == 0 {
		return nil
	}
	defer s.opts.observeAppend("achievements", time.Now(), &err)
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	rows := make([]achievementRow, len(unlocks))
	for i, u := range unlocks {
		rows[i] = achievementRow{
			RowID:       uuid.NewString(),
			TimestampNS: u.Timestamp.UnixNano(),
			Player:      u.Player,
			Achievement: string(u.Achievement),
		}
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert achievements: %w", err)
	}
	return nil
}

// AppendLeaderboard implements Store.
func (s *SQLStore) AppendLeaderboard(ctx context.Context, e model.LeaderboardEntry) (err error) {
	defer s.opts.observeAppend("leaderboard", time.Now(), &err)
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	row := leaderboardRow{
		RowID:        uuid.NewString(),
		TimestampNS:  e.Timestamp.UnixNano(),
		Player:       e.Player,
		Score:        e.Score,
		Category:     e.Category.Code(),
		AttemptsUsed: e.AttemptsUsed,
	}
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("insert leaderboard: %w", err)
	}
	return nil
}

// SumWinningScores implements Store.
func (s *SQLStore) SumWinningScores(ctx context.Context, player string) (total int, err error) {
	defer s.opts.observeQuery("sum_wins", time.Now(), &err)
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	q := db.Model(&roundRow{}).Where("outcome = ?", string(model.Win))
	if player != "" {
		q = q.Where("player = ?", player)
	}
	var sum int64
	if err := q.Select("COALESCE(SUM(score), 0)").Scan(&sum).Error; err != nil {
		return 0, fmt.Errorf("sum scores: %w", err)
	}
	return int(sum), nil
}

// Rounds implements Store.
func (s *SQLStore) Rounds(ctx context.Context) (out []model.RoundRecord, err error) {
	defer s.opts.observeQuery("history", time.Now(), &err)
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []roundRow
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	out = make([]model.RoundRecord, 0, len(rows))
	for _, r := range rows {
		cat, err := difficulty.ParseCode(r.Category)
		if err != nil {
			return nil, fmt.Errorf("%w: history id %d: %w", ErrCorruptRecord, r.ID, err)
		}
		outcome, err := model.ParseOutcome(r.Outcome)
		if err != nil {
			return nil, fmt.Errorf("%w: history id %d: %w", ErrCorruptRecord, r.ID, err)
		}
		out = append(out, model.RoundRecord{
			Timestamp:     fromNanos(r.TimestampNS),
			Player:        r.Player,
			Category:      cat,
			RangeSize:     r.RangeSize,
			AttemptBudget: r.AttemptBudget,
			AttemptsUsed:  r.AttemptsUsed,
			Score:         r.Score,
			Outcome:       outcome,
		})
	}
	return out, nil
}

// Leaderboard implements Store.
func (s *SQLStore) Leaderboard(ctx context.Context) (out []model.LeaderboardEntry, err error) {
	defer s.opts.observeQuery("leaderboard", time.Now(), &err)
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []leaderboardRow
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	out = make([]model.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		cat, err := difficulty.ParseCode(r.Category)
		if err != nil {
			return nil, fmt.Errorf("%w: leaderboard id %d: %w", ErrCorruptRecord, r.ID, err)
		}
		out = append(out, model.LeaderboardEntry{
			Timestamp:    fromNanos(r.TimestampNS),
			Player:       r.Player,
			Score:        r.Score,
			Category:     cat,
			AttemptsUsed: r.AttemptsUsed,
		})
	}
	return out, nil
}

// Achievements implements Store.
func (s *SQLStore) Achievements(ctx context.Context) (out []model.AchievementUnlock, err error) {
	defer s.opts.observeQuery("achievements", time.Now(), &err)
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []achievementRow
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select achievements: %w", err)
	}
	out = make([]model.AchievementUnlock, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.AchievementUnlock{
			Timestamp:   fromNanos(r.TimestampNS),
			Player:      r.Player,
			Achievement: achievement.ID(r.Achievement),
		})
	}
	return out, nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) conn(ctx context.Context) (*gorm.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.db.WithContext(ctx), nil
}

func fromNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}
