package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/okian/numguess/internal/domain/achievement"
	"github.com/okian/numguess/internal/domain/difficulty"
	"github.com/okian/numguess/internal/domain/model"
	"github.com/okian/numguess/pkg/logger"
)

// Log file names inside the data directory.
const (
	HistoryFile      = "history.csv"
	AchievementsFile = "achievements.csv"
	LeaderboardFile  = "leaderboard.csv"
)

const filePermission = 0o644

// Column orders are part of the on-disk format; never reorder.
var (
	historyHeader     = []string{"timestamp", "player", "category", "range_size", "attempt_budget", "attempts_used", "score", "outcome"}
	achievementHeader = []string{"timestamp", "player", "achievement"}
	leaderboardHeader = []string{"timestamp", "player", "score", "category", "attempts_used"}
)

// CSVStore keeps each log as a CSV file with a header row. Files are created
// on first append; a missing file reads as an empty log.
type CSVStore struct {
	mu     sync.Mutex
	dir    string
	closed bool
	opts   options
}

// NewCSVStore returns a store rooted at dir, creating dir if needed.
func NewCSVStore(dir string, opts ...Option) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &CSVStore{dir: dir, opts: newOptions(opts)}, nil
}

// Dir returns the data directory.
func (s *CSVStore) Dir() string { return s.dir }

// AppendRound implements Store.
func (s *CSVStore) AppendRound(ctx context.Context, r model.RoundRecord) (err error) {
	defer s.opts.observeAppend("history", time.Now(), &err)
	return s.append(ctx, HistoryFile, historyHeader, [][]string{{
		formatTime(r.Timestamp),
		r.Player,
		r.Category.Code(),
		strconv.Itoa(r.RangeSize),
		strconv.Itoa(r.AttemptBudget),
		strconv.Itoa(r.AttemptsUsed),
		strconv.Itoa(r.Score),
		string(r.Outcome),
	}})
}

// AppendAchievements implements Store.
func (s *CSVStore) AppendAchievements(ctx context.Context, unlocks []model.AchievementUnlock) (err error) {
	if len(unlocks) == 0 {
		return nil
	}
	defer s.opts.observeAppend("achievements", time.Now(), &err)
	rows := make([][]string, len(unlocks))
	for i, u := range unlocks {
		rows[i] = []string{formatTime(u.Timestamp), u.Player, string(u.Achievement)}
	}
	return s.append(ctx, AchievementsFile, achievementHeader, rows)
}

// AppendLeaderboard implements Store.
func (s *CSVStore) AppendLeaderboard(ctx context.Context, e model.LeaderboardEntry) (err error) {
	defer s.opts.observeAppend("leaderboard", time.Now(), &err)
	return s.append(ctx, LeaderboardFile, leaderboardHeader, [][]string{{
		formatTime(e.Timestamp),
		e.Player,
		strconv.Itoa(e.Score),
		e.Category.Code(),
		strconv.Itoa(e.AttemptsUsed),
	}})
}

// SumWinningScores implements Store.
func (s *CSVStore) SumWinningScores(ctx context.Context, player string) (int, error) {
	rounds, err := s.Rounds(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range rounds {
		if r.Outcome == model.Win && (player == "" || r.Player == player) {
			total += r.Score
		}
	}
	return total, nil
}

// Rounds implements Store.
func (s *CSVStore) Rounds(ctx context.Context) (out []model.RoundRecord, err error) {
	defer s.opts.observeQuery("history", time.Now(), &err)
	err = s.read(ctx, HistoryFile, historyHeader, func(row []string) error {
		r, perr := parseRound(row)
		if perr != nil {
			return perr
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// Leaderboard implements Store.
func (s *CSVStore) Leaderboard(ctx context.Context) (out []model.LeaderboardEntry, err error) {
	defer s.opts.observeQuery("leaderboard", time.Now(), &err)
	err = s.read(ctx, LeaderboardFile, leaderboardHeader, func(row []string) error {
		e, perr := parseLeaderboard(row)
		if perr != nil {
			return perr
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

// Achievements implements Store.
func (s *CSVStore) Achievements(ctx context.Context) (out []model.AchievementUnlock, err error) {
	defer s.opts.observeQuery("achievements", time.Now(), &err)
	err = s.read(ctx, AchievementsFile, achievementHeader, func(row []string) error {
		ts, perr := parseTime(row[0])
		if perr != nil {
			return perr
		}
		out = append(out, model.AchievementUnlock{Timestamp: ts, Player: row[1], Achievement: achievement.ID(row[2])})
		return nil
	})
	return out, err
}

// Close implements Store. Files are opened per operation, so this only
// rejects later calls.
func (s *CSVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *CSVStore) append(ctx context.Context, name string, header []string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat %s: %w", name, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s header: %w", name, err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	s.opts.logger.Debug(ctx, "appended records", logger.String("file", name), logger.Int("rows", len(rows)))
	return nil
}

func (s *CSVStore) read(ctx context.Context, name string, header []string, fn func([]string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)
	r.ReuseRecord = true

	first := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCorruptRecord, name, err)
		}
		if first {
			first = false
			if !slices.Equal(row, header) {
				return fmt.Errorf("%w: %s: unexpected header %v", ErrCorruptRecord, name, row)
			}
			continue
		}
		if err := fn(row); err != nil {
			line, _ := r.FieldPos(0)
			return fmt.Errorf("%w: %s line %d: %w", ErrCorruptRecord, name, line, err)
		}
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseRound(row []string) (model.RoundRecord, error) {
	ts, err := parseTime(row[0])
	if err != nil {
		return model.RoundRecord{}, err
	}
	cat, err := difficulty.ParseCode(row[2])
	if err != nil {
		return model.RoundRecord{}, err
	}
	ints, err := atoiAll(row[3], row[4], row[5], row[6])
	if err != nil {
		return model.RoundRecord{}, err
	}
	outcome, err := model.ParseOutcome(row[7])
	if err != nil {
		return model.RoundRecord{}, err
	}
	return model.RoundRecord{
		Timestamp:     ts,
		Player:        row[1],
		Category:      cat,
		RangeSize:     ints[0],
		AttemptBudget: ints[1],
		AttemptsUsed:  ints[2],
		Score:         ints[3],
		Outcome:       outcome,
	}, nil
}

func parseLeaderboard(row []string) (model.LeaderboardEntry, error) {
	ts, err := parseTime(row[0])
	if err != nil {
		return model.LeaderboardEntry{}, err
	}
	ints, err := atoiAll(row[2], row[4])
	if err != nil {
		return model.LeaderboardEntry{}, err
	}
	cat, err := difficulty.ParseCode(row[3])
	if err != nil {
		return model.LeaderboardEntry{}, err
	}
	return model.LeaderboardEntry{
		Timestamp:    ts,
		Player:       row[1],
		Score:        ints[0],
		Category:     cat,
		AttemptsUsed: ints[1],
	}, nil
}

func atoiAll(fields ...string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
