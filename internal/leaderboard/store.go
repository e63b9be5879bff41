package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarlinkco/legal-bench/internal/metric"
)

const defaultLimit = 50

// Store persists leaderboard rows per run so model trends survive across
// benchmark runs.
type Store struct {
	db *sql.DB
}

// Entry is one persisted leaderboard row.
type Entry struct {
	ID       int64
	Model    string
	Total    float64
	Metrics  map[string]float64
	Answered int
	Errors   int
	EvalDate time.Time
}

func NewStore(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("leaderboard: empty db path")
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("leaderboard: create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: open db: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("leaderboard: ping db: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("leaderboard: nil db")
	}

	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS leaderboard_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model TEXT NOT NULL,
			total REAL NOT NULL,
			semantic REAL NOT NULL,
			entity_recall REAL NOT NULL,
			safety REAL NOT NULL,
			grounding REAL NOT NULL,
			reasoning REAL NOT NULL,
			answered INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			eval_date INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_model ON leaderboard_entries(model)`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_eval_date ON leaderboard_entries(eval_date)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("leaderboard: init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun inserts one entry per model summary, all stamped with the same
// evaluation time.
func (s *Store) SaveRun(ctx context.Context, summaries []ModelSummary) error {
	if s == nil || s.db == nil {
		return errors.New("leaderboard: nil store")
	}
	if ctx == nil {
		return errors.New("leaderboard: nil context")
	}

	evalDate := time.Now().UTC().UnixMilli()
	for _, sum := range summaries {
		model := strings.TrimSpace(sum.Model)
		if model == "" {
			return errors.New("leaderboard: summary with empty model")
		}

		_, err := s.db.ExecContext(ctx, `
			INSERT INTO leaderboard_entries (
				model, total, semantic, entity_recall, safety, grounding, reasoning, answered, errors, eval_date
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, model,
			sum.Total,
			sum.Means[metric.NameSemantic],
			sum.Means[metric.NameEntity],
			sum.Means[metric.NameSafety],
			sum.Means[metric.NameGrounding],
			sum.Means[metric.NameReasoning],
			sum.Answered,
			sum.Errors,
			evalDate,
		)
		if err != nil {
			return fmt.Errorf("leaderboard: insert entry: %w", err)
		}
	}
	return nil
}

// Latest returns the most recent entries ranked like the leaderboard.
func (s *Store) Latest(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("leaderboard: nil store")
	}
	if ctx == nil {
		return nil, errors.New("leaderboard: nil context")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, total, semantic, entity_recall, safety, grounding, reasoning, answered, errors, eval_date
		FROM leaderboard_entries
		ORDER BY eval_date DESC, total DESC, grounding DESC, safety DESC, reasoning DESC, model ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: query latest: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// ModelHistory returns all entries for one model, newest first.
func (s *Store) ModelHistory(ctx context.Context, model string) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("leaderboard: nil store")
	}
	if ctx == nil {
		return nil, errors.New("leaderboard: nil context")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("leaderboard: empty model")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, total, semantic, entity_recall, safety, grounding, reasoning, answered, errors, eval_date
		FROM leaderboard_entries
		WHERE model = ?
		ORDER BY eval_date DESC
	`, model)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: query model history: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var semantic, entity, safety, grounding, reasoning float64
		var evalDateMS int64
		if err := rows.Scan(
			&e.ID,
			&e.Model,
			&e.Total,
			&semantic,
			&entity,
			&safety,
			&grounding,
			&reasoning,
			&e.Answered,
			&e.Errors,
			&evalDateMS,
		); err != nil {
			return nil, fmt.Errorf("leaderboard: scan entry: %w", err)
		}
		e.Metrics = map[string]float64{
			metric.NameSemantic:  semantic,
			metric.NameEntity:    entity,
			metric.NameSafety:    safety,
			metric.NameGrounding: grounding,
			metric.NameReasoning: reasoning,
		}
		e.EvalDate = time.UnixMilli(evalDateMS).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard: iterate entries: %w", err)
	}
	return out, nil
}
