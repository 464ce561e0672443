// Package store keeps a SQLite history of computed answers.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("answer not found")

type Answer struct {
	ID        int64         `json:"id"`
	Day       int           `json:"day"`
	Part      int           `json:"part"`
	Value     string        `json:"value"`
	Duration  time.Duration `json:"duration_ns"`
	InputHash string        `json:"input_hash"`
	CreatedAt time.Time     `json:"created_at"`
}

type AnswerStore struct {
	db *sql.DB
	mu sync.RWMutex
}

func Open(dbPath string) (*AnswerStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &AnswerStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *AnswerStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day INTEGER NOT NULL,
		part INTEGER NOT NULL,
		answer TEXT NOT NULL,
		duration_ns INTEGER NOT NULL DEFAULT 0,
		input_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_answers_day_part ON answers(day, part, id);
	`

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (s *AnswerStore) Record(ctx context.Context, a Answer) (*Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO answers (day, part, answer, duration_ns, input_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		a.Day, a.Part, a.Value, int64(a.Duration), a.InputHash, a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	a.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (s *AnswerStore) Latest(ctx context.Context, day, part int) (*Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, day, part, answer, duration_ns, input_hash, created_at FROM answers WHERE day = ? AND part = ? ORDER BY id DESC LIMIT 1",
		day, part,
	)

	a, err := scanAnswer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: day %d part %d", ErrNotFound, day, part)
	}
	return a, err
}

// History returns the newest answers first. A day of 0 matches every day and
// a limit of 0 or less returns everything.
func (s *AnswerStore) History(ctx context.Context, day, limit int) ([]Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, day, part, answer, duration_ns, input_hash, created_at FROM answers"
	args := []any{}

	if day > 0 {
		query += " WHERE day = ?"
		args = append(args, day)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, *a)
	}

	return answers, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnswer(row scanner) (*Answer, error) {
	a := &Answer{}
	var durationNS int64

	if err := row.Scan(&a.ID, &a.Day, &a.Part, &a.Value, &durationNS, &a.InputHash, &a.CreatedAt); err != nil {
		return nil, err
	}

	a.Duration = time.Duration(durationNS)
	return a, nil
}

func (s *AnswerStore) Close() error {
	return s.db.Close()
}
