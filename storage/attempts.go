// Package storage keeps a history of level attempts in SQLite, using the
// pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/milk9111/atthegym/levels"
	_ "modernc.org/sqlite"
)

var ErrClosed = errors.New("storage: store is closed")

// Attempt is one finished run of a level. Level names are stored cleaned, so
// "level" and "level.json" address the same history.
type Attempt struct {
	ID        string
	Level     string
	Reason    string
	Elapsed   time.Duration
	Seed      uint64
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path, creating parent directories
// and the schema as needed. A leading ~ expands to the home directory.
func Open(path string) (*Store, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			level TEXT NOT NULL,
			reason TEXT NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_level ON attempts(level, reason, elapsed_ms);
	`)
	return err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SaveAttempt records a and returns its generated id.
func (s *Store) SaveAttempt(a Attempt) (string, error) {
	if s == nil || s.db == nil {
		return "", ErrClosed
	}
	id := uuid.NewString()
	if _, err := s.db.Exec(
		"INSERT INTO attempts (id, level, reason, elapsed_ms, seed) VALUES (?, ?, ?, ?, ?)",
		id, levels.CleanName(a.Level), a.Reason, a.Elapsed.Milliseconds(), int64(a.Seed),
	); err != nil {
		return "", fmt.Errorf("storage: cannot save attempt: %w", err)
	}
	return id, nil
}

// BestExits returns the fastest exits for level, quickest first.
func (s *Store) BestExits(level string, limit int) ([]Attempt, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, level, reason, elapsed_ms, seed, created_at
		 FROM attempts
		 WHERE level = ? AND reason = 'exit'
		 ORDER BY elapsed_ms ASC
		 LIMIT ?`,
		levels.CleanName(level), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a         Attempt
			elapsedMS int64
			seed      int64
			createdAt any
		)
		if err := rows.Scan(&a.ID, &a.Level, &a.Reason, &elapsedMS, &seed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		a.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		a.Seed = uint64(seed)
		a.CreatedAt = parseTime(createdAt)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Counts returns the number of attempts on level per end reason.
func (s *Store) Counts(level string) (map[string]int, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.Query(
		"SELECT reason, COUNT(*) FROM attempts WHERE level = ? GROUP BY reason",
		levels.CleanName(level),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count attempts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			reason string
			n      int
		)
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan count: %w", err)
		}
		counts[reason] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return counts, nil
}

func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
