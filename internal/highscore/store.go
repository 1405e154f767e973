package highscore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/tomz197/asteroidfield/internal/loop/config"
	_ "modernc.org/sqlite"
)

// Store persists scores. Implementations must be safe for concurrent use.
type Store interface {
	// Top returns the best scores, highest first.
	Top(ctx context.Context) ([]Entry, error)
	// Save records one finished game.
	Save(ctx context.Context, e Entry) error
	Close() error
}

// SQLiteStore keeps every finished game in a SQLite table.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the score database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open scores db: %w", err)
	}

	// WAL lets the web server read while the arcade writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		score INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrate scores db: %w", err)
	}
	return nil
}

// Top returns the best config.MaxHighScores scores. Ties go to the earlier game.
func (s *SQLiteStore) Top(ctx context.Context) ([]Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT name, score, created_at FROM scores ORDER BY score DESC, id ASC LIMIT ?`,
		config.MaxHighScores)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.Name, &e.Score, &at); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		e.At = time.Unix(at, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read top scores: %w", err)
	}
	return entries, nil
}

// Save inserts one score.
func (s *SQLiteStore) Save(ctx context.Context, e Entry) error {
	name, err := CleanName(e.Name)
	if err != nil {
		return err
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	if _, err := s.conn.ExecContext(ctx,
		`INSERT INTO scores (name, score, created_at) VALUES (?, ?, ?)`,
		name, e.Score, at.Unix()); err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// MemoryStore keeps scores in memory, for local play without a database.
type MemoryStore struct {
	mu    sync.Mutex
	board *Board
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{board: NewBoard(nil)}
}

// Top returns the ranked entries.
func (m *MemoryStore) Top(context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Entries(), nil
}

// Save adds e to the board.
func (m *MemoryStore) Save(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.board.Add(e.Name, e.Score)
	return err
}

// Close does nothing.
func (m *MemoryStore) Close() error {
	return nil
}

// LoadBoard reads the current top list from st.
func LoadBoard(ctx context.Context, st Store) (*Board, error) {
	entries, err := st.Top(ctx)
	if err != nil {
		return nil, err
	}
	return NewBoard(entries), nil
}

// Open returns a SQLite store at path, or a MemoryStore when path is empty.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemoryStore(), nil
	}
	st, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return st, nil
}
