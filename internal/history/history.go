// Package history keeps a log of classification results in SQLite.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Record is one stored classification.
type Record struct {
	ID          int64              `json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	Origin      string             `json:"origin"`
	Class       string             `json:"class"`
	Confidence  float32            `json:"confidence"`
	Predictions map[string]float32 `json:"predictions"`
}

// Store wraps the SQLite connection with serialized writes.
type Store struct {
	conn *sql.DB
	mu   sync.RWMutex
}

// New opens (or creates) the database at dbPath.
func New(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS classifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		origin TEXT NOT NULL,
		class TEXT NOT NULL,
		confidence REAL NOT NULL,
		predictions TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_classifications_created_at ON classifications(created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Insert stores rec and returns its ID. A zero CreatedAt is set to now.
func (s *Store) Insert(rec *Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	predictions, err := json.Marshal(rec.Predictions)
	if err != nil {
		return 0, fmt.Errorf("failed to encode predictions: %w", err)
	}

	result, err := s.conn.Exec(`
		INSERT INTO classifications (created_at, origin, class, confidence, predictions)
		VALUES (?, ?, ?, ?, ?)
	`, rec.CreatedAt.UTC(), rec.Origin, rec.Class, rec.Confidence, string(predictions))
	if err != nil {
		return 0, fmt.Errorf("failed to insert classification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	rec.ID = id
	return id, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.conn.Query(`
		SELECT id, created_at, origin, class, confidence, predictions
		FROM classifications
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var predictions string
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Origin, &rec.Class, &rec.Confidence, &predictions); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		if err := json.Unmarshal([]byte(predictions), &rec.Predictions); err != nil {
			return nil, fmt.Errorf("failed to decode predictions: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored classifications per class.
func (s *Store) Count() (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query(`SELECT class, COUNT(*) FROM classifications GROUP BY class`)
	if err != nil {
		return nil, fmt.Errorf("failed to count classifications: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var class string
		var n int
		if err := rows.Scan(&class, &n); err != nil {
			return nil, err
		}
		counts[class] = n
	}
	return counts, rows.Err()
}
