// Package store persists named controller parameter sets in SQLite so
// trained policies survive process restarts. Parameters are stored as
// JSON; the schema knows nothing about individual genes.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"verdant/policy"
)

// ErrNotFound is returned when no parameter set has the requested name.
var ErrNotFound = errors.New("store: parameter set not found")

// Store wraps a SQLite connection for parameter persistence.
type Store struct {
	conn *sqlx.DB
}

// Entry describes one saved parameter set.
type Entry struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	Score     float64 `db:"score"`
	CreatedAt string  `db:"created_at"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS param_sets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		params_json TEXT NOT NULL,
		score REAL NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Save stores a parameter set under a name, replacing any previous set
// with that name. Returns the record id.
func (s *Store) Save(name string, params policy.ControllerParams, score float64) (string, error) {
	if name == "" {
		return "", fmt.Errorf("store: empty name")
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}

	id := uuid.NewString()
	_, err = s.conn.Exec(`INSERT INTO param_sets (id, name, params_json, score, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET params_json=excluded.params_json,
			score=excluded.score, created_at=excluded.created_at`,
		id, name, string(data), score, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("save %q: %w", name, err)
	}
	return id, nil
}

// Load returns the parameter set saved under the given name.
func (s *Store) Load(name string) (policy.ControllerParams, error) {
	var raw string
	err := s.conn.Get(&raw, `SELECT params_json FROM param_sets WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return policy.ControllerParams{}, ErrNotFound
	}
	if err != nil {
		return policy.ControllerParams{}, fmt.Errorf("load %q: %w", name, err)
	}

	var params policy.ControllerParams
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return policy.ControllerParams{}, fmt.Errorf("unmarshal %q: %w", name, err)
	}
	return params, nil
}

// List returns all saved parameter sets, newest first.
func (s *Store) List() ([]Entry, error) {
	var out []Entry
	err := s.conn.Select(&out, `SELECT id, name, score, created_at FROM param_sets
		ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return out, nil
}

// Delete removes the parameter set with the given name, if present.
func (s *Store) Delete(name string) error {
	_, err := s.conn.Exec(`DELETE FROM param_sets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}
