// Package store persists advisory sessions in SQLite so a conversation
// can be resumed later. Snapshots are stored as JSON blobs keyed by
// session id; the schema stays deliberately small because the snapshot
// format, not the database, is the contract.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/jaspervw/fastrec/internal/session"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when a session id has no stored snapshot.
var ErrNotFound = errors.New("session not found")

// SessionInfo is a compact listing entry for stored sessions.
type SessionInfo struct {
	ID        string `json:"id"`
	Facts     int    `json:"facts"`
	UpdatedAt string `json:"updated_at"`
}

// Store persists session snapshots in a single SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates the data directory if needed, opens SQLite with WAL
// mode, and runs migrations.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sessions.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			snapshot   TEXT NOT NULL,
			fact_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at DESC);
	`)
	return err
}

// Save upserts a session snapshot.
func (s *Store) Save(snap session.Snapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: encoding snapshot %s: %w", snap.ID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, snapshot, fact_count, updated_at)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT(id) DO UPDATE SET
		   snapshot   = excluded.snapshot,
		   fact_count = excluded.fact_count,
		   updated_at = datetime('now')`,
		snap.ID, string(blob), len(snap.Facts),
	)
	if err != nil {
		return fmt.Errorf("store: saving session %s: %w", snap.ID, err)
	}
	return nil
}

// Load retrieves a snapshot by session id.
func (s *Store) Load(id string) (session.Snapshot, error) {
	var blob string
	err := s.db.QueryRow(`SELECT snapshot FROM sessions WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Snapshot{}, fmt.Errorf("store: %w: %s", ErrNotFound, id)
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("store: loading session %s: %w", id, err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("store: decoding session %s: %w", id, err)
	}
	return snap, nil
}

// List returns stored sessions, most recently updated first.
func (s *Store) List(limit int) ([]SessionInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, fact_count, updated_at FROM sessions ORDER BY updated_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: listing sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.Facts, &info.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a stored session.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: deleting session %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: %w: %s", ErrNotFound, id)
	}
	return nil
}
