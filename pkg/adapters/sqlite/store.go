package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/skelly/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS actor_snapshots (
    name       TEXT PRIMARY KEY,
    tracker    TEXT NOT NULL,
    batch_id   TEXT NOT NULL DEFAULT '',
    payload    TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// Store implements ports.SnapshotStore backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the snapshot database at path.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save upserts the snapshot.
func (s *Store) Save(ctx context.Context, snap domain.ActorSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO actor_snapshots (name, tracker, batch_id, payload, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET
            tracker = excluded.tracker,
            batch_id = excluded.batch_id,
            payload = excluded.payload,
            updated_at = excluded.updated_at`,
		snap.Name,
		snap.Tracker,
		snap.BatchID,
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.Name, err)
	}
	return nil
}

// Load retrieves the snapshot of an actor.
func (s *Store) Load(ctx context.Context, actor string) (domain.ActorSnapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM actor_snapshots WHERE name = ?`, actor).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ActorSnapshot{}, domain.ErrSnapshotNotFound
		}
		return domain.ActorSnapshot{}, fmt.Errorf("load snapshot %s: %w", actor, err)
	}

	var snap domain.ActorSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return domain.ActorSnapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, actor string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM actor_snapshots WHERE name = ?`, actor); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", actor, err)
	}
	return nil
}

// List returns stored actor names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM actor_snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan snapshot name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
