// Package mirror implements the local snapshot store: a small SQLite
// key-value table holding the last-known-good JSON snapshot of each entity
// collection, plus the admin session flag.
//
// The mirror is deliberately dumb. Callers always write a complete,
// already-ordered snapshot; there is no validation and no merge logic.
// It serves as the sole store when no remote database is configured and as
// the fallback when a remote read fails.
package mirror

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Snapshot keys, one per entity kind.
const (
	KindInsights      = "insights"
	KindJournals      = "journals"
	KindNotifications = "notifications"
)

// Mirror is a keyed snapshot store backed by a local SQLite file.
type Mirror struct {
	db *sql.DB
}

// Open opens (or creates) the mirror database at path and ensures the
// snapshot table exists.
func Open(path string) (*Mirror, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			kind     TEXT PRIMARY KEY,
			payload  TEXT NOT NULL,
			saved_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshot table: %w", err)
	}

	return &Mirror{db: db}, nil
}

// Write replaces the snapshot stored under kind with the JSON encoding of v.
func (m *Mirror) Write(kind string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", kind, err)
	}

	_, err = m.db.Exec(`
		INSERT INTO snapshots (kind, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT (kind) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`, kind, string(payload), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write %s snapshot: %w", kind, err)
	}
	return nil
}

// Read decodes the snapshot stored under kind into dest. It reports whether
// a snapshot existed; a missing kind is not an error and leaves dest
// untouched.
func (m *Mirror) Read(kind string, dest any) (bool, error) {
	var payload string
	err := m.db.QueryRow(`SELECT payload FROM snapshots WHERE kind = ?`, kind).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s snapshot: %w", kind, err)
	}

	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return false, fmt.Errorf("failed to decode %s snapshot: %w", kind, err)
	}
	return true, nil
}

// Delete removes the snapshot stored under kind, if any.
func (m *Mirror) Delete(kind string) error {
	if _, err := m.db.Exec(`DELETE FROM snapshots WHERE kind = ?`, kind); err != nil {
		return fmt.Errorf("failed to delete %s snapshot: %w", kind, err)
	}
	return nil
}

// Close closes the underlying database.
func (m *Mirror) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
