package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SnapshotKey is the fixed identifier under which the household snapshot
// is persisted.
const SnapshotKey = "stjerne_data"

// SnapshotStore persists JSON snapshots keyed by a fixed identifier.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Load returns the stored JSON for the key, or nil when nothing has been
// stored yet.
func (s *SnapshotStore) Load(key string) ([]byte, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", key, err)
	}
	return []byte(data), nil
}

// Save upserts the JSON for the key. The write is a single statement, so
// readers never observe a partially written snapshot.
func (s *SnapshotStore) Save(key string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}

// Delete removes the stored snapshot for the key.
func (s *SnapshotStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM snapshots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", key, err)
	}
	return nil
}
