// Package history persists command history: whole-collection JSON snapshots
// for session state and a SQLite archive for the durable, searchable record.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

// SnapshotStore is a JSON key-value store: one file per key under the state
// directory. It backs the tracker's full-collection snapshots and the user
// workflow list.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore roots the store at dir, creating it if needed. An empty
// dir defaults to ~/.termsense/state.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if dir == "" {
		dir = filepath.Join(userHome(), ".termsense", "state")
	}
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

// Load decodes the snapshot stored under key into value. Returns
// ports.ErrNotFound when the key has never been written.
func (s *SnapshotStore) Load(key string, value any) error {
	data, err := os.ReadFile(s.PathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ports.ErrNotFound
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Save serializes value under key. Snapshots may contain redacted command
// output, so files are written with owner-only permissions.
func (s *SnapshotStore) Save(key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	tmp := s.PathFor(key) + ".tmp"
	if err := os.WriteFile(tmp, data, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.PathFor(key)); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

// PathFor exposes the file backing a key, used by the watcher-driven
// workflow reload.
func (s *SnapshotStore) PathFor(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.StateStore = (*SnapshotStore)(nil)
