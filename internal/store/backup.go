package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backup writes a consistent copy of the database to dest. dest must not
// exist yet.
func (s *Store) Backup(ctx context.Context, dest string) error {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return errors.New("backup: missing dest")
	}
	dest = filepath.Clean(dest)
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup: %s already exists", dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, dest)
	return err
}

// Restore makes snapshot id the latest value again by storing a copy of it.
// History is append-only, so the snapshots in between stay listed.
func (s *Store) Restore(ctx context.Context, id int64) (Snapshot, error) {
	tree, _, err := s.Load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.SaveSnapshot(ctx, tree, fmt.Sprintf("restore:%d", id))
}
