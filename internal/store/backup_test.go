package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup_CopyOpensWithSameHistory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.SaveSnapshot(ctx, sampleTree(), "import")
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "backups", "tree.sqlite")
	require.NoError(t, s.Backup(ctx, dest))

	b, err := Open(ctx, dest)
	require.NoError(t, err)
	defer b.Close()

	tree, snap, err := b.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "import", snap.Reason)
	assert.True(t, tree.Equal(sampleTree()))
}

func TestBackup_RefusesExistingDest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	dest := filepath.Join(t.TempDir(), "tree.sqlite")
	require.NoError(t, s.Backup(ctx, dest))
	assert.Error(t, s.Backup(ctx, dest))
	assert.Error(t, s.Backup(ctx, " "))
}

func TestRestore_AppendsCopyOfOldSnapshot(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	first, err := s.SaveSnapshot(ctx, sampleTree(), "import")
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, sampleTree()[:1], "cli:move")
	require.NoError(t, err)

	snap, err := s.Restore(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "restore:1", snap.Reason)
	assert.Equal(t, first.Digest, snap.Digest)

	tree, _, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.True(t, tree.Equal(sampleTree()))

	snaps, err := s.Snapshots(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, snaps, 3)

	_, err = s.Restore(ctx, 99)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
