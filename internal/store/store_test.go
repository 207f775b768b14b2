package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"sortable-cli/internal/bridge"
	"sortable-cli/internal/model"
	"sortable-cli/internal/reorder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "tree.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTree() model.Tree {
	return model.Tree{
		{ID: 1, Name: "Item 1", Children: []model.Node{{ID: 4, Name: "Item 1.1"}}},
		{ID: 2, Name: "Item 2"},
	}
}

func TestLatest_EmptyStore(t *testing.T) {
	s := openTestStore(t)
	_, _, err := s.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSaveSnapshot_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, err := s.SaveSnapshot(ctx, sampleTree(), "import")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Nodes)
	assert.Len(t, first.Digest, 64)

	second, err := s.SaveSnapshot(ctx, model.Tree{{ID: 9, Name: "only"}}, "replace")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	got, snap, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, snap.ID)
	assert.Equal(t, []int{9}, got.IDs())

	got, _, err = s.Load(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.Equal(sampleTree()))

	list, err := s.Snapshots(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "replace", list[0].Reason)
}

func TestSaveSnapshot_SameTreeSameDigest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	a, err := s.SaveSnapshot(ctx, sampleTree(), "a")
	require.NoError(t, err)
	b, err := s.SaveSnapshot(ctx, sampleTree(), "b")
	require.NoError(t, err)
	assert.Equal(t, a.Digest, b.Digest)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLoad_DetectsCorruptBlob(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	snap, err := s.SaveSnapshot(ctx, sampleTree(), "import")
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `UPDATE snapshots SET digest = ? WHERE id = ?`, "deadbeef", snap.ID)
	require.NoError(t, err)

	_, _, err = s.Load(ctx, snap.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest mismatch")
}

func TestObserver_PersistsMovesAndRejections(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.SaveSnapshot(ctx, sampleTree(), "import")
	require.NoError(t, err)

	b := bridge.New(sampleTree(), nil, bridge.WithObserver(s.Observer(ctx, "test", nil)))
	require.NoError(t, b.ApplyMove(reorder.Move{From: model.Path{1}, To: model.Path{}, OldIndex: 0, NewIndex: 2}))
	err = b.ApplyMove(reorder.Move{From: model.Path{77}, To: model.Path{}})
	require.True(t, errors.Is(err, reorder.ErrPathNotFound))

	got, snap, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, got.IDs())
	assert.Equal(t, "test:move", snap.Reason)

	moves, err := s.Moves(ctx, 0)
	require.NoError(t, err)
	require.Len(t, moves, 2)

	rejected, applied := moves[0], moves[1]
	assert.Equal(t, "rejected", rejected.Outcome)
	assert.Contains(t, rejected.Error, "does not resolve")
	assert.Nil(t, rejected.SnapshotID)
	assert.Equal(t, model.Path{77}, rejected.From)

	assert.Equal(t, "applied", applied.Outcome)
	require.NotNil(t, applied.SnapshotID)
	assert.Equal(t, snap.ID, *applied.SnapshotID)
	assert.Equal(t, model.Path{1}, applied.From)
	assert.Equal(t, model.Path{}, applied.To)
	assert.Equal(t, 2, applied.NewIndex)
	assert.NotEmpty(t, applied.ID)

	snaps, err := s.Snapshots(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, snaps, 2, "mount must not add a snapshot")
}
