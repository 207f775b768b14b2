package reorder

import (
	"sort"
	"testing"

	"sortable-cli/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(ids ...int) model.Tree {
	out := make(model.Tree, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Node{ID: id, Name: string(rune('A' + id - 1))})
	}
	return out
}

func names(ns []model.Node) string {
	s := ""
	for _, n := range ns {
		s += n.Name
	}
	return s
}

func nested() model.Tree {
	return model.Tree{
		{ID: 1, Name: "Item 1", Children: []model.Node{{ID: 4, Name: "Item 1.1"}, {ID: 5, Name: "Item 1.2"}}},
		{ID: 2, Name: "Item 2"},
		{ID: 3, Name: "Item 3", Children: []model.Node{{ID: 6, Name: "Item 3.1"}, {ID: 7, Name: "Item 3.2"}}},
	}
}

func TestApply_SameListForward(t *testing.T) {
	tr := flat(1, 2, 3, 4)
	got, err := Apply(tr, Move{From: model.Path{}, To: model.Path{}, OldIndex: 0, NewIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, "BCAD", names(got))
	assert.Equal(t, "ABCD", names(tr), "input must not be mutated")
}

func TestApply_SameListForward_SlotIndex(t *testing.T) {
	got, err := Apply(flat(1, 2, 3, 4), Move{OldIndex: 0, NewIndex: 3, Slot: true})
	require.NoError(t, err)
	assert.Equal(t, "BCAD", names(got))
}

func TestApply_SameListBackward(t *testing.T) {
	got, err := Apply(flat(1, 2, 3, 4), Move{OldIndex: 3, NewIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, "ADBC", names(got))

	got, err = Apply(flat(1, 2, 3, 4), Move{OldIndex: 3, NewIndex: 1, Slot: true})
	require.NoError(t, err)
	assert.Equal(t, "ADBC", names(got))
}

func TestApply_CrossListToRoot(t *testing.T) {
	tr := model.Tree{{ID: 1, Children: []model.Node{{ID: 2}}}}
	got, err := Apply(tr, Move{From: model.Path{1}, To: model.Path{}, OldIndex: 0, NewIndex: 1})
	require.NoError(t, err)

	want := model.Tree{{ID: 1, Children: []model.Node{}}, {ID: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, tr[0].Children, 1)
}

func TestApply_IntoChildlessNode(t *testing.T) {
	got, err := Apply(nested(), Move{From: model.Path{}, To: model.Path{2}, OldIndex: 0, NewIndex: 0})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	require.Len(t, got[0].Children, 1)
	assert.Equal(t, 1, got[0].Children[0].ID)
	assert.Len(t, got[0].Children[0].Children, 2)
}

func TestApply_IntoLaterSiblingSubtree(t *testing.T) {
	// Item 1 moves under item 3, which sits after it in the same root list.
	got, err := Apply(nested(), Move{From: model.Path{}, To: model.Path{3}, OldIndex: 0, NewIndex: 1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []int{6, 1, 7}, ids(got[1].Children))
}

func TestApply_NewIndexBeyondEndAppends(t *testing.T) {
	got, err := Apply(nested(), Move{From: model.Path{1}, To: model.Path{3}, OldIndex: 0, NewIndex: 42})
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7, 4}, ids(got[2].Children))
}

func TestApply_NegativeNewIndexClampsToFront(t *testing.T) {
	got, err := Apply(flat(1, 2, 3), Move{OldIndex: 2, NewIndex: -4})
	require.NoError(t, err)
	assert.Equal(t, "CAB", names(got))
}

func TestApply_NoOpIsValueEqual(t *testing.T) {
	tr := nested()
	got, err := Apply(tr, Move{From: model.Path{3}, To: model.Path{3}, OldIndex: 1, NewIndex: 1})
	require.NoError(t, err)
	assert.True(t, got.Equal(tr))
}

func TestApply_OldIndexOutOfRangeAborts(t *testing.T) {
	tr := nested()
	for _, old := range []int{-1, 2, 10} {
		got, err := Apply(tr, Move{From: model.Path{1}, To: model.Path{}, OldIndex: old})
		require.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.True(t, got.Equal(nested()))
	}
}

func TestApply_MissingIDAborts(t *testing.T) {
	tr := nested()
	got, err := Apply(tr, Move{From: model.Path{1, 99}, To: model.Path{}, OldIndex: 0, NewIndex: 0})
	require.ErrorIs(t, err, ErrPathNotFound)
	assert.True(t, got.Equal(nested()))

	_, err = Apply(tr, Move{From: model.Path{}, To: model.Path{42}, OldIndex: 0, NewIndex: 0})
	require.ErrorIs(t, err, ErrPathNotFound)

	// ListAt would settle on node 3's children here; Apply must not.
	got, err = Apply(tr, Move{From: model.Path{3, 99}, To: model.Path{3, 99}, OldIndex: 0, NewIndex: 1})
	require.ErrorIs(t, err, ErrPathNotFound)
	assert.True(t, got.Equal(nested()))
}

func TestApply_RejectsMoveIntoOwnSubtree(t *testing.T) {
	tr := model.Tree{{ID: 1, Children: []model.Node{{ID: 2, Children: []model.Node{{ID: 3}}}}}}
	_, err := Apply(tr, Move{From: model.Path{}, To: model.Path{1, 2}, OldIndex: 0, NewIndex: 0})
	require.ErrorIs(t, err, ErrCycle)

	_, err = Apply(tr, Move{From: model.Path{1}, To: model.Path{1, 2}, OldIndex: 0, NewIndex: 0})
	require.ErrorIs(t, err, ErrCycle)
}

func TestApply_EmptyTree(t *testing.T) {
	got, err := Apply(nil, Move{})
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Nil(t, got)
}

func TestListAt_SoftFailReturnsPartialList(t *testing.T) {
	tr := []model.Node(nested())
	l, exact := ListAt(&tr, model.Path{3, 99})
	assert.False(t, exact)
	assert.Equal(t, []int{6, 7}, ids(*l))

	l, exact = ListAt(&tr, model.Path{2})
	assert.True(t, exact)
	assert.NotNil(t, *l)
	assert.Empty(t, *l)
}

func TestApply_PreservesIDsAndCount(t *testing.T) {
	moves := []Move{
		{From: model.Path{1}, To: model.Path{3}, OldIndex: 1, NewIndex: 0},
		{From: model.Path{}, To: model.Path{2}, OldIndex: 0, NewIndex: 0},
		{From: model.Path{3}, To: model.Path{}, OldIndex: 2, NewIndex: 5},
		{From: model.Path{2, 1}, To: model.Path{2}, OldIndex: 0, NewIndex: 1},
		{From: model.Path{}, To: model.Path{}, OldIndex: 2, NewIndex: 0},
	}
	tr := nested()
	wantIDs := sortedIDs(tr)
	for _, mv := range moves {
		next, err := Apply(tr, mv)
		require.NoError(t, err, mv.String())
		assert.Equal(t, tr.Count(), next.Count(), mv.String())
		assert.Equal(t, wantIDs, sortedIDs(next), mv.String())
		assert.Empty(t, next.Duplicates())
		tr = next
	}
}

func ids(ns []model.Node) []int {
	out := []int{}
	for _, n := range ns {
		out = append(out, n.ID)
	}
	return out
}

func sortedIDs(t model.Tree) []int {
	out := t.IDs()
	sort.Ints(out)
	return out
}
