package tui

import (
	"strings"
	"testing"

	"sortable-cli/internal/bridge"
	"sortable-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nested() model.Tree {
	return model.Tree{
		{ID: 1, Name: "Item 1", Children: []model.Node{{ID: 4, Name: "Item 1.1"}, {ID: 5, Name: "Item 1.2"}}},
		{ID: 2, Name: "Item 2"},
		{ID: 3, Name: "Item 3", Children: []model.Node{{ID: 6, Name: "Item 3.1"}, {ID: 7, Name: "Item 3.2"}}},
	}
}

type harness struct {
	m        Model
	b        *bridge.Bridge
	notified int
}

func newHarness(t *testing.T, tree model.Tree) *harness {
	t.Helper()
	h := &harness{}
	h.b = bridge.New(tree, func(model.Tree, bool) { h.notified++ })
	h.m = New(h.b, Options{Glyphs: "ascii"})
	return h
}

func (h *harness) press(t *testing.T, msgs ...tea.Msg) {
	t.Helper()
	for _, k := range msgs {
		mm, _ := h.m.Update(k)
		h.m = mm.(Model)
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keySpace    = tea.KeyMsg{Type: tea.KeySpace}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keyUp       = tea.KeyMsg{Type: tea.KeyUp}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestGrabAndMoveDown_ReordersSiblings(t *testing.T) {
	h := newHarness(t, nested())
	// Item 2 is the fourth visible row.
	h.press(t, keyDown, keyDown, keyDown, keySpace, keyDown, keyEsc)

	got := h.b.Value()
	assert.Equal(t, []int{1, 3, 2}, []int{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, 2, h.notified)
	assert.Equal(t, 2, h.m.current().Node.ID, "cursor follows the moved item")
	assert.False(t, h.m.grabbed)
}

func TestGrabAtEdge_DoesNothing(t *testing.T) {
	h := newHarness(t, nested())
	h.press(t, keySpace, keyUp)
	assert.Equal(t, 1, h.notified)
	assert.True(t, h.b.Value().Equal(nested()))
}

func TestIndent_MakesLastChildOfPreviousSibling(t *testing.T) {
	h := newHarness(t, nested())
	h.press(t, keyDown, keyDown, keyDown, keySpace, keyTab)

	got := h.b.Value()
	require.Len(t, got, 2)
	assert.Equal(t, []int{4, 5, 2}, ids(got[0].Children))
	assert.Equal(t, model.Path{1}, h.m.current().Parent)
}

func TestOutdent_PlacesAfterParent(t *testing.T) {
	h := newHarness(t, nested())
	// Item 1.1 is the second row.
	h.press(t, runes("j"), keySpace, keyShiftTab)

	got := h.b.Value()
	require.Len(t, got, 4)
	assert.Equal(t, []int{1, 4, 2, 3}, ids(got))
	assert.Equal(t, []int{5}, ids(got[0].Children))
}

func TestIndentIntoCollapsedSibling_ExpandsIt(t *testing.T) {
	h := newHarness(t, nested())
	h.press(t, keyEnter) // fold Item 1
	require.True(t, h.m.collapsed[1])
	h.press(t, keyDown, keySpace, keyTab)

	assert.False(t, h.m.collapsed[1])
	assert.Equal(t, []int{4, 5, 2}, ids(h.b.Value()[0].Children))
	assert.Equal(t, 2, h.m.current().Node.ID)
}

func TestCollapse_HidesChildren(t *testing.T) {
	h := newHarness(t, nested())
	assert.Len(t, h.m.rows, 7)
	h.press(t, keyEnter)
	assert.Len(t, h.m.rows, 5)
	h.press(t, keyEnter)
	assert.Len(t, h.m.rows, 7)
}

func TestQuit(t *testing.T) {
	h := newHarness(t, nested())
	_, cmd := h.m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_RendersRowsAndGrabMarker(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	h := newHarness(t, nested())
	h.press(t, tea.WindowSizeMsg{Width: 40, Height: 20})
	h.press(t, keySpace)

	v := h.m.View()
	assert.Contains(t, v, "7 items")
	assert.Contains(t, v, "* Item 1")
	assert.Contains(t, v, "    Item 1.1")
	assert.Contains(t, v, "- Item 3")
	assert.True(t, strings.Contains(v, "grabbed \"Item 1\""))
}

func TestView_Empty(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	h := newHarness(t, nil)
	h.press(t, keySpace, keyDown)
	assert.Contains(t, h.m.View(), "(empty)")
	assert.Equal(t, 1, h.notified)
}

func ids(ns []model.Node) []int {
	out := []int{}
	for _, n := range ns {
		out = append(out, n.ID)
	}
	return out
}
