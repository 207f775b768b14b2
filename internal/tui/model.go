package tui

import (
	"errors"
	"fmt"
	"strings"

	"sortable-cli/internal/bridge"
	"sortable-cli/internal/model"
	"sortable-cli/internal/render"
	"sortable-cli/internal/reorder"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type Options struct {
	Glyphs string
}

// Model is a keyboard stand-in for a drag-and-drop list: a grabbed row is
// moved one step at a time, and every step reaches the bridge as a completed
// drag with the same container chains the web page would report.
type Model struct {
	bridge *bridge.Bridge

	rows      []render.Row
	cursor    int
	collapsed map[int]bool

	grabbed   bool
	grabbedID int

	status    string
	statusErr bool

	width  int
	height int

	keys   keyMap
	help   help.Model
	glyphs glyphSet
}

func New(b *bridge.Bridge, opts Options) Model {
	m := Model{
		bridge:    b,
		collapsed: map[int]bool{},
		keys:      defaultKeyMap(),
		help:      help.New(),
		glyphs:    parseGlyphs(opts.Glyphs),
	}
	m.refresh()
	return m
}

// Run starts the program in the alternate screen and blocks until it exits.
func Run(b *bridge.Bridge, opts Options) error {
	applyColorProfilePreference()
	_, err := tea.NewProgram(New(b, opts), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if len(m.rows) == 0 {
		return m, nil
	}

	if m.grabbed {
		switch {
		case key.Matches(msg, m.keys.Grab), key.Matches(msg, m.keys.Release):
			m.grabbed = false
			m.setStatus("dropped", false)
		case key.Matches(msg, m.keys.Up):
			m.moveWithin(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveWithin(1)
		case key.Matches(msg, m.keys.Indent):
			m.indent()
		case key.Matches(msg, m.keys.Outdent):
			m.outdent()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Grab):
		m.grabbed = true
		m.grabbedID = m.rows[m.cursor].Node.ID
		m.setStatus(fmt.Sprintf("grabbed %q", m.rows[m.cursor].Node.Name), false)
	case key.Matches(msg, m.keys.Collapse):
		id := m.rows[m.cursor].Node.ID
		if len(m.rows[m.cursor].Node.Children) > 0 {
			m.collapsed[id] = !m.collapsed[id]
			m.refresh()
		}
	}
	return m, nil
}

func (m *Model) current() render.Row { return m.rows[m.cursor] }

func (m *Model) moveWithin(delta int) {
	r := m.current()
	next := r.Index + delta
	if next < 0 || next >= r.Siblings {
		return
	}
	m.drop(r.Parent, r.Index, r.Parent, next)
}

// indent makes the row the last child of its previous sibling.
func (m *Model) indent() {
	r := m.current()
	if r.Index == 0 {
		return
	}
	prev, ok := m.sibling(r.Parent, r.Index-1)
	if !ok {
		return
	}
	delete(m.collapsed, prev.Node.ID)
	m.drop(r.Parent, r.Index, r.Parent.Child(prev.Node.ID), len(prev.Node.Children))
}

// outdent moves the row into its grandparent list, right after its parent.
func (m *Model) outdent() {
	r := m.current()
	if len(r.Parent) == 0 {
		return
	}
	parentID := r.Parent[len(r.Parent)-1]
	i := render.RowIndex(m.rows, parentID)
	if i < 0 {
		return
	}
	m.drop(r.Parent, r.Index, r.Parent.Parent(), m.rows[i].Index+1)
}

func (m *Model) sibling(parent model.Path, index int) (render.Row, bool) {
	for _, r := range m.rows {
		if r.Index == index && r.Parent.Equal(parent) {
			return r, true
		}
	}
	return render.Row{}, false
}

func (m *Model) drop(from model.Path, oldIndex int, to model.Path, newIndex int) {
	err := m.bridge.HandleDragEnd(reorder.DragEvent{
		From:     reorder.ChainFor(from),
		To:       reorder.ChainFor(to),
		OldIndex: reorder.Index(oldIndex),
		NewIndex: reorder.Index(newIndex),
	})
	if err != nil {
		msg := err.Error()
		if errors.Is(err, reorder.ErrCycle) {
			msg = "cannot move an item into itself"
		}
		m.setStatus(msg, true)
		return
	}
	m.status = ""
	m.refresh()
}

// refresh rebuilds rows from the bridge and keeps the cursor on the grabbed
// (or previously selected) node.
func (m *Model) refresh() {
	keep := m.grabbedID
	if !m.grabbed && m.cursor < len(m.rows) {
		keep = m.rows[m.cursor].Node.ID
	}
	m.rows = render.Rows(m.bridge.Value(), m.collapsed)
	if i := render.RowIndex(m.rows, keep); i >= 0 {
		m.cursor = i
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("sortable"))
	b.WriteString(styleMuted.Render(fmt.Sprintf("  %d items", m.bridge.Value().Count())))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(styleMuted.Render("(empty)"))
		b.WriteString("\n")
	}
	for i, r := range m.rows {
		b.WriteString(m.renderRow(i, r))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(styleError.Render(m.status))
		} else {
			b.WriteString(styleMuted.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderRow(i int, r render.Row) string {
	hasChildren := len(r.Node.Children) > 0
	marker := m.glyphs.twisty(hasChildren, m.collapsed[r.Node.ID])
	grabbed := m.grabbed && r.Node.ID == m.grabbedID
	if grabbed {
		marker = m.glyphs.grabbed()
	}
	line := strings.Repeat("  ", r.Depth) + marker + r.Node.Name
	if m.width > 0 {
		line = xansi.Truncate(line, m.width, "…")
	}
	switch {
	case i == m.cursor && grabbed:
		return styleGrabbed.Inherit(styleSelected).Render(line)
	case i == m.cursor:
		return styleSelected.Render(line)
	default:
		return line
	}
}
