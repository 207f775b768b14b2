package reorder

import (
	"errors"
	"fmt"

	"sortable-cli/internal/model"
)

var (
	ErrIndexOutOfRange = errors.New("source index out of range")
	ErrPathNotFound    = errors.New("path does not resolve")
	ErrCycle           = errors.New("cannot move an item into its own subtree")
)

// Move relocates one node. NewIndex is the node's final index in the destination
// list, as drag layers report it. When Slot is set NewIndex is instead an
// insertion slot counted in the destination list before removal.
type Move struct {
	From     model.Path `json:"from"`
	To       model.Path `json:"to"`
	OldIndex int        `json:"oldIndex"`
	NewIndex int        `json:"newIndex"`
	Slot     bool       `json:"slot,omitempty"`
}

func (mv Move) String() string {
	return fmt.Sprintf("%v[%d] -> %v[%d]", []int(mv.From), mv.OldIndex, []int(mv.To), mv.NewIndex)
}

// ListAt walks path id by id and returns a pointer to the addressed children
// list, creating empty lists for nodes that have none. An unknown id stops the
// walk; the list reached so far is returned with exact=false.
func ListAt(root *[]model.Node, path model.Path) (list *[]model.Node, exact bool) {
	cur := root
	for _, id := range path {
		idx := indexOf(*cur, id)
		if idx < 0 {
			return cur, false
		}
		n := &(*cur)[idx]
		if n.Children == nil {
			n.Children = []model.Node{}
		}
		cur = &n.Children
	}
	return cur, true
}

func indexOf(ns []model.Node, id int) int {
	for i := range ns {
		if ns[i].ID == id {
			return i
		}
	}
	return -1
}

// Apply performs mv on a deep copy of tree. On any error the original tree is
// returned untouched.
//
// Unlike ListAt, Apply does not fall back to the deepest list it reached: a
// From or To path that does not resolve fully fails with ErrPathNotFound, so a
// stale path never moves items in an unrelated list.
func Apply(tree model.Tree, mv Move) (model.Tree, error) {
	cp := []model.Node(tree.Clone())
	if cp == nil {
		cp = []model.Node{}
	}

	from, ok := ListAt(&cp, mv.From)
	if !ok {
		return tree, fmt.Errorf("from %v: %w", []int(mv.From), ErrPathNotFound)
	}
	if _, ok := ListAt(&cp, mv.To); !ok {
		return tree, fmt.Errorf("to %v: %w", []int(mv.To), ErrPathNotFound)
	}

	if mv.OldIndex < 0 || mv.OldIndex >= len(*from) {
		return tree, fmt.Errorf("index %d of %d: %w", mv.OldIndex, len(*from), ErrIndexOutOfRange)
	}
	moved := (*from)[mv.OldIndex]
	if mv.To.Contains(moved.ID) {
		return tree, fmt.Errorf("item %d: %w", moved.ID, ErrCycle)
	}

	*from = append((*from)[:mv.OldIndex], (*from)[mv.OldIndex+1:]...)

	// Removal shifts the source list's elements, so the destination is looked up
	// again; ids are unaffected and the same list yields the same pointer.
	to, _ := ListAt(&cp, mv.To)

	newIndex := mv.NewIndex
	if mv.Slot && from == to && mv.OldIndex < newIndex {
		newIndex--
	}
	*to = insertAt(*to, newIndex, moved)
	return model.Tree(cp), nil
}

func insertAt(ns []model.Node, i int, n model.Node) []model.Node {
	if i < 0 {
		i = 0
	}
	if i >= len(ns) {
		return append(ns, n)
	}
	ns = append(ns, model.Node{})
	copy(ns[i+1:], ns[i:])
	ns[i] = n
	return ns
}
