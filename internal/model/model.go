package model

// Node is one entry of a sortable tree. IDs are unique across the whole tree;
// the engine relies on that but never checks it.
type Node struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree is the ordered forest of root nodes.
type Tree []Node

// Path addresses a nested list: the ids from a root node down to the node whose
// children are meant. The empty path is the root list.
type Path []int

// Clone returns a deep copy. Absent and empty children lists are preserved as-is.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	return Tree(cloneNodes(t))
}

func cloneNodes(ns []Node) []Node {
	if ns == nil {
		return nil
	}
	out := make([]Node, len(ns))
	for i, n := range ns {
		out[i] = n.Clone()
	}
	return out
}

// Clone returns a deep copy of the node and its subtree.
func (n Node) Clone() Node {
	return Node{ID: n.ID, Name: n.Name, Children: cloneNodes(n.Children)}
}

// Count returns the total number of nodes at all levels.
func (t Tree) Count() int {
	c := 0
	t.Walk(func(Node, Path) bool {
		c++
		return true
	})
	return c
}

// IDs returns every id in pre-order.
func (t Tree) IDs() []int {
	out := make([]int, 0, len(t))
	t.Walk(func(n Node, _ Path) bool {
		out = append(out, n.ID)
		return true
	})
	return out
}

// Walk visits nodes in pre-order. parent is the path of the list holding n.
// Returning false skips n's subtree.
func (t Tree) Walk(fn func(n Node, parent Path) bool) {
	var walk func(ns []Node, p Path)
	walk = func(ns []Node, p Path) {
		for _, n := range ns {
			if !fn(n, p) {
				continue
			}
			if len(n.Children) > 0 {
				walk(n.Children, p.Child(n.ID))
			}
		}
	}
	walk(t, Path{})
}

// Find returns the first node with id together with the path of the list that
// holds it.
func (t Tree) Find(id int) (Node, Path, bool) {
	var (
		found Node
		at    Path
		ok    bool
	)
	t.Walk(func(n Node, p Path) bool {
		if ok {
			return false
		}
		if n.ID == id {
			found, at, ok = n, p, true
			return false
		}
		return true
	})
	return found, at, ok
}

func (t Tree) Contains(id int) bool {
	_, _, ok := t.Find(id)
	return ok
}

// Duplicates lists ids that occur more than once, in first-seen order.
func (t Tree) Duplicates() []int {
	seen := map[int]int{}
	var out []int
	t.Walk(func(n Node, _ Path) bool {
		seen[n.ID]++
		if seen[n.ID] == 2 {
			out = append(out, n.ID)
		}
		return true
	})
	return out
}

// Equal reports value equality. A nil children list equals an empty one.
func (t Tree) Equal(o Tree) bool {
	return nodesEqual(t, o)
}

func nodesEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Name != b[i].Name {
			return false
		}
		if !nodesEqual(a[i].Children, b[i].Children) {
			return false
		}
	}
	return true
}

// Child returns a new path extended by id; p is not modified.
func (p Path) Child(id int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, id)
}

// Parent returns the path without its last element. The root path is its own parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	out := make(Path, len(p)-1)
	copy(out, p)
	return out
}

func (p Path) Contains(id int) bool {
	for _, x := range p {
		if x == id {
			return true
		}
	}
	return false
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}
