package render

import "sortable-cli/internal/model"

// Row is one visible line of a flattened tree.
type Row struct {
	Node     model.Node
	Depth    int
	Index    int        // position within its list
	Parent   model.Path // path of the list holding the node
	Siblings int        // length of that list
}

// Rows flattens tree in display order. Subtrees of ids in collapsed are hidden.
func Rows(tree model.Tree, collapsed map[int]bool) []Row {
	var out []Row
	var walk func(ns []model.Node, parent model.Path, depth int)
	walk = func(ns []model.Node, parent model.Path, depth int) {
		for i, n := range ns {
			out = append(out, Row{Node: n, Depth: depth, Index: i, Parent: parent, Siblings: len(ns)})
			if collapsed[n.ID] || len(n.Children) == 0 {
				continue
			}
			walk(n.Children, parent.Child(n.ID), depth+1)
		}
	}
	walk(tree, model.Path{}, 0)
	return out
}

// RowIndex returns the position of id in rows, or -1.
func RowIndex(rows []Row, id int) int {
	for i, r := range rows {
		if r.Node.ID == id {
			return i
		}
	}
	return -1
}
