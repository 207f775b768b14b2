package reorder

import (
	"strconv"
	"strings"

	"sortable-cli/internal/model"
)

// Marker describes one visual ancestor of a drag container: the identifier it
// carries (if any) and whether it is the structural root.
type Marker struct {
	ID    string `json:"id,omitempty"`
	HasID bool   `json:"hasId,omitempty"`
	Root  bool   `json:"root,omitempty"`
}

// Chain is an ancestor chain, nearest element first.
type Chain []Marker

func IDMarker(id int) Marker { return Marker{ID: strconv.Itoa(id), HasID: true} }

func RootMarker() Marker { return Marker{Root: true} }

// Wrapper is a marker for an element that carries no identifier.
func Wrapper() Marker { return Marker{} }

// ResolvePath walks chain upward and returns the collected ids in root-to-nearest
// order. Resolution stops at the first root marker (exclusive); without one it
// consumes the whole chain. Identifiers that are not integers are skipped and
// reported to onBad when it is non-nil.
func ResolvePath(chain Chain, onBad func(raw string)) model.Path {
	var rev []int
	for _, m := range chain {
		if m.Root {
			break
		}
		if !m.HasID {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(m.ID))
		if err != nil {
			if onBad != nil {
				onBad(m.ID)
			}
			continue
		}
		rev = append(rev, id)
	}
	out := make(model.Path, len(rev))
	for i, id := range rev {
		out[len(rev)-1-i] = id
	}
	return out
}

// ChainFor builds the chain that a rendered list container at path has: the
// list element, then for every owning item (nearest first) its nested wrapper,
// the item element and the list holding the item, then the root marker.
func ChainFor(path model.Path) Chain {
	out := make(Chain, 0, 3*len(path)+2)
	out = append(out, Wrapper())
	for i := len(path) - 1; i >= 0; i-- {
		out = append(out, Wrapper(), IDMarker(path[i]), Wrapper())
	}
	return append(out, RootMarker())
}
