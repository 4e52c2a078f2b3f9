// Package area maintains named regions arranged in a containment forest.
//
// Areas live in an arena and refer to each other by arena index, so the
// parent and child links carry no ownership.
package area

import (
	"maps"
	"slices"

	"github.com/paulmach/orb"

	"trailmap/pkg/geo"
)

// ID identifies an area. IDs are supplied by the caller.
type ID int64

// NoArea is returned when an area lookup finds nothing.
const NoArea ID = -1

// NoName is returned when a name lookup finds nothing.
const NoName = "!!NO_NAME!!"

const noIndex = -1

type node struct {
	id       ID
	name     string
	boundary []geo.Coord
	parent   int   // arena index, noIndex for roots
	children []int // arena indices in attach order
}

// Hierarchy owns the areas and their parent/child relation.
type Hierarchy struct {
	nodes []node
	index map[ID]int
}

// NewHierarchy creates an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{index: make(map[ID]int)}
}

// Count returns the number of areas.
func (h *Hierarchy) Count() int { return len(h.nodes) }

// Clear removes every area.
func (h *Hierarchy) Clear() {
	h.nodes = nil
	clear(h.index)
}

// Add inserts a root area. Returns false if the id is already taken.
func (h *Hierarchy) Add(id ID, name string, boundary []geo.Coord) bool {
	if _, ok := h.index[id]; ok {
		return false
	}
	h.index[id] = len(h.nodes)
	h.nodes = append(h.nodes, node{
		id:       id,
		name:     name,
		boundary: slices.Clone(boundary),
		parent:   noIndex,
	})
	return true
}

// All returns every area id in ascending order.
func (h *Hierarchy) All() []ID {
	return slices.Sorted(maps.Keys(h.index))
}

// Name returns the name of an area, or NoName.
func (h *Hierarchy) Name(id ID) string {
	i, ok := h.index[id]
	if !ok {
		return NoName
	}
	return h.nodes[i].name
}

// Boundary returns a copy of the area's boundary, or {geo.NoCoord}.
func (h *Hierarchy) Boundary(id ID) []geo.Coord {
	i, ok := h.index[id]
	if !ok {
		return []geo.Coord{geo.NoCoord}
	}
	return slices.Clone(h.nodes[i].boundary)
}

// Bound returns the bounding box of the area's boundary.
func (h *Hierarchy) Bound(id ID) (orb.Bound, bool) {
	i, ok := h.index[id]
	if !ok {
		return orb.Bound{}, false
	}
	return geo.Bound(h.nodes[i].boundary), true
}

// Parent returns the direct parent of an area, or NoArea.
func (h *Hierarchy) Parent(id ID) ID {
	i, ok := h.index[id]
	if !ok || h.nodes[i].parent == noIndex {
		return NoArea
	}
	return h.nodes[h.nodes[i].parent].id
}

// Children returns the direct children of an area in attach order.
func (h *Hierarchy) Children(id ID) []ID {
	i, ok := h.index[id]
	if !ok {
		return []ID{NoArea}
	}
	ids := make([]ID, 0, len(h.nodes[i].children))
	for _, c := range h.nodes[i].children {
		ids = append(ids, h.nodes[c].id)
	}
	return ids
}

// AttachSubarea makes child a subarea of parent. It fails if either area is
// unknown, if they are the same area, if child already has a parent, or if
// parent lies below child (which would close a cycle).
func (h *Hierarchy) AttachSubarea(child, parent ID) bool {
	ci, ok := h.index[child]
	if !ok {
		return false
	}
	pi, ok := h.index[parent]
	if !ok || ci == pi || h.nodes[ci].parent != noIndex {
		return false
	}
	// child has no parent, so parent is below child iff child is an ancestor of parent.
	for a := h.nodes[pi].parent; a != noIndex; a = h.nodes[a].parent {
		if a == ci {
			return false
		}
	}
	h.nodes[ci].parent = pi
	h.nodes[pi].children = append(h.nodes[pi].children, ci)
	return true
}

// Ancestors returns the ancestor chain from the nearest parent to the root.
func (h *Hierarchy) Ancestors(id ID) []ID {
	i, ok := h.index[id]
	if !ok {
		return []ID{NoArea}
	}
	ids := []ID{}
	for a := h.nodes[i].parent; a != noIndex; a = h.nodes[a].parent {
		ids = append(ids, h.nodes[a].id)
	}
	return ids
}

// Descendants returns every area below id in pre-order, visiting children
// in attach order.
func (h *Hierarchy) Descendants(id ID) []ID {
	i, ok := h.index[id]
	if !ok {
		return []ID{NoArea}
	}

	ids := []ID{}
	stack := slices.Clone(h.nodes[i].children)
	slices.Reverse(stack)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, h.nodes[n].id)

		// Push children in reverse so the first child is visited next.
		kids := h.nodes[n].children
		for k := len(kids) - 1; k >= 0; k-- {
			stack = append(stack, kids[k])
		}
	}
	return ids
}

// LowestCommonAncestor returns the nearest area that is a proper ancestor of
// both id1 and id2. Both areas must have a parent; an area is never treated
// as its own ancestor, so for a root and its descendant the result is NoArea.
func (h *Hierarchy) LowestCommonAncestor(id1, id2 ID) ID {
	i1, ok1 := h.index[id1]
	i2, ok2 := h.index[id2]
	if !ok1 || !ok2 || h.nodes[i1].parent == noIndex || h.nodes[i2].parent == noIndex {
		return NoArea
	}

	chain := make(map[int]struct{})
	for a := h.nodes[i1].parent; a != noIndex; a = h.nodes[a].parent {
		chain[a] = struct{}{}
	}
	for a := h.nodes[i2].parent; a != noIndex; a = h.nodes[a].parent {
		if _, ok := chain[a]; ok {
			return h.nodes[a].id
		}
	}
	return NoArea
}
