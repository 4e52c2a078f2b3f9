package graph

import "trailmap/pkg/geo"

// UnionFind is a disjoint-set forest over the indices 0..n-1, using path
// halving and union by size.
type UnionFind struct {
	parent []int
	size   []int
}

// NewUnionFind creates n singleton sets.
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range n {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

// Find returns the root of x's set.
func (uf *UnionFind) Find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union joins the sets of x and y, hanging the smaller under the larger.
// Returns false if they were already joined.
func (uf *UnionFind) Union(x, y int) bool {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return false
	}
	if uf.size[rx] < uf.size[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	return true
}

// Size returns the number of elements in x's set.
func (uf *UnionFind) Size(x int) int {
	return uf.size[uf.Find(x)]
}

// Components labels every crossroad with a connected-component number.
// Labels are dense, starting at 0, and assigned in crossroad order
// (by y, then x), so they are stable for a given network.
func Components(n *Network) map[geo.Coord]int {
	labels, _ := components(n)
	return labels
}

// ComponentSizes returns the number of crossroads in each component,
// indexed by the labels of Components.
func ComponentSizes(n *Network) []int {
	_, sizes := components(n)
	return sizes
}

func components(n *Network) (map[geo.Coord]int, []int) {
	crossroads := n.Crossroads()
	idx := make(map[geo.Coord]int, len(crossroads))
	for i, c := range crossroads {
		idx[c] = i
	}

	uf := NewUnionFind(len(crossroads))
	for _, w := range n.ways {
		uf.Union(idx[w.From()], idx[w.To()])
	}

	labels := make(map[geo.Coord]int, len(crossroads))
	rootLabel := make(map[int]int)
	var sizes []int
	for i, c := range crossroads {
		root := uf.Find(i)
		label, ok := rootLabel[root]
		if !ok {
			label = len(sizes)
			rootLabel[root] = label
			sizes = append(sizes, uf.Size(root))
		}
		labels[c] = label
	}
	return labels, sizes
}

// Connected reports whether a and b are crossroads joined by some path.
func Connected(n *Network, a, b geo.Coord) bool {
	if !n.HasCrossroad(a) || !n.HasCrossroad(b) {
		return false
	}
	labels := Components(n)
	return labels[a] == labels[b]
}
