// Package proximity answers nearest-place queries over a place.Registry.
package proximity

import (
	"sync"

	"github.com/tidwall/rtree"

	"trailmap/pkg/geo"
	"trailmap/pkg/place"
)

// DefaultLimit is the number of places returned by Closest3.
const DefaultLimit = 3

type entry struct {
	id    place.ID
	typ   place.Type
	coord geo.Coord
}

// Index is an R-tree over the registry's places. The tree is rebuilt lazily
// on the first query after the registry changes. Queries are safe to run
// concurrently as long as the registry itself is not being mutated.
type Index struct {
	reg *place.Registry

	mu      sync.Mutex
	tree    rtree.RTreeG[entry]
	entries []entry
	exact   bool // every entry's coordinates are exact as float64
	version uint64
	built   bool
}

// floatExact bounds the integers a float64 holds exactly.
const floatExact = 1 << 53

// slack absorbs float rounding in tree distances, which are within a few
// ulps of the exact squared distance for float-exact coordinates.
const slack = 1e-9

func exactInFloat(c geo.Coord) bool {
	x, y := int64(c.X), int64(c.Y)
	return x >= -floatExact && x <= floatExact && y >= -floatExact && y <= floatExact
}

// NewIndex creates an index reading from reg.
func NewIndex(reg *place.Registry) *Index {
	return &Index{reg: reg}
}

// Closest3 returns up to three places of the given type nearest to c.
func (ix *Index) Closest3(c geo.Coord, typ place.Type) []place.ID {
	return ix.Closest(c, typ, DefaultLimit)
}

// Closest returns up to k places of type typ (place.NoType for any) nearest
// to c, ordered by distance, then by ascending y, then by id.
func (ix *Index) Closest(c geo.Coord, typ place.Type, k int) []place.ID {
	if k <= 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.refresh()

	best := newBoundedHeap(k)
	if ix.exact && exactInFloat(c) {
		ix.nearby(c, typ, best)
	} else {
		ix.scan(c, typ, best)
	}

	out := best.sorted()
	ids := make([]place.ID, len(out))
	for i, cand := range out {
		ids[i] = cand.id
	}
	return ids
}

// nearby streams tree entries in ascending distance. Once the heap is full
// and an entry is further than its worst member, nothing after it can
// qualify. Ties are still offered for the y tie-break.
func (ix *Index) nearby(c geo.Coord, typ place.Type, best *boundedHeap) {
	target := [2]float64{float64(c.X), float64(c.Y)}
	ix.tree.Nearby(
		func(min, max [2]float64, _ entry, _ bool) float64 {
			return boxDistSq(target, min, max)
		},
		func(_, _ [2]float64, e entry, dist float64) bool {
			if best.full() && dist > best.worst().sq.Float64()*(1+slack) {
				return false
			}
			if e.typ.Matches(typ) {
				best.offer(candidate{sq: geo.SquaredDist(c, e.coord), y: e.coord.Y, id: e.id})
			}
			return true
		},
	)
}

// scan checks every entry with exact distances, for coordinates the float
// tree cannot represent.
func (ix *Index) scan(c geo.Coord, typ place.Type, best *boundedHeap) {
	for _, e := range ix.entries {
		if e.typ.Matches(typ) {
			best.offer(candidate{sq: geo.SquaredDist(c, e.coord), y: e.coord.Y, id: e.id})
		}
	}
}

// refresh rebuilds the tree if the registry changed since the last build.
func (ix *Index) refresh() {
	if ix.built && ix.version == ix.reg.Version() {
		return
	}
	ix.tree = rtree.RTreeG[entry]{}
	ix.entries = ix.entries[:0]
	ix.exact = true
	ix.reg.Each(func(p place.Place) bool {
		e := entry{id: p.ID, typ: p.Type, coord: p.Coord}
		pt := [2]float64{float64(p.Coord.X), float64(p.Coord.Y)}
		ix.tree.Insert(pt, pt, e)
		ix.entries = append(ix.entries, e)
		ix.exact = ix.exact && exactInFloat(p.Coord)
		return true
	})
	ix.version = ix.reg.Version()
	ix.built = true
}

// boxDistSq returns the squared distance from p to the box [min, max].
func boxDistSq(p, min, max [2]float64) float64 {
	var d float64
	for i := range 2 {
		switch {
		case p[i] < min[i]:
			d += (min[i] - p[i]) * (min[i] - p[i])
		case p[i] > max[i]:
			d += (p[i] - max[i]) * (p[i] - max[i])
		}
	}
	return d
}
