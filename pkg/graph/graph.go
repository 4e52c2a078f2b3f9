// Package graph holds the way network: polylines keyed by id, plus the
// crossroad index mapping every endpoint coordinate to its incident ways.
package graph

import (
	"maps"
	"slices"

	"trailmap/pkg/geo"
)

// WayID identifies a way.
type WayID string

// NoWay is returned when a way lookup finds nothing, and marks the first
// step of a route, which is not reached through any way.
const NoWay WayID = "!!No way!!"

// Way is a polyline between two endpoint crossroads.
type Way struct {
	ID     WayID
	Coords []geo.Coord
	Length geo.Distance
}

// From returns the first endpoint.
func (w *Way) From() geo.Coord { return w.Coords[0] }

// To returns the last endpoint.
func (w *Way) To() geo.Coord { return w.Coords[len(w.Coords)-1] }

// IsLoop reports whether both endpoints coincide.
func (w *Way) IsLoop() bool { return w.From() == w.To() }

// Other returns the endpoint opposite to c. For a loop it returns c.
func (w *Way) Other(c geo.Coord) geo.Coord {
	if w.From() == c {
		return w.To()
	}
	return w.From()
}

// Incidence is a way touching a crossroad, with the crossroad at its far end.
type Incidence struct {
	Way   WayID
	Other geo.Coord
}

// Network owns ways and the crossroad index. It is not safe for concurrent use.
type Network struct {
	ways       map[WayID]*Way
	crossroads map[geo.Coord]map[WayID]struct{}
}

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return &Network{
		ways:       make(map[WayID]*Way),
		crossroads: make(map[geo.Coord]map[WayID]struct{}),
	}
}

// Count returns the number of ways.
func (n *Network) Count() int { return len(n.ways) }

// AddWay inserts a way. It fails on duplicate ids and on polylines with
// fewer than two points. A loop registers its single crossroad once.
func (n *Network) AddWay(id WayID, coords []geo.Coord) bool {
	if _, ok := n.ways[id]; ok || len(coords) < 2 {
		return false
	}
	w := &Way{
		ID:     id,
		Coords: slices.Clone(coords),
		Length: geo.PolylineLength(coords),
	}
	n.ways[id] = w
	n.link(w.From(), id)
	n.link(w.To(), id)
	return true
}

// RemoveWay deletes a way and strips it from both endpoints' crossroads.
// A crossroad left with no ways is dropped from the index.
func (n *Network) RemoveWay(id WayID) bool {
	w, ok := n.ways[id]
	if !ok {
		return false
	}
	delete(n.ways, id)
	n.unlink(w.From(), id)
	n.unlink(w.To(), id)
	return true
}

// Clear removes every way and crossroad.
func (n *Network) Clear() {
	clear(n.ways)
	clear(n.crossroads)
}

// Way returns the way record. Callers must not modify it.
func (n *Network) Way(id WayID) (*Way, bool) {
	w, ok := n.ways[id]
	return w, ok
}

// Coords returns a copy of the way's polyline, or {geo.NoCoord}.
func (n *Network) Coords(id WayID) []geo.Coord {
	w, ok := n.ways[id]
	if !ok {
		return []geo.Coord{geo.NoCoord}
	}
	return slices.Clone(w.Coords)
}

// Length returns the way's length, or geo.NoDistance.
func (n *Network) Length(id WayID) geo.Distance {
	w, ok := n.ways[id]
	if !ok {
		return geo.NoDistance
	}
	return w.Length
}

// Endpoints returns the first and last coordinate of a way.
func (n *Network) Endpoints(id WayID) (from, to geo.Coord, ok bool) {
	w, ok := n.ways[id]
	if !ok {
		return geo.NoCoord, geo.NoCoord, false
	}
	return w.From(), w.To(), true
}

// IDs returns all way ids in ascending order.
func (n *Network) IDs() []WayID {
	return slices.Sorted(maps.Keys(n.ways))
}

// TotalLength sums the length of every way.
func (n *Network) TotalLength() geo.Distance {
	var total geo.Distance
	for _, w := range n.ways {
		total += w.Length
	}
	return total
}

// HasCrossroad reports whether c is an endpoint of at least one way.
func (n *Network) HasCrossroad(c geo.Coord) bool {
	_, ok := n.crossroads[c]
	return ok
}

// Crossroads returns every crossroad coordinate ordered by y, then x.
func (n *Network) Crossroads() []geo.Coord {
	return slices.SortedFunc(maps.Keys(n.crossroads), geo.Coord.Compare)
}

// Degree returns the number of distinct ways touching c.
func (n *Network) Degree(c geo.Coord) int {
	return len(n.crossroads[c])
}

// IncidentWays lists the ways touching c in ascending way id order, each
// with its opposite endpoint. A loop at c appears once, pointing back at c.
func (n *Network) IncidentWays(c geo.Coord) []Incidence {
	set, ok := n.crossroads[c]
	if !ok {
		return nil
	}
	out := make([]Incidence, 0, len(set))
	for _, id := range slices.Sorted(maps.Keys(set)) {
		out = append(out, Incidence{Way: id, Other: n.ways[id].Other(c)})
	}
	return out
}

func (n *Network) link(c geo.Coord, id WayID) {
	set, ok := n.crossroads[c]
	if !ok {
		set = make(map[WayID]struct{}, 2)
		n.crossroads[c] = set
	}
	set[id] = struct{}{}
}

func (n *Network) unlink(c geo.Coord, id WayID) {
	set, ok := n.crossroads[c]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(n.crossroads, c)
	}
}
