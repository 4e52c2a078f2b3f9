// Package atlas bundles places, areas and the way network behind a single
// lock, for hosts that query the dataset from several goroutines.
package atlas

import (
	"sync"

	"trailmap/pkg/area"
	"trailmap/pkg/geo"
	"trailmap/pkg/graph"
	"trailmap/pkg/osm"
	"trailmap/pkg/place"
	"trailmap/pkg/proximity"
	"trailmap/pkg/routing"
)

// Atlas owns one dataset. Mutators take the write lock, queries the read lock.
type Atlas struct {
	mu     sync.RWMutex
	places *place.Registry
	areas  *area.Hierarchy
	net    *graph.Network
	engine *routing.Engine
	near   *proximity.Index
}

// New creates an empty atlas.
func New() *Atlas {
	places := place.NewRegistry()
	net := graph.NewNetwork()
	return &Atlas{
		places: places,
		areas:  area.NewHierarchy(),
		net:    net,
		engine: routing.NewEngine(net),
		near:   proximity.NewIndex(places),
	}
}

// Stats summarizes the dataset.
type Stats struct {
	Places           int          `json:"places"`
	Areas            int          `json:"areas"`
	Ways             int          `json:"ways"`
	Crossroads       int          `json:"crossroads"`
	Components       int          `json:"components"`
	LargestComponent int          `json:"largest_component"` // crossroads in the biggest component
	TotalLength      geo.Distance `json:"total_length"`
}

// ImportStats reports how much of an import was accepted.
type ImportStats struct {
	Ways           int
	RejectedWays   int
	Places         int
	RejectedPlaces int
}

// AddPlace registers a place; false if the id is taken.
func (a *Atlas) AddPlace(id place.ID, name string, typ place.Type, c geo.Coord) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.places.Add(id, name, typ, c)
}

// RenamePlace changes a place's name; false if the place is unknown.
func (a *Atlas) RenamePlace(id place.ID, name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.places.Rename(id, name)
}

// MovePlace changes a place's coordinate; false if the place is unknown.
func (a *Atlas) MovePlace(id place.ID, c geo.Coord) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.places.Move(id, c)
}

// RemovePlace deletes a place; false if the place is unknown.
func (a *Atlas) RemovePlace(id place.ID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.places.Remove(id)
}

// AddArea registers an area; false if the id is taken.
func (a *Atlas) AddArea(id area.ID, name string, boundary []geo.Coord) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.areas.Add(id, name, boundary)
}

// AttachSubarea makes child a subarea of parent.
func (a *Atlas) AttachSubarea(child, parent area.ID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.areas.AttachSubarea(child, parent)
}

// AddWay adds a way to the network.
func (a *Atlas) AddWay(id graph.WayID, coords []geo.Coord) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.net.AddWay(id, coords)
}

// RemoveWay deletes a way and prunes crossroads left without ways.
func (a *Atlas) RemoveWay(id graph.WayID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.net.RemoveWay(id)
}

// TrimWays simplifies the network and returns the length removed.
func (a *Atlas) TrimWays() geo.Distance {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.TrimWays()
}

// Import adds the ways and places of an OSM import.
func (a *Atlas) Import(res *osm.Result) ImportStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	var st ImportStats
	for _, w := range res.Ways {
		if a.net.AddWay(w.ID, w.Coords) {
			st.Ways++
		} else {
			st.RejectedWays++
		}
	}
	for _, p := range res.Places {
		if a.places.Add(p.ID, p.Name, p.Type, p.Coord) {
			st.Places++
		} else {
			st.RejectedPlaces++
		}
	}
	return st
}

// Clear empties the whole dataset.
func (a *Atlas) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.places.Clear()
	a.areas.Clear()
	a.net.Clear()
}

// Place returns a copy of a place record.
func (a *Atlas) Place(id place.ID) (place.Place, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.places.Get(id)
}

// Places returns the places in the given id order, skipping unknown ids.
func (a *Atlas) Places(ids []place.ID) []place.Place {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolve(ids)
}

// PlacesSortedByName returns every place ordered by name.
func (a *Atlas) PlacesSortedByName() []place.Place {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolve(a.places.SortedByName())
}

// FindPlaces returns the places of a type, NoType for all, by ascending id.
func (a *Atlas) FindPlaces(typ place.Type) []place.Place {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolve(a.places.FindByType(typ))
}

// Nearest returns up to k places of type typ closest to c.
func (a *Atlas) Nearest(c geo.Coord, typ place.Type, k int) []place.Place {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolve(a.near.Closest(c, typ, k))
}

func (a *Atlas) resolve(ids []place.ID) []place.Place {
	out := make([]place.Place, 0, len(ids))
	for _, id := range ids {
		if p, ok := a.places.Get(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// AreaName returns the name of an area, or area.NoName.
func (a *Atlas) AreaName(id area.ID) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.areas.Name(id)
}

// Ancestors returns an area's chain of parents, nearest first.
func (a *Atlas) Ancestors(id area.ID) []area.ID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.areas.Ancestors(id)
}

// Descendants lists an area's subareas in pre-order.
func (a *Atlas) Descendants(id area.ID) []area.ID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.areas.Descendants(id)
}

// LowestCommonAncestor returns the nearest area containing both, or NoArea.
func (a *Atlas) LowestCommonAncestor(id1, id2 area.ID) area.ID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.areas.LowestCommonAncestor(id1, id2)
}

// Route finds a route between two crossroads.
func (a *Atlas) Route(mode routing.Mode, from, to geo.Coord) []routing.Step {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine.Route(mode, from, to)
}

// RouteWithCycle finds a closed walk from a crossroad through a cycle.
func (a *Atlas) RouteWithCycle(from geo.Coord) []routing.CycleStep {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine.RouteWithCycle(from)
}

// WayCoords returns the geometry of a way, or [NoCoord].
func (a *Atlas) WayCoords(id graph.WayID) []geo.Coord {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.net.Coords(id)
}

// WayLength returns the length of a way, or NoDistance.
func (a *Atlas) WayLength(id graph.WayID) geo.Distance {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.net.Length(id)
}

// Stats counts the dataset's contents.
func (a *Atlas) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	sizes := graph.ComponentSizes(a.net)
	largest := 0
	for _, n := range sizes {
		largest = max(largest, n)
	}
	return Stats{
		Places:           a.places.Count(),
		Areas:            a.areas.Count(),
		Ways:             a.net.Count(),
		Crossroads:       len(a.net.Crossroads()),
		Components:       len(sizes),
		LargestComponent: largest,
		TotalLength:      a.net.TotalLength(),
	}
}
