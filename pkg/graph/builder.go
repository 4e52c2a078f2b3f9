package graph

import "trailmap/pkg/geo"

// WaySpec describes a way to be added in bulk.
type WaySpec struct {
	ID     WayID
	Coords []geo.Coord
}

// Build creates a network from way specs, in order. Specs that AddWay rejects
// (duplicate ids, fewer than two points) are skipped and their ids returned.
func Build(specs []WaySpec) (*Network, []WayID) {
	n := NewNetwork()
	var rejected []WayID
	for _, s := range specs {
		if !n.AddWay(s.ID, s.Coords) {
			rejected = append(rejected, s.ID)
		}
	}
	return n, rejected
}
