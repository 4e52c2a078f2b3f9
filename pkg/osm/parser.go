// Package osm imports ways and places from OpenStreetMap data.
package osm

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"trailmap/pkg/geo"
	"trailmap/pkg/graph"
	"trailmap/pkg/place"
)

// PlaceSpec is a tagged node converted to a place.
type PlaceSpec struct {
	ID    place.ID
	Name  string
	Type  place.Type
	Coord geo.Coord
}

// Result holds the ways and places extracted from OSM data. Coordinates are
// projected to meters around Origin.
type Result struct {
	Ways   []graph.WaySpec
	Places []PlaceSpec
	Origin [2]float64 // lat, lon
}

// routableHighways lists highway tag values that can be walked or driven.
var routableHighways = map[string]bool{
	"primary":       true,
	"secondary":     true,
	"tertiary":      true,
	"unclassified":  true,
	"residential":   true,
	"living_street": true,
	"service":       true,
	"track":         true,
	"path":          true,
	"footway":       true,
	"bridleway":     true,
	"cycleway":      true,
	"steps":         true,
}

// isRoutable returns true if the way belongs in the network.
func isRoutable(tags osm.Tags) bool {
	if !routableHighways[tags.Find("highway")] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	return true
}

// placeType maps node tags to a place type.
func placeType(tags osm.Tags) (place.Type, bool) {
	switch {
	case tags.Find("amenity") == "shelter":
		return place.Shelter, true
	case tags.Find("tourism") == "wilderness_hut", tags.Find("tourism") == "alpine_hut":
		return place.Shelter, true
	case tags.Find("leisure") == "firepit":
		return place.Firepit, true
	case tags.Find("amenity") == "parking":
		return place.Parking, true
	case tags.Find("natural") == "peak":
		return place.Peak, true
	case tags.Find("natural") == "bay":
		return place.Bay, true
	}
	return place.Other, false
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only ways and places fully inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the importer.
type ParseOptions struct {
	BBox BBox // if non-zero, filter to this bounding box
}

type latLon struct {
	lat, lon float64
}

// wayInfo holds a routable way collected during the way pass.
type wayInfo struct {
	ID      osm.WayID
	NodeIDs []osm.NodeID
}

// collected is the raw material shared by the PBF and in-memory paths.
type collected struct {
	ways   []wayInfo
	nodes  map[osm.NodeID]latLon
	places []*osm.Node
}

func (c *collected) addWay(w *osm.Way) bool {
	if !isRoutable(w.Tags) || len(w.Nodes) < 2 {
		return false
	}
	ids := make([]osm.NodeID, len(w.Nodes))
	for i, wn := range w.Nodes {
		ids[i] = wn.ID
	}
	c.ways = append(c.ways, wayInfo{ID: w.ID, NodeIDs: ids})
	return true
}

// Parse reads an OSM PBF file. The reader is consumed twice (seeks back to
// start for the second pass), so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) (*Result, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	// Pass 1: Scan ways to collect routable ways and referenced node IDs.
	col := &collected{nodes: make(map[osm.NodeID]latLon)}
	referenced := make(map[osm.NodeID]struct{})

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if col.addWay(w) {
			for _, wn := range w.Nodes {
				referenced[wn.ID] = struct{}{}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 1 complete: %d ways, %d referenced nodes", len(col.ways), len(referenced))

	// Pass 2: Scan nodes for referenced coordinates and tagged places.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; needed {
			col.nodes[n.ID] = latLon{n.Lat, n.Lon}
		}
		if _, ok := placeType(n.Tags); ok {
			col.places = append(col.places, n)
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 2 complete: %d node coordinates, %d tagged places", len(col.nodes), len(col.places))

	return col.assemble(opt), nil
}

// Extract converts an in-memory OSM document, such as one decoded from XML.
func Extract(o *osm.OSM, opts ...ParseOptions) *Result {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	col := &collected{nodes: make(map[osm.NodeID]latLon, len(o.Nodes))}
	for _, n := range o.Nodes {
		col.nodes[n.ID] = latLon{n.Lat, n.Lon}
		if _, ok := placeType(n.Tags); ok {
			col.places = append(col.places, n)
		}
	}
	for _, w := range o.Ways {
		col.addWay(w)
	}
	return col.assemble(opt)
}

// assemble filters, projects and splits the collected ways at every node
// shared by more than one way position, so that junctions become crossroads.
func (c *collected) assemble(opt ParseOptions) *Result {
	useBBox := !opt.BBox.IsZero()
	inside := func(ll latLon) bool {
		return !useBBox || opt.BBox.Contains(ll.lat, ll.lon)
	}

	// Keep ways whose nodes all have coordinates inside the box.
	var kept []wayInfo
	var missing, bboxFiltered int
	for _, w := range c.ways {
		ok := true
		for _, id := range w.NodeIDs {
			ll, found := c.nodes[id]
			if !found {
				missing++
				ok = false
				break
			}
			if !inside(ll) {
				bboxFiltered++
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, w)
		}
	}

	proj := geo.NewProjection(c.origin(kept, opt))

	uses := make(map[osm.NodeID]int)
	for _, w := range kept {
		for _, id := range w.NodeIDs {
			uses[id]++
		}
	}

	res := &Result{Origin: [2]float64{proj.OriginLat, proj.OriginLon}}
	for _, w := range kept {
		res.Ways = append(res.Ways, splitWay(w, uses, c.nodes, proj)...)
	}

	for _, n := range c.places {
		ll := latLon{n.Lat, n.Lon}
		if !inside(ll) {
			continue
		}
		typ, _ := placeType(n.Tags)
		res.Places = append(res.Places, PlaceSpec{
			ID:    place.ID(n.ID),
			Name:  n.Tags.Find("name"),
			Type:  typ,
			Coord: proj.Project(ll.lat, ll.lon),
		})
	}

	if missing > 0 {
		log.Printf("Warning: skipped %d ways due to missing node coordinates", missing)
	}
	if bboxFiltered > 0 {
		log.Printf("Filtered %d ways outside bounding box", bboxFiltered)
	}
	log.Printf("Built %d ways and %d places", len(res.Ways), len(res.Places))
	return res
}

// origin picks the projection origin: the bbox centre if set, otherwise the
// centre of the kept ways' extent.
func (c *collected) origin(ways []wayInfo, opt ParseOptions) (lat, lon float64) {
	if !opt.BBox.IsZero() {
		return (opt.BBox.MinLat + opt.BBox.MaxLat) / 2, (opt.BBox.MinLng + opt.BBox.MaxLng) / 2
	}
	first := true
	var minLat, maxLat, minLon, maxLon float64
	for _, w := range ways {
		for _, id := range w.NodeIDs {
			ll := c.nodes[id]
			if first {
				minLat, maxLat, minLon, maxLon = ll.lat, ll.lat, ll.lon, ll.lon
				first = false
				continue
			}
			minLat, maxLat = min(minLat, ll.lat), max(maxLat, ll.lat)
			minLon, maxLon = min(minLon, ll.lon), max(maxLon, ll.lon)
		}
	}
	return (minLat + maxLat) / 2, (minLon + maxLon) / 2
}

// splitWay cuts w at interior shared nodes. A way that is not cut keeps its
// OSM id; pieces are suffixed "-1", "-2", ... in order along the way.
// Consecutive nodes that project to the same coordinate are collapsed, and
// pieces left with fewer than two points are dropped.
func splitWay(w wayInfo, uses map[osm.NodeID]int, nodes map[osm.NodeID]latLon, proj geo.Projection) []graph.WaySpec {
	var pieces [][]geo.Coord
	var cur []geo.Coord
	last := len(w.NodeIDs) - 1
	for i, id := range w.NodeIDs {
		ll := nodes[id]
		c := proj.Project(ll.lat, ll.lon)
		if len(cur) == 0 || cur[len(cur)-1] != c {
			cur = append(cur, c)
		}
		if i > 0 && i < last && uses[id] > 1 {
			pieces = append(pieces, cur)
			cur = []geo.Coord{c}
		}
	}
	pieces = append(pieces, cur)

	base := strconv.FormatInt(int64(w.ID), 10)
	specs := make([]graph.WaySpec, 0, len(pieces))
	for i, coords := range pieces {
		if len(coords) < 2 {
			continue
		}
		id := base
		if len(pieces) > 1 {
			id = fmt.Sprintf("%s-%d", base, i+1)
		}
		specs = append(specs, graph.WaySpec{ID: graph.WayID(id), Coords: coords})
	}
	return specs
}
