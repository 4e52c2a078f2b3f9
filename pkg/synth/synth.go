// Package synth generates reproducible synthetic datasets for tests and
// benchmarks. Every generator owns its random source; there is no package
// level state.
package synth

import (
	"fmt"
	"math/rand/v2"

	"trailmap/pkg/geo"
	"trailmap/pkg/graph"
	"trailmap/pkg/place"
)

// Generator produces pseudo-random coordinates, places and networks.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator. The same seed always yields the same data.
func New(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntIn returns a uniformly distributed integer in [lo, hi].
func (g *Generator) IntIn(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

// Coord returns a coordinate with both components in [lo, hi].
func (g *Generator) Coord(lo, hi int) geo.Coord {
	return geo.Coord{X: g.IntIn(lo, hi), Y: g.IntIn(lo, hi)}
}

// Places fills reg with n places numbered from 1, scattered over [lo, hi]².
func (g *Generator) Places(reg *place.Registry, n, lo, hi int) {
	for i := 1; i <= n; i++ {
		typ := place.Type(g.rng.IntN(int(place.NoType)))
		reg.Add(place.ID(i), fmt.Sprintf("place-%d", g.rng.IntN(n)), typ, g.Coord(lo, hi))
	}
}

// Network builds a random road network on crossroads distinct points within
// [0, span]², joined by ways extra ways on top of a random spanning tree, so
// the result is connected. Each way gets up to two random interior points.
func (g *Generator) Network(crossroads, extra, span int) ([]graph.WaySpec, []geo.Coord) {
	points := g.distinctCoords(crossroads, span)
	var specs []graph.WaySpec

	for i := 1; i < len(points); i++ {
		j := g.rng.IntN(i)
		specs = append(specs, g.way(len(specs), points[j], points[i], span))
	}
	for k := 0; k < extra && len(points) > 0; k++ {
		a := points[g.rng.IntN(len(points))]
		b := points[g.rng.IntN(len(points))]
		specs = append(specs, g.way(len(specs), a, b, span))
	}
	return specs, points
}

// Grid builds a w×h lattice of crossroads spaced step apart, with a way
// between each pair of horizontal and vertical neighbours.
func Grid(w, h, step int) []graph.WaySpec {
	var specs []graph.WaySpec
	at := func(x, y int) geo.Coord { return geo.Coord{X: x * step, Y: y * step} }
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x+1 < w {
				specs = append(specs, graph.WaySpec{
					ID:     graph.WayID(fmt.Sprintf("h%d_%d", x, y)),
					Coords: []geo.Coord{at(x, y), at(x+1, y)},
				})
			}
			if y+1 < h {
				specs = append(specs, graph.WaySpec{
					ID:     graph.WayID(fmt.Sprintf("v%d_%d", x, y)),
					Coords: []geo.Coord{at(x, y), at(x, y+1)},
				})
			}
		}
	}
	return specs
}

func (g *Generator) way(n int, a, b geo.Coord, span int) graph.WaySpec {
	coords := []geo.Coord{a}
	for range g.rng.IntN(3) {
		coords = append(coords, g.Coord(0, span))
	}
	coords = append(coords, b)
	return graph.WaySpec{ID: graph.WayID(fmt.Sprintf("w%04d", n)), Coords: coords}
}

func (g *Generator) distinctCoords(n, span int) []geo.Coord {
	if limit := (span + 1) * (span + 1); n > limit {
		n = limit
	}
	seen := make(map[geo.Coord]bool, n)
	points := make([]geo.Coord, 0, n)
	for len(points) < n {
		c := g.Coord(0, span)
		if seen[c] {
			continue
		}
		seen[c] = true
		points = append(points, c)
	}
	return points
}
