// Package routing answers path queries over a graph.Network.
//
// The engine keeps no traversal state between calls: every query builds its
// own visited set and predecessor map from the network's current contents.
package routing

import (
	"slices"
	"strings"

	"trailmap/pkg/geo"
	"trailmap/pkg/graph"
)

// Step is one crossroad on a route, the way used to reach it and the
// distance travelled from the start. The first step has Way == graph.NoWay.
type Step struct {
	Coord    geo.Coord
	Way      graph.WayID
	Distance geo.Distance
}

// CycleStep is one crossroad on a closed walk and the way used to reach it.
type CycleStep struct {
	Coord geo.Coord
	Way   graph.WayID
}

// NoRoute is the single step returned when no route exists.
var NoRoute = Step{Coord: geo.NoCoord, Way: graph.NoWay, Distance: geo.NoDistance}

// NoCycle is the single step returned when no cycle exists.
var NoCycle = CycleStep{Coord: geo.NoCoord, Way: graph.NoWay}

// IsNoRoute reports whether a route result is the no-route sentinel.
func IsNoRoute(route []Step) bool {
	return len(route) == 1 && route[0] == NoRoute
}

// IsNoCycle reports whether a cycle result is the no-cycle sentinel.
func IsNoCycle(walk []CycleStep) bool {
	return len(walk) == 1 && walk[0] == NoCycle
}

// Mode selects the search strategy of Engine.Route.
type Mode int

const (
	// ModeAny returns whichever route a depth-first search finds first.
	ModeAny Mode = iota
	// ModeLeastCrossroads minimises the number of ways traversed.
	ModeLeastCrossroads
	// ModeShortest minimises the total way length.
	ModeShortest
)

func (m Mode) String() string {
	switch m {
	case ModeAny:
		return "any"
	case ModeLeastCrossroads:
		return "least_crossroads"
	case ModeShortest:
		return "shortest"
	default:
		return "unknown"
	}
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(s) {
	case "any", "":
		return ModeAny, true
	case "least_crossroads", "least-crossroads", "fewest":
		return ModeLeastCrossroads, true
	case "shortest", "shortest_distance":
		return ModeShortest, true
	}
	return ModeAny, false
}

// Engine runs route queries against a network.
type Engine struct {
	net *graph.Network
}

// NewEngine creates an engine reading from net.
func NewEngine(net *graph.Network) *Engine {
	return &Engine{net: net}
}

// Route dispatches to the search selected by mode.
func (e *Engine) Route(mode Mode, from, to geo.Coord) []Step {
	switch mode {
	case ModeLeastCrossroads:
		return e.RouteLeastCrossroads(from, to)
	case ModeShortest:
		return e.RouteShortestDistance(from, to)
	default:
		return e.RouteAny(from, to)
	}
}

// hop records how a crossroad was first reached.
type hop struct {
	prev geo.Coord
	way  graph.WayID
}

// endpointsKnown reports whether both coordinates are crossroads.
func (e *Engine) endpointsKnown(from, to geo.Coord) bool {
	return e.net.HasCrossroad(from) && e.net.HasCrossroad(to)
}

// buildRoute walks the predecessor map back from to, then emits the route
// forwards with cumulative distances.
func (e *Engine) buildRoute(from, to geo.Coord, pred map[geo.Coord]hop) []Step {
	var back []Step
	for cur := to; cur != from; {
		h, ok := pred[cur]
		if !ok {
			return []Step{NoRoute}
		}
		back = append(back, Step{Coord: cur, Way: h.way})
		cur = h.prev
	}
	back = append(back, Step{Coord: from, Way: graph.NoWay})
	slices.Reverse(back)

	var total geo.Distance
	for i := range back {
		if i > 0 {
			total += e.net.Length(back[i].Way)
		}
		back[i].Distance = total
	}
	return back
}
