package routing

import (
	"trailmap/pkg/geo"
	"trailmap/pkg/graph"
)

// frame is one crossroad on the current depth-first path.
type frame struct {
	coord   geo.Coord
	arrival graph.WayID // way used to reach coord, NoWay for the start
	ways    []graph.Incidence
	next    int
}

// RouteWithCycle looks for a cycle reachable from a crossroad. A cycle is
// closed by any way that leads back to a crossroad already on the current
// path, other than the way just arrived by; loops and parallel ways count.
//
// The result is a closed walk starting and ending at from: out along the
// search path, once around the cycle and back the way it came.
func (e *Engine) RouteWithCycle(from geo.Coord) []CycleStep {
	if !e.net.HasCrossroad(from) {
		return []CycleStep{NoCycle}
	}

	visited := map[geo.Coord]bool{from: true}
	stack := []frame{{coord: from, arrival: graph.NoWay, ways: e.net.IncidentWays(from)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.ways) {
			stack = stack[:len(stack)-1]
			continue
		}
		inc := top.ways[top.next]
		top.next++

		if inc.Way == top.arrival {
			continue
		}
		if visited[inc.Other] {
			return closeWalk(stack, inc)
		}
		visited[inc.Other] = true
		stack = append(stack, frame{
			coord:   inc.Other,
			arrival: inc.Way,
			ways:    e.net.IncidentWays(inc.Other),
		})
	}
	return []CycleStep{NoCycle}
}

// closeWalk builds the closed walk for a cycle closed by inc from the top of
// the stack. inc.Other is on the stack: in an undirected depth-first search
// the first non-tree way found always leads to an ancestor.
func closeWalk(stack []frame, inc graph.Incidence) []CycleStep {
	walk := make([]CycleStep, 0, 2*len(stack)+1)
	for _, f := range stack {
		walk = append(walk, CycleStep{Coord: f.coord, Way: f.arrival})
	}
	walk = append(walk, CycleStep{Coord: inc.Other, Way: inc.Way})

	// Retrace the stem from the cycle's entry crossroad back to the start.
	entry := 0
	for entry < len(stack) && stack[entry].coord != inc.Other {
		entry++
	}
	for i := entry; i > 0; i-- {
		walk = append(walk, CycleStep{Coord: stack[i-1].coord, Way: stack[i].arrival})
	}
	return walk
}
