package routing

import (
	"trailmap/pkg/geo"
	"trailmap/pkg/graph"
)

// RouteAny finds some route from one crossroad to another with an iterative
// depth-first search. The route is valid but not optimal in any sense.
func (e *Engine) RouteAny(from, to geo.Coord) []Step {
	if !e.endpointsKnown(from, to) {
		return []Step{NoRoute}
	}
	if from == to {
		return []Step{{Coord: from, Way: graph.NoWay}}
	}

	visited := map[geo.Coord]bool{from: true}
	pred := make(map[geo.Coord]hop)
	stack := []geo.Coord{from}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, inc := range e.net.IncidentWays(cur) {
			if visited[inc.Other] {
				continue
			}
			visited[inc.Other] = true
			pred[inc.Other] = hop{prev: cur, way: inc.Way}
			if inc.Other == to {
				return e.buildRoute(from, to, pred)
			}
			stack = append(stack, inc.Other)
		}
	}
	return []Step{NoRoute}
}

// RouteLeastCrossroads finds a route traversing the fewest ways, using a
// breadth-first search. Among equally short routes the one discovered first
// (incident ways in id order) wins.
func (e *Engine) RouteLeastCrossroads(from, to geo.Coord) []Step {
	if !e.endpointsKnown(from, to) {
		return []Step{NoRoute}
	}
	if from == to {
		return []Step{{Coord: from, Way: graph.NoWay}}
	}

	visited := map[geo.Coord]bool{from: true}
	pred := make(map[geo.Coord]hop)
	queue := []geo.Coord{from}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, inc := range e.net.IncidentWays(cur) {
			if visited[inc.Other] {
				continue
			}
			visited[inc.Other] = true
			pred[inc.Other] = hop{prev: cur, way: inc.Way}
			if inc.Other == to {
				return e.buildRoute(from, to, pred)
			}
			queue = append(queue, inc.Other)
		}
	}
	return []Step{NoRoute}
}
