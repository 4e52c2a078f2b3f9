package routing

import (
	"slices"

	"trailmap/pkg/geo"
	"trailmap/pkg/graph"
)

// TrimWays simplifies the network without changing which crossroads can
// reach each other or the shortest distance between any two crossroads that
// remain. Until nothing changes it:
//
//   - removes loops, which never lie on a shortest route;
//   - removes parallel ways between the same two crossroads, keeping the
//     shortest (ties go to the smallest id);
//   - merges the two ways at every crossroad of degree exactly two into a
//     single way named after the smaller id.
//
// Cycles are not preserved: a ring whose crossroads all have degree two
// collapses into a single way, so RouteWithCycle can find fewer cycles
// after trimming. It returns the total length removed from the network.
func (e *Engine) TrimWays() geo.Distance {
	before := e.net.TotalLength()
	for {
		changed := e.dropLoops()
		changed = e.dropParallel() || changed
		changed = e.mergeDegreeTwo() || changed
		if !changed {
			break
		}
	}
	return before - e.net.TotalLength()
}

func (e *Engine) dropLoops() bool {
	changed := false
	for _, id := range e.net.IDs() {
		if w, _ := e.net.Way(id); w.IsLoop() {
			e.net.RemoveWay(id)
			changed = true
		}
	}
	return changed
}

type endpointPair struct{ a, b geo.Coord }

func pairOf(w *graph.Way) endpointPair {
	a, b := w.From(), w.To()
	if b.Less(a) {
		a, b = b, a
	}
	return endpointPair{a, b}
}

func (e *Engine) dropParallel() bool {
	keep := make(map[endpointPair]*graph.Way)
	var drop []graph.WayID
	// IDs are ascending, so on equal length the first way seen is kept.
	for _, id := range e.net.IDs() {
		w, _ := e.net.Way(id)
		key := pairOf(w)
		kept, ok := keep[key]
		switch {
		case !ok:
			keep[key] = w
		case w.Length < kept.Length:
			drop = append(drop, kept.ID)
			keep[key] = w
		default:
			drop = append(drop, w.ID)
		}
	}
	for _, id := range drop {
		e.net.RemoveWay(id)
	}
	return len(drop) > 0
}

func (e *Engine) mergeDegreeTwo() bool {
	changed := false
	for _, v := range e.net.Crossroads() {
		inc := e.net.IncidentWays(v)
		if len(inc) != 2 || inc[0].Other == v || inc[1].Other == v || inc[0].Other == inc[1].Other {
			continue
		}
		a, _ := e.net.Way(inc[0].Way)
		b, _ := e.net.Way(inc[1].Way)

		// Orient a to end at v and b to start at v.
		first := slices.Clone(a.Coords)
		if a.To() != v {
			slices.Reverse(first)
		}
		second := b.Coords
		if b.From() != v {
			second = slices.Clone(second)
			slices.Reverse(second)
		}
		merged := append(first, second[1:]...)

		id := min(a.ID, b.ID)
		e.net.RemoveWay(a.ID)
		e.net.RemoveWay(b.ID)
		e.net.AddWay(id, merged)
		changed = true
	}
	return changed
}
