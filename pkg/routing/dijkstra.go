package routing

import (
	"trailmap/pkg/geo"
	"trailmap/pkg/graph"
)

// MinHeap is a concrete-typed min-heap for the Dijkstra priority queue.
// Avoids interface boxing overhead of container/heap.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry. Entries order by distance, then by the
// number of ways travelled, then by insertion sequence.
type PQItem struct {
	Coord geo.Coord
	Dist  geo.Distance
	Hops  int
	Seq   uint64
}

func (a PQItem) less(b PQItem) bool {
	if a.Dist != b.Dist {
		return a.Dist < b.Dist
	}
	if a.Hops != b.Hops {
		return a.Hops < b.Hops
	}
	return a.Seq < b.Seq
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(item PQItem) {
	h.items = append(h.items, item)
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.items[i].less(h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].less(h.items[smallest]) {
			smallest = left
		}
		if right < n && h.items[right].less(h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// label is the best known (distance, hops) pair for a crossroad.
type label struct {
	dist geo.Distance
	hops int
}

func (l label) better(o label) bool {
	return l.dist < o.dist || (l.dist == o.dist && l.hops < o.hops)
}

// RouteShortestDistance finds the route of least total way length with
// Dijkstra's algorithm. Ties go to the route with fewer ways, then to the
// one relaxed first.
func (e *Engine) RouteShortestDistance(from, to geo.Coord) []Step {
	if !e.endpointsKnown(from, to) {
		return []Step{NoRoute}
	}
	if from == to {
		return []Step{{Coord: from, Way: graph.NoWay}}
	}

	best := map[geo.Coord]label{from: {}}
	pred := make(map[geo.Coord]hop)
	settled := make(map[geo.Coord]bool)

	var pq MinHeap
	var seq uint64
	pq.Push(PQItem{Coord: from})

	for pq.Len() > 0 {
		item := pq.Pop()
		u := item.Coord
		if settled[u] {
			continue // stale entry
		}
		settled[u] = true
		if u == to {
			return e.buildRoute(from, to, pred)
		}

		for _, inc := range e.net.IncidentWays(u) {
			v := inc.Other
			if settled[v] {
				continue
			}
			cand := label{dist: item.Dist + e.net.Length(inc.Way), hops: item.Hops + 1}
			if cur, ok := best[v]; ok && !cand.better(cur) {
				continue
			}
			best[v] = cand
			pred[v] = hop{prev: u, way: inc.Way}
			seq++
			pq.Push(PQItem{Coord: v, Dist: cand.dist, Hops: cand.hops, Seq: seq})
		}
	}
	return []Step{NoRoute}
}
