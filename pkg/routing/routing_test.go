package routing

import (
	"math"
	"slices"
	"testing"

	"trailmap/pkg/geo"
	"trailmap/pkg/graph"
	"trailmap/pkg/synth"
)

func c(x, y int) geo.Coord { return geo.Coord{X: x, Y: y} }

var (
	nodeA = c(0, 0)
	nodeB = c(10, 0)
	nodeC = c(20, 0)
	nodeD = c(0, 30)
	nodeZ = c(100, 100)
)

// buildTestNetwork creates:
//
//	D ------------d (50)--------------+
//	|                                 |
//	c (30)                            |
//	|                                 |
//	A ---a (10)--- B ---b (10)------- C
//	 \                               /
//	  +-----------e (82)------------+
//
// plus an isolated way z far away.
func buildTestNetwork(t testing.TB) *graph.Network {
	t.Helper()
	n, rejected := graph.Build([]graph.WaySpec{
		{ID: "a", Coords: []geo.Coord{nodeA, nodeB}},
		{ID: "b", Coords: []geo.Coord{nodeB, nodeC}},
		{ID: "c", Coords: []geo.Coord{nodeA, nodeD}},
		{ID: "d", Coords: []geo.Coord{nodeD, c(20, 30), nodeC}},
		{ID: "e", Coords: []geo.Coord{nodeA, c(10, -40), nodeC}},
		{ID: "z", Coords: []geo.Coord{nodeZ, c(110, 100)}},
	})
	if len(rejected) != 0 {
		t.Fatalf("rejected ways: %v", rejected)
	}
	return n
}

// checkRoute verifies that a route starts at from with no way, ends at to,
// joins consecutive crossroads by the stated way and accumulates distance.
func checkRoute(t *testing.T, n *graph.Network, route []Step, from, to geo.Coord) {
	t.Helper()
	if IsNoRoute(route) {
		t.Fatalf("got no route from %v to %v", from, to)
	}
	if route[0] != (Step{Coord: from, Way: graph.NoWay, Distance: 0}) {
		t.Fatalf("first step = %+v, want start at %v", route[0], from)
	}
	if last := route[len(route)-1]; last.Coord != to {
		t.Fatalf("last step ends at %v, want %v", last.Coord, to)
	}
	for i := 1; i < len(route); i++ {
		prev, cur := route[i-1], route[i]
		a, b, ok := n.Endpoints(cur.Way)
		if !ok {
			t.Fatalf("step %d uses unknown way %q", i, cur.Way)
		}
		if !(a == prev.Coord && b == cur.Coord) && !(b == prev.Coord && a == cur.Coord) {
			t.Fatalf("step %d: way %q does not join %v and %v", i, cur.Way, prev.Coord, cur.Coord)
		}
		if cur.Distance != prev.Distance+n.Length(cur.Way) {
			t.Fatalf("step %d: distance %d, want %d", i, cur.Distance, prev.Distance+n.Length(cur.Way))
		}
	}
}

func TestRoutesUnknownEndpoints(t *testing.T) {
	e := NewEngine(buildTestNetwork(t))
	shapePoint := c(20, 30) // interior point of way d, not a crossroad

	for _, mode := range []Mode{ModeAny, ModeLeastCrossroads, ModeShortest} {
		t.Run(mode.String(), func(t *testing.T) {
			for _, pair := range [][2]geo.Coord{{nodeA, c(7, 7)}, {c(7, 7), nodeA}, {nodeA, shapePoint}} {
				if got := e.Route(mode, pair[0], pair[1]); !IsNoRoute(got) {
					t.Errorf("Route(%v, %v) = %v, want no route", pair[0], pair[1], got)
				}
			}
		})
	}
}

func TestRoutesUnreachable(t *testing.T) {
	e := NewEngine(buildTestNetwork(t))
	for _, mode := range []Mode{ModeAny, ModeLeastCrossroads, ModeShortest} {
		if got := e.Route(mode, nodeA, nodeZ); !IsNoRoute(got) {
			t.Errorf("%s: Route(A, Z) = %v, want no route", mode, got)
		}
	}
}

func TestRoutesSameEndpoint(t *testing.T) {
	e := NewEngine(buildTestNetwork(t))
	want := []Step{{Coord: nodeB, Way: graph.NoWay, Distance: 0}}
	for _, mode := range []Mode{ModeAny, ModeLeastCrossroads, ModeShortest} {
		if got := e.Route(mode, nodeB, nodeB); !slices.Equal(got, want) {
			t.Errorf("%s: Route(B, B) = %v, want %v", mode, got, want)
		}
	}
}

func TestRouteAny(t *testing.T) {
	n := buildTestNetwork(t)
	e := NewEngine(n)

	route := e.RouteAny(nodeA, nodeC)
	checkRoute(t, n, route, nodeA, nodeC)

	// Reverse direction also works.
	checkRoute(t, n, e.RouteAny(nodeC, nodeA), nodeC, nodeA)
	checkRoute(t, n, e.RouteAny(nodeD, nodeB), nodeD, nodeB)
}

func TestRouteLeastCrossroads(t *testing.T) {
	n := buildTestNetwork(t)
	e := NewEngine(n)

	got := e.RouteLeastCrossroads(nodeA, nodeC)
	want := []Step{
		{Coord: nodeA, Way: graph.NoWay, Distance: 0},
		{Coord: nodeC, Way: "e", Distance: 82},
	}
	if !slices.Equal(got, want) {
		t.Errorf("RouteLeastCrossroads(A, C) = %v, want %v", got, want)
	}

	checkRoute(t, n, e.RouteLeastCrossroads(nodeD, nodeB), nodeD, nodeB)
	if got := e.RouteLeastCrossroads(nodeD, nodeB); len(got) != 3 {
		t.Errorf("RouteLeastCrossroads(D, B) has %d steps, want 3", len(got))
	}
}

func TestRouteShortestDistance(t *testing.T) {
	n := buildTestNetwork(t)
	e := NewEngine(n)

	got := e.RouteShortestDistance(nodeA, nodeC)
	want := []Step{
		{Coord: nodeA, Way: graph.NoWay, Distance: 0},
		{Coord: nodeB, Way: "a", Distance: 10},
		{Coord: nodeC, Way: "b", Distance: 20},
	}
	if !slices.Equal(got, want) {
		t.Errorf("RouteShortestDistance(A, C) = %v, want %v", got, want)
	}

	// D -> C: via d is 50, via A-B-C is 30+20 = 50; the fewer-ways route wins.
	got = e.RouteShortestDistance(nodeD, nodeC)
	want = []Step{
		{Coord: nodeD, Way: graph.NoWay, Distance: 0},
		{Coord: nodeC, Way: "d", Distance: 50},
	}
	if !slices.Equal(got, want) {
		t.Errorf("RouteShortestDistance(D, C) = %v, want %v", got, want)
	}
}

func TestRouteShortestPicksShorterParallelWay(t *testing.T) {
	n, _ := graph.Build([]graph.WaySpec{
		{ID: "long", Coords: []geo.Coord{nodeA, c(5, 20), nodeB}},
		{ID: "short", Coords: []geo.Coord{nodeB, nodeA}},
	})
	got := NewEngine(n).RouteShortestDistance(nodeA, nodeB)
	if len(got) != 2 || got[1].Way != "short" || got[1].Distance != 10 {
		t.Errorf("RouteShortestDistance = %v, want via short", got)
	}
}

func TestRoutesSeeWayRemoval(t *testing.T) {
	n := buildTestNetwork(t)
	e := NewEngine(n)

	n.RemoveWay("a")
	got := e.RouteShortestDistance(nodeA, nodeC)
	if last := got[len(got)-1]; last.Distance != 80 {
		t.Errorf("after removal distance = %d, want 80 (via D)", last.Distance)
	}
	n.RemoveWay("c")
	n.RemoveWay("e")
	if got := e.RouteAny(nodeA, nodeC); !IsNoRoute(got) {
		t.Errorf("A is no longer a crossroad, got %v", got)
	}
}

// plainDijkstra computes shortest distances from source with an O(n²) scan,
// as an independent reference.
func plainDijkstra(n *graph.Network, source geo.Coord) map[geo.Coord]geo.Distance {
	dist := map[geo.Coord]geo.Distance{source: 0}
	done := map[geo.Coord]bool{}
	for {
		var cur geo.Coord
		best := geo.Distance(math.MaxInt)
		for v, d := range dist {
			if !done[v] && d < best {
				cur, best = v, d
			}
		}
		if best == geo.Distance(math.MaxInt) {
			return dist
		}
		done[cur] = true
		for _, inc := range n.IncidentWays(cur) {
			nd := best + n.Length(inc.Way)
			if d, ok := dist[inc.Other]; !ok || nd < d {
				dist[inc.Other] = nd
			}
		}
	}
}

func lastDistance(route []Step) geo.Distance { return route[len(route)-1].Distance }

func TestRouteOrderingProperties(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		specs, points := synth.New(seed).Network(40, 30, 200)
		n, _ := graph.Build(specs)
		e := NewEngine(n)

		for i, from := range points[:10] {
			ref := plainDijkstra(n, from)
			for _, to := range points[i+1:] {
				anyRoute := e.RouteAny(from, to)
				fewest := e.RouteLeastCrossroads(from, to)
				shortest := e.RouteShortestDistance(from, to)

				checkRoute(t, n, anyRoute, from, to)
				checkRoute(t, n, fewest, from, to)
				checkRoute(t, n, shortest, from, to)

				if len(fewest) > len(anyRoute) {
					t.Errorf("seed %d %v->%v: fewest has %d steps, any has %d", seed, from, to, len(fewest), len(anyRoute))
				}
				sd := lastDistance(shortest)
				if sd > lastDistance(anyRoute) || sd > lastDistance(fewest) {
					t.Errorf("seed %d %v->%v: shortest %d exceeds any %d or fewest %d",
						seed, from, to, sd, lastDistance(anyRoute), lastDistance(fewest))
				}
				if sd != ref[to] {
					t.Errorf("seed %d %v->%v: shortest %d, reference %d", seed, from, to, sd, ref[to])
				}
			}
		}
	}
}

func TestRoutesAreDeterministic(t *testing.T) {
	for _, mode := range []Mode{ModeAny, ModeLeastCrossroads, ModeShortest} {
		specs, points := synth.New(99).Network(30, 30, 100)
		n1, _ := graph.Build(specs)
		n2, _ := graph.Build(specs)
		from, to := points[0], points[len(points)-1]
		r1 := NewEngine(n1).Route(mode, from, to)
		r2 := NewEngine(n2).Route(mode, from, to)
		if !slices.Equal(r1, r2) {
			t.Errorf("%s: routes differ between identical networks", mode)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"any", ModeAny, true},
		{"", ModeAny, true},
		{"least_crossroads", ModeLeastCrossroads, true},
		{"shortest", ModeShortest, true},
		{"teleport", ModeAny, false},
	}
	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMode(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMinHeap(t *testing.T) {
	var h MinHeap

	h.Push(PQItem{Coord: c(1, 0), Dist: 30})
	h.Push(PQItem{Coord: c(2, 0), Dist: 10, Hops: 3})
	h.Push(PQItem{Coord: c(3, 0), Dist: 20})
	h.Push(PQItem{Coord: c(4, 0), Dist: 10, Hops: 1})

	want := []geo.Coord{c(4, 0), c(2, 0), c(3, 0), c(1, 0)}
	for i, w := range want {
		if item := h.Pop(); item.Coord != w {
			t.Errorf("Pop %d = %v, want %v", i, item.Coord, w)
		}
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
}

func BenchmarkRouteShortestDistance(b *testing.B) {
	n, _ := graph.Build(synth.Grid(60, 60, 10))
	e := NewEngine(n)
	from, to := c(0, 0), c(590, 590)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.RouteShortestDistance(from, to)
	}
}

func BenchmarkRouteLeastCrossroads(b *testing.B) {
	n, _ := graph.Build(synth.Grid(60, 60, 10))
	e := NewEngine(n)
	from, to := c(0, 0), c(590, 590)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.RouteLeastCrossroads(from, to)
	}
}
