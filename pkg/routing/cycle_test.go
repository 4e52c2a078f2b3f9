package routing

import (
	"slices"
	"testing"

	"trailmap/pkg/geo"
	"trailmap/pkg/graph"
	"trailmap/pkg/synth"
)

// checkClosedWalk verifies that a walk starts and ends at from and that each
// step is joined to the previous one by the stated way.
func checkClosedWalk(t *testing.T, n *graph.Network, walk []CycleStep, from geo.Coord) {
	t.Helper()
	if IsNoCycle(walk) {
		t.Fatalf("got no cycle from %v", from)
	}
	if walk[0] != (CycleStep{Coord: from, Way: graph.NoWay}) {
		t.Fatalf("first step = %+v, want start at %v", walk[0], from)
	}
	if len(walk) < 2 || walk[len(walk)-1].Coord != from {
		t.Fatalf("walk %v does not return to %v", walk, from)
	}
	for i := 1; i < len(walk); i++ {
		a, b, ok := n.Endpoints(walk[i].Way)
		if !ok {
			t.Fatalf("step %d uses unknown way %q", i, walk[i].Way)
		}
		p, q := walk[i-1].Coord, walk[i].Coord
		if !(a == p && b == q) && !(a == q && b == p) {
			t.Fatalf("step %d: way %q does not join %v and %v", i, walk[i].Way, p, q)
		}
	}
}

func triangle() []graph.WaySpec {
	return []graph.WaySpec{
		{ID: "ab", Coords: []geo.Coord{c(0, 0), c(10, 0)}},
		{ID: "bc", Coords: []geo.Coord{c(10, 0), c(0, 10)}},
		{ID: "ca", Coords: []geo.Coord{c(0, 10), c(0, 0)}},
	}
}

func TestRouteWithCycleTriangle(t *testing.T) {
	n, _ := graph.Build(triangle())
	got := NewEngine(n).RouteWithCycle(c(0, 0))
	want := []CycleStep{
		{Coord: c(0, 0), Way: graph.NoWay},
		{Coord: c(10, 0), Way: "ab"},
		{Coord: c(0, 10), Way: "bc"},
		{Coord: c(0, 0), Way: "ca"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("RouteWithCycle = %v, want %v", got, want)
	}
}

func TestRouteWithCycleThroughStem(t *testing.T) {
	specs := append(triangle(), graph.WaySpec{ID: "s", Coords: []geo.Coord{c(0, -10), c(0, 0)}})
	n, _ := graph.Build(specs)

	got := NewEngine(n).RouteWithCycle(c(0, -10))
	want := []CycleStep{
		{Coord: c(0, -10), Way: graph.NoWay},
		{Coord: c(0, 0), Way: "s"},
		{Coord: c(10, 0), Way: "ab"},
		{Coord: c(0, 10), Way: "bc"},
		{Coord: c(0, 0), Way: "ca"},
		{Coord: c(0, -10), Way: "s"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("RouteWithCycle = %v, want %v", got, want)
	}
	checkClosedWalk(t, n, got, c(0, -10))
}

func TestRouteWithCycleLoopAndParallel(t *testing.T) {
	tests := []struct {
		name  string
		specs []graph.WaySpec
		want  []CycleStep
	}{
		{
			name: "loop",
			specs: []graph.WaySpec{
				{ID: "loop", Coords: []geo.Coord{c(0, 0), c(5, 5), c(0, 5), c(0, 0)}},
			},
			want: []CycleStep{{Coord: c(0, 0), Way: graph.NoWay}, {Coord: c(0, 0), Way: "loop"}},
		},
		{
			name: "parallel ways",
			specs: []graph.WaySpec{
				{ID: "p1", Coords: []geo.Coord{c(0, 0), c(10, 0)}},
				{ID: "p2", Coords: []geo.Coord{c(10, 0), c(5, 5), c(0, 0)}},
			},
			want: []CycleStep{
				{Coord: c(0, 0), Way: graph.NoWay},
				{Coord: c(10, 0), Way: "p1"},
				{Coord: c(0, 0), Way: "p2"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, _ := graph.Build(tt.specs)
			got := NewEngine(n).RouteWithCycle(c(0, 0))
			if !slices.Equal(got, tt.want) {
				t.Errorf("RouteWithCycle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRouteWithCycleAcyclic(t *testing.T) {
	// A tree: star plus a tail, and a separate triangle that is unreachable.
	specs := append(triangle(),
		graph.WaySpec{ID: "t1", Coords: []geo.Coord{c(100, 0), c(110, 0)}},
		graph.WaySpec{ID: "t2", Coords: []geo.Coord{c(100, 0), c(100, 10)}},
		graph.WaySpec{ID: "t3", Coords: []geo.Coord{c(100, 10), c(100, 20)}},
	)
	n, _ := graph.Build(specs)
	e := NewEngine(n)

	if got := e.RouteWithCycle(c(100, 10)); !IsNoCycle(got) {
		t.Errorf("RouteWithCycle on a tree = %v, want no cycle", got)
	}
	if got := e.RouteWithCycle(c(55, 55)); !IsNoCycle(got) {
		t.Errorf("RouteWithCycle on unknown crossroad = %v, want no cycle", got)
	}
}

func TestRouteWithCycleRandomNetworks(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		// A spanning tree plus at least one extra way always has a cycle.
		specs, points := synth.New(seed).Network(25, 3, 100)
		n, _ := graph.Build(specs)
		for _, from := range points[:5] {
			checkClosedWalk(t, n, NewEngine(n).RouteWithCycle(from), from)
		}

		// The spanning tree alone has none.
		tree, _ := graph.Build(specs[:len(points)-1])
		if got := NewEngine(tree).RouteWithCycle(points[0]); !IsNoCycle(got) {
			t.Errorf("seed %d: spanning tree reported cycle %v", seed, got)
		}
	}
}
