package ports

import (
	"testing"

	"github.com/matzehuels/strata/pkg/graph"
)

func TestDetectSide(t *testing.T) {
	tests := []struct {
		x, y float64
		want graph.PortSide
	}{
		{50, 0, graph.PortSideNorth},
		{50, 60, graph.PortSideSouth},
		{0, 30, graph.PortSideWest},
		{100, 30, graph.PortSideEast},
		{0, 0, graph.PortSideNorth}, // tie between NORTH and WEST
		{100, 60, graph.PortSideSouth},
		{0, 60, graph.PortSideSouth},
	}
	for _, tt := range tests {
		p := graph.NewPort("p", tt.x, tt.y)
		if got := DetectSide(p, 100, 60); got != tt.want {
			t.Errorf("DetectSide(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDetectSideKeepsExplicit(t *testing.T) {
	n := &graph.Node{ID: "n", Width: 100, Height: 60}
	p := n.AddPort(graph.NewPort("p", 50, 0))
	p.Side = graph.PortSideEast
	ProcessNode(n, nil, nil)
	if p.Side != graph.PortSideEast {
		t.Errorf("Side = %v, want EAST", p.Side)
	}
	if p.X != 100 || p.Y != 30 || p.Offset != 30 {
		t.Errorf("position = (%v,%v) offset %v, want (100,30) offset 30", p.X, p.Y, p.Offset)
	}
}

func TestOrderExplicitIndices(t *testing.T) {
	n := &graph.Node{ID: "n", Width: 100, Height: 60}
	ids := []string{"c", "a", "b"}
	for i, idx := range []int{2, 0, 1} {
		p := n.AddPort(graph.NewPort(ids[i], 10, 0))
		p.Side = graph.PortSideNorth
		p.Index = idx
	}
	ProcessNode(n, nil, nil)

	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for _, p := range n.Ports {
		if p.Index != want[p.ID] {
			t.Errorf("port %s index = %d, want %d", p.ID, p.Index, want[p.ID])
		}
		if wantX := 100 * float64(p.Index+1) / 4; p.X != wantX || p.Y != 0 {
			t.Errorf("port %s at (%v,%v), want (%v,0)", p.ID, p.X, p.Y, wantX)
		}
	}
}

func TestOrderByPosition(t *testing.T) {
	n := &graph.Node{ID: "n", Width: 100, Height: 60}
	n.AddPort(graph.NewPort("right", 90, 0))
	n.AddPort(graph.NewPort("left", 10, 0))
	n.AddPort(graph.NewPort("mid", 50, 0))
	ProcessNode(n, nil, nil)

	want := map[string]int{"left": 0, "mid": 1, "right": 2}
	for _, p := range n.Ports {
		if p.Side != graph.PortSideNorth {
			t.Errorf("port %s side = %v, want NORTH", p.ID, p.Side)
		}
		if p.Index != want[p.ID] {
			t.Errorf("port %s index = %d, want %d", p.ID, p.Index, want[p.ID])
		}
	}
}

func TestOrderMixed(t *testing.T) {
	mk := func(id string, x float64, idx int) *graph.Port {
		p := graph.NewPort(id, x, 0)
		p.Side = graph.PortSideNorth
		p.Index = idx
		return p
	}
	ports := []*graph.Port{
		mk("free-late", 80, graph.UnassignedIndex),
		mk("pinned-2", 5, 2),
		mk("free-early", 20, graph.UnassignedIndex),
		mk("pinned-0", 95, 0),
	}
	got := Order(graph.PortSideNorth, ports, true)
	want := []string{"pinned-0", "free-early", "pinned-2", "free-late"}
	for k, p := range got {
		if p.ID != want[k] {
			t.Errorf("Order()[%d] = %s, want %s", k, p.ID, want[k])
		}
		if p.Index != k {
			t.Errorf("Order()[%d].Index = %d", k, p.Index)
		}
	}
}

func TestOrderingPositionIgnoresIndex(t *testing.T) {
	opts, _ := graph.NewLayoutOptions(map[string]any{graph.KeyPortOrdering: "POSITION"})
	n := &graph.Node{ID: "n", Width: 100, Height: 60}
	a := n.AddPort(graph.NewPort("a", 0, 50))
	b := n.AddPort(graph.NewPort("b", 0, 10))
	a.Index, b.Index = 0, 1
	ProcessNode(n, opts, nil)
	if a.Side != graph.PortSideWest || b.Side != graph.PortSideWest {
		t.Fatalf("sides = %v %v, want WEST", a.Side, b.Side)
	}
	if b.Index != 0 || a.Index != 1 {
		t.Errorf("indices a=%d b=%d, want a=1 b=0", a.Index, b.Index)
	}
}

func TestFixedPos(t *testing.T) {
	opts, _ := graph.NewLayoutOptions(map[string]any{graph.KeyPortConstraints: "FIXED_POS"})
	n := &graph.Node{ID: "n", Width: 100, Height: 60}
	p := n.AddPort(graph.NewPort("p", 42, 17))
	ProcessNode(n, opts, nil)
	if p.Side != graph.PortSideUndefined || p.X != 42 || p.Y != 17 || p.Index != graph.UnassignedIndex {
		t.Errorf("FIXED_POS port changed: %+v", p)
	}
}

func TestFlowAssignment(t *testing.T) {
	opts, _ := graph.NewLayoutOptions(map[string]any{
		graph.KeyPortSideAssignment: "FLOW",
		graph.KeyDirection:          "RIGHT",
	})
	n := &graph.Node{ID: "n", Width: 100, Height: 60}
	src := n.AddPort(graph.NewPort("src", 50, 0))
	dst := n.AddPort(graph.NewPort("dst", 50, 0))
	idle := n.AddPort(graph.NewPort("idle", 50, 60))
	usage := CountUsage([]*graph.Edge{
		graph.NewEdge("e1", "src", "x"),
		graph.NewEdge("e2", "y", "dst"),
	})
	ProcessNode(n, opts, usage)
	if src.Side != graph.PortSideEast {
		t.Errorf("src side = %v, want EAST", src.Side)
	}
	if dst.Side != graph.PortSideWest {
		t.Errorf("dst side = %v, want WEST", dst.Side)
	}
	if idle.Side != graph.PortSideSouth {
		t.Errorf("idle side = %v, want SOUTH", idle.Side)
	}
}

func TestProcessNodeNoop(t *testing.T) {
	tests := []struct {
		name string
		node *graph.Node
	}{
		{"no ports", &graph.Node{ID: "n", Width: 10, Height: 10}},
		{"zero width", &graph.Node{ID: "n", Height: 10, Ports: []*graph.Port{graph.NewPort("p", 0, 5)}}},
		{"zero height", &graph.Node{ID: "n", Width: 10, Ports: []*graph.Port{graph.NewPort("p", 5, 0)}}},
	}
	for _, tt := range tests {
		ProcessNode(tt.node, nil, nil)
		for _, p := range tt.node.Ports {
			if p.Side != graph.PortSideUndefined {
				t.Errorf("%s: port side = %v, want UNDEFINED", tt.name, p.Side)
			}
		}
	}
}

func TestProcessRecursesAndIsIdempotent(t *testing.T) {
	inner := &graph.Node{ID: "inner", Width: 40, Height: 40}
	inner.AddPort(graph.NewPort("ip", 40, 20))
	outer := &graph.Node{ID: "outer", Width: 100, Height: 60, Children: []*graph.Node{inner}}
	outer.AddPort(graph.NewPort("op", 50, 60))
	g := &graph.Graph{ID: "g", Children: []*graph.Node{outer}}

	Process(g, nil)
	if inner.Ports[0].Side != graph.PortSideEast || outer.Ports[0].Side != graph.PortSideSouth {
		t.Fatalf("sides = %v %v, want EAST SOUTH", inner.Ports[0].Side, outer.Ports[0].Side)
	}
	p := inner.Ports[0]
	x, y, idx, off := p.X, p.Y, p.Index, p.Offset
	Process(g, nil)
	if p.X != x || p.Y != y || p.Index != idx || p.Offset != off {
		t.Errorf("second Process() moved port to (%v,%v) index %d offset %v", p.X, p.Y, p.Index, p.Offset)
	}
}
