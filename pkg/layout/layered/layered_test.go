package layered

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/graph"
)

// build returns a root scope over nodes named by ids, each w×h, with edges
// given as "a->b" pairs.
func build(ids []string, edges [][2]string) (*graph.Graph, *graph.Scope) {
	g := &graph.Graph{ID: "g"}
	for _, id := range ids {
		g.Children = append(g.Children, &graph.Node{ID: id, Width: 40, Height: 20})
	}
	for i, e := range edges {
		g.Edges = append(g.Edges, graph.NewEdge(fmt.Sprintf("e%d", i), e[0], e[1]))
	}
	return g, graph.RootScope(g, nil)
}

func TestBreakCycles_NoCycles(t *testing.T) {
	_, s := build([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
	if got := BreakCycles(s); len(got) != 0 {
		t.Errorf("BreakCycles() reversed %d edges, want 0", len(got))
	}
}

func TestBreakCycles_SimpleCycle(t *testing.T) {
	g, s := build([]string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
	got := BreakCycles(s)
	if len(got) != 1 {
		t.Fatalf("BreakCycles() reversed %d edges, want 1", len(got))
	}
	e := g.Edges[1]
	if got[0] != e {
		t.Errorf("reversed %s, want e1", got[0].ID)
	}
	if e.Source() != "a" || e.Target() != "b" || !e.IsReversed() {
		t.Errorf("e1 = %s->%s reversed=%v, want a->b reversed", e.Source(), e.Target(), e.IsReversed())
	}
}

func TestBreakCycles_TriangleCycle(t *testing.T) {
	_, s := build([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	if got := BreakCycles(s); len(got) != 1 {
		t.Errorf("BreakCycles() reversed %d edges, want 1", len(got))
	}
	if _, err := AssignLayers(s); err != nil {
		t.Errorf("AssignLayers() after BreakCycles error = %v", err)
	}
}

func TestBreakCycles_SelfLoopIgnored(t *testing.T) {
	g, s := build([]string{"a"}, [][2]string{{"a", "a"}})
	if got := BreakCycles(s); len(got) != 0 {
		t.Errorf("BreakCycles() reversed %d edges, want 0", len(got))
	}
	if g.Edges[0].IsReversed() {
		t.Errorf("self loop flagged reversed")
	}
}

func TestBreakCycles_DisconnectedComponents(t *testing.T) {
	_, s := build([]string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"}, {"b", "a"},
		{"c", "d"}, {"d", "c"},
	})
	if got := BreakCycles(s); len(got) != 2 {
		t.Errorf("BreakCycles() reversed %d edges, want 2", len(got))
	}
}

func TestBreakCycles_DeepChain(t *testing.T) {
	const n = 20000
	ids := make([]string, n)
	var edges [][2]string
	for i := range ids {
		ids[i] = fmt.Sprintf("n%d", i)
		if i > 0 {
			edges = append(edges, [2]string{ids[i-1], ids[i]})
		}
	}
	edges = append(edges, [2]string{ids[n-1], ids[0]})
	_, s := build(ids, edges)
	if got := BreakCycles(s); len(got) != 1 {
		t.Fatalf("BreakCycles() reversed %d edges, want 1", len(got))
	}
	l, err := AssignLayers(s)
	if err != nil {
		t.Fatalf("AssignLayers() error = %v", err)
	}
	if l.Len() != n {
		t.Errorf("Len() = %d, want %d", l.Len(), n)
	}
}

func TestAssignLayers(t *testing.T) {
	_, s := build([]string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"}, {"b", "c"}, {"a", "c"}, {"ghost", "d"},
	})
	l, err := AssignLayers(s)
	if err != nil {
		t.Fatalf("AssignLayers() error = %v", err)
	}
	want := map[string]int{"a": 0, "b": 1, "c": 2, "d": 0}
	for id, w := range want {
		if got, _ := l.LayerFor(id); got != w {
			t.Errorf("LayerFor(%s) = %d, want %d", id, got, w)
		}
	}
	if l.Len() != 3 || len(l.Layer(0)) != 2 {
		t.Errorf("layers = %d, layer 0 has %d nodes, want 3 and 2", l.Len(), len(l.Layer(0)))
	}
}

func TestAssignLayers_UnresolvedCycle(t *testing.T) {
	_, s := build([]string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
	_, err := AssignLayers(s)
	if !errors.Is(err, errors.ErrCodeUnresolvedCycle) {
		t.Errorf("AssignLayers() error = %v, want UNRESOLVED_CYCLE", err)
	}
}

func TestAssignLayers_Pin(t *testing.T) {
	g, s := build([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
	g.Children[1].Constraints = &graph.NodeConstraints{Layer: graph.PinLayer(3)}
	l, err := AssignLayers(s)
	if err != nil {
		t.Fatalf("AssignLayers() error = %v", err)
	}
	if got, _ := l.LayerFor("b"); got != 3 {
		t.Errorf("LayerFor(b) = %d, want 3", got)
	}
	if got, _ := l.LayerFor("c"); got != 4 {
		t.Errorf("LayerFor(c) = %d, want 4", got)
	}
	if len(l.Layer(1)) != 0 {
		t.Errorf("layer 1 has %d nodes, want empty", len(l.Layer(1)))
	}
}

func TestAssignLayers_PinOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		pin  int
		ok   bool
	}{
		{"negative", -1, false},
		{"huge", 20_000_000, false},
		{"at limit", 2 + MaxPinSlack, true},
		{"past limit", 3 + MaxPinSlack, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, s := build([]string{"a", "b"}, [][2]string{{"a", "b"}})
			g.Children[1].Constraints = &graph.NodeConstraints{Layer: graph.PinLayer(tt.pin)}
			l, err := AssignLayers(s)
			if tt.ok {
				if err != nil {
					t.Fatalf("AssignLayers() error = %v", err)
				}
				if got, _ := l.LayerFor("b"); got != tt.pin {
					t.Errorf("LayerFor(b) = %d, want %d", got, tt.pin)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Errorf("AssignLayers() error = %v, want INVALID_OPTION", err)
			}
		})
	}
}

func TestPlaceNodes(t *testing.T) {
	g, s := build([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"a", "c"}})
	g.Children[0].Height = 50
	l, _ := AssignLayers(s)
	PlaceNodes(l, Spacing{Node: 20, Layer: 60})

	a, b, c := g.Children[0], g.Children[1], g.Children[2]
	if a.X != 0 || a.Y != 0 {
		t.Errorf("a = (%v,%v), want (0,0)", a.X, a.Y)
	}
	if b.X != 0 || b.Y != 110 {
		t.Errorf("b = (%v,%v), want (0,110)", b.X, b.Y)
	}
	if c.X != 60 || c.Y != 110 {
		t.Errorf("c = (%v,%v), want (60,110)", c.X, c.Y)
	}
}

func TestPlaceNodes_SkipsFixed(t *testing.T) {
	g, s := build([]string{"a", "b", "c"}, nil)
	g.Children[0].X, g.Children[0].Y = 500, 100
	g.Children[0].Props()[graph.PropConstraintFixed] = true
	l, _ := AssignLayers(s)
	PlaceNodes(l, Spacing{Node: 20, Layer: 60})
	if a := g.Children[0]; a.X != 500 || a.Y != 100 {
		t.Errorf("fixed node moved to (%v,%v)", a.X, a.Y)
	}
	if b := g.Children[1]; b.X != 0 {
		t.Errorf("b.X = %v, want 0", b.X)
	}
}

func TestLayoutScope_Directions(t *testing.T) {
	tests := []struct {
		dir          string
		wantB        [2]float64 // position of b
		wantW, wantH float64    // size of a after layout
	}{
		{"DOWN", [2]float64{0, 80}, 40, 20},
		{"UP", [2]float64{0, 0}, 40, 20},
		{"RIGHT", [2]float64{100, 0}, 40, 20},
		{"LEFT", [2]float64{0, 0}, 40, 20},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			g, _ := build([]string{"a", "b"}, [][2]string{{"a", "b"}})
			opts, _ := graph.NewLayoutOptions(map[string]any{graph.KeyDirection: tt.dir})
			s := graph.RootScope(g, opts)
			if err := New().LayoutScope(context.Background(), s); err != nil {
				t.Fatalf("LayoutScope() error = %v", err)
			}
			a, b := g.Children[0], g.Children[1]
			if b.X != tt.wantB[0] || b.Y != tt.wantB[1] {
				t.Errorf("b = (%v,%v), want %v", b.X, b.Y, tt.wantB)
			}
			if a.Width != tt.wantW || a.Height != tt.wantH {
				t.Errorf("a size = %vx%v, want %vx%v", a.Width, a.Height, tt.wantW, tt.wantH)
			}
			sec := g.Edges[0].Sections
			if len(sec) != 1 {
				t.Fatalf("sections = %d, want 1", len(sec))
			}
		})
	}
}

func TestLayoutScope_Routing(t *testing.T) {
	tests := []struct {
		routing   string
		wantBends int
	}{
		{"POLYLINE", 0},
		{"ORTHOGONAL", 2},
		{"SPLINES", 10},
	}
	for _, tt := range tests {
		t.Run(tt.routing, func(t *testing.T) {
			g, _ := build([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"a", "c"}})
			opts, _ := graph.NewLayoutOptions(map[string]any{graph.KeyEdgeRouting: tt.routing})
			if err := New().LayoutScope(context.Background(), graph.RootScope(g, opts)); err != nil {
				t.Fatalf("LayoutScope() error = %v", err)
			}
			// a->c is the edge with a horizontal offset
			sec := g.Edges[1].Sections[0]
			if len(sec.BendPoints) != tt.wantBends {
				t.Errorf("bends = %d, want %d", len(sec.BendPoints), tt.wantBends)
			}
			a, c := g.Children[0], g.Children[2]
			if sec.StartPoint.X != a.X+a.Width/2 || sec.StartPoint.Y != a.Y+a.Height {
				t.Errorf("start = %+v, want bottom centre of a", sec.StartPoint)
			}
			if sec.EndPoint.X != c.X+c.Width/2 || sec.EndPoint.Y != c.Y {
				t.Errorf("end = %+v, want top centre of c", sec.EndPoint)
			}
			if sec.IncomingShape != "a" || sec.OutgoingShape != "c" {
				t.Errorf("shapes = %s/%s, want a/c", sec.IncomingShape, sec.OutgoingShape)
			}
		})
	}
}

func TestLayoutScope_SelfLoop(t *testing.T) {
	g, _ := build([]string{"a"}, [][2]string{{"a", "a"}})
	if err := New().LayoutScope(context.Background(), graph.RootScope(g, nil)); err != nil {
		t.Fatalf("LayoutScope() error = %v", err)
	}
	sec := g.Edges[0].Sections[0]
	a := g.Children[0]
	if sec.StartPoint.X != a.Width || sec.EndPoint.X != a.Width {
		t.Errorf("loop ends at x=%v/%v, want east side %v", sec.StartPoint.X, sec.EndPoint.X, a.Width)
	}
	if len(sec.BendPoints) != 2 || sec.BendPoints[0].X != a.Width+graph.DefaultSelfLoopOffset {
		t.Errorf("loop bends = %+v", sec.BendPoints)
	}
}

func TestLayoutScope_PortsResolvedBeforeRouting(t *testing.T) {
	g, _ := build([]string{"a", "b"}, nil)
	g.Children[0].AddPort(graph.NewPort("a.out", 20, 20))
	g.Edges = []*graph.Edge{graph.NewEdge("e", "a.out", "b")}
	if err := New().LayoutScope(context.Background(), graph.RootScope(g, nil)); err != nil {
		t.Fatalf("LayoutScope() error = %v", err)
	}
	p := g.Children[0].Ports[0]
	if p.Side != graph.PortSideSouth {
		t.Fatalf("port side = %v, want SOUTH", p.Side)
	}
	sec := g.Edges[0].Sections[0]
	if sec.StartPoint.X != p.X || sec.StartPoint.Y != p.Y {
		t.Errorf("start = %+v, want port (%v,%v)", sec.StartPoint, p.X, p.Y)
	}
}

func TestLayoutScope_Observe(t *testing.T) {
	g, _ := build([]string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
	var got Stats
	alg := &Algorithm{Observe: func(s Stats) { got = s }}
	if err := alg.LayoutScope(context.Background(), graph.RootScope(g, nil)); err != nil {
		t.Fatalf("LayoutScope() error = %v", err)
	}
	if got.Reversed != 1 || got.Layers != 2 || got.Nodes != 2 || got.Scope != "g" {
		t.Errorf("Stats = %+v", got)
	}
}

func TestLayoutScope_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, s := build([]string{"a"}, nil)
	if err := New().LayoutScope(ctx, s); err != context.Canceled {
		t.Errorf("LayoutScope() error = %v, want context.Canceled", err)
	}
}
