package force

import (
	"context"
	"testing"

	"github.com/matzehuels/strata/pkg/graph"
)

func triangle(seed int) (*graph.Graph, *graph.Scope) {
	g := &graph.Graph{ID: "g"}
	for _, id := range []string{"a", "b", "c", "d"} {
		g.Children = append(g.Children, &graph.Node{ID: id, Width: 30, Height: 20})
	}
	g.Edges = []*graph.Edge{
		graph.NewEdge("ab", "a", "b"),
		graph.NewEdge("bc", "b", "c"),
		graph.NewEdge("ca", "c", "a"),
	}
	opts, _ := graph.NewLayoutOptions(map[string]any{graph.KeyRandomSeed: seed, graph.KeyForceIterations: 100})
	return g, graph.RootScope(g, opts)
}

func TestLayoutScopeDeterministic(t *testing.T) {
	g1, s1 := triangle(7)
	g2, s2 := triangle(7)
	if err := New().LayoutScope(context.Background(), s1); err != nil {
		t.Fatalf("LayoutScope() error = %v", err)
	}
	if err := New().LayoutScope(context.Background(), s2); err != nil {
		t.Fatalf("LayoutScope() error = %v", err)
	}
	for i := range g1.Children {
		a, b := g1.Children[i], g2.Children[i]
		if a.X != b.X || a.Y != b.Y {
			t.Errorf("node %s differs between runs: (%v,%v) vs (%v,%v)", a.ID, a.X, a.Y, b.X, b.Y)
		}
	}
}

func TestLayoutScopeSeparatesNodes(t *testing.T) {
	g, s := triangle(3)
	if err := New().LayoutScope(context.Background(), s); err != nil {
		t.Fatalf("LayoutScope() error = %v", err)
	}
	minX, minY := g.Children[0].X, g.Children[0].Y
	for i, a := range g.Children {
		minX, minY = min(minX, a.X), min(minY, a.Y)
		for _, b := range g.Children[i+1:] {
			if a.Center().Distance(b.Center()) < 1 {
				t.Errorf("%s and %s collapsed onto each other", a.ID, b.ID)
			}
		}
	}
	if minX != 0 || minY != 0 {
		t.Errorf("layout not anchored at origin: min (%v,%v)", minX, minY)
	}
	for _, e := range g.Edges {
		if len(e.Sections) != 1 {
			t.Errorf("edge %s has %d sections", e.ID, len(e.Sections))
		}
	}
}

func TestLayoutScopeFixed(t *testing.T) {
	g, s := triangle(1)
	a := g.Children[0]
	a.X, a.Y = 500, 500
	a.Props()[graph.PropConstraintFixed] = true
	if err := New().LayoutScope(context.Background(), s); err != nil {
		t.Fatalf("LayoutScope() error = %v", err)
	}
	if a.X != 500 || a.Y != 500 {
		t.Errorf("fixed node moved to (%v,%v)", a.X, a.Y)
	}
}
