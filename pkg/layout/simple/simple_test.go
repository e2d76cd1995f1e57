package simple

import (
	"context"
	"testing"

	"github.com/matzehuels/strata/pkg/graph"
)

func scope(n int, opts map[string]any) (*graph.Graph, *graph.Scope) {
	g := &graph.Graph{ID: "g"}
	for i := 0; i < n; i++ {
		g.Children = append(g.Children, &graph.Node{ID: string(rune('a' + i)), X: float64(i * 7), Y: 3, Width: 40, Height: 20})
	}
	if n > 1 {
		g.Edges = []*graph.Edge{graph.NewEdge("e", "a", "b")}
	}
	o, _ := graph.NewLayoutOptions(opts)
	return g, graph.RootScope(g, o)
}

func TestFixedKeepsPositions(t *testing.T) {
	g, s := scope(3, nil)
	if err := (Fixed{}).LayoutScope(context.Background(), s); err != nil {
		t.Fatalf("LayoutScope() error = %v", err)
	}
	for i, n := range g.Children {
		if n.X != float64(i*7) || n.Y != 3 {
			t.Errorf("%s moved to (%v,%v)", n.ID, n.X, n.Y)
		}
	}
	if len(g.Edges[0].Sections) != 1 {
		t.Errorf("edge not routed")
	}
}

func TestBoxRows(t *testing.T) {
	g, s := scope(6, map[string]any{graph.KeySpacingNodeNode: 10})
	if err := (Box{}).LayoutScope(context.Background(), s); err != nil {
		t.Fatalf("LayoutScope() error = %v", err)
	}
	rows := map[float64]int{}
	for _, n := range g.Children {
		rows[n.Y]++
	}
	if len(rows) < 2 {
		t.Errorf("box layout used %d rows, want at least 2", len(rows))
	}
	for i := 1; i < len(g.Children); i++ {
		prev, cur := g.Children[i-1], g.Children[i]
		if cur.Y == prev.Y && cur.X < prev.X+prev.Width+10 {
			t.Errorf("%s overlaps %s", cur.ID, prev.ID)
		}
	}
}

func TestRandomDeterministic(t *testing.T) {
	g1, s1 := scope(5, map[string]any{graph.KeyRandomSeed: 42})
	g2, s2 := scope(5, map[string]any{graph.KeyRandomSeed: 42})
	_ = (Random{}).LayoutScope(context.Background(), s1)
	_ = (Random{}).LayoutScope(context.Background(), s2)
	for i := range g1.Children {
		a, b := g1.Children[i], g2.Children[i]
		if a.X != b.X || a.Y != b.Y {
			t.Errorf("node %s: (%v,%v) != (%v,%v)", a.ID, a.X, a.Y, b.X, b.Y)
		}
		if a.X < 0 || a.Y < 0 {
			t.Errorf("node %s at negative position", a.ID)
		}
	}
}
