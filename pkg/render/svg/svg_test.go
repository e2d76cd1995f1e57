package svg

import (
	"strings"
	"testing"

	"github.com/matzehuels/strata/pkg/geometry"
	"github.com/matzehuels/strata/pkg/graph"
)

func laidOut() *graph.Graph {
	inner := &graph.Node{ID: "inner", X: 12, Y: 12, Width: 40, Height: 20}
	box := &graph.Node{ID: "box", X: 100, Y: 50, Width: 64, Height: 44, Children: []*graph.Node{inner}}
	a := &graph.Node{ID: "a<b>", Width: 40, Height: 20, Labels: []*graph.Label{{Text: "Alpha"}}}
	a.AddPort(&graph.Port{ID: "p", X: 40, Y: 10, Side: graph.PortSideEast, Index: 0})
	e := graph.NewEdge("e", "p", "inner")
	e.Sections = []*graph.EdgeSection{{
		ID:         "e_s0",
		StartPoint: geometry.Pt(40, 10),
		BendPoints: []geometry.Point{geometry.Pt(70, 10), geometry.Pt(70, 72)},
		EndPoint:   geometry.Pt(112, 72),
	}}
	inside := graph.NewEdge("f", "inner", "inner")
	inside.Sections = []*graph.EdgeSection{{ID: "f_s0", StartPoint: geometry.Pt(52, 20), EndPoint: geometry.Pt(52, 25)}}
	box.Edges = []*graph.Edge{inside}
	return &graph.Graph{ID: "g", Width: 164, Height: 94, Children: []*graph.Node{a, box}, Edges: []*graph.Edge{e}}
}

func TestRender(t *testing.T) {
	out, err := Render(laidOut(), WithLabels())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	s := string(out)

	contains := []string{
		`viewBox="0 0 184.0 114.0"`,
		`id="node-a&lt;b&gt;" class="node"`,
		`id="node-box" class="container"`,
		// nested node in absolute coordinates
		`id="node-inner" class="node" x="112.00" y="62.00"`,
		`id="port-p" class="port" x="38.00" y="8.00"`,
		`points="40.00,10.00 70.00,10.00 70.00,72.00 112.00,72.00"`,
		// sections of edges inside a container are relative to it
		`points="152.00,70.00 152.00,75.00"`,
		`>Alpha</text>`,
	}
	for _, want := range contains {
		if !strings.Contains(s, want) {
			t.Errorf("Render() output missing %q\nGot: %s", want, s)
		}
	}
	if !strings.HasSuffix(s, "</svg>\n") {
		t.Error("Render() output not closed")
	}
}

func TestRenderOptions(t *testing.T) {
	out, err := Render(laidOut(), WithoutPorts(), WithMargin(0))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	s := string(out)
	if strings.Contains(s, `class="port"`) {
		t.Error("WithoutPorts() still drew ports")
	}
	if strings.Contains(s, "<text") {
		t.Error("labels drawn without WithLabels()")
	}
	if !strings.Contains(s, `viewBox="0 0 164.0 94.0"`) {
		t.Errorf("WithMargin(0) viewBox wrong: %s", s)
	}
}

func TestRenderDuplicateIDs(t *testing.T) {
	g := &graph.Graph{Children: []*graph.Node{{ID: "x"}, {ID: "x"}}}
	if _, err := Render(g); err == nil {
		t.Error("Render() with duplicate ids succeeded")
	}
}
