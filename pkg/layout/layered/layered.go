package layered

import (
	"context"

	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout/ports"
	"github.com/matzehuels/strata/pkg/layout/route"
)

// Name is the algorithm id of the layered layout.
const Name = "layered"

// Stats summarizes one run over a scope.
type Stats struct {
	Scope    string
	Nodes    int
	Edges    int
	Reversed int
	Layers   int
}

// Algorithm is the layered layout for one flat level. The zero value is
// ready to use.
type Algorithm struct {
	// Observe, if set, receives the statistics of every scope laid out.
	Observe func(Stats)
}

// New returns a layered algorithm.
func New() *Algorithm { return &Algorithm{} }

// Name returns "layered".
func (a *Algorithm) Name() string { return Name }

// LayoutScope lays out the direct children of s and routes the edges
// between them: cycles are broken, layers assigned, nodes placed in the
// flow direction, ports resolved and edges routed.
func (a *Algorithm) LayoutScope(ctx context.Context, s *graph.Scope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	reversed := BreakCycles(s)
	layers, err := AssignLayers(s)
	if err != nil {
		return err
	}

	dir := s.Options.FlowDirection()
	toFlowFrame(s.Nodes, dir)
	PlaceNodes(layers, SpacingFrom(s.Options))
	fromFlowFrame(s.Nodes, dir)

	usage := ports.CountUsage(s.Edges)
	for _, n := range s.Nodes {
		ports.ProcessNode(n, n.LayoutOptions.Inherit(s.Options), usage)
	}
	Route(s)

	if a.Observe != nil {
		a.Observe(Stats{
			Scope:    s.ID(),
			Nodes:    len(s.Nodes),
			Edges:    len(s.Edges),
			Reversed: len(reversed),
			Layers:   layers.Len(),
		})
	}
	return nil
}

// Route gives every edge of s a single section. Edges leave their source on
// the downstream side and enter their target on the upstream side, unless
// they name ports. Bend points follow the scope's edgeRouting.
func Route(s *graph.Scope) {
	style := route.StyleFrom(s.Options)
	loops := route.SelfLoopStyleFrom(s.Options)
	for _, e := range s.Edges {
		if s.IsSelfLoop(e) {
			loops.Route(s, e)
			continue
		}
		src, dst, start, end, ok := route.Anchors(s, e, style.Direction)
		if !ok {
			continue
		}
		e.Sections = []*graph.EdgeSection{style.Section(e, src, dst, start, end)}
		route.PlaceLabels(e)
	}
}
