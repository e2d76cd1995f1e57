package route

import (
	"strings"

	"github.com/matzehuels/strata/pkg/geometry"
	"github.com/matzehuels/strata/pkg/graph"
)

// SelfLoopStyle configures loops from a node back to itself.
type SelfLoopStyle struct {
	Side    graph.PortSide
	Offset  float64
	Splines bool
	Curve   Style
}

// SelfLoopStyleFrom reads elk.selfLoopSide, elk.selfLoopOffset and
// elk.selfLoopRouting. An unknown side falls back to EAST.
func SelfLoopStyleFrom(opts *graph.LayoutOptions) SelfLoopStyle {
	side, err := graph.ParsePortSide(opts.Text(graph.KeySelfLoopSide, "EAST"))
	if err != nil || side == graph.PortSideUndefined {
		side = graph.PortSideEast
	}
	routing := strings.ToUpper(opts.Text(graph.KeySelfLoopRouting, "ORTHOGONAL"))
	return SelfLoopStyle{
		Side:    side,
		Offset:  opts.Float(graph.KeySelfLoopOffset, graph.DefaultSelfLoopOffset),
		Splines: routing == "SPLINES" || routing == "SPLINE",
		Curve:   StyleFrom(opts),
	}
}

// Route gives e a loop section leaving and re-entering the configured side
// of its node. Ports named by the edge are used as the loop's ends.
func (ls SelfLoopStyle) Route(s *graph.Scope, e *graph.Edge) {
	n, _, sp, dp, ok := s.Endpoints(e)
	if !ok {
		return
	}
	a, b := loopEnds(n, ls.Side)
	if p, found := s.Port(sp); found {
		a = PortPoint(n, p)
	}
	if p, found := s.Port(dp); found {
		b = PortPoint(n, p)
	}
	out := outward(ls.Side).Scale(ls.Offset)
	var bends []geometry.Point
	if ls.Splines {
		c1 := a.Add(out.Scale(2))
		c2 := b.Add(out.Scale(2))
		pts := geometry.CalculateCurve(a, b, c1, c2, max(ls.Curve.Segments, 3))
		bends = append(bends, pts[1:len(pts)-1]...)
	} else {
		bends = []geometry.Point{a.Add(out), b.Add(out)}
	}
	e.Sections = []*graph.EdgeSection{{
		ID:            e.ID + "_s0",
		StartPoint:    a,
		EndPoint:      b,
		BendPoints:    bends,
		IncomingShape: n.ID,
		OutgoingShape: n.ID,
	}}
	PlaceLabels(e)
}

// loopEnds returns two points at one and two thirds along the given side.
func loopEnds(n *graph.Node, side graph.PortSide) (geometry.Point, geometry.Point) {
	switch side {
	case graph.PortSideNorth:
		return geometry.Pt(n.X+n.Width/3, n.Y), geometry.Pt(n.X+2*n.Width/3, n.Y)
	case graph.PortSideSouth:
		return geometry.Pt(n.X+n.Width/3, n.Y+n.Height), geometry.Pt(n.X+2*n.Width/3, n.Y+n.Height)
	case graph.PortSideWest:
		return geometry.Pt(n.X, n.Y+n.Height/3), geometry.Pt(n.X, n.Y+2*n.Height/3)
	default:
		return geometry.Pt(n.X+n.Width, n.Y+n.Height/3), geometry.Pt(n.X+n.Width, n.Y+2*n.Height/3)
	}
}

func outward(side graph.PortSide) geometry.Vector {
	switch side {
	case graph.PortSideNorth:
		return geometry.Vec(0, -1)
	case graph.PortSideSouth:
		return geometry.Vec(0, 1)
	case graph.PortSideWest:
		return geometry.Vec(-1, 0)
	default:
		return geometry.Vec(1, 0)
	}
}
