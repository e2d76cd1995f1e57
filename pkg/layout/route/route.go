// Package route builds edge sections from node geometry.
//
// Every helper works in the coordinate frame of one [graph.Scope]: node
// positions are those of the scope's direct children and port positions are
// offset by their owner's position. Algorithms choose where edges leave and
// enter nodes; this package turns that choice into an [graph.EdgeSection].
package route

import (
	"github.com/matzehuels/strata/pkg/geometry"
	"github.com/matzehuels/strata/pkg/graph"
)

// Style selects how bend points are generated between two anchors.
type Style struct {
	Routing   graph.EdgeRouting
	Direction graph.Direction
	Curvature float64
	Segments  int
}

// StyleFrom reads the routing options of a scope.
func StyleFrom(opts *graph.LayoutOptions) Style {
	return Style{
		Routing:   opts.Routing(graph.EdgeRoutingOrthogonal),
		Direction: opts.FlowDirection(),
		Curvature: opts.Float(graph.KeySplineCurvature, graph.DefaultSplineCurvature),
		Segments:  opts.Int(graph.KeySplineSegments, graph.DefaultSplineSegments),
	}
}

// PortPoint returns the location of port p of n in n's parent frame.
func PortPoint(n *graph.Node, p *graph.Port) geometry.Point {
	return geometry.Pt(n.X+p.X, n.Y+p.Y)
}

// Outgoing returns the point where an edge leaves n when the layout flows
// in direction d: the centre of the side facing downstream.
func Outgoing(n *graph.Node, d graph.Direction) geometry.Point {
	return sideCenter(n, flowSides(d).out)
}

// Incoming returns the centre of the side of n facing upstream.
func Incoming(n *graph.Node, d graph.Direction) geometry.Point {
	return sideCenter(n, flowSides(d).in)
}

// Boundary returns the point where the segment from n's centre toward p
// crosses n's border, or the centre when p lies inside n.
func Boundary(n *graph.Node, toward geometry.Point) geometry.Point {
	r := n.Bounds()
	c := r.Center()
	if pt, ok := r.ClipSegment(c, toward); ok {
		return pt
	}
	return c
}

type sides struct{ in, out graph.PortSide }

func flowSides(d graph.Direction) sides {
	switch d {
	case graph.DirectionUp:
		return sides{in: graph.PortSideSouth, out: graph.PortSideNorth}
	case graph.DirectionRight:
		return sides{in: graph.PortSideWest, out: graph.PortSideEast}
	case graph.DirectionLeft:
		return sides{in: graph.PortSideEast, out: graph.PortSideWest}
	default:
		return sides{in: graph.PortSideNorth, out: graph.PortSideSouth}
	}
}

// FlowSides returns the sides edges enter and leave nodes on for direction d.
func FlowSides(d graph.Direction) (in, out graph.PortSide) {
	s := flowSides(d)
	return s.in, s.out
}

func sideCenter(n *graph.Node, side graph.PortSide) geometry.Point {
	switch side {
	case graph.PortSideNorth:
		return geometry.Pt(n.X+n.Width/2, n.Y)
	case graph.PortSideSouth:
		return geometry.Pt(n.X+n.Width/2, n.Y+n.Height)
	case graph.PortSideWest:
		return geometry.Pt(n.X, n.Y+n.Height/2)
	default:
		return geometry.Pt(n.X+n.Width, n.Y+n.Height/2)
	}
}

// Bends returns the interior points of a route from start to end.
func (s Style) Bends(start, end geometry.Point) []geometry.Point {
	switch s.Routing {
	case graph.EdgeRoutingPolyline:
		return nil
	case graph.EdgeRoutingSplines:
		var c1, c2 geometry.Point
		if s.Direction.IsVertical() {
			c1, c2 = geometry.VerticalControlPoints(start, end, s.Curvature)
		} else {
			c1, c2 = geometry.HorizontalControlPoints(start, end, s.Curvature)
		}
		pts := geometry.CalculateCurve(start, end, c1, c2, s.Segments)
		if len(pts) <= 2 {
			return nil
		}
		return append([]geometry.Point(nil), pts[1:len(pts)-1]...)
	default:
		if s.Direction.IsVertical() {
			if start.X == end.X {
				return nil
			}
			mid := (start.Y + end.Y) / 2
			return []geometry.Point{geometry.Pt(start.X, mid), geometry.Pt(end.X, mid)}
		}
		if start.Y == end.Y {
			return nil
		}
		mid := (start.X + end.X) / 2
		return []geometry.Point{geometry.Pt(mid, start.Y), geometry.Pt(mid, end.Y)}
	}
}

// Section builds the single section of e from start to end.
func (s Style) Section(e *graph.Edge, src, dst *graph.Node, start, end geometry.Point) *graph.EdgeSection {
	return &graph.EdgeSection{
		ID:            e.ID + "_s0",
		StartPoint:    start,
		EndPoint:      end,
		BendPoints:    s.Bends(start, end),
		IncomingShape: src.ID,
		OutgoingShape: dst.ID,
	}
}

// Anchors returns the start and end of e in scope s. Port endpoints use the
// port location; node endpoints use the flow sides for direction d.
func Anchors(s *graph.Scope, e *graph.Edge, d graph.Direction) (src, dst *graph.Node, start, end geometry.Point, ok bool) {
	src, dst, sp, dp, ok := s.Endpoints(e)
	if !ok {
		return nil, nil, geometry.Point{}, geometry.Point{}, false
	}
	if p, found := s.Port(sp); found {
		start = PortPoint(src, p)
	} else {
		start = Outgoing(src, d)
	}
	if p, found := s.Port(dp); found {
		end = PortPoint(dst, p)
	} else {
		end = Incoming(dst, d)
	}
	return src, dst, start, end, true
}

// Straight routes every edge of s as a straight segment between the node
// borders, or between ports where the edge names them. Self loops are routed
// with SelfLoop. Used by algorithms without a flow direction.
func Straight(s *graph.Scope) {
	loops := SelfLoopStyleFrom(s.Options)
	for _, e := range s.Edges {
		if s.IsSelfLoop(e) {
			loops.Route(s, e)
			continue
		}
		src, dst, sp, dp, ok := s.Endpoints(e)
		if !ok {
			continue
		}
		var start, end geometry.Point
		sPort, sOK := s.Port(sp)
		dPort, dOK := s.Port(dp)
		switch {
		case sOK && dOK:
			start, end = PortPoint(src, sPort), PortPoint(dst, dPort)
		case sOK:
			start = PortPoint(src, sPort)
			end = Boundary(dst, start)
		case dOK:
			end = PortPoint(dst, dPort)
			start = Boundary(src, end)
		default:
			start = Boundary(src, dst.Center())
			end = Boundary(dst, src.Center())
		}
		e.Sections = []*graph.EdgeSection{{
			ID:            e.ID + "_s0",
			StartPoint:    start,
			EndPoint:      end,
			IncomingShape: src.ID,
			OutgoingShape: dst.ID,
		}}
		PlaceLabels(e)
	}
}

// PlaceLabels centres e's labels on the midpoint of its first section,
// stacking multiple labels downward.
func PlaceLabels(e *graph.Edge) {
	if len(e.Sections) == 0 || len(e.Labels) == 0 {
		return
	}
	pts := e.Sections[0].Points()
	var mid geometry.Point
	if len(pts)%2 == 1 {
		mid = pts[len(pts)/2]
	} else {
		mid = pts[len(pts)/2-1].Midpoint(pts[len(pts)/2])
	}
	y := mid.Y
	for _, l := range e.Labels {
		l.X = mid.X - l.Width/2
		l.Y = y - l.Height/2
		y += l.Height + graph.DefaultLabelSpacing
	}
}
