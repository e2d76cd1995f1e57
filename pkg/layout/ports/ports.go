package ports

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout/route"
)

// Option values.
const (
	ConstraintsFixedPos = "FIXED_POS"
	AssignPosition      = "POSITION"
	AssignFlow          = "FLOW"
	OrderIndex          = "INDEX"
	OrderPosition       = "POSITION"
)

// Degree counts how often a port is used as an edge source and target.
type Degree struct{ Out, In int }

// Usage maps port ids to their degree.
type Usage map[string]Degree

// CountUsage tallies port usage over edges.
func CountUsage(edges []*graph.Edge) Usage {
	u := make(Usage)
	for _, e := range edges {
		for _, id := range e.Sources {
			d := u[id]
			d.Out++
			u[id] = d
		}
		for _, id := range e.Targets {
			d := u[id]
			d.In++
			u[id] = d
		}
	}
	return u
}

// Process resolves the ports of every node in g. Options are inherited down
// the hierarchy starting from g's options over defaults.
func Process(g *graph.Graph, defaults *graph.LayoutOptions) {
	usage := CountUsage(graph.AllEdges(g))
	root := g.LayoutOptions.Inherit(defaults)
	effective := make(map[*graph.Node]*graph.LayoutOptions)
	_ = graph.Walk(g, func(n, parent *graph.Node, _ int) error {
		base := root
		if parent != nil {
			base = effective[parent]
		}
		opts := n.LayoutOptions.Inherit(base)
		effective[n] = opts
		ProcessNode(n, opts, usage)
		return nil
	})
}

// ProcessNode resolves the ports of n. It is a no-op for nodes without
// ports or with zero width or height.
func ProcessNode(n *graph.Node, opts *graph.LayoutOptions, usage Usage) {
	if len(n.Ports) == 0 || n.Width == 0 || n.Height == 0 {
		return
	}
	if strings.EqualFold(opts.Text(graph.KeyPortConstraints, ""), ConstraintsFixedPos) {
		return
	}
	flow := strings.EqualFold(opts.Text(graph.KeyPortSideAssignment, AssignPosition), AssignFlow)
	byIndex := !strings.EqualFold(opts.Text(graph.KeyPortOrdering, OrderIndex), OrderPosition)
	in, out := route.FlowSides(opts.FlowDirection())

	for _, p := range n.Ports {
		if p.Side != graph.PortSideUndefined {
			continue
		}
		if flow {
			d := usage[p.ID]
			switch {
			case d.Out > d.In:
				p.Side = out
				continue
			case d.In > d.Out:
				p.Side = in
				continue
			}
		}
		p.Side = DetectSide(p, n.Width, n.Height)
	}

	groups := Group(n.Ports)
	for _, side := range graph.PortSides {
		ps, ok := groups[side]
		if !ok {
			continue
		}
		ordered := Order(side, ps, byIndex)
		Position(side, ordered, n.Width, n.Height)
	}
}

// DetectSide returns the side of a w×h node closest to p's position. An
// explicit side is returned unchanged.
func DetectSide(p *graph.Port, w, h float64) graph.PortSide {
	if p.Side != graph.PortSideUndefined {
		return p.Side
	}
	relX, relY := p.X/w, p.Y/h
	dist := map[graph.PortSide]float64{
		graph.PortSideNorth: relY,
		graph.PortSideSouth: 1 - relY,
		graph.PortSideWest:  relX,
		graph.PortSideEast:  1 - relX,
	}
	best := graph.PortSideNorth
	for _, side := range graph.PortSides[1:] {
		if dist[side] < dist[best] {
			best = side
		}
	}
	return best
}

// Group partitions ports by side, keeping declaration order. Sides without
// ports are absent.
func Group(ports []*graph.Port) map[graph.PortSide][]*graph.Port {
	g := make(map[graph.PortSide][]*graph.Port)
	for _, p := range ports {
		g[p.Side] = append(g[p.Side], p)
	}
	return g
}

// along returns the coordinate that varies along side.
func along(side graph.PortSide, p *graph.Port) float64 {
	if side.IsHorizontal() {
		return p.X
	}
	return p.Y
}

// Order returns the ports of one side in their final order and rewrites
// their indices to 0..n-1. Explicitly indexed ports are merged with the
// position-sorted rest: slot k takes the next explicit port when its index
// is at most k or no other port remains. With byIndex false every port is
// ordered by position.
func Order(side graph.PortSide, ports []*graph.Port, byIndex bool) []*graph.Port {
	var explicit, implicit []*graph.Port
	for _, p := range ports {
		if byIndex && p.HasIndex() {
			explicit = append(explicit, p)
		} else {
			implicit = append(implicit, p)
		}
	}
	slices.SortStableFunc(explicit, func(a, b *graph.Port) int { return cmp.Compare(a.Index, b.Index) })
	slices.SortStableFunc(implicit, func(a, b *graph.Port) int { return cmp.Compare(along(side, a), along(side, b)) })

	out := make([]*graph.Port, 0, len(ports))
	i, j := 0, 0
	for k := 0; k < len(ports); k++ {
		if i < len(explicit) && (explicit[i].Index <= k || j == len(implicit)) {
			out = append(out, explicit[i])
			i++
		} else {
			out = append(out, implicit[j])
			j++
		}
	}
	for k, p := range out {
		p.Index = k
	}
	return out
}

// Position spreads ordered ports evenly along side of a w×h node.
func Position(side graph.PortSide, ordered []*graph.Port, w, h float64) {
	n := float64(len(ordered))
	for k, p := range ordered {
		frac := float64(k+1) / (n + 1)
		switch side {
		case graph.PortSideNorth:
			p.X, p.Y = w*frac, 0
		case graph.PortSideSouth:
			p.X, p.Y = w*frac, h
		case graph.PortSideWest:
			p.X, p.Y = 0, h*frac
		case graph.PortSideEast:
			p.X, p.Y = w, h*frac
		}
		p.Offset = along(side, p)
	}
}
