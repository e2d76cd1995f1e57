// Package force implements a Fruchterman-Reingold force-directed layout for
// one flat level.
//
// Nodes start on a circle perturbed by simplex noise, then repel each other
// with k²/d and are pulled together along edges with d²/k, where k is the
// ideal edge length derived from the total node area. Movement per
// iteration is capped by a temperature that cools linearly to zero. The
// result is deterministic for a given randomSeed.
package force

import (
	"context"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/strata/pkg/geometry"
	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout/ports"
	"github.com/matzehuels/strata/pkg/layout/route"
)

// Name is the algorithm id.
const Name = "force"

// DefaultIterations is used when force.iterations is unset.
const DefaultIterations = 300

// Algorithm is the force-directed layout. The zero value is ready to use.
type Algorithm struct{}

// New returns a force-directed algorithm.
func New() *Algorithm { return &Algorithm{} }

// Name returns "force".
func (a *Algorithm) Name() string { return Name }

// LayoutScope positions the children of s. Fixed nodes exert forces but do
// not move. The context is checked between iterations.
func (a *Algorithm) LayoutScope(ctx context.Context, s *graph.Scope) error {
	n := len(s.Nodes)
	if n == 0 {
		return nil
	}
	opts := s.Options
	iterations := opts.Int(graph.KeyForceIterations, DefaultIterations)
	seed := int64(opts.Int(graph.KeyRandomSeed, 1))
	spacing := opts.Float(graph.KeySpacingNodeNode, graph.DefaultNodeSpacing)

	area := 0.0
	for _, nd := range s.Nodes {
		area += (nd.Width + spacing) * (nd.Height + spacing)
	}
	k := math.Sqrt(4 * area / float64(n))

	pos := initial(s.Nodes, k, seed)
	idx := make(map[*graph.Node]int, n)
	for i, nd := range s.Nodes {
		idx[nd] = i
	}
	var springs [][2]int
	for _, e := range s.Edges {
		for _, p := range s.Pairs(e) {
			if p.Source != p.Target {
				springs = append(springs, [2]int{idx[p.Source], idx[p.Target]})
			}
		}
	}

	disp := make([]geometry.Vector, n)
	temp := k * math.Sqrt(float64(n))
	cool := temp / float64(max(iterations, 1))
	for it := 0; it < iterations; it++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		clear(disp)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				d := pos[i].Sub(pos[j])
				dist := math.Max(0.1, d.Magnitude())
				f := d.Normalize().Scale(k * k / dist)
				if d.IsZero() {
					f = geometry.Vec(k, 0)
				}
				disp[i] = disp[i].Add(f)
				disp[j] = disp[j].Sub(f)
			}
		}
		for _, sp := range springs {
			d := pos[sp[1]].Sub(pos[sp[0]])
			dist := math.Max(0.1, d.Magnitude())
			f := d.Normalize().Scale(dist * dist / k)
			disp[sp[0]] = disp[sp[0]].Add(f)
			disp[sp[1]] = disp[sp[1]].Sub(f)
		}
		for i, nd := range s.Nodes {
			if nd.IsFixed() {
				continue
			}
			m := disp[i].Magnitude()
			if m < geometry.Epsilon {
				continue
			}
			pos[i] = pos[i].Add(disp[i].Scale(math.Min(m, temp) / m))
		}
		temp = math.Max(0, temp-cool)
	}

	apply(s.Nodes, pos)
	usage := ports.CountUsage(s.Edges)
	for _, nd := range s.Nodes {
		ports.ProcessNode(nd, nd.LayoutOptions.Inherit(opts), usage)
	}
	route.Straight(s)
	return nil
}

// initial places node centres on a circle of radius k·n/2π with simplex
// noise jitter. Fixed nodes start where they are.
func initial(nodes []*graph.Node, k float64, seed int64) []geometry.Point {
	noise := opensimplex.New(seed)
	n := float64(len(nodes))
	radius := k * n / (2 * math.Pi)
	pos := make([]geometry.Point, len(nodes))
	for i, nd := range nodes {
		if nd.IsFixed() {
			pos[i] = nd.Center()
			continue
		}
		angle := 2 * math.Pi * float64(i) / n
		jx := noise.Eval2(float64(i)*0.37, 0) * k / 2
		jy := noise.Eval2(float64(i)*0.37, 100) * k / 2
		pos[i] = geometry.Pt(radius*math.Cos(angle)+jx, radius*math.Sin(angle)+jy)
	}
	return pos
}

// apply writes centres back as top-left corners, translated so the movable
// nodes start at the origin.
func apply(nodes []*graph.Node, pos []geometry.Point) {
	minX, minY := math.Inf(1), math.Inf(1)
	for i, nd := range nodes {
		if nd.IsFixed() {
			continue
		}
		minX = math.Min(minX, pos[i].X-nd.Width/2)
		minY = math.Min(minY, pos[i].Y-nd.Height/2)
	}
	if math.IsInf(minX, 1) {
		return
	}
	for i, nd := range nodes {
		if nd.IsFixed() {
			continue
		}
		nd.X = pos[i].X - nd.Width/2 - minX
		nd.Y = pos[i].Y - nd.Height/2 - minY
	}
}
