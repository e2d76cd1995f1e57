// Package simple provides the layouts that need no graph structure: fixed,
// box and random. Edges are routed as straight segments.
package simple

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout/ports"
	"github.com/matzehuels/strata/pkg/layout/route"
)

// Algorithm ids.
const (
	NameFixed  = "fixed"
	NameBox    = "box"
	NameRandom = "random"
)

// DefaultAspectRatio is the target width/height ratio of box layouts.
const DefaultAspectRatio = 1.6

func finish(s *graph.Scope) {
	usage := ports.CountUsage(s.Edges)
	for _, n := range s.Nodes {
		ports.ProcessNode(n, n.LayoutOptions.Inherit(s.Options), usage)
	}
	route.Straight(s)
}

// Fixed keeps every node where the caller put it.
type Fixed struct{}

func (Fixed) Name() string { return NameFixed }

func (Fixed) LayoutScope(ctx context.Context, s *graph.Scope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	finish(s)
	return nil
}

// Box packs nodes into rows in declaration order, breaking a row when it
// would exceed the width that gives the packing roughly DefaultAspectRatio.
type Box struct{}

func (Box) Name() string { return NameBox }

func (Box) LayoutScope(ctx context.Context, s *graph.Scope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	spacing := s.Options.Float(graph.KeySpacingNodeNode, graph.DefaultNodeSpacing)
	aspect := s.Options.Float("box.aspectRatio", DefaultAspectRatio)

	area, widest := 0.0, 0.0
	for _, n := range s.Nodes {
		if n.IsFixed() {
			continue
		}
		area += (n.Width + spacing) * (n.Height + spacing)
		widest = max(widest, n.Width)
	}
	rowWidth := max(widest, math.Sqrt(area*aspect))

	x, y, rowHeight := 0.0, 0.0, 0.0
	for _, n := range s.Nodes {
		if n.IsFixed() {
			continue
		}
		if x > 0 && x+n.Width > rowWidth {
			x = 0
			y += rowHeight + spacing
			rowHeight = 0
		}
		n.X, n.Y = x, y
		x += n.Width + spacing
		rowHeight = max(rowHeight, n.Height)
	}
	finish(s)
	return nil
}

// Random scatters nodes uniformly over a square large enough to hold them.
// The randomSeed option makes the result reproducible.
type Random struct{}

func (Random) Name() string { return NameRandom }

func (Random) LayoutScope(ctx context.Context, s *graph.Scope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seed := uint64(s.Options.Int(graph.KeyRandomSeed, 1))
	spacing := s.Options.Float(graph.KeySpacingNodeNode, graph.DefaultNodeSpacing)
	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))

	area := 0.0
	for _, n := range s.Nodes {
		area += (n.Width + spacing) * (n.Height + spacing)
	}
	side := math.Sqrt(4 * area)
	for _, n := range s.Nodes {
		if n.IsFixed() {
			continue
		}
		n.X = rng.Float64() * max(0, side-n.Width)
		n.Y = rng.Float64() * max(0, side-n.Height)
	}
	finish(s)
	return nil
}
