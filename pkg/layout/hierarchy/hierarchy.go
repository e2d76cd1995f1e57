// Package hierarchy composes a flat layout algorithm over a nested graph.
//
// Levels are laid out bottom-up: every container is laid out after all of
// its descendants, so its children already have their final size when the
// container's own level is arranged. Each container is then padded and
// resized to fit its children. Edges whose endpoints live in different
// containers are routed last, across container borders.
package hierarchy

import (
	"context"

	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/geometry"
	"github.com/matzehuels/strata/pkg/graph"
)

// DefaultMaxDepth bounds the nesting depth accepted by a Processor.
const DefaultMaxDepth = 512

// Algorithm lays out one flat level.
type Algorithm interface {
	Name() string
	LayoutScope(ctx context.Context, s *graph.Scope) error
}

// Level describes one laid out level, reported to Processor.Observe.
type Level struct {
	Scope     string
	Algorithm string
	Depth     int
	Nodes     int
}

// Processor applies an algorithm at every nesting level of a graph.
type Processor struct {
	// Algorithm lays out levels that do not select another one.
	Algorithm Algorithm

	// Select, if set, resolves the algorithm option of a level to an
	// algorithm, allowing containers to override the root's choice.
	Select func(name string) (Algorithm, error)

	// Defaults are the options beneath the graph's own options.
	Defaults *graph.LayoutOptions

	// MaxDepth is the deepest nesting accepted; zero means DefaultMaxDepth.
	MaxDepth int

	Observe func(Level)
}

// Layout lays out g in place. Nesting deeper than MaxDepth is a
// GRAPH_TOO_DEEP error. When the effective hierarchical option is false only
// the top level is laid out and containers keep their contents as given.
func (p *Processor) Layout(ctx context.Context, g *graph.Graph) error {
	ix, err := graph.NewIndex(g)
	if err != nil {
		return err
	}
	limit := p.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}

	root := g.LayoutOptions.Inherit(p.Defaults)
	effective := make(map[*graph.Node]*graph.LayoutOptions, ix.Len())
	var containers []*graph.Node
	err = graph.Walk(g, func(n, parent *graph.Node, depth int) error {
		if depth >= limit {
			return errors.New(errors.ErrCodeGraphTooDeep,
				"node %q is nested %d levels deep, limit is %d", n.ID, depth+1, limit)
		}
		base := root
		if parent != nil {
			base = effective[parent]
		}
		effective[n] = n.LayoutOptions.Inherit(base)
		if n.IsHierarchical() {
			containers = append(containers, n)
		}
		return nil
	})
	if err != nil {
		return err
	}

	siblings := ix.SiblingEdges()
	if root.Bool(graph.KeyHierarchical, true) {
		// reverse pre-order visits every container after its descendants
		for i := len(containers) - 1; i >= 0; i-- {
			n := containers[i]
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.layoutContainer(ctx, g, n, effective[n], siblings[n], ix.Depth(n.ID)+1); err != nil {
				return err
			}
		}
	}

	if err := p.layoutRoot(ctx, g, root, siblings[nil]); err != nil {
		return err
	}
	HandleCrossHierarchyEdges(g, ix)
	return nil
}

func (p *Processor) algorithmFor(opts *graph.LayoutOptions) (Algorithm, error) {
	name := opts.AlgorithmName("")
	if name == "" || p.Select == nil || (p.Algorithm != nil && name == p.Algorithm.Name()) {
		if p.Algorithm == nil {
			return nil, errors.New(errors.ErrCodeInternal, "no layout algorithm configured")
		}
		return p.Algorithm, nil
	}
	return p.Select(name)
}

func (p *Processor) run(ctx context.Context, s *graph.Scope, depth int) error {
	alg, err := p.algorithmFor(s.Options)
	if err != nil {
		return err
	}
	if err := alg.LayoutScope(ctx, s); err != nil {
		return err
	}
	if p.Observe != nil {
		p.Observe(Level{Scope: s.ID(), Algorithm: alg.Name(), Depth: depth, Nodes: len(s.Nodes)})
	}
	return nil
}

func (p *Processor) layoutContainer(ctx context.Context, g *graph.Graph, n *graph.Node, opts *graph.LayoutOptions, adopted []*graph.Edge, depth int) error {
	pad, err := p.padding(n)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPadding, err, "node %q", n.ID)
	}
	s := graph.NodeScope(g, n, opts)
	s.Adopt(adopted)
	if err := p.run(ctx, s, depth); err != nil {
		return err
	}
	applyPadding(s, pad)
	bounds := CalculateChildrenBounds(n.Children)
	n.Width = bounds.Width + pad.Horizontal()
	n.Height = bounds.Height + pad.Vertical()
	return nil
}

// layoutRoot lays out the top level. The graph is padded only when it sets
// padding explicitly; its size always covers its children.
func (p *Processor) layoutRoot(ctx context.Context, g *graph.Graph, opts *graph.LayoutOptions, adopted []*graph.Edge) error {
	s := graph.RootScope(g, opts)
	s.Adopt(adopted)
	if err := p.run(ctx, s, 0); err != nil {
		return err
	}
	var pad geometry.Insets
	if g.LayoutOptions.Has(graph.KeyPadding) {
		var err error
		if pad, err = g.LayoutOptions.Padding(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPadding, err, "graph %q", g.ID)
		}
		applyPadding(s, pad)
	}
	bounds := CalculateChildrenBounds(g.Children)
	g.Width = max(0, bounds.Right()) + pad.Right
	g.Height = max(0, bounds.Bottom()) + pad.Bottom
	return nil
}

// GetPadding returns the padding n sets itself: a single number applies to
// all four sides, a map may set left, top, right and bottom individually,
// and every side not given defaults to 12. A Processor falls back to its
// Defaults before using the uniform default.
func GetPadding(n *graph.Node) (geometry.Insets, error) {
	return n.LayoutOptions.Padding()
}

// padding resolves the padding of container n: its own option, else the
// padding in Defaults, else the uniform default.
func (p *Processor) padding(n *graph.Node) (geometry.Insets, error) {
	if !n.LayoutOptions.Has(graph.KeyPadding) && p.Defaults.Has(graph.KeyPadding) {
		return p.Defaults.Padding()
	}
	return GetPadding(n)
}

// CalculateChildrenBounds returns the smallest rectangle covering children.
// No children yields the zero rectangle.
func CalculateChildrenBounds(children []*graph.Node) geometry.Rect {
	rects := make([]geometry.Rect, 0, len(children))
	for _, c := range children {
		rects = append(rects, c.Bounds())
	}
	r, _ := geometry.Bounds(rects)
	return r
}

// applyPadding moves the children of s, and the sections of the edges
// between them, so their bounding box starts at the padding corner. With
// placement starting at the origin this is exactly the padding offset.
// Fixed children keep their position.
func applyPadding(s *graph.Scope, pad geometry.Insets) {
	var movable []geometry.Rect
	for _, c := range s.Nodes {
		if !c.IsFixed() {
			movable = append(movable, c.Bounds())
		}
	}
	r, ok := geometry.Bounds(movable)
	if !ok {
		return
	}
	shift := geometry.Vec(pad.Left-r.X, pad.Top-r.Y)
	if shift.IsZero() {
		return
	}
	for _, c := range s.Nodes {
		if !c.IsFixed() {
			c.SetPosition(c.Position().Add(shift))
		}
	}
	for _, e := range s.Edges {
		for _, sec := range e.Sections {
			sec.Translate(shift)
		}
		for _, l := range e.Labels {
			l.X += shift.X
			l.Y += shift.Y
		}
	}
}
