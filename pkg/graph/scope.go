package graph

import "slices"

// Scope is one flat level of the hierarchy: the direct children of a
// container together with the edges that connect them. Flat layout
// algorithms operate on a Scope and never look above or below it.
//
// Edges are collected from the container itself and from each direct child,
// and are kept when at least one source and one target resolve to a direct
// child or to a port of one. Edge endpoints that do not resolve are ignored.
// Edges declared further up the hierarchy join through [Scope.Adopt].
type Scope struct {
	// Container is the node whose children are laid out, nil for the root.
	Container *Node
	Graph     *Graph
	Nodes     []*Node
	Edges     []*Edge

	// Options are the container's effective options after inheritance.
	Options *LayoutOptions

	owner map[string]*Node
	ports map[string]*Port
}

// Pair is one resolved source/target combination of an edge.
type Pair struct {
	Source, Target *Node
}

// RootScope returns the top level of g. opts may be nil, in which case the
// graph's own options are used.
func RootScope(g *Graph, opts *LayoutOptions) *Scope {
	if opts == nil {
		opts = g.LayoutOptions
	}
	return newScope(g, nil, g.Children, g.Edges, opts)
}

// NodeScope returns the level formed by n's children.
func NodeScope(g *Graph, n *Node, opts *LayoutOptions) *Scope {
	if opts == nil {
		opts = n.LayoutOptions
	}
	return newScope(g, n, n.Children, n.Edges, opts)
}

func newScope(g *Graph, container *Node, children []*Node, own []*Edge, opts *LayoutOptions) *Scope {
	s := &Scope{
		Container: container,
		Graph:     g,
		Nodes:     children,
		Options:   opts,
		owner:     make(map[string]*Node, len(children)),
		ports:     make(map[string]*Port),
	}
	for _, n := range children {
		s.owner[n.ID] = n
	}
	// Node ids win over port ids.
	for _, n := range children {
		for _, p := range n.Ports {
			p.Owner = n.ID
			s.ports[p.ID] = p
			if _, taken := s.owner[p.ID]; !taken {
				s.owner[p.ID] = n
			}
		}
	}
	seen := make(map[*Edge]bool)
	add := func(edges []*Edge) {
		for _, e := range edges {
			if e == nil || seen[e] {
				continue
			}
			seen[e] = true
			if len(s.Pairs(e)) > 0 {
				s.Edges = append(s.Edges, e)
			}
		}
	}
	add(own)
	for _, n := range children {
		add(n.Edges)
	}
	return s
}

// Adopt adds edges declared elsewhere in the hierarchy that connect
// children of s, typically the entry of [Index.SiblingEdges] for the
// container. Edges already in s or without a resolvable pair are skipped.
func (s *Scope) Adopt(edges []*Edge) {
	for _, e := range edges {
		if e == nil || slices.Contains(s.Edges, e) || len(s.Pairs(e)) == 0 {
			continue
		}
		s.Edges = append(s.Edges, e)
	}
}

// ID returns the container id, or the graph id for the root.
func (s *Scope) ID() string {
	if s.Container != nil {
		return s.Container.ID
	}
	if s.Graph != nil {
		return s.Graph.ID
	}
	return ""
}

// IsRoot reports whether s is the top level of the graph.
func (s *Scope) IsRoot() bool { return s.Container == nil }

// Resolve maps an endpoint id to the direct child it denotes.
func (s *Scope) Resolve(id string) (*Node, bool) {
	n, ok := s.owner[id]
	return n, ok
}

// Port returns the port with the given id if it belongs to a direct child.
func (s *Scope) Port(id string) (*Port, bool) {
	p, ok := s.ports[id]
	return p, ok
}

// Pairs returns every resolvable (source, target) combination of e.
func (s *Scope) Pairs(e *Edge) []Pair {
	var out []Pair
	for _, src := range e.Sources {
		sn, ok := s.owner[src]
		if !ok {
			continue
		}
		for _, dst := range e.Targets {
			if tn, ok := s.owner[dst]; ok {
				out = append(out, Pair{Source: sn, Target: tn})
			}
		}
	}
	return out
}

// Endpoints returns the first resolvable source and target of e together
// with the port ids they were reached through, empty for node endpoints.
func (s *Scope) Endpoints(e *Edge) (src, dst *Node, srcPort, dstPort string, ok bool) {
	for _, id := range e.Sources {
		if n, found := s.owner[id]; found {
			src = n
			if n.ID != id {
				srcPort = id
			}
			break
		}
	}
	for _, id := range e.Targets {
		if n, found := s.owner[id]; found {
			dst = n
			if n.ID != id {
				dstPort = id
			}
			break
		}
	}
	return src, dst, srcPort, dstPort, src != nil && dst != nil
}

// IsSelfLoop reports whether every resolved pair of e starts and ends at the
// same node.
func (s *Scope) IsSelfLoop(e *Edge) bool {
	pairs := s.Pairs(e)
	if len(pairs) == 0 {
		return false
	}
	for _, p := range pairs {
		if p.Source != p.Target {
			return false
		}
	}
	return true
}
