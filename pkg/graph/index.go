package graph

import (
	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/geometry"
)

// Index resolves ids to nodes and ports across the whole hierarchy. It
// replaces object back-references: ports name their owner by id and edges
// name their endpoints by id, and the index answers both lookups.
//
// An Index is a snapshot; rebuild it after adding or removing elements.
// Moving nodes does not invalidate it.
type Index struct {
	graph   *Graph
	nodes   map[string]*Node
	parents map[string]*Node
	depths  map[string]int
	ports   map[string]*Port
	order   []*Node
}

// NewIndex indexes every node and port of g. Node ids must be unique within
// the graph, as must port ids; a duplicate is a DUPLICATE_ID error. Each
// port's Owner is set to its node's id.
func NewIndex(g *Graph) (*Index, error) {
	ix := &Index{
		graph:   g,
		nodes:   make(map[string]*Node),
		parents: make(map[string]*Node),
		depths:  make(map[string]int),
		ports:   make(map[string]*Port),
	}
	err := Walk(g, func(n, parent *Node, depth int) error {
		if _, dup := ix.nodes[n.ID]; dup {
			return errors.New(errors.ErrCodeDuplicateID, "duplicate node id %q", n.ID)
		}
		ix.nodes[n.ID] = n
		ix.parents[n.ID] = parent
		ix.depths[n.ID] = depth
		ix.order = append(ix.order, n)
		for _, p := range n.Ports {
			if _, dup := ix.ports[p.ID]; dup {
				return errors.New(errors.ErrCodeDuplicateID, "duplicate port id %q", p.ID)
			}
			p.Owner = n.ID
			ix.ports[p.ID] = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ix, nil
}

// Graph returns the indexed graph.
func (ix *Index) Graph() *Graph { return ix.graph }

// Node returns the node with the given id.
func (ix *Index) Node(id string) (*Node, bool) {
	n, ok := ix.nodes[id]
	return n, ok
}

// Port returns the port with the given id.
func (ix *Index) Port(id string) (*Port, bool) {
	p, ok := ix.ports[id]
	return p, ok
}

// Resolve maps an edge endpoint id to its node: the node itself, or the
// owner of the port with that id.
func (ix *Index) Resolve(id string) (*Node, bool) {
	if n, ok := ix.nodes[id]; ok {
		return n, true
	}
	if p, ok := ix.ports[id]; ok {
		return ix.Node(p.Owner)
	}
	return nil, false
}

// Parent returns the container of the node with the given id. Top-level
// nodes have a nil parent.
func (ix *Index) Parent(id string) *Node { return ix.parents[id] }

// Depth returns the nesting depth of a node, 0 for top-level nodes.
func (ix *Index) Depth(id string) int { return ix.depths[id] }

// Nodes returns every node in pre-order.
func (ix *Index) Nodes() []*Node { return ix.order }

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return len(ix.order) }

// Origin returns the absolute position of a container's coordinate frame,
// i.e. the sum of the positions of n and all its ancestors. A nil node is
// the graph root.
func (ix *Index) Origin(n *Node) geometry.Point {
	var p geometry.Point
	for cur := n; cur != nil; cur = ix.parents[cur.ID] {
		p = p.Add(geometry.Vec(cur.X, cur.Y))
	}
	return p
}

// AbsoluteBounds returns n's rectangle in root coordinates.
func (ix *Index) AbsoluteBounds(n *Node) geometry.Rect {
	o := ix.Origin(ix.parents[n.ID])
	return n.Bounds().Translate(geometry.Vec(o.X, o.Y))
}

// IsAncestor reports whether a is a strict ancestor of n.
func (ix *Index) IsAncestor(a, n *Node) bool {
	for cur := ix.parents[n.ID]; cur != nil; cur = ix.parents[cur.ID] {
		if cur == a {
			return true
		}
	}
	return false
}

// SiblingEdges groups the edges of the graph by the container whose direct
// children they connect, nil for the top level. Every edge with a source
// and target sharing a parent is listed under that parent, wherever in the
// hierarchy it was declared. An edge appears once per container.
func (ix *Index) SiblingEdges() map[*Node][]*Edge {
	out := make(map[*Node][]*Edge)
	for _, e := range AllEdges(ix.graph) {
		if e == nil {
			continue
		}
		listed := make(map[*Node]bool)
		for _, src := range e.Sources {
			sn, ok := ix.Resolve(src)
			if !ok {
				continue
			}
			for _, dst := range e.Targets {
				tn, ok := ix.Resolve(dst)
				if !ok {
					continue
				}
				parent := ix.parents[sn.ID]
				if parent != ix.parents[tn.ID] || listed[parent] {
					continue
				}
				listed[parent] = true
				out[parent] = append(out[parent], e)
			}
		}
	}
	return out
}

// CommonAncestor returns the deepest container enclosing both a and b, nil
// when that is the graph root.
func (ix *Index) CommonAncestor(a, b *Node) *Node {
	seen := make(map[*Node]bool)
	for cur := ix.parents[a.ID]; cur != nil; cur = ix.parents[cur.ID] {
		seen[cur] = true
	}
	for cur := ix.parents[b.ID]; cur != nil; cur = ix.parents[cur.ID] {
		if seen[cur] {
			return cur
		}
	}
	return nil
}
