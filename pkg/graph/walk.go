package graph

import (
	"errors"

	"github.com/google/uuid"
)

// SkipChildren may be returned by a WalkFunc to prune the subtree below the
// current node without stopping the walk.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node in pre-order. parent is nil for
// top-level nodes.
type WalkFunc func(n, parent *Node, depth int) error

// Walk visits every node reachable from g in pre-order, children in their
// declared order. It uses an explicit stack, so deep nesting does not grow
// the goroutine stack.
func Walk(g *Graph, fn WalkFunc) error {
	type frame struct {
		node, parent *Node
		depth        int
	}
	stack := make([]frame, 0, len(g.Children))
	for i := len(g.Children) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: g.Children[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			continue
		}
		if err := fn(f.node, f.parent, f.depth); err != nil {
			if errors.Is(err, SkipChildren) {
				continue
			}
			return err
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], parent: f.node, depth: f.depth + 1})
		}
	}
	return nil
}

// Nodes returns every node of g in pre-order.
func Nodes(g *Graph) []*Node {
	var out []*Node
	_ = Walk(g, func(n, _ *Node, _ int) error {
		out = append(out, n)
		return nil
	})
	return out
}

// AllEdges returns every edge of g: graph-level edges first, then the edges
// owned by each node in pre-order.
func AllEdges(g *Graph) []*Edge {
	out := append([]*Edge(nil), g.Edges...)
	_ = Walk(g, func(n, _ *Node, _ int) error {
		out = append(out, n.Edges...)
		return nil
	})
	return out
}

// EnsureIDs assigns a random UUID to every node, port and edge without an
// id, so anonymous elements from hand-written records can still be indexed.
// It returns the number of ids assigned.
func EnsureIDs(g *Graph) int {
	assigned := 0
	fresh := func(id *string) {
		if *id == "" {
			*id = uuid.NewString()
			assigned++
		}
	}
	if g.ID == "" {
		g.ID = "root"
	}
	for _, e := range g.Edges {
		fresh(&e.ID)
	}
	_ = Walk(g, func(n, _ *Node, _ int) error {
		fresh(&n.ID)
		for _, p := range n.Ports {
			fresh(&p.ID)
			p.Owner = n.ID
		}
		for _, e := range n.Edges {
			fresh(&e.ID)
		}
		return nil
	})
	return assigned
}
