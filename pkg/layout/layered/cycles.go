package layered

import "github.com/matzehuels/strata/pkg/graph"

type arc struct {
	edge   *graph.Edge
	target *graph.Node
}

// outgoing groups the non-loop pairs of every scope edge by source node.
func outgoing(s *graph.Scope) map[*graph.Node][]arc {
	out := make(map[*graph.Node][]arc, len(s.Nodes))
	for _, e := range s.Edges {
		for _, p := range s.Pairs(e) {
			if p.Source == p.Target {
				continue
			}
			out[p.Source] = append(out[p.Source], arc{edge: e, target: p.Target})
		}
	}
	return out
}

// BreakCycles makes the edges of s acyclic by reversing back edges found by
// a depth-first traversal started from every unvisited node in declaration
// order. Back edges are collected during the traversal and reversed only
// afterwards, so every decision is taken on the original topology. Reversed
// edges have their sources and targets swapped and carry the "reversed"
// property. Self loops are ignored.
//
// The traversal keeps its own stack, so long chains do not grow the
// goroutine stack.
func BreakCycles(s *graph.Scope) []*graph.Edge {
	const (
		white = iota
		gray
		black
	)

	adj := outgoing(s)
	color := make(map[*graph.Node]int, len(s.Nodes))
	marked := make(map[*graph.Edge]bool)
	var back []*graph.Edge

	type frame struct {
		node *graph.Node
		next int
	}
	for _, root := range s.Nodes {
		if color[root] != white {
			continue
		}
		color[root] = gray
		stack := []frame{{node: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			arcs := adj[top.node]
			if top.next == len(arcs) {
				color[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			a := arcs[top.next]
			top.next++
			switch color[a.target] {
			case white:
				color[a.target] = gray
				stack = append(stack, frame{node: a.target})
			case gray:
				if !marked[a.edge] {
					marked[a.edge] = true
					back = append(back, a.edge)
				}
			}
		}
	}

	for _, e := range back {
		e.Reverse()
	}
	return back
}
