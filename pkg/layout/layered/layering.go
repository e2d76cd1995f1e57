package layered

import (
	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/graph"
)

// Layers is the result of layer assignment: nodes grouped by layer index in
// declaration order.
type Layers struct {
	layers [][]*graph.Node
	index  map[string]int
}

// Len returns the number of layers, including empty layers left by pins.
func (l *Layers) Len() int { return len(l.layers) }

// Layer returns the nodes of layer i.
func (l *Layers) Layer(i int) []*graph.Node { return l.layers[i] }

// All returns every layer.
func (l *Layers) All() [][]*graph.Node { return l.layers }

// LayerFor returns the layer of the node with the given id.
func (l *Layers) LayerFor(id string) (int, bool) {
	i, ok := l.index[id]
	return i, ok
}

// MaxPinSlack is how many layers past the node count of a scope a layer pin
// may reach. Larger pins would only add empty layers.
const MaxPinSlack = 64

// AssignLayers computes a longest-path layering of s: a node without
// incoming edges is on layer 0, any other node one layer below its deepest
// predecessor. A node pinned to a layer is placed on
// max(longest path, pin), so every edge still points to a deeper layer.
//
// A pin below zero or beyond len(s.Nodes)+MaxPinSlack is an INVALID_OPTION
// error, which bounds the number of layers by the size of the scope.
//
// Endpoints outside s contribute nothing. Self loops are ignored. If s
// still contains a cycle the result is an UNRESOLVED_CYCLE error; run
// [BreakCycles] first.
//
// Each node's layer is computed once and memoized; the evaluation uses an
// explicit stack.
func AssignLayers(s *graph.Scope) (*Layers, error) {
	limit := len(s.Nodes) + MaxPinSlack
	for _, n := range s.Nodes {
		if pin, ok := n.PinnedLayer(); ok && (pin < 0 || pin > limit) {
			return nil, errors.New(errors.ErrCodeInvalidOption,
				"node %q is pinned to layer %d, must be between 0 and %d", n.ID, pin, limit)
		}
	}

	preds := make(map[*graph.Node][]*graph.Node, len(s.Nodes))
	for _, e := range s.Edges {
		for _, p := range s.Pairs(e) {
			if p.Source != p.Target {
				preds[p.Target] = append(preds[p.Target], p.Source)
			}
		}
	}

	const (
		pending = iota + 1
		done
	)
	state := make(map[*graph.Node]int, len(s.Nodes))
	layer := make(map[*graph.Node]int, len(s.Nodes))

	type frame struct {
		node *graph.Node
		next int
	}
	for _, root := range s.Nodes {
		if state[root] == done {
			continue
		}
		state[root] = pending
		stack := []frame{{node: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			ps := preds[top.node]
			if top.next < len(ps) {
				p := ps[top.next]
				top.next++
				switch state[p] {
				case pending:
					return nil, errors.New(errors.ErrCodeUnresolvedCycle,
						"cycle through %q and %q in %q", p.ID, top.node.ID, s.ID())
				case 0:
					state[p] = pending
					stack = append(stack, frame{node: p})
				}
				continue
			}
			l := 0
			for _, p := range ps {
				l = max(l, layer[p]+1)
			}
			if pin, ok := top.node.PinnedLayer(); ok && pin > l {
				l = pin
			}
			layer[top.node] = l
			state[top.node] = done
			stack = stack[:len(stack)-1]
		}
	}

	out := &Layers{index: make(map[string]int, len(s.Nodes))}
	for _, n := range s.Nodes {
		l := layer[n]
		for len(out.layers) <= l {
			out.layers = append(out.layers, nil)
		}
		out.layers[l] = append(out.layers[l], n)
		out.index[n.ID] = l
	}
	return out, nil
}
