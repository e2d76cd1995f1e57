// Package constraint applies and validates node positioning constraints
// independently of the layout algorithm.
//
// Four kinds of constraint are supported, several of which may be set on
// the same node:
//
//   - fixed position: tagged before layout; algorithms keep the node in
//     place and [Validate] reports it if it moved anyway
//   - layer: tagged before layout for layered algorithms to honour
//   - align group: members share the mean y (horizontal) or x (vertical)
//   - relative: the node sits at its reference's position plus an offset
//
// Coordinates are those of each node's own parent frame.
package constraint

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/strata/pkg/geometry"
	"github.com/matzehuels/strata/pkg/graph"
)

// Kind classifies a Violation.
type Kind string

const (
	KindFixedMoved       Kind = "FIXED_MOVED"
	KindAlignMismatch    Kind = "ALIGN_MISMATCH"
	KindMissingReference Kind = "MISSING_REFERENCE"
)

// Violation is a constraint that does not hold after layout. Violations are
// diagnostics; callers decide whether they are fatal.
type Violation struct {
	Kind    Kind   `json:"kind"`
	NodeID  string `json:"nodeId"`
	Message string `json:"message"`
}

func (v Violation) String() string { return v.Message }

// tolerance for comparing coordinates after floating point arithmetic.
const tolerance = 1e-6

// HasConstraints reports whether any node of g carries a constraint.
func HasConstraints(g *graph.Graph) bool {
	found := false
	_ = graph.Walk(g, func(n, _ *graph.Node, _ int) error {
		if n.HasConstraints() {
			found = true
			return errStop
		}
		return nil
	})
	return found
}

var errStop = errors.New("stop")

// Apply runs every constraint in order: fixed and layer tagging, then
// alignment, then relative positioning, so relative constraints see
// already-aligned references.
func Apply(g *graph.Graph) {
	Tag(g)
	Align(g)
	Relate(g)
}

// Tag records fixed and layer constraints as node properties. The original
// position of a fixed node is recorded once; tagging again keeps it.
func Tag(g *graph.Graph) {
	_ = graph.Walk(g, func(n, _ *graph.Node, _ int) error {
		c := n.Constraints
		if c == nil {
			return nil
		}
		props := n.Props()
		if c.FixedPosition {
			if !props.Bool(graph.PropConstraintFixed) {
				props[graph.PropConstraintOriginalX] = n.X
				props[graph.PropConstraintOriginalY] = n.Y
			}
			props[graph.PropConstraintFixed] = true
		}
		if c.Layer != nil {
			props[graph.PropConstraintLayer] = *c.Layer
		}
		return nil
	})
}

type groupKey struct {
	name string
	dir  graph.AlignDirection
}

// groups collects align group members in declaration order.
func groups(g *graph.Graph) ([]groupKey, map[groupKey][]*graph.Node) {
	var keys []groupKey
	members := make(map[groupKey][]*graph.Node)
	_ = graph.Walk(g, func(n, _ *graph.Node, _ int) error {
		if !n.Constraints.HasAlignment() {
			return nil
		}
		k := groupKey{n.Constraints.AlignGroup, n.Constraints.AlignDirection}
		if _, ok := members[k]; !ok {
			keys = append(keys, k)
		}
		members[k] = append(members[k], n)
		return nil
	})
	return keys, members
}

// Align moves the members of every align group onto the arithmetic mean of
// their y (horizontal groups) or x (vertical groups).
func Align(g *graph.Graph) {
	keys, members := groups(g)
	for _, k := range keys {
		ns := members[k]
		var sum float64
		for _, n := range ns {
			sum += axis(n, k.dir)
		}
		mean := sum / float64(len(ns))
		for _, n := range ns {
			if k.dir == graph.AlignHorizontal {
				n.Y = mean
			} else {
				n.X = mean
			}
		}
	}
}

func axis(n *graph.Node, d graph.AlignDirection) float64 {
	if d == graph.AlignHorizontal {
		return n.Y
	}
	return n.X
}

// Relate positions every node with a relative constraint at its reference's
// position plus the offset. Chains are resolved references first; nodes in
// a reference cycle are positioned once in declaration order. Unresolvable
// references are left for Validate to report.
func Relate(g *graph.Graph) {
	byID := make(map[string]*graph.Node)
	var pending []*graph.Node
	_ = graph.Walk(g, func(n, _ *graph.Node, _ int) error {
		byID[n.ID] = n
		if n.Constraints.HasRelative() {
			pending = append(pending, n)
		}
		return nil
	})
	waiting := make(map[string]bool, len(pending))
	for _, n := range pending {
		waiting[n.ID] = true
	}
	place := func(n *graph.Node) {
		delete(waiting, n.ID)
		ref, ok := byID[n.Constraints.RelativeTo]
		if !ok {
			return
		}
		n.SetPosition(ref.Position().Add(n.Constraints.RelativeOffset))
	}
	for len(pending) > 0 {
		var next []*graph.Node
		for _, n := range pending {
			if waiting[n.Constraints.RelativeTo] && n.Constraints.RelativeTo != n.ID {
				next = append(next, n)
				continue
			}
			place(n)
		}
		if len(next) == len(pending) {
			// only cycles remain
			for _, n := range next {
				place(n)
			}
			return
		}
		pending = next
	}
}

// Validate checks every constraint against the current positions and
// returns the violations found, in declaration order. No violations yields
// an empty slice.
func Validate(g *graph.Graph) []Violation {
	out := []Violation{}
	byID := make(map[string]bool)
	_ = graph.Walk(g, func(n, _ *graph.Node, _ int) error {
		byID[n.ID] = true
		return nil
	})

	_ = graph.Walk(g, func(n, _ *graph.Node, _ int) error {
		if n.Properties.Bool(graph.PropConstraintFixed) {
			ox, okX := n.Properties.Float(graph.PropConstraintOriginalX)
			oy, okY := n.Properties.Float(graph.PropConstraintOriginalY)
			if okX && okY && !n.Position().Equal(geometry.Pt(ox, oy), tolerance) {
				out = append(out, Violation{
					Kind:   KindFixedMoved,
					NodeID: n.ID,
					Message: fmt.Sprintf("node %q has a fixed position (%g, %g) but is at (%g, %g)",
						n.ID, ox, oy, n.X, n.Y),
				})
			}
		}
		if n.Constraints.HasRelative() && !byID[n.Constraints.RelativeTo] {
			out = append(out, Violation{
				Kind:    KindMissingReference,
				NodeID:  n.ID,
				Message: fmt.Sprintf("node %q is relative to %q, which doesn't exist", n.ID, n.Constraints.RelativeTo),
			})
		}
		return nil
	})

	keys, members := groups(g)
	for _, k := range keys {
		ns := members[k]
		want := axis(ns[0], k.dir)
		for _, n := range ns[1:] {
			if got := axis(n, k.dir); math.Abs(got-want) > tolerance {
				out = append(out, Violation{
					Kind:   KindAlignMismatch,
					NodeID: n.ID,
					Message: fmt.Sprintf("node %q in %s align group %q is at %g, expected %g",
						n.ID, k.dir, k.name, got, want),
				})
			}
		}
	}
	return out
}
