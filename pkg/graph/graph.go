package graph

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/matzehuels/strata/pkg/geometry"
)

// Reserved property keys written by the layout core.
const (
	PropReversed = "reversed"

	// Constraint tags, written before layout and read by algorithms and
	// validation.
	PropConstraintFixed     = "_constraint_fixed"
	PropConstraintOriginalX = "_constraint_original_x"
	PropConstraintOriginalY = "_constraint_original_y"
	PropConstraintLayer     = "_constraint_layer"
)

// Properties is a string-keyed bag of arbitrary values attached to graph
// elements. Unrecognized keys pass through layout unchanged.
type Properties map[string]any

// Keys returns the keys in sorted order.
func (p Properties) Keys() []string { return slices.Sorted(maps.Keys(p)) }

// Float returns key as a float64.
func (p Properties) Float(key string) (float64, bool) { return toFloat(p[key]) }

// Bool returns key as a bool, false when absent.
func (p Properties) Bool(key string) bool {
	b, _ := toBool(p[key])
	return b
}

// Int returns key as an int.
func (p Properties) Int(key string) (int, bool) {
	f, ok := toFloat(p[key])
	return int(f), ok
}

// Graph is the root container of a layout. Positions of top-level nodes are
// relative to the graph's origin.
type Graph struct {
	ID            string         `json:"id"`
	X             float64        `json:"x"`
	Y             float64        `json:"y"`
	Width         float64        `json:"width"`
	Height        float64        `json:"height"`
	Children      []*Node        `json:"children,omitempty"`
	Edges         []*Edge        `json:"edges,omitempty"`
	LayoutOptions *LayoutOptions `json:"layoutOptions,omitempty"`
	Properties    Properties     `json:"properties,omitempty"`
}

// Options returns the graph's layout options, creating them when absent.
func (g *Graph) Options() *LayoutOptions {
	if g.LayoutOptions == nil {
		g.LayoutOptions = &LayoutOptions{}
	}
	return g.LayoutOptions
}

// Node is a box in the layout. A node with children is a container whose
// children are positioned relative to its own origin.
type Node struct {
	ID            string           `json:"id"`
	X             float64          `json:"x"`
	Y             float64          `json:"y"`
	Width         float64          `json:"width"`
	Height        float64          `json:"height"`
	Labels        []*Label         `json:"labels,omitempty"`
	Ports         []*Port          `json:"ports,omitempty"`
	Children      []*Node          `json:"children,omitempty"`
	Edges         []*Edge          `json:"edges,omitempty"`
	LayoutOptions *LayoutOptions   `json:"layoutOptions,omitempty"`
	Constraints   *NodeConstraints `json:"constraints,omitempty"`
	Properties    Properties       `json:"properties,omitempty"`
}

// Options returns the node's layout options, creating them when absent.
func (n *Node) Options() *LayoutOptions {
	if n.LayoutOptions == nil {
		n.LayoutOptions = &LayoutOptions{}
	}
	return n.LayoutOptions
}

// Props returns the node's property bag, creating it when absent.
func (n *Node) Props() Properties {
	if n.Properties == nil {
		n.Properties = Properties{}
	}
	return n.Properties
}

// IsHierarchical reports whether n contains child nodes.
func (n *Node) IsHierarchical() bool { return len(n.Children) > 0 }

// Bounds returns n's rectangle in its parent's coordinate frame.
func (n *Node) Bounds() geometry.Rect { return geometry.Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height} }

// Position returns n's top-left corner.
func (n *Node) Position() geometry.Point { return geometry.Point{X: n.X, Y: n.Y} }

// SetPosition moves n's top-left corner to p.
func (n *Node) SetPosition(p geometry.Point) { n.X, n.Y = p.X, p.Y }

// Center returns the centre of n in its parent's coordinate frame.
func (n *Node) Center() geometry.Point { return n.Bounds().Center() }

// AddPort attaches p to n and records n as its owner.
func (n *Node) AddPort(p *Port) *Port {
	p.Owner = n.ID
	n.Ports = append(n.Ports, p)
	return p
}

// Port returns the port of n with the given id.
func (n *Node) Port(id string) (*Port, bool) {
	for _, p := range n.Ports {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// IsFixed reports whether n was tagged as fixed in place, or carries a
// fixed-position constraint that has not been tagged yet.
func (n *Node) IsFixed() bool {
	return n.Properties.Bool(PropConstraintFixed) || (n.Constraints != nil && n.Constraints.FixedPosition)
}

// PinnedLayer returns the layer n was pinned to, if any.
func (n *Node) PinnedLayer() (int, bool) {
	if l, ok := n.Properties.Int(PropConstraintLayer); ok {
		return l, true
	}
	if n.Constraints != nil && n.Constraints.Layer != nil {
		return *n.Constraints.Layer, true
	}
	return 0, false
}

// HasConstraints reports whether n carries a non-default constraint record.
func (n *Node) HasConstraints() bool { return n.Constraints != nil && !n.Constraints.IsZero() }

// Edge connects source nodes or ports to target nodes or ports by id.
type Edge struct {
	ID            string         `json:"id"`
	Sources       []string       `json:"sources"`
	Targets       []string       `json:"targets"`
	Labels        []*Label       `json:"labels,omitempty"`
	Sections      []*EdgeSection `json:"sections,omitempty"`
	LayoutOptions *LayoutOptions `json:"layoutOptions,omitempty"`
	Properties    Properties     `json:"properties,omitempty"`
}

// NewEdge builds a simple edge from one source to one target.
func NewEdge(id, source, target string) *Edge {
	return &Edge{ID: id, Sources: []string{source}, Targets: []string{target}}
}

// Reverse swaps sources and targets and flips the reversed flag.
func (e *Edge) Reverse() {
	e.Sources, e.Targets = e.Targets, e.Sources
	if e.Properties == nil {
		e.Properties = Properties{}
	}
	e.Properties[PropReversed] = !e.IsReversed()
}

// IsReversed reports whether cycle breaking reversed e.
func (e *Edge) IsReversed() bool { return e.Properties.Bool(PropReversed) }

// Source returns the first source id, or "".
func (e *Edge) Source() string {
	if len(e.Sources) == 0 {
		return ""
	}
	return e.Sources[0]
}

// Target returns the first target id, or "".
func (e *Edge) Target() string {
	if len(e.Targets) == 0 {
		return ""
	}
	return e.Targets[0]
}

// EdgeSection is one continuous routed piece of an edge.
type EdgeSection struct {
	ID            string           `json:"id"`
	StartPoint    geometry.Point   `json:"startPoint"`
	EndPoint      geometry.Point   `json:"endPoint"`
	BendPoints    []geometry.Point `json:"bendPoints,omitempty"`
	IncomingShape string           `json:"incomingShape,omitempty"`
	OutgoingShape string           `json:"outgoingShape,omitempty"`
}

// Points returns the full route start, bends..., end.
func (s *EdgeSection) Points() []geometry.Point {
	pts := make([]geometry.Point, 0, len(s.BendPoints)+2)
	pts = append(pts, s.StartPoint)
	pts = append(pts, s.BendPoints...)
	return append(pts, s.EndPoint)
}

// Translate moves every point of s by v.
func (s *EdgeSection) Translate(v geometry.Vector) {
	s.StartPoint = s.StartPoint.Add(v)
	s.EndPoint = s.EndPoint.Add(v)
	for i := range s.BendPoints {
		s.BendPoints[i] = s.BendPoints[i].Add(v)
	}
}

// Length returns the polyline length of s.
func (s *EdgeSection) Length() float64 {
	pts := s.Points()
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i-1].Distance(pts[i])
	}
	return l
}

// UnassignedIndex marks a port without an explicit order on its side.
const UnassignedIndex = -1

// Port is a connection point on a node's boundary. X and Y are relative to
// the owning node's origin. Owner is the owning node's id, never a pointer.
//
// Index is an explicit order when it is zero or more. A Port literal
// therefore starts out explicitly indexed at 0; use [NewPort], or set Index
// to UnassignedIndex, for a port without an order. Decoded ports with no
// "index" key are unassigned.
type Port struct {
	ID            string         `json:"id"`
	X             float64        `json:"x"`
	Y             float64        `json:"y"`
	Width         float64        `json:"width"`
	Height        float64        `json:"height"`
	Labels        []*Label       `json:"labels,omitempty"`
	LayoutOptions *LayoutOptions `json:"layoutOptions,omitempty"`
	Properties    Properties     `json:"properties,omitempty"`
	Side          PortSide       `json:"side"`
	Index         int            `json:"index"`
	Offset        float64        `json:"offset"`

	Owner string `json:"-"`
}

// NewPort creates a port at (x, y) with an undefined side and no index.
func NewPort(id string, x, y float64) *Port {
	return &Port{ID: id, X: x, Y: y, Index: UnassignedIndex}
}

// Position returns the port's location relative to its owner.
func (p *Port) Position() geometry.Point { return geometry.Point{X: p.X, Y: p.Y} }

// HasIndex reports whether p carries an explicit order. The zero value
// counts as explicit; see [Port].
func (p *Port) HasIndex() bool { return p.Index >= 0 }

// UnmarshalJSON decodes a port, treating an absent index as unassigned.
func (p *Port) UnmarshalJSON(b []byte) error {
	type plain Port
	aux := plain{Index: UnassignedIndex}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Port(aux)
	return nil
}

// Label is a text box attached to a node, port or edge.
type Label struct {
	ID         string     `json:"id,omitempty"`
	Text       string     `json:"text"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Properties Properties `json:"properties,omitempty"`
}
