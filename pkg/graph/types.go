package graph

import (
	"strings"

	"github.com/matzehuels/strata/pkg/errors"
)

// PortSide is the side of a node's boundary a port sits on.
// The zero value is PortSideUndefined; side detection only assigns sides to
// undefined ports and never overwrites an explicit one.
type PortSide int

// Port sides. The declaration order NORTH, SOUTH, WEST, EAST is also the
// tie-break order used by side detection.
const (
	PortSideUndefined PortSide = iota
	PortSideNorth
	PortSideSouth
	PortSideWest
	PortSideEast
)

// PortSides lists the defined sides in tie-break order.
var PortSides = []PortSide{PortSideNorth, PortSideSouth, PortSideWest, PortSideEast}

var portSideNames = map[PortSide]string{
	PortSideUndefined: "UNDEFINED",
	PortSideNorth:     "NORTH",
	PortSideSouth:     "SOUTH",
	PortSideWest:      "WEST",
	PortSideEast:      "EAST",
}

func (s PortSide) String() string {
	if name, ok := portSideNames[s]; ok {
		return name
	}
	return "UNDEFINED"
}

// IsHorizontal reports whether ports on s are distributed along the x axis.
func (s PortSide) IsHorizontal() bool { return s == PortSideNorth || s == PortSideSouth }

// ParsePortSide converts a side name (case-insensitive) into a PortSide.
// The empty string yields PortSideUndefined. Unknown names are an
// INVALID_PORT_SIDE error.
func ParsePortSide(s string) (PortSide, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "UNDEFINED":
		return PortSideUndefined, nil
	case "NORTH":
		return PortSideNorth, nil
	case "SOUTH":
		return PortSideSouth, nil
	case "WEST":
		return PortSideWest, nil
	case "EAST":
		return PortSideEast, nil
	}
	return PortSideUndefined, errors.New(errors.ErrCodeInvalidPortSide, "unknown port side %q", s)
}

func (s PortSide) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *PortSide) UnmarshalText(b []byte) error {
	v, err := ParsePortSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// AlignDirection is the axis an align group is aligned on. Horizontal
// alignment equalizes y, vertical alignment equalizes x.
type AlignDirection int

const (
	AlignNone AlignDirection = iota
	AlignHorizontal
	AlignVertical
)

func (d AlignDirection) String() string {
	switch d {
	case AlignHorizontal:
		return "horizontal"
	case AlignVertical:
		return "vertical"
	}
	return ""
}

// ParseAlignDirection converts "horizontal" or "vertical" (case-insensitive)
// into an AlignDirection. The empty string yields AlignNone.
func ParseAlignDirection(s string) (AlignDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return AlignNone, nil
	case "horizontal":
		return AlignHorizontal, nil
	case "vertical":
		return AlignVertical, nil
	}
	return AlignNone, errors.New(errors.ErrCodeInvalidAlignDirection, "unknown align direction %q", s)
}

func (d AlignDirection) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *AlignDirection) UnmarshalText(b []byte) error {
	v, err := ParseAlignDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Direction is the main flow direction of a layered layout.
type Direction int

const (
	DirectionUndefined Direction = iota
	DirectionDown
	DirectionUp
	DirectionRight
	DirectionLeft
)

func (d Direction) String() string {
	switch d {
	case DirectionDown:
		return "DOWN"
	case DirectionUp:
		return "UP"
	case DirectionRight:
		return "RIGHT"
	case DirectionLeft:
		return "LEFT"
	}
	return "UNDEFINED"
}

// IsVertical reports whether layers stack along the y axis.
func (d Direction) IsVertical() bool {
	return d == DirectionDown || d == DirectionUp || d == DirectionUndefined
}

// ParseDirection converts a direction name (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "UNDEFINED":
		return DirectionUndefined, nil
	case "DOWN":
		return DirectionDown, nil
	case "UP":
		return DirectionUp, nil
	case "RIGHT":
		return DirectionRight, nil
	case "LEFT":
		return DirectionLeft, nil
	}
	return DirectionUndefined, errors.New(errors.ErrCodeInvalidOption, "unknown direction %q", s)
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// EdgeRouting selects how edge sections are shaped.
type EdgeRouting int

const (
	EdgeRoutingUndefined EdgeRouting = iota
	EdgeRoutingPolyline
	EdgeRoutingOrthogonal
	EdgeRoutingSplines
)

func (r EdgeRouting) String() string {
	switch r {
	case EdgeRoutingPolyline:
		return "POLYLINE"
	case EdgeRoutingOrthogonal:
		return "ORTHOGONAL"
	case EdgeRoutingSplines:
		return "SPLINES"
	}
	return "UNDEFINED"
}

// ParseEdgeRouting converts a routing name (case-insensitive).
func ParseEdgeRouting(s string) (EdgeRouting, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "UNDEFINED":
		return EdgeRoutingUndefined, nil
	case "POLYLINE":
		return EdgeRoutingPolyline, nil
	case "ORTHOGONAL":
		return EdgeRoutingOrthogonal, nil
	case "SPLINES", "SPLINE":
		return EdgeRoutingSplines, nil
	}
	return EdgeRoutingUndefined, errors.New(errors.ErrCodeInvalidOption, "unknown edge routing %q", s)
}

func (r EdgeRouting) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *EdgeRouting) UnmarshalText(b []byte) error {
	v, err := ParseEdgeRouting(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
