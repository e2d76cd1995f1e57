package graph

import "github.com/matzehuels/strata/pkg/geometry"

// NodeConstraints is an optional per-node positioning override. Several
// kinds may be set at once, e.g. a layer pin together with an align group.
type NodeConstraints struct {
	// FixedPosition asks algorithms to keep the node where the caller put it.
	FixedPosition bool `json:"fixedPosition,omitempty"`

	// Layer is the desired layer of a layered layout, nil when unpinned.
	Layer *int `json:"layer,omitempty"`

	// AlignGroup names a set of nodes aligned along AlignDirection.
	AlignGroup     string         `json:"alignGroup,omitempty"`
	AlignDirection AlignDirection `json:"alignDirection,omitempty"`

	// RelativeTo places the node at the referenced node's position plus
	// RelativeOffset.
	RelativeTo     string          `json:"relativeTo,omitempty"`
	RelativeOffset geometry.Vector `json:"relativeOffset"`

	// PositionPriority is carried as metadata only.
	PositionPriority int `json:"positionPriority,omitempty"`
}

// IsZero reports whether c holds no constraint at all.
func (c *NodeConstraints) IsZero() bool {
	if c == nil {
		return true
	}
	return !c.FixedPosition && c.Layer == nil && c.AlignGroup == "" &&
		c.RelativeTo == "" && c.PositionPriority == 0
}

// HasAlignment reports whether c joins an align group.
func (c *NodeConstraints) HasAlignment() bool {
	return c != nil && c.AlignGroup != "" && c.AlignDirection != AlignNone
}

// HasRelative reports whether c positions the node relative to another.
func (c *NodeConstraints) HasRelative() bool { return c != nil && c.RelativeTo != "" }

// PinLayer returns a copy-safe pointer for Layer.
func PinLayer(l int) *int { return &l }
