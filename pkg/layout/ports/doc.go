// Package ports resolves port constraints on node boundaries.
//
// For every node with ports and a non-zero size, [ProcessNode] gives each
// port a definitive side, a unique sequential index within that side, and a
// location on the boundary:
//
//   - Side detection: ports whose side is UNDEFINED take the side closest
//     to their current position, comparing relY (NORTH), 1-relY (SOUTH),
//     relX (WEST) and 1-relX (EAST); ties resolve in that order. Explicit
//     sides are never overwritten.
//   - Ordering: ports with an explicit index come first in index order and
//     keep their relative order; the rest fill the remaining slots sorted
//     by position along the side.
//   - Positioning: the k-th of n ports on a side sits at (k+1)/(n+1) of the
//     side's length. Offset records that varying coordinate.
//
// Options read from the node's effective layout options:
//
//	elk.portConstraints     FIXED_POS leaves all ports untouched
//	elk.portSideAssignment  POSITION (default) or FLOW
//	elk.portOrdering        INDEX (default) or POSITION
//
// With FLOW, an undetermined port that is mostly an edge source takes the
// side edges leave on for the layout direction, and one that is mostly a
// target takes the side they enter on. Unused ports fall back to position.
package ports
