package layered

import "github.com/matzehuels/strata/pkg/graph"

// Placement runs top-down and left-to-right. For the other directions the
// nodes are mapped into that frame before placement and back afterwards:
// RIGHT and LEFT transpose the axes, UP and LEFT mirror the layer axis.

func transposed(d graph.Direction) bool { return !d.IsVertical() }

func mirrored(d graph.Direction) bool {
	return d == graph.DirectionUp || d == graph.DirectionLeft
}

// toFlowFrame swaps width and height of movable nodes for horizontal flows.
func toFlowFrame(nodes []*graph.Node, d graph.Direction) {
	if !transposed(d) {
		return
	}
	for _, n := range nodes {
		if !n.IsFixed() {
			n.Width, n.Height = n.Height, n.Width
		}
	}
}

// fromFlowFrame maps placed nodes back into the frame of direction d.
func fromFlowFrame(nodes []*graph.Node, d graph.Direction) {
	if mirrored(d) {
		extent := 0.0
		for _, n := range nodes {
			if !n.IsFixed() {
				extent = max(extent, n.Y+n.Height)
			}
		}
		for _, n := range nodes {
			if !n.IsFixed() {
				n.Y = extent - n.Y - n.Height
			}
		}
	}
	if transposed(d) {
		for _, n := range nodes {
			if !n.IsFixed() {
				n.X, n.Y = n.Y, n.X
				n.Width, n.Height = n.Height, n.Width
			}
		}
	}
}
