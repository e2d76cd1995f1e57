package layered

import "github.com/matzehuels/strata/pkg/graph"

// Spacing holds the distances used by [PlaceNodes].
type Spacing struct {
	Node  float64 // between neighbours within a layer
	Layer float64 // between consecutive layers
}

// SpacingFrom reads spacing.nodeNode and the layer spacing from opts.
func SpacingFrom(opts *graph.LayoutOptions) Spacing {
	return Spacing{
		Node:  opts.Float(graph.KeySpacingNodeNode, graph.DefaultNodeSpacing),
		Layer: opts.Float(graph.KeySpacingLayer, graph.DefaultLayerSpacing),
	}
}

// PlaceNodes assigns coordinates layer by layer. Every layer shares one y
// baseline: the running sum of the tallest node of each previous layer plus
// the layer spacing. Within a layer nodes are packed left to right from
// x = 0, each advancing the cursor by its width plus the node spacing.
// Layers are flush-left; nothing is centred.
//
// Nodes tagged fixed keep their coordinates and take no room in their layer.
func PlaceNodes(layers *Layers, sp Spacing) {
	y := 0.0
	for _, layer := range layers.All() {
		x, tallest := 0.0, 0.0
		for _, n := range layer {
			if n.IsFixed() {
				continue
			}
			n.X, n.Y = x, y
			x += n.Width + sp.Node
			tallest = max(tallest, n.Height)
		}
		y += tallest + sp.Layer
	}
}
