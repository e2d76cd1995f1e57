// Package layered implements the layered (Sugiyama-style) layout of one flat
// level of a graph.
//
// # Phases
//
// The pipeline runs three phases over a [graph.Scope]:
//
//  1. [BreakCycles] reverses the back edges of a depth-first traversal so
//     the remaining edges form a DAG. Reversed edges are flagged with the
//     "reversed" property.
//  2. [AssignLayers] puts every node on its longest-path layer, honouring
//     layer pins as lower bounds.
//  3. [PlaceNodes] stacks the layers along the flow direction and packs each
//     layer flush-left with the configured node spacing.
//
// Crossing minimization is not performed: nodes keep their declaration order
// within a layer, and the crossingMinimization.strategy option is accepted
// but has no effect.
//
// After placement the ports of each node are resolved and edges are routed
// as POLYLINE, ORTHOGONAL (default) or SPLINES sections.
//
// # Direction
//
// The direction option (DOWN, UP, RIGHT, LEFT) rotates the result. Nodes
// constrained to a fixed position are skipped by placement and keep their
// coordinates in every direction.
package layered
