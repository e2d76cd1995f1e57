// Package graph defines the in-memory record that Strata lays out.
//
// # Overview
//
// A [Graph] is the root of a tree of [Node] values. Nodes carry geometry,
// [Port] connection points, [Label] boxes, their own [Edge] list and may
// contain child nodes, which makes them containers. Every layout phase
// mutates this tree in place: positions and sizes are overwritten, edges
// receive [EdgeSection] routes and ports receive a side, index and offset.
//
// # Coordinates
//
// Node X/Y are relative to the parent container (or the graph origin for
// top-level nodes). Port X/Y are relative to the owning node. Edge sections
// use the frame of the container whose level the edge was routed in.
//
// # Identity
//
// Elements reference each other by string id rather than pointer. Edges
// list source and target node or port ids, and a port names its owner with
// [Port.Owner]. An [Index] resolves ids across the whole tree, a [Scope]
// resolves them within one flat level:
//
//	g, _ := graph.ReadGraphFile("diagram.json")
//	ix, err := graph.NewIndex(g)    // DUPLICATE_ID on clashing ids
//	n, ok := ix.Resolve("a.out")    // port id → owning node
//
// # Options
//
// [LayoutOptions] holds the well-known options as typed fields and keeps
// every other key in a passthrough [Properties] bag. Accessors resolve a
// key from the typed field first, then the bag, then the supplied default.
// Malformed values for typed keys, port sides, align directions and padding
// fail when they are assigned.
//
// # Serialization
//
// The JSON encoding matches the external record shape:
//
//	{
//	  "id": "root",
//	  "layoutOptions": {"algorithm": "layered", "spacing.nodeNode": 20},
//	  "children": [{"id": "a", "width": 40, "height": 20}, {"id": "b", "width": 40, "height": 20}],
//	  "edges": [{"id": "e1", "sources": ["a"], "targets": ["b"]}]
//	}
package graph
