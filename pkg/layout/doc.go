// Package layout is the entry point of the layout engine.
//
// A graph is laid out in place by [Layout] or by an [Engine]. The engine
// resolves the graph's algorithm option against a closed set of algorithm
// names, tags and applies node constraints, lays out every nesting level
// bottom-up, resolves ports and finally validates the constraints again.
//
// # Algorithms
//
// The recognized names are layered, force, stress, mrtree, radial, disco,
// box, random and fixed. Of those, stress, mrtree, radial and disco have no
// implementation and fail with an UNSUPPORTED error. Any other name is an
// UNKNOWN_ALGORITHM error. Names may carry the "elk." or
// "org.eclipse.elk." prefix.
//
// Containers may pick their own algorithm through their algorithm option;
// an unset option inherits the parent's.
//
// # Usage
//
//	g, err := graph.ReadGraphFile("in.json")
//	if err != nil {
//	    return err
//	}
//	report, err := layout.NewEngine(logger).LayoutWithReport(ctx, g)
//	if err != nil {
//	    return err
//	}
//	for _, v := range report.Violations {
//	    fmt.Println(v)
//	}
package layout
