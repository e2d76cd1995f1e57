// Package render turns laid out graphs into pictures.
//
// # Overview
//
// Renderers read the coordinates the layout engine wrote into a
// [graph.Graph] and never move anything. Two are provided:
//
//   - [svg]: a self-contained SVG writer with no external dependencies
//   - [dot]: Graphviz DOT export with pinned positions, rendered through
//     Graphviz for users who want its styling
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	out, err := svg.Render(g, svg.WithLabels())
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0)  // 2x scale
//
// [graph.Graph]: github.com/matzehuels/strata/pkg/graph.Graph
// [svg]: github.com/matzehuels/strata/pkg/render/svg
// [dot]: github.com/matzehuels/strata/pkg/render/dot
package render
