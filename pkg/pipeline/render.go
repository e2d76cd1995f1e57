package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/render"
	"github.com/matzehuels/strata/pkg/render/dot"
	"github.com/matzehuels/strata/pkg/render/svg"
)

// Render generates output artifacts for a laid out graph in the requested
// formats. SVG is drawn once and shared by the formats converted from it.
func Render(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var drawn []byte
	drawSVG := func() ([]byte, error) {
		if drawn != nil {
			return drawn, nil
		}
		var svgOpts []svg.Option
		if opts.Labels {
			svgOpts = append(svgOpts, svg.WithLabels())
		}
		out, err := svg.Render(g, svgOpts...)
		drawn = out
		return out, err
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalGraph(g)
		case FormatSVG:
			data, err = drawSVG()
		case FormatDOT:
			var src string
			src, err = dot.ToDOT(g, dot.Options{Detailed: opts.Detailed})
			data = []byte(src)
		case FormatGraphviz:
			var src string
			if src, err = dot.ToDOT(g, dot.Options{Detailed: opts.Detailed}); err == nil {
				data, err = dot.RenderSVG(ctx, src)
			}
		case FormatPDF:
			if data, err = drawSVG(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatPNG:
			if data, err = drawSVG(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.Scale)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
