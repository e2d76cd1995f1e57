// Package dot exports laid out graphs to Graphviz DOT and renders them
// with Graphviz.
//
// # Overview
//
// [ToDOT] pins every node at the position the layout computed, so Graphviz
// only draws. Containers become filled boxes drawn beneath their children;
// edges connect the nodes owning their endpoints.
//
//	dot, err := dot.ToDOT(g, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering with the neato engine, which honours pinned positions.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/strata/pkg/graph"
)

// pointsPerInch converts layout units to Graphviz sizes.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Detailed includes position, size and properties in node labels.
	// When false, only the node id or its first label is shown.
	Detailed bool
}

// ToDOT converts a laid out graph to DOT. Node positions are absolute and
// flipped to Graphviz's upward y axis.
func ToDOT(g *graph.Graph, opts Options) (string, error) {
	ix, err := graph.NewIndex(g)
	if err != nil {
		return "", err
	}
	height := g.Height
	for _, n := range ix.Nodes() {
		height = max(height, ix.AbsoluteBounds(n).Bottom())
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", g.ID)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, fixedsize=true, style=\"rounded,filled\", fillcolor=white, fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range ix.Nodes() {
		b := ix.AbsoluteBounds(n)
		c := b.Center()
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, b.X, b.Y, opts.Detailed)),
			fmt.Sprintf("pos=\"%s,%s!\"", num(c.X), num(height-c.Y)),
			fmt.Sprintf("width=%s", num(b.Width/pointsPerInch)),
			fmt.Sprintf("height=%s", num(b.Height/pointsPerInch)),
		}
		if n.IsHierarchical() {
			attrs = append(attrs, "fillcolor=\"#eef1f5\"", "labelloc=t")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range graph.AllEdges(g) {
		for _, src := range e.Sources {
			for _, dst := range e.Targets {
				from, ok1 := ix.Resolve(src)
				to, ok2 := ix.Resolve(dst)
				if !ok1 || !ok2 {
					continue
				}
				fmt.Fprintf(&buf, "  %q -> %q;\n", from.ID, to.ID)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(n *graph.Node, x, y float64, detailed bool) string {
	label := n.ID
	if len(n.Labels) > 0 && n.Labels[0].Text != "" {
		label = n.Labels[0].Text
	}
	if !detailed {
		return label
	}

	parts := []string{
		fmt.Sprintf("pos: %s,%s", num(x), num(y)),
		fmt.Sprintf("size: %sx%s", num(n.Width), num(n.Height)),
	}
	for _, k := range slices.Sorted(maps.Keys(n.Properties)) {
		if strings.HasPrefix(k, "_") {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Properties[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
