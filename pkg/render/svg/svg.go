// Package svg draws a laid out graph as a standalone SVG document.
//
// Every element is drawn exactly where the layout put it: containers as
// outlined boxes, leaf nodes as filled boxes, ports as small squares on
// the node border and edges as polylines through their sections' bend
// points. Coordinates of nested elements are converted to absolute ones.
//
//	data := svg.Render(g, svg.WithLabels())
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/strata/pkg/geometry"
	"github.com/matzehuels/strata/pkg/graph"
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	labels  bool
	ports   bool
	margin  float64
	palette []string
}

// WithLabels draws node ids, or the first label text when present.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithoutPorts hides ports.
func WithoutPorts() Option { return func(r *renderer) { r.ports = false } }

// WithMargin sets the empty border around the drawing.
func WithMargin(m float64) Option { return func(r *renderer) { r.margin = m } }

// containerFills shade nesting levels alternately.
var containerFills = []string{"#f5f7fa", "#e8edf3"}

// Render returns the SVG document for g. The graph must have been laid out
// and its ids must be unique.
func Render(g *graph.Graph, opts ...Option) ([]byte, error) {
	r := renderer{ports: true, margin: 10, palette: containerFills}
	for _, opt := range opts {
		opt(&r)
	}
	ix, err := graph.NewIndex(g)
	if err != nil {
		return nil, err
	}

	w, h := extent(g, ix)
	w += 2 * r.margin
	h += 2 * r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	buf.WriteString(`  <defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="#333"/></marker></defs>` + "\n")
	fmt.Fprintf(&buf, `  <g transform="translate(%.2f %.2f)">`+"\n", r.margin, r.margin)

	for _, n := range ix.Nodes() {
		r.renderNode(&buf, ix, n)
	}
	for _, e := range graph.AllEdges(g) {
		r.renderEdge(&buf, ix, e)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes(), nil
}

// extent returns the size of the drawing: the graph size, grown to cover
// any node or bend point outside of it.
func extent(g *graph.Graph, ix *graph.Index) (float64, float64) {
	w, h := g.Width, g.Height
	for _, n := range ix.Nodes() {
		b := ix.AbsoluteBounds(n)
		w, h = max(w, b.Right()), max(h, b.Bottom())
	}
	return w, h
}

func (r *renderer) renderNode(buf *bytes.Buffer, ix *graph.Index, n *graph.Node) {
	b := ix.AbsoluteBounds(n)
	fill, class := "white", "node"
	if n.IsHierarchical() {
		fill = r.palette[ix.Depth(n.ID)%len(r.palette)]
		class = "container"
	}
	fmt.Fprintf(buf, `    <rect id="node-%s" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" fill="%s" stroke="#333"/>`+"\n",
		escape(n.ID), class, b.X, b.Y, b.Width, b.Height, fill)

	if r.ports {
		for _, p := range n.Ports {
			pw, ph := max(p.Width, 4), max(p.Height, 4)
			fmt.Fprintf(buf, `    <rect id="port-%s" class="port" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#333"/>`+"\n",
				escape(p.ID), b.X+p.X-pw/2, b.Y+p.Y-ph/2, pw, ph)
		}
	}

	if r.labels {
		text := n.ID
		if len(n.Labels) > 0 && n.Labels[0].Text != "" {
			text = n.Labels[0].Text
		}
		x, y := b.Center().X, b.Center().Y
		if n.IsHierarchical() {
			y = b.Y + 12
		}
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="%.1f">%s</text>`+"\n",
			x, y, fontSize(b, text), escape(text))
	}
}

func (r *renderer) renderEdge(buf *bytes.Buffer, ix *graph.Index, e *graph.Edge) {
	origin := sectionOrigin(ix, e)
	for _, s := range e.Sections {
		pts := s.Points()
		parts := make([]string, len(pts))
		for i, p := range pts {
			parts[i] = fmt.Sprintf("%.2f,%.2f", p.X+origin.X, p.Y+origin.Y)
		}
		fmt.Fprintf(buf, `    <polyline id="edge-%s" class="edge" points="%s" fill="none" stroke="#333" marker-end="url(#arrow)"/>`+"\n",
			escape(s.ID), strings.Join(parts, " "))
	}
	if !r.labels {
		return
	}
	for _, l := range e.Labels {
		if l.Text == "" {
			continue
		}
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="10">%s</text>`+"\n",
			l.X+origin.X, l.Y+l.Height+origin.Y, escape(l.Text))
	}
}

// sectionOrigin returns the absolute origin of the frame e's sections are
// stored in: the innermost container holding both endpoints, or the
// ancestor endpoint itself when one end contains the other.
func sectionOrigin(ix *graph.Index, e *graph.Edge) geometry.Point {
	src, ok1 := ix.Resolve(e.Source())
	dst, ok2 := ix.Resolve(e.Target())
	if !ok1 || !ok2 {
		return geometry.Point{}
	}
	switch {
	case ix.IsAncestor(src, dst):
		return ix.Origin(src)
	case ix.IsAncestor(dst, src):
		return ix.Origin(dst)
	}
	return ix.Origin(ix.CommonAncestor(src, dst))
}

const (
	fontSizeMin    = 6.0
	fontSizeMax    = 14.0
	fontCharWidth  = 0.55
	fontWidthRatio = 0.9
)

func fontSize(b geometry.Rect, text string) float64 {
	n := max(1, len(text))
	byWidth := b.Width * fontWidthRatio / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, byWidth, b.Height*0.6))
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
