package hierarchy

import (
	"slices"

	"github.com/matzehuels/strata/pkg/geometry"
	"github.com/matzehuels/strata/pkg/graph"
)

// HandleCrossHierarchyEdges routes every edge whose first source and first
// target have different parents. Each level was laid out on its own, so the
// edge is drawn straight between its endpoints in root coordinates with a
// bend point inserted wherever it leaves or enters a container. The section
// is stored in the frame of the innermost container enclosing both ends.
// It returns the number of edges routed.
func HandleCrossHierarchyEdges(g *graph.Graph, ix *graph.Index) int {
	routed := 0
	for _, e := range graph.AllEdges(g) {
		src, okS := ix.Resolve(e.Source())
		dst, okT := ix.Resolve(e.Target())
		if !okS || !okT || ix.Parent(src.ID) == ix.Parent(dst.ID) {
			continue
		}

		var frame *graph.Node
		switch {
		case ix.IsAncestor(src, dst):
			frame = src
		case ix.IsAncestor(dst, src):
			frame = dst
		default:
			frame = ix.CommonAncestor(src, dst)
		}

		srcBox, dstBox := ix.AbsoluteBounds(src), ix.AbsoluteBounds(dst)
		var start, end geometry.Point
		switch frame {
		case src:
			start = anchorInside(ix, e.Source(), src, srcBox, dstBox.Center())
			end = anchor(ix, e.Target(), dst, dstBox, start)
		case dst:
			end = anchorInside(ix, e.Target(), dst, dstBox, srcBox.Center())
			start = anchor(ix, e.Source(), src, srcBox, end)
		default:
			start = anchor(ix, e.Source(), src, srcBox, dstBox.Center())
			end = anchor(ix, e.Target(), dst, dstBox, srcBox.Center())
		}

		var bends []geometry.Point
		for _, c := range between(ix, src, frame) {
			if pt, ok := ix.AbsoluteBounds(c).ClipSegment(start, end); ok {
				bends = append(bends, pt)
			}
		}
		var entries []geometry.Point
		for _, c := range between(ix, dst, frame) {
			if pt, ok := ix.AbsoluteBounds(c).ClipSegment(end, start); ok {
				entries = append(entries, pt)
			}
		}
		slices.Reverse(entries)
		bends = append(bends, entries...)

		o := ix.Origin(frame)
		sec := &graph.EdgeSection{
			ID:            e.ID + "_s0",
			StartPoint:    start,
			EndPoint:      end,
			BendPoints:    bends,
			IncomingShape: src.ID,
			OutgoingShape: dst.ID,
		}
		sec.Translate(geometry.Vec(-o.X, -o.Y))
		e.Sections = []*graph.EdgeSection{sec}
		routed++
	}
	return routed
}

// anchor returns where an edge attaches to n in root coordinates: the port
// named by id, or the border point facing toward.
func anchor(ix *graph.Index, id string, n *graph.Node, box geometry.Rect, toward geometry.Point) geometry.Point {
	if p, ok := ix.Port(id); ok && p.Owner == n.ID {
		return geometry.Pt(box.X+p.X, box.Y+p.Y)
	}
	if pt, ok := box.ClipSegment(box.Center(), toward); ok {
		return pt
	}
	return box.Center()
}

// anchorInside is anchor for a container whose descendant sits at inner:
// the port named by id, or the border point nearest to inner.
func anchorInside(ix *graph.Index, id string, n *graph.Node, box geometry.Rect, inner geometry.Point) geometry.Point {
	if p, ok := ix.Port(id); ok && p.Owner == n.ID {
		return geometry.Pt(box.X+p.X, box.Y+p.Y)
	}
	return nearestBorder(box, inner)
}

// nearestBorder returns the point of r's border closest to p, which lies
// inside r. Ties prefer top, bottom, left, then right.
func nearestBorder(r geometry.Rect, p geometry.Point) geometry.Point {
	top, bottom := p.Y-r.Top(), r.Bottom()-p.Y
	left, right := p.X-r.Left(), r.Right()-p.X
	switch min(top, bottom, left, right) {
	case top:
		return geometry.Pt(p.X, r.Top())
	case bottom:
		return geometry.Pt(p.X, r.Bottom())
	case left:
		return geometry.Pt(r.Left(), p.Y)
	}
	return geometry.Pt(r.Right(), p.Y)
}

// between returns the ancestors of n strictly below frame, innermost first.
func between(ix *graph.Index, n, frame *graph.Node) []*graph.Node {
	if n == frame {
		return nil
	}
	var out []*graph.Node
	for cur := ix.Parent(n.ID); cur != nil && cur != frame; cur = ix.Parent(cur.ID) {
		out = append(out, cur)
	}
	return out
}
