package geometry

import "math"

// Dimension is a width/height pair.
type Dimension struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether either side is zero.
func (d Dimension) IsZero() bool { return d.Width == 0 || d.Height == 0 }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the centre point of r.
func (r Rect) Center() Point { return Point{r.X + r.Width/2, r.Y + r.Height/2} }

// Size returns the dimension of r.
func (r Rect) Size() Dimension { return Dimension{r.Width, r.Height} }

// Contains reports whether p lies inside r or on its boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Translate returns r moved by v.
func (r Rect) Translate(v Vector) Rect {
	return Rect{r.X + v.X, r.Y + v.Y, r.Width, r.Height}
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.Left(), o.Left())
	minY := math.Min(r.Top(), o.Top())
	maxX := math.Max(r.Right(), o.Right())
	maxY := math.Max(r.Bottom(), o.Bottom())
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left() < o.Right() && o.Left() < r.Right() && r.Top() < o.Bottom() && o.Top() < r.Bottom()
}

// Bounds returns the bounding box of rects. The second result is false
// when rects is empty.
func Bounds(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	b := rects[0]
	for _, r := range rects[1:] {
		b = b.Union(r)
	}
	return b, true
}

// ClipSegment returns the point where the segment from inside to outside
// leaves r. inside must lie within r. If outside is also inside r the
// second result is false.
func (r Rect) ClipSegment(inside, outside Point) (Point, bool) {
	if r.Contains(outside) {
		return Point{}, false
	}
	d := outside.Sub(inside)
	t := math.Inf(1)
	if d.X > 0 {
		t = math.Min(t, (r.Right()-inside.X)/d.X)
	} else if d.X < 0 {
		t = math.Min(t, (r.Left()-inside.X)/d.X)
	}
	if d.Y > 0 {
		t = math.Min(t, (r.Bottom()-inside.Y)/d.Y)
	} else if d.Y < 0 {
		t = math.Min(t, (r.Top()-inside.Y)/d.Y)
	}
	if math.IsInf(t, 1) {
		return Point{}, false
	}
	t = math.Max(0, math.Min(1, t))
	return inside.Add(d.Scale(t)), true
}

// Insets are per-side margins, used for container padding.
type Insets struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// UniformInsets returns Insets with v on every side.
func UniformInsets(v float64) Insets { return Insets{v, v, v, v} }

// Horizontal returns Left+Right.
func (i Insets) Horizontal() float64 { return i.Left + i.Right }

// Vertical returns Top+Bottom.
func (i Insets) Vertical() float64 { return i.Top + i.Bottom }
