package geometry

// BezierPoint evaluates the cubic Bézier curve p0,p1,p2,p3 at t.
// t is clamped to [0, 1].
func BezierPoint(t float64, p0, p1, p2, p3 Point) Point {
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return Point{
		X: b0*p0.X + b1*p1.X + b2*p2.X + b3*p3.X,
		Y: b0*p0.Y + b1*p1.Y + b2*p2.Y + b3*p3.Y,
	}
}

// CalculateCurve samples n points of the cubic curve from start to end with
// control points c1 and c2, at evenly spaced t including both endpoints.
// The first sample is exactly start and the last exactly end.
// n == 1 yields only start; n <= 0 yields nil.
func CalculateCurve(start, end, c1, c2 Point, n int) []Point {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []Point{start}
	}
	pts := make([]Point, n)
	for i := range n {
		pts[i] = BezierPoint(float64(i)/float64(n-1), start, c1, c2, end)
	}
	pts[0], pts[n-1] = start, end
	return pts
}

// ControlPoints places two control points at one and two thirds along the
// start→end segment, both offset perpendicular to it by
// curvature*distance/3. Near-zero segments collapse to the endpoints.
func ControlPoints(start, end Point, curvature float64) (Point, Point) {
	d := end.Sub(start)
	dist := d.Magnitude()
	if dist < Epsilon {
		return start, end
	}
	offset := d.Normalize().Perpendicular().Scale(curvature * dist / 3)
	c1 := start.Add(d.Scale(1.0 / 3)).Add(offset)
	c2 := start.Add(d.Scale(2.0 / 3)).Add(offset)
	return c1, c2
}

// HorizontalControlPoints offsets the control points along the x axis by
// curvature times the horizontal distance. c1 keeps start's y and c2 keeps
// end's y, which yields the familiar left-to-right S-curve.
func HorizontalControlPoints(start, end Point, curvature float64) (Point, Point) {
	if end.Sub(start).IsZero() {
		return start, end
	}
	dx := (end.X - start.X) * curvature
	return Point{start.X + dx, start.Y}, Point{end.X - dx, end.Y}
}

// VerticalControlPoints is the top-to-bottom analogue of
// HorizontalControlPoints.
func VerticalControlPoints(start, end Point, curvature float64) (Point, Point) {
	if end.Sub(start).IsZero() {
		return start, end
	}
	dy := (end.Y - start.Y) * curvature
	return Point{start.X, start.Y + dy}, Point{end.X, end.Y - dy}
}
