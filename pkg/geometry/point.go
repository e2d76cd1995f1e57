package geometry

import "math"

// Epsilon is the tolerance used for near-zero lengths and float comparisons.
const Epsilon = 1e-9

// Point is a location in the plane. Points are values and are freely copied.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add translates p by v.
func (p Point) Add(v Vector) Point { return Point{p.X + v.X, p.Y + v.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector { return Vector{p.X - q.X, p.Y - q.Y} }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point { return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2} }

// Equal reports whether p and q coincide within tol.
func (p Point) Equal(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Vector is a displacement in the plane.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec is shorthand for Vector{X: x, Y: y}.
func Vec(x, y float64) Vector { return Vector{X: x, Y: y} }

func (v Vector) Add(w Vector) Vector      { return Vector{v.X + w.X, v.Y + w.Y} }
func (v Vector) Sub(w Vector) Vector      { return Vector{v.X - w.X, v.Y - w.Y} }
func (v Vector) Scale(s float64) Vector   { return Vector{v.X * s, v.Y * s} }
func (v Vector) Dot(w Vector) float64     { return v.X*w.X + v.Y*w.Y }
func (v Vector) Magnitude() float64       { return math.Hypot(v.X, v.Y) }
func (v Vector) Perpendicular() Vector    { return Vector{-v.Y, v.X} }
func (v Vector) Angle() float64           { return math.Atan2(v.Y, v.X) }
func (v Vector) IsZero() bool             { return v.Magnitude() < Epsilon }
func (v Vector) Negate() Vector           { return Vector{-v.X, -v.Y} }
func (v Vector) Cross(w Vector) float64   { return v.X*w.Y - v.Y*w.X }
func (v Vector) AngleTo(w Vector) float64 { return math.Atan2(v.Cross(w), v.Dot(w)) }

// Div divides v by s. Division by zero yields the zero vector.
func (v Vector) Div(s float64) Vector {
	if s == 0 {
		return Vector{}
	}
	return Vector{v.X / s, v.Y / s}
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vector) Normalize() Vector {
	m := v.Magnitude()
	if m < Epsilon {
		return Vector{}
	}
	return Vector{v.X / m, v.Y / m}
}
