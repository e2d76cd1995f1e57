// Package geometry provides the value types and math used by the layout
// engine: points, vectors, rectangles, insets and cubic Bézier curves.
//
// All types are plain values. Operations never mutate their receiver, so
// geometry values can be copied and shared without aliasing concerns.
//
// # Bézier curves
//
// [BezierPoint] evaluates the standard cubic Bernstein blend and
// [CalculateCurve] samples a curve into a polyline. Control points come from
// one of three helpers:
//
//   - [ControlPoints]: offset perpendicular to the start→end segment
//   - [HorizontalControlPoints]: for left-to-right flows
//   - [VerticalControlPoints]: for top-to-bottom flows
//
// Edge routers use these to turn a start and end point into the bend points
// of a spline edge section.
package geometry
