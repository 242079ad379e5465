// Package geom provides the 2D vector, box and arc math shared by the scene
// graph, the data-structure wrappers and the renderer.
//
// Coordinates follow the animation convention: x grows to the right, y grows
// upward, and one unit is roughly one element square. Renderers flip the y
// axis when emitting SVG.
package geom

import "math"

// Epsilon is the tolerance used by the approximate comparisons in this package.
const Epsilon = 1e-9

// Vec is a point or direction in the plane.
type Vec struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
}

// Axis-aligned unit directions and their diagonal combinations.
var (
	Origin = Vec{0, 0}
	Up     = Vec{0, 1}
	Down   = Vec{0, -1}
	Left   = Vec{-1, 0}
	Right  = Vec{1, 0}
	UL     = Vec{-1, 1}
	UR     = Vec{1, 1}
	DL     = Vec{-1, -1}
	DR     = Vec{1, -1}
)

// V is shorthand for Vec{x, y}.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Mul(f float64) Vec { return Vec{v.X * f, v.Y * f} }
func (v Vec) Neg() Vec { return Vec{-v.X, -v.Y} }
func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec) Cross(o Vec) float64 { return v.X*o.Y - v.Y*o.X }
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64 { return v.Sub(o).Len() }
func (v Vec) Angle() float64 { return math.Atan2(v.Y, v.X) }
func (v Vec) IsZero() bool { return v.Len() < Epsilon }
func (v Vec) Approx(o Vec, tol float64) bool { return v.Dist(o) <= tol }

// Unit returns v scaled to length one. The zero vector is returned unchanged.
func (v Vec) Unit() Vec {
	l := v.Len()
	if l < Epsilon {
		return v
	}
	return Vec{v.X / l, v.Y / l}
}

// Perp returns v rotated by -90 degrees, i.e. the right-hand normal of a
// segment travelling along v.
func (v Vec) Perp() Vec { return Vec{v.Y, -v.X} }

// Rotate returns v rotated counter-clockwise by theta radians.
func (v Vec) Rotate(theta float64) Vec {
	s, c := math.Sincos(theta)
	return Vec{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Polar returns the unit vector at angle theta.
func Polar(theta float64) Vec {
	s, c := math.Sincos(theta)
	return Vec{c, s}
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b Vec, t float64) Vec {
	return Vec{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// IsAxis reports whether d is one of Up, Down, Left or Right.
func IsAxis(d Vec) bool {
	return d.Approx(Up, Epsilon) || d.Approx(Down, Epsilon) ||
		d.Approx(Left, Epsilon) || d.Approx(Right, Epsilon)
}

// Parallel reports whether a and b lie on the same line through the origin,
// regardless of orientation.
func Parallel(a, b Vec) bool {
	return math.Abs(a.Unit().Cross(b.Unit())) < Epsilon
}

// Sign returns the per-component sign of v (-1, 0 or 1).
func Sign(v Vec) Vec {
	return Vec{sign(v.X), sign(v.Y)}
}

func sign(f float64) float64 {
	switch {
	case f > Epsilon:
		return 1
	case f < -Epsilon:
		return -1
	}
	return 0
}
