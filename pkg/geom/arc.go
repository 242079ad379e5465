package geom

import "math"

// arcSamples is the number of points used to approximate an arc.
const arcSamples = 48

// Arc is a circular arc described by its centre, radius, the angle of its
// first point and a signed sweep. Positive sweeps run counter-clockwise.
type Arc struct {
	Center     Vec
	Radius     float64
	StartAngle float64
	Sweep      float64
}

// ArcBetween returns the arc from start to end subtending angle radians.
// A positive angle bulges to the right of the direction of travel.
// ok is false when the arc degenerates to a straight segment (angle close to
// zero or coincident endpoints).
func ArcBetween(start, end Vec, angle float64) (a Arc, ok bool) {
	chord := end.Sub(start)
	l := chord.Len()
	half := angle / 2
	if l < Epsilon || math.Abs(math.Sin(half)) < Epsilon {
		return Arc{}, false
	}
	r := l / (2 * math.Abs(math.Sin(half)))
	// The centre sits on the left normal for counter-clockwise sweeps.
	left := chord.Unit().Perp().Neg()
	d := r * math.Cos(half)
	if angle < 0 {
		d = -d
	}
	c := start.Add(chord.Mul(0.5)).Add(left.Mul(d))
	return Arc{
		Center:     c,
		Radius:     r,
		StartAngle: start.Sub(c).Angle(),
		Sweep:      angle,
	}, true
}

// Point returns the point at parameter t in [0, 1] along the arc.
func (a Arc) Point(t float64) Vec {
	return a.Center.Add(Polar(a.StartAngle + a.Sweep*t).Mul(a.Radius))
}

// Points samples n+1 evenly spaced points along the arc.
func (a Arc) Points(n int) []Vec {
	if n < 1 {
		n = arcSamples
	}
	pts := make([]Vec, n+1)
	for i := range pts {
		pts[i] = a.Point(float64(i) / float64(n))
	}
	return pts
}

// Length returns the arc length.
func (a Arc) Length() float64 { return a.Radius * math.Abs(a.Sweep) }

// Tangent returns the unit direction of travel at parameter t.
func (a Arc) Tangent(t float64) Vec {
	radial := Polar(a.StartAngle + a.Sweep*t)
	if a.Sweep >= 0 {
		return radial.Rotate(math.Pi / 2)
	}
	return radial.Rotate(-math.Pi / 2)
}

// Bounds returns the bounding box of the sampled arc.
func (a Arc) Bounds() Box { return BoxOf(a.Points(arcSamples)...) }

// BoundaryPoint returns the sampled point of the arc furthest along d.
func (a Arc) BoundaryPoint(d Vec) Vec { return SupportPoint(a.Points(arcSamples), d) }

// SupportPoint returns the point of pts with the largest projection on d.
func SupportPoint(pts []Vec, d Vec) Vec {
	if len(pts) == 0 {
		return Origin
	}
	best, bestDot := pts[0], pts[0].Dot(d)
	for _, p := range pts[1:] {
		if dot := p.Dot(d); dot > bestDot {
			best, bestDot = p, dot
		}
	}
	return best
}

// PathPoint interpolates from a to b at t. A non-zero arc moves along the
// circular arc subtending that angle instead of the straight segment.
func PathPoint(a, b Vec, arc, t float64) Vec {
	if arc == 0 {
		return Lerp(a, b, t)
	}
	g, ok := ArcBetween(a, b, arc)
	if !ok {
		return Lerp(a, b, t)
	}
	return g.Point(t)
}
