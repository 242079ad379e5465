package geom

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec `json:"min"`
	Max Vec `json:"max"`
}

// BoxAround returns the box of the given size centred on c.
func BoxAround(c Vec, w, h float64) Box {
	return Box{Min: Vec{c.X - w/2, c.Y - h/2}, Max: Vec{c.X + w/2, c.Y + h/2}}
}

// BoxOf returns the smallest box containing every point.
func BoxOf(pts ...Vec) Box {
	if len(pts) == 0 {
		return Box{}
	}
	b := Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

func (b Box) Width() float64 { return b.Max.X - b.Min.X }
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }
func (b Box) Center() Vec { return Lerp(b.Min, b.Max, 0.5) }

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	return BoxOf(b.Min, b.Max, o.Min, o.Max)
}

// Edge returns the critical point of b in direction d: for each axis the
// maximum, minimum or centre coordinate depending on the sign of d.
// Edge(Down) is the midpoint of the bottom side, Edge(UL) the top-left corner.
func (b Box) Edge(d Vec) Vec {
	c := b.Center()
	s := Sign(d)
	return Vec{
		X: c.X + s.X*b.Width()/2,
		Y: c.Y + s.Y*b.Height()/2,
	}
}

// Extent returns the size of b measured along the axis of d.
func (b Box) Extent(d Vec) float64 {
	if math.Abs(d.X) >= math.Abs(d.Y) {
		return b.Width()
	}
	return b.Height()
}
