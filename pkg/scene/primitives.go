package scene

import (
	"unicode/utf8"

	"github.com/matzehuels/dsanim/pkg/geom"
)

// Text metrics. Fonts are treated as monospace: every rune advances
// CharWidth em, and the line box is HeightRatio em tall.
const (
	PointUnit   = 1.0 / 96
	CharWidth   = 0.55
	HeightRatio = 0.7
)

// DefaultTipLength is the length of an arrow tip in scene units.
const DefaultTipLength = 0.35

// =============================================================================
// Rect
// =============================================================================

// Rect is an axis-aligned rectangle.
type Rect struct {
	id    string
	C     geom.Vec
	W, H  float64
	Style ShapeStyle
}

// NewRect creates a rectangle sized by style.Width and style.Height, centred
// on the origin.
func NewRect(style ShapeStyle) *Rect {
	return &Rect{id: newID(), W: style.Width, H: style.Height, Style: style}
}

func (r *Rect) ID() string { return r.id }
func (r *Rect) Kind() string { return KindRect }
func (r *Rect) Bounds() geom.Box { return geom.BoxAround(r.C, r.W, r.H) }
func (r *Rect) Shift(d geom.Vec) { r.C = r.C.Add(d) }
func (r *Rect) Stroke() *ShapeStyle { return &r.Style }

func (r *Rect) ScaleAbout(f float64, about geom.Vec) {
	r.C = about.Add(r.C.Sub(about).Mul(f))
	r.W *= f
	r.H *= f
}

func (r *Rect) Copy() Shape {
	c := *r
	c.id = newID()
	return &c
}

// =============================================================================
// Circle
// =============================================================================

// Circle is a circle given by centre and radius.
type Circle struct {
	id    string
	C     geom.Vec
	R     float64
	Style ShapeStyle
}

// NewCircle creates a circle of radius style.Radius centred on the origin.
func NewCircle(style ShapeStyle) *Circle {
	return &Circle{id: newID(), R: style.Radius, Style: style}
}

func (c *Circle) ID() string { return c.id }
func (c *Circle) Kind() string { return KindCircle }
func (c *Circle) Bounds() geom.Box { return geom.BoxAround(c.C, 2*c.R, 2*c.R) }
func (c *Circle) Shift(d geom.Vec) { c.C = c.C.Add(d) }
func (c *Circle) Stroke() *ShapeStyle { return &c.Style }

func (c *Circle) ScaleAbout(f float64, about geom.Vec) {
	c.C = about.Add(c.C.Sub(about).Mul(f))
	c.R *= f
}

func (c *Circle) Copy() Shape {
	cp := *c
	cp.id = newID()
	return &cp
}

// BoundaryToward returns the point on the circle in direction d from its centre.
func (c *Circle) BoundaryToward(d geom.Vec) geom.Vec {
	return c.C.Add(d.Unit().Mul(c.R))
}

// =============================================================================
// Line
// =============================================================================

// Line is a straight segment, optionally ending in an arrow tip.
type Line struct {
	id         string
	Start, End geom.Vec
	Tip        bool
	TipLength  float64
	Style      ShapeStyle
}

// NewLine creates a segment from start to end.
func NewLine(start, end geom.Vec, style ShapeStyle) *Line {
	return &Line{id: newID(), Start: start, End: end, TipLength: DefaultTipLength, Style: style}
}

func (l *Line) ID() string { return l.id }
func (l *Line) Kind() string { return KindLine }
func (l *Line) Bounds() geom.Box { return geom.BoxOf(l.Start, l.End) }
func (l *Line) Stroke() *ShapeStyle { return &l.Style }
func (l *Line) Length() float64 { return l.Start.Dist(l.End) }
func (l *Line) Midpoint() geom.Vec { return geom.Lerp(l.Start, l.End, 0.5) }

func (l *Line) Shift(d geom.Vec) {
	l.Start = l.Start.Add(d)
	l.End = l.End.Add(d)
}

func (l *Line) ScaleAbout(f float64, about geom.Vec) {
	l.Start = about.Add(l.Start.Sub(about).Mul(f))
	l.End = about.Add(l.End.Sub(about).Mul(f))
	l.TipLength *= f
}

func (l *Line) Copy() Shape {
	c := *l
	c.id = newID()
	return &c
}

// Direction returns the unit direction from start to end.
func (l *Line) Direction() geom.Vec { return l.End.Sub(l.Start).Unit() }

// =============================================================================
// Arc
// =============================================================================

// Arc is a circular arc between two points. A positive Angle bulges to the
// right of the direction of travel; an angle of zero draws a straight segment.
type Arc struct {
	id         string
	Start, End geom.Vec
	Angle      float64
	Tip        bool
	TipLength  float64
	Style      ShapeStyle
}

// NewArc creates an arc from start to end subtending angle radians.
func NewArc(start, end geom.Vec, angle float64, style ShapeStyle) *Arc {
	return &Arc{id: newID(), Start: start, End: end, Angle: angle, TipLength: DefaultTipLength, Style: style}
}

func (a *Arc) ID() string { return a.id }
func (a *Arc) Kind() string { return KindArc }
func (a *Arc) Stroke() *ShapeStyle { return &a.Style }

// Geometry returns the underlying circle arc. ok is false for degenerate arcs.
func (a *Arc) Geometry() (geom.Arc, bool) { return geom.ArcBetween(a.Start, a.End, a.Angle) }

func (a *Arc) Bounds() geom.Box {
	g, ok := a.Geometry()
	if !ok {
		return geom.BoxOf(a.Start, a.End)
	}
	return g.Bounds()
}

func (a *Arc) Shift(d geom.Vec) {
	a.Start = a.Start.Add(d)
	a.End = a.End.Add(d)
}

func (a *Arc) ScaleAbout(f float64, about geom.Vec) {
	a.Start = about.Add(a.Start.Sub(about).Mul(f))
	a.End = about.Add(a.End.Sub(about).Mul(f))
	a.TipLength *= f
}

func (a *Arc) Copy() Shape {
	c := *a
	c.id = newID()
	return &c
}

// Length returns the arc length, or the chord length for degenerate arcs.
func (a *Arc) Length() float64 {
	if g, ok := a.Geometry(); ok {
		return g.Length()
	}
	return a.Start.Dist(a.End)
}

// BoundaryPoint returns the point of the arc furthest in direction d.
func (a *Arc) BoundaryPoint(d geom.Vec) geom.Vec {
	if g, ok := a.Geometry(); ok {
		return g.BoundaryPoint(d)
	}
	return geom.SupportPoint([]geom.Vec{a.Start, a.End}, d)
}

// EndTangent returns the direction of travel at the end point.
func (a *Arc) EndTangent() geom.Vec {
	if g, ok := a.Geometry(); ok {
		return g.Tangent(1)
	}
	return a.End.Sub(a.Start).Unit()
}

// =============================================================================
// Text
// =============================================================================

// Text is a single line of text centred on C. Size is the font size in points.
type Text struct {
	id      string
	Content string
	C       geom.Vec
	Size    float64
	Style   TextStyle
}

// NewText creates a text centred on the origin using style.FontSize.
func NewText(content string, style TextStyle) *Text {
	return &Text{id: newID(), Content: content, Size: style.FontSize, Style: style}
}

func (t *Text) ID() string { return t.id }
func (t *Text) Kind() string { return KindText }
func (t *Text) Shift(d geom.Vec) { t.C = t.C.Add(d) }

// Em returns the font size in scene units.
func (t *Text) Em() float64 { return t.Size * PointUnit }

func (t *Text) Bounds() geom.Box {
	em := t.Em()
	w := float64(utf8.RuneCountInString(t.Content)) * CharWidth * em
	return geom.BoxAround(t.C, w, HeightRatio*em)
}

func (t *Text) ScaleAbout(f float64, about geom.Vec) {
	t.C = about.Add(t.C.Sub(about).Mul(f))
	t.Size *= f
}

func (t *Text) Copy() Shape {
	c := *t
	c.id = newID()
	return &c
}
