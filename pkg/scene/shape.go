// Package scene is the in-process shape layer the data structures draw into.
//
// A scene is a tree of [Shape] values: rectangles, circles, line segments,
// arcs, text and groups. Every shape knows its bounding box and can be shifted,
// scaled and copied. The free functions in this package ([MoveTo], [NextTo],
// [MoveToAligned], [Scale]) implement relative placement on top of that small
// interface, so data structures never need to know which concrete shape they
// are positioning.
//
// Shapes carry stable string identifiers generated with github.com/google/uuid.
// Transitions in package anim refer to shapes by these IDs.
//
// # Tick hooks
//
// Derived geometry (a stack's spawn point, an array's index buffer) is
// recomputed by [Updater] implementations registered on a [Scene]. The host
// calls [Scene.Tick] once per rendered frame and after every mutation step.
package scene

import (
	"github.com/google/uuid"

	"github.com/matzehuels/dsanim/pkg/geom"
)

// Shape kinds, used by renderers and the JSON timeline.
const (
	KindRect   = "rect"
	KindCircle = "circle"
	KindLine   = "line"
	KindArc    = "arc"
	KindText   = "text"
	KindGroup  = "group"
)

// Shape is any drawable element of the scene graph.
type Shape interface {
	ID() string
	Kind() string
	// Bounds returns the axis-aligned bounding box in scene units.
	Bounds() geom.Box
	// Shift translates the shape by d.
	Shift(d geom.Vec)
	// ScaleAbout scales the shape by f around the fixed point about.
	ScaleAbout(f float64, about geom.Vec)
	// Copy returns a deep copy with fresh identifiers.
	Copy() Shape
}

// Stroked is implemented by shapes drawn with a [ShapeStyle].
type Stroked interface {
	Shape
	Stroke() *ShapeStyle
}

func newID() string { return uuid.NewString() }

// =============================================================================
// Placement helpers
// =============================================================================

// Center returns the centre of s's bounding box.
func Center(s Shape) geom.Vec { return s.Bounds().Center() }

// Width returns the width of s's bounding box.
func Width(s Shape) float64 { return s.Bounds().Width() }

// Height returns the height of s's bounding box.
func Height(s Shape) float64 { return s.Bounds().Height() }

// Edge returns the critical point of s in direction d.
func Edge(s Shape, d geom.Vec) geom.Vec { return s.Bounds().Edge(d) }

// MoveTo shifts s so that its centre lands on p.
func MoveTo(s Shape, p geom.Vec) {
	s.Shift(p.Sub(Center(s)))
}

// MoveToAligned shifts s so that its critical point in direction anchor lands
// on p. MoveToAligned(s, p, geom.Down) puts the bottom edge of s on p.
func MoveToAligned(s Shape, p, anchor geom.Vec) {
	s.Shift(p.Sub(Edge(s, anchor)))
}

// NextTo places s beside target in direction d, leaving buff units between
// the two bounding boxes.
func NextTo(s, target Shape, d geom.Vec, buff float64) {
	NextToPoint(s, Edge(target, d), d, buff)
}

// NextToPoint places s so that its critical point opposite d sits buff units
// from p along d.
func NextToPoint(s Shape, p, d geom.Vec, buff float64) {
	MoveToAligned(s, p.Add(d.Mul(buff)), d.Neg())
}

// Scale scales s by f around its own centre.
func Scale(s Shape, f float64) {
	s.ScaleAbout(f, Center(s))
}

// SetWidth rescales s uniformly so that its width becomes w.
func SetWidth(s Shape, w float64) {
	if cur := Width(s); cur > geom.Epsilon {
		Scale(s, w/cur)
	}
}

// Walk visits s and every descendant depth-first. Returning false from fn
// skips the children of the visited group.
func Walk(s Shape, fn func(Shape) bool) {
	if !fn(s) {
		return
	}
	if g, ok := s.(*Group); ok {
		for _, c := range g.children {
			Walk(c, fn)
		}
	}
}

// Find returns the descendant of root with the given ID.
func Find(root Shape, id string) (Shape, bool) {
	var found Shape
	Walk(root, func(s Shape) bool {
		if found != nil {
			return false
		}
		if s.ID() == id {
			found = s
			return false
		}
		return true
	})
	return found, found != nil
}

// IDs returns the identifiers of s and all of its descendants.
func IDs(s Shape) []string {
	var ids []string
	Walk(s, func(x Shape) bool {
		ids = append(ids, x.ID())
		return true
	})
	return ids
}
