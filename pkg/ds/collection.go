package ds

import (
	"math"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// DefaultSwapArc is the path angle used by animated swaps.
const DefaultSwapArc = math.Pi / 2

type cell interface {
	elem() *Element
}

// Collection is an ordered row of elements growing along one axis.
//
// Element i+1 always sits margin units past element i along the growth
// direction. The first element sits on the spawn point, an invisible square
// that marks slot 0 even when the collection is empty.
type Collection[E cell] struct {
	group    *scene.Group
	elements []E
	dir      geom.Vec
	margin   float64
	spawn    *scene.Rect
	square   scene.ShapeStyle
	value    scene.TextStyle
	label    Label
	newCell  func(value any, square scene.ShapeStyle, valueStyle scene.TextStyle) E
}

func newCollection[E cell](values []any, cfg config, newCell func(any, scene.ShapeStyle, scene.TextStyle) E) *Collection[E] {
	spawnStyle := cfg.square
	spawnStyle.Hidden = true
	c := &Collection[E]{
		dir:     cfg.direction,
		margin:  cfg.margin,
		spawn:   scene.NewRect(spawnStyle),
		square:  cfg.square,
		value:   cfg.value,
		newCell: newCell,
	}
	c.group = scene.NewGroup(c.spawn)
	for _, v := range values {
		c.append(v)
	}
	scene.MoveTo(c.group, geom.Origin)
	return c
}

// Shape returns the group holding every shape of the collection.
func (c *Collection[E]) Shape() scene.Shape { return c.group }

// Len returns the number of elements.
func (c *Collection[E]) Len() int { return len(c.elements) }

// Direction returns the growth direction.
func (c *Collection[E]) Direction() geom.Vec { return c.dir }

// Margin returns the gap between consecutive elements.
func (c *Collection[E]) Margin() float64 { return c.margin }

// SpawnSquare returns the invisible square marking slot 0.
func (c *Collection[E]) SpawnSquare() *scene.Rect { return c.spawn }

// Label returns the attached label, or nil.
func (c *Collection[E]) Label() *scene.Text { return c.label.Text() }

// At returns element i.
func (c *Collection[E]) At(i int) (E, error) {
	if err := c.checkIndex(i); err != nil {
		var zero E
		return zero, err
	}
	return c.elements[i], nil
}

// Elements returns the elements in order. The slice is a copy.
func (c *Collection[E]) Elements() []E {
	out := make([]E, len(c.elements))
	copy(out, c.elements)
	return out
}

// Values returns the displayed values in order.
func (c *Collection[E]) Values() []string {
	out := make([]string, len(c.elements))
	for i, e := range c.elements {
		out[i] = e.elem().Value()
	}
	return out
}

func (c *Collection[E]) checkIndex(i int) error {
	if i < 0 || i >= len(c.elements) {
		return errors.New(errors.ErrCodeOutOfBounds, "index %d out of range [0, %d)", i, len(c.elements))
	}
	return nil
}

// squareRef is the square new elements are sized from: the first element's
// square, or the spawn square when empty.
func (c *Collection[E]) squareRef() *scene.Rect {
	if len(c.elements) > 0 {
		return c.elements[0].elem().square
	}
	return c.spawn
}

// currentSquareStyle scales the configured square style to the current size
// of the collection, so appends after a zoom match the existing squares.
func (c *Collection[E]) currentSquareStyle() scene.ShapeStyle {
	st := c.square
	if st.Width > 0 {
		f := c.squareRef().W / st.Width
		st.Width *= f
		st.Height *= f
	}
	return st
}

// append creates and places a new element and returns it.
func (c *Collection[E]) append(v any) E {
	e := c.newCell(v, c.currentSquareStyle(), c.value)
	g := e.elem().group
	if n := len(c.elements); n > 0 {
		scene.NextTo(g, c.elements[n-1].elem().square, c.dir, c.margin)
	} else {
		scene.MoveTo(g, c.spawn.C)
	}
	c.elements = append(c.elements, e)
	c.group.Add(g)
	return e
}

// remove drops element i and closes the gap. It returns the removed element,
// the elements that moved and how far they moved.
func (c *Collection[E]) remove(i int) (E, []E, geom.Vec) {
	popped := c.elements[i]
	c.group.Remove(popped.elem().group)
	c.elements = append(c.elements[:i:i], c.elements[i+1:]...)

	sq := popped.elem().square
	delta := c.dir.Mul(-(sq.Bounds().Extent(c.dir) + c.margin))
	shifted := c.elements[i:]
	for _, e := range shifted {
		e.elem().group.Shift(delta)
	}
	return popped, shifted, delta
}

// visualSwap exchanges the positions of the bodies of elements i and j,
// anchored at their bottom edges.
func (c *Collection[E]) visualSwap(i, j int) {
	bi, bj := c.elements[i].elem().body, c.elements[j].elem().body
	pi, pj := scene.Edge(bi, geom.Down), scene.Edge(bj, geom.Down)
	scene.MoveToAligned(bi, pj, geom.Down)
	scene.MoveToAligned(bj, pi, geom.Down)
}

func (c *Collection[E]) checkSwap(i, j int) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	return c.checkIndex(j)
}

// Append adds v at the end of the collection.
func (c *Collection[E]) Append(v any) E { return c.append(v) }

// AnimateAppend adds v and returns a transition writing the new element in.
func (c *Collection[E]) AnimateAppend(v any) (E, *anim.Transition) {
	e := c.append(v)
	return e, anim.Write(e.elem().group)
}

// Pop removes element i and shifts the following elements back by one slot.
// Popping an empty collection does nothing.
func (c *Collection[E]) Pop(i int) error {
	if len(c.elements) == 0 {
		return nil
	}
	if err := c.checkIndex(i); err != nil {
		return err
	}
	c.remove(i)
	return nil
}

// AnimatePop removes element i and returns a transition fading it out while
// the following elements slide into place.
func (c *Collection[E]) AnimatePop(i int) (*anim.Transition, error) {
	if len(c.elements) == 0 {
		return nil, nil
	}
	if err := c.checkIndex(i); err != nil {
		return nil, err
	}
	popped, shifted, delta := c.remove(i)
	return anim.Group(anim.FadeOut(popped.elem().group), shiftMoves(shifted, delta)), nil
}

func shiftMoves[E cell](shifted []E, delta geom.Vec) *anim.Transition {
	moves := make([]*anim.Transition, 0, len(shifted))
	for _, e := range shifted {
		g := e.elem().group
		to := scene.Center(g)
		moves = append(moves, anim.Move(g, to.Sub(delta), to))
	}
	return anim.Group(moves...)
}

// Swap exchanges elements i and j, both logically and on screen.
func (c *Collection[E]) Swap(i, j int) error {
	if err := c.checkSwap(i, j); err != nil {
		return err
	}
	if i == j {
		return nil
	}
	c.visualSwap(i, j)
	c.elements[i], c.elements[j] = c.elements[j], c.elements[i]
	return nil
}

// AnimateSwap exchanges elements i and j and returns a transition moving both
// bodies along arcs of pathArc radians.
func (c *Collection[E]) AnimateSwap(i, j int, pathArc float64) (*anim.Transition, error) {
	if err := c.checkSwap(i, j); err != nil {
		return nil, err
	}
	if i == j {
		return nil, nil
	}
	bi, bj := c.elements[i].elem().body, c.elements[j].elem().body
	fromI, fromJ := scene.Center(bi), scene.Center(bj)
	c.visualSwap(i, j)
	c.elements[i], c.elements[j] = c.elements[j], c.elements[i]
	return anim.Group(
		anim.Move(bi, fromI, scene.Center(bi)).WithPathArc(pathArc),
		anim.Move(bj, fromJ, scene.Center(bj)).WithPathArc(pathArc),
	), nil
}

// AddLabel attaches t next to the collection. A label in the growth direction
// is centred on the last element, one opposite to it on the first element.
func (c *Collection[E]) AddLabel(t *scene.Text, dir geom.Vec, buff float64) error {
	_, err := c.addLabel(t, dir, buff)
	return err
}

// AnimateAddLabel attaches t and returns a transition writing it in.
func (c *Collection[E]) AnimateAddLabel(t *scene.Text, dir geom.Vec, buff float64) (*anim.Transition, error) {
	old, err := c.addLabel(t, dir, buff)
	if err != nil {
		return nil, err
	}
	return labelTransition(old, t), nil
}

func (c *Collection[E]) addLabel(t *scene.Text, dir geom.Vec, buff float64) (*scene.Text, error) {
	return c.label.place(c.group, t, dir, buff, func(t *scene.Text) {
		var ref *scene.Rect
		switch {
		case dir.Approx(c.dir, geom.Epsilon):
			ref = c.squareAt(len(c.elements) - 1)
		case dir.Approx(c.dir.Neg(), geom.Epsilon):
			ref = c.squareAt(0)
		}
		if ref != nil {
			scene.NextTo(t, ref, dir, buff)
		}
	})
}

// squareAt returns the square of element i, or the spawn square when empty.
func (c *Collection[E]) squareAt(i int) *scene.Rect {
	if len(c.elements) == 0 {
		return c.spawn
	}
	return c.elements[i].elem().square
}
