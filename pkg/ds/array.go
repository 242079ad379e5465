package ds

import (
	"math"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// Array is a collection whose elements may show their position as an index
// label. Once indexes are enabled every element carries one, and element i
// always shows i.
type Array struct {
	*Collection[*IndexedElement]

	indexed    bool
	indexDir   geom.Vec
	indexBuff  float64
	indexStyle scene.TextStyle
}

// NewArray creates an array from values, centred on the origin.
func NewArray(values []any, opts ...Option) (*Array, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Array{Collection: newCollection(values, cfg, NewIndexedElement)}, nil
}

// Indexed reports whether index labels are enabled.
func (a *Array) Indexed() bool { return a.indexed }

// IndexBuffer returns the gap currently used when placing new index labels.
func (a *Array) IndexBuffer() float64 { return a.indexBuff }

// AddIndexes enables index labels for every element. It fails when dir is
// parallel to the growth direction and does nothing if indexes are already on.
func (a *Array) AddIndexes(dir geom.Vec, buff float64, style scene.TextStyle) error {
	if a.indexed {
		return nil
	}
	if !geom.IsAxis(dir) {
		return errors.New(errors.ErrCodeInvalidConfig, "index direction %v is not an axis direction", dir)
	}
	if geom.Parallel(dir, a.dir) {
		return errors.New(errors.ErrCodeInvalidConfig, "index direction %v is parallel to growth direction %v", dir, a.dir)
	}
	if err := style.Validate(); err != nil {
		return err
	}
	a.indexDir, a.indexBuff, a.indexStyle = dir, buff, style
	for i, e := range a.elements {
		if err := e.AddIndex(a.newIndex(i, e), dir, buff); err != nil {
			return err
		}
	}
	a.indexed = true
	return nil
}

// AnimateAddIndexes enables index labels and returns a transition writing
// them in.
func (a *Array) AnimateAddIndexes(dir geom.Vec, buff float64, style scene.TextStyle) (*anim.Transition, error) {
	if a.indexed {
		return nil, nil
	}
	if err := a.AddIndexes(dir, buff, style); err != nil {
		return nil, err
	}
	shapes := make([]scene.Shape, 0, len(a.elements))
	for _, e := range a.elements {
		shapes = append(shapes, e.Index())
	}
	return anim.Write(shapes...), nil
}

func (a *Array) newIndex(i int, e *IndexedElement) *scene.Text {
	t := scene.NewText(Format(i), a.indexStyle)
	t.Size = a.indexStyle.FontSize * e.square.W
	return t
}

// Append adds v at the end, with an index label when indexes are enabled.
func (a *Array) Append(v any) *IndexedElement {
	e := a.append(v)
	if a.indexed {
		// A fresh element has no index, so AddIndex cannot fail.
		_ = e.AddIndex(a.newIndex(len(a.elements)-1, e), a.indexDir, a.indexBuff)
	}
	return e
}

// AnimateAppend adds v and returns a transition writing the new element in.
func (a *Array) AnimateAppend(v any) (*IndexedElement, *anim.Transition) {
	e := a.Append(v)
	return e, anim.Write(e.group)
}

// Pop removes element i. Following elements shift back one slot and their
// index labels are renumbered to match. Popping an empty array does nothing.
func (a *Array) Pop(i int) error {
	if len(a.elements) == 0 {
		return nil
	}
	if err := a.checkIndex(i); err != nil {
		return err
	}
	_, shifted, _ := a.remove(i)
	for k, e := range shifted {
		e.SetIndex(i + k)
	}
	return nil
}

// PopLast removes the last element.
func (a *Array) PopLast() error { return a.Pop(len(a.elements) - 1) }

// AnimatePop removes element i and returns a transition that fades it out
// while the rest slide back, then relabels each moved index from its old
// number to its new one.
func (a *Array) AnimatePop(i int) (*anim.Transition, error) {
	if len(a.elements) == 0 {
		return nil, nil
	}
	if err := a.checkIndex(i); err != nil {
		return nil, err
	}
	popped, shifted, delta := a.remove(i)

	slide := []*anim.Transition{anim.FadeOut(popped.group), shiftMoves(shifted, delta)}
	var relabel []*anim.Transition
	if a.indexed {
		for k, e := range shifted {
			// The copy keeps the old number and rides along with the element.
			old := e.Index().Copy()
			e.SetIndex(i + k)
			to := scene.Center(old)
			slide = append(slide, anim.Move(old, to.Sub(delta), to))
			relabel = append(relabel, anim.Replace(old, e.Index()))
		}
	}
	return anim.Sequence(anim.Group(slide...), anim.Group(relabel...)), nil
}

// Swap exchanges elements i and j. With indexes enabled only the squares and
// values move; the index labels stay in their slots and change owner.
func (a *Array) Swap(i, j int) error {
	if err := a.Collection.Swap(i, j); err != nil {
		return err
	}
	a.swapIndexes(i, j)
	return nil
}

// AnimateSwap exchanges elements i and j and returns the moving transition.
func (a *Array) AnimateSwap(i, j int, pathArc float64) (*anim.Transition, error) {
	tr, err := a.Collection.AnimateSwap(i, j, pathArc)
	if err != nil {
		return nil, err
	}
	a.swapIndexes(i, j)
	return tr, nil
}

func (a *Array) swapIndexes(i, j int) {
	if a.indexed && i != j {
		a.elements[i].exchangeIndex(a.elements[j])
	}
}

// ComputeIndexBuffer derives the index gap from the current geometry: the
// distance between the last square and its index label along the index
// direction. It returns the stored buffer when there is nothing to measure.
func (a *Array) ComputeIndexBuffer() float64 {
	if !a.indexed || len(a.elements) == 0 {
		return a.indexBuff
	}
	last := a.elements[len(a.elements)-1]
	if last.index == nil {
		return a.indexBuff
	}
	sq := scene.Edge(last.square, a.indexDir)
	ix := scene.Edge(last.index, a.indexDir.Neg())
	return math.Abs(ix.Sub(sq).Dot(a.indexDir))
}

// Update refreshes the index buffer after the array was moved or scaled.
func (a *Array) Update() {
	a.indexBuff = a.ComputeIndexBuffer()
}
