package ds

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// DefaultIndexBuffer is the gap between a square and its index label.
const DefaultIndexBuffer = 0.25

// Format turns a logical value into the text shown on screen.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// Element is a value cell: a square with its value centred inside.
type Element struct {
	*Highlighter

	group  *scene.Group
	body   *scene.Group
	square *scene.Rect
	value  *scene.Text

	raw        string
	valueStyle scene.TextStyle
}

// NewElement creates an element centred on the origin. The value font size is
// valueStyle.FontSize scaled by the square width.
func NewElement(value any, square scene.ShapeStyle, valueStyle scene.TextStyle) *Element {
	e := &Element{
		square:     scene.NewRect(square),
		raw:        Format(value),
		valueStyle: valueStyle,
	}
	e.value = scene.NewText(e.raw, valueStyle)
	e.value.Size = valueStyle.FontSize * e.square.W
	scene.MoveTo(e.value, e.square.C)
	e.Highlighter = NewHighlight(e.square)
	e.body = scene.NewGroup(e.square, e.Highlighter.Outline(), e.value)
	e.group = scene.NewGroup(e.body)
	return e
}

func (e *Element) elem() *Element { return e }

// Shape returns the group holding every shape of the element.
func (e *Element) Shape() scene.Shape { return e.group }

// Body returns the square, its highlight and the value text.
func (e *Element) Body() *scene.Group { return e.body }

// Square returns the container shape.
func (e *Element) Square() *scene.Rect { return e.square }

// ValueText returns the value text shape.
func (e *Element) ValueText() *scene.Text { return e.value }

// Value returns the displayed value.
func (e *Element) Value() string { return e.raw }

// SetValue replaces the displayed value in place and returns e.
func (e *Element) SetValue(v any) *Element {
	e.raw = Format(v)
	e.value.Content = e.raw
	e.value.Size = e.valueStyle.FontSize * e.square.W
	scene.MoveTo(e.value, e.square.C)
	return e
}

// AnimateSetValue replaces the value and returns a transition emphasising it.
func (e *Element) AnimateSetValue(v any) (*Element, *anim.Transition) {
	e.SetValue(v)
	return e, anim.Indicate(e.value)
}

// IndexedElement is an element that may carry an index label.
type IndexedElement struct {
	*Element

	index     *scene.Text
	indexDir  geom.Vec
	indexBuff float64
}

// NewIndexedElement creates an element without an index.
func NewIndexedElement(value any, square scene.ShapeStyle, valueStyle scene.TextStyle) *IndexedElement {
	return &IndexedElement{Element: NewElement(value, square, valueStyle)}
}

// Index returns the index label, or nil.
func (e *IndexedElement) Index() *scene.Text { return e.index }

// AddIndex attaches t next to the square. An element carries at most one
// index label.
func (e *IndexedElement) AddIndex(t *scene.Text, dir geom.Vec, buff float64) error {
	if e.index != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "element already has an index")
	}
	if t == nil {
		return errors.New(errors.ErrCodeInvalidInput, "index text is nil")
	}
	scene.NextTo(t, e.square, dir, buff)
	e.index, e.indexDir, e.indexBuff = t, dir, buff
	e.group.Add(t)
	return nil
}

// SetIndex replaces the index content in place. It does nothing when the
// element has no index.
func (e *IndexedElement) SetIndex(v any) {
	if e.index == nil {
		return
	}
	c := scene.Center(e.index)
	e.index.Content = Format(v)
	scene.MoveTo(e.index, c)
}

// exchangeIndex swaps the index labels of e and o. Labels keep their position.
func (e *IndexedElement) exchangeIndex(o *IndexedElement) {
	if e.index == nil || o.index == nil {
		return
	}
	e.group.Remove(e.index)
	o.group.Remove(o.index)
	e.index, o.index = o.index, e.index
	e.indexDir, o.indexDir = o.indexDir, e.indexDir
	e.indexBuff, o.indexBuff = o.indexBuff, e.indexBuff
	e.group.Add(e.index)
	o.group.Add(o.index)
}
