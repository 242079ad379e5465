package ds

import (
	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// Default highlight stroke.
const (
	DefaultHighlightColor = scene.Red
	DefaultHighlightWidth = 8.0
)

// Highlighter is a secondary outline that tracks a source shape. The outline is
// hidden until shown with [Highlighter.SetHighlight] or [Highlighter.Highlight].
type Highlighter struct {
	source  scene.Stroked
	outline scene.Stroked
	color   string
	width   float64
	visible bool
}

// NewHighlight creates a hidden outline matching source.
func NewHighlight(source scene.Stroked) *Highlighter {
	h := &Highlighter{
		source:  source,
		outline: source.Copy().(scene.Stroked),
		color:   DefaultHighlightColor,
		width:   DefaultHighlightWidth,
	}
	h.restyle()
	return h
}

// Outline returns the outline shape. Owners add it to their group right after
// the source so it draws on top.
func (h *Highlighter) Outline() scene.Shape { return h.outline }

// Visible reports whether the outline is shown.
func (h *Highlighter) Visible() bool { return h.visible }

// HighlightStyle returns the outline colour and stroke width.
func (h *Highlighter) HighlightStyle() (string, float64) { return h.color, h.width }

// ConfigureHighlight sets the outline colour and width without changing
// visibility.
func (h *Highlighter) ConfigureHighlight(color string, width float64) {
	h.color, h.width = color, width
	h.restyle()
}

// SetHighlight shows the outline with the given stroke.
func (h *Highlighter) SetHighlight(color string, width float64) {
	h.color, h.width, h.visible = color, width, true
	h.restyle()
}

// Highlight shows the outline with its configured stroke.
func (h *Highlighter) Highlight() {
	h.visible = true
	h.restyle()
}

// AnimateHighlight shows the outline and returns a transition drawing it in.
func (h *Highlighter) AnimateHighlight() *anim.Transition {
	already := h.visible
	h.Highlight()
	if already {
		return anim.Indicate(h.outline)
	}
	return anim.Create(h.outline)
}

// ClearHighlight hides the outline.
func (h *Highlighter) ClearHighlight() {
	h.visible = false
	h.restyle()
}

// AnimateClearHighlight hides the outline and returns a transition fading
// out a detached copy of it.
func (h *Highlighter) AnimateClearHighlight() *anim.Transition {
	if !h.visible {
		return nil
	}
	ghost := h.outline.Copy()
	h.ClearHighlight()
	return anim.FadeOut(ghost)
}

// Refresh re-derives the outline geometry from the source. Owners call it
// whenever they change the source shape other than by moving or scaling the
// group both shapes belong to.
func (h *Highlighter) Refresh() {
	switch src := h.source.(type) {
	case *scene.Rect:
		o := h.outline.(*scene.Rect)
		o.C, o.W, o.H = src.C, src.W, src.H
	case *scene.Circle:
		o := h.outline.(*scene.Circle)
		o.C, o.R = src.C, src.R
	case *scene.Line:
		o := h.outline.(*scene.Line)
		o.Start, o.End, o.Tip, o.TipLength = src.Start, src.End, src.Tip, src.TipLength
	case *scene.Arc:
		o := h.outline.(*scene.Arc)
		o.Start, o.End, o.Angle, o.Tip, o.TipLength = src.Start, src.End, src.Angle, src.Tip, src.TipLength
	}
}

func (h *Highlighter) restyle() {
	st := h.outline.Stroke()
	st.Color = h.color
	st.StrokeWidth = h.width
	st.FillColor = ""
	st.FillOpacity = 0
	st.Hidden = !h.visible
}
