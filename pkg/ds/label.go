package ds

import (
	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// DefaultLabelBuffer is the gap between a structure and its label.
const DefaultLabelBuffer = 0.5

// Label anchors at most one text next to a host group.
type Label struct {
	text *scene.Text
	dir  geom.Vec
	buff float64
}

// Text returns the attached label, or nil.
func (l *Label) Text() *scene.Text { return l.text }

// Direction returns the direction the label was attached in.
func (l *Label) Direction() geom.Vec { return l.dir }

// place validates dir, drops the previous label from group, puts t next to
// group and then lets adjust reposition it before t joins the group. It
// returns the replaced label, or nil.
func (l *Label) place(group *scene.Group, t *scene.Text, dir geom.Vec, buff float64, adjust func(*scene.Text)) (*scene.Text, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "label text is nil")
	}
	if !geom.IsAxis(dir) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "label direction %v is not an axis direction", dir)
	}
	old := l.text
	if old != nil {
		group.Remove(old)
	}
	scene.NextTo(t, group, dir, buff)
	if adjust != nil {
		adjust(t)
	}
	l.text, l.dir, l.buff = t, dir, buff
	group.Add(t)
	return old, nil
}

// labelTransition writes in the new label and fades out the one it replaced.
func labelTransition(old, t *scene.Text) *anim.Transition {
	var out *anim.Transition
	if old != nil {
		out = anim.FadeOut(old)
	}
	return anim.Group(out, anim.Write(t))
}

// NewLabelText creates label text with the default label style.
func NewLabelText(content string) *scene.Text {
	return scene.NewText(content, scene.DefaultLabel)
}
