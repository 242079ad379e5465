package ds

import (
	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// Variable is a single element with an optional label, such as a named
// scalar next to an array.
type Variable struct {
	*Element
	label Label
}

// NewVariable creates a variable showing value, centred on the origin.
func NewVariable(value any, opts ...Option) (*Variable, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Variable{Element: NewElement(value, cfg.square, cfg.value)}, nil
}

// Label returns the attached label, or nil.
func (v *Variable) Label() *scene.Text { return v.label.Text() }

// AddLabel attaches t next to the variable.
func (v *Variable) AddLabel(t *scene.Text, dir geom.Vec, buff float64) error {
	_, err := v.label.place(v.group, t, dir, buff, nil)
	return err
}

// AnimateAddLabel attaches t and returns a transition writing it in.
func (v *Variable) AnimateAddLabel(t *scene.Text, dir geom.Vec, buff float64) (*anim.Transition, error) {
	old, err := v.label.place(v.group, t, dir, buff, nil)
	if err != nil {
		return nil, err
	}
	return labelTransition(old, t), nil
}
