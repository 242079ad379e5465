// Package anim describes visual transitions as replayable data.
//
// Data structures in package ds mutate their model eagerly and return a
// [Transition] describing how the picture should move from the old geometry to
// the new one. A transition is a tree: leaves act on shapes (fade, create,
// indicate, move, replace) and the [Sequence] and [Group] nodes compose
// children in series or in parallel.
//
// Transitions never touch the scene. [Sample] evaluates a transition at a
// point in time and returns per-shape [Override] values that a renderer
// applies on top of the model's final geometry. Because the model is already
// in its final state, sampling at [Transition.Duration] yields no offsets for
// live shapes.
package anim

import (
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// Kind identifies the type of a transition node.
type Kind string

const (
	KindFadeOut  Kind = "fade_out"
	KindFadeIn   Kind = "fade_in"
	KindCreate   Kind = "create"
	KindWrite    Kind = "write"
	KindIndicate Kind = "indicate"
	KindMove     Kind = "move"
	KindReplace  Kind = "replace"
	KindSequence Kind = "sequence"
	KindGroup    Kind = "group"
)

// DefaultRunTime is the duration of a leaf transition in seconds.
const DefaultRunTime = 1.0

// IndicateScale is the peak scale factor of an Indicate transition.
const IndicateScale = 1.2

// Transition is a node of a transition tree.
type Transition struct {
	Kind Kind

	// Targets are the shapes a leaf acts on. For Replace, Targets[0] is the
	// outgoing shape and Replacement the incoming one.
	Targets     []scene.Shape
	Replacement scene.Shape

	// From and To are the centres of a Move. PathArc bends the path into an
	// arc of that angle.
	From, To geom.Vec
	PathArc  float64

	// Color tints Indicate targets.
	Color string

	// RunTime is the leaf duration in seconds. For composites a non-zero value
	// stretches the children to fit.
	RunTime float64
	Rate    string

	Children []*Transition
}

func leaf(kind Kind, shapes []scene.Shape) *Transition {
	targets := make([]scene.Shape, 0, len(shapes))
	for _, s := range shapes {
		if s != nil {
			targets = append(targets, s)
		}
	}
	if len(targets) == 0 {
		return nil
	}
	return &Transition{Kind: kind, Targets: targets, RunTime: DefaultRunTime, Rate: RateSmooth}
}

// FadeOut fades shapes to transparent.
func FadeOut(shapes ...scene.Shape) *Transition { return leaf(KindFadeOut, shapes) }

// FadeIn fades shapes in from transparent.
func FadeIn(shapes ...scene.Shape) *Transition { return leaf(KindFadeIn, shapes) }

// Create draws shapes in.
func Create(shapes ...scene.Shape) *Transition { return leaf(KindCreate, shapes) }

// Write writes text shapes in.
func Write(shapes ...scene.Shape) *Transition { return leaf(KindWrite, shapes) }

// Indicate briefly enlarges and tints shapes.
func Indicate(shapes ...scene.Shape) *Transition {
	tr := leaf(KindIndicate, shapes)
	if tr != nil {
		tr.Color = scene.Yellow
		tr.Rate = RateThereAndBack
	}
	return tr
}

// Move moves s so that its centre travels from from to to.
func Move(s scene.Shape, from, to geom.Vec) *Transition {
	tr := leaf(KindMove, []scene.Shape{s})
	if tr != nil {
		tr.From, tr.To = from, to
	}
	return tr
}

// Replace cross-fades from old to replacement.
func Replace(old, replacement scene.Shape) *Transition {
	if old == nil || replacement == nil {
		return nil
	}
	return &Transition{
		Kind:        KindReplace,
		Targets:     []scene.Shape{old},
		Replacement: replacement,
		RunTime:     DefaultRunTime,
		Rate:        RateSmooth,
	}
}

func composite(kind Kind, children []*Transition) *Transition {
	kept := make([]*Transition, 0, len(children))
	for _, c := range children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &Transition{Kind: kind, Children: kept}
}

// Sequence plays children one after another. Nil children are skipped.
func Sequence(children ...*Transition) *Transition { return composite(KindSequence, children) }

// Group plays children in parallel. Nil children are skipped.
func Group(children ...*Transition) *Transition { return composite(KindGroup, children) }

// WithRunTime sets the run time and returns tr.
func (tr *Transition) WithRunTime(seconds float64) *Transition {
	if tr != nil {
		tr.RunTime = seconds
	}
	return tr
}

// WithRate sets the rate function name and returns tr.
func (tr *Transition) WithRate(name string) *Transition {
	if tr != nil {
		tr.Rate = name
	}
	return tr
}

// WithPathArc bends a Move along an arc and returns tr.
func (tr *Transition) WithPathArc(angle float64) *Transition {
	if tr != nil {
		tr.PathArc = angle
	}
	return tr
}

// IsComposite reports whether tr is a Sequence or Group.
func (tr *Transition) IsComposite() bool {
	return tr != nil && (tr.Kind == KindSequence || tr.Kind == KindGroup)
}

// naturalDuration is the duration before any composite stretching.
func (tr *Transition) naturalDuration() float64 {
	if tr == nil {
		return 0
	}
	switch tr.Kind {
	case KindSequence:
		var d float64
		for _, c := range tr.Children {
			d += c.Duration()
		}
		return d
	case KindGroup:
		var d float64
		for _, c := range tr.Children {
			d = max(d, c.Duration())
		}
		return d
	}
	return tr.RunTime
}

// Duration returns the total play time in seconds.
func (tr *Transition) Duration() float64 {
	if tr.IsComposite() && tr.RunTime > 0 {
		return tr.RunTime
	}
	return tr.naturalDuration()
}

// Shapes returns every shape referenced by the tree, each once, in
// first-reference order.
func (tr *Transition) Shapes() []scene.Shape {
	var out []scene.Shape
	seen := map[string]bool{}
	add := func(s scene.Shape) {
		if s != nil && !seen[s.ID()] {
			seen[s.ID()] = true
			out = append(out, s)
		}
	}
	tr.walk(func(n *Transition) {
		for _, s := range n.Targets {
			add(s)
		}
		add(n.Replacement)
	})
	return out
}

// Leaves returns the number of leaf transitions in the tree.
func (tr *Transition) Leaves() int {
	n := 0
	tr.walk(func(x *Transition) {
		if !x.IsComposite() {
			n++
		}
	})
	return n
}

func (tr *Transition) walk(fn func(*Transition)) {
	if tr == nil {
		return
	}
	fn(tr)
	for _, c := range tr.Children {
		c.walk(fn)
	}
}
