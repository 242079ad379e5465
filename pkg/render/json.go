package render

import (
	"encoding/json"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// Timeline is the ordered list of steps of one run.
type Timeline struct {
	Frame scene.Frame
	FPS   int
	Steps []TimelineStep
}

// TimelineStep is one applied operation. Transition is nil for instant steps.
// Hold is a pause in seconds played after the transition.
type TimelineStep struct {
	Index      int
	Target     string
	Op         string
	Start      float64
	Transition *anim.Transition
	Hold       float64
}

// Duration returns the play time of the step.
func (s TimelineStep) Duration() float64 { return s.Transition.Duration() + s.Hold }

// Duration returns the end time of the last step.
func (tl Timeline) Duration() float64 {
	var end float64
	for _, s := range tl.Steps {
		end = max(end, s.Start+s.Duration())
	}
	return end
}

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	scene  *scene.Scene
	style  string
	indent bool
}

// WithJSONScene includes the final shapes of sc so consumers can resolve the
// shape IDs referenced by transitions.
func WithJSONScene(sc *scene.Scene) JSONOption { return func(r *jsonRenderer) { r.scene = sc } }

// WithJSONStyle records the style name in the output.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Frame    scene.Frame `json:"frame"`
	FPS      int         `json:"fps,omitempty"`
	Duration float64     `json:"duration"`
	Style    string      `json:"style,omitempty"`
	Steps    []jsonStep  `json:"steps"`
	Shapes   []jsonShape `json:"shapes,omitempty"`
}

type jsonStep struct {
	Index      int             `json:"index"`
	Target     string          `json:"target,omitempty"`
	Op         string          `json:"op"`
	Animated   bool            `json:"animated"`
	Start      float64         `json:"start"`
	Duration   float64         `json:"duration"`
	Transition *jsonTransition `json:"transition,omitempty"`
}

type jsonTransition struct {
	Kind        anim.Kind         `json:"kind"`
	RunTime     float64           `json:"run_time,omitempty"`
	Rate        string            `json:"rate,omitempty"`
	Targets     []string          `json:"targets,omitempty"`
	Replacement string            `json:"replacement,omitempty"`
	From        *geom.Vec         `json:"from,omitempty"`
	To          *geom.Vec         `json:"to,omitempty"`
	PathArc     float64           `json:"path_arc,omitempty"`
	Color       string            `json:"color,omitempty"`
	Children    []*jsonTransition `json:"children,omitempty"`
}

type jsonShape struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Parent   string   `json:"parent,omitempty"`
	Bounds   geom.Box `json:"bounds"`
	Content  string   `json:"content,omitempty"`
	Hidden   bool     `json:"hidden,omitempty"`
	Children int      `json:"children,omitempty"`
}

// RenderJSON serialises tl. The output references shapes by ID.
func RenderJSON(tl Timeline, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Frame:    tl.Frame.WithDefaults(),
		FPS:      tl.FPS,
		Duration: tl.Duration(),
		Style:    r.style,
		Steps:    make([]jsonStep, 0, len(tl.Steps)),
	}
	for _, s := range tl.Steps {
		out.Steps = append(out.Steps, jsonStep{
			Index:      s.Index,
			Target:     s.Target,
			Op:         s.Op,
			Animated:   s.Transition != nil,
			Start:      s.Start,
			Duration:   s.Duration(),
			Transition: encodeTransition(s.Transition),
		})
	}
	if r.scene != nil {
		for _, s := range r.scene.Shapes() {
			out.Shapes = appendShapes(out.Shapes, s, "")
		}
	}

	var (
		data []byte
		err  error
	)
	if r.indent {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode timeline")
	}
	return data, nil
}

func encodeTransition(tr *anim.Transition) *jsonTransition {
	if tr == nil {
		return nil
	}
	jt := &jsonTransition{
		Kind:    tr.Kind,
		RunTime: tr.RunTime,
		Rate:    tr.Rate,
		PathArc: tr.PathArc,
		Color:   tr.Color,
	}
	for _, s := range tr.Targets {
		jt.Targets = append(jt.Targets, s.ID())
	}
	if tr.Replacement != nil {
		jt.Replacement = tr.Replacement.ID()
	}
	if tr.Kind == anim.KindMove {
		from, to := tr.From, tr.To
		jt.From, jt.To = &from, &to
	}
	for _, c := range tr.Children {
		jt.Children = append(jt.Children, encodeTransition(c))
	}
	return jt
}

func appendShapes(out []jsonShape, s scene.Shape, parent string) []jsonShape {
	js := jsonShape{ID: s.ID(), Kind: s.Kind(), Parent: parent, Bounds: s.Bounds(), Hidden: hidden(s)}
	switch v := s.(type) {
	case *scene.Text:
		js.Content = v.Content
	case *scene.Group:
		js.Children = v.Len()
	}
	out = append(out, js)
	if g, ok := s.(*scene.Group); ok {
		for _, c := range g.Children() {
			out = appendShapes(out, c, s.ID())
		}
	}
	return out
}
