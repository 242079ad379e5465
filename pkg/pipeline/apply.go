package pipeline

import (
	"context"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/ds"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
	"github.com/matzehuels/dsanim/pkg/script"
)

// apply dispatches s to the structure. Instant steps return a nil transition.
func apply(ctx context.Context, e *entry, s script.Step, animated bool) (*anim.Transition, error) {
	switch s.Op {
	case script.OpAppend:
		return appendValue(e, s.Value, animated)
	case script.OpPop:
		return pop(e, s.Index, animated)
	case script.OpSwap:
		return swap(e, s, animated)
	case script.OpSetValue:
		el, err := element(e, s.Index)
		if err != nil {
			return nil, err
		}
		if !animated {
			el.SetValue(s.Value)
			return nil, nil
		}
		_, tr := el.AnimateSetValue(s.Value)
		return tr, nil
	case script.OpAddIndexes:
		return addIndexes(e, s, animated)
	case script.OpHighlight, script.OpClearHighlight:
		return highlight(e, s, animated)
	case script.OpAddLabel:
		dir, err := script.ParseDirection(s.Direction, geom.Up)
		if err != nil {
			return nil, err
		}
		return addLabel(e, ds.NewLabelText(s.Text), dir, orDefault(s.Buffer, ds.DefaultLabelBuffer), animated)
	case script.OpShift, script.OpScale:
		return transform(e, s, animated)
	case script.OpAddNode, script.OpAddEdge, script.OpAddCurvedEdge, script.OpShowBackwardEdge,
		script.OpNodeLayout, script.OpSetNodeHighlight, script.OpSetEdgeHighlight:
		if e.kind != script.KindGraph {
			break
		}
		return applyGraph(ctx, e.graph, s, animated)
	}
	return nil, unsupported(e, s.Op)
}

func unsupported(e *entry, op script.Op) error {
	return errors.New(errors.ErrCodeUnsupported, "%s does not support %q", e.kind, op)
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func requireIndex(name string, p *int) (int, error) {
	if p == nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s is required", name)
	}
	return *p, nil
}

func appendValue(e *entry, v any, animated bool) (*anim.Transition, error) {
	switch e.kind {
	case script.KindArray:
		if !animated {
			e.array.Append(v)
			return nil, nil
		}
		_, tr := e.array.AnimateAppend(v)
		return tr, nil
	case script.KindStack:
		if !animated {
			e.stack.Append(v)
			return nil, nil
		}
		_, tr := e.stack.AnimateAppend(v)
		return tr, nil
	}
	return nil, unsupported(e, script.OpAppend)
}

// pop removes element index of an array, or the last one when index is nil.
// Stacks always pop their top.
func pop(e *entry, index *int, animated bool) (*anim.Transition, error) {
	switch e.kind {
	case script.KindArray:
		i := e.array.Len() - 1
		if index != nil {
			i = *index
		}
		if animated {
			return e.array.AnimatePop(i)
		}
		return nil, e.array.Pop(i)
	case script.KindStack:
		if animated {
			return e.stack.AnimatePop(), nil
		}
		e.stack.Pop()
		return nil, nil
	}
	return nil, unsupported(e, script.OpPop)
}

func swap(e *entry, s script.Step, animated bool) (*anim.Transition, error) {
	i, err := requireIndex("i", s.I)
	if err != nil {
		return nil, err
	}
	j, err := requireIndex("j", s.J)
	if err != nil {
		return nil, err
	}
	arc := orDefault(s.PathArc, ds.DefaultSwapArc)
	switch e.kind {
	case script.KindArray:
		if animated {
			return e.array.AnimateSwap(i, j, arc)
		}
		return nil, e.array.Swap(i, j)
	case script.KindStack:
		if animated {
			return e.stack.AnimateSwap(i, j, arc)
		}
		return nil, e.stack.Swap(i, j)
	}
	return nil, unsupported(e, script.OpSwap)
}

// element returns element index of a collection, or the variable itself.
func element(e *entry, index *int) (*ds.Element, error) {
	if e.kind == script.KindVariable {
		return e.variable.Element, nil
	}
	i, err := requireIndex("index", index)
	if err != nil {
		return nil, err
	}
	switch e.kind {
	case script.KindArray:
		el, err := e.array.At(i)
		if err != nil {
			return nil, err
		}
		return el.Element, nil
	case script.KindStack:
		return e.stack.At(i)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "%s has no elements", e.kind)
}

func addIndexes(e *entry, s script.Step, animated bool) (*anim.Transition, error) {
	if e.kind != script.KindArray {
		return nil, unsupported(e, s.Op)
	}
	dir, err := script.ParseDirection(s.Direction, geom.Down)
	if err != nil {
		return nil, err
	}
	buff := orDefault(s.Buffer, ds.DefaultIndexBuffer)
	if animated {
		return e.array.AnimateAddIndexes(dir, buff, e.theme.Index)
	}
	return nil, e.array.AddIndexes(dir, buff, e.theme.Index)
}

// highlighter resolves the outline a highlight step acts on: an element of a
// collection, the variable, a graph node or a graph edge.
func highlighter(e *entry, s script.Step) (*ds.Highlighter, error) {
	if e.kind != script.KindGraph {
		el, err := element(e, s.Index)
		if err != nil {
			return nil, err
		}
		return el.Highlighter, nil
	}
	if s.Node != "" {
		n, err := e.graph.Node(s.Node)
		if err != nil {
			return nil, err
		}
		return n.Highlighter, nil
	}
	if s.From == "" && s.To == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node or from/to is required")
	}
	edge, err := e.graph.Edge(s.From, s.To)
	if err != nil {
		return nil, err
	}
	return edge.Highlighter, nil
}

func highlight(e *entry, s script.Step, animated bool) (*anim.Transition, error) {
	h, err := highlighter(e, s)
	if err != nil {
		return nil, err
	}
	if s.Op == script.OpClearHighlight {
		if animated {
			return h.AnimateClearHighlight(), nil
		}
		h.ClearHighlight()
		return nil, nil
	}
	if s.Color != "" || s.Width > 0 {
		color, width := h.HighlightStyle()
		if s.Color != "" {
			color = s.Color
		}
		if s.Width > 0 {
			width = s.Width
		}
		h.ConfigureHighlight(color, width)
	}
	if animated {
		return h.AnimateHighlight(), nil
	}
	h.Highlight()
	return nil, nil
}

func addLabel(e *entry, t *scene.Text, dir geom.Vec, buff float64, animated bool) (*anim.Transition, error) {
	type labeler interface {
		AddLabel(t *scene.Text, dir geom.Vec, buff float64) error
		AnimateAddLabel(t *scene.Text, dir geom.Vec, buff float64) (*anim.Transition, error)
	}
	var l labeler
	switch e.kind {
	case script.KindArray:
		l = e.array
	case script.KindStack:
		l = e.stack
	case script.KindGraph:
		l = e.graph
	default:
		l = e.variable
	}
	if animated {
		return l.AnimateAddLabel(t, dir, buff)
	}
	return nil, l.AddLabel(t, dir, buff)
}

// transform shifts or scales the whole structure. A shift plays as a move; a
// scale cross-fades from a copy of the old geometry.
func transform(e *entry, s script.Step, animated bool) (*anim.Transition, error) {
	shape := e.shape()
	before := scene.Center(shape)
	if s.Op == script.OpShift {
		if s.Offset == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "offset is required")
		}
		shape.Shift(*s.Offset)
		if !animated {
			return nil, nil
		}
		return anim.Move(shape, before, scene.Center(shape)), nil
	}

	if s.Factor <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "factor must be positive, got %v", s.Factor)
	}
	var ghost scene.Shape
	if animated {
		ghost = shape.Copy()
	}
	scene.Scale(shape, s.Factor)
	if !animated {
		return nil, nil
	}
	return anim.Replace(ghost, shape), nil
}

// edgeOptions returns the edge shape overrides set on s.
func edgeOptions(s script.Step) []ds.EdgeOption {
	var opts []ds.EdgeOption
	if s.LabelDistance != nil {
		opts = append(opts, ds.WithLabelDistance(*s.LabelDistance))
	}
	if s.NodeAngle != nil {
		opts = append(opts, ds.WithNodeAngle(*s.NodeAngle))
	}
	if s.ArcAngle != nil {
		opts = append(opts, ds.WithArcAngle(*s.ArcAngle))
	}
	return opts
}

func applyGraph(ctx context.Context, g *ds.Graph, s script.Step, animated bool) (*anim.Transition, error) {
	switch s.Op {
	case script.OpAddNode:
		var pos geom.Vec
		if s.Position != nil {
			pos = *s.Position
		}
		if animated {
			_, tr, err := g.AnimateAddNode(s.Node, pos)
			return tr, err
		}
		_, err := g.AddNode(s.Node, pos)
		return nil, err

	case script.OpAddEdge, script.OpAddCurvedEdge:
		opts := append(edgeOptions(s), ds.WithWeight(s.Weight))
		curved := s.Op == script.OpAddCurvedEdge
		var (
			tr  *anim.Transition
			err error
		)
		switch {
		case animated && curved:
			_, tr, err = g.AnimateAddCurvedEdge(s.From, s.To, opts...)
		case animated:
			_, tr, err = g.AnimateAddEdge(s.From, s.To, opts...)
		case curved:
			_, err = g.AddCurvedEdge(s.From, s.To, opts...)
		default:
			_, err = g.AddEdge(s.From, s.To, opts...)
		}
		return tr, err

	case script.OpShowBackwardEdge:
		opts := edgeOptions(s)
		if animated {
			_, _, tr, err := g.AnimateShowBackwardEdge(s.From, s.To, s.Forward, s.Backward, opts...)
			return tr, err
		}
		_, _, err := g.ShowBackwardEdge(s.From, s.To, s.Forward, s.Backward, opts...)
		return nil, err

	case script.OpNodeLayout:
		if animated {
			return g.AnimateNodeLayout(ctx, s.Algorithm)
		}
		return nil, g.NodeLayout(ctx, s.Algorithm)

	case script.OpSetNodeHighlight, script.OpSetEdgeHighlight:
		width := s.Width
		if width <= 0 {
			width = ds.DefaultHighlightWidth
		}
		if s.Op == script.OpSetNodeHighlight {
			g.SetNodeHighlight(s.Color, width)
		} else {
			g.SetEdgeHighlight(s.Color, width)
		}
		return nil, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "graph does not support %q", s.Op)
}
