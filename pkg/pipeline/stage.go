package pipeline

import (
	"context"
	"maps"
	"slices"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/ds"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/layout"
	"github.com/matzehuels/dsanim/pkg/scene"
	"github.com/matzehuels/dsanim/pkg/script"
)

// Stage is a scene holding the structures of one script. Steps are applied
// to it in order.
type Stage struct {
	Scene *scene.Scene

	structures map[string]*entry
	order      []string
}

// entry is one built structure. Exactly one of the typed fields is set.
type entry struct {
	kind     script.Kind
	theme    scene.Theme
	array    *ds.Array
	stack    *ds.Stack
	graph    *ds.Graph
	variable *ds.Variable
}

func (e *entry) shape() scene.Shape {
	switch e.kind {
	case script.KindArray:
		return e.array.Shape()
	case script.KindStack:
		return e.stack.Shape()
	case script.KindGraph:
		return e.graph.Shape()
	}
	return e.variable.Shape()
}

// update re-derives cached geometry after the structure moved.
func (e *entry) update() {
	switch e.kind {
	case script.KindArray:
		e.array.Update()
	case script.KindStack:
		e.stack.Update()
	case script.KindGraph:
		e.graph.Update()
	}
}

// Build creates every structure of s in declaration order and adds it to a
// new scene. Graphs lay out through l.
func Build(ctx context.Context, s *script.Script, l ds.Layouter) (*Stage, error) {
	st := &Stage{
		Scene:      scene.New(s.Frame),
		structures: make(map[string]*entry, len(s.Structures)),
	}
	for _, decl := range s.Structures {
		e, err := st.build(ctx, decl, l)
		if err != nil {
			return nil, wrap(err, "build %s %q", decl.Kind, decl.ID)
		}
		st.structures[decl.ID] = e
		st.order = append(st.order, decl.ID)
		st.Scene.Add(e.shape())
		st.Scene.AddUpdater(scene.UpdaterFunc(e.update))
	}
	return st, nil
}

func (st *Stage) build(ctx context.Context, decl script.Structure, l ds.Layouter) (*entry, error) {
	e := &entry{kind: decl.Kind, theme: script.ThemeFor(decl.Theme)}

	opts := []ds.Option{ds.WithSquareStyle(e.theme.Square)}
	if decl.Margin != nil {
		opts = append(opts, ds.WithMargin(*decl.Margin))
	}

	var err error
	switch decl.Kind {
	case script.KindArray:
		dir, derr := script.ParseDirection(decl.Direction, geom.Right)
		if derr != nil {
			return nil, derr
		}
		e.array, err = ds.NewArray(decl.Values, append(opts, ds.WithDirection(dir))...)
		if err == nil && decl.Indexes != "" {
			err = st.addIndexes(e, decl.Indexes)
		}
	case script.KindStack:
		e.stack, err = ds.NewStack(decl.Values, opts...)
	case script.KindVariable:
		e.variable, err = ds.NewVariable(decl.Value, opts...)
	case script.KindGraph:
		e.graph, err = ds.NewGraph(
			ds.AdjacencyFromMap(decl.Adjacency),
			decl.Positions,
			ds.WithNodeStyle(e.theme.Circle),
			ds.WithFrame(st.Scene.Frame),
			ds.WithLayouter(l),
		)
		if err == nil && decl.Layout != "" {
			err = e.graph.NodeLayout(ctx, decl.Layout)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidScript, "unknown kind %q", decl.Kind)
	}
	if err != nil {
		return nil, err
	}

	if decl.Label != "" {
		dir, err := script.ParseDirection(decl.LabelDirection, geom.Up)
		if err != nil {
			return nil, err
		}
		if _, err := addLabel(e, ds.NewLabelText(decl.Label), dir, ds.DefaultLabelBuffer, false); err != nil {
			return nil, err
		}
	}
	if decl.Scale > 0 {
		scene.Scale(e.shape(), decl.Scale)
	}
	if decl.Shift != nil {
		e.shape().Shift(*decl.Shift)
	}
	e.update()
	return e, nil
}

func (st *Stage) addIndexes(e *entry, direction string) error {
	dir, err := script.ParseDirection(direction, geom.Down)
	if err != nil {
		return err
	}
	return e.array.AddIndexes(dir, ds.DefaultIndexBuffer, e.theme.Index)
}

// IDs returns the structure IDs in declaration order.
func (st *Stage) IDs() []string { return slices.Clone(st.order) }

// Graph returns the graph with the given ID.
func (st *Stage) Graph(id string) (*ds.Graph, error) {
	e, err := st.entry(id)
	if err != nil {
		return nil, err
	}
	if e.kind != script.KindGraph {
		return nil, errors.New(errors.ErrCodeInvalidInput, "structure %q is a %s, not a graph", id, e.kind)
	}
	return e.graph, nil
}

// Positions returns the node centres of the graph with the given ID.
func (st *Stage) Positions(id string) (layout.Positions, error) {
	g, err := st.Graph(id)
	if err != nil {
		return nil, err
	}
	pos := make(layout.Positions, len(g.Nodes()))
	for _, name := range g.Nodes() {
		n, _ := g.Node(name)
		pos[name] = n.Center()
	}
	return pos, nil
}

// Values returns the displayed values of every collection and variable,
// keyed by structure ID.
func (st *Stage) Values() map[string][]string {
	out := make(map[string][]string)
	for _, id := range slices.Sorted(maps.Keys(st.structures)) {
		e := st.structures[id]
		switch e.kind {
		case script.KindArray:
			out[id] = e.array.Values()
		case script.KindStack:
			out[id] = e.stack.Values()
		case script.KindVariable:
			out[id] = []string{e.variable.Value()}
		}
	}
	return out
}

func (st *Stage) entry(id string) (*entry, error) {
	e, ok := st.structures[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeStructNotFound, "structure %q not found", id)
	}
	return e, nil
}

// Apply runs one step. With animated set it returns the transition playing
// the change; either way the model holds the new state on return and the
// scene updaters have run. hold is the pause in seconds that follows the
// transition.
func (st *Stage) Apply(ctx context.Context, step script.Step, animated bool) (tr *anim.Transition, hold float64, err error) {
	if step.Op == script.OpWait {
		if !animated {
			return nil, 0, nil
		}
		return nil, step.Duration, nil
	}
	e, err := st.entry(step.Target)
	if err != nil {
		return nil, 0, err
	}
	tr, err = apply(ctx, e, step, animated)
	if err != nil {
		return nil, 0, wrap(err, "%s %s", step.Op, step.Target)
	}
	st.Scene.Tick()
	if !animated {
		return nil, 0, nil
	}
	if step.RunTime > 0 {
		tr = tr.WithRunTime(step.RunTime)
	}
	if step.Rate != "" {
		tr = tr.WithRate(step.Rate)
	}
	return tr, 0, nil
}

// wrap adds context to err and keeps its code.
func wrap(err error, format string, args ...any) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, format, args...)
}
