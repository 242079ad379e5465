package ds

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/layout"
	"github.com/matzehuels/dsanim/pkg/scene"
)

func testLayouter() *layout.Registry {
	r := layout.NewRegistry(layout.WithLogger(log.New(&bytes.Buffer{})))
	r.Register(layout.DefaultAlgorithm, layout.Circular{})
	return r
}

func twoNodes(t *testing.T) *Graph {
	t.Helper()
	g, err := NewGraph(
		[]AdjacencyList{{Node: "0", Neighbors: []Neighbor{{Node: "1"}}}},
		map[string]geom.Vec{"0": geom.V(-2, 0), "1": geom.V(2, 0)},
	)
	require.NoError(t, err)
	return g
}

func TestGraphPairingScenario(t *testing.T) {
	g := twoNodes(t)
	require.Equal(t, []string{"0", "1"}, g.Nodes())

	_, err := g.AddEdge("0", "1")
	require.NoError(t, err)
	_, err = g.AddEdge("1", "0")
	require.NoError(t, err)

	ab, err := g.Edge("0", "1")
	require.NoError(t, err)
	ba, err := g.Edge("1", "0")
	require.NoError(t, err)
	require.Same(t, ab, ba)
	require.False(t, ab.Arrow())
	require.Len(t, g.Edges(), 1)
	require.Equal(t, 1, g.edgeLayer.Len())
	require.Equal(t, [][2]string{{"0", "1"}, {"1", "0"}}, g.EdgeKeys())
}

func TestGraphReverseGeometry(t *testing.T) {
	g := twoNodes(t)
	e, err := g.AddEdge("1", "0")
	require.NoError(t, err)
	from, to := e.Endpoints()
	require.Equal(t, "0", from, "shared edge keeps the first direction")
	require.Equal(t, "1", to)
}

func TestShowBackwardEdge(t *testing.T) {
	g := twoNodes(t)
	_, err := g.AddEdge("1", "0")
	require.NoError(t, err)

	fwd, bwd, tr, err := g.AnimateShowBackwardEdge("0", "1", 2, 3)
	require.NoError(t, err)
	require.NotNil(t, tr)
	require.NotSame(t, fwd, bwd)

	ab, _ := g.Edge("0", "1")
	ba, _ := g.Edge("1", "0")
	require.Same(t, fwd, ab)
	require.Same(t, bwd, ba)
	for _, e := range []*Edge{ab, ba} {
		require.Equal(t, Curved, e.Kind())
		require.True(t, e.Arrow())
		require.InDelta(t, DefaultBackwardAngle, e.NodeAngle(), 1e-12)
	}
	require.Equal(t, "2", ab.Weight().Content)
	require.Equal(t, "3", ba.Weight().Content)
	require.Len(t, g.Edges(), 2)
	require.Equal(t, 2, g.edgeLayer.Len())

	// The two arcs leave their nodes on opposite sides of the centre line.
	require.Less(t, ab.Line().(*scene.Arc).Start.Y, 0.0)
	require.Greater(t, ba.Line().(*scene.Arc).Start.Y, 0.0)
}

func TestShowBackwardEdgeRequiresPair(t *testing.T) {
	g := twoNodes(t)
	_, err := g.AddNode("2", geom.V(0, 3))
	require.NoError(t, err)
	_, _, err = g.ShowBackwardEdge("0", "2", 1, 1)
	require.True(t, errors.Is(err, errors.ErrCodeEdgeNotFound), "err = %v", err)
	require.Len(t, g.Edges(), 1)
}

func TestAddEdgeAfterBackwardCollapses(t *testing.T) {
	g := twoNodes(t)
	_, _, err := g.ShowBackwardEdge("0", "1", 1, 2)
	require.NoError(t, err)
	e, tr, err := g.AnimateAddEdge("0", "1")
	require.NoError(t, err)
	require.NotNil(t, tr)
	ba, _ := g.Edge("1", "0")
	require.Same(t, e, ba)
	require.Equal(t, 1, g.edgeLayer.Len())
}

func TestGraphErrors(t *testing.T) {
	g := twoNodes(t)

	_, err := g.AddEdge("0", "missing")
	require.True(t, errors.Is(err, errors.ErrCodeNodeNotFound), "err = %v", err)
	require.Len(t, g.EdgeKeys(), 1)

	_, err = g.AddNode("0", geom.Origin)
	require.True(t, errors.Is(err, errors.ErrCodeDuplicateNode), "err = %v", err)
	require.Len(t, g.Nodes(), 2)

	_, err = g.Edge("1", "0")
	require.True(t, errors.Is(err, errors.ErrCodeEdgeNotFound))
	_, err = g.Node("nope")
	require.True(t, errors.Is(err, errors.ErrCodeNodeNotFound))

	_, err = NewGraph(nil, nil, WithNodeStyle(scene.ShapeStyle{Color: scene.White}))
	require.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestStraightEdgeGeometry(t *testing.T) {
	g, _ := NewGraph(nil, nil)
	_, _ = g.AddNode("a", geom.Origin)
	_, _ = g.AddNode("b", geom.V(4, 0))

	e, err := g.AddEdge("a", "b", WithWeight(7))
	require.NoError(t, err)
	l := e.Line().(*scene.Line)
	require.InDelta(t, 0.5, l.Start.X, 1e-12)
	require.InDelta(t, 3.5, l.End.X, 1e-12)
	require.True(t, l.Tip)

	w := e.Weight()
	require.Equal(t, "7", w.Content)
	require.InDelta(t, 2, w.C.X, 1e-12)
	require.InDelta(t, -DefaultLabelDistance, w.C.Y, 1e-12)

	noWeight, _ := g.AddEdge("b", "a", WithWeight(nil))
	require.Nil(t, noWeight.Weight())
}

func TestWeightLabelDistance(t *testing.T) {
	g, _ := NewGraph(nil, nil)
	_, _ = g.AddNode("a", geom.Origin)
	_, _ = g.AddNode("b", geom.V(4, 0))

	e, err := g.AddEdge("a", "b", WithWeight(5), WithLabelDistance(1.5))
	require.NoError(t, err)
	require.InDelta(t, 1.5, e.LabelDistance(), 1e-12)
	require.InDelta(t, 2, e.Weight().C.X, 1e-12)
	require.InDelta(t, -1.5, e.Weight().C.Y, 1e-12)

	// The label keeps its distance when the nodes move.
	n, _ := g.Node("b")
	n.moveTo(geom.V(0, 4))
	g.Update()
	require.InDelta(t, 1.5, e.Weight().C.X, 1e-9)
	require.InDelta(t, 2, e.Weight().C.Y, 1e-9)
}

func TestZeroWeightDrawsNoLabel(t *testing.T) {
	tests := []struct {
		name   string
		weight any
		label  bool
	}{
		{"nil", nil, false},
		{"zero int", 0, false},
		{"zero float", 0.0, false},
		{"empty string", "", false},
		{"one", 1, true},
		{"negative", -2, true},
		{"text", "w", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := NewGraph(nil, nil)
			_, _ = g.AddNode("a", geom.Origin)
			_, _ = g.AddNode("b", geom.V(4, 0))
			e, err := g.AddEdge("a", "b", WithWeight(tt.weight))
			require.NoError(t, err)
			require.Equal(t, tt.label, e.Weight() != nil)
			require.Equal(t, tt.weight, e.WeightValue())
		})
	}
}

func TestCurvedEdgeGeometry(t *testing.T) {
	g, _ := NewGraph(nil, nil)
	_, _ = g.AddNode("a", geom.Origin)
	_, _ = g.AddNode("b", geom.V(4, 0))

	e, err := g.AddCurvedEdge("a", "b", WithWeight("w"))
	require.NoError(t, err)
	arc := e.Line().(*scene.Arc)
	s := math.Sqrt(3) / 4
	require.InDelta(t, 0.25, arc.Start.X, 1e-12)
	require.InDelta(t, -s, arc.Start.Y, 1e-12)
	require.InDelta(t, 3.75, arc.End.X, 1e-12)
	require.InDelta(t, -s, arc.End.Y, 1e-12)
	require.InDelta(t, DefaultArcAngle, arc.Angle, 1e-12)

	// The label sits below the arc, offset by a fraction of the arc length.
	low := arc.BoundaryPoint(geom.Down)
	want := low.Y - arc.Length()*DefaultLabelDistance
	require.InDelta(t, want, e.Weight().C.Y, 1e-9)
	require.InDelta(t, 2, e.Weight().C.X, 1e-3)
}

func TestNodeLayoutFallback(t *testing.T) {
	build := func() *Graph {
		g, err := NewGraph(AdjacencyFromMap(map[string][]Neighbor{
			"a": {{Node: "b"}, {Node: "c", Weight: 4}},
			"b": {{Node: "c"}},
			"d": nil,
		}), nil, WithLayouter(testLayouter()))
		require.NoError(t, err)
		return g
	}
	want := build()
	got := build()
	ctx := context.Background()
	require.NoError(t, want.NodeLayout(ctx, layout.DefaultAlgorithm))
	require.NoError(t, got.NodeLayout(ctx, "not_a_real_algorithm"))

	for _, name := range want.Nodes() {
		w, _ := want.Node(name)
		n, _ := got.Node(name)
		require.InDelta(t, w.Center().X, n.Center().X, 1e-9)
		require.InDelta(t, w.Center().Y, n.Center().Y, 1e-9)
	}
}

func TestNodeLayoutFitsFrameAndRedrawsEdges(t *testing.T) {
	g, err := NewGraph(AdjacencyFromMap(map[string][]Neighbor{
		"a": {{Node: "b", Weight: 1}},
		"b": {{Node: "c"}},
		"c": {{Node: "a"}},
		"d": {{Node: "a"}},
	}), nil, WithLayouter(testLayouter()))
	require.NoError(t, err)
	_, _, err = g.ShowBackwardEdge("a", "b", 1, 2)
	require.NoError(t, err)

	require.NoError(t, g.NodeLayout(context.Background(), ""))

	var centres []geom.Vec
	for _, name := range g.Nodes() {
		n, _ := g.Node(name)
		centres = append(centres, n.Center())
		require.InDelta(t, n.Center().X, n.Text().C.X, 1e-9, "name follows the circle")
	}
	b := geom.BoxOf(centres...)
	require.InDelta(t, scene.DefaultFrame.Width/2, b.Width(), 1e-9)
	require.InDelta(t, scene.DefaultFrame.Height/2, b.Height(), 1e-9)
	require.InDelta(t, 0, b.Center().X, 1e-9)

	for _, e := range g.Edges() {
		fromName, toName := e.Endpoints()
		from, _ := g.Node(fromName)
		to, _ := g.Node(toName)
		var start, end geom.Vec
		switch l := e.Line().(type) {
		case *scene.Line:
			start, end = l.Start, l.End
		case *scene.Arc:
			start, end = l.Start, l.End
		}
		r := scene.DefaultCircle.Radius
		require.InDelta(t, r, start.Dist(from.Center()), 1e-9)
		require.InDelta(t, r, end.Dist(to.Center()), 1e-9)
	}
}

func TestAnimateNodeLayoutConverges(t *testing.T) {
	adj := []AdjacencyList{
		{Node: "x", Neighbors: []Neighbor{{Node: "y"}, {Node: "z"}}},
	}
	instant, _ := NewGraph(adj, nil, WithLayouter(testLayouter()))
	animated, _ := NewGraph(adj, nil, WithLayouter(testLayouter()))
	ctx := context.Background()

	require.NoError(t, instant.NodeLayout(ctx, "circular"))
	tr, err := animated.AnimateNodeLayout(ctx, "circular")
	require.NoError(t, err)
	require.NotNil(t, tr)

	for _, name := range instant.Nodes() {
		a, _ := instant.Node(name)
		b, _ := animated.Node(name)
		require.True(t, a.Center().Approx(b.Center(), 1e-9))
	}
	ea, _ := instant.Edge("x", "y")
	eb, _ := animated.Edge("x", "y")
	require.True(t, ea.Line().(*scene.Line).Start.Approx(eb.Line().(*scene.Line).Start, 1e-9))
}

type failingLayouter struct{}

func (failingLayouter) Layout(context.Context, string, []string, []layout.Edge) (layout.Positions, error) {
	return nil, errors.New(errors.ErrCodeInternal, "boom")
}

func TestNodeLayoutFailureLeavesGraph(t *testing.T) {
	g := twoNodes(t)
	g.cfg.layouter = failingLayouter{}
	err := g.NodeLayout(context.Background(), "anything")
	require.True(t, errors.Is(err, errors.ErrCodeLayoutFailed), "err = %v", err)
	n, _ := g.Node("0")
	require.Equal(t, geom.V(-2, 0), n.Center())
}

func TestGraphHighlights(t *testing.T) {
	g := twoNodes(t)
	g.SetNodeHighlight(scene.Yellow, 4)
	g.SetEdgeHighlight(scene.BlueA, 3)

	n, _ := g.Node("0")
	color, width := n.HighlightStyle()
	require.Equal(t, scene.Yellow, color)
	require.Equal(t, 4.0, width)
	require.False(t, n.Visible(), "configuring does not show the outline")

	tr := n.AnimateHighlight()
	require.NotNil(t, tr)
	require.True(t, n.Visible())
	require.False(t, n.Outline().(scene.Stroked).Stroke().Hidden)

	e, _ := g.Edge("0", "1")
	color, _ = e.HighlightStyle()
	require.Equal(t, scene.BlueA, color)
	require.True(t, e.Outline().(*scene.Line).Tip, "edge outline keeps the arrow tip")

	require.NotNil(t, n.AnimateClearHighlight())
	require.False(t, n.Visible())
	require.Nil(t, n.AnimateClearHighlight())
}

func TestGraphLabel(t *testing.T) {
	g := twoNodes(t)
	lbl := NewLabelText("G")
	require.NoError(t, g.AddLabel(lbl, geom.Up, DefaultLabelBuffer))
	require.Same(t, lbl, g.Label())
	require.Greater(t, lbl.C.Y, 0.5)
}

func TestAnimateAddNodeAndEdge(t *testing.T) {
	g, _ := NewGraph(nil, nil)
	_, tr, err := g.AnimateAddNode("a", geom.Origin)
	require.NoError(t, err)
	require.NotNil(t, tr)
	_, _, err = g.AnimateAddNode("a", geom.Origin)
	require.Error(t, err)

	_, _ = g.AddNode("b", geom.V(3, 0))
	e, tr, err := g.AnimateAddCurvedEdge("a", "b", WithArcAngle(math.Pi/4))
	require.NoError(t, err)
	require.NotNil(t, tr)
	require.Equal(t, 1, tr.Leaves())
	require.InDelta(t, math.Pi/4, e.ArcAngle(), 1e-12)
}
