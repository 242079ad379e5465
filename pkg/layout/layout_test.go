package layout

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dsanim/pkg/cache"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
)

// lineEngine places nodes on the x axis in order.
type lineEngine struct {
	name  string
	calls int
	fail  bool
}

func (e *lineEngine) Name() string { return e.name }

func (e *lineEngine) Layout(_ context.Context, nodes []string, _ []Edge) (Positions, error) {
	e.calls++
	if e.fail {
		return nil, fmt.Errorf("%s exploded", e.name)
	}
	pos := make(Positions, len(nodes))
	for i, n := range nodes {
		pos[n] = geom.V(float64(i), float64(i%2))
	}
	return pos, nil
}

func quietRegistry(buf *bytes.Buffer) *Registry {
	return NewRegistry(WithLogger(log.New(buf)))
}

func TestRegistryUnknownFallsBackToDefault(t *testing.T) {
	var logs bytes.Buffer
	r := quietRegistry(&logs)
	r.Register(DefaultAlgorithm, &lineEngine{name: "line"})
	ctx := context.Background()
	nodes := []string{"a", "b", "c"}
	edges := []Edge{{"a", "b"}, {"b", "c"}}

	want, err := r.Layout(ctx, DefaultAlgorithm, nodes, edges)
	require.NoError(t, err)
	got, err := r.Layout(ctx, "not_a_real_algorithm", nodes, edges)
	require.NoError(t, err)
	require.Equal(t, want, got)

	if !strings.Contains(logs.String(), "layout not available") {
		t.Errorf("expected fallback warning, got %q", logs.String())
	}
}

func TestRegistryFailingEngineDegrades(t *testing.T) {
	var logs bytes.Buffer
	r := quietRegistry(&logs)
	def := &lineEngine{name: "line"}
	r.Register(DefaultAlgorithm, def)
	r.Register("broken", &lineEngine{name: "broken", fail: true})

	pos, err := r.Layout(context.Background(), "broken", []string{"x", "y"}, nil)
	require.NoError(t, err)
	require.Len(t, pos, 2)
	if def.calls != 1 {
		t.Errorf("default engine calls = %d, want 1", def.calls)
	}
	if !strings.Contains(logs.String(), "layout failed") {
		t.Errorf("expected failure warning, got %q", logs.String())
	}
}

func TestRegistryFallbackFailure(t *testing.T) {
	r := quietRegistry(&bytes.Buffer{})
	r.Register(DefaultAlgorithm, &lineEngine{name: "line", fail: true})
	_, err := r.Layout(context.Background(), "anything", []string{"a"}, nil)
	if !errors.Is(err, errors.ErrCodeLayoutFailed) {
		t.Fatalf("err = %v, want LAYOUT_FAILED", err)
	}

	empty := quietRegistry(&bytes.Buffer{})
	if _, _, err := empty.Resolve("x"); !errors.Is(err, errors.ErrCodeLayoutFailed) {
		t.Errorf("Resolve on empty registry: %v", err)
	}
}

func TestRegistryMissingPositionIsFailure(t *testing.T) {
	r := quietRegistry(&bytes.Buffer{})
	r.Register(DefaultAlgorithm, &lineEngine{name: "line"})
	r.Register("partial", engineFunc(func(nodes []string) Positions {
		return Positions{nodes[0]: geom.Origin}
	}))
	pos, err := r.Layout(context.Background(), "partial", []string{"a", "b"}, nil)
	require.NoError(t, err)
	require.Contains(t, pos, "b")
}

type engineFunc func(nodes []string) Positions

func (engineFunc) Name() string { return "func" }
func (f engineFunc) Layout(_ context.Context, nodes []string, _ []Edge) (Positions, error) {
	return f(nodes), nil
}

func TestDefaultRegistryNames(t *testing.T) {
	r := NewDefaultRegistry(nil, nil)
	names := r.Names()
	for _, want := range []string{KamadaKawai, Spring, Shell, Circo, Spectral, CircularName} {
		require.Contains(t, names, want)
	}
}

func TestCircular(t *testing.T) {
	pos, err := Circular{}.Layout(context.Background(), []string{"a", "b", "c", "d"}, nil)
	require.NoError(t, err)
	require.InDelta(t, 1.0, pos["a"].X, 1e-9)
	require.InDelta(t, 1.0, pos["b"].Y, 1e-9)
	require.InDelta(t, -1.0, pos["c"].X, 1e-9)
	require.InDelta(t, -1.0, pos["d"].Y, 1e-9)

	single, _ := Circular{}.Layout(context.Background(), []string{"only"}, nil)
	require.Equal(t, geom.Origin, single["only"])
}

func TestFit(t *testing.T) {
	pos := Positions{
		"a": geom.V(-1, 0),
		"b": geom.V(3, 2),
		"c": geom.V(1, 4),
	}
	out := pos.Fit(geom.V(10, 10), 8, 2)
	b := out.Bounds()
	require.InDelta(t, 8, b.Width(), 1e-9)
	require.InDelta(t, 2, b.Height(), 1e-9)
	require.InDelta(t, 10, b.Center().X, 1e-9)
	require.InDelta(t, 10, b.Center().Y, 1e-9)

	flat := Positions{"a": geom.V(0, 5), "b": geom.V(2, 5)}.Fit(geom.Origin, 4, 4)
	require.InDelta(t, 0, flat["a"].Y, 1e-9)
	require.InDelta(t, -2, flat["a"].X, 1e-9)

	one := Positions{"a": geom.V(7, 7)}.Fit(geom.V(1, 1), 4, 4)
	require.Equal(t, geom.V(1, 1), one["a"])
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]Edge{{"a", "b"}, {"b", "a"}, {"a", "a"}, {"b", "c"}, {"a", "b"}})
	require.Equal(t, []Edge{{"a", "b"}, {"b", "c"}}, got)
}

func TestToDOT(t *testing.T) {
	ids := map[string]string{"x y": "n0", "z": "n1"}
	dot, err := ToDOT([]string{"x y", "z"}, []Edge{{"x y", "z"}, {"z", "x y"}}, ids, map[string]string{"mode": "KK"})
	require.NoError(t, err)
	require.Contains(t, dot, "strict graph G")
	require.Contains(t, dot, `mode="KK";`)
	require.Equal(t, 1, strings.Count(dot, "--"))

	_, err = ToDOT([]string{"z"}, []Edge{{"z", "missing"}}, map[string]string{"z": "n0"}, nil)
	require.Error(t, err)
}

func TestParsePositions(t *testing.T) {
	out := []byte(`strict graph G {
	graph [bb="0,0,100,50", mode=KK];
	node [label="", shape=circle];
	n0	[height=0.5,
		pos="27,18",
		width=0.5];
	n1	[pos="-3.5,1e+02!"];
	n0 -- n1	[pos="27,18 40,30"];
}
`)
	pos, err := parsePositions(out, map[string]string{"a": "n0", "b": "n1"})
	require.NoError(t, err)
	require.Equal(t, geom.V(27, 18), pos["a"])
	require.InDelta(t, -3.5, pos["b"].X, 1e-9)
	require.InDelta(t, 100, pos["b"].Y, 1e-9)

	_, err = parsePositions(out, map[string]string{"a": "n0", "b": "n1", "c": "n2"})
	require.Error(t, err)
}

func TestCachedEngine(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	inner := &lineEngine{name: "line"}
	e := NewCached(inner, "test", c, nil)
	ctx := context.Background()

	first, err := e.Layout(ctx, []string{"a", "b"}, []Edge{{"a", "b"}})
	require.NoError(t, err)
	second, err := e.Layout(ctx, []string{"a", "b"}, []Edge{{"b", "a"}})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.calls)

	_, err = e.Layout(ctx, []string{"a", "b", "c"}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestGraphvizSmoke(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz smoke test")
	}
	nodes := []string{"0", "1", "2", "3"}
	edges := []Edge{{"0", "1"}, {"1", "2"}, {"2", "0"}, {"2", "3"}}
	r := NewDefaultRegistry(nil, nil, WithLogger(log.New(&bytes.Buffer{})))
	for _, name := range []string{KamadaKawai, Spring, Circo} {
		pos, err := r.Layout(context.Background(), name, nodes, edges)
		require.NoError(t, err, name)
		for _, n := range nodes {
			p, ok := pos[n]
			require.True(t, ok, "%s: node %s has no position", name, n)
			require.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
		}
	}
}
