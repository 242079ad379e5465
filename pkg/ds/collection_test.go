package ds

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

const tol = 1e-9

func ints(vs ...int) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func squareCenters[E cell](c *Collection[E]) []geom.Vec {
	out := make([]geom.Vec, 0, c.Len())
	for _, e := range c.elements {
		out = append(out, e.elem().square.C)
	}
	return out
}

func requireVecs(t *testing.T, want, got []geom.Vec) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, want[i].X, got[i].X, 1e-6, "x of %d", i)
		require.InDelta(t, want[i].Y, got[i].Y, 1e-6, "y of %d", i)
	}
}

func TestArrayAppendPopScenario(t *testing.T) {
	a, err := NewArray(ints(1, 2, 3))
	require.NoError(t, err)
	slot0 := a.elements[0].square.C

	a.Append(4)
	require.NoError(t, a.Pop(0))

	require.Equal(t, []string{"2", "3", "4"}, a.Values())
	require.InDelta(t, slot0.X, a.elements[0].square.C.X, tol)
	require.InDelta(t, slot0.Y, a.elements[0].square.C.Y, tol)
}

func TestCollectionSpacing(t *testing.T) {
	tests := []struct {
		name   string
		dir    geom.Vec
		margin float64
	}{
		{"right", geom.Right, 0},
		{"left with margin", geom.Left, 0.2},
		{"down", geom.Down, 0.5},
		{"up", geom.Up, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewArray(ints(1, 2, 3, 4), WithDirection(tt.dir), WithMargin(tt.margin))
			require.NoError(t, err)
			a.Append(5)
			require.NoError(t, a.Pop(1))
			cs := squareCenters(a.Collection)
			for i := 1; i < len(cs); i++ {
				step := cs[i].Sub(cs[i-1])
				require.InDelta(t, 1+tt.margin, step.Dot(tt.dir), 1e-6)
				require.InDelta(t, 0, step.Cross(tt.dir), 1e-6)
			}
		})
	}
}

func TestCollectionCentredOnOrigin(t *testing.T) {
	a, _ := NewArray(ints(1, 2, 3))
	c := scene.Center(a.Shape())
	require.InDelta(t, 0, c.X, tol)
	require.InDelta(t, 0, c.Y, tol)
}

func TestAppendToEmptyUsesSpawn(t *testing.T) {
	a, err := NewArray(nil)
	require.NoError(t, err)
	e := a.Append("x")
	require.Equal(t, a.SpawnSquare().C, e.square.C)
	require.Equal(t, 1, a.Len())
}

func TestPopEdgeCases(t *testing.T) {
	a, _ := NewArray(nil)
	require.NoError(t, a.Pop(3), "empty pop is a no-op")
	tr, err := a.AnimatePop(0)
	require.NoError(t, err)
	require.Nil(t, tr)

	b, _ := NewArray(ints(1, 2))
	before := squareCenters(b.Collection)
	err = b.Pop(2)
	require.True(t, errors.Is(err, errors.ErrCodeOutOfBounds), "err = %v", err)
	require.Equal(t, []string{"1", "2"}, b.Values())
	requireVecs(t, before, squareCenters(b.Collection))

	_, err = b.At(-1)
	require.True(t, errors.Is(err, errors.ErrCodeOutOfBounds))
	require.True(t, errors.Is(b.Swap(0, 5), errors.ErrCodeOutOfBounds))
}

func TestSwap(t *testing.T) {
	a, _ := NewArray(ints(10, 20, 30))
	before := squareCenters(a.Collection)
	require.NoError(t, a.Swap(0, 2))
	require.Equal(t, []string{"30", "20", "10"}, a.Values())
	requireVecs(t, before, squareCenters(a.Collection))

	require.NoError(t, a.Swap(1, 1))
	require.Equal(t, []string{"30", "20", "10"}, a.Values())
}

func TestAnimatedAndInstantConverge(t *testing.T) {
	instant, _ := NewArray(ints(1, 2, 3, 4))
	animated, _ := NewArray(ints(1, 2, 3, 4))
	require.NoError(t, instant.AddIndexes(geom.Down, DefaultIndexBuffer, scene.DefaultIndex))
	_, err := animated.AnimateAddIndexes(geom.Down, DefaultIndexBuffer, scene.DefaultIndex)
	require.NoError(t, err)

	instant.Append(5)
	_, tr := animated.AnimateAppend(5)
	require.NotNil(t, tr)

	require.NoError(t, instant.Pop(1))
	tr, err = animated.AnimatePop(1)
	require.NoError(t, err)
	require.NotNil(t, tr)

	require.NoError(t, instant.Swap(0, 3))
	tr, err = animated.AnimateSwap(0, 3, DefaultSwapArc)
	require.NoError(t, err)
	require.NotNil(t, tr)

	require.Equal(t, instant.Values(), animated.Values())
	requireVecs(t, squareCenters(instant.Collection), squareCenters(animated.Collection))
	for i := range instant.elements {
		require.Equal(t, instant.elements[i].Index().Content, animated.elements[i].Index().Content)
		require.InDelta(t, scene.Center(instant.elements[i].Index()).X, scene.Center(animated.elements[i].Index()).X, 1e-6)
	}
}

func TestAddIndexes(t *testing.T) {
	a, _ := NewArray(ints(5, 6, 7))

	err := a.AddIndexes(geom.Right, DefaultIndexBuffer, scene.DefaultIndex)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "parallel direction: %v", err)
	err = a.AddIndexes(geom.Left, DefaultIndexBuffer, scene.DefaultIndex)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "anti-parallel direction: %v", err)
	require.False(t, a.Indexed())
	for _, e := range a.elements {
		require.Nil(t, e.Index())
	}

	require.NoError(t, a.AddIndexes(geom.Down, DefaultIndexBuffer, scene.DefaultIndex))
	first := make([]*scene.Text, a.Len())
	for i, e := range a.elements {
		first[i] = e.Index()
		require.Equal(t, strconv.Itoa(i), e.Index().Content)
	}

	require.NoError(t, a.AddIndexes(geom.Up, 2, scene.BlueIndex), "second call is a no-op")
	for i, e := range a.elements {
		require.Same(t, first[i], e.Index())
	}
	require.InDelta(t, DefaultIndexBuffer, a.IndexBuffer(), tol)
}

func TestIndexMatchesSlot(t *testing.T) {
	a, _ := NewArray(ints(1, 2, 3, 4))
	require.NoError(t, a.AddIndexes(geom.Down, DefaultIndexBuffer, scene.DefaultIndex))

	check := func() {
		t.Helper()
		for i, e := range a.elements {
			require.Equal(t, strconv.Itoa(i), e.Index().Content)
			require.InDelta(t, e.square.C.X, scene.Center(e.Index()).X, 1e-6)
			require.Less(t, scene.Center(e.Index()).Y, e.square.C.Y)
		}
	}
	require.NoError(t, a.Swap(0, 3))
	check()
	require.NoError(t, a.Pop(1))
	check()
	a.Append(9)
	check()
	_, err := a.AnimateSwap(1, 2, DefaultSwapArc)
	require.NoError(t, err)
	check()
	_, err = a.AnimatePop(0)
	require.NoError(t, err)
	check()
}

func TestComputeIndexBufferTracksScale(t *testing.T) {
	a, _ := NewArray(ints(1, 2))
	require.NoError(t, a.AddIndexes(geom.Down, 0.4, scene.DefaultIndex))
	require.InDelta(t, 0.4, a.ComputeIndexBuffer(), 1e-9)

	scene.Scale(a.Shape(), 2)
	require.InDelta(t, 0.8, a.ComputeIndexBuffer(), 1e-9)
	a.Update()
	require.InDelta(t, 0.8, a.IndexBuffer(), 1e-9)

	e := a.Append(3)
	require.InDelta(t, 2, e.square.W, 1e-9)
	require.InDelta(t, 0.8, a.ComputeIndexBuffer(), 1e-9)
}

func TestSetValue(t *testing.T) {
	a, _ := NewArray(ints(1, 2))
	e := a.elements[0]
	c := e.ValueText().C
	e.SetValue("longer")
	require.Equal(t, "longer", e.Value())
	require.Equal(t, c, e.ValueText().C)
	require.InDelta(t, scene.DefaultValue.FontSize*e.square.W, e.ValueText().Size, tol)

	_, tr := e.AnimateSetValue(3.5)
	require.NotNil(t, tr)
	require.Equal(t, "3.5", e.Value())
}

func TestCollectionLabel(t *testing.T) {
	a, _ := NewArray(ints(1, 2, 3))
	lbl := NewLabelText("arr")
	require.NoError(t, a.AddLabel(lbl, geom.Right, DefaultLabelBuffer))
	last := a.elements[2].square
	require.InDelta(t, last.C.Y, lbl.C.Y, 1e-6)
	require.Greater(t, lbl.C.X, last.C.X)

	replacement := NewLabelText("xs")
	tr, err := a.AnimateAddLabel(replacement, geom.Up, DefaultLabelBuffer)
	require.NoError(t, err)
	require.NotNil(t, tr)
	require.Same(t, replacement, a.Label())
	require.False(t, a.group.Contains(lbl))

	require.Error(t, a.AddLabel(NewLabelText("bad"), geom.V(1, 1), 0))
	require.Same(t, replacement, a.Label())
}

func TestStackScenario(t *testing.T) {
	s, err := NewStack(nil)
	require.NoError(t, err)
	spawn := s.SpawnPoint()

	s.Append("a")
	s.Append("b")
	s.Pop()
	s.Update()

	require.Equal(t, []string{"a"}, s.Values())
	require.InDelta(t, spawn.X, s.SpawnPoint().X, tol)
	require.InDelta(t, spawn.Y, s.SpawnPoint().Y, tol)

	s.Pop()
	s.Pop()
	require.Equal(t, 0, s.Len())
	_, ok := s.Peek()
	require.False(t, ok)
}

func TestStackGeometry(t *testing.T) {
	s, err := NewStack(ints(1, 2))
	require.NoError(t, err)

	// Five slots of height one.
	require.InDelta(t, 5, s.left.Length(), tol)
	require.InDelta(t, s.Margin(), DefaultStackBuffer, tol)
	cs := squareCenters(s.Collection)
	require.InDelta(t, 1+DefaultStackBuffer, cs[1].Y-cs[0].Y, 1e-6)

	top := scene.Edge(s.right, geom.Up).Y
	require.InDelta(t, top+1, s.SpawnPoint().Y, 1e-6)

	s.Shape().Shift(geom.V(2, 1))
	require.InDelta(t, top+1, s.SpawnPoint().Y, 1e-6, "cached until Update")
	s.Update()
	require.InDelta(t, top+2, s.SpawnPoint().Y, 1e-6)
}

func TestStackAnimatedConverges(t *testing.T) {
	instant, _ := NewStack(ints(1))
	animated, _ := NewStack(ints(1))

	instant.Append(2)
	_, tr := animated.AnimateAppend(2)
	require.NotNil(t, tr)
	require.NotNil(t, animated.AnimatePop())
	instant.Pop()
	require.Nil(t, (&Stack{Collection: &Collection[*Element]{}}).AnimatePop())

	require.Equal(t, instant.Values(), animated.Values())
	requireVecs(t, squareCenters(instant.Collection), squareCenters(animated.Collection))
}

func TestStackLabelAtSpawn(t *testing.T) {
	s, _ := NewStack(ints(1))
	lbl := NewLabelText("stack")
	require.NoError(t, s.AddLabel(lbl, geom.Up, DefaultLabelBuffer))
	require.InDelta(t, s.ComputeSpawnPoint().X, lbl.C.X, 1e-6)
	require.InDelta(t, s.ComputeSpawnPoint().Y, lbl.C.Y, 1e-6)
}

func TestVariable(t *testing.T) {
	v, err := NewVariable(42, WithSquareStyle(scene.PurpleSquare))
	require.NoError(t, err)
	require.Equal(t, "42", v.Value())

	lbl := NewLabelText("n")
	tr, err := v.AnimateAddLabel(lbl, geom.Left, DefaultLabelBuffer)
	require.NoError(t, err)
	require.NotNil(t, tr)
	require.Less(t, lbl.C.X, v.square.C.X)
	require.Same(t, lbl, v.Label())
}

func TestOptionsValidate(t *testing.T) {
	_, err := NewArray(nil, WithDirection(geom.V(1, 1)))
	require.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
	_, err = NewArray(nil, WithMargin(-1))
	require.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
	bad := scene.DefaultSquare
	bad.Color = "not a colour"
	_, err = NewStack(nil, WithSquareStyle(bad))
	require.Error(t, err)
}

func TestStyleCopiedOnAssignment(t *testing.T) {
	st := scene.DefaultSquare
	a, _ := NewArray(ints(1), WithSquareStyle(st))
	st.Color = scene.Red
	require.Equal(t, scene.White, a.elements[0].square.Style.Color)
	e := a.Append(2)
	require.Equal(t, scene.White, e.square.Style.Color)
}
