package ds

import (
	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// DefaultStackBuffer is the default gap between stacked elements and between
// the elements and the container, as a fraction of the square width.
const DefaultStackBuffer = 0.1

// Stack is a collection that grows upward inside an open-top container.
//
// The container is sized once at construction for the initial elements plus
// three free slots (seven slots when empty). It is a visual hint only and does
// not limit the number of elements.
type Stack struct {
	*Collection[*Element]

	buff       float64
	bottom     *scene.Line
	left       *scene.Line
	right      *scene.Line
	container  *scene.Group
	spawnPoint geom.Vec
}

// NewStack creates a stack holding values bottom to top, centred on the
// origin. WithDirection is ignored; WithMargin sets the buffer.
func NewStack(values []any, opts ...Option) (*Stack, error) {
	opts = append([]Option{WithMargin(DefaultStackBuffer)}, opts...)
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	cfg.direction = geom.Up
	buff := cfg.margin
	cfg.margin = buff * cfg.square.Width

	c := newCollection(values, cfg, NewElement)
	s := &Stack{Collection: c, buff: buff}

	elem := c.squareAt(0)
	height := float64(len(values)+3) * elem.H
	if len(values) == 0 {
		height = 7 * c.spawn.H
	}
	edge := cfg.square
	edge.Width, edge.Height = 0, 0
	if edge.StrokeWidth == 0 {
		edge.StrokeWidth = scene.DefaultSquare.StrokeWidth
	}
	edge.FillColor, edge.FillOpacity = "", 0

	s.bottom = scene.NewLine(geom.Origin, geom.V(elem.W+2*buff, 0), edge)
	scene.NextTo(s.bottom, elem, geom.Down, buff)
	s.left = scene.NewLine(geom.V(0, height), geom.Origin, edge)
	scene.NextTo(s.left, s.bottom, geom.UL, 0)
	s.right = s.left.Copy().(*scene.Line)
	scene.NextTo(s.right, s.bottom, geom.UR, 0)
	s.container = scene.NewGroup(s.left, s.bottom, s.right)
	c.group.Add(s.container)

	scene.MoveTo(c.group, geom.Origin)
	s.Update()
	return s, nil
}

// Container returns the three lines of the open-top box.
func (s *Stack) Container() *scene.Group { return s.container }

// ComputeSpawnPoint derives the point new elements appear at from the current
// geometry: above the container by one square width.
func (s *Stack) ComputeSpawnPoint() geom.Vec {
	return s.bottom.Midpoint().
		Add(geom.Up.Mul(scene.Height(s.right))).
		Add(geom.Up.Mul(s.spawn.W))
}

// SpawnPoint returns the spawn point as of the last Update.
func (s *Stack) SpawnPoint() geom.Vec { return s.spawnPoint }

// Update refreshes the spawn point and margin after the stack was moved or
// scaled.
func (s *Stack) Update() {
	s.spawnPoint = s.ComputeSpawnPoint()
	s.margin = s.buff * s.spawn.W
}

// AnimateAppend pushes v and returns a transition growing the new element at
// the spawn point and then moving it into its slot.
func (s *Stack) AnimateAppend(v any) (*Element, *anim.Transition) {
	e := s.append(v)
	slot := scene.Center(e.group)
	return e, anim.Sequence(
		anim.Create(e.group),
		anim.Move(e.group, s.spawnPoint, slot),
	)
}

// Pop removes the top element. Popping an empty stack does nothing.
func (s *Stack) Pop() {
	if len(s.elements) == 0 {
		return
	}
	s.remove(len(s.elements) - 1)
}

// AnimatePop removes the top element and returns a transition moving a copy
// of it to the spawn point and fading it out there.
func (s *Stack) AnimatePop() *anim.Transition {
	if len(s.elements) == 0 {
		return nil
	}
	popped, _, _ := s.remove(len(s.elements) - 1)
	from := scene.Center(popped.group)
	return anim.Sequence(
		anim.Move(popped.group, from, s.spawnPoint),
		anim.FadeOut(popped.group),
	)
}

// Peek returns the top element.
func (s *Stack) Peek() (*Element, bool) {
	if len(s.elements) == 0 {
		return nil, false
	}
	return s.elements[len(s.elements)-1], true
}

// AddLabel places t on the spawn point.
func (s *Stack) AddLabel(t *scene.Text, dir geom.Vec, buff float64) error {
	_, err := s.addLabel(t, dir, buff)
	return err
}

// AnimateAddLabel places t on the spawn point and returns a transition
// writing it in.
func (s *Stack) AnimateAddLabel(t *scene.Text, dir geom.Vec, buff float64) (*anim.Transition, error) {
	old, err := s.addLabel(t, dir, buff)
	if err != nil {
		return nil, err
	}
	return labelTransition(old, t), nil
}

func (s *Stack) addLabel(t *scene.Text, dir geom.Vec, buff float64) (*scene.Text, error) {
	return s.label.place(s.group, t, dir, buff, func(t *scene.Text) {
		scene.MoveTo(t, s.ComputeSpawnPoint())
	})
}
