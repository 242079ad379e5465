package scene

import "github.com/matzehuels/dsanim/pkg/geom"

// Frame describes the visible region of the scene and its pixel resolution.
type Frame struct {
	Width       float64 `json:"width" toml:"width" yaml:"width" validate:"omitempty,gt=0"`
	Height      float64 `json:"height" toml:"height" yaml:"height" validate:"omitempty,gt=0"`
	PixelWidth  int     `json:"pixel_width" toml:"pixel_width" yaml:"pixel_width" validate:"omitempty,gt=0"`
	PixelHeight int     `json:"pixel_height" toml:"pixel_height" yaml:"pixel_height" validate:"omitempty,gt=0"`
	Background  string  `json:"background" toml:"background" yaml:"background"`
}

// DefaultFrame is a 16:9 frame eight units tall rendered at 1280x720.
var DefaultFrame = Frame{
	Width:       8.0 * 16 / 9,
	Height:      8.0,
	PixelWidth:  1280,
	PixelHeight: 720,
	Background:  "#000000",
}

// WithDefaults fills zero fields from DefaultFrame.
func (f Frame) WithDefaults() Frame {
	if f.Width == 0 {
		f.Width = DefaultFrame.Width
	}
	if f.Height == 0 {
		f.Height = DefaultFrame.Height
	}
	if f.PixelWidth == 0 {
		f.PixelWidth = DefaultFrame.PixelWidth
	}
	if f.PixelHeight == 0 {
		f.PixelHeight = DefaultFrame.PixelHeight
	}
	if f.Background == "" {
		f.Background = DefaultFrame.Background
	}
	return f
}

// Box returns the visible region centred on the origin.
func (f Frame) Box() geom.Box { return geom.BoxAround(geom.Origin, f.Width, f.Height) }

// Radius returns the distance from the origin to the nearest frame edge.
func (f Frame) Radius() float64 { return min(f.Width, f.Height) / 2 }

// Updater recomputes derived geometry from a shape's current transform.
type Updater interface {
	Update()
}

// UpdaterFunc adapts a function to the Updater interface.
type UpdaterFunc func()

func (f UpdaterFunc) Update() { f() }

// Scene holds the top-level shapes to draw and the updaters to run each tick.
type Scene struct {
	Frame    Frame
	root     *Group
	updaters []Updater
}

// New creates an empty scene with the given frame.
func New(frame Frame) *Scene {
	return &Scene{Frame: frame.WithDefaults(), root: NewGroup()}
}

// Add puts shapes on the scene, on top of those already present.
func (s *Scene) Add(shapes ...Shape) { s.root.Add(shapes...) }

// Remove takes shapes off the scene.
func (s *Scene) Remove(shapes ...Shape) { s.root.Remove(shapes...) }

// Root returns the group holding every top-level shape.
func (s *Scene) Root() *Group { return s.root }

// Shapes returns the top-level shapes in drawing order.
func (s *Scene) Shapes() []Shape { return s.root.Children() }

// AddUpdater registers u to run on every Tick.
func (s *Scene) AddUpdater(u Updater) {
	if u != nil {
		s.updaters = append(s.updaters, u)
	}
}

// Tick runs every registered updater once, in registration order.
func (s *Scene) Tick() {
	for _, u := range s.updaters {
		u.Update()
	}
}

// Find returns the shape with the given ID anywhere in the scene.
func (s *Scene) Find(id string) (Shape, bool) { return Find(s.root, id) }
