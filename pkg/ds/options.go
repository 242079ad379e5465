package ds

import (
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// Option configures an Array, Stack or Variable.
type Option func(*config)

type config struct {
	direction geom.Vec
	square    scene.ShapeStyle
	value     scene.TextStyle
	margin    float64
}

func defaultConfig() config {
	return config{
		direction: geom.Right,
		square:    scene.DefaultSquare,
		value:     scene.DefaultValue,
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !geom.IsAxis(cfg.direction) {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "growth direction %v is not an axis direction", cfg.direction)
	}
	if cfg.square.Width <= 0 || cfg.square.Height <= 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "square size must be positive, got %vx%v", cfg.square.Width, cfg.square.Height)
	}
	if cfg.margin < 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "margin must not be negative: %v", cfg.margin)
	}
	if err := cfg.square.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.value.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WithDirection sets the growth direction of an Array. Stacks always grow up.
func WithDirection(d geom.Vec) Option {
	return func(c *config) { c.direction = d }
}

// WithSquareStyle sets the container style. The style is copied.
func WithSquareStyle(s scene.ShapeStyle) Option {
	return func(c *config) { c.square = s }
}

// WithValueStyle sets the value text style. The style is copied.
func WithValueStyle(s scene.TextStyle) Option {
	return func(c *config) { c.value = s }
}

// WithMargin sets the gap between consecutive elements, as a fraction of the
// square width for stacks and in scene units for arrays.
func WithMargin(m float64) Option {
	return func(c *config) { c.margin = m }
}

// GraphOption configures a Graph.
type GraphOption func(*graphConfig)

type graphConfig struct {
	node     scene.ShapeStyle
	value    scene.TextStyle
	edge     scene.ShapeStyle
	weight   scene.TextStyle
	frame    scene.Frame
	layouter Layouter
}

func applyGraphOptions(opts []GraphOption) (graphConfig, error) {
	cfg := graphConfig{
		node:   scene.DefaultCircle,
		value:  scene.DefaultValue,
		edge:   scene.DefaultEdge,
		weight: scene.DefaultWeight,
		frame:  scene.DefaultFrame,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.node.Radius <= 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "node radius must be positive, got %v", cfg.node.Radius)
	}
	for _, s := range []scene.ShapeStyle{cfg.node, cfg.edge} {
		if err := s.Validate(); err != nil {
			return cfg, err
		}
	}
	for _, s := range []scene.TextStyle{cfg.value, cfg.weight} {
		if err := s.Validate(); err != nil {
			return cfg, err
		}
	}
	cfg.frame = cfg.frame.WithDefaults()
	return cfg, nil
}

// WithNodeStyle sets the node circle style.
func WithNodeStyle(s scene.ShapeStyle) GraphOption {
	return func(c *graphConfig) { c.node = s }
}

// WithNodeValueStyle sets the style of node names.
func WithNodeValueStyle(s scene.TextStyle) GraphOption {
	return func(c *graphConfig) { c.value = s }
}

// WithEdgeStyle sets the edge stroke.
func WithEdgeStyle(s scene.ShapeStyle) GraphOption {
	return func(c *graphConfig) { c.edge = s }
}

// WithWeightStyle sets the style of edge weights.
func WithWeightStyle(s scene.TextStyle) GraphOption {
	return func(c *graphConfig) { c.weight = s }
}

// WithFrame sets the frame automatic layouts are fitted to.
func WithFrame(f scene.Frame) GraphOption {
	return func(c *graphConfig) { c.frame = f }
}

// WithLayouter sets the layout provider used by NodeLayout.
func WithLayouter(l Layouter) GraphOption {
	return func(c *graphConfig) { c.layouter = l }
}
