package scene

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/dsanim/pkg/errors"
)

// Palette colours, as hex strings.
const (
	White       = "#FFFFFF"
	Gray        = "#888888"
	Red         = "#FC6255"
	Yellow      = "#FFFF00"
	BlueA       = "#C7E9F1"
	BlueB       = "#9CDCEB"
	BlueD       = "#29ABCA"
	PurpleLight = "#EB97FC"
	PurpleDark  = "#8C46D6"
	PurplePale  = "#FABCFF"
)

// ShapeStyle describes the stroke, fill and size of a container shape.
// It is a plain value: assigning it to a structure copies it, so later changes
// to the caller's variable never restyle shapes that already exist.
type ShapeStyle struct {
	Color       string  `json:"color,omitempty" toml:"color" yaml:"color"`
	StrokeWidth float64 `json:"stroke_width,omitempty" toml:"stroke_width" yaml:"stroke_width"`
	FillColor   string  `json:"fill_color,omitempty" toml:"fill_color" yaml:"fill_color"`
	FillOpacity float64 `json:"fill_opacity,omitempty" toml:"fill_opacity" yaml:"fill_opacity"`
	Width       float64 `json:"width,omitempty" toml:"width" yaml:"width"`
	Height      float64 `json:"height,omitempty" toml:"height" yaml:"height"`
	Radius      float64 `json:"radius,omitempty" toml:"radius" yaml:"radius"`
	Hidden      bool    `json:"hidden,omitempty" toml:"hidden" yaml:"hidden"`
}

// TextStyle describes how a text label is drawn.
type TextStyle struct {
	Color    string  `json:"color,omitempty" toml:"color" yaml:"color"`
	Font     string  `json:"font,omitempty" toml:"font" yaml:"font"`
	FontSize float64 `json:"font_size,omitempty" toml:"font_size" yaml:"font_size"`
	Bold     bool    `json:"bold,omitempty" toml:"bold" yaml:"bold"`
	Hidden   bool    `json:"hidden,omitempty" toml:"hidden" yaml:"hidden"`
}

// Validate checks that every colour in s parses.
func (s ShapeStyle) Validate() error {
	return validateColors(s.Color, s.FillColor)
}

// Validate checks that the text colour parses and the size is positive.
func (s TextStyle) Validate() error {
	if s.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font size must not be negative: %v", s.FontSize)
	}
	return validateColors(s.Color)
}

func validateColors(colors ...string) error {
	for _, c := range colors {
		if c == "" {
			continue
		}
		if _, err := colorful.Hex(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid colour %q", c)
		}
	}
	return nil
}

// Blend mixes two hex colours in Lab space. t=0 yields a, t=1 yields b.
// Unparseable inputs return a unchanged.
func Blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}

// =============================================================================
// Presets
// =============================================================================

// Square presets.
var (
	DefaultSquare = ShapeStyle{Color: White, StrokeWidth: 6, Width: 1, Height: 1}
	PurpleSquare  = ShapeStyle{Color: PurpleLight, FillColor: PurpleDark, FillOpacity: 1, StrokeWidth: 6, Width: 1, Height: 1}
	BlueSquare    = ShapeStyle{Color: BlueB, FillColor: BlueD, FillOpacity: 1, StrokeWidth: 6, Width: 1, Height: 1}
)

// Circle presets.
var (
	DefaultCircle = ShapeStyle{Color: White, StrokeWidth: 6, Radius: 0.5}
	PurpleCircle  = ShapeStyle{Color: PurpleLight, FillColor: PurpleDark, FillOpacity: 0.5, StrokeWidth: 6, Radius: 0.5}
	BlueCircle    = ShapeStyle{Color: BlueB, FillColor: BlueD, FillOpacity: 0.75, StrokeWidth: 6, Radius: 0.5}
)

// DefaultEdge is the stroke used for graph edges.
var DefaultEdge = ShapeStyle{Color: Gray, StrokeWidth: 7}

// Text presets.
var (
	DefaultValue  = TextStyle{Color: White, Font: "Cascadia Code", FontSize: 48, Bold: true}
	DefaultIndex  = TextStyle{Color: White, Font: "Cascadia Code", FontSize: 32}
	BlueIndex     = TextStyle{Color: BlueD, Font: "Cascadia Code", FontSize: 32}
	PurpleIndex   = TextStyle{Color: PurplePale, Font: "Cascadia Code", FontSize: 32}
	DefaultWeight = TextStyle{Color: White, Font: "Javiera", FontSize: 34}
	DefaultLabel  = TextStyle{Color: BlueA, Font: "Cascadia Code", FontSize: 38}
)

// Theme groups the presets that belong together under one name.
type Theme struct {
	Square ShapeStyle
	Circle ShapeStyle
	Index  TextStyle
}

// Themes maps preset names to their styles.
var Themes = map[string]Theme{
	"default": {Square: DefaultSquare, Circle: DefaultCircle, Index: DefaultIndex},
	"purple":  {Square: PurpleSquare, Circle: PurpleCircle, Index: PurpleIndex},
	"blue":    {Square: BlueSquare, Circle: BlueCircle, Index: BlueIndex},
}
