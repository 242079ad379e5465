// Package script loads animation scripts.
//
// A script declares a frame, the structures to draw and the steps to apply to
// them in order:
//
//	name = "swap demo"
//	fps = 30
//
//	[[structures]]
//	id = "arr"
//	kind = "array"
//	values = [3, 1, 2]
//	indexes = "down"
//
//	[[steps]]
//	target = "arr"
//	op = "swap"
//	i = 0
//	j = 2
//
// Scripts are TOML, YAML or JSON, chosen by file extension. [Load] and
// [Parse] reject unknown keys, check field constraints with
// github.com/go-playground/validator/v10 and then cross-check the steps
// against the structures they target (see [Script.Validate]). Every error
// carries the INVALID_SCRIPT code.
package script

import (
	"strings"

	"github.com/matzehuels/dsanim/pkg/ds"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// DefaultFPS is the frame rate used when a script does not set one.
const DefaultFPS = 30

// Kind names a structure type.
type Kind string

const (
	KindArray    Kind = "array"
	KindStack    Kind = "stack"
	KindGraph    Kind = "graph"
	KindVariable Kind = "variable"
)

// Op names a step operation.
type Op string

const (
	OpAppend           Op = "append"
	OpPop              Op = "pop"
	OpSwap             Op = "swap"
	OpSetValue         Op = "set_value"
	OpAddIndexes       Op = "add_indexes"
	OpAddNode          Op = "add_node"
	OpAddEdge          Op = "add_edge"
	OpAddCurvedEdge    Op = "add_curved_edge"
	OpShowBackwardEdge Op = "show_backward_edge"
	OpNodeLayout       Op = "node_layout"
	OpHighlight        Op = "highlight"
	OpClearHighlight   Op = "clear_highlight"
	OpSetNodeHighlight Op = "set_node_highlight"
	OpSetEdgeHighlight Op = "set_edge_highlight"
	OpAddLabel         Op = "add_label"
	OpShift            Op = "shift"
	OpScale            Op = "scale"
	OpWait             Op = "wait"
)

// Script is a parsed animation script.
type Script struct {
	Name       string      `json:"name" toml:"name" yaml:"name"`
	Frame      scene.Frame `json:"frame" toml:"frame" yaml:"frame"`
	FPS        int         `json:"fps" toml:"fps" yaml:"fps" validate:"omitempty,gt=0,lte=120"`
	Style      string      `json:"style" toml:"style" yaml:"style" validate:"omitempty,oneof=simple wireframe"`
	Structures []Structure `json:"structures" toml:"structures" yaml:"structures" validate:"required,min=1,dive"`
	Steps      []Step      `json:"steps" toml:"steps" yaml:"steps" validate:"dive"`
}

// Structure declares one data structure and its initial state.
type Structure struct {
	ID   string `json:"id" toml:"id" yaml:"id" validate:"required"`
	Kind Kind   `json:"kind" toml:"kind" yaml:"kind" validate:"required,oneof=array stack graph variable"`

	// Values are the initial elements of an array or stack, Value the
	// initial value of a variable.
	Values []any `json:"values,omitempty" toml:"values" yaml:"values"`
	Value  any   `json:"value,omitempty" toml:"value" yaml:"value"`

	// Adjacency maps each graph node to its neighbors. Positions places
	// nodes; unplaced nodes start on the origin. Layout names an algorithm
	// applied once after construction.
	Adjacency map[string][]ds.Neighbor `json:"adjacency,omitempty" toml:"adjacency" yaml:"adjacency" validate:"omitempty,dive,dive"`
	Positions map[string]geom.Vec      `json:"positions,omitempty" toml:"positions" yaml:"positions"`
	Layout    string                   `json:"layout,omitempty" toml:"layout" yaml:"layout"`

	Direction string   `json:"direction,omitempty" toml:"direction" yaml:"direction" validate:"omitempty,direction"`
	Margin    *float64 `json:"margin,omitempty" toml:"margin" yaml:"margin" validate:"omitempty,gte=0"`
	Theme     string   `json:"theme,omitempty" toml:"theme" yaml:"theme" validate:"omitempty,theme"`

	// Indexes enables index labels on an array, placed in this direction.
	Indexes string `json:"indexes,omitempty" toml:"indexes" yaml:"indexes" validate:"omitempty,direction"`

	Label          string `json:"label,omitempty" toml:"label" yaml:"label"`
	LabelDirection string `json:"label_direction,omitempty" toml:"label_direction" yaml:"label_direction" validate:"omitempty,direction"`

	Shift *geom.Vec `json:"shift,omitempty" toml:"shift" yaml:"shift"`
	Scale float64   `json:"scale,omitempty" toml:"scale" yaml:"scale" validate:"omitempty,gt=0"`
}

// Step is one operation applied to a structure. Which fields are used
// depends on Op.
type Step struct {
	Target string `json:"target" toml:"target" yaml:"target" validate:"required_unless=Op wait"`
	Op     Op     `json:"op" toml:"op" yaml:"op" validate:"required"`

	// Instant applies the step without a transition.
	Instant bool    `json:"instant,omitempty" toml:"instant" yaml:"instant"`
	RunTime float64 `json:"run_time,omitempty" toml:"run_time" yaml:"run_time" validate:"omitempty,gt=0"`
	Rate    string  `json:"rate,omitempty" toml:"rate" yaml:"rate" validate:"omitempty,rate"`

	Value any  `json:"value,omitempty" toml:"value" yaml:"value"`
	Index *int `json:"index,omitempty" toml:"index" yaml:"index" validate:"omitempty,gte=0"`
	I     *int `json:"i,omitempty" toml:"i" yaml:"i" validate:"omitempty,gte=0"`
	J     *int `json:"j,omitempty" toml:"j" yaml:"j" validate:"omitempty,gte=0"`

	Node     string    `json:"node,omitempty" toml:"node" yaml:"node"`
	From     string    `json:"from,omitempty" toml:"from" yaml:"from"`
	To       string    `json:"to,omitempty" toml:"to" yaml:"to"`
	Position *geom.Vec `json:"position,omitempty" toml:"position" yaml:"position"`
	Weight   any       `json:"weight,omitempty" toml:"weight" yaml:"weight"`
	Forward  any       `json:"forward,omitempty" toml:"forward" yaml:"forward"`
	Backward any       `json:"backward,omitempty" toml:"backward" yaml:"backward"`

	// LabelDistance offsets weight labels from the edge. NodeAngle and
	// ArcAngle shape curved edges, in radians.
	LabelDistance *float64 `json:"label_distance,omitempty" toml:"label_distance" yaml:"label_distance" validate:"omitempty,gte=0"`
	NodeAngle     *float64 `json:"node_angle,omitempty" toml:"node_angle" yaml:"node_angle" validate:"omitempty,gte=0,lte=3.1416"`
	ArcAngle      *float64 `json:"arc_angle,omitempty" toml:"arc_angle" yaml:"arc_angle" validate:"omitempty,gt=0,lt=6.2832"`

	Algorithm string `json:"algorithm,omitempty" toml:"algorithm" yaml:"algorithm"`

	Color string  `json:"color,omitempty" toml:"color" yaml:"color" validate:"omitempty,hexcolor"`
	Width float64 `json:"width,omitempty" toml:"width" yaml:"width" validate:"omitempty,gt=0"`

	Text      string   `json:"text,omitempty" toml:"text" yaml:"text"`
	Direction string   `json:"direction,omitempty" toml:"direction" yaml:"direction" validate:"omitempty,direction"`
	Buffer    *float64 `json:"buffer,omitempty" toml:"buffer" yaml:"buffer" validate:"omitempty,gte=0"`

	Offset  *geom.Vec `json:"offset,omitempty" toml:"offset" yaml:"offset"`
	Factor  float64   `json:"factor,omitempty" toml:"factor" yaml:"factor" validate:"omitempty,gt=0"`
	PathArc *float64  `json:"path_arc,omitempty" toml:"path_arc" yaml:"path_arc"`

	// Duration is the pause length of a wait step in seconds.
	Duration float64 `json:"duration,omitempty" toml:"duration" yaml:"duration" validate:"omitempty,gt=0"`
}

// Animated reports whether the step produces a transition.
func (s Step) Animated() bool { return !s.Instant }

// Structure returns the structure with the given ID.
func (s *Script) Structure(id string) (*Structure, error) {
	for i := range s.Structures {
		if s.Structures[i].ID == id {
			return &s.Structures[i], nil
		}
	}
	return nil, errors.New(errors.ErrCodeStructNotFound, "structure %q not found", id)
}

// FrameRate returns the script frame rate or [DefaultFPS].
func (s *Script) FrameRate() int {
	if s.FPS > 0 {
		return s.FPS
	}
	return DefaultFPS
}

var directions = map[string]geom.Vec{
	"up":    geom.Up,
	"down":  geom.Down,
	"left":  geom.Left,
	"right": geom.Right,
	"ul":    geom.UL,
	"ur":    geom.UR,
	"dl":    geom.DL,
	"dr":    geom.DR,
}

// ParseDirection maps a direction name (up, down, left, right, ul, ur, dl,
// dr) to its vector. An empty name yields def.
func ParseDirection(name string, def geom.Vec) (geom.Vec, error) {
	if name == "" {
		return def, nil
	}
	d, ok := directions[strings.ToLower(name)]
	if !ok {
		return geom.Vec{}, errors.New(errors.ErrCodeInvalidScript, "unknown direction %q", name)
	}
	return d, nil
}

// ThemeFor returns the named style preset, or the default theme.
func ThemeFor(name string) scene.Theme {
	if t, ok := scene.Themes[strings.ToLower(name)]; ok {
		return t
	}
	return scene.Themes["default"]
}
