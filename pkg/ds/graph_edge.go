package ds

import (
	"math"
	"reflect"

	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// Edge defaults.
const (
	DefaultLabelDistance = 0.3
	DefaultNodeAngle     = math.Pi / 3
	DefaultArcAngle      = math.Pi / 3
	DefaultBackwardAngle = math.Pi / 6
)

// EdgeKind selects how an edge is drawn between two nodes.
type EdgeKind int

const (
	// Straight edges run along the line between the node centres.
	Straight EdgeKind = iota
	// Curved edges leave each node rotated by the node angle and bulge by
	// the arc angle, so the two directions of a pair do not overlap.
	Curved
)

func (k EdgeKind) String() string {
	if k == Curved {
		return "curved"
	}
	return "straight"
}

// edgeGeometry holds the kind-specific parts of edge placement.
type edgeGeometry struct {
	// endpoints returns where the edge touches the two circles.
	endpoints func(e *Edge, c1, c2 geom.Vec, r1, r2 float64) (geom.Vec, geom.Vec)
	// labelPos returns the centre of the weight label.
	labelPos func(e *Edge) geom.Vec
	// line builds the stroke between start and end.
	line func(e *Edge, start, end geom.Vec, style scene.ShapeStyle) scene.Stroked
	// move puts an existing stroke on new endpoints.
	move func(line scene.Stroked, start, end geom.Vec)
}

var edgeGeometries = map[EdgeKind]edgeGeometry{
	Straight: {
		endpoints: straightEndpoints,
		labelPos:  straightLabel,
		line: func(_ *Edge, start, end geom.Vec, style scene.ShapeStyle) scene.Stroked {
			return scene.NewLine(start, end, style)
		},
		move: func(s scene.Stroked, start, end geom.Vec) {
			l := s.(*scene.Line)
			l.Start, l.End = start, end
		},
	},
	Curved: {
		endpoints: curvedEndpoints,
		labelPos:  curvedLabel,
		line: func(e *Edge, start, end geom.Vec, style scene.ShapeStyle) scene.Stroked {
			return scene.NewArc(start, end, e.arcAngle, style)
		},
		move: func(s scene.Stroked, start, end geom.Vec) {
			a := s.(*scene.Arc)
			a.Start, a.End = start, end
		},
	},
}

func straightEndpoints(_ *Edge, c1, c2 geom.Vec, r1, r2 float64) (geom.Vec, geom.Vec) {
	dir := c2.Sub(c1).Unit()
	return c1.Add(dir.Mul(r1)), c2.Sub(dir.Mul(r2))
}

func straightLabel(e *Edge) geom.Vec {
	l := e.line.(*scene.Line)
	dir := l.Direction()
	return l.Midpoint().Add(dir.Perp().Mul(e.labelDistance))
}

func curvedEndpoints(e *Edge, c1, c2 geom.Vec, r1, r2 float64) (geom.Vec, geom.Vec) {
	theta := c2.Sub(c1).Angle()
	start := c1.Add(geom.Polar(theta - e.nodeAngle).Mul(r1))
	end := c2.Add(geom.Polar(theta - (math.Pi - e.nodeAngle)).Mul(r2))
	return start, end
}

func curvedLabel(e *Edge) geom.Vec {
	a := e.line.(*scene.Arc)
	orth := a.End.Sub(a.Start).Unit().Perp()
	return a.BoundaryPoint(orth).Add(orth.Mul(a.Length() * e.labelDistance))
}

// Edge is the drawn connection between two nodes, with an optional weight
// label and arrow tip.
type Edge struct {
	*Highlighter

	kind          EdgeKind
	from, to      string
	group         *scene.Group
	line          scene.Stroked
	weight        *scene.Text
	weightValue   any
	labelDistance float64
	nodeAngle     float64
	arcAngle      float64
	arrow         bool
}

// EdgeOption configures a new edge.
type EdgeOption func(*edgeConfig)

type edgeConfig struct {
	weight        any
	labelDistance float64
	nodeAngle     float64
	arcAngle      float64
}

func defaultEdgeConfig() edgeConfig {
	return edgeConfig{
		labelDistance: DefaultLabelDistance,
		nodeAngle:     DefaultNodeAngle,
		arcAngle:      DefaultArcAngle,
	}
}

// WithWeight labels the edge with w. A nil or zero weight draws no label.
func WithWeight(w any) EdgeOption {
	return func(c *edgeConfig) { c.weight = w }
}

// WithLabelDistance sets how far the weight label sits from the edge.
func WithLabelDistance(d float64) EdgeOption {
	return func(c *edgeConfig) { c.labelDistance = d }
}

// WithNodeAngle sets the angle curved edges leave their nodes at.
func WithNodeAngle(a float64) EdgeOption {
	return func(c *edgeConfig) { c.nodeAngle = a }
}

// WithArcAngle sets the angle a curved edge subtends.
func WithArcAngle(a float64) EdgeOption {
	return func(c *edgeConfig) { c.arcAngle = a }
}

func newEdge(kind EdgeKind, from, to *Node, arrow bool, cfg edgeConfig, lineStyle scene.ShapeStyle, weightStyle scene.TextStyle) *Edge {
	e := &Edge{
		kind:          kind,
		from:          from.name,
		to:            to.name,
		weightValue:   cfg.weight,
		labelDistance: cfg.labelDistance,
		nodeAngle:     cfg.nodeAngle,
		arcAngle:      cfg.arcAngle,
		arrow:         arrow,
	}
	g := edgeGeometries[kind]
	start, end := g.endpoints(e, from.circle.C, to.circle.C, from.circle.R, to.circle.R)
	e.line = g.line(e, start, end, lineStyle)
	setTip(e.line, arrow)
	e.Highlighter = NewHighlight(e.line)
	e.group = scene.NewGroup(e.line, e.Outline())
	if drawsWeight(cfg.weight) {
		e.weight = scene.NewText(Format(cfg.weight), weightStyle)
		scene.MoveTo(e.weight, g.labelPos(e))
		e.group.Add(e.weight)
	}
	return e
}

// drawsWeight reports whether w gets a label. Zero values (0, "", false)
// count as no weight.
func drawsWeight(w any) bool {
	return w != nil && !reflect.ValueOf(w).IsZero()
}

func setTip(s scene.Stroked, tip bool) {
	switch l := s.(type) {
	case *scene.Line:
		l.Tip = tip
	case *scene.Arc:
		l.Tip = tip
	}
}

// reposition puts the edge back on the boundaries of from and to and moves
// the weight label and highlight along.
func (e *Edge) reposition(from, to *Node) {
	g := edgeGeometries[e.kind]
	start, end := g.endpoints(e, from.circle.C, to.circle.C, from.circle.R, to.circle.R)
	g.move(e.line, start, end)
	e.Refresh()
	if e.weight != nil {
		scene.MoveTo(e.weight, g.labelPos(e))
	}
}

// Shape returns the group holding the stroke, its outline and the weight.
func (e *Edge) Shape() scene.Shape { return e.group }

// Kind returns the edge kind.
func (e *Edge) Kind() EdgeKind { return e.kind }

// Endpoints returns the names of the nodes the edge is drawn from and to.
func (e *Edge) Endpoints() (string, string) { return e.from, e.to }

// Line returns the stroke, a *scene.Line or a *scene.Arc.
func (e *Edge) Line() scene.Stroked { return e.line }

// Arrow reports whether the edge ends in an arrow tip.
func (e *Edge) Arrow() bool { return e.arrow }

// Weight returns the weight label, or nil.
func (e *Edge) Weight() *scene.Text { return e.weight }

// WeightValue returns the weight the edge was created with, or nil.
func (e *Edge) WeightValue() any { return e.weightValue }

// LabelDistance returns the offset of the weight label from the edge.
func (e *Edge) LabelDistance() float64 { return e.labelDistance }

// NodeAngle returns the angle a curved edge leaves its nodes at.
func (e *Edge) NodeAngle() float64 { return e.nodeAngle }

// ArcAngle returns the angle a curved edge subtends.
func (e *Edge) ArcAngle() float64 { return e.arcAngle }
