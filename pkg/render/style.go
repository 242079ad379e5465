package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
)

// Style defines how primitives are written as SVG. All coordinates are in
// pixels with the y axis pointing down.
type Style interface {
	// Name identifies the style in configuration and cache keys.
	Name() string
	// RenderDefs writes SVG <defs> content (filters, patterns, markers).
	RenderDefs(buf *bytes.Buffer)
	RenderRect(buf *bytes.Buffer, r Rect)
	RenderCircle(buf *bytes.Buffer, c Circle)
	// RenderPath writes an open polyline and, when Tip is set, its arrow head.
	RenderPath(buf *bytes.Buffer, p Path)
	RenderText(buf *bytes.Buffer, t Text)
}

// Paint is the resolved stroke and fill of a shape after tinting.
type Paint struct {
	Stroke      string
	StrokeWidth float64
	Fill        string
	FillOpacity float64
}

// Rect is a rectangle with its top-left corner at X, Y.
type Rect struct {
	ID         string
	X, Y, W, H float64
	Paint
}

// Circle is a circle centred on CX, CY.
type Circle struct {
	ID        string
	CX, CY, R float64
	Paint
}

// Path is a polyline. Tip holds the three corners of the arrow head, or nil.
type Path struct {
	ID     string
	Points []geom.Vec
	Tip    []geom.Vec
	Paint
}

// Text is a single line of text centred on X, Y.
type Text struct {
	ID      string
	Content string
	X, Y    float64
	Font    string
	Size    float64
	Bold    bool
	Color   string
}

// Simple draws shapes with their configured colours and solid strokes.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) RenderDefs(*bytes.Buffer) {}

func (Simple) RenderRect(buf *bytes.Buffer, r Rect) {
	fmt.Fprintf(buf, `  <rect id="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"%s/>`+"\n",
		r.ID, r.X, r.Y, r.W, r.H, paintAttrs(r.Paint))
}

func (Simple) RenderCircle(buf *bytes.Buffer, c Circle) {
	fmt.Fprintf(buf, `  <circle id="%s" cx="%.2f" cy="%.2f" r="%.2f"%s/>`+"\n",
		c.ID, c.CX, c.CY, c.R, paintAttrs(c.Paint))
}

func (Simple) RenderPath(buf *bytes.Buffer, p Path) {
	stroke := p.Paint
	stroke.Fill, stroke.FillOpacity = "", 0
	fmt.Fprintf(buf, `  <path id="%s" d="%s"%s stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
		p.ID, polyline(p.Points), paintAttrs(stroke))
	if len(p.Tip) > 0 {
		fmt.Fprintf(buf, `  <polygon points="%s" fill="%s" stroke="none"/>`+"\n", points(p.Tip), colorOr(p.Stroke, "none"))
	}
}

func (Simple) RenderText(buf *bytes.Buffer, t Text) {
	weight := ""
	if t.Bold {
		weight = ` font-weight="bold"`
	}
	fmt.Fprintf(buf, `  <text id="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%.2f"%s fill="%s">%s</text>`+"\n",
		t.ID, t.X, t.Y, EscapeXML(fontFamily(t.Font)), t.Size, weight, colorOr(t.Color, "#FFFFFF"), EscapeXML(t.Content))
}

// Wireframe draws every shape as a thin outline in one colour and text in
// plain monospace. Fills are ignored.
type Wireframe struct {
	// Color of all strokes and text. Empty means white.
	Color string
}

func (Wireframe) Name() string { return "wireframe" }

func (Wireframe) RenderDefs(*bytes.Buffer) {}

func (w Wireframe) paint() Paint {
	return Paint{Stroke: colorOr(w.Color, "#FFFFFF"), StrokeWidth: 1}
}

func (w Wireframe) RenderRect(buf *bytes.Buffer, r Rect) {
	r.Paint = w.paint()
	Simple{}.RenderRect(buf, r)
}

func (w Wireframe) RenderCircle(buf *bytes.Buffer, c Circle) {
	c.Paint = w.paint()
	Simple{}.RenderCircle(buf, c)
}

func (w Wireframe) RenderPath(buf *bytes.Buffer, p Path) {
	p.Paint = w.paint()
	Simple{}.RenderPath(buf, p)
}

func (w Wireframe) RenderText(buf *bytes.Buffer, t Text) {
	t.Font, t.Bold, t.Color = "monospace", false, colorOr(w.Color, "#FFFFFF")
	Simple{}.RenderText(buf, t)
}

var styles = map[string]Style{
	Simple{}.Name():    Simple{},
	Wireframe{}.Name(): Wireframe{},
}

// StyleByName returns the named style. An empty name selects [Simple].
func StyleByName(name string) (Style, error) {
	if name == "" {
		return Simple{}, nil
	}
	s, ok := styles[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown style %q (available: %s)", name, strings.Join(StyleNames(), ", "))
	}
	return s, nil
}

// StyleNames returns the registered style names in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for n := range styles {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func paintAttrs(p Paint) string {
	var sb strings.Builder
	if p.Stroke != "" && p.StrokeWidth > 0 {
		fmt.Fprintf(&sb, ` stroke="%s" stroke-width="%.2f"`, p.Stroke, p.StrokeWidth)
	} else {
		sb.WriteString(` stroke="none"`)
	}
	if p.Fill != "" && p.FillOpacity > 0 {
		fmt.Fprintf(&sb, ` fill="%s"`, p.Fill)
		if p.FillOpacity < 1 {
			fmt.Fprintf(&sb, ` fill-opacity="%.3g"`, p.FillOpacity)
		}
	} else {
		sb.WriteString(` fill="none"`)
	}
	return sb.String()
}

func polyline(pts []geom.Vec) string {
	var sb strings.Builder
	for i, p := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.2f %.2f ", cmd, p.X, p.Y)
	}
	return strings.TrimSpace(sb.String())
}

func points(pts []geom.Vec) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func fontFamily(f string) string {
	if f == "" {
		return "monospace"
	}
	return f + ", monospace"
}

func colorOr(c, def string) string {
	if c == "" {
		return def
	}
	return c
}
