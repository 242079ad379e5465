package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// StrokeUnit converts style stroke widths to scene units.
const StrokeUnit = 0.01

// arcSegments is the number of segments used to draw an arc.
const arcSegments = 32

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       Style
	transparent bool
}

// WithStyle sets the drawing style (default [Simple]).
func WithStyle(s Style) SVGOption {
	return func(r *svgRenderer) {
		if s != nil {
			r.style = s
		}
	}
}

// WithTransparent omits the background rectangle.
func WithTransparent() SVGOption { return func(r *svgRenderer) { r.transparent = true } }

// RenderSVG draws sc with the overrides of f applied. Pass the zero Frame to
// draw the scene as it stands.
func RenderSVG(sc *scene.Scene, f anim.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{style: Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	fr := sc.Frame.WithDefaults()
	d := drawer{
		r:     &r,
		f:     f,
		vp:    newViewport(fr),
		drawn: map[string]bool{},
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		fr.PixelWidth, fr.PixelHeight, fr.PixelWidth, fr.PixelHeight)
	buf.WriteString("  <defs>\n")
	r.style.RenderDefs(&buf)
	buf.WriteString("  </defs>\n")
	if !r.transparent {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", fr.Background)
	}

	for _, s := range sc.Shapes() {
		d.shape(&buf, s, tint{})
	}
	for _, s := range f.Shapes {
		if !d.drawn[s.ID()] {
			d.shape(&buf, s, tint{})
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// viewport maps scene units to pixels.
type viewport struct {
	frame  scene.Frame
	kx, ky float64
}

func newViewport(f scene.Frame) viewport {
	return viewport{
		frame: f,
		kx:    float64(f.PixelWidth) / f.Width,
		ky:    float64(f.PixelHeight) / f.Height,
	}
}

func (v viewport) point(p geom.Vec) geom.Vec {
	return geom.V((p.X+v.frame.Width/2)*v.kx, (v.frame.Height/2-p.Y)*v.ky)
}

func (v viewport) offset(d geom.Vec) geom.Vec { return geom.V(d.X*v.kx, -d.Y*v.ky) }

func (v viewport) stroke(w float64) float64 { return w * StrokeUnit * v.kx }

type tint struct {
	color  string
	amount float64
}

func (t tint) apply(c string) string {
	if c == "" || t.amount <= 0 {
		return c
	}
	return scene.Blend(c, t.color, t.amount)
}

type drawer struct {
	r     *svgRenderer
	f     anim.Frame
	vp    viewport
	drawn map[string]bool
}

func (d *drawer) shape(buf *bytes.Buffer, s scene.Shape, inherited tint) {
	scene.Walk(s, func(x scene.Shape) bool {
		d.drawn[x.ID()] = true
		return true
	})

	o := d.f.Override(s.ID())
	if o.Opacity <= 0 || hidden(s) {
		return
	}
	t := inherited
	if o.TintAmount > t.amount {
		t = tint{color: o.Tint, amount: o.TintAmount}
	}

	wrapped := !o.IsIdentity()
	if wrapped {
		d.openGroup(buf, s, o)
	}
	switch v := s.(type) {
	case *scene.Group:
		for _, c := range v.Children() {
			d.shape(buf, c, t)
		}
	case *scene.Rect:
		tl := d.vp.point(geom.V(v.C.X-v.W/2, v.C.Y+v.H/2))
		d.r.style.RenderRect(buf, Rect{
			ID: v.ID(), X: tl.X, Y: tl.Y, W: v.W * d.vp.kx, H: v.H * d.vp.ky,
			Paint: d.paint(v.Style, t),
		})
	case *scene.Circle:
		c := d.vp.point(v.C)
		d.r.style.RenderCircle(buf, Circle{
			ID: v.ID(), CX: c.X, CY: c.Y, R: v.R * d.vp.kx,
			Paint: d.paint(v.Style, t),
		})
	case *scene.Line:
		p := Path{ID: v.ID(), Points: d.points(v.Start, v.End), Paint: d.paint(v.Style, t)}
		if v.Tip {
			p.Tip = d.tip(v.End, v.Direction(), v.TipLength)
		}
		d.r.style.RenderPath(buf, p)
	case *scene.Arc:
		pts := []geom.Vec{v.Start, v.End}
		if g, ok := v.Geometry(); ok {
			pts = g.Points(arcSegments)
		}
		p := Path{ID: v.ID(), Points: d.points(pts...), Paint: d.paint(v.Style, t)}
		if v.Tip {
			p.Tip = d.tip(v.End, v.EndTangent(), v.TipLength)
		}
		d.r.style.RenderPath(buf, p)
	case *scene.Text:
		c := d.vp.point(v.C)
		d.r.style.RenderText(buf, Text{
			ID: v.ID(), Content: v.Content, X: c.X, Y: c.Y,
			Font: v.Style.Font, Size: v.Em() * d.vp.ky, Bold: v.Style.Bold,
			Color: t.apply(v.Style.Color),
		})
	}
	if wrapped {
		buf.WriteString("  </g>\n")
	}
}

// openGroup starts a group applying o. Scaling is about the shape's centre.
func (d *drawer) openGroup(buf *bytes.Buffer, s scene.Shape, o anim.Override) {
	off := d.vp.offset(o.Offset)
	fmt.Fprintf(buf, `  <g transform="translate(%.2f %.2f)`, off.X, off.Y)
	if o.Scale != 1 {
		c := d.vp.point(scene.Center(s))
		fmt.Fprintf(buf, ` translate(%.2f %.2f) scale(%.4f) translate(%.2f %.2f)`, c.X, c.Y, o.Scale, -c.X, -c.Y)
	}
	buf.WriteString(`"`)
	if o.Opacity < 1 {
		fmt.Fprintf(buf, ` opacity="%.3f"`, o.Opacity)
	}
	buf.WriteString(">\n")
}

func (d *drawer) paint(st scene.ShapeStyle, t tint) Paint {
	return Paint{
		Stroke:      t.apply(st.Color),
		StrokeWidth: d.vp.stroke(st.StrokeWidth),
		Fill:        t.apply(st.FillColor),
		FillOpacity: st.FillOpacity,
	}
}

func (d *drawer) points(pts ...geom.Vec) []geom.Vec {
	out := make([]geom.Vec, len(pts))
	for i, p := range pts {
		out[i] = d.vp.point(p)
	}
	return out
}

// tip returns the corners of an arrow head ending at end and pointing along
// dir, as wide as it is long.
func (d *drawer) tip(end, dir geom.Vec, length float64) []geom.Vec {
	if dir.IsZero() || length <= 0 {
		return nil
	}
	back := end.Sub(dir.Mul(length))
	side := dir.Perp().Mul(length / 2)
	return d.points(end, back.Add(side), back.Sub(side))
}

func hidden(s scene.Shape) bool {
	switch v := s.(type) {
	case scene.Stroked:
		return v.Stroke().Hidden
	case *scene.Text:
		return v.Style.Hidden
	}
	return false
}
