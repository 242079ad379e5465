package render

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

func unitSquare() *scene.Rect {
	r := scene.NewRect(scene.DefaultSquare)
	r.W, r.H = 1, 1
	return r
}

func TestRenderSVGViewport(t *testing.T) {
	sc := scene.New(scene.DefaultFrame)
	sq := unitSquare()
	sc.Add(sq)

	svg := string(RenderSVG(sc, anim.Frame{}))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1280 720"`) {
		t.Fatalf("unexpected header: %.80s", svg)
	}
	want := `x="595.00" y="315.00" width="90.00" height="90.00"`
	if !strings.Contains(svg, want) {
		t.Errorf("square not mapped to pixels, want %s in\n%s", want, svg)
	}
	if !strings.Contains(svg, `fill="#000000"`) {
		t.Error("background missing")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("document not closed")
	}
}

func TestRenderSVGYAxisPointsUp(t *testing.T) {
	sc := scene.New(scene.DefaultFrame)
	c := scene.NewCircle(scene.DefaultCircle)
	c.R = 0.5
	c.C = geom.V(0, 1)
	sc.Add(c)

	svg := string(RenderSVG(sc, anim.Frame{}))
	if !strings.Contains(svg, `cx="640.00" cy="270.00"`) {
		t.Errorf("circle above the origin should sit above the middle row:\n%s", svg)
	}
}

func TestRenderSVGSkipsHidden(t *testing.T) {
	sc := scene.New(scene.DefaultFrame)
	st := scene.DefaultSquare
	st.Hidden = true
	hiddenRect := scene.NewRect(st)
	txt := scene.NewText("x", scene.TextStyle{Hidden: true, FontSize: 10})
	sc.Add(scene.NewGroup(hiddenRect, txt))

	svg := string(RenderSVG(sc, anim.Frame{}, WithTransparent()))
	for _, id := range []string{hiddenRect.ID(), txt.ID()} {
		if strings.Contains(svg, id) {
			t.Errorf("hidden shape %s was drawn", id)
		}
	}
	if strings.Contains(svg, "100%") {
		t.Error("transparent output has a background")
	}
}

func TestRenderSVGAppliesOverrides(t *testing.T) {
	sc := scene.New(scene.DefaultFrame)
	sq := unitSquare()
	sc.Add(sq)
	tr := anim.Group(
		anim.Move(sq, geom.V(-1, 0), geom.Origin),
		anim.FadeIn(sq),
	)

	tests := []struct {
		name    string
		at      float64
		want    []string
		notWant []string
	}{
		{"start", 0, nil, []string{sq.ID()}},
		{"middle", tr.Duration() / 2, []string{`translate(-45.00 `, `opacity="0.500"`}, nil},
		{"end", tr.Duration(), []string{sq.ID()}, []string{"<g transform"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := string(RenderSVG(sc, anim.Sample(tr, tt.at)))
			for _, w := range tt.want {
				if !strings.Contains(svg, w) {
					t.Errorf("missing %q in\n%s", w, svg)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(svg, w) {
					t.Errorf("unexpected %q in\n%s", w, svg)
				}
			}
		})
	}
}

func TestRenderSVGDrawsDetachedShapes(t *testing.T) {
	sc := scene.New(scene.DefaultFrame)
	ghost := unitSquare()
	tr := anim.FadeOut(ghost)

	mid := string(RenderSVG(sc, anim.Sample(tr, tr.Duration()/2)))
	if !strings.Contains(mid, ghost.ID()) {
		t.Error("fading copy should be drawn while the fade runs")
	}
	end := string(RenderSVG(sc, anim.Sample(tr, tr.Duration())))
	if strings.Contains(end, ghost.ID()) {
		t.Error("faded copy should be gone at the end")
	}
}

func TestRenderSVGDrawsEachShapeOnce(t *testing.T) {
	sc := scene.New(scene.DefaultFrame)
	sq := unitSquare()
	g := scene.NewGroup(sq)
	sc.Add(g)
	tr := anim.Indicate(sq)

	svg := string(RenderSVG(sc, anim.Sample(tr, tr.Duration()/2)))
	if n := strings.Count(svg, `id="`+sq.ID()+`"`); n != 1 {
		t.Errorf("square drawn %d times, want 1", n)
	}
	if !strings.Contains(svg, "scale(") {
		t.Error("indicate should scale the square")
	}
}

func TestRenderSVGArrowTip(t *testing.T) {
	sc := scene.New(scene.DefaultFrame)
	l := scene.NewLine(geom.V(-1, 0), geom.V(1, 0), scene.DefaultEdge)
	plain := scene.NewLine(geom.V(-1, 1), geom.V(1, 1), scene.DefaultEdge)
	l.Tip = true
	sc.Add(l, plain)

	svg := string(RenderSVG(sc, anim.Frame{}))
	if n := strings.Count(svg, "<polygon"); n != 1 {
		t.Fatalf("got %d arrow heads, want 1", n)
	}
	// The tip ends at the line end point, x = (1 + 7.11) * 90.
	if !strings.Contains(svg, `<polygon points="730.00,360.00`) {
		t.Errorf("arrow head not at the end point:\n%s", svg)
	}
}

func TestRenderSVGArcIsPolyline(t *testing.T) {
	sc := scene.New(scene.DefaultFrame)
	a := scene.NewArc(geom.V(-1, 0), geom.V(1, 0), 1, scene.DefaultEdge)
	sc.Add(a)

	svg := string(RenderSVG(sc, anim.Frame{}))
	if n := strings.Count(svg, " L"); n < arcSegments {
		t.Errorf("arc drawn with %d segments, want at least %d", n, arcSegments)
	}
}

func TestRenderSVGEscapesText(t *testing.T) {
	sc := scene.New(scene.DefaultFrame)
	sc.Add(scene.NewText("<a & b>", scene.DefaultValue))

	svg := string(RenderSVG(sc, anim.Frame{}))
	if !strings.Contains(svg, "&lt;a &amp; b&gt;") {
		t.Errorf("text not escaped:\n%s", svg)
	}
	if !strings.Contains(svg, `font-weight="bold"`) {
		t.Error("bold value text should carry font-weight")
	}
}

func TestWireframeIgnoresFill(t *testing.T) {
	sc := scene.New(scene.DefaultFrame)
	r := scene.NewRect(scene.PurpleSquare)
	r.W, r.H = 1, 1
	sc.Add(r)

	svg := string(RenderSVG(sc, anim.Frame{}, WithStyle(Wireframe{Color: "#00FF00"}), WithTransparent()))
	if strings.Contains(svg, scene.PurpleDark) {
		t.Error("wireframe drew the fill colour")
	}
	if !strings.Contains(svg, `stroke="#00FF00" stroke-width="1.00"`) {
		t.Errorf("wireframe stroke missing:\n%s", svg)
	}
}

func TestStyleByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "simple"},
		{"simple", "simple"},
		{"Wireframe", "wireframe"},
	}
	for _, tt := range tests {
		s, err := StyleByName(tt.name)
		if err != nil {
			t.Fatalf("StyleByName(%q): %v", tt.name, err)
		}
		if s.Name() != tt.want {
			t.Errorf("StyleByName(%q) = %s, want %s", tt.name, s.Name(), tt.want)
		}
	}

	_, err := StyleByName("handdrawn")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown style: got %v, want INVALID_CONFIG", err)
	}
	if got := StyleNames(); strings.Join(got, ",") != "simple,wireframe" {
		t.Errorf("StyleNames() = %v", got)
	}
}

func TestRenderJSON(t *testing.T) {
	sc := scene.New(scene.DefaultFrame)
	sq := unitSquare()
	sc.Add(scene.NewGroup(sq))
	move := anim.Move(sq, geom.V(0, 1), geom.Origin)

	tl := Timeline{
		FPS: 30,
		Steps: []TimelineStep{
			{Index: 0, Target: "arr", Op: "append", Start: 0, Transition: move},
			{Index: 1, Target: "arr", Op: "swap", Start: move.Duration()},
		},
	}
	data, err := RenderJSON(tl, WithJSONScene(sc), WithJSONStyle("simple"))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out struct {
		Frame    scene.Frame `json:"frame"`
		Duration float64     `json:"duration"`
		Style    string      `json:"style"`
		Steps    []struct {
			Op         string `json:"op"`
			Animated   bool   `json:"animated"`
			Transition *struct {
				Kind    string    `json:"kind"`
				Targets []string  `json:"targets"`
				From    *geom.Vec `json:"from"`
			} `json:"transition"`
		} `json:"steps"`
		Shapes []struct {
			ID     string `json:"id"`
			Parent string `json:"parent"`
		} `json:"shapes"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if out.Duration != anim.DefaultRunTime {
		t.Errorf("duration = %v, want %v", out.Duration, anim.DefaultRunTime)
	}
	if out.Frame.PixelWidth != scene.DefaultFrame.PixelWidth {
		t.Errorf("frame defaults not applied: %+v", out.Frame)
	}
	if len(out.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(out.Steps))
	}
	first := out.Steps[0]
	if !first.Animated || first.Transition == nil || first.Transition.Kind != "move" {
		t.Fatalf("first step = %+v", first)
	}
	if len(first.Transition.Targets) != 1 || first.Transition.Targets[0] != sq.ID() {
		t.Errorf("targets = %v, want [%s]", first.Transition.Targets, sq.ID())
	}
	if first.Transition.From == nil || *first.Transition.From != geom.V(0, 1) {
		t.Errorf("from = %v", first.Transition.From)
	}
	if out.Steps[1].Animated || out.Steps[1].Transition != nil {
		t.Errorf("instant step should carry no transition: %+v", out.Steps[1])
	}
	if len(out.Shapes) != 2 || out.Shapes[1].ID != sq.ID() || out.Shapes[1].Parent != out.Shapes[0].ID {
		t.Errorf("shapes = %+v", out.Shapes)
	}
}

func TestConvertWithoutConverter(t *testing.T) {
	old := rsvgConvertBin
	rsvgConvertBin = "dsanim-missing-converter"
	t.Cleanup(func() { rsvgConvertBin = old })

	if ConverterAvailable() {
		t.Fatal("converter should not be found")
	}
	_, err := ToPNG(context.Background(), []byte("<svg/>"), 2)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG: got %v, want UNSUPPORTED", err)
	}
	_, err = RenderPDF(context.Background(), scene.New(scene.Frame{}), anim.Frame{})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("RenderPDF: got %v, want UNSUPPORTED", err)
	}
}

func TestConvertPNG(t *testing.T) {
	if testing.Short() || !ConverterAvailable() {
		t.Skip("rsvg-convert not available")
	}
	sc := scene.New(scene.DefaultFrame)
	sc.Add(unitSquare())
	png, err := RenderPNG(context.Background(), sc, anim.Frame{}, 0.5)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("output is not a PNG")
	}
}
