package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/observability"
	"github.com/matzehuels/dsanim/pkg/pipeline"
	"github.com/matzehuels/dsanim/pkg/script"
)

const swapScript = `
name = "swap"

[[structures]]
id = "arr"
kind = "array"
values = [1, 2]

[[structures]]
id = "g"
kind = "graph"

[structures.adjacency]
a = [{node = "b"}]
b = [{node = "c"}]

[[steps]]
target = "arr"
op = "swap"
i = 0
j = 1

[[steps]]
target = "arr"
op = "append"
value = 3
`

func writeScript(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , json ,", []string{"svg", "json"}},
		{"only commas", ",,", []string{"svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	path := writeScript(t, "swap.toml", swapScript)
	outDir := filepath.Join(t.TempDir(), "out")

	c, out := newTestCLI()
	if err := execute(c, "render", path, "--no-cache", "-o", outDir, "-f", "svg,json"); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"frame_0000.svg", "frame_0001.svg", "frame_0002.svg", "timeline.json"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "frame_0003.svg")); !os.IsNotExist(err) {
		t.Errorf("unexpected frame_0003.svg (err=%v)", err)
	}

	raw, err := os.ReadFile(filepath.Join(outDir, "timeline.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(raw) {
		t.Error("timeline.json is not valid JSON")
	}
	if !strings.Contains(out.String(), "Rendered swap") {
		t.Errorf("output %q should report the script name", out.String())
	}
	if !strings.Contains(out.String(), "3 frames") {
		t.Errorf("output %q should report 3 frames", out.String())
	}
}

func TestRenderCommandMetrics(t *testing.T) {
	defer observability.Reset()
	path := writeScript(t, "swap.toml", swapScript)
	metrics := filepath.Join(t.TempDir(), "dsanim.prom")

	c, _ := newTestCLI()
	if err := execute(c, "render", path, "--no-cache", "-o", t.TempDir(), "--metrics", metrics); err != nil {
		t.Fatalf("render: %v", err)
	}
	raw, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	for _, want := range []string{`dsanim_scripts_total{status="ok"} 1`, `dsanim_transitions_total{op="swap"} 1`} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("metrics missing %q:\n%s", want, raw)
		}
	}
}

func TestRenderCommandFinal(t *testing.T) {
	path := writeScript(t, "swap.yaml", `
structures:
  - id: v
    kind: variable
    value: 1
steps:
  - target: v
    op: set_value
    value: 2
`)
	outDir := t.TempDir()

	c, _ := newTestCLI()
	if err := execute(c, "render", path, "--no-cache", "-o", outDir, "--frames", "final", "--style", "wireframe"); err != nil {
		t.Fatalf("render: %v", err)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "final.svg" {
		t.Errorf("output files = %v, want [final.svg]", entries)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args func(path string) []string
		code errors.Code
	}{
		{"bad format", func(p string) []string { return []string{"render", p, "--no-cache", "-f", "gif"} }, errors.ErrCodeInvalidConfig},
		{"bad frames", func(p string) []string { return []string{"render", p, "--no-cache", "--frames", "some"} }, errors.ErrCodeInvalidConfig},
		{"missing script", func(p string) []string { return []string{"render", p + ".missing.toml", "--no-cache"} }, errors.ErrCodeFileNotFound},
	}
	path := writeScript(t, "swap.toml", swapScript)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI()
			err := execute(c, append(tt.args(path), "-o", t.TempDir())...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	short := []string{"a", "b"}
	if got := summarize(short); len(got) != 2 {
		t.Errorf("summarize(%v) = %v", short, got)
	}
	long := []string{"a", "b", "c", "d", "e", "f"}
	got := summarize(long)
	want := []string{"a", "... 4 more", "f"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("summarize(%v) = %v, want %v", long, got, want)
	}
}

func TestFrameCount(t *testing.T) {
	arts := map[string][]pipeline.Artifact{
		pipeline.FormatJSON: {{Name: "timeline.json"}},
		pipeline.FormatPNG:  {{Name: "frame_0000.png"}, {Name: "frame_0001.png"}},
	}
	if got := frameCount(arts); got != 2 {
		t.Errorf("frameCount() = %d, want 2", got)
	}
	if got := frameCount(nil); got != 0 {
		t.Errorf("frameCount(nil) = %d, want 0", got)
	}
}

func TestLayoutCommand(t *testing.T) {
	path := writeScript(t, "swap.toml", swapScript)

	c, out := newTestCLI()
	if err := execute(c, "layout", path, "--no-cache", "-a", "circular_layout", "--json"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	var pos map[string][2]float64
	if err := json.Unmarshal(out.Bytes(), &pos); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if len(pos) != 3 {
		t.Errorf("positions = %v, want 3 nodes", pos)
	}

	out.Reset()
	if err := execute(c, "layout", path, "--no-cache", "-a", "circular_layout"); err != nil {
		t.Fatalf("layout table: %v", err)
	}
	for _, want := range []string{"Node", "a", "b", "c"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("table %q should contain %q", out.String(), want)
		}
	}

	err := execute(c, "layout", path, "--no-cache", "-s", "arr")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("layout of an array: got %v, want INVALID_INPUT", err)
	}
}

func TestLayoutList(t *testing.T) {
	c, out := newTestCLI()
	if err := execute(c, "layout", "--list"); err != nil {
		t.Fatalf("layout --list: %v", err)
	}
	if !strings.Contains(out.String(), "circular_layout") {
		t.Errorf("list %q should contain circular_layout", out.String())
	}
}

func TestOnlyGraph(t *testing.T) {
	tests := []struct {
		name    string
		kinds   []script.Kind
		want    string
		errCode errors.Code
	}{
		{"single graph", []script.Kind{script.KindArray, script.KindGraph}, "s1", ""},
		{"no graph", []script.Kind{script.KindArray}, "", errors.ErrCodeStructNotFound},
		{"two graphs", []script.Kind{script.KindGraph, script.KindGraph}, "", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &script.Script{}
			for i, k := range tt.kinds {
				s.Structures = append(s.Structures, script.Structure{ID: "s" + string(rune('0'+i)), Kind: k})
			}
			got, err := onlyGraph(s)
			if tt.errCode != "" {
				if !errors.Is(err, tt.errCode) {
					t.Errorf("onlyGraph() error = %v, want %s", err, tt.errCode)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("onlyGraph() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}
