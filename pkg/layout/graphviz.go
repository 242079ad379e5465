package layout

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dsanim/pkg/geom"
)

// Graphviz lays out graphs with one of the embedded Graphviz programs.
type Graphviz struct {
	name    string
	program graphviz.Layout
	attrs   map[string]string
}

// NewGraphviz creates an engine running program. attrs are extra graph
// attributes written into the DOT source, such as mode=KK for neato.
func NewGraphviz(name string, program graphviz.Layout, attrs map[string]string) *Graphviz {
	return &Graphviz{name: name, program: program, attrs: attrs}
}

func (g *Graphviz) Name() string { return "graphviz:" + g.name }

// Layout emits the graph as DOT, runs the program and reads back the pos
// attribute of every node.
func (g *Graphviz) Layout(ctx context.Context, nodes []string, edges []Edge) (Positions, error) {
	if len(nodes) == 0 {
		return Positions{}, nil
	}
	ids := make(map[string]string, len(nodes))
	for i, n := range nodes {
		ids[n] = "n" + strconv.Itoa(i)
	}
	dot, err := ToDOT(nodes, edges, ids, g.attrs)
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	gv.SetLayout(g.program)
	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("layout %s: %w", g.program, err)
	}
	return parsePositions(buf.Bytes(), ids)
}

// ToDOT writes an undirected strict graph. Node names are replaced by the
// identifiers in ids so arbitrary names survive the round trip.
func ToDOT(nodes []string, edges []Edge, ids map[string]string, attrs map[string]string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("strict graph G {\n")
	buf.WriteString("  start=1;\n")
	buf.WriteString("  node [shape=circle, width=0.5, fixedsize=true, label=\"\"];\n")
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		fmt.Fprintf(&buf, "  %s=%q;\n", k, attrs[k])
	}
	buf.WriteString("\n")
	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %s;\n", ids[n])
	}
	buf.WriteString("\n")
	for _, e := range Dedupe(edges) {
		from, ok1 := ids[e.From]
		to, ok2 := ids[e.To]
		if !ok1 || !ok2 {
			return "", fmt.Errorf("edge %s-%s references an unknown node", e.From, e.To)
		}
		fmt.Fprintf(&buf, "  %s -- %s;\n", from, to)
	}
	buf.WriteString("}\n")
	return buf.String(), nil
}

var (
	// Node statements start a line; edge statements have "--" after the id.
	nodeStmtRe = regexp.MustCompile(`(?m)^\s*(n\d+)\s*\[([^\]]*)\]`)
	posRe      = regexp.MustCompile(`pos="(-?[0-9.eE+-]+),(-?[0-9.eE+-]+)!?"`)
)

func parsePositions(out []byte, ids map[string]string) (Positions, error) {
	names := make(map[string]string, len(ids))
	for name, id := range ids {
		names[id] = name
	}
	pos := make(Positions, len(ids))
	for _, m := range nodeStmtRe.FindAllSubmatch(out, -1) {
		name, ok := names[string(m[1])]
		if !ok {
			continue
		}
		p := posRe.FindSubmatch(m[2])
		if p == nil {
			continue
		}
		x, err := strconv.ParseFloat(string(p[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse pos of %s: %w", name, err)
		}
		y, err := strconv.ParseFloat(string(p[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse pos of %s: %w", name, err)
		}
		pos[name] = geom.V(x, y)
	}
	if len(pos) != len(ids) {
		return nil, fmt.Errorf("graphviz returned %d of %d positions", len(pos), len(ids))
	}
	return pos, nil
}
