// Package layout assigns 2D positions to the nodes of a graph.
//
// Engines are selected by algorithm name through a [Registry]. Unknown names
// and engines that fail at runtime degrade to the registry's default
// algorithm with a logged warning instead of an error, so a caller asking for
// "not_a_real_algorithm" gets exactly the positions of the default.
//
// Two engine families are provided: [Graphviz] shells the graph through the
// embedded Graphviz library (neato, fdp, twopi, circo, dot, sfdp) and
// [Circular] is a pure-Go deterministic fallback. [Cached] memoises any engine
// in a [cache.Cache].
package layout

import (
	"context"
	"math"

	"github.com/matzehuels/dsanim/pkg/geom"
)

// Edge is an undirected pair of node names.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Positions maps node names to coordinates in engine units.
type Positions map[string]geom.Vec

// Engine computes node positions for one algorithm.
type Engine interface {
	// Name identifies the engine, for logging and cache keys.
	Name() string
	// Layout returns a position for every node in nodes.
	Layout(ctx context.Context, nodes []string, edges []Edge) (Positions, error)
}

// Bounds returns the bounding box of all positions.
func (p Positions) Bounds() geom.Box {
	pts := make([]geom.Vec, 0, len(p))
	for _, v := range p {
		pts = append(pts, v)
	}
	return geom.BoxOf(pts...)
}

// Fit rescales p around centre so the positions span width horizontally and
// height vertically. Each axis is scaled on its own; an axis with no extent
// collapses onto centre.
func (p Positions) Fit(centre geom.Vec, width, height float64) Positions {
	if len(p) == 0 {
		return p
	}
	b := p.Bounds()
	mid := b.Center()
	fx, fy := axisScale(b.Width(), width), axisScale(b.Height(), height)
	out := make(Positions, len(p))
	for k, v := range p {
		d := v.Sub(mid)
		out[k] = centre.Add(geom.V(d.X*fx, d.Y*fy))
	}
	return out
}

func axisScale(extent, target float64) float64 {
	if math.Abs(extent) < geom.Epsilon {
		return 0
	}
	return target / extent
}

// Dedupe drops self loops and repeated undirected pairs, keeping first
// occurrences.
func Dedupe(edges []Edge) []Edge {
	seen := make(map[Edge]bool, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.From == e.To {
			continue
		}
		k := e
		if k.To < k.From {
			k.From, k.To = k.To, k.From
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}
