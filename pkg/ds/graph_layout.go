package ds

import (
	"context"
	"sync"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/layout"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// Layouter computes node positions with a named algorithm. Unknown names are
// expected to degrade to a default algorithm rather than fail;
// *layout.Registry behaves this way.
type Layouter interface {
	Layout(ctx context.Context, algorithm string, nodes []string, edges []layout.Edge) (layout.Positions, error)
}

var defaultLayouter = sync.OnceValue(func() Layouter {
	return layout.NewDefaultRegistry(nil, nil)
})

func (g *Graph) layouter() Layouter {
	if g.cfg.layouter != nil {
		return g.cfg.layouter
	}
	return defaultLayouter()
}

// NodeLayout places every node with the named algorithm, fits the result to
// the frame and redraws all edges. An empty name uses the default algorithm.
func (g *Graph) NodeLayout(ctx context.Context, algorithm string) error {
	pos, err := g.computeLayout(ctx, algorithm)
	if err != nil {
		return err
	}
	g.applyLayout(pos)
	return nil
}

// AnimateNodeLayout places the nodes like NodeLayout and returns a
// transition moving every node to its new place while the edges morph from
// their old geometry.
func (g *Graph) AnimateNodeLayout(ctx context.Context, algorithm string) (*anim.Transition, error) {
	pos, err := g.computeLayout(ctx, algorithm)
	if err != nil {
		return nil, err
	}
	from := make(map[string]geom.Vec, len(g.nodes))
	for name, n := range g.nodes {
		from[name] = scene.Center(n.group)
	}
	edges := g.Edges()
	ghosts := make([]scene.Shape, len(edges))
	for i, e := range edges {
		ghosts[i] = e.group.Copy()
	}

	g.applyLayout(pos)

	steps := make([]*anim.Transition, 0, len(g.order)+len(edges))
	for _, name := range g.order {
		n := g.nodes[name]
		steps = append(steps, anim.Move(n.group, from[name], scene.Center(n.group)))
	}
	for i, e := range edges {
		steps = append(steps, anim.Replace(ghosts[i], e.group))
	}
	return anim.Group(steps...), nil
}

func (g *Graph) computeLayout(ctx context.Context, algorithm string) (layout.Positions, error) {
	if len(g.order) == 0 {
		return layout.Positions{}, nil
	}
	if algorithm == "" {
		algorithm = layout.DefaultAlgorithm
	}
	edges := make([]layout.Edge, len(g.keys))
	for i, k := range g.keys {
		edges[i] = layout.Edge{From: k[0], To: k[1]}
	}
	pos, err := g.layouter().Layout(ctx, algorithm, g.Nodes(), edges)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "layout %s", algorithm)
	}
	for _, name := range g.order {
		if _, ok := pos[name]; !ok {
			return nil, errors.New(errors.ErrCodeLayoutFailed, "layout %s returned no position for node %q", algorithm, name)
		}
	}
	f := g.cfg.frame
	return pos.Fit(geom.Origin, f.Width/2, f.Height/2), nil
}

func (g *Graph) applyLayout(pos layout.Positions) {
	for _, name := range g.order {
		g.nodes[name].moveTo(pos[name])
	}
	g.redrawEdges()
}

// redrawEdges puts every edge back on its nodes.
func (g *Graph) redrawEdges() {
	for _, e := range g.Edges() {
		e.reposition(g.nodes[e.from], g.nodes[e.to])
	}
}

// Update redraws every edge against the current node positions. Call it
// after moving nodes directly.
func (g *Graph) Update() { g.redrawEdges() }
