package ds

import (
	"maps"
	"slices"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// Node is a named circle with its name written inside.
type Node struct {
	*Highlighter

	name   string
	group  *scene.Group
	circle *scene.Circle
	label  *scene.Text
}

func newNode(name string, pos geom.Vec, circleStyle scene.ShapeStyle, valueStyle scene.TextStyle) *Node {
	n := &Node{name: name, circle: scene.NewCircle(circleStyle)}
	n.circle.C = pos
	n.Highlighter = NewHighlight(n.circle)
	n.label = scene.NewText(name, valueStyle)
	n.label.Size = valueStyle.FontSize * 2 * n.circle.R
	n.label.C = pos
	n.group = scene.NewGroup(n.circle, n.Outline(), n.label)
	return n
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Shape returns the group holding the circle, its outline and the name.
func (n *Node) Shape() scene.Shape { return n.group }

// Circle returns the node circle.
func (n *Node) Circle() *scene.Circle { return n.circle }

// Text returns the name text.
func (n *Node) Text() *scene.Text { return n.label }

// Center returns the centre of the circle.
func (n *Node) Center() geom.Vec { return n.circle.C }

func (n *Node) moveTo(p geom.Vec) { n.group.Shift(p.Sub(n.circle.C)) }

// pair is an ordered pair of node names.
type pair [2]string

func (p pair) reverse() pair { return pair{p[1], p[0]} }

// canonical returns the undirected key of p.
func (p pair) canonical() pair {
	if p[1] < p[0] {
		return p.reverse()
	}
	return p
}

// Graph is a set of named nodes joined by straight or curved edges.
//
// Edges are stored once per undirected pair. Adding (a, b) and then (b, a)
// keeps a single arrowless edge reachable from both keys. After
// [Graph.ShowBackwardEdge] the pair is held in a directed overlay instead,
// with one arrowed curved edge per direction.
type Graph struct {
	group     *scene.Group
	edgeLayer *scene.Group
	nodeLayer *scene.Group

	nodes      map[string]*Node
	order      []string
	shared     map[pair]*Edge
	directed   map[pair]*Edge
	registered map[pair]bool
	keys       []pair

	label Label
	cfg   graphConfig
}

// Neighbor is an adjacency entry with an optional weight.
type Neighbor struct {
	Node   string `json:"node" toml:"node" yaml:"node" validate:"required"`
	Weight any    `json:"weight,omitempty" toml:"weight" yaml:"weight"`
}

// AdjacencyList lists the neighbors of one node.
type AdjacencyList struct {
	Node      string     `json:"node" toml:"node" yaml:"node" validate:"required"`
	Neighbors []Neighbor `json:"neighbors" toml:"neighbors" yaml:"neighbors" validate:"dive"`
}

// AdjacencyFromMap converts a map to adjacency lists sorted by node name.
func AdjacencyFromMap(m map[string][]Neighbor) []AdjacencyList {
	out := make([]AdjacencyList, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, AdjacencyList{Node: k, Neighbors: m[k]})
	}
	return out
}

// NewGraph creates a graph from adjacency lists. Every listed node and
// neighbor becomes a node, placed at positions[name] or the origin, and every
// neighbor entry becomes a straight edge, weighted when it has a weight.
func NewGraph(adj []AdjacencyList, positions map[string]geom.Vec, opts ...GraphOption) (*Graph, error) {
	cfg, err := applyGraphOptions(opts)
	if err != nil {
		return nil, err
	}
	g := &Graph{
		edgeLayer:  scene.NewGroup(),
		nodeLayer:  scene.NewGroup(),
		nodes:      make(map[string]*Node),
		shared:     make(map[pair]*Edge),
		directed:   make(map[pair]*Edge),
		registered: make(map[pair]bool),
		cfg:        cfg,
	}
	g.group = scene.NewGroup(g.edgeLayer, g.nodeLayer)

	ensure := func(name string) {
		if _, ok := g.nodes[name]; !ok {
			g.addNode(name, positions[name])
		}
	}
	for _, l := range adj {
		ensure(l.Node)
	}
	for _, l := range adj {
		for _, nb := range l.Neighbors {
			ensure(nb.Node)
		}
	}
	for _, l := range adj {
		for _, nb := range l.Neighbors {
			if _, err := g.AddEdge(l.Node, nb.Node, WithWeight(nb.Weight)); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Shape returns the group holding every shape of the graph.
func (g *Graph) Shape() scene.Shape { return g.group }

// Label returns the attached label, or nil.
func (g *Graph) Label() *scene.Text { return g.label.Text() }

// Node returns the node called name.
func (g *Graph) Node(name string) (*Node, error) {
	n, ok := g.nodes[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", name)
	}
	return n, nil
}

// Nodes returns the node names in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Edge returns the edge drawn for the key (a, b). For a shared pair both keys
// return the same edge.
func (g *Graph) Edge(a, b string) (*Edge, error) {
	k := pair{a, b}
	if e, ok := g.directed[k]; ok {
		return e, nil
	}
	if g.registered[k] {
		if e, ok := g.shared[k.canonical()]; ok {
			return e, nil
		}
	}
	return nil, errors.New(errors.ErrCodeEdgeNotFound, "edge (%s, %s) not found", a, b)
}

// HasEdge reports whether the key (a, b) was added.
func (g *Graph) HasEdge(a, b string) bool { return g.registered[pair{a, b}] }

// EdgeKeys returns every edge key in the order first added.
func (g *Graph) EdgeKeys() [][2]string {
	out := make([][2]string, len(g.keys))
	for i, k := range g.keys {
		out[i] = k
	}
	return out
}

// Edges returns each drawn edge once, ordered by its key.
func (g *Graph) Edges() []*Edge {
	seen := make(map[*Edge]bool)
	var out []*Edge
	for _, k := range g.keys {
		e, err := g.Edge(k[0], k[1])
		if err != nil || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// AddNode adds a node at pos. Names must be unique.
func (g *Graph) AddNode(name string, pos geom.Vec) (*Node, error) {
	if _, ok := g.nodes[name]; ok {
		return nil, errors.New(errors.ErrCodeDuplicateNode, "node %q already exists", name)
	}
	return g.addNode(name, pos), nil
}

// AnimateAddNode adds a node and returns a transition drawing it in.
func (g *Graph) AnimateAddNode(name string, pos geom.Vec) (*Node, *anim.Transition, error) {
	n, err := g.AddNode(name, pos)
	if err != nil {
		return nil, nil, err
	}
	return n, anim.Create(n.group), nil
}

func (g *Graph) addNode(name string, pos geom.Vec) *Node {
	n := newNode(name, pos, g.cfg.node, g.cfg.value)
	g.nodes[name] = n
	g.order = append(g.order, name)
	g.nodeLayer.Add(n.group)
	return n
}

// AddEdge adds a straight edge from a to b. When (b, a) already exists the
// pair is drawn as a single arrowless edge shared by both keys.
func (g *Graph) AddEdge(a, b string, opts ...EdgeOption) (*Edge, error) {
	e, _, err := g.addEdge(Straight, a, b, opts)
	return e, err
}

// AddCurvedEdge adds a curved edge from a to b, pairing like AddEdge.
func (g *Graph) AddCurvedEdge(a, b string, opts ...EdgeOption) (*Edge, error) {
	e, _, err := g.addEdge(Curved, a, b, opts)
	return e, err
}

// AnimateAddEdge adds a straight edge and returns a transition drawing it
// in and fading out any edge it replaced.
func (g *Graph) AnimateAddEdge(a, b string, opts ...EdgeOption) (*Edge, *anim.Transition, error) {
	return g.animateAddEdge(Straight, a, b, opts)
}

// AnimateAddCurvedEdge is the animated form of AddCurvedEdge.
func (g *Graph) AnimateAddCurvedEdge(a, b string, opts ...EdgeOption) (*Edge, *anim.Transition, error) {
	return g.animateAddEdge(Curved, a, b, opts)
}

func (g *Graph) animateAddEdge(kind EdgeKind, a, b string, opts []EdgeOption) (*Edge, *anim.Transition, error) {
	e, replaced, err := g.addEdge(kind, a, b, opts)
	if err != nil {
		return nil, nil, err
	}
	fades := make([]*anim.Transition, 0, len(replaced)+1)
	for _, old := range replaced {
		fades = append(fades, anim.FadeOut(old.group))
	}
	return e, anim.Group(append(fades, anim.Create(e.group))...), nil
}

// addEdge returns the new edge and the edges it displaced from the scene.
func (g *Graph) addEdge(kind EdgeKind, a, b string, opts []EdgeOption) (*Edge, []*Edge, error) {
	from, err := g.Node(a)
	if err != nil {
		return nil, nil, err
	}
	to, err := g.Node(b)
	if err != nil {
		return nil, nil, err
	}
	cfg := defaultEdgeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	k := pair{a, b}
	arrow := true
	if g.registered[k.reverse()] && a != b {
		arrow = false
		from, to = to, from
	}
	e := newEdge(kind, from, to, arrow, cfg, g.cfg.edge, g.cfg.weight)

	replaced := g.dropPair(k)
	g.shared[k.canonical()] = e
	g.register(k)
	g.edgeLayer.Add(e.group)
	return e, replaced, nil
}

// dropPair removes every visual of the undirected pair of k.
func (g *Graph) dropPair(k pair) []*Edge {
	var out []*Edge
	if old, ok := g.shared[k.canonical()]; ok {
		out = append(out, old)
		delete(g.shared, k.canonical())
	}
	for _, dk := range []pair{k, k.reverse()} {
		if old, ok := g.directed[dk]; ok {
			if !slices.Contains(out, old) {
				out = append(out, old)
			}
			delete(g.directed, dk)
		}
	}
	for _, old := range out {
		g.edgeLayer.Remove(old.group)
	}
	return out
}

func (g *Graph) register(k pair) {
	if !g.registered[k] {
		g.registered[k] = true
		g.keys = append(g.keys, k)
	}
}

// ShowBackwardEdge splits the edge between a and b into two arrowed curved
// edges, a to b weighted fwd and b to a weighted bwd. Curved edges default
// to node and arc angles of pi/6 here. The pair must already exist.
func (g *Graph) ShowBackwardEdge(a, b string, fwd, bwd any, opts ...EdgeOption) (*Edge, *Edge, error) {
	f, bk, _, err := g.showBackwardEdge(a, b, fwd, bwd, opts)
	return f, bk, err
}

// AnimateShowBackwardEdge splits the pair and returns a transition morphing
// the old edge into the forward edge while the backward edge fades in.
func (g *Graph) AnimateShowBackwardEdge(a, b string, fwd, bwd any, opts ...EdgeOption) (*Edge, *Edge, *anim.Transition, error) {
	f, bk, old, err := g.showBackwardEdge(a, b, fwd, bwd, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	steps := []*anim.Transition{anim.FadeIn(bk.group)}
	if len(old) > 0 {
		steps = append(steps, anim.Replace(old[0].group, f.group))
		for _, o := range old[1:] {
			steps = append(steps, anim.FadeOut(o.group))
		}
	} else {
		steps = append(steps, anim.Create(f.group))
	}
	return f, bk, anim.Group(steps...), nil
}

func (g *Graph) showBackwardEdge(a, b string, fwd, bwd any, opts []EdgeOption) (*Edge, *Edge, []*Edge, error) {
	k := pair{a, b}
	if !g.registered[k] && !g.registered[k.reverse()] {
		return nil, nil, nil, errors.New(errors.ErrCodeEdgeNotFound, "no edge between %s and %s", a, b)
	}
	na, err := g.Node(a)
	if err != nil {
		return nil, nil, nil, err
	}
	nb, err := g.Node(b)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg := defaultEdgeConfig()
	cfg.nodeAngle, cfg.arcAngle = DefaultBackwardAngle, DefaultBackwardAngle
	for _, opt := range opts {
		opt(&cfg)
	}
	fcfg, bcfg := cfg, cfg
	fcfg.weight, bcfg.weight = fwd, bwd

	forward := newEdge(Curved, na, nb, true, fcfg, g.cfg.edge, g.cfg.weight)
	backward := newEdge(Curved, nb, na, true, bcfg, g.cfg.edge, g.cfg.weight)

	old := g.dropPair(k)
	g.directed[k] = forward
	g.directed[k.reverse()] = backward
	g.register(k)
	g.register(k.reverse())
	g.edgeLayer.Add(forward.group)
	g.edgeLayer.Add(backward.group)
	return forward, backward, old, nil
}

// SetNodeHighlight sets the highlight stroke of every node.
func (g *Graph) SetNodeHighlight(color string, width float64) {
	for _, name := range g.order {
		g.nodes[name].ConfigureHighlight(color, width)
	}
}

// SetEdgeHighlight sets the highlight stroke of every edge.
func (g *Graph) SetEdgeHighlight(color string, width float64) {
	for _, e := range g.Edges() {
		e.ConfigureHighlight(color, width)
	}
}

// AddLabel attaches t next to the graph.
func (g *Graph) AddLabel(t *scene.Text, dir geom.Vec, buff float64) error {
	_, err := g.label.place(g.group, t, dir, buff, nil)
	return err
}

// AnimateAddLabel attaches t and returns a transition writing it in.
func (g *Graph) AnimateAddLabel(t *scene.Text, dir geom.Vec, buff float64) (*anim.Transition, error) {
	old, err := g.label.place(g.group, t, dir, buff, nil)
	if err != nil {
		return nil, err
	}
	return labelTransition(old, t), nil
}
