package scene

import "github.com/matzehuels/dsanim/pkg/geom"

// Group is an ordered collection of shapes moved and scaled as one unit.
type Group struct {
	id       string
	children []Shape
}

// NewGroup creates a group holding shapes in order.
func NewGroup(shapes ...Shape) *Group {
	g := &Group{id: newID()}
	g.Add(shapes...)
	return g
}

func (g *Group) ID() string { return g.id }
func (g *Group) Kind() string { return KindGroup }

// Children returns the direct children. The slice must not be modified.
func (g *Group) Children() []Shape { return g.children }

// Len returns the number of direct children.
func (g *Group) Len() int { return len(g.children) }

// Add appends shapes not already present. Nil shapes are ignored.
func (g *Group) Add(shapes ...Shape) {
	for _, s := range shapes {
		if s == nil || g.Contains(s) {
			continue
		}
		g.children = append(g.children, s)
	}
}

// Remove drops the given shapes from the direct children.
func (g *Group) Remove(shapes ...Shape) {
	for _, s := range shapes {
		if s == nil {
			continue
		}
		for i, c := range g.children {
			if c.ID() == s.ID() {
				g.children = append(g.children[:i], g.children[i+1:]...)
				break
			}
		}
	}
}

// Contains reports whether s is a direct child.
func (g *Group) Contains(s Shape) bool {
	for _, c := range g.children {
		if c.ID() == s.ID() {
			return true
		}
	}
	return false
}

// Bounds is the union of the children's bounds. An empty group has a zero box.
func (g *Group) Bounds() geom.Box {
	if len(g.children) == 0 {
		return geom.Box{}
	}
	b := g.children[0].Bounds()
	for _, c := range g.children[1:] {
		b = b.Union(c.Bounds())
	}
	return b
}

func (g *Group) Shift(d geom.Vec) {
	for _, c := range g.children {
		c.Shift(d)
	}
}

func (g *Group) ScaleAbout(f float64, about geom.Vec) {
	for _, c := range g.children {
		c.ScaleAbout(f, about)
	}
}

func (g *Group) Copy() Shape {
	cp := &Group{id: newID(), children: make([]Shape, len(g.children))}
	for i, c := range g.children {
		cp.children[i] = c.Copy()
	}
	return cp
}
