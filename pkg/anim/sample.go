package anim

import (
	"math"
	"sort"

	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// Override adjusts how a shape is drawn relative to its model geometry.
type Override struct {
	Offset     geom.Vec
	Opacity    float64
	Scale      float64
	Tint       string
	TintAmount float64
}

// Identity is the override that leaves a shape unchanged.
var Identity = Override{Opacity: 1, Scale: 1}

// IsIdentity reports whether o changes nothing.
func (o Override) IsIdentity() bool {
	return o.Offset.IsZero() && o.Opacity == 1 && o.Scale == 1 && o.TintAmount == 0
}

// Frame is a transition evaluated at one point in time.
type Frame struct {
	Time      float64
	Overrides map[string]Override
	// Shapes lists every shape the transition refers to. Renderers draw the
	// ones missing from the scene (faded-out copies, replaced labels) on top.
	Shapes []scene.Shape
}

// Override returns the override for the shape with the given ID.
func (f Frame) Override(id string) Override {
	if o, ok := f.Overrides[id]; ok {
		return o
	}
	return Identity
}

type channel int

const (
	chanPosition channel = iota
	chanOpacity
	chanEmphasis
)

type channelKey struct {
	id string
	ch channel
}

// effect is one leaf's influence on one channel of one shape.
type effect struct {
	start, end float64
	rate       RateFunc
	apply      func(o *Override, alpha float64)
	before     func(o *Override)
	after      func(o *Override)
	order      int
}

// Sample evaluates tr at time t seconds from its start. For each shape and
// channel the value comes from the leaf active at t; between leaves it holds
// the last finished leaf's end state, and before the first leaf it takes that
// leaf's start state.
func Sample(tr *Transition, t float64) Frame {
	f := Frame{Time: t, Overrides: map[string]Override{}}
	if tr == nil {
		return f
	}
	f.Shapes = tr.Shapes()

	effects := map[channelKey][]effect{}
	// Position offsets are measured from the end point of the last Move of each
	// shape, which the model already occupies.
	anchors := map[string]geom.Vec{}
	order := 0
	tr.flatten(0, 1, func(n *Transition, start, end float64) {
		add := func(s scene.Shape, ch channel, e effect) {
			e.start, e.end, e.rate, e.order = start, end, Rate(n.Rate), order
			order++
			k := channelKey{s.ID(), ch}
			effects[k] = append(effects[k], e)
		}
		switch n.Kind {
		case KindFadeOut:
			for _, s := range n.Targets {
				add(s, chanOpacity, fade(1, 0))
			}
		case KindFadeIn, KindCreate, KindWrite:
			for _, s := range n.Targets {
				add(s, chanOpacity, fade(0, 1))
			}
		case KindReplace:
			add(n.Targets[0], chanOpacity, fade(1, 0))
			add(n.Replacement, chanOpacity, fade(0, 1))
		case KindIndicate:
			color := n.Color
			for _, s := range n.Targets {
				add(s, chanEmphasis, effect{
					apply: func(o *Override, a float64) {
						o.Scale = 1 + (IndicateScale-1)*a
						o.Tint, o.TintAmount = color, a
					},
					before: func(*Override) {},
					after:  func(*Override) {},
				})
			}
		case KindMove:
			s := n.Targets[0]
			anchors[s.ID()] = n.To
			from, to, arc, id := n.From, n.To, n.PathArc, s.ID()
			add(s, chanPosition, effect{
				apply: func(o *Override, a float64) {
					o.Offset = geom.PathPoint(from, to, arc, a).Sub(anchors[id])
				},
				before: func(o *Override) { o.Offset = from.Sub(anchors[id]) },
				after:  func(o *Override) { o.Offset = to.Sub(anchors[id]) },
			})
		}
	})

	keys := make([]channelKey, 0, len(effects))
	for k := range effects {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].id != keys[j].id {
			return keys[i].id < keys[j].id
		}
		return keys[i].ch < keys[j].ch
	})
	for _, k := range keys {
		o, ok := f.Overrides[k.id]
		if !ok {
			o = Identity
		}
		resolve(effects[k], t, &o)
		f.Overrides[k.id] = o
	}
	for id, o := range f.Overrides {
		if o.IsIdentity() {
			delete(f.Overrides, id)
		}
	}
	return f
}

func resolve(es []effect, t float64, o *Override) {
	var active, done, first *effect
	for i := range es {
		e := &es[i]
		if first == nil || e.start < first.start || (e.start == first.start && e.order < first.order) {
			first = e
		}
		switch {
		case t >= e.start && t <= e.end:
			if active == nil || e.start > active.start || (e.start == active.start && e.order > active.order) {
				active = e
			}
		case t > e.end:
			if done == nil || e.end > done.end || (e.end == done.end && e.order > done.order) {
				done = e
			}
		}
	}
	switch {
	case active != nil:
		var alpha float64
		if span := active.end - active.start; span > 0 {
			alpha = (t - active.start) / span
		} else {
			alpha = 1
		}
		active.apply(o, active.rate(alpha))
	case done != nil:
		done.after(o)
	default:
		first.before(o)
	}
}

func fade(from, to float64) effect {
	return effect{
		apply:  func(o *Override, a float64) { o.Opacity = from + (to-from)*a },
		before: func(o *Override) { o.Opacity = from },
		after:  func(o *Override) { o.Opacity = to },
	}
}

// flatten calls fn for every leaf with its absolute start and end time.
// scale stretches composite children to a composite's explicit run time.
func (tr *Transition) flatten(offset, scale float64, fn func(n *Transition, start, end float64)) {
	if tr == nil {
		return
	}
	if !tr.IsComposite() {
		fn(tr, offset, offset+tr.RunTime*scale)
		return
	}
	if tr.RunTime > 0 {
		if nat := tr.naturalDuration(); nat > 0 {
			scale *= tr.RunTime / nat
		}
	}
	switch tr.Kind {
	case KindSequence:
		at := offset
		for _, c := range tr.Children {
			c.flatten(at, scale, fn)
			at += c.Duration() * scale
		}
	case KindGroup:
		for _, c := range tr.Children {
			c.flatten(offset, scale, fn)
		}
	}
}

// Times returns sample times from 0 to d inclusive at fps frames per second.
func Times(d float64, fps int) []float64 {
	if fps <= 0 || d <= 0 {
		return []float64{d}
	}
	n := int(math.Ceil(d * float64(fps)))
	ts := make([]float64, n+1)
	for i := range ts {
		ts[i] = math.Min(d, float64(i)/float64(fps))
	}
	return ts
}
