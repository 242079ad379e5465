package layout

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dsanim/pkg/cache"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/observability"
)

// DefaultAlgorithm is used when no algorithm, or an unknown one, is requested.
const DefaultAlgorithm = "kamada_kawai_layout"

// Algorithm names understood by [NewDefaultRegistry].
const (
	KamadaKawai  = DefaultAlgorithm
	Spring       = "spring_layout"
	Shell        = "shell_layout"
	Circo        = "circo_layout"
	Planar       = "planar_layout"
	Multipartite = "multipartite_layout"
	Hierarchical = "hierarchical_layout"
	Spectral     = "spectral_layout"
	CircularName = "circular_layout"
)

// Registry maps algorithm names to engines.
type Registry struct {
	mu       sync.RWMutex
	engines  map[string]Engine
	fallback string
	logger   *log.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *log.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFallback sets the algorithm used for unknown names and failed engines.
func WithFallback(name string) RegistryOption {
	return func(r *Registry) { r.fallback = name }
}

// NewRegistry creates an empty registry falling back to DefaultAlgorithm.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		engines:  make(map[string]Engine),
		fallback: DefaultAlgorithm,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry registers the Graphviz-backed algorithms and the
// circular layout. With a non-nil cache every engine is wrapped in [Cached].
func NewDefaultRegistry(c cache.Cache, keyer cache.Keyer, opts ...RegistryOption) *Registry {
	r := NewRegistry(opts...)
	engines := map[string]Engine{
		KamadaKawai:  NewGraphviz("neato", graphviz.NEATO, map[string]string{"mode": "KK"}),
		Spring:       NewGraphviz("fdp", graphviz.FDP, nil),
		Shell:        NewGraphviz("twopi", graphviz.TWOPI, nil),
		Circo:        NewGraphviz("circo", graphviz.CIRCO, nil),
		Planar:       NewGraphviz("dot", graphviz.DOT, nil),
		Multipartite: NewGraphviz("dot", graphviz.DOT, map[string]string{"rankdir": "LR"}),
		Hierarchical: NewGraphviz("dot", graphviz.DOT, nil),
		Spectral:     NewGraphviz("sfdp", graphviz.SFDP, nil),
		CircularName: Circular{},
	}
	for name, e := range engines {
		if c != nil {
			e = NewCached(e, name, c, keyer)
		}
		r.Register(name, e)
	}
	return r
}

// Register adds or replaces the engine for name.
func (r *Registry) Register(name string, e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[name] = e
}

// Names returns the registered algorithm names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.engines))
}

// Resolve returns the engine for name and the name actually used. Unknown
// names resolve to the fallback algorithm with a warning.
func (r *Registry) Resolve(name string) (string, Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.engines[name]; ok {
		return name, e, nil
	}
	e, ok := r.engines[r.fallback]
	if !ok {
		return "", nil, errors.New(errors.ErrCodeLayoutFailed, "no engine for %q and fallback %q is not registered", name, r.fallback)
	}
	if name != "" {
		r.logger.Warn("layout not available, using default", "algorithm", name, "default", r.fallback)
	}
	return r.fallback, e, nil
}

// Layout computes positions with the named algorithm. Unknown names and
// engine failures degrade to the fallback algorithm; only a failing fallback
// is reported as an error.
func (r *Registry) Layout(ctx context.Context, algorithm string, nodes []string, edges []Edge) (Positions, error) {
	name, e, err := r.Resolve(algorithm)
	if err != nil {
		return nil, err
	}
	pos, err := r.run(ctx, name, e, nodes, edges)
	if err == nil || name == r.fallback {
		return pos, wrapLayout(err, name)
	}
	if ctx.Err() != nil {
		return nil, wrapLayout(ctx.Err(), name)
	}

	r.logger.Warn("layout failed, using default", "algorithm", name, "default", r.fallback, "err", err)
	r.mu.RLock()
	fb := r.engines[r.fallback]
	r.mu.RUnlock()
	if fb == nil {
		return nil, wrapLayout(err, name)
	}
	pos, err = r.run(ctx, r.fallback, fb, nodes, edges)
	return pos, wrapLayout(err, r.fallback)
}

func (r *Registry) run(ctx context.Context, name string, e Engine, nodes []string, edges []Edge) (Positions, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, name, len(nodes))
	start := time.Now()
	pos, err := e.Layout(ctx, nodes, edges)
	if err == nil {
		for _, n := range nodes {
			if _, ok := pos[n]; !ok {
				err = errors.New(errors.ErrCodeLayoutFailed, "engine %s returned no position for node %q", e.Name(), n)
				break
			}
		}
	}
	hooks.OnLayoutComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return pos, nil
}

func wrapLayout(err error, name string) error {
	if err == nil || errors.GetCode(err) == errors.ErrCodeLayoutFailed {
		return err
	}
	return errors.Wrap(errors.ErrCodeLayoutFailed, err, "layout %s", name)
}
