package layout

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/dsanim/pkg/cache"
	"github.com/matzehuels/dsanim/pkg/observability"
)

const cacheKeyType = "layout"

// Cached memoises an engine's results. Entries are keyed by the engine, the
// algorithm name and a hash of the node list and deduplicated edges.
type Cached struct {
	engine    Engine
	algorithm string
	cache     cache.Cache
	keyer     cache.Keyer
}

// NewCached wraps e. A nil keyer uses the default keyer.
func NewCached(e Engine, algorithm string, c cache.Cache, keyer cache.Keyer) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cached{engine: e, algorithm: algorithm, cache: c, keyer: keyer}
}

func (c *Cached) Name() string { return c.engine.Name() }

// Layout returns the cached positions or computes and stores them. Cache
// failures are not fatal.
func (c *Cached) Layout(ctx context.Context, nodes []string, edges []Edge) (Positions, error) {
	hooks := observability.Cache()
	key, err := c.key(nodes, edges)
	if err != nil {
		return c.engine.Layout(ctx, nodes, edges)
	}

	var pos Positions
	if hit, _ := cache.GetJSON(ctx, c.cache, key, &pos); hit && complete(pos, nodes) {
		hooks.OnCacheHit(ctx, cacheKeyType)
		return pos, nil
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	pos, err = c.engine.Layout(ctx, nodes, edges)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, c.cache, key, pos, cache.TTLLayout); err == nil {
		hooks.OnCacheSet(ctx, cacheKeyType, len(pos))
	}
	return pos, nil
}

func (c *Cached) key(nodes []string, edges []Edge) (string, error) {
	h, err := cache.HashJSON(struct {
		Nodes []string `json:"nodes"`
		Edges []Edge   `json:"edges"`
	}{nodes, canonical(edges)})
	if err != nil {
		return "", err
	}
	return c.keyer.LayoutKey(h, cache.LayoutKeyOpts{Engine: c.engine.Name(), Algorithm: c.algorithm}), nil
}

// canonical orders each pair and the pair list so equal undirected graphs
// hash alike.
func canonical(edges []Edge) []Edge {
	out := Dedupe(edges)
	for i, e := range out {
		if e.To < e.From {
			out[i] = Edge{From: e.To, To: e.From}
		}
	}
	slices.SortFunc(out, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})
	return out
}

func complete(pos Positions, nodes []string) bool {
	for _, n := range nodes {
		if _, ok := pos[n]; !ok {
			return false
		}
	}
	return true
}
