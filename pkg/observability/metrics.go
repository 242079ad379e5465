package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hooks receives every event category.
type Hooks interface {
	PipelineHooks
	CacheHooks
	PlaybackHooks
}

// Install registers h for every hook category.
func Install(h Hooks) {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetPlaybackHooks(h)
}

// MetricsHooks records events as Prometheus metrics on a private registry.
// A CLI run writes them out with [MetricsHooks.WriteTextfile] for the node
// exporter's textfile collector.
type MetricsHooks struct {
	ScriptsTotal    *prometheus.CounterVec
	ScriptDuration  prometheus.Histogram
	LayoutsTotal    *prometheus.CounterVec
	LayoutDuration  *prometheus.HistogramVec
	RenderDuration  prometheus.Histogram
	CacheEvents     *prometheus.CounterVec
	CacheWriteBytes prometheus.Counter
	TransitionsPlay *prometheus.CounterVec
	FramesTotal     prometheus.Counter

	registry *prometheus.Registry
}

// NewMetricsHooks creates hooks with every metric registered.
func NewMetricsHooks() *MetricsHooks {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &MetricsHooks{
		ScriptsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dsanim_scripts_total",
			Help: "Scripts executed, by status",
		}, []string{"status"}),
		ScriptDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dsanim_script_duration_seconds",
			Help:    "Wall time of a complete script run",
			Buckets: prometheus.DefBuckets,
		}),
		LayoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dsanim_layouts_total",
			Help: "Graph layouts computed, by algorithm and status",
		}, []string{"algorithm", "status"}),
		LayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dsanim_layout_duration_seconds",
			Help:    "Graph layout duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"algorithm"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dsanim_render_duration_seconds",
			Help:    "Frame rendering duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dsanim_cache_events_total",
			Help: "Cache lookups and writes, by key type and event",
		}, []string{"type", "event"}),
		CacheWriteBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "dsanim_cache_write_bytes_total",
			Help: "Bytes written to the cache",
		}),
		TransitionsPlay: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dsanim_transitions_total",
			Help: "Transitions played, by step operation",
		}, []string{"op"}),
		FramesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "dsanim_frames_total",
			Help: "Frames sampled during playback",
		}),
		registry: reg,
	}
}

// Registry returns the registry holding the metrics.
func (m *MetricsHooks) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the metrics in the Prometheus text format to path.
func (m *MetricsHooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *MetricsHooks) OnScriptStart(context.Context, string, int) {}

func (m *MetricsHooks) OnScriptComplete(_ context.Context, _ string, d time.Duration, err error) {
	m.ScriptsTotal.WithLabelValues(status(err)).Inc()
	m.ScriptDuration.Observe(d.Seconds())
}

func (m *MetricsHooks) OnLayoutStart(context.Context, string, int) {}

func (m *MetricsHooks) OnLayoutComplete(_ context.Context, algorithm string, d time.Duration, err error) {
	m.LayoutsTotal.WithLabelValues(algorithm, status(err)).Inc()
	m.LayoutDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

func (m *MetricsHooks) OnRenderStart(context.Context, []string) {}

func (m *MetricsHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, _ error) {
	m.RenderDuration.Observe(d.Seconds())
}

func (m *MetricsHooks) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *MetricsHooks) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *MetricsHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
	m.CacheWriteBytes.Add(float64(size))
}

func (m *MetricsHooks) OnPlay(_ context.Context, op string, _ time.Duration, frames int) {
	m.TransitionsPlay.WithLabelValues(op).Inc()
	m.FramesTotal.Add(float64(frames))
}

// multi fans every event out to several hooks.
type multi []Hooks

// Multi returns hooks forwarding every event to each of hs in order.
func Multi(hs ...Hooks) Hooks { return multi(hs) }

func (m multi) OnScriptStart(ctx context.Context, name string, steps int) {
	for _, h := range m {
		h.OnScriptStart(ctx, name, steps)
	}
}

func (m multi) OnScriptComplete(ctx context.Context, name string, d time.Duration, err error) {
	for _, h := range m {
		h.OnScriptComplete(ctx, name, d, err)
	}
}

func (m multi) OnLayoutStart(ctx context.Context, algorithm string, nodes int) {
	for _, h := range m {
		h.OnLayoutStart(ctx, algorithm, nodes)
	}
}

func (m multi) OnLayoutComplete(ctx context.Context, algorithm string, d time.Duration, err error) {
	for _, h := range m {
		h.OnLayoutComplete(ctx, algorithm, d, err)
	}
}

func (m multi) OnRenderStart(ctx context.Context, formats []string) {
	for _, h := range m {
		h.OnRenderStart(ctx, formats)
	}
}

func (m multi) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range m {
		h.OnRenderComplete(ctx, formats, d, err)
	}
}

func (m multi) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m multi) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m multi) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}

func (m multi) OnPlay(ctx context.Context, op string, d time.Duration, frames int) {
	for _, h := range m {
		h.OnPlay(ctx, op, d, frames)
	}
}
