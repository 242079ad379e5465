package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks creates hooks logging to l, or to the default logger when nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() { Install(h) }

func (h *LogHooks) OnScriptStart(_ context.Context, name string, steps int) {
	h.Logger.Debug("script start", "name", name, "steps", steps)
}

func (h *LogHooks) OnScriptComplete(_ context.Context, name string, d time.Duration, err error) {
	h.done("script", d, err, "name", name)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, algorithm string, nodes int) {
	h.Logger.Debug("layout start", "algorithm", algorithm, "nodes", nodes)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, algorithm string, d time.Duration, err error) {
	h.done("layout", d, err, "algorithm", algorithm)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", d, err, "formats", formats)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnPlay(_ context.Context, kind string, d time.Duration, frames int) {
	h.Logger.Debug("play", "kind", kind, "duration", d, "frames", frames)
}

func (h *LogHooks) done(what string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", d.Round(time.Millisecond))
	if err != nil {
		h.Logger.Warn(what+" failed", append(kv, "err", err)...)
		return
	}
	h.Logger.Debug(what+" done", kv...)
}
