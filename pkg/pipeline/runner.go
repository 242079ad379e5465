package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/cache"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/layout"
	"github.com/matzehuels/dsanim/pkg/observability"
	"github.com/matzehuels/dsanim/pkg/render"
	"github.com/matzehuels/dsanim/pkg/script"
)

const artifactKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, the layout registry and the
// logger; it doesn't store results. Multiple goroutines can safely use the
// same Runner with different scripts.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Layouts *layout.Registry
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Layouts: layout.NewDefaultRegistry(c, keyer, layout.WithLogger(logger)),
	}
}

// Build creates the structures of s without applying any step.
func (r *Runner) Build(ctx context.Context, s *script.Script) (*Stage, error) {
	return Build(ctx, s, r.Layouts)
}

// Execute runs the complete build → play → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, s *script.Script, opts Options) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	hooks := observability.Pipeline()
	hooks.OnScriptStart(ctx, s.Name, len(s.Steps))
	scriptStart := time.Now()
	defer func() { hooks.OnScriptComplete(ctx, s.Name, time.Since(scriptStart), err) }()

	style := opts.Style
	if style == "" {
		style = s.Style
	}
	if style == "" {
		style = DefaultStyle
	}
	fps := opts.FPS
	if fps == 0 {
		fps = s.FrameRate()
	}

	result = &Result{
		Name:      s.Name,
		Artifacts: make(map[string][]Artifact),
	}

	// Artifacts already rendered for this exact script and option set.
	scriptHash, err := cache.HashJSON(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash script")
	}
	pending := opts.Formats
	if !opts.Refresh {
		pending = r.cachedArtifacts(ctx, scriptHash, style, fps, opts, result.Artifacts)
	}
	result.CacheInfo.RenderHit = len(pending) == 0

	// Stage 1: Build
	buildStart := time.Now()
	stage, err := r.Build(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Scene = stage.Scene
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Structures = len(s.Structures)

	logger.Info("built scene",
		"structures", len(s.Structures),
		"duration", result.Stats.BuildTime)

	// Stages 2 and 3 interleave: the frames of a step are sampled right
	// after it is applied, while the model holds that step's state.
	svgStyle, err := render.StyleByName(style)
	if err != nil {
		return nil, err
	}
	sink := newFrameSink(stage, opts, svgStyle, pending)
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, pending)
	defer func() { hooks.OnRenderComplete(ctx, pending, time.Since(renderStart), err) }()

	playStart := time.Now()
	tl, err := r.play(ctx, s, stage, opts, fps, sink)
	if err != nil {
		return nil, err
	}
	result.Timeline = tl
	result.Stats.Steps = len(tl.Steps)
	result.Stats.Duration = tl.Duration()
	result.Stats.PlayTime = time.Since(playStart)

	logger.Info("played steps",
		"steps", len(tl.Steps),
		"seconds", result.Stats.Duration,
		"duration", result.Stats.PlayTime)

	if opts.Frames == FramesFinal {
		if err := sink.emit(ctx, anim.Frame{}); err != nil {
			return nil, err
		}
	}
	if slices.Contains(pending, FormatJSON) {
		data, err := render.RenderJSON(tl,
			render.WithJSONScene(stage.Scene),
			render.WithJSONStyle(style),
			render.WithJSONIndent())
		if err != nil {
			return nil, err
		}
		sink.artifacts[FormatJSON] = []Artifact{{Name: "timeline.json", Data: data}}
	}

	for _, format := range pending {
		arts := sink.artifacts[format]
		result.Artifacts[format] = arts
		key := r.Keyer.ArtifactKey(scriptHash, opts.ArtifactKeyOpts(format, style, fps))
		if err := cache.SetJSON(ctx, r.Cache, key, arts, cache.TTLArtifact); err != nil {
			logger.Warn("cache artifact", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, artifactKeyType, size(arts))
	}
	result.Stats.Frames = sink.frames
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"frames", sink.frames,
		"cached", !slices.Equal(pending, opts.Formats),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// play applies every step to stage and records the timeline. Frames are
// handed to sink as they are produced.
func (r *Runner) play(ctx context.Context, s *script.Script, stage *Stage, opts Options, fps int, sink *frameSink) (render.Timeline, error) {
	tl := render.Timeline{Frame: stage.Scene.Frame, FPS: fps}
	if opts.Frames != FramesFinal {
		if err := sink.emit(ctx, anim.Frame{}); err != nil {
			return tl, err
		}
	}

	var clock float64
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return tl, err
		}
		animated := step.Animated() && !opts.Instant
		tr, hold, err := stage.Apply(ctx, step, animated)
		if err != nil {
			return tl, wrap(err, "steps[%d]", i)
		}
		ts := render.TimelineStep{
			Index:      i,
			Target:     step.Target,
			Op:         string(step.Op),
			Start:      clock,
			Transition: tr,
			Hold:       hold,
		}
		tl.Steps = append(tl.Steps, ts)
		clock += ts.Duration()

		before := sink.frames
		switch opts.Frames {
		case FramesSteps:
			err = sink.emit(ctx, anim.Frame{})
		case FramesAll:
			err = sink.sample(ctx, ts, fps)
		}
		if err != nil {
			return tl, err
		}
		if tr != nil {
			observability.Playback().OnPlay(ctx, string(step.Op),
				time.Duration(ts.Duration()*float64(time.Second)), sink.frames-before)
		}
	}
	return tl, nil
}

// cachedArtifacts loads every format already in the cache into arts and
// returns the formats still to render.
func (r *Runner) cachedArtifacts(ctx context.Context, scriptHash, style string, fps int, opts Options, arts map[string][]Artifact) []string {
	var pending []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(scriptHash, opts.ArtifactKeyOpts(format, style, fps))
		var cached []Artifact
		if hit, err := cache.GetJSON(ctx, r.Cache, key, &cached); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, artifactKeyType)
			arts[format] = cached
			continue
		}
		observability.Cache().OnCacheMiss(ctx, artifactKeyType)
		pending = append(pending, format)
	}
	return pending
}

// Layout builds s, lays out the graph with the given ID and returns the
// fitted node positions. An empty algorithm uses the graph's declared
// layout, then the registry default.
func (r *Runner) Layout(ctx context.Context, s *script.Script, id, algorithm string) (layout.Positions, error) {
	decl, err := s.Structure(id)
	if err != nil {
		return nil, err
	}
	if algorithm == "" {
		algorithm = decl.Layout
	}
	stage, err := r.Build(ctx, s)
	if err != nil {
		return nil, err
	}
	g, err := stage.Graph(id)
	if err != nil {
		return nil, err
	}
	if err := g.NodeLayout(ctx, algorithm); err != nil {
		return nil, err
	}
	return stage.Positions(id)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func size(arts []Artifact) int {
	n := 0
	for _, a := range arts {
		n += len(a.Data)
	}
	return n
}
