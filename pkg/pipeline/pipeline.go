// Package pipeline runs animation scripts.
//
// This package implements the build → play → render pipeline shared by the
// CLI commands. By centralizing it, every entry point replays a script the
// same way and reuses the same caches.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Create every declared structure and add it to a scene
//  2. Play: Apply the steps in order, collecting one transition per step
//  3. Render: Sample the transitions into frames and encode them (SVG, PNG,
//     PDF) or serialise the timeline (JSON)
//
// The scene model always holds the state after the last applied step.
// Frames for a step are therefore sampled right after the step is applied
// and before the next one runs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	s, err := script.Load("swap.toml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, s, pipeline.Options{
//	    Formats: []string{"svg"},
//	    Frames:  pipeline.FramesAll,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, a := range result.Artifacts["svg"] {
//	    os.WriteFile(a.Name, a.Data, 0o644)
//	}
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dsanim/pkg/cache"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/render"
	"github.com/matzehuels/dsanim/pkg/scene"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultStyle is the default visual style.
	DefaultStyle = "simple"

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 1.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Frame selection modes.
const (
	// FramesFinal renders one frame of the final state.
	FramesFinal = "final"
	// FramesSteps renders the initial state and the state after every step.
	FramesSteps = "steps"
	// FramesAll renders the initial state and every sampled frame of every
	// transition at the script frame rate.
	FramesAll = "all"
)

// ValidFrameModes is the set of supported frame selection modes.
var ValidFrameModes = map[string]bool{
	FramesFinal: true,
	FramesSteps: true,
	FramesAll:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the render configuration of one run. Script content is
// passed separately.
type Options struct {
	Formats []string `json:"formats,omitempty"`
	// Style overrides the script style.
	Style  string `json:"style,omitempty"`
	Frames string `json:"frames,omitempty"`
	// FPS overrides the script frame rate.
	FPS   int     `json:"fps,omitempty"`
	Scale float64 `json:"scale,omitempty"`
	// Instant applies every step without a transition.
	Instant bool `json:"instant,omitempty"`
	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Artifact is one encoded output file.
type Artifact struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Name is the script name.
	Name string

	// Scene holds the final state of every structure.
	Scene *scene.Scene

	// Timeline lists the applied steps and their transitions.
	Timeline render.Timeline

	// Artifacts contains rendered outputs keyed by format, in frame order.
	Artifacts map[string][]Artifact

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Structures int
	Steps      int
	Frames     int
	// Duration is the play time of the animation in seconds.
	Duration   float64
	BuildTime  time.Duration
	PlayTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	_, err := render.StyleByName(style)
	return err
}

// ValidateFrames checks that a frame selection mode is valid.
func ValidateFrames(mode string) error {
	if !ValidFrameModes[mode] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid frames: %q (must be one of: final, steps, all)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Frames == "" {
		o.Frames = FramesSteps
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateFrames(o.Frames); err != nil {
		return err
	}
	if o.Style != "" {
		if err := ValidateStyle(o.Style); err != nil {
			return err
		}
	}
	if o.FPS < 0 || o.FPS > 120 {
		return errors.New(errors.ErrCodeInvalidConfig, "fps must be between 1 and 120, got %d", o.FPS)
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %v", o.Scale)
	}
	o.Formats = dedupe(o.Formats)
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one format. The frame mode
// and instant flag are folded into the format so each selection is cached
// on its own.
func (o *Options) ArtifactKeyOpts(format, style string, fps int) cache.ArtifactKeyOpts {
	key := fmt.Sprintf("%s/%s", format, o.Frames)
	if o.Instant {
		key += "/instant"
	}
	return cache.ArtifactKeyOpts{
		Format: key,
		Style:  style,
		FPS:    fps,
		Scale:  o.Scale,
	}
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
