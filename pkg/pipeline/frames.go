package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/render"
)

// frameSink encodes frames of the live scene into every requested image
// format. JSON is not a frame format and is ignored here.
type frameSink struct {
	stage   *Stage
	style   render.Style
	scale   float64
	final   bool
	formats []string

	artifacts map[string][]Artifact
	frames    int
}

func newFrameSink(stage *Stage, opts Options, style render.Style, formats []string) *frameSink {
	s := &frameSink{
		stage:     stage,
		style:     style,
		scale:     opts.Scale,
		final:     opts.Frames == FramesFinal,
		artifacts: make(map[string][]Artifact),
	}
	for _, f := range formats {
		if f != FormatJSON {
			s.formats = append(s.formats, f)
		}
	}
	return s
}

// emit encodes the scene drawn with the overrides of f.
func (s *frameSink) emit(ctx context.Context, f anim.Frame) error {
	if len(s.formats) == 0 {
		return nil
	}
	svg := render.RenderSVG(s.stage.Scene, f, render.WithStyle(s.style))
	for _, format := range s.formats {
		var (
			data = svg
			err  error
		)
		switch format {
		case FormatPNG:
			data, err = render.ToPNG(ctx, svg, s.scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svg)
		}
		if err != nil {
			return err
		}
		s.artifacts[format] = append(s.artifacts[format], Artifact{Name: s.name(format), Data: data})
	}
	s.frames++
	return nil
}

// sample emits the frames of one step at fps, skipping t=0 since it shows
// the same picture as the last frame of the previous step. A step without
// play time emits a single frame.
func (s *frameSink) sample(ctx context.Context, step render.TimelineStep, fps int) error {
	d := step.Duration()
	if d <= 0 {
		return s.emit(ctx, anim.Frame{})
	}
	end := step.Transition.Duration()
	times := anim.Times(d, fps)
	for _, t := range times[1:] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.emit(ctx, anim.Sample(step.Transition, math.Min(t, end))); err != nil {
			return err
		}
	}
	return nil
}

func (s *frameSink) name(format string) string {
	if s.final {
		return "final." + format
	}
	return fmt.Sprintf("frame_%04d.%s", s.frames, format)
}
