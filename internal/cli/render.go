package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dsanim/pkg/pipeline"
	"github.com/matzehuels/dsanim/pkg/script"
)

// renderFlags holds the command-line flags of the render command.
type renderFlags struct {
	formats string
	output  string
	metrics string
	noCache bool
}

// renderCommand creates the render command, which plays a script and writes
// its frames.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{
		Frames: pipeline.FramesSteps,
		Scale:  pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render [script]",
		Short: "Play a script and render its frames",
		Long: `Play a script and render its frames.

The script (TOML, YAML or JSON) declares the structures to draw and the steps
to apply to them. Frames are written to the output directory:

  final.<ext>        with --frames final
  frame_NNNN.<ext>   with --frames steps (default) or all
  timeline.json      with --format json

Rendered frames are cached locally; use --refresh to re-render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(flags.formats)
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory (default: <script> without extension)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&flags.metrics, "metrics", "", "write Prometheus metrics of the run to this file")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: simple (default), wireframe")
	cmd.Flags().StringVar(&opts.Frames, "frames", opts.Frames, "frames to render: final, steps, all")
	cmd.Flags().IntVar(&opts.FPS, "fps", 0, "frame rate for --frames all (default: script fps)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.Instant, "instant", false, "apply every step without a transition")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached frames")
	registerRenderCompletions(cmd)

	return cmd
}

// runRender loads the script, executes the pipeline and writes every
// artifact below the output directory.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	s, err := script.Load(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	if flags.metrics != "" {
		m := c.installMetrics()
		defer func() {
			if err := m.WriteTextfile(flags.metrics); err != nil {
				c.Logger.Warn("write metrics", "path", flags.metrics, "err", err)
			}
		}()
	}

	spinner := newSpinner(ctx, c.Err, fmt.Sprintf("Rendering %s...", s.Name))
	spinner.Start()
	result, err := runner.Execute(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", input, err)
	}
	spinner.Stop()

	outDir := flags.output
	if outDir == "" {
		outDir = strings.TrimSuffix(input, filepath.Ext(input))
	}
	written, err := writeArtifacts(outDir, result.Artifacts)
	if err != nil {
		return err
	}
	prog.done("wrote artifacts", "dir", outDir, "files", len(written))

	printSuccess(c.Out, "Rendered %s", s.Name)
	for _, f := range summarize(written) {
		printFile(c.Out, f)
	}
	printStats(c.Out, result.Stats.Steps, frameCount(result.Artifacts), result.Stats.Duration, result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes every artifact below dir and returns the paths in
// format order.
func writeArtifacts(dir string, arts map[string][]pipeline.Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	var written []string
	for _, format := range slices.Sorted(maps.Keys(arts)) {
		for _, a := range arts[format] {
			path := filepath.Join(dir, a.Name)
			if err := os.WriteFile(path, a.Data, 0644); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			written = append(written, path)
		}
	}
	return written, nil
}

// summarize shortens a long file list to its first and last entries.
func summarize(paths []string) []string {
	const maxListed = 4
	if len(paths) <= maxListed {
		return paths
	}
	return []string{
		paths[0],
		fmt.Sprintf("... %d more", len(paths)-2),
		paths[len(paths)-1],
	}
}

// frameCount returns the number of frames of the first image format.
func frameCount(arts map[string][]pipeline.Artifact) int {
	for _, format := range []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF} {
		if n := len(arts[format]); n > 0 {
			return n
		}
	}
	return 0
}
