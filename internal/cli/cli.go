// Package cli implements the dsanim command-line interface.
//
// # Commands
//
//   - render: play a script and write SVG, PNG, PDF or JSON output
//   - layout: print the node positions of a graph under a layout algorithm
//   - cache: inspect and manage the render and layout cache
//   - completion: generate shell completion scripts
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every pipeline, cache and playback hook.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dsanim/pkg/buildinfo"
	"github.com/matzehuels/dsanim/pkg/cache"
	"github.com/matzehuels/dsanim/pkg/observability"
	"github.com/matzehuels/dsanim/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "dsanim"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output, Err the spinner. Logs go to Logger.
	Out io.Writer
	Err io.Writer

	verbose bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetVerbose switches to debug logging and logs every pipeline, cache and
// playback event.
func (c *CLI) SetVerbose(verbose bool) {
	c.verbose = verbose
	if !verbose {
		c.SetLogLevel(LogInfo)
		return
	}
	c.SetLogLevel(LogDebug)
	observability.NewLogHooks(c.Logger).Install()
}

// installMetrics records every event as a Prometheus metric, keeping the
// verbose log hooks when they are on.
func (c *CLI) installMetrics() *observability.MetricsHooks {
	m := observability.NewMetricsHooks()
	if c.verbose {
		observability.Install(observability.Multi(observability.NewLogHooks(c.Logger), m))
	} else {
		observability.Install(m)
	}
	return m
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "dsanim animates data structures",
		Long:         `dsanim plays scripts of array, stack, variable and graph operations and renders every step as SVG, PNG or PDF frames, or as a JSON timeline.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped by
// build so a new release never reads entries written by an older one.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.CacheScope()+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the file cache, or a NullCache when caching is disabled or
// no cache directory can be determined.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dsanim/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Blank entries are dropped and an empty string yields svg.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return out
}
