package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/script"
)

// layoutCommand creates the layout command, which prints graph node
// positions under a layout algorithm.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		structure string
		algorithm string
		asJSON    bool
		list      bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "layout [script]",
		Short: "Print graph node positions under a layout algorithm",
		Long: `Print graph node positions under a layout algorithm.

The graph is built as the script declares it, laid out and fitted to the
script frame. Without --algorithm the graph's declared layout is used.

Layouts are cached locally for faster subsequent runs.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return c.listLayouts()
			}
			return c.runLayout(cmd.Context(), args[0], structure, algorithm, asJSON, noCache)
		},
	}

	cmd.Flags().StringVarP(&structure, "structure", "s", "", "graph ID (default: the only graph in the script)")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "layout algorithm (see --list)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print positions as JSON")
	cmd.Flags().BoolVar(&list, "list", false, "list available algorithms")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	c.registerLayoutCompletions(cmd)

	return cmd
}

func (c *CLI) listLayouts() error {
	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()
	for _, name := range runner.Layouts.Names() {
		fmt.Fprintln(c.Out, name)
	}
	return nil
}

// runLayout loads the script, lays out the graph and prints its positions.
func (c *CLI) runLayout(ctx context.Context, input, id, algorithm string, asJSON, noCache bool) error {
	s, err := script.Load(input)
	if err != nil {
		return err
	}
	if id == "" {
		if id, err = onlyGraph(s); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	pos, err := runner.Layout(ctx, s, id, algorithm)
	if err != nil {
		return fmt.Errorf("layout %s: %w", id, err)
	}
	prog.done("computed layout", "graph", id, "nodes", len(pos))

	names := slices.Sorted(maps.Keys(pos))
	if asJSON {
		out := make(map[string][2]float64, len(pos))
		for _, n := range names {
			out[n] = [2]float64{pos[n].X, pos[n].Y}
		}
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{n, fmt.Sprintf("%.3f", pos[n].X), fmt.Sprintf("%.3f", pos[n].Y)})
	}
	printTable(c.Out, []string{"Node", "X", "Y"}, rows)
	printNewline(c.Out)
	printNextStep(c.Out, "Render", appName, "render", input)
	return nil
}

// onlyGraph returns the ID of the single graph declared by s.
func onlyGraph(s *script.Script) (string, error) {
	var ids []string
	for _, st := range s.Structures {
		if st.Kind == script.KindGraph {
			ids = append(ids, st.ID)
		}
	}
	switch len(ids) {
	case 0:
		return "", errors.New(errors.ErrCodeStructNotFound, "script declares no graph")
	case 1:
		return ids[0], nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "script declares several graphs (%s); pick one with --structure", strings.Join(ids, ", "))
}
