package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dsanim/pkg/pipeline"
	"github.com/matzehuels/dsanim/pkg/render"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dsanim.

Besides commands and flags, the scripts complete flag values: layout
algorithms for "layout --algorithm", and frame modes, styles and output
formats for "render". Script arguments complete to .toml, .yaml, .yml and
.json files.

Bash:
  $ source <(dsanim completion bash)
  $ dsanim completion bash > /etc/bash_completion.d/dsanim

Zsh (with compinit enabled):
  $ dsanim completion zsh > "${fpath[1]}/_dsanim"

Fish:
  $ dsanim completion fish > ~/.config/fish/completions/dsanim.fish

PowerShell:
  PS> dsanim completion powershell | Out-String | Invoke-Expression

Start a new shell afterwards, then try:
  $ dsanim render examples/graph.toml --frames <TAB>
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// scriptExtensions are the file extensions script.Load accepts.
var scriptExtensions = []string{"toml", "yaml", "yml", "json"}

// completeScripts completes the single script argument of render and layout.
func completeScripts(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return scriptExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// fixedValues completes a flag from a fixed list.
func fixedValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// registerRenderCompletions completes the value flags of render.
func registerRenderCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeScripts
	_ = cmd.RegisterFlagCompletionFunc("frames", fixedValues(pipeline.FramesFinal, pipeline.FramesSteps, pipeline.FramesAll))
	_ = cmd.RegisterFlagCompletionFunc("style", fixedValues(render.StyleNames()...))
	_ = cmd.RegisterFlagCompletionFunc("format", fixedValues(pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON))
}

// registerLayoutCompletions completes the script argument and the algorithm
// names of the layout command.
func (c *CLI) registerLayoutCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeScripts
	_ = cmd.RegisterFlagCompletionFunc("algorithm", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		runner, err := c.newRunner(true)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer runner.Close()
		return runner.Layouts.Names(), cobra.ShellCompDirectiveNoFileComp
	})
}
