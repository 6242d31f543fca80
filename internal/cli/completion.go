package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orbitdash/pkg/facet"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for orbitdash.

Selection flags (--country, --operator, --type) complete from the labels
of the configured dataset.

  $ source <(orbitdash completion bash)
  $ orbitdash completion zsh > "${fpath[1]}/_orbitdash"
  $ orbitdash completion fish | source
  PS> orbitdash completion powershell | Out-String | Invoke-Expression
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

// registerCompletions wires dynamic completion for the selection flags of cmd.
func (c *CLI) registerCompletions(cmd *cobra.Command, f *selectionFlags) {
	flags := map[string]facet.Dimension{
		"country":  facet.Country,
		"operator": facet.Operator,
		"type":     facet.ObjectType,
	}
	for name, dim := range flags {
		_ = cmd.RegisterFlagCompletionFunc(name, c.completeLabels(f, dim))
	}
	if cmd.Flags().Lookup("mode") != nil {
		_ = cmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions(
			[]string{"yearly", "cumulative"}, cobra.ShellCompDirectiveNoFileComp))
	}
}

// completeLabels returns a completion func listing the labels of dim that
// start with the text typed so far, ignoring case.
func (c *CLI) completeLabels(f *selectionFlags, dim facet.Dimension) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		labels, err := c.labels(f.dataset, dim)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return filterPrefix(labels, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// labels loads the dataset quietly and returns every label of dim.
func (c *CLI) labels(datasetPath string, dim facet.Dimension) ([]string, error) {
	cfg, err := c.loadConfig(datasetPath)
	if err != nil {
		return nil, err
	}
	ctx := withLogger(context.Background(), log.New(io.Discard))
	_, idx, err := c.openDataset(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return idx.Values(dim), nil
}

func filterPrefix(labels []string, prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, l := range labels {
		if strings.HasPrefix(strings.ToLower(l), prefix) {
			out = append(out, l)
		}
	}
	return out
}

