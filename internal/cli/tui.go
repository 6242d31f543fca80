package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orbitdash/internal/tui"
	"github.com/matzehuels/orbitdash/pkg/dashboard"
)

// tuiCommand creates the interactive terminal dashboard command.
func (c *CLI) tuiCommand() *cobra.Command {
	var opts selectionFlags

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore the dataset in the terminal",
		Long: `Open an interactive dashboard in the terminal.

Keys: tab switches facet, space toggles a label, / searches, m switches the
timeline mode, ←/→ move the year cursor and enter focuses the year. Press ?
for all bindings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), &opts)
		},
	}

	opts.register(cmd, true)
	c.registerCompletions(cmd, &opts)
	return cmd
}

func (c *CLI) runTUI(ctx context.Context, opts *selectionFlags) error {
	cfg, err := c.loadConfig(opts.dataset)
	if err != nil {
		return err
	}
	ds, idx, err := c.openDataset(ctx, cfg)
	if err != nil {
		return err
	}
	dashOpts, err := opts.options(cfg)
	if err != nil {
		return err
	}
	backend, err := c.newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	// Log lines would tear the alternate screen.
	quiet := c.Logger.With()
	quiet.SetLevel(LogError)

	dashOpts = append(dashOpts,
		dashboard.WithLogger(quiet),
		dashboard.WithFetcher(c.newFetcher(cfg, backend)),
	)
	d, err := dashboard.New(ds, idx, dashOpts...)
	if err != nil {
		return err
	}
	defer d.Close()
	d.Refresh()
	if year, ok := opts.focusYear(); ok {
		if err := d.ToggleFocus(year); err != nil {
			return err
		}
	}

	p := tea.NewProgram(tui.New(d), tea.WithAltScreen(), tea.WithContext(ctx))
	d.AddSink(tui.NewSink(p))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return ctx.Err()
}
