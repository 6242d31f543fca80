package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/render/chart"
	"github.com/matzehuels/orbitdash/pkg/summary"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	selectionFlags
	output  string   // output directory
	base    string   // file name prefix
	formats []string // svg, png, json
}

// renderCommand creates the render command, which writes the charts of one
// dashboard frame to files.
//
// Defaults:
//   - formats: svg
//   - output: current directory
//   - selection, mode and width: from the config file
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard charts to files",
		Example: `  orbitdash render --country US --mode cumulative
  orbitdash render --type PAYLOAD --focus 2020 -f svg,json -o out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := chart.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			return c.runRender(cmd.Context(), &opts)
		},
	}

	opts.register(cmd, true)
	c.registerCompletions(cmd, &opts.selectionFlags)
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.base, "name", "", "file name prefix (e.g. leo gives leo-timeline.svg)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "svg", "output format(s): svg, png, json (comma-separated)")

	return cmd
}

// runRender builds one frame from the flags and writes it out.
func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	cfg, err := c.loadConfig(opts.dataset)
	if err != nil {
		return err
	}

	spin := newSpinnerWithContext(ctx, "Loading dataset...")
	spin.Start()
	ds, idx, err := c.openDataset(ctx, cfg)
	if err != nil {
		spin.StopWithError("Could not load " + cfg.Dataset.Path)
		return err
	}
	spin.Stop()

	dashOpts, err := opts.options(cfg)
	if err != nil {
		return err
	}

	var fetcher summary.Fetcher = summary.Disabled{}
	if _, ok := opts.focusYear(); ok {
		backend, err := c.newCache(ctx, cfg)
		if err != nil {
			return err
		}
		defer backend.Close()
		fetcher = c.newFetcher(cfg, backend)
	}

	dashOpts = append(dashOpts, dashboard.WithLogger(c.Logger), dashboard.WithFetcher(fetcher))
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
		d.Wait()
	}

	f := d.Frame()
	paths, err := chart.WriteFiles(opts.output, opts.base, f, opts.formats)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s of %d records", StyleNumber.Render(fmt.Sprint(f.Matched)), f.Total)
	printFrameStats(f)
	for _, p := range paths {
		printFile(filepath.Clean(p))
	}
	printNewline()
	printNextStep("Explore interactively", "orbitdash tui --dataset "+cfg.Dataset.Path)
	return nil
}
