package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orbitdash/pkg/facet"
	"github.com/matzehuels/orbitdash/pkg/selection"
)

// facetsOpts holds the command-line flags for the facets command.
type facetsOpts struct {
	selectionFlags
	search string
	limit  int
}

// facetsCommand creates the facets command, which lists the labels of one
// dimension with their record counts.
func (c *CLI) facetsCommand() *cobra.Command {
	var opts facetsOpts

	cmd := &cobra.Command{
		Use:       "facets <country|operator|type>",
		Short:     "List the labels of a dimension",
		Example:   "  orbitdash facets operator --search star",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"country", "operator", "type"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, err := facet.ParseDimension(args[0])
			if err != nil {
				return err
			}
			return c.runFacets(cmd.Context(), dim, &opts)
		},
	}

	opts.register(cmd, false)
	c.registerCompletions(cmd, &opts.selectionFlags)
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "only labels containing this text")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "show at most n labels (0 for all)")

	return cmd
}

func (c *CLI) runFacets(ctx context.Context, dim facet.Dimension, opts *facetsOpts) error {
	cfg, err := c.loadConfig(opts.dataset)
	if err != nil {
		return err
	}
	ds, idx, err := c.openDataset(ctx, cfg)
	if err != nil {
		return err
	}
	defaults, err := opts.defaults(cfg)
	if err != nil {
		return err
	}
	sel := selection.New(idx)
	if err := sel.Reset(defaults); err != nil {
		return err
	}

	labels := idx.Search(dim, opts.search)
	if opts.limit > 0 && len(labels) > opts.limit {
		labels = labels[:opts.limit]
	}
	if len(labels) == 0 {
		printWarning("No %s labels match %q", dim.Title(), opts.search)
		return nil
	}

	fmt.Println(StyleTitle.Render(dim.Title()) + " " + StyleDim.Render(sel.Summary(dim)))
	fmt.Fprintln(os.Stdout, facetTable(dim, labels, idx, sel, ds.Len()).Render())
	printDetail("%d of %d labels", len(labels), idx.Len(dim))
	return nil
}

// facetTable renders labels with their counts and share of all records.
// Selected labels are highlighted.
func facetTable(dim facet.Dimension, labels []string, idx *facet.Index, sel *selection.State, total int) *table.Table {
	rows := make([][]string, len(labels))
	for i, label := range labels {
		n := idx.Count(dim, label)
		mark := ""
		if sel.Has(dim, label) {
			mark = "✓"
		}
		share := "—"
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
		}
		rows[i] = []string{mark, label, fmt.Sprint(n), share}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Label", "Records", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col >= 2 {
				base = base.Align(lipgloss.Right)
			}
			if row < len(labels) && sel.Has(dim, labels[row]) {
				return base.Foreground(colorGreen).Bold(true)
			}
			if col >= 2 {
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorWhite)
		})
}
