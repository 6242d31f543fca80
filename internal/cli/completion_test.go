package cli

import (
	"slices"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbitdash/pkg/facet"
)

func TestCompleteLabels(t *testing.T) {
	c, _ := testCLI(t, "")
	var f selectionFlags

	tests := []struct {
		dim   facet.Dimension
		typed string
		want  []string
	}{
		{facet.Country, "", []string{"CIS", "UK", "US"}},
		{facet.Country, "u", []string{"UK", "US"}},
		{facet.Operator, "one", []string{"OneWeb"}},
		{facet.ObjectType, "ro", []string{"ROCKET_BODY"}},
		{facet.Country, "zz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.dim.String()+"/"+tt.typed, func(t *testing.T) {
			got, directive := c.completeLabels(&f, tt.dim)(nil, nil, tt.typed)
			if directive != cobra.ShellCompDirectiveNoFileComp {
				t.Errorf("directive = %v", directive)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("completions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompleteLabelsMissingDataset(t *testing.T) {
	c, _ := testCLI(t, "")
	f := selectionFlags{dataset: "/nonexistent/leo.csv"}

	got, directive := c.completeLabels(&f, facet.Country)(nil, nil, "")
	if directive != cobra.ShellCompDirectiveError {
		t.Errorf("directive = %v, want error", directive)
	}
	if got != nil {
		t.Errorf("completions = %v, want none", got)
	}
}
