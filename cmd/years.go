package cmd

import (
	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/pipeline"

	"github.com/spf13/cobra"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Average spending by year in school",
	RunE:  runYears,
}

func init() {
	addCategoriesFlag(yearsCmd)
	rootCmd.AddCommand(yearsCmd)
}

func runYears(cmd *cobra.Command, _ []string) error {
	p, err := newPrinter()
	if err != nil {
		return err
	}
	sel, err := selectionFor(cmd, "years")
	if err != nil {
		return err
	}
	r, err := buildReport(sel)
	if err != nil {
		return err
	}

	cells := make([]cell, len(r.Years))
	for i, y := range r.Years {
		cells[i] = cell{y.Category, y.Group, y.Average}
	}
	v := groupedView(p.Format(), groupedSpec{
		title:    "AVERAGE SPENDING BY YEAR IN SCHOOL",
		group:    "year_in_school",
		value:    "average",
		cats:     sel.Years,
		format:   func(x float64) string { return cli.FormatMetric(pipeline.Round2(x)) },
		cells:    cells,
		emptyMsg: "No categories selected.",
		trend:    true,
	})
	v.Data = r.Years
	return p.Print(v)
}
