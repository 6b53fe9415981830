package cmd

import (
	"github.com/theirongolddev/spendview/internal/cli"

	"github.com/spf13/cobra"
)

var genderCmd = &cobra.Command{
	Use:   "gender",
	Short: "Percentage of dollars spent by gender in each category",
	RunE:  runGender,
}

func init() {
	addCategoriesFlag(genderCmd)
	rootCmd.AddCommand(genderCmd)
}

func runGender(cmd *cobra.Command, _ []string) error {
	p, err := newPrinter()
	if err != nil {
		return err
	}
	sel, err := selectionFor(cmd, "gender")
	if err != nil {
		return err
	}
	r, err := buildReport(sel)
	if err != nil {
		return err
	}

	cells := make([]cell, len(r.Gender))
	for i, g := range r.Gender {
		cells[i] = cell{g.Category, g.Group, g.Percentage}
	}
	v := groupedView(p.Format(), groupedSpec{
		title:    "PERCENTAGE OF DOLLARS SPENT BY GENDER",
		group:    "gender",
		value:    "percentage",
		cats:     sel.Gender,
		format:   cli.FormatPercent,
		cells:    cells,
		emptyMsg: "No categories selected.",
	})
	v.Data = r.Gender
	return p.Print(v)
}
