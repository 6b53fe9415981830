package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagMajorTotals bool

var majorsCmd = &cobra.Command{
	Use:   "majors",
	Short: "Average spending by major",
	RunE:  runMajors,
}

func init() {
	addCategoriesFlag(majorsCmd)
	majorsCmd.Flags().BoolVar(&flagMajorTotals, "totals", false, "Show total spending per student for each major")
	rootCmd.AddCommand(majorsCmd)
}

func runMajors(cmd *cobra.Command, _ []string) error {
	p, err := newPrinter()
	if err != nil {
		return err
	}
	sel, err := selectionFor(cmd, "majors")
	if err != nil {
		return err
	}
	r, err := buildReport(sel)
	if err != nil {
		return err
	}

	if flagMajorTotals {
		return p.Print(majorTotalsView(r.MajorTotals))
	}

	if r.MajorPrompt != "" {
		if p.Format() == cli.FormatJSON {
			return p.Print(cli.View{Data: map[string]string{"prompt": r.MajorPrompt}})
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), cli.RenderPrompt(r.MajorPrompt))
		return err
	}

	cells := make([]cell, len(r.Majors))
	for i, m := range r.Majors {
		cells[i] = cell{m.Category, m.Group, m.Average}
	}
	v := groupedView(p.Format(), groupedSpec{
		title:    "AVERAGE SPENDING BY MAJOR",
		group:    "major",
		value:    "average",
		cats:     sel.Majors,
		format:   func(x float64) string { return cli.FormatMetric(pipeline.Round2(x)) },
		cells:    cells,
		emptyMsg: pipeline.MajorPrompt,
	})
	v.Data = r.Majors
	return p.Print(v)
}

func majorTotalsView(totals []model.MajorTotal) cli.View {
	v := cli.View{
		Title:   "SPENDING PER STUDENT BY MAJOR",
		Headers: []string{"Major", "Students", "Total", "Per Student"},
		Data:    totals,
	}
	for _, t := range totals {
		v.Rows = append(v.Rows, []string{
			t.Major,
			cli.FormatNumber(int64(t.NumStudents)),
			cli.FormatMoney(t.TotalSpending),
			cli.FormatMoney(pipeline.Round2(t.NormalizedSpending)),
		})
		v.Raw = append(v.Raw, []string{
			t.Major,
			strconv.Itoa(t.NumStudents),
			cli.FormatFloat(t.TotalSpending),
			cli.FormatFloat(t.NormalizedSpending),
		})
	}
	return v
}
