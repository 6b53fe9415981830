package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Average spending per category",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	p, err := newPrinter()
	if err != nil {
		return err
	}
	r, err := buildReport(pipeline.DefaultSelection())
	if err != nil {
		return err
	}
	if p.Format() == cli.FormatTable {
		_, err = fmt.Fprint(cmd.OutOrStdout(), renderSummaryCards(r))
		return err
	}
	return p.Print(summaryView(r))
}

// renderSummaryCards draws the metric cards as labelled lines, left column
// then right column.
func renderSummaryCards(r model.Report) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cli.RenderTitle(fmt.Sprintf("STUDENT SPENDING  %s students", cli.FormatNumber(int64(r.Rows)))))
	b.WriteString("\n\n")

	groups := [][]model.Metric{
		model.PickMetrics(r.Averages, model.LeftCards),
		model.PickMetrics(r.Averages, model.RightCards),
		model.PickMetrics(r.Averages, []model.Category{model.MonthlyIncome}),
	}
	labelW := 0
	for _, g := range groups {
		for _, m := range g {
			labelW = max(labelW, len(m.Label))
		}
	}
	for i, g := range groups {
		if i > 0 && len(g) > 0 {
			b.WriteString("\n")
		}
		for _, m := range g {
			b.WriteString(cli.RenderMetric(m.Label, cli.FormatMetric(m.Value), m.Help, labelW))
		}
	}
	return b.String()
}

func summaryView(r model.Report) cli.View {
	v := cli.View{
		Title:   fmt.Sprintf("STUDENT SPENDING  %s students", cli.FormatNumber(int64(r.Rows))),
		Headers: []string{"Category", "Average"},
		Data:    r.Averages,
	}

	rows := append(model.PickMetrics(r.Averages, model.LeftCards), model.PickMetrics(r.Averages, model.RightCards)...)
	for i, m := range rows {
		if i == len(model.LeftCards) {
			v.Rows = append(v.Rows, []string{"---"})
		}
		v.Rows = append(v.Rows, []string{m.Label, cli.FormatMetric(m.Value)})
	}
	for _, m := range r.Averages {
		v.Raw = append(v.Raw, []string{string(m.Column), cli.FormatFloat(m.Value)})
	}

	if inc := model.PickMetrics(r.Averages, []model.Category{model.MonthlyIncome}); len(inc) == 1 {
		v.Footer = fmt.Sprintf("  %s: %s", inc[0].Label, cli.FormatMetric(inc[0].Value))
	}
	return v
}
