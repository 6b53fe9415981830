package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"
	"github.com/theirongolddev/spendview/internal/tui/components"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func metricCards(ms []model.Metric, withHelp bool) []components.Metric {
	out := make([]components.Metric, len(ms))
	for i, m := range ms {
		out[i] = components.Metric{Label: m.Label, Value: cli.FormatMetric(m.Value)}
		if withHelp {
			out[i].Help = m.Help
		}
	}
	return out
}

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.report
	var b strings.Builder

	// Rows 1-2: the two columns of average spending cards
	withHelp := !a.isCompactLayout()
	b.WriteString(components.MetricCardRow(metricCards(model.PickMetrics(r.Averages, model.LeftCards), withHelp), cw))
	b.WriteString("\n")
	b.WriteString(components.MetricCardRow(metricCards(model.PickMetrics(r.Averages, model.RightCards), withHelp), cw))
	b.WriteString("\n")

	// Row 3: payment methods beside income and per-student totals
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	labelW := 0
	for _, s := range r.Payments {
		labelW = max(labelW, lipgloss.Width(s.Name))
	}
	barW := max(components.CardInnerWidth(halves[0])-labelW-16, 8)

	var pay strings.Builder
	for i, s := range r.Payments {
		if i > 0 {
			pay.WriteString("\n")
		}
		pay.WriteString(components.ShareBar(s.Name, s.Percent, s.Count, t.SeriesColor(i), labelW, barW))
	}
	payCard := components.ContentCard("Preferred Payment Methods", pay.String(), halves[0])

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	totals := pipeline.StudentTotals(a.students)
	spark := make([]float64, len(totals))
	var sum float64
	for i, st := range totals {
		spark[i] = st.Total
		sum += st.Total
	}
	innerW := components.CardInnerWidth(halves[1])
	if len(spark) > innerW {
		spark = spark[:innerW]
	}

	var info strings.Builder
	if inc := model.PickMetrics(r.Averages, []model.Category{model.MonthlyIncome}); len(inc) == 1 {
		info.WriteString(muted.Render(fmt.Sprintf("%-22s", inc[0].Label)))
		info.WriteString(value.Render(cli.FormatMetric(inc[0].Value)))
		info.WriteString("\n")
	}
	info.WriteString(muted.Render(fmt.Sprintf("%-22s", "Students")))
	info.WriteString(value.Render(cli.FormatNumber(int64(r.Rows))))
	info.WriteString("\n")
	if len(totals) > 0 {
		info.WriteString(muted.Render(fmt.Sprintf("%-22s", "Avg monthly spending")))
		info.WriteString(value.Render(cli.FormatMoney(pipeline.Round2(sum / float64(len(totals))))))
		info.WriteString("\n\n")
		info.WriteString(muted.Render("Spending per student"))
		info.WriteString("\n")
		info.WriteString(components.Sparkline(spark, t.Accent))
	}
	infoCard := components.ContentCard("Dataset", info.String(), halves[1])

	if a.isCompactLayout() {
		b.WriteString(payCard)
		b.WriteString("\n")
		b.WriteString(infoCard)
	} else {
		b.WriteString(components.CardRow([]string{payCard, infoCard}))
	}
	return b.String()
}
