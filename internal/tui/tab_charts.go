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

const checklistWidth = 34

// withChecklist lays out the active tab's category checklist beside body.
func (a App) withChecklist(listTitle, chartTitle, body string, cw int) string {
	t := theme.Active
	all, sel, _ := a.categoryList(a.activeTab)

	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
		Render("[space] toggle  [a]ll  [n]one")
	list := components.Checklist(categoryLabels(all), checkedFlags(all, *sel),
		a.cursors[a.activeTab], true, components.CardInnerWidth(checklistWidth))

	left := components.ContentCard(listTitle, list+"\n\n"+hint, checklistWidth)
	right := components.ContentCard(chartTitle, body, cw-checklistWidth)
	return components.CardRow([]string{left, right})
}

func (a App) emptyNotice(msg string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(msg)
}

// groupOrder returns group names in first-seen order.
func groupOrder[T any](rows []T, group func(T) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if g := group(r); !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}

// ─── Gender ─────────────────────────────────────────────────────

func (a App) renderGenderTab(cw int) string {
	t := theme.Active
	rows := a.report.Gender
	chartW := components.CardInnerWidth(cw - checklistWidth)

	var body string
	if len(rows) == 0 {
		body = a.emptyNotice("No categories selected.")
	} else {
		genders := groupOrder(rows, func(r model.GroupShare) string { return r.Group })
		colorOf := make(map[string]lipgloss.Color, len(genders))
		for i, g := range genders {
			colorOf[g] = t.SeriesColor(i)
		}

		catW := 0
		for _, c := range a.sel.Gender {
			catW = max(catW, len(c.Label()))
		}

		bars := make([]components.Bar, 0, len(rows))
		var prev model.Category
		for _, r := range rows {
			cat := ""
			if r.Category != prev {
				cat = r.Category.Label()
				prev = r.Category
			}
			bars = append(bars, components.Bar{
				Label: fmt.Sprintf("%-*s  %s", catW, cat, r.Group),
				Value: r.Percentage,
				Text:  cli.FormatPercent(r.Percentage),
				Color: colorOf[r.Group],
			})
		}
		body = components.Legend(genders) + "\n\n" + components.HBarChart(bars, chartW)
	}

	return a.withChecklist("Select Categories to Display",
		"Percentage of Dollars Spent by Gender in Each Category", body, cw)
}

// ─── Years ──────────────────────────────────────────────────────

func (a App) renderYearsTab(cw int) string {
	t := theme.Active
	rows := a.report.Years
	innerW := components.CardInnerWidth(cw - checklistWidth)

	if len(rows) == 0 {
		return a.withChecklist("Select Categories", "Average Spending by Year in School",
			a.emptyNotice("No categories selected."), cw)
	}

	years := groupOrder(rows, func(r model.GroupAverage) string { return r.Group })
	cells := make(map[model.Category]map[string]float64)
	for _, r := range rows {
		if cells[r.Category] == nil {
			cells[r.Category] = make(map[string]float64)
		}
		cells[r.Category][r.Group] = r.Average
	}

	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	val := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	labelW := len("Category")
	for _, c := range a.sel.Years {
		labelW = max(labelW, len(c.Label()))
	}
	colW := 10
	for _, y := range years {
		colW = max(colW, len(y)+1)
	}

	var tbl strings.Builder
	tbl.WriteString(head.Render(fmt.Sprintf("%-*s", labelW, "Category")))
	for _, y := range years {
		tbl.WriteString(head.Render(fmt.Sprintf("%*s", colW, y)))
	}
	tbl.WriteString(head.Render("   trend"))
	for i, c := range a.sel.Years {
		vals := make([]float64, len(years))
		tbl.WriteString("\n")
		tbl.WriteString(lipgloss.NewStyle().Foreground(t.SeriesColor(i)).Background(t.Surface).
			Render(fmt.Sprintf("%-*s", labelW, c.Label())))
		for yi, y := range years {
			vals[yi] = cells[c][y]
			tbl.WriteString(val.Render(fmt.Sprintf("%*s", colW, cli.FormatFloat(vals[yi]))))
		}
		tbl.WriteString(space.Render("   "))
		tbl.WriteString(components.Sparkline(vals, t.SeriesColor(i)))
	}

	// The category under the cursor gets a full chart when it is selected.
	body := tbl.String()
	focus := model.YearCategories[a.cursors[tabYears]]
	if byYear, ok := cells[focus]; ok {
		vals := make([]float64, len(years))
		for i, y := range years {
			vals[i] = byYear[y]
		}
		chartH := 8
		if a.isCompactLayout() {
			chartH = 6
		}
		body += "\n\n" + head.Render(focus.Label()) + "\n" +
			components.BarChart(vals, years, t.Accent, innerW, chartH)
	}

	return a.withChecklist("Select Categories", "Average Spending by Year in School", body, cw)
}

// ─── Majors ─────────────────────────────────────────────────────

func (a App) renderMajorsTab(cw int) string {
	t := theme.Active
	r := a.report
	chartW := components.CardInnerWidth(cw - checklistWidth)

	var body string
	if r.MajorPrompt != "" {
		body = lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true).Render(r.MajorPrompt)
	} else {
		majors := groupOrder(r.Majors, func(g model.GroupAverage) string { return g.Group })
		byMajor := make(map[string]map[model.Category]float64, len(majors))
		for _, g := range r.Majors {
			if byMajor[g.Group] == nil {
				byMajor[g.Group] = make(map[model.Category]float64)
			}
			byMajor[g.Group][g.Category] = g.Average
		}

		majorW := 0
		for _, m := range majors {
			majorW = max(majorW, len(m))
		}
		majorW = min(majorW, 20)

		var bars []components.Bar
		for _, m := range majors {
			for ci, c := range r.Selection.Majors {
				label := ""
				if ci == 0 {
					label = truncStr(m, majorW)
				}
				v := byMajor[m][c]
				bars = append(bars, components.Bar{
					Label: fmt.Sprintf("%-*s", majorW, label),
					Value: v,
					Text:  cli.FormatMetric(pipeline.Round2(v)),
					Color: t.SeriesColor(ci),
				})
			}
		}
		body = components.Legend(categoryLabels(r.Selection.Majors)) + "\n\n" + components.HBarChart(bars, chartW)
	}

	chart := a.withChecklist("Select Spending Categories", "Average Spending by Major", body, cw)

	totals := make([]components.Bar, len(r.MajorTotals))
	for i, mt := range r.MajorTotals {
		totals[i] = components.Bar{
			Label: fmt.Sprintf("%s (%d)", mt.Major, mt.NumStudents),
			Value: mt.NormalizedSpending,
			Text:  cli.FormatMoney(pipeline.Round2(mt.NormalizedSpending)),
			Color: t.Accent,
		}
	}
	totalsCard := components.ContentCard("Spending per Student by Major",
		components.HBarChart(totals, components.CardInnerWidth(cw)), cw)

	return chart + "\n" + totalsCard
}
