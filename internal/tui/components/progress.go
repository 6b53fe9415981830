package components

import (
	"fmt"

	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

func clamp01(pct float64) float64 {
	return min(max(pct, 0), 1)
}

func solidBar(color lipgloss.Color, width int) progress.Model {
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.TextDim)
	return bar
}

// ShareBar renders a labelled share of a whole. pct is 0-100 and shown with
// one decimal; count is appended when non-negative.
func ShareBar(label string, pct float64, count int, color lipgloss.Color, labelW, barWidth int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	countStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	out := labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space.Render(" ") +
		solidBar(color, barWidth).ViewAs(clamp01(pct/100)) +
		space.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct))
	if count >= 0 {
		out += space.Render("  ") + countStyle.Render(fmt.Sprintf("(%d)", count))
	}
	return out
}
