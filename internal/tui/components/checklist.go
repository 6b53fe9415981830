package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Checklist renders a multi-select list. cursor marks the focused row; it is
// ignored when focused is false.
func Checklist(items []string, checked []bool, cursor int, focused bool, width int) string {
	t := theme.Active

	normal := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	box := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	sel := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	marker := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	lines := make([]string, len(items))
	for i, item := range items {
		mark := "[ ]"
		if i < len(checked) && checked[i] {
			mark = "[x]"
		}

		if focused && i == cursor {
			row := marker.Render("▸ ") + sel.Render(fmt.Sprintf("%s %s", mark, item))
			if pad := width - lipgloss.Width(row); pad > 0 {
				row += sel.Render(strings.Repeat(" ", pad))
			}
			lines[i] = row
			continue
		}

		text := normal
		if i >= len(checked) || !checked[i] {
			text = dim
		}
		lines[i] = normal.Render("  ") + box.Render(mark) + normal.Render(" ") + text.Render(item)
	}
	return strings.Join(lines, "\n")
}
