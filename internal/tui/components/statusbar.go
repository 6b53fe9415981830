package components

import (
	"fmt"
	"path/filepath"

	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar reports about the loaded dataset.
type Status struct {
	File       string
	Rows       int
	LoadTime   string
	FromCache  bool
	Refreshing bool
	AutoReload bool
	Err        string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	t := theme.Active

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := muted.Render(" [?]help  [r]eload  [q]uit")

	var right string
	switch {
	case st.Err != "":
		right = warn.Render(st.Err + " ")
	case st.Refreshing:
		right = accent.Render("reloading… ")
	default:
		src := "csv"
		if st.FromCache {
			src = "cache"
		}
		right = muted.Render(fmt.Sprintf("%s  %d rows  %s (%s) ", filepath.Base(st.File), st.Rows, st.LoadTime, src))
		if st.AutoReload {
			right = accent.Render("● ") + right
		}
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(left + fill + right)
}
