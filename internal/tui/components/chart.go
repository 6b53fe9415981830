package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var (
	sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	eighths     = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	hEighths    = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // shown after the bar; defaults to the value
	Color lipgloss.Color
}

// HBarChart renders one horizontal bar per row, scaled to the largest value.
// Bars use eighth-block glyphs so small differences stay visible.
func HBarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	texts := make([]string, len(bars))
	for i, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		texts[i] = b.Text
		if texts[i] == "" {
			texts[i] = formatChartLabel(b.Value)
		}
		textW = max(textW, lipgloss.Width(texts[i]))
		peak = math.Max(peak, b.Value)
	}
	if peak == 0 {
		peak = 1
	}

	barW := width - labelW - textW - 3
	if barW < 4 {
		barW = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		color := b.Color
		if color == "" {
			color = t.Accent
		}
		cells := math.Max(b.Value, 0) / peak * float64(barW)
		full := int(cells)
		frac := int((cells - float64(full)) * 8)

		var bar strings.Builder
		bar.WriteString(strings.Repeat("█", full))
		used := full
		if frac > 0 && used < barW {
			bar.WriteRune(hEighths[frac])
			used++
		}

		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, b.Label)) +
			space.Render(" ") +
			lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(bar.String()) +
			space.Render(strings.Repeat(" ", barW-used+1)) +
			textStyle.Render(fmt.Sprintf("%*s", textW, texts[i]))
	}
	return strings.Join(lines, "\n")
}

// Legend renders colored swatches for a list of series names.
func Legend(names []string) string {
	t := theme.Active
	text := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	parts := make([]string, len(names))
	for i, n := range names {
		sw := lipgloss.NewStyle().Foreground(t.SeriesColor(i)).Background(t.Surface).Render("■")
		parts[i] = sw + space.Render(" ") + text.Render(n)
	}
	return strings.Join(parts, space.Render("  "))
}

// BarChart renders a vertical bar chart with a labelled y axis.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	step := chartTickStep(peak)
	for int(math.Ceil(peak/step)) > max(2, height/2) {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	ticks := max(1, int(math.Round(ceiling/step)))
	rowsPerTick := max(2, height/ticks)
	chartH := rowsPerTick * ticks

	yLabelW := max(4, len(formatChartLabel(ceiling))+1)
	tickAt := make(map[int]string, ticks)
	for i := 1; i <= ticks; i++ {
		tickAt[i*rowsPerTick] = formatChartLabel(step * float64(i))
	}

	n := len(values)
	chartW := max(5, width-yLabelW-1)
	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := min(8, max(1, (chartW-(n-1)*gap)/n))
	axisLen := n*barW + (n-1)*gap

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bars := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, tickAt[row])))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(space.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= top:
				b.WriteString(bars.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := min(max(int((v-bottom)/(top-bottom)*8), 1), 8)
				b.WriteString(bars.Render(strings.Repeat(string(eighths[idx]), barW)))
			default:
				b.WriteString(space.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		row := []rune(strings.Repeat(" ", axisLen))
		lastEnd := -1
		for i, lbl := range labels {
			pos := i * (barW + gap)
			if pos <= lastEnd {
				continue
			}
			r := []rune(lbl)
			if len(r) > barW+gap && i < n-1 {
				r = r[:barW+gap-1]
			}
			end := min(pos+len(r), axisLen)
			copy(row[pos:end], r[:end-pos])
			lastEnd = end
		}
		b.WriteString("\n")
		b.WriteString(space.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axis.Render(strings.TrimRight(string(row), " ")))
	}
	return b.String()
}

// chartTickStep computes a round tick interval targeting about five ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 10 || v == math.Trunc(v):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
