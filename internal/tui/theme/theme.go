// Package theme defines color themes for the spendview terminal dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name          string
	Background    lipgloss.Color
	Surface       lipgloss.Color // card and panel backgrounds
	SurfaceHover  lipgloss.Color // active tab, selected row
	SurfaceBright lipgloss.Color
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color
	TextDim       lipgloss.Color // hints, axes
	TextMuted     lipgloss.Color // labels
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color
	AccentBright  lipgloss.Color
	Green         lipgloss.Color
	Orange        lipgloss.Color
	Red           lipgloss.Color
	Yellow        lipgloss.Color
	Cyan          lipgloss.Color

	// Series colors chart groups in order; they wrap when exhausted.
	Series []lipgloss.Color
}

// Diverging red-blue sequence with the pale middle stops removed so every
// entry reads on a dark surface.
var rdbuDark = []lipgloss.Color{
	"#4393c3", "#d6604d", "#92c5de", "#f4a582", "#2166ac", "#b2182b", "#d1e5f0",
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    lipgloss.Color("#100F0F"),
	Surface:       lipgloss.Color("#1C1B1A"),
	SurfaceHover:  lipgloss.Color("#282726"),
	SurfaceBright: lipgloss.Color("#343331"),
	Border:        lipgloss.Color("#403E3C"),
	BorderAccent:  lipgloss.Color("#3AA99F"),
	TextDim:       lipgloss.Color("#575653"),
	TextMuted:     lipgloss.Color("#878580"),
	TextPrimary:   lipgloss.Color("#FFFCF0"),
	Accent:        lipgloss.Color("#3AA99F"),
	AccentBright:  lipgloss.Color("#5BC8BE"),
	Green:         lipgloss.Color("#879A39"),
	Orange:        lipgloss.Color("#DA702C"),
	Red:           lipgloss.Color("#D14D41"),
	Yellow:        lipgloss.Color("#D0A215"),
	Cyan:          lipgloss.Color("#24837B"),
	Series:        rdbuDark,
}

// Campus follows the web dashboard: pale blue page, grey text, yellow cards.
var Campus = Theme{
	Name:          "campus",
	Background:    lipgloss.Color("#b1c9e3"),
	Surface:       lipgloss.Color("#c9daec"),
	SurfaceHover:  lipgloss.Color("#dbdb1f"),
	SurfaceBright: lipgloss.Color("#E0E0E0"),
	Border:        lipgloss.Color("#787474"),
	BorderAccent:  lipgloss.Color("#00B0F0"),
	TextDim:       lipgloss.Color("#8f8b8b"),
	TextMuted:     lipgloss.Color("#787474"),
	TextPrimary:   lipgloss.Color("#0a0a0a"),
	Accent:        lipgloss.Color("#00B0F0"),
	AccentBright:  lipgloss.Color("#0077a8"),
	Green:         lipgloss.Color("#1b7837"),
	Orange:        lipgloss.Color("#d6604d"),
	Red:           lipgloss.Color("#b2182b"),
	Yellow:        lipgloss.Color("#dbdb1f"),
	Cyan:          lipgloss.Color("#2166ac"),
	Series: []lipgloss.Color{
		"#67001f", "#2166ac", "#d6604d", "#4393c3", "#b2182b", "#053061", "#f4a582",
	},
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:          "terminal",
	Background:    lipgloss.Color("0"),
	Surface:       lipgloss.Color("0"),
	SurfaceHover:  lipgloss.Color("8"),
	SurfaceBright: lipgloss.Color("8"),
	Border:        lipgloss.Color("8"),
	BorderAccent:  lipgloss.Color("6"),
	TextDim:       lipgloss.Color("8"),
	TextMuted:     lipgloss.Color("7"),
	TextPrimary:   lipgloss.Color("15"),
	Accent:        lipgloss.Color("6"),
	AccentBright:  lipgloss.Color("14"),
	Green:         lipgloss.Color("2"),
	Orange:        lipgloss.Color("3"),
	Red:           lipgloss.Color("1"),
	Yellow:        lipgloss.Color("3"),
	Cyan:          lipgloss.Color("6"),
	Series:        []lipgloss.Color{"4", "1", "6", "3", "12", "9", "14"},
}

// All available themes.
var All = []Theme{FlexokiDark, Campus, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Names lists theme names in display order.
func Names() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = t.Name
	}
	return out
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// SeriesColor returns the color for the i-th chart series.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if len(t.Series) == 0 {
		return t.Accent
	}
	return t.Series[i%len(t.Series)]
}
