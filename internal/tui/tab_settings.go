package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/config"
	"github.com/theirongolddev/spendview/internal/tui/components"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldDataFile = iota
	settingsFieldTheme
	settingsFieldAutoReload
	settingsFieldPollInterval
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldDataFile:
		ti.Placeholder = "path/to/student_spending.csv"
		ti.SetValue(a.dataFile)
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(theme.Active.Name)
	case settingsFieldAutoReload:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoReload))
	case settingsFieldPollInterval:
		ti.Placeholder = "5 (seconds, minimum 1)"
		ti.SetValue(strconv.Itoa(int(a.pollInterval.Seconds())))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		reload := a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		if reload && !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.dataFile, a.useCache)
		}
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited field and persists it. It reports whether
// the data file changed and needs reloading.
func (a *App) settingsSave() bool {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())
	reload := false

	switch a.settings.cursor {
	case settingsFieldDataFile:
		if val != "" && val != a.dataFile {
			cfg.General.DataFile = val
			a.dataFile = val
			reload = true
		}
	case settingsFieldTheme:
		if !theme.Valid(val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return false
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldAutoReload:
		b, err := strconv.ParseBool(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("auto reload: %w", err)
			return false
		}
		a.autoReload = b
		return false // session only
	case settingsFieldPollInterval:
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			a.settings.saveErr = fmt.Errorf("poll interval must be a whole number of seconds >= 1")
			return false
		}
		cfg.Server.PollIntervalSec = n
		a.pollInterval = time.Duration(n) * time.Second
	}

	a.settings.saveErr = config.Save(cfg)
	return reload
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	fields := []struct{ label, value string }{
		{"Data File", a.dataFile},
		{"Theme", theme.Active.Name},
		{"Auto Reload", strconv.FormatBool(a.autoReload)},
		{"Poll Interval", fmt.Sprintf("%ds", int(a.pollInterval.Seconds()))},
	}

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-16s ", f.label)))
			form.WriteString(a.settings.input.View())
			form.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			row := markerStyle.Render("▸ ") +
				selectedLabelStyle.Render(fmt.Sprintf("%-16s ", f.label+":")) +
				selectedStyle.Render(truncStr(f.value, innerW-20))
			if pad := innerW - lipgloss.Width(row); pad > 0 {
				row += selectedStyle.Render(strings.Repeat(" ", pad))
			}
			form.WriteString(row)
		} else {
			form.WriteString(labelStyle.Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-16s ", f.label+":")))
			form.WriteString(valueStyle.Render(truncStr(f.value, innerW-20)))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		form.WriteString("\n")
		form.WriteString(lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).
			Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved!"))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var info strings.Builder
	info.WriteString(labelStyle.Render("Rows loaded:  ") + valueStyle.Render(cli.FormatNumber(int64(len(a.students)))) + "\n")
	info.WriteString(labelStyle.Render("Load time:    ") + valueStyle.Render(fmt.Sprintf("%.2fs", a.loadTime.Seconds())) + "\n")
	info.WriteString(labelStyle.Render("Cache:        ") + valueStyle.Render(cacheLabel(a.useCache, a.fromCache)) + "\n")
	info.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(config.ConfigPath()))

	return components.ContentCard("Settings", form.String(), cw) + "\n" +
		components.ContentCard("General", info.String(), cw)
}

func cacheLabel(enabled, hit bool) string {
	switch {
	case !enabled:
		return "disabled"
	case hit:
		return "hit"
	default:
		return "miss"
	}
}
