// Package tui provides the interactive Bubble Tea dashboard for spendview.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spendview/internal/config"
	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"
	"github.com/theirongolddev/spendview/internal/source"
	"github.com/theirongolddev/spendview/internal/tui/components"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// DataLoadedMsg is sent when the initial load finishes.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	LoadTime time.Duration
	Err      error
}

// RefreshDataMsg is sent when a reload triggered by r or a file change completes.
type RefreshDataMsg struct {
	Result   *pipeline.LoadResult
	LoadTime time.Duration
	Err      error
}

// Options configures a new App.
type Options struct {
	DataFile     string
	UseCache     bool
	Selection    model.Selection
	AutoReload   bool
	PollInterval time.Duration
	Log          *zap.Logger
}

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabGender
	tabYears
	tabMajors
	tabSettings
)

// App is the root Bubble Tea model.
type App struct {
	// Data
	students  []model.Student
	identity  source.FileInfo
	fromCache bool
	loaded    bool
	loadTime  time.Duration
	loadErr   error

	// Recomputed from students on every selection change
	sel       model.Selection
	report    model.Report
	reportErr error

	// Reload state
	dataFile     string
	useCache     bool
	autoReload   bool
	pollInterval time.Duration
	lastPoll     time.Time
	refreshing   bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursors   [tabSettings]int

	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues // shared with the form across model copies
	needSetup bool

	spinner spinner.Model
	log     *zap.Logger
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	defaultPollInterval = 5 * time.Second
)

// loadConfigOrDefault loads config, returning defaults on error so the TUI
// can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return App{
		dataFile:     opts.DataFile,
		useCache:     opts.UseCache,
		sel:          opts.Selection,
		autoReload:   opts.AutoReload,
		pollInterval: interval,
		needSetup:    !config.Exists(),
		spinner:      sp,
		log:          log,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dataFile, a.useCache),
		a.spinner.Tick,
		tickCmd(),
	)
}

func (a *App) recompute() {
	if len(a.students) == 0 {
		a.report = model.Report{Selection: a.sel}
		a.reportErr = nil
		return
	}
	a.report, a.reportErr = pipeline.BuildReport(a.students, a.sel)
}

func (a *App) applyLoad(res *pipeline.LoadResult, took time.Duration, err error) {
	a.loadTime = took
	a.loadErr = err
	if err != nil {
		a.log.Warn("load failed", zap.String("file", a.dataFile), zap.Error(err))
		return
	}
	a.students = res.Dataset.Students
	a.identity = res.Dataset.Identity()
	a.fromCache = res.FromCache
	a.log.Debug("data loaded",
		zap.String("file", a.dataFile),
		zap.Int("rows", len(a.students)),
		zap.Bool("from_cache", res.FromCache),
		zap.Duration("took", took))
	a.recompute()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.lastPoll = time.Now()
		a.applyLoad(msg.Result, msg.LoadTime, msg.Err)

		if a.needSetup {
			a.setupVals = newSetupValues(a.dataFile)
			a.setupForm = newSetupForm(len(a.students), a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.lastPoll = time.Now()
		a.applyLoad(msg.Result, msg.LoadTime, msg.Err)
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoReload && !a.refreshing && time.Since(a.lastPoll) >= a.pollInterval {
			a.lastPoll = time.Now()
			if a.fileChanged() {
				a.refreshing = true
				cmds = append(cmds, refreshDataCmd(a.dataFile, a.useCache))
			}
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabGender, tabYears, tabMajors:
		switch key {
		case "j", "down":
			a.moveCursor(1)
			return a, nil
		case "k", "up":
			a.moveCursor(-1)
			return a, nil
		case " ", "space", "enter":
			a.toggleAtCursor()
			return a, nil
		case "a":
			a.setAll(true)
			return a, nil
		case "n":
			a.setAll(false)
			return a, nil
		}
	case tabSettings:
		switch key {
		case "j", "down":
			a.settings.cursor = min(a.settings.cursor+1, settingsFieldCount-1)
			return a, nil
		case "k", "up":
			a.settings.cursor = max(a.settings.cursor-1, 0)
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.dataFile, a.useCache)
		}
		return a, nil
	case "R":
		a.autoReload = !a.autoReload
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		reload := a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		if reload {
			a.refreshing = true
			return a, refreshDataCmd(a.dataFile, a.useCache)
		}
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// fileChanged reports whether the data file's mtime or size moved since the
// last successful load.
func (a App) fileChanged() bool {
	info, err := source.Stat(a.dataFile)
	if err != nil {
		return a.loadErr == nil
	}
	return info != a.identity
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  spendview needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ spendview"))
	b.WriteString(subtitleStyle.Render(" · Student Spending Analysis"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Reading " + a.dataFile))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o g y m x", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move in category list"},
		}},
		{"Categories", []struct{ key, desc string }{
			{"space", "Toggle category"},
			{"a / n", "Select all / none"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"r", "Reload data file"},
			{"R", "Toggle auto-reload"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	st := components.Status{
		File:       a.dataFile,
		Rows:       len(a.students),
		LoadTime:   fmt.Sprintf("%.2fs", a.loadTime.Seconds()),
		FromCache:  a.fromCache,
		Refreshing: a.refreshing,
		AutoReload: a.autoReload,
	}
	if a.loadErr != nil {
		st.Err = a.loadErr.Error()
	}
	statusBar := components.RenderStatusBar(w, st)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.activeTab == tabSettings:
		content = a.renderSettingsTab(cw)
	case len(a.students) == 0:
		content = a.renderNoData(cw)
	case a.reportErr != nil:
		content = components.ContentCard("Error", a.reportErr.Error(), cw)
	default:
		switch a.activeTab {
		case tabOverview:
			content = a.renderOverviewTab(cw)
		case tabGender:
			content = a.renderGenderTab(cw)
		case tabYears:
			content = a.renderYearsTab(cw)
		case tabMajors:
			content = a.renderMajorsTab(cw)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderNoData(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	body := muted.Render("No rows loaded from " + a.dataFile)
	if a.loadErr != nil {
		body += "\n" + lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Render(a.loadErr.Error())
	}
	body += "\n\n" + muted.Render("Press r to retry or x to change the data file.")
	return components.ContentCard("No data", body, cw)
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func load(path string, useCache bool) (*pipeline.LoadResult, time.Duration, error) {
	start := time.Now()
	res, err := pipeline.LoadPreferCache(path, useCache)
	return res, time.Since(start), err
}

// loadDataCmd runs the initial load in the background.
func loadDataCmd(path string, useCache bool) tea.Cmd {
	return func() tea.Msg {
		res, took, err := load(path, useCache)
		return DataLoadedMsg{Result: res, LoadTime: took, Err: err}
	}
}

// refreshDataCmd reloads the data file without the loading screen.
func refreshDataCmd(path string, useCache bool) tea.Cmd {
	return func() tea.Msg {
		res, took, err := load(path, useCache)
		return RefreshDataMsg{Result: res, LoadTime: took, Err: err}
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same widths RenderTabBar uses.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}
