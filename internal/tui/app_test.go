package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"

	tea "github.com/charmbracelet/bubbletea"
)

const fixture = "../source/testdata/student_spending.csv"

func loadedApp(t *testing.T) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a := NewApp(Options{DataFile: fixture, Selection: pipeline.DefaultSelection()})
	a.needSetup = false

	res, err := pipeline.Load(fixture)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 60})
	m, _ = m.Update(DataLoadedMsg{Result: res})
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	var m tea.Model = a
	for _, k := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		switch k {
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		}
		m, _ = m.Update(msg)
	}
	return m.(App)
}

func TestNewAppNeedsSetupWithoutConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	a := NewApp(Options{DataFile: fixture})
	if !a.needSetup {
		t.Fatal("expected first-run setup when no config exists")
	}
	if a.pollInterval != defaultPollInterval {
		t.Fatalf("pollInterval = %v, want default", a.pollInterval)
	}
}

func TestDataLoadedBuildsReport(t *testing.T) {
	a := loadedApp(t)
	if !a.loaded || a.loadErr != nil {
		t.Fatalf("loaded=%v err=%v", a.loaded, a.loadErr)
	}
	if a.report.Rows != 8 {
		t.Fatalf("report rows = %d, want 8", a.report.Rows)
	}
	if got := a.report.Averages[0].Value; got != 318.25 {
		t.Fatalf("food average = %v, want 318.25", got)
	}
}

func TestTabKeys(t *testing.T) {
	a := loadedApp(t)
	for key, want := range map[string]int{"g": tabGender, "y": tabYears, "m": tabMajors, "x": tabSettings, "o": tabOverview} {
		if got := press(t, a, key).activeTab; got != want {
			t.Errorf("key %q -> tab %d, want %d", key, got, want)
		}
	}
}

func TestGenderToggleFiltersRows(t *testing.T) {
	a := press(t, loadedApp(t), "g", "space")

	if len(a.sel.Gender) != len(model.SpendingCategories)-1 {
		t.Fatalf("selection = %v", a.sel.Gender)
	}
	for _, r := range a.report.Gender {
		if r.Category == model.Housing {
			t.Fatal("housing still present after toggling it off")
		}
	}
	if len(a.report.Gender) != 3*(len(model.SpendingCategories)-1) {
		t.Fatalf("gender rows = %d", len(a.report.Gender))
	}
}

func TestMajorsEmptySelectionShowsPrompt(t *testing.T) {
	a := press(t, loadedApp(t), "m", "n")
	if a.report.MajorPrompt != pipeline.MajorPrompt {
		t.Fatalf("MajorPrompt = %q", a.report.MajorPrompt)
	}
	if !strings.Contains(a.View(), pipeline.MajorPrompt) {
		t.Fatal("prompt not rendered")
	}

	a = press(t, a, "down", "space")
	if a.report.MajorPrompt != "" {
		t.Fatal("prompt should clear once a category is selected")
	}
	if len(a.sel.Majors) != 1 || a.sel.Majors[0] != model.Food {
		t.Fatalf("Majors = %v, want [food]", a.sel.Majors)
	}
}

func TestCursorClamps(t *testing.T) {
	a := press(t, loadedApp(t), "y", "k")
	if a.cursors[tabYears] != 0 {
		t.Fatalf("cursor = %d, want 0", a.cursors[tabYears])
	}
	for i := 0; i < 20; i++ {
		a = press(t, a, "j")
	}
	if a.cursors[tabYears] != len(model.YearCategories)-1 {
		t.Fatalf("cursor = %d, want %d", a.cursors[tabYears], len(model.YearCategories)-1)
	}
}

func TestToggleCategoryKeepsCanonicalOrder(t *testing.T) {
	got := toggleCategory(model.SpendingCategories, []model.Category{model.Technology}, model.Food)
	want := []model.Category{model.Food, model.Technology}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := toggleCategory(model.SpendingCategories, want, model.Food); len(got) != 1 || got[0] != model.Technology {
		t.Fatalf("toggle off: got %v", got)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(t)
	titles := map[string]string{
		"o": "Preferred Payment Methods",
		"g": "Percentage of Dollars Spent by Gender",
		"y": "Average Spending by Year in School",
		"m": "Average Spending by Major",
		"x": "Settings",
	}
	for key, title := range titles {
		if v := press(t, a, key).View(); !strings.Contains(v, title) {
			t.Errorf("tab %q view missing %q", key, title)
		}
	}
}

func TestLoadErrorShowsNoData(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	a := NewApp(Options{DataFile: "missing.csv"})
	a.needSetup = false

	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(DataLoadedMsg{Err: errors.New("open missing.csv: no such file")})
	if v := m.View(); !strings.Contains(v, "No data") {
		t.Fatal("expected the no-data card after a failed load")
	}
}

func TestRefreshKeepsSelection(t *testing.T) {
	a := press(t, loadedApp(t), "m", "n")
	res, err := pipeline.Load(fixture)
	if err != nil {
		t.Fatal(err)
	}
	m, _ := a.Update(RefreshDataMsg{Result: res})
	a = m.(App)
	if len(a.sel.Majors) != 0 || a.report.MajorPrompt == "" {
		t.Fatal("refresh should keep the empty majors selection")
	}
}
