package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/spendview/internal/config"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"
)

// setupValues is bound to the first-run form fields.
type setupValues struct {
	DataFile string
	Theme    string
	Save     bool
}

func newSetupValues(dataFile string) *setupValues {
	return &setupValues{
		DataFile: dataFile,
		Theme:    theme.Active.Name,
		Save:     true,
	}
}

// NewSetupForm builds the setup form used by the TUI and `spendview setup`.
func NewSetupForm(rows int, dataFile, themeName *string, save *bool) *huh.Form {
	found := "No rows loaded yet."
	if rows > 0 {
		found = fmt.Sprintf("Found %d students in the current data file.", rows)
	}

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, th := range theme.All {
		themeOpts[i] = huh.NewOption(th.Name, th.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to spendview").
				Description(found),
			huh.NewInput().
				Title("Data file").
				Description("CSV with one row per student.").
				Value(dataFile).
				Validate(validateDataFile),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(themeName),
			huh.NewConfirm().
				Title("Save to " + config.ConfigPath() + "?").
				Value(save),
		),
	).WithShowHelp(true)
}

func newSetupForm(rows int, vals *setupValues) *huh.Form {
	return NewSetupForm(rows, &vals.DataFile, &vals.Theme, &vals.Save)
}

func validateDataFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("data file is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// saveSetupConfig applies the form values and persists them when asked.
// It reports whether the data file changed.
func (a *App) saveSetupConfig() bool {
	vals := *a.setupVals
	theme.SetActive(vals.Theme)

	path := strings.TrimSpace(vals.DataFile)
	reload := path != "" && path != a.dataFile
	if path != "" {
		a.dataFile = path
	}

	if vals.Save {
		cfg := loadConfigOrDefault()
		cfg.General.DataFile = a.dataFile
		cfg.Appearance.Theme = vals.Theme
		if err := config.Save(cfg); err != nil {
			a.log.Warn("saving setup config", zap.Error(err))
		}
	}
	return reload
}
