package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/spendview/internal/logger"
	"github.com/theirongolddev/spendview/internal/tui"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagAutoReload bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagAutoReload, "watch", false, "Reload when the data file changes")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	sel, err := cfg.DefaultSelection()
	if err != nil {
		return err
	}

	// Console logs would tear the alt screen; only a log file is kept.
	log := appLog
	if flagLogFile == "" {
		log = logger.Nop()
	}

	app := tui.NewApp(tui.Options{
		DataFile:     flagFile,
		UseCache:     !flagNoCache,
		Selection:    sel,
		AutoReload:   flagAutoReload,
		PollInterval: time.Duration(cfg.Server.PollIntervalSec) * time.Second,
		Log:          log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
