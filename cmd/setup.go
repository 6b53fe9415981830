package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendview/internal/config"
	"github.com/theirongolddev/spendview/internal/pipeline"
	"github.com/theirongolddev/spendview/internal/tui"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	rows := 0
	if result, err := pipeline.LoadPreferCache(flagFile, !flagNoCache); err == nil {
		rows = len(result.Dataset.Students)
	} else {
		appLog.Debug("setup preload failed", zap.String("file", flagFile), zap.Error(err))
	}

	dataFile := flagFile
	themeName := cfg.Appearance.Theme
	if !theme.Valid(themeName) {
		themeName = theme.Active.Name
	}
	save := true

	if err := tui.NewSetupForm(rows, &dataFile, &themeName, &save).Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	if !save {
		fmt.Println("  Nothing saved.")
		return nil
	}

	cfg.General.DataFile = strings.TrimSpace(dataFile)
	cfg.Appearance.Theme = themeName
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `spendview setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
