// Package cmd implements the spendview CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/spendview/internal/config"
	"github.com/theirongolddev/spendview/internal/pipeline"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data file: %s\n", cfg.General.DataFile)
	if v := os.Getenv(config.EnvFile); v != "" {
		fmt.Printf("               (from %s)\n", config.EnvFile)
	}
	fmt.Printf("    Cache:     %s\n", pipeline.CachePath())
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Poll interval: %ds\n", cfg.Server.PollIntervalSec)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Selection]")
	sel, err := cfg.DefaultSelection()
	if err != nil {
		fmt.Printf("    Invalid: %v\n", err)
	} else {
		fmt.Printf("    Gender: %s\n", categoryNames(sel.Gender))
		fmt.Printf("    Years:  %s\n", categoryNames(sel.Years))
		fmt.Printf("    Majors: %s\n", orNone(categoryNames(sel.Majors)))
	}
	fmt.Println()

	fmt.Println("  Run `spendview setup` to reconfigure.")
	return nil
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
