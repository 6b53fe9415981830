package cmd

import (
	"fmt"

	"github.com/theirongolddev/spendview/internal/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every aggregate to a spreadsheet, JSON, or CSV file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "", "xlsx, json, or csv (default from --out extension)")
	exportCmd.Flags().StringVar(&flagExportOut, "out", "spending_report.xlsx", "Output file path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(flagExportFormat, flagExportOut)
	if err != nil {
		return err
	}
	sel, err := cfg.DefaultSelection()
	if err != nil {
		return err
	}
	r, err := buildReport(sel)
	if err != nil {
		return err
	}

	if err := export.Write(r, format, flagExportOut); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	appLog.Debug("report exported",
		zap.String("path", flagExportOut),
		zap.String("format", string(format)),
		zap.Int("rows", r.Rows),
	)
	if !flagQuiet {
		fmt.Printf("  Wrote %s (%s, %d students)\n", flagExportOut, format, r.Rows)
	}
	return nil
}
