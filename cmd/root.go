package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/config"
	"github.com/theirongolddev/spendview/internal/logger"
	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"
	"github.com/theirongolddev/spendview/internal/source"
	"github.com/theirongolddev/spendview/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagFile       string
	flagNoCache    bool
	flagQuiet      bool
	flagLogFile    string
	flagVerbose    bool
	flagOutput     string
	flagCategories []string

	cfg    config.Config
	appLog = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:               "spendview",
	Short:             "Student spending dashboard",
	Long:              "Explore a student spending survey: category averages, payment methods, and spending by gender, year and major.",
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	err := rootCmd.Execute()
	_ = appLog.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Spending CSV (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite cache and reparse the CSV")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write JSON logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "table", "Output format: table, json, or csv")
}

// initRuntime loads the config and logger before any command runs.
func initRuntime(_ *cobra.Command, _ []string) error {
	var err error
	if cfg, err = config.Load(); err != nil {
		return err
	}
	if flagFile == "" {
		flagFile = cfg.General.DataFile
	}

	log, err := logger.New(flagLogFile, flagVerbose)
	if err != nil {
		return err
	}
	appLog = log
	return nil
}

// addCategoriesFlag registers --categories on a chart command.
func addCategoriesFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&flagCategories, "categories", "c", nil,
		"Comma-separated categories to show (default from config)")
}

// selectionFor resolves the chart selection from config, letting
// --categories override the list named by chart.
func selectionFor(cmd *cobra.Command, chart string) (model.Selection, error) {
	sel, err := cfg.DefaultSelection()
	if err != nil {
		return sel, err
	}
	if !cmd.Flags().Changed("categories") {
		return sel, nil
	}

	allowed := model.SpendingCategories
	if chart == "years" {
		allowed = model.YearCategories
	}
	cats, err := pipeline.ParseCategories(flagCategories, allowed)
	if err != nil {
		return sel, fmt.Errorf("--categories: %w (valid: %s)", err, categoryNames(allowed))
	}

	switch chart {
	case "gender":
		sel.Gender = cats
	case "years":
		sel.Years = cats
	case "majors":
		sel.Majors = cats
	}
	return sel, nil
}

func categoryNames(cats []model.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// loadData is the shared data loading path used by all commands.
// Uses the SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Reading %s...\n", flagFile)
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			appLog.Debug("cache unavailable", zap.Error(err))
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full parse\n")
			}
		} else {
			defer func() { _ = cache.Close() }()

			result, err := pipeline.LoadWithCache(flagFile, cache)
			switch {
			case err == nil:
				reportLoad(result)
				return result, nil
			case errors.Is(err, source.ErrMissingColumn), errors.Is(err, pipeline.ErrNoRows), errors.Is(err, os.ErrNotExist):
				return nil, err
			default:
				appLog.Warn("cache load failed", zap.String("file", flagFile), zap.Error(err))
				if !flagQuiet {
					fmt.Fprintf(os.Stderr, "  Cache error, falling back to full parse\n")
				}
			}
		}
	}

	result, err := pipeline.Load(flagFile)
	if err != nil {
		return nil, err
	}
	reportLoad(result)
	return result, nil
}

func reportLoad(result *pipeline.LoadResult) {
	ds := result.Dataset
	appLog.Debug("dataset loaded",
		zap.String("path", ds.Path),
		zap.Int("rows", len(ds.Students)),
		zap.Bool("from_cache", result.FromCache),
		zap.Strings("dropped", ds.Dropped),
	)
	if flagQuiet {
		return
	}

	n := cli.FormatNumber(int64(len(ds.Students)))
	if result.FromCache {
		fmt.Fprintf(os.Stderr, "  Loaded %s students from cache\n", n)
		return
	}
	msg := fmt.Sprintf("  Parsed %s students (%d columns)", n, len(ds.Columns))
	if len(ds.Dropped) > 0 {
		msg += fmt.Sprintf(", dropped %s", strings.Join(ds.Dropped, ", "))
	}
	fmt.Fprintln(os.Stderr, msg)
}

// buildReport loads the dataset and aggregates it for sel.
func buildReport(sel model.Selection) (model.Report, error) {
	result, err := loadData()
	if err != nil {
		return model.Report{}, err
	}
	return pipeline.BuildReport(result.Dataset.Students, sel)
}

func newPrinter() (*cli.Printer, error) {
	format, err := cli.ParseFormat(flagOutput)
	if err != nil {
		return nil, err
	}
	return cli.NewPrinter(os.Stdout, format), nil
}
