package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/theirongolddev/spendview/internal/pipeline"
	"github.com/theirongolddev/spendview/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the parsed-row cache",
	RunE:  runCacheStatus,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the cached rows of the current data file",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStatus(_ *cobra.Command, _ []string) error {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	n, err := cache.DatasetCount()
	if err != nil {
		return fmt.Errorf("counting cached datasets: %w", err)
	}
	fmt.Printf("  Cache: %s\n", pipeline.CachePath())
	fmt.Printf("  Datasets: %d\n", n)
	return nil
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	left, err := clearCached(cache, flagFile)
	if err != nil {
		return err
	}
	appLog.Debug("cache cleared", zap.String("file", flagFile), zap.Int("remaining", left))
	fmt.Printf("  Cleared cached rows for %s (%d datasets remain)\n", flagFile, left)
	return nil
}

// clearCached drops path's cached rows and reports how many datasets remain.
// Rows are keyed by absolute path, the same key LoadWithCache writes.
func clearCached(cache *store.Cache, path string) (int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := cache.DeleteDataset(abs); err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return cache.DatasetCount()
}
