package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/spendview/internal/source"
	"github.com/theirongolddev/spendview/internal/store"
)

// LoadWithCache serves rows from the SQLite cache when the file's mtime and
// size match the cached copy, and reparses and refreshes the cache otherwise.
func LoadWithCache(path string, cache *store.Cache) (*LoadResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	current, err := source.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	tracked, ok, err := cache.GetTrackedFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	if ok && tracked.Info == current {
		students, err := cache.LoadStudents(abs)
		if err != nil {
			return nil, fmt.Errorf("loading cached rows: %w", err)
		}
		if len(students) > 0 {
			return &LoadResult{
				FromCache: true,
				Dataset: &source.Dataset{
					Path:     abs,
					ModTime:  time.Unix(0, current.MtimeNs),
					Size:     current.SizeBytes,
					Columns:  tracked.Columns,
					Students: students,
				},
			}, nil
		}
	}

	result, err := Load(abs)
	if err != nil {
		return nil, err
	}
	if err := cache.SaveDataset(result.Dataset); err != nil {
		return nil, fmt.Errorf("writing cache: %w", err)
	}
	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendview")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "spendview")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "spending.db")
}

// LoadPreferCache tries the cache at CachePath first and falls back to a
// direct parse when the cache cannot be opened or read.
func LoadPreferCache(path string, useCache bool) (*LoadResult, error) {
	if useCache {
		cache, err := store.Open(CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			if res, loadErr := LoadWithCache(path, cache); loadErr == nil {
				return res, nil
			}
		}
	}
	return Load(path)
}
