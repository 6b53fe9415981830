package pipeline

import (
	"fmt"

	"github.com/theirongolddev/spendview/internal/source"
)

// LoadResult holds the output of the data loading pipeline.
type LoadResult struct {
	Dataset   *source.Dataset
	FromCache bool
}

// Load parses the CSV directly, bypassing the cache.
func Load(path string) (*LoadResult, error) {
	ds, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	if len(ds.Students) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoRows)
	}
	return &LoadResult{Dataset: ds}, nil
}
