// Package source reads the student spending CSV into typed records.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/spendview/internal/model"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Dataset is the loaded table plus file identity used for change detection.
type Dataset struct {
	Path     string
	ModTime  time.Time
	Size     int64
	Columns  []string
	Dropped  []string
	Students []model.Student
}

// FileInfo is the identity of a file on disk.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Stat returns the mtime and size of path.
func Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}, nil
}

// Load reads the CSV at path, drops unnamed index columns and converts every
// row into a Student.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	types := make(map[string]series.Type, len(model.NumericColumns)+len(model.CategoricalColumns))
	for _, c := range model.NumericColumns {
		types[string(c)] = series.Float
	}
	for _, c := range model.CategoricalColumns {
		types[c] = series.String
	}

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) > 0 {
		nameBlankHeaders(records[0])
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, df.Err)
	}

	df, dropped := dropUnnamed(df)
	if df.Err != nil {
		return nil, fmt.Errorf("dropping index columns: %w", df.Err)
	}

	students, err := toStudents(df)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &Dataset{
		Path:     path,
		ModTime:  info.ModTime(),
		Size:     info.Size(),
		Columns:  df.Names(),
		Dropped:  dropped,
		Students: students,
	}, nil
}

// Identity returns the dataset's file identity.
func (d *Dataset) Identity() FileInfo {
	return FileInfo{MtimeNs: d.ModTime.UnixNano(), SizeBytes: d.Size}
}

// nameBlankHeaders names empty header cells "Unnamed: <i>", the name pandas
// gives the index column written by to_csv.
func nameBlankHeaders(header []string) {
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			header[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}
}

func dropUnnamed(df dataframe.DataFrame) (dataframe.DataFrame, []string) {
	var dropped []string
	for _, name := range df.Names() {
		if strings.HasPrefix(name, "Unnamed") {
			dropped = append(dropped, name)
		}
	}
	if len(dropped) == 0 {
		return df, nil
	}
	return df.Drop(dropped), dropped
}

func toStudents(df dataframe.DataFrame) ([]model.Student, error) {
	have := make(map[string]bool)
	for _, n := range df.Names() {
		have[n] = true
	}
	for _, c := range model.CategoricalColumns {
		if !have[c] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	for _, c := range model.NumericColumns {
		if !have[string(c)] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	students := make([]model.Student, df.Nrow())

	for _, c := range model.CategoricalColumns {
		col := df.Col(c)
		if col.Err != nil {
			return nil, col.Err
		}
		for i, v := range col.Records() {
			students[i].SetAttr(c, strings.TrimSpace(v))
		}
	}

	for _, c := range model.NumericColumns {
		col := df.Col(string(c))
		if col.Err != nil {
			return nil, col.Err
		}
		for i, v := range col.Float() {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("column %s row %d: not a number", c, i+1)
			}
			students[i].Set(c, v)
		}
	}

	return students, nil
}
