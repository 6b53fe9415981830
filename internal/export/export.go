// Package export writes a full spending report to disk as a spreadsheet,
// JSON document or long-format CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/theirongolddev/spendview/internal/model"

	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Sheet names in workbook order.
const (
	SheetAverages    = "Averages"
	SheetPayments    = "Payments"
	SheetGender      = "Gender"
	SheetYears       = "Years"
	SheetMajors      = "Majors"
	SheetMajorTotals = "MajorTotals"
)

// ParseFormat validates a format name. An empty name is inferred from the
// output path's extension.
func ParseFormat(name, outPath string) (Format, error) {
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(outPath), ".")
	}
	switch f := Format(strings.ToLower(name)); f {
	case FormatXLSX, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: must be xlsx, json, or csv", name)
	}
}

// Write saves r to path in the given format.
func Write(r model.Report, format Format, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	switch format {
	case FormatXLSX:
		return WriteXLSX(r, path)
	case FormatJSON, FormatCSV:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		if format == FormatJSON {
			err = WriteJSON(r, f)
		} else {
			err = WriteCSV(r, f)
		}
		if err != nil {
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteJSON encodes the report as indented JSON.
func WriteJSON(r model.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes every section of the report as rows prefixed by the
// section name.
func WriteCSV(r model.Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, sh := range sheets(r) {
		for _, rec := range sh.rows {
			if err := cw.Write(append([]string{sh.name}, rec...)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes one worksheet per report section.
func WriteXLSX(r model.Report, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sh := range sheets(r) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return err
		}

		if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
			return err
		}
		for ri, rec := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, ri+2)
			if err != nil {
				return err
			}
			vals := make([]any, len(rec))
			for ci, v := range rec {
				if n, err := strconv.ParseFloat(v, 64); err == nil && ci > 0 {
					vals[ci] = n
				} else {
					vals[ci] = v
				}
			}
			if err := f.SetSheetRow(sh.name, cell, &vals); err != nil {
				return err
			}
		}
	}

	if r.MajorPrompt != "" {
		if err := f.SetCellValue(SheetMajors, "A2", r.MajorPrompt); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

type sheet struct {
	name   string
	header []any
	rows   [][]string
}

func sheets(r model.Report) []sheet {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	avg := sheet{name: SheetAverages, header: []any{"column", "label", "average"}}
	for _, m := range r.Averages {
		avg.rows = append(avg.rows, []string{string(m.Column), m.Label, num(m.Value)})
	}

	pay := sheet{name: SheetPayments, header: []any{"method", "count", "percent"}}
	for _, s := range r.Payments {
		pay.rows = append(pay.rows, []string{s.Name, strconv.Itoa(s.Count), num(s.Percent)})
	}

	gender := sheet{name: SheetGender, header: []any{"gender", "category", "percentage"}}
	for _, g := range r.Gender {
		gender.rows = append(gender.rows, []string{g.Group, string(g.Category), num(g.Percentage)})
	}

	years := sheet{name: SheetYears, header: []any{"year_in_school", "category", "average"}}
	for _, y := range r.Years {
		years.rows = append(years.rows, []string{y.Group, string(y.Category), num(y.Average)})
	}

	majors := sheet{name: SheetMajors, header: []any{"major", "category", "average"}}
	for _, m := range r.Majors {
		majors.rows = append(majors.rows, []string{m.Group, string(m.Category), num(m.Average)})
	}

	totals := sheet{name: SheetMajorTotals, header: []any{"major", "total_spending", "num_students", "normalized_spending"}}
	for _, t := range r.MajorTotals {
		totals.rows = append(totals.rows, []string{t.Major, num(t.TotalSpending), strconv.Itoa(t.NumStudents), num(t.NormalizedSpending)})
	}

	return []sheet{avg, pay, gender, years, majors, totals}
}
