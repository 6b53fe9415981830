package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format is a CLI output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat converts a string to a Format, returning an error if invalid.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be table, json, or csv", s)
	}
}

// View is one report rendered in any Format. Rows hold display strings for
// the table; Raw holds unformatted values for CSV and falls back to Rows.
// Data is marshaled as-is for JSON.
type View struct {
	Title   string
	Headers []string
	Rows    [][]string
	Raw     [][]string
	Data    any
	Footer  string
}

// Printer writes views in a fixed format.
type Printer struct {
	writer io.Writer
	format Format
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{writer: w, format: format}
}

// Format reports the printer's output format.
func (p *Printer) Format() Format { return p.format }

// Print renders v.
func (p *Printer) Print(v View) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v.Data)
	case FormatCSV:
		w := csv.NewWriter(p.writer)
		if err := w.Write(v.Headers); err != nil {
			return err
		}
		rows := v.Raw
		if rows == nil {
			rows = v.Rows
		}
		if err := w.WriteAll(rows); err != nil {
			return err
		}
		return w.Error()
	default:
		_, err := fmt.Fprint(p.writer, RenderTable(Table{
			Title:   v.Title,
			Headers: v.Headers,
			Rows:    v.Rows,
		}))
		if err == nil && v.Footer != "" {
			_, err = fmt.Fprintln(p.writer, v.Footer)
		}
		return err
	}
}
