package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixtureReport(t *testing.T, sel model.Selection) model.Report {
	t.Helper()
	res, err := pipeline.Load("../source/testdata/student_spending.csv")
	require.NoError(t, err)
	r, err := pipeline.BuildReport(res.Dataset.Students, sel)
	require.NoError(t, err)
	return r
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("", "out/report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("JSON", "report.txt")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("", "report.txt")
	assert.Error(t, err)
}

func TestWriteXLSXSheets(t *testing.T) {
	r := fixtureReport(t, pipeline.DefaultSelection())
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, Write(r, FormatXLSX, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t,
		[]string{SheetAverages, SheetPayments, SheetGender, SheetYears, SheetMajors, SheetMajorTotals},
		f.GetSheetList())

	rows, err := f.GetRows(SheetAverages)
	require.NoError(t, err)
	require.Len(t, rows, 1+len(model.MetricColumns))
	assert.Equal(t, []string{"column", "label", "average"}, rows[0])
	assert.Equal(t, []string{"food", "Food", "318.25"}, rows[1])

	totals, err := f.GetRows(SheetMajorTotals)
	require.NoError(t, err)
	assert.Len(t, totals, 1+5)
}

func TestWriteXLSXPrompt(t *testing.T) {
	sel := pipeline.DefaultSelection()
	sel.Majors = nil
	r := fixtureReport(t, sel)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(r, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(SheetMajors, "A2")
	require.NoError(t, err)
	assert.Equal(t, pipeline.MajorPrompt, v)
}

func TestWriteJSON(t *testing.T) {
	r := fixtureReport(t, pipeline.DefaultSelection())
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(r, &buf))

	var decoded model.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 8, decoded.Rows)
	assert.Len(t, decoded.Payments, 3)
}

func TestWriteCSVSections(t *testing.T) {
	r := fixtureReport(t, pipeline.DefaultSelection())
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(r, &buf))

	out := buf.String()
	assert.Contains(t, out, "Averages,food,Food,318.25\n")
	assert.Contains(t, out, "MajorTotals,Computer Science,3901,2,1950.5\n")
	assert.Equal(t, len(model.MetricColumns), strings.Count(out, "Averages,"))
}
