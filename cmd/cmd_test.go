package cmd

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/config"
	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"
	"github.com/theirongolddev/spendview/internal/source"
	"github.com/theirongolddev/spendview/internal/store"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cfg = config.DefaultConfig()
	t.Cleanup(func() { flagCategories = nil })
	c := &cobra.Command{Use: "chart"}
	addCategoriesFlag(c)
	return c
}

func TestSelectionForUsesConfigDefaults(t *testing.T) {
	c := chartCmd(t)
	sel, err := selectionFor(c, "majors")
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultSelection(), sel)
}

func TestSelectionForOverridesOneChart(t *testing.T) {
	c := chartCmd(t)
	require.NoError(t, c.Flags().Set("categories", "food,housing"))

	sel, err := selectionFor(c, "gender")
	require.NoError(t, err)
	assert.Equal(t, []model.Category{model.Food, model.Housing}, sel.Gender)
	assert.Equal(t, pipeline.DefaultSelection().Majors, sel.Majors)
}

func TestSelectionForYearsAllowsTuition(t *testing.T) {
	c := chartCmd(t)
	require.NoError(t, c.Flags().Set("categories", "tuition"))

	sel, err := selectionFor(c, "years")
	require.NoError(t, err)
	assert.Equal(t, []model.Category{model.Tuition}, sel.Years)

	c = chartCmd(t)
	require.NoError(t, c.Flags().Set("categories", "tuition"))
	_, err = selectionFor(c, "majors")
	assert.ErrorIs(t, err, pipeline.ErrUnknownCategory)
}

func TestSelectionForEmptyClearsMajors(t *testing.T) {
	c := chartCmd(t)
	require.NoError(t, c.Flags().Set("categories", ""))

	sel, err := selectionFor(c, "majors")
	require.NoError(t, err)
	assert.Empty(t, sel.Majors)
}

func TestGroupedViewPivotsTable(t *testing.T) {
	cells := []cell{
		{model.Food, "Female", 40},
		{model.Food, "Male", 60},
		{model.Housing, "Female", 55.5},
	}
	v := groupedView(cli.FormatTable, groupedSpec{
		title:  "T",
		group:  "gender",
		value:  "percentage",
		cats:   []model.Category{model.Housing, model.Food},
		format: cli.FormatPercent,
		cells:  cells,
	})

	assert.Equal(t, []string{"Category", "Female", "Male"}, v.Headers)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, []string{"Housing", "55.5%", "-"}, v.Rows[0])
	assert.Equal(t, []string{"Food", "40.0%", "60.0%"}, v.Rows[1])
}

func TestGroupedViewCSVIsLongFormat(t *testing.T) {
	v := groupedView(cli.FormatCSV, groupedSpec{
		group: "major",
		value: "average",
		cells: []cell{{model.Technology, "Biology", 123.456}},
	})
	assert.Equal(t, []string{"category", "major", "average"}, v.Headers)
	assert.Equal(t, [][]string{{"technology", "Biology", "123.46"}}, v.Rows)
}

func TestGroupedViewEmptyShowsNotice(t *testing.T) {
	v := groupedView(cli.FormatTable, groupedSpec{emptyMsg: "No categories selected."})
	assert.Empty(t, v.Rows)
	assert.Contains(t, v.Footer, "No categories selected.")
}

func TestMajorTotalsView(t *testing.T) {
	v := majorTotalsView([]model.MajorTotal{
		{Major: "Computer Science", TotalSpending: 3901, NumStudents: 2, NormalizedSpending: 1950.5},
	})
	require.Len(t, v.Rows, 1)
	assert.Equal(t, []string{"Computer Science", "2", "$3,901.00", "$1,950.50"}, v.Rows[0])
	assert.Equal(t, []string{"Computer Science", "2", "3901.00", "1950.50"}, v.Raw[0])
}

func fixtureReport(t *testing.T) model.Report {
	t.Helper()
	res, err := pipeline.Load("../internal/source/testdata/student_spending.csv")
	require.NoError(t, err)
	r, err := pipeline.BuildReport(res.Dataset.Students, pipeline.DefaultSelection())
	require.NoError(t, err)
	return r
}

func TestRenderSummaryCards(t *testing.T) {
	out := renderSummaryCards(fixtureReport(t))

	assert.Contains(t, out, "8 students")
	assert.Contains(t, out, "318.25 $")
	assert.Contains(t, out, "Monthly Income")
	assert.Contains(t, out, "829.12 $")
	assert.Less(t, strings.Index(out, "Technology"), strings.Index(out, "Transportation"),
		"left column cards come first")
}

func TestPaymentBarsScaleToLargestShare(t *testing.T) {
	out := paymentBars([]model.Share{
		{Name: "Cash", Count: 1, Percent: 20},
		{Name: "Credit/Debit Card", Count: 4, Percent: 80},
	}, 12)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 3, strings.Count(lines[0], "█"))
	assert.Equal(t, 12, strings.Count(lines[1], "█"))
	assert.Contains(t, lines[1], "80.0% (4)")
}

func TestGroupedViewTrendColumn(t *testing.T) {
	v := groupedView(cli.FormatTable, groupedSpec{
		cats:   []model.Category{model.Food},
		format: cli.FormatFloat,
		trend:  true,
		cells: []cell{
			{model.Food, "Freshman", 0},
			{model.Food, "Senior", 100},
		},
	})
	assert.Equal(t, []string{"Category", "Freshman", "Senior", "Trend"}, v.Headers)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "▁█", v.Rows[0][3])
}

func TestClearCachedDropsOnlyThatFile(t *testing.T) {
	dir := t.TempDir()
	cache, err := store.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	for _, name := range []string{"a.csv", "b.csv"} {
		require.NoError(t, cache.SaveDataset(&source.Dataset{
			Path:     filepath.Join(dir, name),
			ModTime:  time.Unix(1_700_000_000, 0),
			Size:     10,
			Students: []model.Student{{Gender: "Female", Major: "Biology", Food: 1}},
		}))
	}

	left, err := clearCached(cache, filepath.Join(dir, "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, left)

	_, ok, err := cache.GetTrackedFile(filepath.Join(dir, "a.csv"))
	require.NoError(t, err)
	assert.False(t, ok)
}
