package pipeline

import (
	"testing"

	"github.com/theirongolddev/spendview/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []model.Category
		wantErr bool
	}{
		{"single", []string{"food"}, []model.Category{model.Food}, false},
		{"comma separated", []string{"food, Housing"}, []model.Category{model.Food, model.Housing}, false},
		{"repeated flags", []string{"technology", "books_supplies"}, []model.Category{model.Technology, model.BooksSupplies}, false},
		{"dedupe", []string{"food", "food,food"}, []model.Category{model.Food}, false},
		{"blank", []string{"", " , "}, []model.Category{}, false},
		{"not allowed", []string{"tuition"}, nil, true},
		{"unknown", []string{"rent"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategories(tt.in, model.SpendingCategories)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterCategoriesKeepsOrder(t *testing.T) {
	rows := []model.GroupShare{
		{Group: "F", Category: model.Food},
		{Group: "M", Category: model.Housing},
		{Group: "M", Category: model.Food},
	}
	got := FilterCategories(rows, []model.Category{model.Food})
	assert.Equal(t, []model.GroupShare{rows[0], rows[2]}, got)
	assert.Empty(t, FilterCategories(rows, nil))
}

func TestBuildReportDefaults(t *testing.T) {
	students := loadFixture(t)
	sel := DefaultSelection()

	r, err := BuildReport(students, sel)
	require.NoError(t, err)

	assert.Equal(t, 8, r.Rows)
	assert.Len(t, r.Averages, len(model.MetricColumns))
	assert.Len(t, r.Gender, 3*len(model.SpendingCategories))
	assert.Len(t, r.Years, 4*2)
	assert.Len(t, r.Majors, 5*2)
	assert.Empty(t, r.MajorPrompt)
	assert.Len(t, r.MajorTotals, 5)

	for _, y := range r.Years {
		assert.Contains(t, []model.Category{model.Housing, model.Food}, y.Category)
	}
}

func TestBuildReportFilterIsSubset(t *testing.T) {
	students := loadFixture(t)

	full, err := BuildReport(students, DefaultSelection())
	require.NoError(t, err)

	sel := DefaultSelection()
	sel.Gender = []model.Category{model.Food, model.Technology}
	part, err := BuildReport(students, sel)
	require.NoError(t, err)

	require.Len(t, part.Gender, 3*2)
	for _, row := range part.Gender {
		assert.Contains(t, full.Gender, row)
	}
}

func TestBuildReportEmptyMajors(t *testing.T) {
	sel := DefaultSelection()
	sel.Majors = nil

	r, err := BuildReport(loadFixture(t), sel)
	require.NoError(t, err)
	assert.Equal(t, MajorPrompt, r.MajorPrompt)
	assert.Empty(t, r.Majors)
}

func TestBuildReportNoRows(t *testing.T) {
	_, err := BuildReport(nil, DefaultSelection())
	assert.ErrorIs(t, err, ErrNoRows)
}
