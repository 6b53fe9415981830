package web

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, s *Service, target string) (int, string) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest("GET", target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthz(t *testing.T) {
	s := New(Config{DataFile: "unused.csv"}, nil)
	code, body := get(t, s, "/healthz")
	assert.Equal(t, 200, code)
	assert.Equal(t, "ok\n", body)
}

func TestStatus(t *testing.T) {
	s := newLoadedService(t)
	code, body := get(t, s, "/v1/status")
	require.Equal(t, 200, code)

	var st Status
	require.NoError(t, json.Unmarshal([]byte(body), &st))
	assert.Equal(t, 8, st.Dataset.Rows)
	assert.Equal(t, 1, st.EventCount)
}

func TestSummaryAPI(t *testing.T) {
	s := newLoadedService(t)
	code, body := get(t, s, "/api/v1/summary")
	require.Equal(t, 200, code)

	var out struct {
		Rows     int            `json:"rows"`
		Averages []model.Metric `json:"averages"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, 8, out.Rows)
	require.NotEmpty(t, out.Averages)
	assert.Equal(t, model.Food, out.Averages[0].Column)
	assert.Equal(t, 318.25, out.Averages[0].Value)
}

func TestPaymentsAPI(t *testing.T) {
	s := newLoadedService(t)
	code, body := get(t, s, "/api/v1/payments")
	require.Equal(t, 200, code)

	var shares []model.Share
	require.NoError(t, json.Unmarshal([]byte(body), &shares))
	require.Len(t, shares, 3)
	assert.Equal(t, "Credit/Debit Card", shares[0].Name)
}

func TestGenderAPIFiltersCategories(t *testing.T) {
	s := newLoadedService(t)
	code, body := get(t, s, "/api/v1/gender?categories=food,technology")
	require.Equal(t, 200, code)

	var rows []model.GroupShare
	require.NoError(t, json.Unmarshal([]byte(body), &rows))
	require.Len(t, rows, 3*2)
	for _, r := range rows {
		assert.Contains(t, []model.Category{model.Food, model.Technology}, r.Category)
	}
}

func TestGenderAPIDefaultsToAllCategories(t *testing.T) {
	s := newLoadedService(t)
	_, body := get(t, s, "/api/v1/gender")

	var rows []model.GroupShare
	require.NoError(t, json.Unmarshal([]byte(body), &rows))
	assert.Len(t, rows, 3*len(model.SpendingCategories))
}

func TestYearsAPIRepeatedParam(t *testing.T) {
	s := newLoadedService(t)
	code, body := get(t, s, "/api/v1/years?categories=tuition&categories=food")
	require.Equal(t, 200, code)

	var rows []model.GroupAverage
	require.NoError(t, json.Unmarshal([]byte(body), &rows))
	require.Len(t, rows, 4*2)
	assert.Equal(t, "Freshman", rows[0].Group)
	assert.Equal(t, "Senior", rows[len(rows)-1].Group)
}

func TestMajorsAPIPrompt(t *testing.T) {
	s := newLoadedService(t)
	code, body := get(t, s, "/api/v1/majors?categories=")
	require.Equal(t, 200, code)

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, pipeline.MajorPrompt, out["prompt"])
}

func TestMajorsAPIDefaults(t *testing.T) {
	s := newLoadedService(t)
	_, body := get(t, s, "/api/v1/majors")

	var rows []model.GroupAverage
	require.NoError(t, json.Unmarshal([]byte(body), &rows))
	assert.Len(t, rows, 5*2)
}

func TestMajorTotalsAPI(t *testing.T) {
	s := newLoadedService(t)
	_, body := get(t, s, "/api/v1/majors/totals")

	var totals []model.MajorTotal
	require.NoError(t, json.Unmarshal([]byte(body), &totals))
	require.Len(t, totals, 5)
	assert.Equal(t, 1950.5, totals[1].NormalizedSpending)
}

func TestUnknownCategoryIsBadRequest(t *testing.T) {
	s := newLoadedService(t)
	code, body := get(t, s, "/api/v1/gender?categories=rent")
	assert.Equal(t, 400, code)
	assert.Contains(t, body, "unknown category")
}

func TestAPIBeforeLoadIsUnavailable(t *testing.T) {
	s := New(Config{DataFile: filepath.Join(t.TempDir(), "missing.csv")}, nil)
	code, _ := get(t, s, "/api/v1/summary")
	assert.Equal(t, 503, code)
}

func TestPageDefaults(t *testing.T) {
	s := newLoadedService(t)
	code, body := get(t, s, "/")
	require.Equal(t, 200, code)

	assert.Contains(t, body, "Student Spending Analysis")
	assert.Contains(t, body, "318.25 $")
	assert.Contains(t, body, "Average spending on Food per month")
	assert.Contains(t, body, "Percentage of Dollars Spent by Gender in Each Category")
	assert.Contains(t, body, "Average Spending (USD)")
	assert.NotContains(t, body, pipeline.MajorPrompt)
	assert.Equal(t, len(model.SpendingCategories), strings.Count(body, `name="gender" value=`))
	assert.Equal(t, len(model.SpendingCategories), strings.Count(body, "\" checked>"))
}

func TestPageEmptyMajorsShowsPrompt(t *testing.T) {
	s := newLoadedService(t)
	code, body := get(t, s, "/?submitted=1&gender=food&years=housing")
	require.Equal(t, 200, code)

	assert.Contains(t, body, pipeline.MajorPrompt)
	assert.NotContains(t, body, "Average Spending (USD)")
	assert.Contains(t, body, `value="food" checked`)
	assert.NotContains(t, body, `value="housing" checked`)
}

func TestPageUnknownCategory(t *testing.T) {
	s := newLoadedService(t)
	code, _ := get(t, s, "/?submitted=1&gender=rent")
	assert.Equal(t, 400, code)
}

func TestPageShowsWholeAveragesWithOneDecimal(t *testing.T) {
	view := pageView{
		Title:       "Student Spending Analysis",
		LeftMetrics: []model.Metric{{Column: model.Food, Label: "Food", Value: 400}},
		Income:      &model.Metric{Column: model.MonthlyIncome, Label: "Monthly Income", Value: 829.12},
	}
	var buf strings.Builder
	require.NoError(t, pageTemplate.Execute(&buf, view))

	assert.Contains(t, buf.String(), "400.0 $")
	assert.Contains(t, buf.String(), "829.12 $")
}
