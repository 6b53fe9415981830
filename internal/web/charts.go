package web

import (
	"html/template"

	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
)

// palette is the diverging red-blue sequence used by every chart.
var palette = opts.Colors{
	"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7", "#f7f7f7",
	"#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061",
}

const textColor = "#787474"

func boolPtr(b bool) *bool { return &b }

func baseOpts(id, title, height string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:         id,
			Height:          height,
			Width:           "100%",
			BackgroundColor: "rgba(0,0,0,0)",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      title,
			TitleStyle: &opts.TextStyle{Color: textColor},
		}),
		charts.WithColorsOpts(palette),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
		charts.WithLegendOpts(opts.Legend{
			Show:      boolPtr(true),
			Top:       "bottom",
			TextStyle: &opts.TextStyle{Color: textColor},
		}),
	}
}

func paymentsChart(shares []model.Share) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(baseOpts("payments", "Preferred Payment Methods", "380px")...)

	items := make([]opts.PieData, 0, len(shares))
	for _, s := range shares {
		items = append(items, opts.PieData{Name: s.Name, Value: s.Count})
	}
	pie.AddSeries("Students", items, charts.WithLabelOpts(opts.Label{
		Show:      boolPtr(true),
		Formatter: "{b}: {d}%",
	}))
	return pie
}

// genderChart groups bars by category with one series per gender.
func genderChart(rows []model.GroupShare, selected []model.Category) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(baseOpts("gender", "", "420px"),
		charts.WithYAxisOpts(opts.YAxis{Name: "Percentage of Total Spending (%)"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "category"}),
	)...)

	cats, groups, values := pivot(rows, selected, func(r model.GroupShare) (string, model.Category, float64) {
		return r.Group, r.Category, r.Percentage
	})
	x := make([]string, len(cats))
	for i, c := range cats {
		x[i] = string(c)
	}
	bar.SetXAxis(x)
	for gi, g := range groups {
		data := make([]opts.BarData, len(cats))
		for ci := range cats {
			data[ci] = opts.BarData{Value: pipeline.Round2(values[gi][ci])}
		}
		bar.AddSeries(g, data)
	}
	return bar
}

// yearsChart draws one smooth line per category across years in school.
func yearsChart(rows []model.GroupAverage, selected []model.Category) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(append(baseOpts("years", "", "420px"),
		charts.WithYAxisOpts(opts.YAxis{Name: "Average Spending"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Year in School"}),
	)...)

	cats, years, values := pivot(rows, selected, func(r model.GroupAverage) (string, model.Category, float64) {
		return r.Group, r.Category, r.Average
	})
	line.SetXAxis(years)
	for ci, c := range cats {
		data := make([]opts.LineData, len(years))
		for yi := range years {
			data[yi] = opts.LineData{Value: pipeline.Round2(values[yi][ci])}
		}
		line.AddSeries(string(c), data, charts.WithLineChartOpts(opts.LineChart{Smooth: boolPtr(true)}))
	}
	return line
}

// majorsChart groups bars by major with one series per category.
func majorsChart(rows []model.GroupAverage, selected []model.Category) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(baseOpts("majors", "Average Spending by Major", "420px"),
		charts.WithYAxisOpts(opts.YAxis{Name: "Average Spending (USD)"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Major", AxisLabel: &opts.AxisLabel{Color: textColor}}),
	)...)

	cats, majors, values := pivot(rows, selected, func(r model.GroupAverage) (string, model.Category, float64) {
		return r.Group, r.Category, r.Average
	})
	bar.SetXAxis(majors)
	for ci, c := range cats {
		data := make([]opts.BarData, len(majors))
		for mi := range majors {
			data[mi] = opts.BarData{Value: pipeline.Round2(values[mi][ci])}
		}
		bar.AddSeries(string(c), data)
	}
	return bar
}

// pivot turns long rows back into a group x category grid. Groups keep their
// first-seen order and categories follow the selection order.
func pivot[T any](rows []T, selected []model.Category, cell func(T) (string, model.Category, float64)) ([]model.Category, []string, [][]float64) {
	catIdx := make(map[model.Category]int, len(selected))
	for i, c := range selected {
		catIdx[c] = i
	}

	var groups []string
	groupIdx := make(map[string]int)
	for _, r := range rows {
		g, _, _ := cell(r)
		if _, ok := groupIdx[g]; !ok {
			groupIdx[g] = len(groups)
			groups = append(groups, g)
		}
	}

	values := make([][]float64, len(groups))
	for i := range values {
		values[i] = make([]float64, len(selected))
	}
	for _, r := range rows {
		g, c, v := cell(r)
		if ci, ok := catIdx[c]; ok {
			values[groupIdx[g]][ci] = v
		}
	}
	return selected, groups, values
}

type snippetRenderer interface {
	RenderSnippet() render.ChartSnippet
}

func renderSnippet(c snippetRenderer) template.HTML {
	s := c.RenderSnippet()
	return template.HTML(s.Element + "\n" + s.Script)
}
