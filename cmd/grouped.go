package cmd

import (
	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/model"
)

// cell is one long-format value of a grouped chart.
type cell struct {
	Category model.Category
	Group    string
	Value    float64
}

type groupedSpec struct {
	title    string
	group    string // CSV header for the group column
	value    string // CSV header for the value column
	cats     []model.Category
	format   func(float64) string
	cells    []cell
	emptyMsg string
	trend    bool // append a sparkline across groups to each table row
}

// groupedView renders a grouped chart. Tables pivot to one row per category
// and one column per group; CSV stays long-format.
func groupedView(f cli.Format, s groupedSpec) cli.View {
	if f == cli.FormatCSV {
		v := cli.View{Headers: []string{"category", s.group, s.value}}
		for _, c := range s.cells {
			v.Rows = append(v.Rows, []string{string(c.Category), c.Group, cli.FormatFloat(c.Value)})
		}
		return v
	}

	var groups []string
	seen := make(map[string]bool)
	byCat := make(map[model.Category]map[string]float64)
	for _, c := range s.cells {
		if !seen[c.Group] {
			seen[c.Group] = true
			groups = append(groups, c.Group)
		}
		if byCat[c.Category] == nil {
			byCat[c.Category] = make(map[string]float64)
		}
		byCat[c.Category][c.Group] = c.Value
	}

	v := cli.View{Title: s.title, Headers: append([]string{"Category"}, groups...)}
	if s.trend {
		v.Headers = append(v.Headers, "Trend")
	}
	for _, cat := range s.cats {
		vals, ok := byCat[cat]
		if !ok {
			continue
		}
		row := []string{cat.Label()}
		series := make([]float64, len(groups))
		for i, g := range groups {
			if x, ok := vals[g]; ok {
				row = append(row, s.format(x))
				series[i] = x
			} else {
				row = append(row, "-")
			}
		}
		if s.trend {
			row = append(row, cli.RenderSparkline(series))
		}
		v.Rows = append(v.Rows, row)
	}
	if len(v.Rows) == 0 {
		v.Headers = []string{"Category"}
		v.Footer = cli.RenderPrompt(s.emptyMsg)
	}
	return v
}
