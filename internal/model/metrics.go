package model

// Metric is a single rounded column average shown as a metric card.
type Metric struct {
	Column Category `json:"column"`
	Label  string   `json:"label"`
	Value  float64  `json:"value"`
	Help   string   `json:"help"`
}

// Share holds the row count for one payment method.
type Share struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// GroupShare is one long-format row of a percentage-of-row-total table.
type GroupShare struct {
	Group      string   `json:"group"`
	Category   Category `json:"category"`
	Percentage float64  `json:"percentage"`
}

// GroupAverage is one long-format row of a grouped mean table.
type GroupAverage struct {
	Group    string   `json:"group"`
	Category Category `json:"category"`
	Average  float64  `json:"average"`
}

// StudentTotal is the summed spending of one student.
type StudentTotal struct {
	Index int     `json:"index"`
	Major string  `json:"major"`
	Total float64 `json:"total"`
}

// MajorTotal holds total spending and headcount for one major.
type MajorTotal struct {
	Major              string  `json:"major"`
	TotalSpending      float64 `json:"total_spending"`
	NumStudents        int     `json:"num_students"`
	NormalizedSpending float64 `json:"normalized_spending"`
}

// Selection holds the categories chosen for each filterable chart.
type Selection struct {
	Gender []Category `json:"gender"`
	Years  []Category `json:"years"`
	Majors []Category `json:"majors"`
}

// Report bundles every aggregate for one selection. It is rebuilt from the
// raw rows on every render.
type Report struct {
	Rows        int            `json:"rows"`
	Averages    []Metric       `json:"averages"`
	Payments    []Share        `json:"payments"`
	Gender      []GroupShare   `json:"gender"`
	Years       []GroupAverage `json:"years"`
	Majors      []GroupAverage `json:"majors"`
	MajorPrompt string         `json:"major_prompt,omitempty"`
	MajorTotals []MajorTotal   `json:"major_totals"`
	Selection   Selection      `json:"selection"`
}

// Cat returns the row's category.
func (g GroupShare) Cat() Category { return g.Category }

// Cat returns the row's category.
func (g GroupAverage) Cat() Category { return g.Category }

// Metric card columns as both dashboards lay them out. Monthly income is
// shown on its own below them.
var (
	LeftCards  = []Category{Food, Tuition, Housing, Technology}
	RightCards = []Category{Transportation, Entertainment, BooksSupplies, PersonalCare}
)

// PickMetrics returns the metrics for cols in that order, skipping columns
// that were not averaged.
func PickMetrics(all []Metric, cols []Category) []Metric {
	out := make([]Metric, 0, len(cols))
	for _, c := range cols {
		for _, m := range all {
			if m.Column == c {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
