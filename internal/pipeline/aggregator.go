// Package pipeline loads the spending dataset and computes every aggregate the
// dashboards display.
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/theirongolddev/spendview/internal/model"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoRows is returned when an aggregate is requested over zero rows.
	ErrNoRows = errors.New("no rows to aggregate")
	// ErrNoCategories is returned when a chart has no category selected.
	ErrNoCategories = errors.New("no spending category selected")
	// ErrZeroTotal is returned when a group's row total is zero and cannot be
	// normalized to percentages.
	ErrZeroTotal = errors.New("group total is zero")
	// ErrUnknownCategory is returned for a column name outside the schema.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownKey is returned for a group-by column outside the schema.
	ErrUnknownKey = errors.New("unknown group column")
)

// MajorPrompt is displayed instead of the by-major chart when nothing is selected.
const MajorPrompt = "Please select at least one spending category to display."

// Table is a wide group x category table, one row per group.
type Table struct {
	Key        string
	Groups     []string
	Categories []model.Category
	Values     [][]float64 // [group][category]
}

// Cell is one long-format row produced by Melt.
type Cell struct {
	Group    string
	Category model.Category
	Value    float64
}

// Round2 rounds the exact binary value of v to two decimals, ties to even.
// 829.125 becomes 829.12 and 2.675 (stored just below) becomes 2.67.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', 64, 64))
	if err != nil {
		return decimal.NewFromFloat(v).RoundBank(2).InexactFloat64()
	}
	return d.RoundBank(2).InexactFloat64()
}

// Mean returns the arithmetic mean of one numeric column.
func Mean(students []model.Student, c model.Category) (float64, error) {
	vals, err := column(students, c)
	if err != nil {
		return 0, err
	}
	return stats.Mean(vals)
}

func column(students []model.Student, c model.Category) (stats.Float64Data, error) {
	if len(students) == 0 {
		return nil, ErrNoRows
	}
	vals := make(stats.Float64Data, len(students))
	for i, s := range students {
		v, ok := s.Value(c)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, c)
		}
		vals[i] = v
	}
	return vals, nil
}

// Averages returns one metric per column, each mean rounded to 2 decimals.
func Averages(students []model.Student, cols []model.Category) ([]model.Metric, error) {
	metrics := make([]model.Metric, 0, len(cols))
	for _, c := range cols {
		m, err := Mean(students, c)
		if err != nil {
			return nil, fmt.Errorf("average %s: %w", c, err)
		}
		metrics = append(metrics, model.Metric{
			Column: c,
			Label:  c.Label(),
			Value:  Round2(m),
			Help:   fmt.Sprintf("Average spending on %s per month", c.Label()),
		})
	}
	return metrics, nil
}

// PaymentShares counts rows per preferred payment method, most common first.
func PaymentShares(students []model.Student) ([]model.Share, error) {
	if len(students) == 0 {
		return nil, ErrNoRows
	}

	counts := make(map[string]int)
	for _, s := range students {
		counts[s.PreferredPaymentMethod]++
	}

	shares := make([]model.Share, 0, len(counts))
	for name, n := range counts {
		shares = append(shares, model.Share{
			Name:    name,
			Count:   n,
			Percent: float64(n) / float64(len(students)) * 100,
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Name < shares[j].Name
	})
	return shares, nil
}

// GroupSums sums each category per distinct value of key.
func GroupSums(students []model.Student, key string, cats []model.Category) (Table, error) {
	return groupBy(students, key, cats, stats.Sum)
}

// GroupMeans averages each category per distinct value of key.
func GroupMeans(students []model.Student, key string, cats []model.Category) (Table, error) {
	return groupBy(students, key, cats, stats.Mean)
}

func groupBy(students []model.Student, key string, cats []model.Category, reduce func(stats.Float64Data) (float64, error)) (Table, error) {
	if len(students) == 0 {
		return Table{}, ErrNoRows
	}
	if len(cats) == 0 {
		return Table{}, ErrNoCategories
	}

	members := make(map[string][]model.Student)
	for _, s := range students {
		g, ok := s.Attr(key)
		if !ok {
			return Table{}, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		members[g] = append(members[g], s)
	}

	groups := make([]string, 0, len(members))
	for g := range members {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	t := Table{
		Key:        key,
		Groups:     groups,
		Categories: append([]model.Category(nil), cats...),
		Values:     make([][]float64, len(groups)),
	}
	for gi, g := range groups {
		row := make([]float64, len(cats))
		for ci, c := range cats {
			vals, err := column(members[g], c)
			if err != nil {
				return Table{}, err
			}
			v, err := reduce(vals)
			if err != nil {
				return Table{}, fmt.Errorf("%s=%s %s: %w", key, g, c, err)
			}
			row[ci] = v
		}
		t.Values[gi] = row
	}
	return t, nil
}

// PercentOfRow divides every cell by its row total and scales to 100.
func PercentOfRow(t Table) (Table, error) {
	out := t
	out.Values = make([][]float64, len(t.Values))
	for gi, row := range t.Values {
		var total float64
		for _, v := range row {
			total += v
		}
		if total == 0 {
			return Table{}, fmt.Errorf("%w: %s=%s", ErrZeroTotal, t.Key, t.Groups[gi])
		}
		pct := make([]float64, len(row))
		for ci, v := range row {
			pct[ci] = v / total * 100
		}
		out.Values[gi] = pct
	}
	return out, nil
}

// Melt reshapes a wide table into long rows, category-major like a
// dataframe melt over the category columns.
func Melt(t Table) []Cell {
	cells := make([]Cell, 0, len(t.Groups)*len(t.Categories))
	for ci, c := range t.Categories {
		for gi, g := range t.Groups {
			cells = append(cells, Cell{Group: g, Category: c, Value: t.Values[gi][ci]})
		}
	}
	return cells
}

// GenderShares returns each gender's spending split across cats as
// percentages of that gender's total.
func GenderShares(students []model.Student, cats []model.Category) ([]model.GroupShare, error) {
	sums, err := GroupSums(students, model.ColGender, cats)
	if err != nil {
		return nil, err
	}
	pct, err := PercentOfRow(sums)
	if err != nil {
		return nil, err
	}

	cells := Melt(pct)
	rows := make([]model.GroupShare, len(cells))
	for i, c := range cells {
		rows[i] = model.GroupShare{Group: c.Group, Category: c.Category, Percentage: c.Value}
	}
	return rows, nil
}

// YearAverages returns mean spending per year in school, ordered Freshman
// through Senior. Years outside YearOrder sort last by name.
func YearAverages(students []model.Student, cats []model.Category) ([]model.GroupAverage, error) {
	means, err := GroupMeans(students, model.ColYearInSchool, cats)
	if err != nil {
		return nil, err
	}

	rows := averagesFromCells(Melt(means))
	catIdx := categoryIndex(cats)
	sort.SliceStable(rows, func(i, j int) bool {
		oi, oj := yearRank(rows[i].Group), yearRank(rows[j].Group)
		if oi != oj {
			return oi < oj
		}
		if rows[i].Group != rows[j].Group {
			return rows[i].Group < rows[j].Group
		}
		return catIdx[rows[i].Category] < catIdx[rows[j].Category]
	})
	return rows, nil
}

// MajorAverages returns mean spending per major for the selected categories.
// An empty selection returns ErrNoCategories.
func MajorAverages(students []model.Student, selected []model.Category) ([]model.GroupAverage, error) {
	if len(selected) == 0 {
		return nil, ErrNoCategories
	}
	means, err := GroupMeans(students, model.ColMajor, selected)
	if err != nil {
		return nil, err
	}
	return averagesFromCells(Melt(means)), nil
}

// StudentTotals sums the spending categories of every student.
func StudentTotals(students []model.Student) []model.StudentTotal {
	totals := make([]model.StudentTotal, len(students))
	for i, s := range students {
		var sum float64
		for _, c := range model.SpendingCategories {
			v, _ := s.Value(c)
			sum += v
		}
		totals[i] = model.StudentTotal{Index: i, Major: s.Major, Total: sum}
	}
	return totals
}

// MajorTotals aggregates per-student totals and headcount by major.
func MajorTotals(students []model.Student) ([]model.MajorTotal, error) {
	if len(students) == 0 {
		return nil, ErrNoRows
	}

	byMajor := make(map[string]*model.MajorTotal)
	for _, st := range StudentTotals(students) {
		mt, ok := byMajor[st.Major]
		if !ok {
			mt = &model.MajorTotal{Major: st.Major}
			byMajor[st.Major] = mt
		}
		mt.TotalSpending += st.Total
		mt.NumStudents++
	}

	out := make([]model.MajorTotal, 0, len(byMajor))
	for _, mt := range byMajor {
		mt.NormalizedSpending = mt.TotalSpending / float64(mt.NumStudents)
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Major < out[j].Major
	})
	return out, nil
}

func averagesFromCells(cells []Cell) []model.GroupAverage {
	rows := make([]model.GroupAverage, len(cells))
	for i, c := range cells {
		rows[i] = model.GroupAverage{Group: c.Group, Category: c.Category, Average: c.Value}
	}
	return rows
}

func yearRank(year string) int {
	if r, ok := model.YearOrder[year]; ok {
		return r
	}
	return len(model.YearOrder) + 1
}

func categoryIndex(cats []model.Category) map[model.Category]int {
	idx := make(map[model.Category]int, len(cats))
	for i, c := range cats {
		idx[c] = i
	}
	return idx
}
