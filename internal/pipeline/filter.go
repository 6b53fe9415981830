package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/spendview/internal/model"
)

// FilterCategories keeps only rows whose category is selected, preserving order.
func FilterCategories[T interface{ Cat() model.Category }](rows []T, selected []model.Category) []T {
	keep := make(map[model.Category]struct{}, len(selected))
	for _, c := range selected {
		keep[c] = struct{}{}
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if _, ok := keep[r.Cat()]; ok {
			out = append(out, r)
		}
	}
	return out
}

// ParseCategories validates user-supplied category names against allowed.
// Entries may be comma separated; blanks and duplicates are skipped and the
// caller's order is kept.
func ParseCategories(names []string, allowed []model.Category) ([]model.Category, error) {
	ok := make(map[model.Category]struct{}, len(allowed))
	for _, c := range allowed {
		ok[c] = struct{}{}
	}

	seen := make(map[model.Category]struct{})
	out := make([]model.Category, 0, len(names))
	for _, raw := range names {
		for _, part := range strings.Split(raw, ",") {
			name := strings.ToLower(strings.TrimSpace(part))
			if name == "" {
				continue
			}
			c := model.Category(name)
			if _, valid := ok[c]; !valid {
				return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out, nil
}

// DefaultSelection mirrors the dashboard's initial state: every category in
// the gender chart, housing and food by year, technology and books by major.
func DefaultSelection() model.Selection {
	return model.Selection{
		Gender: append([]model.Category(nil), model.SpendingCategories...),
		Years:  []model.Category{model.Housing, model.Food},
		Majors: []model.Category{model.Technology, model.BooksSupplies},
	}
}

// BuildReport recomputes every aggregate for one selection.
func BuildReport(students []model.Student, sel model.Selection) (model.Report, error) {
	r := model.Report{Rows: len(students), Selection: sel}

	var err error
	if r.Averages, err = Averages(students, model.MetricColumns); err != nil {
		return r, err
	}
	if r.Payments, err = PaymentShares(students); err != nil {
		return r, fmt.Errorf("payment methods: %w", err)
	}

	gender, err := GenderShares(students, model.SpendingCategories)
	if err != nil {
		return r, fmt.Errorf("gender shares: %w", err)
	}
	r.Gender = FilterCategories(gender, sel.Gender)

	years, err := YearAverages(students, model.YearCategories)
	if err != nil {
		return r, fmt.Errorf("year averages: %w", err)
	}
	r.Years = FilterCategories(years, sel.Years)

	r.Majors, err = MajorAverages(students, sel.Majors)
	switch {
	case errors.Is(err, ErrNoCategories):
		r.MajorPrompt = MajorPrompt
	case err != nil:
		return r, fmt.Errorf("major averages: %w", err)
	}

	if r.MajorTotals, err = MajorTotals(students); err != nil {
		return r, fmt.Errorf("major totals: %w", err)
	}

	return r, nil
}
