// Package model defines the student spending record and the aggregate shapes
// derived from it.
package model

import "strings"

// Student is one row of the spending dataset.
type Student struct {
	Gender                 string
	Major                  string
	YearInSchool           string
	PreferredPaymentMethod string

	Food           float64
	Tuition        float64
	Housing        float64
	Transportation float64
	Technology     float64
	PersonalCare   float64
	Entertainment  float64
	BooksSupplies  float64
	HealthWellness float64
	Miscellaneous  float64
	MonthlyIncome  float64
}

// Category names a numeric column of the dataset.
type Category string

// Numeric columns.
const (
	Food           Category = "food"
	Tuition        Category = "tuition"
	Housing        Category = "housing"
	Transportation Category = "transportation"
	Technology     Category = "technology"
	PersonalCare   Category = "personal_care"
	Entertainment  Category = "entertainment"
	BooksSupplies  Category = "books_supplies"
	HealthWellness Category = "health_wellness"
	Miscellaneous  Category = "miscellaneous"
	MonthlyIncome  Category = "monthly_income"
)

// Categorical columns.
const (
	ColGender        = "gender"
	ColMajor         = "major"
	ColYearInSchool  = "year_in_school"
	ColPaymentMethod = "preferred_payment_method"
)

// SpendingCategories are the discretionary categories shown in the gender
// and major charts and summed into a student's total.
var SpendingCategories = []Category{
	Housing, Food, Transportation, BooksSupplies, Entertainment,
	PersonalCare, Technology, HealthWellness, Miscellaneous,
}

// YearCategories are selectable in the year-in-school chart.
var YearCategories = append([]Category{Tuition}, SpendingCategories...)

// MetricColumns are averaged into metric cards, in display order.
var MetricColumns = []Category{
	Food, Tuition, MonthlyIncome, Housing, Transportation,
	Technology, PersonalCare, Entertainment, BooksSupplies,
}

// NumericColumns lists every numeric column the loader requires.
var NumericColumns = []Category{
	Food, Tuition, Housing, Transportation, Technology, PersonalCare,
	Entertainment, BooksSupplies, HealthWellness, Miscellaneous, MonthlyIncome,
}

// CategoricalColumns lists every text column the loader requires.
var CategoricalColumns = []string{ColGender, ColMajor, ColYearInSchool, ColPaymentMethod}

// YearOrder ranks year_in_school values for chart ordering.
var YearOrder = map[string]int{
	"Freshman":  1,
	"Sophomore": 2,
	"Junior":    3,
	"Senior":    4,
}

// Label returns a display label: "books_supplies" -> "Books Supplies".
func (c Category) Label() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Value returns the student's amount for the given category.
func (s Student) Value(c Category) (float64, bool) {
	switch c {
	case Food:
		return s.Food, true
	case Tuition:
		return s.Tuition, true
	case Housing:
		return s.Housing, true
	case Transportation:
		return s.Transportation, true
	case Technology:
		return s.Technology, true
	case PersonalCare:
		return s.PersonalCare, true
	case Entertainment:
		return s.Entertainment, true
	case BooksSupplies:
		return s.BooksSupplies, true
	case HealthWellness:
		return s.HealthWellness, true
	case Miscellaneous:
		return s.Miscellaneous, true
	case MonthlyIncome:
		return s.MonthlyIncome, true
	}
	return 0, false
}

// Set assigns the student's amount for the given category.
func (s *Student) Set(c Category, v float64) bool {
	switch c {
	case Food:
		s.Food = v
	case Tuition:
		s.Tuition = v
	case Housing:
		s.Housing = v
	case Transportation:
		s.Transportation = v
	case Technology:
		s.Technology = v
	case PersonalCare:
		s.PersonalCare = v
	case Entertainment:
		s.Entertainment = v
	case BooksSupplies:
		s.BooksSupplies = v
	case HealthWellness:
		s.HealthWellness = v
	case Miscellaneous:
		s.Miscellaneous = v
	case MonthlyIncome:
		s.MonthlyIncome = v
	default:
		return false
	}
	return true
}

// Attr returns a categorical attribute by column name.
func (s Student) Attr(col string) (string, bool) {
	switch col {
	case ColGender:
		return s.Gender, true
	case ColMajor:
		return s.Major, true
	case ColYearInSchool:
		return s.YearInSchool, true
	case ColPaymentMethod:
		return s.PreferredPaymentMethod, true
	}
	return "", false
}

// SetAttr assigns a categorical attribute by column name.
func (s *Student) SetAttr(col, v string) bool {
	switch col {
	case ColGender:
		s.Gender = v
	case ColMajor:
		s.Major = v
	case ColYearInSchool:
		s.YearInSchool = v
	case ColPaymentMethod:
		s.PreferredPaymentMethod = v
	default:
		return false
	}
	return true
}
