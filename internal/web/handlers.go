package web

import (
	"bytes"
	"html/template"

	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"

	"github.com/gofiber/fiber/v2"
)

// queryCategories returns the categories named by every value of key, and
// whether the key was present at all.
func queryCategories(c *fiber.Ctx, key string, allowed []model.Category) ([]model.Category, bool, error) {
	args := c.Context().QueryArgs()
	if !args.Has(key) {
		return nil, false, nil
	}
	raw := args.PeekMulti(key)
	names := make([]string, len(raw))
	for i, v := range raw {
		names[i] = string(v)
	}
	cats, err := pipeline.ParseCategories(names, allowed)
	return cats, true, err
}

// pageSelection reads the dashboard form. Defaults apply only when the form
// was never submitted, so unchecking everything yields an empty selection.
func (s *Service) pageSelection(c *fiber.Ctx) (model.Selection, error) {
	sel := s.cfg.Defaults
	if c.Query("submitted") != "1" {
		return sel, nil
	}

	var err error
	if sel.Gender, _, err = queryCategories(c, "gender", model.SpendingCategories); err != nil {
		return sel, err
	}
	if sel.Years, _, err = queryCategories(c, "years", model.YearCategories); err != nil {
		return sel, err
	}
	if sel.Majors, _, err = queryCategories(c, "majors", model.SpendingCategories); err != nil {
		return sel, err
	}
	return sel, nil
}

func (s *Service) handlePage(c *fiber.Ctx) error {
	students, err := s.data()
	if err != nil {
		return err
	}
	sel, err := s.pageSelection(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	report, err := pipeline.BuildReport(students, sel)
	if err != nil {
		return err
	}

	view := newPageView(report)
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (s *Service) handleSummary(c *fiber.Ctx) error {
	students, err := s.data()
	if err != nil {
		return err
	}
	metrics, err := pipeline.Averages(students, model.MetricColumns)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"rows":     len(students),
		"averages": metrics,
	})
}

func (s *Service) handlePayments(c *fiber.Ctx) error {
	students, err := s.data()
	if err != nil {
		return err
	}
	shares, err := pipeline.PaymentShares(students)
	if err != nil {
		return err
	}
	return c.JSON(shares)
}

func (s *Service) handleGender(c *fiber.Ctx) error {
	students, err := s.data()
	if err != nil {
		return err
	}
	cats, ok, err := queryCategories(c, "categories", model.SpendingCategories)
	if err != nil {
		return err
	}
	if !ok {
		cats = s.cfg.Defaults.Gender
	}
	rows, err := pipeline.GenderShares(students, model.SpendingCategories)
	if err != nil {
		return err
	}
	return c.JSON(pipeline.FilterCategories(rows, cats))
}

func (s *Service) handleYears(c *fiber.Ctx) error {
	students, err := s.data()
	if err != nil {
		return err
	}
	cats, ok, err := queryCategories(c, "categories", model.YearCategories)
	if err != nil {
		return err
	}
	if !ok {
		cats = s.cfg.Defaults.Years
	}
	rows, err := pipeline.YearAverages(students, model.YearCategories)
	if err != nil {
		return err
	}
	return c.JSON(pipeline.FilterCategories(rows, cats))
}

func (s *Service) handleMajors(c *fiber.Ctx) error {
	students, err := s.data()
	if err != nil {
		return err
	}
	cats, ok, err := queryCategories(c, "categories", model.SpendingCategories)
	if err != nil {
		return err
	}
	if !ok {
		cats = s.cfg.Defaults.Majors
	}
	if len(cats) == 0 {
		return c.JSON(fiber.Map{"prompt": pipeline.MajorPrompt})
	}
	rows, err := pipeline.MajorAverages(students, cats)
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

func (s *Service) handleMajorTotals(c *fiber.Ctx) error {
	students, err := s.data()
	if err != nil {
		return err
	}
	totals, err := pipeline.MajorTotals(students)
	if err != nil {
		return err
	}
	return c.JSON(totals)
}

// option is one checkbox or select entry on the dashboard form.
type option struct {
	Value    string
	Label    string
	Selected bool
}

func options(all, selected []model.Category) []option {
	on := make(map[model.Category]bool, len(selected))
	for _, c := range selected {
		on[c] = true
	}
	out := make([]option, len(all))
	for i, c := range all {
		out[i] = option{Value: string(c), Label: string(c), Selected: on[c]}
	}
	return out
}

type pageView struct {
	Title        string
	LeftMetrics  []model.Metric
	RightMetrics []model.Metric
	Income       *model.Metric
	Rows         int

	PaymentsChart template.HTML
	GenderChart   template.HTML
	YearsChart    template.HTML
	MajorsChart   template.HTML
	MajorPrompt   string

	GenderOptions []option
	YearOptions   []option
	MajorOptions  []option
}

func newPageView(r model.Report) pageView {
	v := pageView{
		Title:         "Student Spending Analysis",
		LeftMetrics:   model.PickMetrics(r.Averages, model.LeftCards),
		RightMetrics:  model.PickMetrics(r.Averages, model.RightCards),
		Rows:          r.Rows,
		PaymentsChart: renderSnippet(paymentsChart(r.Payments)),
		GenderChart:   renderSnippet(genderChart(r.Gender, r.Selection.Gender)),
		YearsChart:    renderSnippet(yearsChart(r.Years, r.Selection.Years)),
		MajorPrompt:   r.MajorPrompt,
		GenderOptions: options(model.SpendingCategories, r.Selection.Gender),
		YearOptions:   options(model.YearCategories, r.Selection.Years),
		MajorOptions:  options(model.SpendingCategories, r.Selection.Majors),
	}
	if inc := model.PickMetrics(r.Averages, []model.Category{model.MonthlyIncome}); len(inc) == 1 {
		v.Income = &inc[0]
	}
	if r.MajorPrompt == "" {
		v.MajorsChart = renderSnippet(majorsChart(r.Majors, r.Selection.Majors))
	}
	return v
}
