package tui

import "github.com/theirongolddev/spendview/internal/model"

// categoryList returns the selectable categories of a chart tab and a pointer
// to its current selection. ok is false for tabs without a checklist.
func (a *App) categoryList(tab int) (all []model.Category, sel *[]model.Category, ok bool) {
	switch tab {
	case tabGender:
		return model.SpendingCategories, &a.sel.Gender, true
	case tabYears:
		return model.YearCategories, &a.sel.Years, true
	case tabMajors:
		return model.SpendingCategories, &a.sel.Majors, true
	}
	return nil, nil, false
}

func (a *App) moveCursor(delta int) {
	all, _, ok := a.categoryList(a.activeTab)
	if !ok {
		return
	}
	c := a.cursors[a.activeTab] + delta
	a.cursors[a.activeTab] = min(max(c, 0), len(all)-1)
}

func (a *App) toggleAtCursor() {
	all, sel, ok := a.categoryList(a.activeTab)
	if !ok {
		return
	}
	*sel = toggleCategory(all, *sel, all[a.cursors[a.activeTab]])
	a.recompute()
}

func (a *App) setAll(on bool) {
	all, sel, ok := a.categoryList(a.activeTab)
	if !ok {
		return
	}
	if on {
		*sel = append([]model.Category(nil), all...)
	} else {
		*sel = []model.Category{}
	}
	a.recompute()
}

// toggleCategory flips c in sel. The result follows the order of all so
// charts keep a stable series order however the user clicks.
func toggleCategory(all, sel []model.Category, c model.Category) []model.Category {
	on := make(map[model.Category]bool, len(sel)+1)
	for _, s := range sel {
		on[s] = true
	}
	on[c] = !on[c]

	out := make([]model.Category, 0, len(all))
	for _, x := range all {
		if on[x] {
			out = append(out, x)
		}
	}
	return out
}

func checkedFlags(all, sel []model.Category) []bool {
	on := make(map[model.Category]bool, len(sel))
	for _, s := range sel {
		on[s] = true
	}
	flags := make([]bool, len(all))
	for i, c := range all {
		flags[i] = on[c]
	}
	return flags
}

func categoryLabels(cats []model.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Label()
	}
	return out
}
