package steps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/regimen/internal/draft"
	"github.com/kingrea/regimen/internal/gate"
)

type allocationRow struct {
	key   string
	label string
}

// AllocationView spends a weighted budget across goals or disciplines.
type AllocationView struct {
	BaseView
	category draft.Category
	rows     []allocationRow
	cursor   int
}

// NewGoals creates the goal allocation view
func NewGoals() *AllocationView {
	return &AllocationView{BaseView: NewBaseView(gate.StepGoals), category: draft.CategoryGoals}
}

// NewDisciplines creates the discipline allocation view
func NewDisciplines() *AllocationView {
	return &AllocationView{BaseView: NewBaseView(gate.StepDisciplines), category: draft.CategoryDisciplines}
}

// Init loads the rows for the view's category
func (v *AllocationView) Init(ctx *Context) tea.Cmd {
	c := v.bind(ctx)
	v.rows = nil
	if v.category == draft.CategoryGoals {
		for _, g := range draft.Goals {
			v.rows = append(v.rows, allocationRow{key: string(g), label: g.Label()})
		}
	} else {
		for _, d := range c.Catalog.Disciplines {
			v.rows = append(v.rows, allocationRow{key: d.ID, label: d.Name})
		}
	}
	v.cursor = 0
	return nil
}

// Update handles row movement and weight changes
func (v *AllocationView) Update(msg tea.Msg) (View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(v.rows) == 0 {
		return v, nil
	}
	switch {
	case key.Matches(keyMsg, Keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(keyMsg, Keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
	case key.Matches(keyMsg, Keys.Increase):
		v.set(v.weight(v.Engine().Snapshot(), v.rows[v.cursor]) + 1)
	case key.Matches(keyMsg, Keys.Decrease):
		if current := v.weight(v.Engine().Snapshot(), v.rows[v.cursor]); current > 0 {
			v.set(current - 1)
		}
	case key.Matches(keyMsg, Keys.Clear):
		v.set(0)
	}
	return v, nil
}

func (v *AllocationView) set(weight int) {
	row := v.rows[v.cursor]
	e := v.Engine()
	var accepted bool
	if v.category == draft.CategoryGoals {
		accepted = e.SetGoalWeight(draft.Goal(row.key), weight)
	} else {
		accepted = e.SetDisciplineWeight(row.key, weight)
	}
	if accepted {
		v.SetNotice("")
		return
	}
	d := e.Snapshot()
	if v.category == draft.CategoryGoals && d.GoalWeight(draft.Goal(row.key)) == 0 && d.Active(draft.CategoryGoals) >= draft.MaxActiveGoals {
		v.SetNotice(fmt.Sprintf("Only %d goals can carry weight.", draft.MaxActiveGoals))
		return
	}
	v.SetNotice(fmt.Sprintf("No points left: %d of %d allocated.", d.Total(v.category), draft.BudgetTotal))
}

func (v *AllocationView) weight(d draft.Draft, row allocationRow) int {
	if v.category == draft.CategoryGoals {
		return d.GoalWeight(draft.Goal(row.key))
	}
	return d.DisciplineWeight(row.key)
}

// View renders the rows with their meters and the budget summary
func (v *AllocationView) View() string {
	d := v.Engine().Snapshot()
	labelWidth := 0
	for _, row := range v.rows {
		if w := len(row.label); w > labelWidth {
			labelWidth = w
		}
	}
	var b strings.Builder
	b.WriteString(header(v.step.String(), v.step.Hint()))
	b.WriteString("\n\n")
	for i, row := range v.rows {
		weight := v.weight(d, row)
		line := fmt.Sprintf("%s%s  %s %2d",
			cursorPrefix(i == v.cursor),
			padRight(row.label, labelWidth),
			meter(weight, draft.BudgetTotal),
			weight,
		)
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	summary := fmt.Sprintf("Allocated %d/%d · %d left", d.Total(v.category), draft.BudgetTotal, d.Remaining(v.category))
	if v.category == draft.CategoryGoals {
		summary += fmt.Sprintf(" · %d/%d active", d.Active(v.category), draft.MaxActiveGoals)
	}
	b.WriteString(summary + "\n")
	switch {
	case d.Valid(v.category) && d.Active(v.category) > 0:
		b.WriteString(okStyle.Render("✓ Ready"))
	case d.Valid(v.category):
		b.WriteString(hintStyle.Render("Optional: leave empty to skip."))
	default:
		b.WriteString(warnStyle.Render(v.step.Hint()))
	}
	if v.notice != "" {
		b.WriteString("\n" + warnStyle.Render(v.notice))
	}
	b.WriteString("\n\n" + HelpLine(Keys.Up, Keys.Down, Keys.Increase, Keys.Decrease, Keys.Clear))
	return b.String()
}
