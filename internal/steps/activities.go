package steps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/regimen/internal/draft"
	"github.com/kingrea/regimen/internal/gate"
)

const customNameLimit = 40

type activityRow struct {
	kind  draft.ActivityType
	label string
}

// ActivitiesView toggles enjoyable activities, including one custom entry.
type ActivitiesView struct {
	BaseView
	rows   []activityRow
	cursor int
	input  textinput.Model
}

// NewActivities creates the activities view
func NewActivities() *ActivitiesView {
	return &ActivitiesView{BaseView: NewBaseView(gate.StepActivities)}
}

// Init loads catalog activities and appends the custom row
func (v *ActivitiesView) Init(ctx *Context) tea.Cmd {
	c := v.bind(ctx)
	v.rows = nil
	for _, a := range c.Catalog.Activities {
		v.rows = append(v.rows, activityRow{kind: draft.ActivityType(a.Type), label: a.Name})
	}
	v.rows = append(v.rows, activityRow{kind: draft.ActivityCustom, label: "Something else…"})
	v.cursor = 0
	ti := textinput.New()
	ti.Placeholder = "e.g. Bouldering"
	ti.CharLimit = customNameLimit
	ti.Prompt = "Name: "
	v.input = ti
	return nil
}

// Capturing is true while the custom name field is focused
func (v *ActivitiesView) Capturing() bool {
	return v.input.Focused()
}

// Update handles toggles and the custom name field
func (v *ActivitiesView) Update(msg tea.Msg) (View, tea.Cmd) {
	if v.input.Focused() {
		return v, v.updateInput(msg)
	}
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
	case key.Matches(keyMsg, Keys.Toggle), key.Matches(keyMsg, Keys.Confirm):
		row := v.rows[v.cursor]
		if row.kind != draft.ActivityCustom {
			draft.ToggleActivity(v.Engine(), row.kind)
			return v, nil
		}
		if v.Engine().RemoveActivity(draft.ActivityCustom) {
			v.input.Reset()
			return v, nil
		}
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *ActivitiesView) updateInput(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, Keys.Confirm):
			name := strings.TrimSpace(v.input.Value())
			if !v.Engine().AddActivity(draft.ActivityCustom, name) {
				v.SetNotice("Give your activity a name.")
				return nil
			}
			v.SetNotice("")
			v.input.Blur()
			if lb := v.Context().Logbook; lb != nil {
				lb.Info("Activities · custom activity %q added", name)
			}
			return nil
		case key.Matches(keyMsg, Keys.Cancel):
			v.input.Blur()
			v.input.Reset()
			v.SetNotice("")
			return nil
		}
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

// View renders the activity checklist
func (v *ActivitiesView) View() string {
	e := v.Engine()
	var b strings.Builder
	b.WriteString(header(v.step.String(), "Optional. Pick activities you enjoy outside the gym."))
	b.WriteString("\n\n")
	for i, row := range v.rows {
		name, selected := e.Activity(row.kind)
		mark := "[ ]"
		if selected {
			mark = okStyle.Render("[x]")
		}
		label := row.label
		if row.kind == draft.ActivityCustom && selected {
			label = fmt.Sprintf("%s (%s)", row.label, name)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursorPrefix(i == v.cursor), mark, label))
	}
	if v.input.Focused() {
		b.WriteString("\n" + v.input.View())
	}
	if v.notice != "" {
		b.WriteString("\n" + warnStyle.Render(v.notice))
	}
	b.WriteString("\n\n")
	if v.input.Focused() {
		b.WriteString(HelpLine(Keys.Confirm, Keys.Cancel))
	} else {
		b.WriteString(HelpLine(Keys.Up, Keys.Down, Keys.Toggle))
	}
	return b.String()
}
