package steps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/regimen/internal/draft"
	"github.com/kingrea/regimen/internal/gate"
)

type scheduleField int

const (
	fieldSplit scheduleField = iota
	fieldDays
	fieldWeeks
	fieldSession
	scheduleFieldCount
)

// ScheduleView edits the split and the bounded scheduling scalars.
type ScheduleView struct {
	BaseView
	field scheduleField
}

// NewSchedule creates the schedule view
func NewSchedule() *ScheduleView {
	return &ScheduleView{BaseView: NewBaseView(gate.StepSchedule)}
}

// Init binds the context and focuses the split field
func (v *ScheduleView) Init(ctx *Context) tea.Cmd {
	v.bind(ctx)
	v.field = fieldSplit
	return nil
}

// Update cycles the focused field's value
func (v *ScheduleView) Update(msg tea.Msg) (View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch {
	case key.Matches(keyMsg, Keys.Up):
		if v.field > 0 {
			v.field--
		}
	case key.Matches(keyMsg, Keys.Down):
		if v.field < scheduleFieldCount-1 {
			v.field++
		}
	case key.Matches(keyMsg, Keys.Increase):
		v.shift(1)
	case key.Matches(keyMsg, Keys.Decrease):
		v.shift(-1)
	}
	return v, nil
}

func (v *ScheduleView) shift(delta int) {
	e := v.Engine()
	d := e.Snapshot()
	switch v.field {
	case fieldSplit:
		idx := splitIndex(d.SplitPreference())
		if idx < 0 {
			idx = 0
			if delta < 0 {
				idx = len(draft.Splits) - 1
			}
		} else {
			idx = wrap(idx+delta, len(draft.Splits))
		}
		e.SetSplitPreference(draft.Splits[idx])
	case fieldDays:
		if !e.SetDaysPerWeek(d.DaysPerWeek() + delta) {
			v.SetNotice(fmt.Sprintf("Train between %d and %d days a week.", draft.MinDaysPerWeek, draft.MaxDaysPerWeek))
			return
		}
	case fieldWeeks:
		e.SetDurationWeeks(neighbour(draft.DurationWeekOptions, d.DurationWeeks(), delta))
	case fieldSession:
		e.SetMaxDuration(neighbour(draft.MaxDurationOptions, d.MaxDuration(), delta))
	}
	v.SetNotice("")
}

// View renders the four schedule fields
func (v *ScheduleView) View() string {
	d := v.Engine().Snapshot()
	rows := []struct {
		label string
		value string
	}{
		{"Split", d.SplitPreference().Label()},
		{"Days per week", fmt.Sprintf("%d", d.DaysPerWeek())},
		{"Program length", fmt.Sprintf("%d weeks", d.DurationWeeks())},
		{"Session length", fmt.Sprintf("%d min", d.MaxDuration())},
	}
	var b strings.Builder
	b.WriteString(header(v.step.String(), "Choose how the week is laid out."))
	b.WriteString("\n\n")
	for i, row := range rows {
		b.WriteString(fmt.Sprintf("%s%s  ‹ %s ›\n", cursorPrefix(scheduleField(i) == v.field), padRight(row.label, 15), row.value))
	}
	b.WriteString("\n")
	if d.HasSplit() {
		b.WriteString(okStyle.Render("✓ Ready"))
	} else {
		b.WriteString(warnStyle.Render(v.step.Hint()))
	}
	if v.notice != "" {
		b.WriteString("\n" + warnStyle.Render(v.notice))
	}
	b.WriteString("\n\n" + HelpLine(Keys.Up, Keys.Down, Keys.Increase, Keys.Decrease))
	return b.String()
}

func splitIndex(s draft.Split) int {
	for i, candidate := range draft.Splits {
		if candidate == s {
			return i
		}
	}
	return -1
}

// neighbour moves to the neighbouring option, staying put at either end.
func neighbour(options []int, current, delta int) int {
	for i, v := range options {
		if v == current {
			next := i + delta
			if next < 0 || next >= len(options) {
				return current
			}
			return options[next]
		}
	}
	return options[0]
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
