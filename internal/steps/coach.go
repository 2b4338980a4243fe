package steps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/regimen/internal/draft"
	"github.com/kingrea/regimen/internal/gate"
	"github.com/kingrea/regimen/internal/submission"
)

type coachField int

const (
	fieldStyle coachField = iota
	fieldIntensity
	coachFieldCount
)

// CoachView picks the coach persona and shows the request about to be sent.
type CoachView struct {
	BaseView
	field coachField
}

// NewCoach creates the coach view
func NewCoach() *CoachView {
	return &CoachView{BaseView: NewBaseView(gate.StepCoach)}
}

// Init binds the context
func (v *CoachView) Init(ctx *Context) tea.Cmd {
	v.bind(ctx)
	v.field = fieldStyle
	return nil
}

// Update cycles the style or nudges the push intensity
func (v *CoachView) Update(msg tea.Msg) (View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	e := v.Engine()
	d := e.Snapshot()
	switch {
	case key.Matches(keyMsg, Keys.Up):
		if v.field > 0 {
			v.field--
		}
	case key.Matches(keyMsg, Keys.Down):
		if v.field < coachFieldCount-1 {
			v.field++
		}
	case key.Matches(keyMsg, Keys.Increase), key.Matches(keyMsg, Keys.Decrease):
		delta := 1
		if key.Matches(keyMsg, Keys.Decrease) {
			delta = -1
		}
		if v.field == fieldStyle {
			idx := 0
			for i, s := range draft.CommunicationStyles {
				if s == d.CommunicationStyle() {
					idx = i
				}
			}
			e.SetCommunicationStyle(draft.CommunicationStyles[wrap(idx+delta, len(draft.CommunicationStyles))])
		} else {
			e.SetPushIntensity(d.PushIntensity() + delta)
		}
	}
	return v, nil
}

// View renders the persona fields and the review summary
func (v *CoachView) View() string {
	d := v.Engine().Snapshot()
	var b strings.Builder
	b.WriteString(header(v.step.String(), "How should your coach talk to you?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s%s  ‹ %s ›\n", cursorPrefix(v.field == fieldStyle), padRight("Style", 15), d.CommunicationStyle().Label()))
	b.WriteString(fmt.Sprintf("%s%s  %s %d\n", cursorPrefix(v.field == fieldIntensity), padRight("Push", 15),
		meter(d.PushIntensity(), draft.MaxPushIntensity), d.PushIntensity()))
	b.WriteString("\n" + titleStyle.Render("Review") + "\n")
	b.WriteString(Summary(submission.Build(d), v.Context()))
	b.WriteString("\n\n" + HelpLine(Keys.Up, Keys.Down, Keys.Increase, Keys.Decrease))
	return b.String()
}

// Summary lists the request fields in reading order.
func Summary(req submission.CreationRequest, ctx *Context) string {
	var lines []string
	goals := make([]string, 0, len(req.Goals))
	for _, g := range req.Goals {
		if g.Weight > 0 {
			goals = append(goals, fmt.Sprintf("%s %d", draft.Goal(g.Goal).Label(), g.Weight))
		}
	}
	lines = append(lines, "Goals: "+orNone(goals))
	lines = append(lines, fmt.Sprintf("Schedule: %s · %d days · %d weeks · %d min",
		draft.Split(req.SplitPreference).Label(), req.DaysPerWeek, req.DurationWeeks, req.MaxSessionMinutes))
	disciplines := make([]string, 0, len(req.Disciplines))
	for _, disc := range req.Disciplines {
		if disc.Weight > 0 {
			disciplines = append(disciplines, fmt.Sprintf("%s %d", ctx.Catalog.DisciplineName(disc.Discipline), disc.Weight))
		}
	}
	lines = append(lines, "Disciplines: "+orNone(disciplines))
	lines = append(lines, fmt.Sprintf("Movement rules: %d", len(req.MovementRules)))
	activities := make([]string, 0, len(req.EnjoyableActivities))
	for _, act := range req.EnjoyableActivities {
		if act.CustomName != "" {
			activities = append(activities, act.CustomName)
		} else {
			activities = append(activities, humanizeID(act.ActivityType))
		}
	}
	lines = append(lines, "Activities: "+orNone(activities))
	lines = append(lines, fmt.Sprintf("Coach: %s, push %d", req.Persona.Tone, req.Persona.Aggression))
	return strings.Join(lines, "\n")
}

func orNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
