// Package gate decides when the setup wizard may move forward.
//
// CanAdvance is a pure function of the draft; Flow tracks the shell's current
// step and the single in-flight submission.
package gate

import "github.com/kingrea/regimen/internal/draft"

// Step is one screen of the setup wizard.
type Step int

const (
	StepGoals Step = iota
	StepSchedule
	StepDisciplines
	StepMovements
	StepActivities
	StepCoach
)

// Order lists the steps in the sequence the wizard shows them.
var Order = []Step{
	StepGoals,
	StepSchedule,
	StepDisciplines,
	StepMovements,
	StepActivities,
	StepCoach,
}

// String returns the step title.
func (s Step) String() string {
	switch s {
	case StepGoals:
		return "Goals"
	case StepSchedule:
		return "Schedule"
	case StepDisciplines:
		return "Disciplines"
	case StepMovements:
		return "Movement Preferences"
	case StepActivities:
		return "Activities"
	case StepCoach:
		return "Coach"
	default:
		return "Unknown"
	}
}

// Hint returns the sentence shown when the step blocks navigation.
func (s Step) Hint() string {
	switch s {
	case StepGoals:
		return "Spread all 10 points across one to three goals."
	case StepSchedule:
		return "Pick a training split."
	case StepDisciplines:
		return "Spend all 10 points or clear every discipline."
	default:
		return ""
	}
}

// IsTerminal reports whether s is the submission step.
func (s Step) IsTerminal() bool {
	return s == Order[len(Order)-1]
}

// Position returns the zero-based index of s in Order and the step count.
func Position(s Step) (int, int) {
	for i, step := range Order {
		if step == s {
			return i, len(Order)
		}
	}
	return len(Order), len(Order)
}

// CanAdvance reports whether the wizard may leave step s given d.
func CanAdvance(s Step, d draft.Draft) bool {
	switch s {
	case StepGoals:
		return d.Valid(draft.CategoryGoals)
	case StepSchedule:
		return d.HasSplit()
	case StepDisciplines:
		return d.Active(draft.CategoryDisciplines) == 0 || d.Valid(draft.CategoryDisciplines)
	case StepMovements, StepActivities, StepCoach:
		return true
	default:
		return false
	}
}

// Optional reports whether the shell offers a skip affordance for s.
func Optional(s Step) bool {
	return s == StepMovements || s == StepActivities
}

// Blocking returns the first step whose gate fails, if any.
func Blocking(d draft.Draft) (Step, bool) {
	for _, s := range Order {
		if !CanAdvance(s, d) {
			return s, true
		}
	}
	return 0, false
}
