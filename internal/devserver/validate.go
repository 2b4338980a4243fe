package devserver

import (
	"fmt"
	"strings"

	"github.com/kingrea/regimen/internal/catalog"
	"github.com/kingrea/regimen/internal/draft"
	"github.com/kingrea/regimen/internal/submission"
)

// fieldProblem mirrors the entries of a 422 detail list.
type fieldProblem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

type problems []fieldProblem

func (p *problems) add(msg string, loc ...any) {
	*p = append(*p, fieldProblem{Loc: append([]any{"body"}, loc...), Msg: msg})
}

var knownTones = map[string]bool{
	submission.ToneSupportive:    true,
	submission.ToneDrillSergeant: true,
	submission.ToneAnalytical:    true,
	submission.ToneFriendly:      true,
}

// validateRequest applies the backend's acceptance rules to a decoded request.
func validateRequest(req submission.CreationRequest, cat *catalog.Catalog) problems {
	var out problems

	if len(req.Goals) == 0 {
		out.add("at least one goal is required", "goals")
	}
	goalTotal, activeGoals := 0, 0
	for i, g := range req.Goals {
		if !isGoal(g.Goal) {
			out.add(fmt.Sprintf("unknown goal %q", g.Goal), "goals", i, "goal")
		}
		if g.Weight < 0 || g.Weight > draft.BudgetTotal {
			out.add(fmt.Sprintf("weight must be between 0 and %d", draft.BudgetTotal), "goals", i, "weight")
		}
		goalTotal += g.Weight
		if g.Weight > 0 {
			activeGoals++
		}
	}
	if len(req.Goals) > 0 && goalTotal != draft.BudgetTotal {
		out.add(fmt.Sprintf("goal weights must sum to %d", draft.BudgetTotal), "goals")
	}
	if activeGoals > draft.MaxActiveGoals {
		out.add(fmt.Sprintf("at most %d goals may carry weight", draft.MaxActiveGoals), "goals")
	}

	disciplineTotal := 0
	for i, d := range req.Disciplines {
		if strings.TrimSpace(d.Discipline) == "" {
			out.add("discipline is required", "disciplines", i, "discipline")
		}
		disciplineTotal += d.Weight
	}
	if disciplineTotal > draft.BudgetTotal {
		out.add(fmt.Sprintf("discipline weights must not exceed %d", draft.BudgetTotal), "disciplines")
	}

	for i, rule := range req.MovementRules {
		if cat != nil {
			if _, ok := cat.Movement(rule.MovementID); !ok {
				out.add(fmt.Sprintf("unknown movement %q", rule.MovementID), "movement_rules", i, "movement_id")
			}
		}
		if !draft.RuleKind(rule.Rule).Valid() {
			out.add(fmt.Sprintf("unknown rule %q", rule.Rule), "movement_rules", i, "rule")
		}
	}

	for i, act := range req.EnjoyableActivities {
		if act.ActivityType == string(draft.ActivityCustom) && strings.TrimSpace(act.CustomName) == "" {
			out.add("custom activities need a name", "enjoyable_activities", i, "custom_name")
		}
	}

	if !containsInt(draft.DurationWeekOptions, req.DurationWeeks) {
		out.add(fmt.Sprintf("duration must be one of %v weeks", draft.DurationWeekOptions), "duration_weeks")
	}
	if !isSplit(req.SplitPreference) {
		out.add(fmt.Sprintf("unknown split %q", req.SplitPreference), "split_preference")
	}
	if req.DaysPerWeek < draft.MinDaysPerWeek || req.DaysPerWeek > draft.MaxDaysPerWeek {
		out.add(fmt.Sprintf("days per week must be between %d and %d", draft.MinDaysPerWeek, draft.MaxDaysPerWeek), "days_per_week")
	}
	if !containsInt(draft.MaxDurationOptions, req.MaxSessionMinutes) {
		out.add(fmt.Sprintf("session length must be one of %v minutes", draft.MaxDurationOptions), "max_session_duration")
	}
	if !knownTones[req.Persona.Tone] {
		out.add(fmt.Sprintf("unknown tone %q", req.Persona.Tone), "persona", "tone")
	}
	if req.Persona.Aggression < draft.MinPushIntensity || req.Persona.Aggression > draft.MaxPushIntensity {
		out.add(fmt.Sprintf("aggression must be between %d and %d", draft.MinPushIntensity, draft.MaxPushIntensity), "persona", "aggression")
	}
	return out
}

func isGoal(value string) bool {
	for _, g := range draft.Goals {
		if string(g) == value {
			return true
		}
	}
	return false
}

func isSplit(value string) bool {
	for _, s := range draft.Splits {
		if string(s) == value {
			return true
		}
	}
	return false
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
