package draft

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalScenarioFullBudget(t *testing.T) {
	e := NewEngine()
	require.True(t, e.SetGoalWeight(GoalStrength, 4))
	require.True(t, e.SetGoalWeight(GoalHypertrophy, 6))

	assert.Equal(t, 10, e.Total(CategoryGoals))
	assert.True(t, e.Valid(CategoryGoals))

	before := e.Snapshot()
	assert.False(t, e.SetGoalWeight(GoalEndurance, 1), "total would exceed the budget")
	assert.Equal(t, before, e.Snapshot())
}

func TestGoalCardinalityCap(t *testing.T) {
	e := NewEngine()
	require.True(t, e.SetGoalWeight(GoalStrength, 3))
	require.True(t, e.SetGoalWeight(GoalHypertrophy, 3))
	require.True(t, e.SetGoalWeight(GoalEndurance, 3))
	require.Equal(t, 9, e.Total(CategoryGoals))

	assert.False(t, e.SetGoalWeight(GoalFatLoss, 1), "fourth active goal must be refused")
	assert.Equal(t, 0, e.Snapshot().GoalWeight(GoalFatLoss))
	assert.Equal(t, 9, e.Total(CategoryGoals))

	// Budget left on an active goal is still usable.
	assert.True(t, e.SetGoalWeight(GoalEndurance, 4))
	assert.True(t, e.Valid(CategoryGoals))
}

func TestGoalZeroWeightStaysAsRecord(t *testing.T) {
	e := NewEngine()
	require.True(t, e.SetGoalWeight(GoalStrength, 5))
	require.True(t, e.SetGoalWeight(GoalStrength, 0))

	goals := e.Snapshot().Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, Weighted[Goal]{Key: GoalStrength, Weight: 0}, goals[0])
	assert.Equal(t, 0, e.Snapshot().Active(CategoryGoals))

	// A zero record does not count towards the active cap.
	require.True(t, e.SetGoalWeight(GoalHypertrophy, 3))
	require.True(t, e.SetGoalWeight(GoalEndurance, 3))
	require.True(t, e.SetGoalWeight(GoalPower, 3))
	assert.False(t, e.SetGoalWeight(GoalStrength, 1))
}

func TestGoalRejectsNegativeAndUnknown(t *testing.T) {
	e := NewEngine()
	assert.False(t, e.SetGoalWeight(GoalStrength, -1))
	assert.False(t, e.SetGoalWeight(Goal("yoga"), 2))
	assert.False(t, e.SetGoalWeight(GoalStrength, 11))
	assert.Empty(t, e.Snapshot().Goals())
}

func TestGoalValidity(t *testing.T) {
	tests := []struct {
		name    string
		weights map[Goal]int
		want    bool
	}{
		{name: "empty", weights: nil, want: false},
		{name: "under budget", weights: map[Goal]int{GoalStrength: 9}, want: false},
		{name: "single goal full budget", weights: map[Goal]int{GoalStrength: 10}, want: true},
		{name: "three goals full budget", weights: map[Goal]int{GoalStrength: 4, GoalPower: 3, GoalMobility: 3}, want: true},
		{name: "only zero records", weights: map[Goal]int{GoalStrength: 0, GoalPower: 0}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			for _, g := range Goals {
				if w, ok := tt.weights[g]; ok {
					require.True(t, e.SetGoalWeight(g, w))
				}
			}
			assert.Equal(t, tt.want, e.Valid(CategoryGoals))
		})
	}
}

func TestGoalValidityRejectsUnreachableStates(t *testing.T) {
	over := NewAllocation[Goal](GoalPolicy)
	over.entries = []Weighted[Goal]{{GoalStrength, 6}, {GoalPower, 6}}
	assert.False(t, over.Valid(), "total above budget")

	crowded := NewAllocation[Goal](GoalPolicy)
	crowded.entries = []Weighted[Goal]{{GoalStrength, 4}, {GoalPower, 2}, {GoalMobility, 2}, {GoalEndurance, 2}}
	assert.Equal(t, 10, crowded.Total())
	assert.False(t, crowded.Valid(), "four active goals")
}

func TestDisciplineValidity(t *testing.T) {
	e := NewEngine()
	assert.True(t, e.Valid(CategoryDisciplines), "untouched disciplines are valid")

	require.True(t, e.SetDisciplineWeight("powerlifting", 6))
	assert.False(t, e.Valid(CategoryDisciplines))

	require.True(t, e.SetDisciplineWeight("hyrox", 4))
	assert.True(t, e.Valid(CategoryDisciplines))

	require.True(t, e.SetDisciplineWeight("powerlifting", 0))
	require.True(t, e.SetDisciplineWeight("hyrox", 0))
	assert.True(t, e.Valid(CategoryDisciplines), "all records back at zero")
	assert.Len(t, e.Snapshot().Disciplines(), 2)

	over := NewAllocation[string](DisciplinePolicy)
	over.entries = []Weighted[string]{{"a", 7}, {"b", 7}}
	assert.False(t, over.Valid())
}

func TestDisciplinesHaveNoCardinalityCap(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 10; i++ {
		require.True(t, e.SetDisciplineWeight(fmt.Sprintf("d%d", i), 1))
	}
	assert.Equal(t, 10, e.Total(CategoryDisciplines))
	assert.True(t, e.Valid(CategoryDisciplines))
	assert.False(t, e.SetDisciplineWeight("d10", 1))
	assert.False(t, e.SetDisciplineWeight("  ", 1))
}

func TestRandomGoalSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := NewEngine()
	for i := 0; i < 5000; i++ {
		g := Goals[rng.Intn(len(Goals))]
		e.SetGoalWeight(g, rng.Intn(14)-2)
		snap := e.Snapshot()
		require.LessOrEqual(t, snap.Total(CategoryGoals), BudgetTotal)
		require.LessOrEqual(t, snap.Active(CategoryGoals), MaxActiveGoals)
		for _, entry := range snap.Goals() {
			require.GreaterOrEqual(t, entry.Weight, 0)
		}
	}
}

func TestRandomDisciplineSequencesStayWithinBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := NewEngine()
	ids := []string{"powerlifting", "hyrox", "calisthenics", "crossfit", "running"}
	for i := 0; i < 5000; i++ {
		e.SetDisciplineWeight(ids[rng.Intn(len(ids))], rng.Intn(12))
		require.LessOrEqual(t, e.Total(CategoryDisciplines), BudgetTotal)
	}
}

func TestSetRuleReplacesExistingKind(t *testing.T) {
	e := NewEngine()
	require.True(t, e.SetRule("back_squat", RuleHardYes))
	require.True(t, e.SetRule("back_squat", RuleHardNo))

	rules := e.Snapshot().MovementRules()
	require.Len(t, rules, 1)
	assert.Equal(t, RuleHardNo, rules[0].Value)

	assert.False(t, e.SetRule("", RulePreferred))
	assert.False(t, e.SetRule("deadlift", RuleKind("maybe")))
}

func TestRemoveRule(t *testing.T) {
	e := NewEngine()
	assert.False(t, e.RemoveRule("deadlift"), "absent rule is a no-op")
	require.True(t, e.SetRule("deadlift", RulePreferred))
	assert.True(t, e.RemoveRule("deadlift"))
	_, ok := e.Rule("deadlift")
	assert.False(t, ok)
}

func TestToggleRuleClearsOnRepeat(t *testing.T) {
	e := NewEngine()
	require.True(t, ToggleRule(e, "pull_up", RulePreferred))
	kind, ok := e.Rule("pull_up")
	require.True(t, ok)
	assert.Equal(t, RulePreferred, kind)

	require.True(t, ToggleRule(e, "pull_up", RulePreferred))
	_, ok = e.Rule("pull_up")
	assert.False(t, ok, "same kind twice returns to no rule")

	require.True(t, ToggleRule(e, "pull_up", RuleHardYes))
	require.True(t, ToggleRule(e, "pull_up", RuleHardNo))
	kind, _ = e.Rule("pull_up")
	assert.Equal(t, RuleHardNo, kind)
}

func TestActivities(t *testing.T) {
	e := NewEngine()
	require.True(t, e.AddActivity("hiking", "ignored"))
	name, ok := e.Activity("hiking")
	require.True(t, ok)
	assert.Empty(t, name, "only custom activities carry a name")

	assert.False(t, e.AddActivity(ActivityCustom, "   "))
	_, ok = e.Activity(ActivityCustom)
	assert.False(t, ok)

	require.True(t, e.AddActivity(ActivityCustom, "  ultimate frisbee "))
	name, _ = e.Activity(ActivityCustom)
	assert.Equal(t, "ultimate frisbee", name)

	require.True(t, e.AddActivity(ActivityCustom, "bouldering"))
	assert.Len(t, e.Snapshot().Activities(), 2, "one entry per type")

	require.True(t, ToggleActivity(e, "hiking"))
	_, ok = e.Activity("hiking")
	assert.False(t, ok)
	assert.False(t, e.RemoveActivity("hiking"))
}

func TestPushIntensityClamps(t *testing.T) {
	e := NewEngine()
	e.SetPushIntensity(7)
	assert.Equal(t, 5, e.Snapshot().PushIntensity())
	e.SetPushIntensity(0)
	assert.Equal(t, 1, e.Snapshot().PushIntensity())
	e.SetPushIntensity(4)
	assert.Equal(t, 4, e.Snapshot().PushIntensity())
}

func TestBoundedScalars(t *testing.T) {
	e := NewEngine()
	assert.False(t, e.SetDurationWeeks(9))
	assert.True(t, e.SetDurationWeeks(8))
	assert.False(t, e.SetDaysPerWeek(1))
	assert.False(t, e.SetDaysPerWeek(8))
	assert.True(t, e.SetDaysPerWeek(6))
	assert.False(t, e.SetMaxDuration(50))
	assert.True(t, e.SetMaxDuration(90))
	assert.True(t, e.SetSplitPreference(SplitUpperLower))
	assert.True(t, e.SetCommunicationStyle(StyleScientific))

	snap := e.Snapshot()
	assert.Equal(t, 8, snap.DurationWeeks())
	assert.Equal(t, 6, snap.DaysPerWeek())
	assert.Equal(t, 90, snap.MaxDuration())
	assert.Equal(t, SplitUpperLower, snap.SplitPreference())
	assert.Equal(t, StyleScientific, snap.CommunicationStyle())
}

func TestEnumSettersRejectUnknownValues(t *testing.T) {
	tests := []struct {
		name  string
		apply func(e *Engine) bool
	}{
		{"unknown split", func(e *Engine) bool { return e.SetSplitPreference(Split("bro_split")) }},
		{"empty style", func(e *Engine) bool { return e.SetCommunicationStyle(CommunicationStyle("")) }},
		{"unknown style", func(e *Engine) bool { return e.SetCommunicationStyle(CommunicationStyle("sarcastic")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			require.True(t, e.SetSplitPreference(SplitFullBody))
			before := e.Snapshot()
			assert.False(t, tt.apply(e))
			assert.Equal(t, before, e.Snapshot())
		})
	}

	e := NewEngine()
	require.True(t, e.SetSplitPreference(SplitFullBody))
	assert.True(t, e.SetSplitPreference(SplitUnset))
	assert.False(t, e.Snapshot().HasSplit())
}

func TestResetRestoresDefaults(t *testing.T) {
	e := NewEngine()
	require.True(t, e.SetGoalWeight(GoalStrength, 10))
	require.True(t, e.SetDisciplineWeight("hyrox", 10))
	require.True(t, e.SetRule("deadlift", RuleHardNo))
	require.True(t, e.AddActivity("swimming", ""))
	require.True(t, e.SetSplitPreference(SplitHybrid))
	e.SetPushIntensity(5)

	e.Reset()
	e.Reset()

	assert.Equal(t, 0, e.Total(CategoryGoals))
	assert.False(t, e.Valid(CategoryGoals))
	assert.Equal(t, Defaults(), e.Snapshot())
}

func TestSnapshotIsIndependent(t *testing.T) {
	e := NewEngine()
	require.True(t, e.SetGoalWeight(GoalStrength, 5))
	snap := e.Snapshot()
	require.True(t, e.SetGoalWeight(GoalStrength, 7))
	require.True(t, e.SetRule("row", RulePreferred))
	assert.Equal(t, 5, snap.GoalWeight(GoalStrength))
	assert.Empty(t, snap.MovementRules())
}

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestObserversAndLogger(t *testing.T) {
	logger := &recordingLogger{}
	var seen []int
	e := NewEngine(WithLogger(logger), WithObserver(func(d Draft) {
		seen = append(seen, d.Total(CategoryGoals))
	}))

	e.SetGoalWeight(GoalStrength, 6)
	e.SetGoalWeight(GoalPower, 6)
	e.RemoveRule("missing")
	e.Reset()

	assert.Equal(t, []int{6, 0}, seen, "rejected and no-op intents do not notify")
	require.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], "goal power weight 6 rejected")
}
