package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/regimen/internal/draft"
)

func readyEngine(t *testing.T) *draft.Engine {
	t.Helper()
	e := draft.NewEngine()
	require.True(t, e.SetGoalWeight(draft.GoalStrength, 6))
	require.True(t, e.SetGoalWeight(draft.GoalEndurance, 4))
	require.True(t, e.SetSplitPreference(draft.SplitUpperLower))
	return e
}

func TestCanAdvance(t *testing.T) {
	e := draft.NewEngine()
	d := e.Snapshot()
	assert.False(t, CanAdvance(StepGoals, d))
	assert.False(t, CanAdvance(StepSchedule, d))
	assert.True(t, CanAdvance(StepDisciplines, d), "no disciplines is fine")
	assert.True(t, CanAdvance(StepMovements, d))
	assert.True(t, CanAdvance(StepActivities, d))
	assert.True(t, CanAdvance(StepCoach, d))
	assert.False(t, CanAdvance(Step(42), d))

	require.True(t, e.SetGoalWeight(draft.GoalPower, 10))
	require.True(t, e.SetSplitPreference(draft.SplitFullBody))
	require.True(t, e.SetDisciplineWeight("hyrox", 3))
	d = e.Snapshot()
	assert.True(t, CanAdvance(StepGoals, d))
	assert.True(t, CanAdvance(StepSchedule, d))
	assert.False(t, CanAdvance(StepDisciplines, d), "partial discipline budget")

	require.True(t, e.SetDisciplineWeight("hyrox", 10))
	assert.True(t, CanAdvance(StepDisciplines, e.Snapshot()))
}

func TestOptionalSteps(t *testing.T) {
	for _, s := range Order {
		want := s == StepMovements || s == StepActivities
		assert.Equal(t, want, Optional(s), s.String())
	}
}

func TestBlockingReportsFirstFailingStep(t *testing.T) {
	e := draft.NewEngine()
	step, blocked := Blocking(e.Snapshot())
	require.True(t, blocked)
	assert.Equal(t, StepGoals, step)

	require.True(t, e.SetGoalWeight(draft.GoalStrength, 10))
	step, blocked = Blocking(e.Snapshot())
	require.True(t, blocked)
	assert.Equal(t, StepSchedule, step)

	require.True(t, e.SetSplitPreference(draft.SplitHybrid))
	_, blocked = Blocking(e.Snapshot())
	assert.False(t, blocked)
}

func TestFlowNavigation(t *testing.T) {
	e := draft.NewEngine()
	f := NewFlow()
	assert.Equal(t, StepGoals, f.Current())
	assert.False(t, f.Back())
	assert.False(t, f.Next(e.Snapshot()), "goals not allocated")
	assert.False(t, f.Skip(), "goals are not optional")

	e = readyEngine(t)
	require.True(t, f.Next(e.Snapshot()))
	require.True(t, f.Next(e.Snapshot()))
	assert.Equal(t, StepDisciplines, f.Current())
	require.True(t, f.Next(e.Snapshot()))
	assert.Equal(t, StepMovements, f.Current())

	before := e.Snapshot()
	require.True(t, f.Skip())
	require.True(t, f.Skip())
	assert.Equal(t, StepCoach, f.Current())
	assert.Equal(t, before, e.Snapshot(), "skipping leaves the draft alone")

	assert.False(t, f.Next(e.Snapshot()), "coach is the last step")
	assert.False(t, f.Skip())
	require.True(t, f.Back())
	assert.Equal(t, StepActivities, f.Current())

	f.Reset()
	assert.Equal(t, StepGoals, f.Current())
}

func TestFlowSubmitGuard(t *testing.T) {
	e := readyEngine(t)
	f := NewFlow()
	assert.False(t, f.BeginSubmit(e.Snapshot()), "only from the coach step")
	for !f.Current().IsTerminal() {
		require.True(t, f.Next(e.Snapshot()))
	}

	require.True(t, f.BeginSubmit(e.Snapshot()))
	assert.True(t, f.Submitting())
	assert.False(t, f.BeginSubmit(e.Snapshot()), "duplicate submit while in flight")
	assert.False(t, f.Back(), "navigation frozen while submitting")

	f.EndSubmit()
	assert.False(t, f.Submitting())
	assert.True(t, f.BeginSubmit(e.Snapshot()), "re-enabled after failure")
}

func TestFlowSubmitRefusesBlockedDraft(t *testing.T) {
	e := readyEngine(t)
	f := NewFlow()
	for !f.Current().IsTerminal() {
		require.True(t, f.Next(e.Snapshot()))
	}
	e.Reset()
	assert.False(t, f.BeginSubmit(e.Snapshot()))
	assert.False(t, f.Submitting())
}

func TestPosition(t *testing.T) {
	pos, total := Position(StepDisciplines)
	assert.Equal(t, 2, pos)
	assert.Equal(t, 6, total)
	pos, _ = Position(Step(99))
	assert.Equal(t, 6, pos)
	assert.True(t, StepCoach.IsTerminal())
	assert.False(t, StepGoals.IsTerminal())
}
