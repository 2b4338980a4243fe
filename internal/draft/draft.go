// Package draft holds the in-progress program configuration collected by the
// setup wizard and every rule that keeps it consistent.
//
// The Engine is the only writer. Callers read immutable Draft snapshots and
// mutate through named operations; an operation that would break an
// invariant is rejected without touching state and reports false.
package draft

// Category selects one of the two weighted budgets.
type Category int

const (
	CategoryGoals Category = iota
	CategoryDisciplines
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryGoals:
		return "goals"
	case CategoryDisciplines:
		return "disciplines"
	}
	return "unknown"
}

// Draft is a snapshot of the wizard configuration. The zero value is not
// meaningful; use Defaults or Engine.Snapshot.
type Draft struct {
	goals       Allocation[Goal]
	disciplines Allocation[string]
	rules       KeyedSet[string, RuleKind]
	activities  KeyedSet[ActivityType, string]

	style         CommunicationStyle
	pushIntensity int
	durationWeeks int
	split         Split
	daysPerWeek   int
	maxDuration   int
}

// Defaults returns a draft with empty collections and default scalars.
func Defaults() Draft {
	return Draft{
		goals:         NewAllocation[Goal](GoalPolicy),
		disciplines:   NewAllocation[string](DisciplinePolicy),
		style:         DefaultStyle,
		pushIntensity: DefaultPushIntensity,
		durationWeeks: DefaultDurationWeeks,
		split:         SplitUnset,
		daysPerWeek:   DefaultDaysPerWeek,
		maxDuration:   DefaultMaxDuration,
	}
}

func (d *Draft) clone() Draft {
	out := *d
	out.goals = d.goals.clone()
	out.disciplines = d.disciplines.clone()
	out.rules = d.rules.clone()
	out.activities = d.activities.clone()
	return out
}

// Total returns the summed weight of a category.
func (d Draft) Total(c Category) int {
	switch c {
	case CategoryGoals:
		return d.goals.Total()
	case CategoryDisciplines:
		return d.disciplines.Total()
	}
	return 0
}

// Valid reports whether a category satisfies its completion rule. Goals need
// one to three active entries summing to the full budget; disciplines are
// either untouched or sum to the full budget.
func (d Draft) Valid(c Category) bool {
	switch c {
	case CategoryGoals:
		return d.goals.Valid()
	case CategoryDisciplines:
		return d.disciplines.Valid()
	}
	return false
}

// Remaining returns the unspent budget of a category.
func (d Draft) Remaining(c Category) int {
	switch c {
	case CategoryGoals:
		return d.goals.Remaining()
	case CategoryDisciplines:
		return d.disciplines.Remaining()
	}
	return 0
}

// Active counts the weighted entries of a category.
func (d Draft) Active(c Category) int {
	switch c {
	case CategoryGoals:
		return d.goals.Active()
	case CategoryDisciplines:
		return d.disciplines.Active()
	}
	return 0
}

// Goals returns the goal records in insertion order.
func (d Draft) Goals() []Weighted[Goal] { return d.goals.Entries() }

// GoalWeight returns the weight of g.
func (d Draft) GoalWeight(g Goal) int { return d.goals.Weight(g) }

// Disciplines returns the discipline records in insertion order.
func (d Draft) Disciplines() []Weighted[string] { return d.disciplines.Entries() }

// DisciplineWeight returns the weight of a discipline id.
func (d Draft) DisciplineWeight(id string) int { return d.disciplines.Weight(id) }

// MovementRules returns the movement rules in insertion order.
func (d Draft) MovementRules() []Entry[string, RuleKind] { return d.rules.Entries() }

// Rule returns the rule attached to a movement.
func (d Draft) Rule(movementID string) (RuleKind, bool) { return d.rules.Get(movementID) }

// Activities returns the enjoyable activities in insertion order. The value
// is the custom name, empty for every type except ActivityCustom.
func (d Draft) Activities() []Entry[ActivityType, string] { return d.activities.Entries() }

// Activity reports whether t is selected and its custom name.
func (d Draft) Activity(t ActivityType) (string, bool) { return d.activities.Get(t) }

func (d Draft) CommunicationStyle() CommunicationStyle { return d.style }
func (d Draft) PushIntensity() int                     { return d.pushIntensity }
func (d Draft) DurationWeeks() int                     { return d.durationWeeks }
func (d Draft) SplitPreference() Split                 { return d.split }
func (d Draft) DaysPerWeek() int                       { return d.daysPerWeek }
func (d Draft) MaxDuration() int                       { return d.maxDuration }

// HasSplit reports whether a split has been chosen.
func (d Draft) HasSplit() bool { return d.split != SplitUnset }
