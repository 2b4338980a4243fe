package draft

import "strings"

// Goal identifies a training goal that receives part of the goal budget.
type Goal string

const (
	GoalStrength       Goal = "strength"
	GoalHypertrophy    Goal = "hypertrophy"
	GoalEndurance      Goal = "endurance"
	GoalFatLoss        Goal = "fat_loss"
	GoalMobility       Goal = "mobility"
	GoalPower          Goal = "power"
	GoalGeneralFitness Goal = "general_fitness"
)

// Goals lists every goal in display order.
var Goals = []Goal{
	GoalStrength,
	GoalHypertrophy,
	GoalEndurance,
	GoalFatLoss,
	GoalMobility,
	GoalPower,
	GoalGeneralFitness,
}

// Label returns a human-readable goal name.
func (g Goal) Label() string {
	return humanize(string(g))
}

// RuleKind is the strength of a preference attached to a movement.
type RuleKind string

const (
	RuleHardYes   RuleKind = "hard_yes"
	RulePreferred RuleKind = "preferred"
	RuleHardNo    RuleKind = "hard_no"
)

// Valid reports whether k is one of the three known kinds.
func (k RuleKind) Valid() bool {
	switch k {
	case RuleHardYes, RulePreferred, RuleHardNo:
		return true
	}
	return false
}

// Label returns a short display label.
func (k RuleKind) Label() string {
	switch k {
	case RuleHardYes:
		return "Must include"
	case RulePreferred:
		return "Preferred"
	case RuleHardNo:
		return "Exclude"
	}
	return "No rule"
}

// ActivityType identifies an enjoyable activity. ActivityCustom is the
// sentinel that carries a user-supplied name.
type ActivityType string

const ActivityCustom ActivityType = "custom"

// CommunicationStyle is the coach persona voice.
type CommunicationStyle string

const (
	StyleEncouraging   CommunicationStyle = "encouraging"
	StyleDrillSergeant CommunicationStyle = "drill_sergeant"
	StyleScientific    CommunicationStyle = "scientific"
	StyleCasual        CommunicationStyle = "casual"
)

// CommunicationStyles lists the styles offered by the coach step.
var CommunicationStyles = []CommunicationStyle{
	StyleEncouraging,
	StyleDrillSergeant,
	StyleScientific,
	StyleCasual,
}

// Label returns a human-readable style name.
func (s CommunicationStyle) Label() string {
	return humanize(string(s))
}

// Split is the weekly training split. SplitUnset means the user has not
// picked one yet.
type Split string

const (
	SplitUnset        Split = ""
	SplitFullBody     Split = "full_body"
	SplitUpperLower   Split = "upper_lower"
	SplitPushPullLegs Split = "push_pull_legs"
	SplitBodyPart     Split = "body_part"
	SplitHybrid       Split = "hybrid"
)

// Splits lists the selectable splits.
var Splits = []Split{
	SplitFullBody,
	SplitUpperLower,
	SplitPushPullLegs,
	SplitBodyPart,
	SplitHybrid,
}

// Label returns a human-readable split name.
func (s Split) Label() string {
	if s == SplitUnset {
		return "Not selected"
	}
	return humanize(string(s))
}

// Allowed values for the bounded scalar fields.
var (
	DurationWeekOptions = []int{8, 10, 12}
	MaxDurationOptions  = []int{30, 45, 60, 75, 90, 120}
)

const (
	// BudgetTotal is the number of points each weighted category distributes.
	BudgetTotal = 10
	// MaxActiveGoals caps how many goals may carry weight at once.
	MaxActiveGoals = 3

	MinPushIntensity = 1
	MaxPushIntensity = 5
	MinDaysPerWeek   = 2
	MaxDaysPerWeek   = 7

	DefaultStyle         = StyleEncouraging
	DefaultPushIntensity = 3
	DefaultDurationWeeks = 12
	DefaultDaysPerWeek   = 4
	DefaultMaxDuration   = 60
)

func humanize(value string) string {
	parts := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(value))
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
