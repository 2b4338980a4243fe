package draft

import (
	"strings"
)

// Logger receives one line per rejected intent.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Option customizes engine construction.
type Option func(*Engine)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers fn to receive a snapshot after every accepted
// mutation and after Reset.
func WithObserver(fn func(Draft)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

// Engine owns the wizard draft. It is not safe for concurrent use; the
// wizard shell is its only writer.
type Engine struct {
	draft     Draft
	logger    Logger
	observers []func(Draft)
}

// NewEngine returns an engine holding a default draft.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		draft:  Defaults(),
		logger: nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Snapshot returns an independent copy of the current draft.
func (e *Engine) Snapshot() Draft {
	return e.draft.clone()
}

// Total returns the summed weight of a category.
func (e *Engine) Total(c Category) int { return e.draft.Total(c) }

// Valid reports whether a category satisfies its completion rule.
func (e *Engine) Valid(c Category) bool { return e.draft.Valid(c) }

// Remaining returns the unspent budget of a category.
func (e *Engine) Remaining(c Category) int { return e.draft.Remaining(c) }

// SetGoalWeight assigns weight to a goal.
func (e *Engine) SetGoalWeight(g Goal, weight int) bool {
	if !knownGoal(g) {
		return e.reject("goal %q is unknown", g)
	}
	if !e.draft.goals.Set(g, weight) {
		return e.reject("goal %s weight %d rejected (total %d, active %d)", g, weight, e.draft.goals.Total(), e.draft.goals.Active())
	}
	return e.changed()
}

// SetDisciplineWeight assigns weight to a discipline.
func (e *Engine) SetDisciplineWeight(id string, weight int) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return e.reject("discipline id is empty")
	}
	if !e.draft.disciplines.Set(id, weight) {
		return e.reject("discipline %s weight %d rejected (total %d)", id, weight, e.draft.disciplines.Total())
	}
	return e.changed()
}

// SetRule attaches kind to a movement, replacing any earlier rule for it.
func (e *Engine) SetRule(movementID string, kind RuleKind) bool {
	movementID = strings.TrimSpace(movementID)
	if movementID == "" {
		return e.reject("movement id is empty")
	}
	if !kind.Valid() {
		return e.reject("movement %s: rule kind %q is unknown", movementID, kind)
	}
	e.draft.rules.Put(movementID, kind)
	return e.changed()
}

// RemoveRule clears the rule attached to a movement.
func (e *Engine) RemoveRule(movementID string) bool {
	if !e.draft.rules.Remove(strings.TrimSpace(movementID)) {
		return false
	}
	return e.changed()
}

// Rule returns the rule attached to a movement.
func (e *Engine) Rule(movementID string) (RuleKind, bool) {
	return e.draft.rules.Get(strings.TrimSpace(movementID))
}

// AddActivity selects an activity type. The custom sentinel needs a
// non-blank name; other types ignore customName.
func (e *Engine) AddActivity(t ActivityType, customName string) bool {
	if strings.TrimSpace(string(t)) == "" {
		return e.reject("activity type is empty")
	}
	name := ""
	if t == ActivityCustom {
		name = strings.TrimSpace(customName)
		if name == "" {
			return e.reject("custom activity needs a name")
		}
	}
	e.draft.activities.Put(t, name)
	return e.changed()
}

// RemoveActivity deselects an activity type.
func (e *Engine) RemoveActivity(t ActivityType) bool {
	if !e.draft.activities.Remove(t) {
		return false
	}
	return e.changed()
}

// Activity reports whether t is selected and its custom name.
func (e *Engine) Activity(t ActivityType) (string, bool) {
	return e.draft.activities.Get(t)
}

// SetCommunicationStyle assigns the coach voice; unknown styles are rejected.
func (e *Engine) SetCommunicationStyle(style CommunicationStyle) bool {
	if !knownStyle(style) {
		return e.reject("unknown communication style %q", style)
	}
	e.draft.style = style
	return e.changed()
}

// SetPushIntensity assigns the coach intensity clamped to [1,5].
func (e *Engine) SetPushIntensity(level int) bool {
	if level < MinPushIntensity {
		level = MinPushIntensity
	}
	if level > MaxPushIntensity {
		level = MaxPushIntensity
	}
	e.draft.pushIntensity = level
	return e.changed()
}

// SetDurationWeeks assigns the program length; only 8, 10 or 12 are accepted.
func (e *Engine) SetDurationWeeks(weeks int) bool {
	if !containsInt(DurationWeekOptions, weeks) {
		return e.reject("duration %d weeks is not offered", weeks)
	}
	e.draft.durationWeeks = weeks
	return e.changed()
}

// SetSplitPreference assigns the weekly split. SplitUnset clears it.
func (e *Engine) SetSplitPreference(split Split) bool {
	if split != SplitUnset && !knownSplit(split) {
		return e.reject("unknown split %q", split)
	}
	e.draft.split = split
	return e.changed()
}

// SetDaysPerWeek assigns the number of training days, between 2 and 7.
func (e *Engine) SetDaysPerWeek(days int) bool {
	if days < MinDaysPerWeek || days > MaxDaysPerWeek {
		return e.reject("%d days per week is out of range", days)
	}
	e.draft.daysPerWeek = days
	return e.changed()
}

// SetMaxDuration assigns the longest session length in minutes.
func (e *Engine) SetMaxDuration(minutes int) bool {
	if !containsInt(MaxDurationOptions, minutes) {
		return e.reject("session length %d minutes is not offered", minutes)
	}
	e.draft.maxDuration = minutes
	return e.changed()
}

// Reset restores the default draft. It is idempotent.
func (e *Engine) Reset() {
	e.draft = Defaults()
	e.notify()
}

func (e *Engine) reject(format string, args ...any) bool {
	e.logger.Printf("draft: "+format, args...)
	return false
}

func (e *Engine) changed() bool {
	e.notify()
	return true
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	snap := e.Snapshot()
	for _, fn := range e.observers {
		fn(snap)
	}
}

func knownGoal(g Goal) bool {
	for _, known := range Goals {
		if known == g {
			return true
		}
	}
	return false
}

func knownStyle(s CommunicationStyle) bool {
	for _, known := range CommunicationStyles {
		if known == s {
			return true
		}
	}
	return false
}

func knownSplit(s Split) bool {
	for _, known := range Splits {
		if known == s {
			return true
		}
	}
	return false
}
