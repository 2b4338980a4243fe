// Package submission maps a finished wizard draft onto the backend's
// program creation request.
package submission

import "github.com/kingrea/regimen/internal/draft"

// Persona tones understood by the backend.
const (
	ToneSupportive    = "supportive"
	ToneDrillSergeant = "drill_sergeant"
	ToneAnalytical    = "analytical"
	ToneFriendly      = "friendly"

	DefaultTone  = ToneSupportive
	DefaultSplit = draft.SplitFullBody
)

var personaTones = map[draft.CommunicationStyle]string{
	draft.StyleEncouraging:   ToneSupportive,
	draft.StyleDrillSergeant: ToneDrillSergeant,
	draft.StyleScientific:    ToneAnalytical,
	draft.StyleCasual:        ToneFriendly,
}

// GoalWeight is one weighted goal.
type GoalWeight struct {
	Goal   string `json:"goal"`
	Weight int    `json:"weight"`
}

// DisciplineWeight is one weighted discipline.
type DisciplineWeight struct {
	Discipline string `json:"discipline"`
	Weight     int    `json:"weight"`
}

// MovementRule pins a movement to a rule kind.
type MovementRule struct {
	MovementID string `json:"movement_id"`
	Rule       string `json:"rule"`
}

// Activity is an enjoyable activity, CustomName set only for custom entries.
type Activity struct {
	ActivityType string `json:"activity_type"`
	CustomName   string `json:"custom_name,omitempty"`
}

// Persona configures the coach voice.
type Persona struct {
	Tone       string `json:"tone"`
	Aggression int    `json:"aggression"`
}

// CreationRequest is the body of the create program call. Empty optional
// collections are omitted, which the backend reads as "no preference".
type CreationRequest struct {
	Goals               []GoalWeight       `json:"goals"`
	Disciplines         []DisciplineWeight `json:"disciplines,omitempty"`
	MovementRules       []MovementRule     `json:"movement_rules,omitempty"`
	EnjoyableActivities []Activity         `json:"enjoyable_activities,omitempty"`
	DurationWeeks       int                `json:"duration_weeks"`
	SplitPreference     string             `json:"split_preference"`
	DaysPerWeek         int                `json:"days_per_week"`
	MaxSessionMinutes   int                `json:"max_session_duration"`
	Persona             Persona            `json:"persona"`
}

// Build assembles the creation request for d.
func Build(d draft.Draft) CreationRequest {
	req := CreationRequest{
		Goals:             []GoalWeight{},
		DurationWeeks:     d.DurationWeeks(),
		SplitPreference:   string(DefaultSplit),
		DaysPerWeek:       d.DaysPerWeek(),
		MaxSessionMinutes: d.MaxDuration(),
		Persona: Persona{
			Tone:       PersonaTone(d.CommunicationStyle()),
			Aggression: d.PushIntensity(),
		},
	}
	if d.HasSplit() {
		req.SplitPreference = string(d.SplitPreference())
	}
	for _, g := range d.Goals() {
		req.Goals = append(req.Goals, GoalWeight{Goal: string(g.Key), Weight: g.Weight})
	}
	for _, disc := range d.Disciplines() {
		if disc.Weight == 0 {
			continue
		}
		req.Disciplines = append(req.Disciplines, DisciplineWeight{Discipline: disc.Key, Weight: disc.Weight})
	}
	for _, rule := range d.MovementRules() {
		req.MovementRules = append(req.MovementRules, MovementRule{MovementID: rule.Key, Rule: string(rule.Value)})
	}
	for _, act := range d.Activities() {
		req.EnjoyableActivities = append(req.EnjoyableActivities, Activity{ActivityType: string(act.Key), CustomName: act.Value})
	}
	return req
}

// PersonaTone translates a communication style; unknown styles get the
// supportive default.
func PersonaTone(style draft.CommunicationStyle) string {
	if tone, ok := personaTones[style]; ok {
		return tone
	}
	return DefaultTone
}
