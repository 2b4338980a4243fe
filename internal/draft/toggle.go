package draft

// ToggleRule applies the click-twice-to-clear convention of the movement
// step: choosing the kind a movement already has removes the rule, any other
// kind replaces it. It only composes SetRule and RemoveRule.
func ToggleRule(e *Engine, movementID string, kind RuleKind) bool {
	if current, ok := e.Rule(movementID); ok && current == kind {
		return e.RemoveRule(movementID)
	}
	return e.SetRule(movementID, kind)
}

// ToggleActivity selects t when absent and deselects it when present.
// Custom activities go through AddActivity with a name instead.
func ToggleActivity(e *Engine, t ActivityType) bool {
	if _, ok := e.Activity(t); ok {
		return e.RemoveActivity(t)
	}
	return e.AddActivity(t, "")
}
