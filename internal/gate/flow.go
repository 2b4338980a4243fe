package gate

import "github.com/kingrea/regimen/internal/draft"

// Flow is the wizard shell's navigation state: the current step and whether
// a submission is in flight. Navigation is frozen while submitting.
type Flow struct {
	pos        int
	submitting bool
}

// NewFlow returns a flow positioned on the first step.
func NewFlow() *Flow {
	return &Flow{}
}

// Current returns the active step.
func (f *Flow) Current() Step {
	return Order[f.pos]
}

// Next advances when the current step's gate passes.
func (f *Flow) Next(d draft.Draft) bool {
	if f.submitting || f.pos >= len(Order)-1 {
		return false
	}
	if !CanAdvance(f.Current(), d) {
		return false
	}
	f.pos++
	return true
}

// Skip advances past an optional step without consulting the draft.
func (f *Flow) Skip() bool {
	if f.submitting || f.pos >= len(Order)-1 || !Optional(f.Current()) {
		return false
	}
	f.pos++
	return true
}

// Back returns to the previous step.
func (f *Flow) Back() bool {
	if f.submitting || f.pos == 0 {
		return false
	}
	f.pos--
	return true
}

// Reset returns to the first step and clears the submission guard.
func (f *Flow) Reset() {
	f.pos = 0
	f.submitting = false
}

// Submitting reports whether a submission is in flight.
func (f *Flow) Submitting() bool {
	return f.submitting
}

// BeginSubmit claims the submission slot. It fails off the terminal step,
// while another submission is in flight, or when any gate still blocks.
func (f *Flow) BeginSubmit(d draft.Draft) bool {
	if f.submitting || !f.Current().IsTerminal() {
		return false
	}
	if _, blocked := Blocking(d); blocked {
		return false
	}
	f.submitting = true
	return true
}

// EndSubmit releases the submission slot.
func (f *Flow) EndSubmit() {
	f.submitting = false
}
