// internal/steps/step.go
//
// Defines the View interface that every wizard step implements.
// Views turn key presses into engine intents and render what the engine
// reports; they never decide on their own whether a step is complete.

package steps

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/regimen/internal/catalog"
	"github.com/kingrea/regimen/internal/draft"
	"github.com/kingrea/regimen/internal/gate"
	"github.com/kingrea/regimen/internal/logbook"
)

// Context provides shared state for all step views
type Context struct {
	Engine  *draft.Engine
	Catalog *catalog.Catalog
	Logbook *logbook.Logbook
}

// View defines the interface that all step views must implement
type View interface {
	// Step returns which wizard step this view renders
	Step() gate.Step

	// Init binds the view to ctx and resets its cursor state
	Init(ctx *Context) tea.Cmd

	// Update handles messages and returns the updated view plus any commands
	Update(msg tea.Msg) (View, tea.Cmd)

	// View renders the step body
	View() string

	// Capturing reports whether a text field currently owns the keyboard
	Capturing() bool
}

// BaseView provides common functionality for all views
type BaseView struct {
	ctx    *Context
	step   gate.Step
	notice string
	width  int
}

// NewBaseView creates a BaseView for step
func NewBaseView(step gate.Step) BaseView {
	return BaseView{step: step, width: 72}
}

// Step returns the wizard step
func (b *BaseView) Step() gate.Step {
	return b.step
}

// SetContext binds the view to ctx
func (b *BaseView) SetContext(ctx *Context) {
	b.ctx = ctx
}

// Context returns the bound context. A view used before Init, or bound to an
// incomplete context, is a wiring bug and panics.
func (b *BaseView) Context() *Context {
	if b.ctx == nil || b.ctx.Engine == nil || b.ctx.Catalog == nil {
		panic(fmt.Sprintf("steps: %s view used outside an engine context", b.step))
	}
	return b.ctx
}

func (b *BaseView) bind(ctx *Context) *Context {
	b.ctx = ctx
	b.notice = ""
	return b.Context()
}

// Engine returns the bound engine
func (b *BaseView) Engine() *draft.Engine {
	return b.Context().Engine
}

// Capturing is false unless a view embeds a text field
func (b *BaseView) Capturing() bool {
	return false
}

// Notice returns the last rejection or confirmation message
func (b *BaseView) Notice() string {
	return b.notice
}

// SetNotice replaces the notice line
func (b *BaseView) SetNotice(msg string) {
	b.notice = msg
}

// SetWidth records the usable render width
func (b *BaseView) SetWidth(width int) {
	if width > 20 {
		b.width = width
	}
}

// New returns a fresh view for step.
func New(step gate.Step) View {
	switch step {
	case gate.StepGoals:
		return NewGoals()
	case gate.StepSchedule:
		return NewSchedule()
	case gate.StepDisciplines:
		return NewDisciplines()
	case gate.StepMovements:
		return NewMovements()
	case gate.StepActivities:
		return NewActivities()
	case gate.StepCoach:
		return NewCoach()
	}
	panic(fmt.Sprintf("steps: no view for step %d", int(step)))
}
