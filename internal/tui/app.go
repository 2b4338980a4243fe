// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for regimen.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen
//
// The shell owns the draft engine and the step flow. Step views mutate the
// engine; the shell decides when to move between steps and when to submit.

package tui

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/regimen/internal/api"
	"github.com/kingrea/regimen/internal/catalog"
	"github.com/kingrea/regimen/internal/config"
	"github.com/kingrea/regimen/internal/draft"
	"github.com/kingrea/regimen/internal/gate"
	"github.com/kingrea/regimen/internal/logbook"
	"github.com/kingrea/regimen/internal/steps"
	"github.com/kingrea/regimen/internal/submission"
)

// appState represents which "screen" we're on
type appState int

const (
	stateWizard     appState = iota // Walking through the steps
	stateSubmitting                 // Waiting for the program service
	stateCreated                    // Program created, waiting for the user
)

const (
	catalogFetchTimeout = 5 * time.Second
	logPanelLines       = 8
)

// ProgramService is the slice of the API client the shell needs.
type ProgramService interface {
	CreateProgram(ctx context.Context, req submission.CreationRequest) (string, error)
	ListMovements(ctx context.Context) ([]catalog.Movement, error)
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithProgramService replaces the HTTP client built from config.
func WithProgramService(svc ProgramService) AppOption {
	return func(a *App) {
		if svc != nil {
			a.service = svc
		}
	}
}

// WithCatalog replaces the catalog loaded from config.
func WithCatalog(c *catalog.Catalog) AppOption {
	return func(a *App) {
		if c != nil {
			a.catalog = c
		}
	}
}

// WithLogger routes engine and client diagnostics to l.
func WithLogger(l draft.Logger) AppOption {
	return func(a *App) {
		if l != nil {
			a.diag = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) AppOption {
	return func(a *App) {
		if clock != nil {
			a.now = clock
		}
	}
}

type keyMap struct {
	Next   key.Binding
	Back   key.Binding
	Skip   key.Binding
	Submit key.Binding
	Quit   key.Binding
	Force  key.Binding
}

var keys = keyMap{
	Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
	Back:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "back")),
	Skip:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create program")),
	Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Force:  key.NewBinding(key.WithKeys("ctrl+c")),
}

type movementsLoadedMsg struct {
	movements []catalog.Movement
	err       error
}

type programCreatedMsg struct {
	id string
}

type submitFailedMsg struct {
	err error
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	config  *config.Config
	engine  *draft.Engine
	flow    *gate.Flow
	catalog *catalog.Catalog
	service ProgramService
	logbook *logbook.Logbook
	diag    draft.Logger
	now     func() time.Time

	stepCtx *steps.Context
	views   map[gate.Step]steps.View

	// UI components
	spinner   spinner.Model
	statusMsg string
	createdID string
	last      config.LastProgram
	hasLast   bool

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// NewApp creates a new App instance
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tui: config is required")
	}
	app := &App{
		state:  stateWizard,
		config: cfg,
		flow:   gate.NewFlow(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if app.catalog == nil {
		cat, err := catalog.Load(cfg.File.Catalog.Path)
		if err != nil {
			return nil, err
		}
		app.catalog = cat
	}
	if app.service == nil {
		clientOpts := []api.Option{
			api.WithHTTPClient(&http.Client{Timeout: cfg.File.API.Timeout}),
			api.WithMaxBodyBytes(cfg.File.API.MaxBodyBytes),
		}
		if app.diag != nil {
			clientOpts = append(clientOpts, api.WithLogger(app.diag))
		}
		app.service = api.NewClient(cfg.File.API.BaseURL, clientOpts...)
	}
	lb, err := logbook.New(filepath.Join(cfg.LogsDir(), "wizard.log"))
	if err != nil {
		return nil, err
	}
	app.logbook = lb

	engineOpts := []draft.Option{}
	if app.diag != nil {
		engineOpts = append(engineOpts, draft.WithLogger(app.diag))
	}
	app.engine = draft.NewEngine(engineOpts...)
	app.stepCtx = &steps.Context{Engine: app.engine, Catalog: app.catalog, Logbook: lb}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD166"))
	app.spinner = sp

	if last, ok, err := cfg.LastProgram(); err == nil && ok {
		app.last, app.hasLast = last, true
	}
	return app, nil
}

// Engine exposes the draft engine.
func (a *App) Engine() *draft.Engine {
	return a.engine
}

// Step returns the step on screen.
func (a *App) Step() gate.Step {
	return a.flow.Current()
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts. The wizard always begins
// from a default draft.
func (a *App) Init() tea.Cmd {
	a.restart()
	if a.hasLast {
		a.logInfo("Session opened · last program %s", a.last.ID)
	} else {
		a.logInfo("Session opened")
	}
	return a.fetchMovements()
}

func (a *App) restart() {
	a.engine.Reset()
	a.flow.Reset()
	a.views = make(map[gate.Step]steps.View, len(gate.Order))
	for _, step := range gate.Order {
		view := steps.New(step)
		view.Init(a.stepCtx)
		a.views[step] = view
	}
	a.state = stateWizard
}

func (a *App) currentView() steps.View {
	return a.views[a.flow.Current()]
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmds []tea.Cmd
		for _, view := range a.views {
			_, cmd := view.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case movementsLoadedMsg:
		return a, a.applyMovements(msg)

	case programCreatedMsg:
		return a.handleCreated(msg)

	case submitFailedMsg:
		return a.handleSubmitFailed(msg)

	case spinner.TickMsg:
		if a.state != stateSubmitting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Force) {
			return a, tea.Quit
		}
		switch a.state {
		case stateSubmitting:
			return a, nil
		case stateCreated:
			return a.updateCreated(msg)
		}
		if view := a.currentView(); view != nil && !view.Capturing() {
			if model, cmd, handled := a.handleNavigation(msg); handled {
				return model, cmd
			}
		}
	}

	if a.state != stateWizard {
		return a, nil
	}
	view := a.currentView()
	if view == nil {
		return a, nil
	}
	next, cmd := view.Update(msg)
	a.views[a.flow.Current()] = next
	return a, cmd
}

func (a *App) handleNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		a.logInfo("Session closed on %s", a.flow.Current())
		return a, tea.Quit, true
	case key.Matches(msg, keys.Next):
		a.next()
		return a, nil, true
	case key.Matches(msg, keys.Back):
		if a.flow.Back() {
			a.statusMsg = ""
		}
		return a, nil, true
	case key.Matches(msg, keys.Skip) && gate.Optional(a.flow.Current()):
		from := a.flow.Current()
		if a.flow.Skip() {
			a.statusMsg = ""
			a.logInfo("Step · %s skipped", from)
		}
		return a, nil, true
	case key.Matches(msg, keys.Submit) && a.flow.Current().IsTerminal():
		model, cmd := a.submit()
		return model, cmd, true
	}
	return a, nil, false
}

func (a *App) next() {
	from := a.flow.Current()
	if from.IsTerminal() {
		a.statusMsg = "Press enter to create your program."
		return
	}
	if !a.flow.Next(a.engine.Snapshot()) {
		a.statusMsg = from.Hint()
		a.logWarn("Step · %s blocked", from)
		return
	}
	a.statusMsg = ""
	a.logInfo("Step · %s → %s", from, a.flow.Current())
}

// submit hands the assembled request to the program service. The flow
// refuses a second submission while one is in flight.
func (a *App) submit() (tea.Model, tea.Cmd) {
	snapshot := a.engine.Snapshot()
	if !a.flow.BeginSubmit(snapshot) {
		if blocked, ok := gate.Blocking(snapshot); ok {
			a.statusMsg = fmt.Sprintf("%s: %s", blocked, blocked.Hint())
		}
		return a, nil
	}
	req := submission.Build(snapshot)
	a.state = stateSubmitting
	a.statusMsg = ""
	a.logInfo("Submit · %d goals, %d disciplines, %d rules, %d activities",
		len(req.Goals), len(req.Disciplines), len(req.MovementRules), len(req.EnjoyableActivities))
	return a, tea.Batch(a.spinner.Tick, a.createProgram(req))
}

func (a *App) createProgram(req submission.CreationRequest) tea.Cmd {
	svc := a.service
	timeout := a.config.File.API.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		id, err := svc.CreateProgram(ctx, req)
		if err != nil {
			return submitFailedMsg{err: err}
		}
		return programCreatedMsg{id: id}
	}
}

func (a *App) handleCreated(msg programCreatedMsg) (tea.Model, tea.Cmd) {
	a.flow.EndSubmit()
	a.logInfo("Submit · program %s created", msg.id)
	created := a.now()
	if err := a.config.SaveLastProgram(msg.id, created); err != nil {
		a.logWarn("State · could not remember program %s: %v", msg.id, err)
	} else {
		a.last, a.hasLast = config.LastProgram{ID: msg.id, CreatedAt: created.UTC()}, true
	}
	a.restart()
	a.createdID = msg.id
	a.state = stateCreated
	a.statusMsg = ""
	return a, nil
}

func (a *App) handleSubmitFailed(msg submitFailedMsg) (tea.Model, tea.Cmd) {
	a.flow.EndSubmit()
	a.state = stateWizard
	a.statusMsg = api.UserMessage(msg.err)
	a.logError("Submit · failed: %v", msg.err)
	return a, nil
}

func (a *App) updateCreated(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Submit):
		a.state = stateWizard
		a.createdID = ""
		a.logInfo("Session · new program started")
	}
	return a, nil
}

func (a *App) fetchMovements() tea.Cmd {
	svc := a.service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogFetchTimeout)
		defer cancel()
		movements, err := svc.ListMovements(ctx)
		return movementsLoadedMsg{movements: movements, err: err}
	}
}

func (a *App) applyMovements(msg movementsLoadedMsg) tea.Cmd {
	if msg.err != nil {
		a.logWarn("Catalog · using bundled movements: %v", msg.err)
		return nil
	}
	updated, err := a.catalog.WithMovements(msg.movements)
	if err != nil {
		a.logWarn("Catalog · ignoring service movements: %v", err)
		return nil
	}
	a.catalog = updated
	a.stepCtx.Catalog = updated
	view := steps.New(gate.StepMovements)
	cmd := view.Init(a.stepCtx)
	a.views[gate.StepMovements] = view
	a.logInfo("Catalog · %d movements from service", len(updated.Movements))
	return cmd
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := max(32, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 40 {
		leftWidth = width - 4
		rightWidth = 0
	}
	var content string
	switch a.state {
	case stateSubmitting:
		content = fmt.Sprintf("%s Creating your program...", a.spinner.View())
	case stateCreated:
		content = a.renderCreated()
	default:
		if view := a.currentView(); view != nil {
			content = view.View()
		}
	}
	return a.renderBoard(content, leftWidth, rightWidth)
}

func (a *App) renderCreated() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#06D6A0")).
		Render("✓ Program created")
	body := fmt.Sprintf("Program id: %s\n\nPress enter to set up another program or q to quit.", a.createdID)
	return fmt.Sprintf("%s\n\n%s", title, body)
}

func (a *App) renderBoard(mainContent string, leftWidth, rightWidth int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("◆ REGIMEN")
	left := lipgloss.JoinVertical(lipgloss.Left,
		a.renderProgress(leftWidth-4),
		"",
		lipgloss.NewStyle().Width(max(20, leftWidth-4)).Render(mainContent),
	)
	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#5B8DEF")).
		Padding(0, 1).
		Width(leftWidth).
		Render(left)
	board := leftBox
	if rightWidth > 0 {
		if panel := a.renderLogPanel(rightWidth - 4); panel != "" {
			board = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, " ", panel)
		}
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render(a.footerText())
	parts := []string{header, board}
	if a.statusMsg != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render(a.statusMsg))
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderProgress(width int) string {
	current := a.flow.Current()
	idx, total := gate.Position(current)
	var crumbs []string
	for i, step := range gate.Order {
		label := step.String()
		switch {
		case i == idx:
			label = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD166")).Render(label)
		case i < idx:
			label = lipgloss.NewStyle().Foreground(lipgloss.Color("#06D6A0")).Render(label)
		default:
			label = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Render(label)
		}
		crumbs = append(crumbs, label)
	}
	line := fmt.Sprintf("Step %d/%d · %s", idx+1, total, strings.Join(crumbs, " › "))
	if a.hasLast && a.state != stateCreated {
		line += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).
			Render(fmt.Sprintf("Last program: %s (%s)", a.last.ID, a.last.CreatedAt.Local().Format("2006-01-02")))
	}
	return lipgloss.NewStyle().Width(max(20, width)).Render(line)
}

func (a *App) renderLogPanel(width int) string {
	if a.logbook == nil {
		return ""
	}
	entries, total := a.logbook.Tail(logPanelLines)
	if len(entries) == 0 {
		return ""
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = logLevelStyle(e.Level).Render(fmt.Sprintf("%s %s", e.At.Local().Format("15:04:05"), e.Message))
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s (%d)", fileName, total))
	body := lipgloss.NewStyle().
		Width(max(20, width)).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func logLevelStyle(level logbook.Level) lipgloss.Style {
	switch level {
	case logbook.LevelWarn:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD166"))
	case logbook.LevelError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
}

func (a *App) footerText() string {
	switch a.state {
	case stateSubmitting:
		return "ctrl+c quit"
	case stateCreated:
		return steps.HelpLine(keys.Submit, keys.Quit)
	}
	bindings := []key.Binding{keys.Next, keys.Back}
	current := a.flow.Current()
	if gate.Optional(current) {
		bindings = append(bindings, keys.Skip)
	}
	if current.IsTerminal() {
		bindings = []key.Binding{keys.Submit, keys.Back}
	}
	bindings = append(bindings, keys.Quit)
	return steps.HelpLine(bindings...)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
