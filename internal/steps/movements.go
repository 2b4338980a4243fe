package steps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/regimen/internal/catalog"
	"github.com/kingrea/regimen/internal/draft"
	"github.com/kingrea/regimen/internal/gate"
)

// movementItem implements list.Item for a catalog movement
type movementItem struct {
	movement catalog.Movement
	rule     draft.RuleKind
	hasRule  bool
}

func (i movementItem) Title() string {
	if !i.hasRule {
		return i.movement.Name
	}
	return fmt.Sprintf("%s  [%s]", i.movement.Name, i.rule.Label())
}

func (i movementItem) Description() string {
	var parts []string
	if i.movement.Pattern != "" {
		parts = append(parts, humanizeID(i.movement.Pattern))
	}
	if i.movement.Equipment != "" {
		parts = append(parts, i.movement.Equipment)
	}
	return strings.Join(parts, " · ")
}

func (i movementItem) FilterValue() string { return i.movement.Name }

// MovementsView pins catalog movements to a rule kind.
type MovementsView struct {
	BaseView
	list list.Model
}

// NewMovements creates the movement preference view
func NewMovements() *MovementsView {
	return &MovementsView{BaseView: NewBaseView(gate.StepMovements)}
}

// Init builds the movement list from the bound catalog
func (v *MovementsView) Init(ctx *Context) tea.Cmd {
	v.bind(ctx)
	l := list.New(v.items(), list.NewDefaultDelegate(), v.width, 16)
	l.Title = "Movements"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	v.list = l
	return nil
}

func (v *MovementsView) items() []list.Item {
	e := v.Engine()
	movements := v.Context().Catalog.Movements
	items := make([]list.Item, len(movements))
	for i, m := range movements {
		rule, ok := e.Rule(m.ID)
		items[i] = movementItem{movement: m, rule: rule, hasRule: ok}
	}
	return items
}

// Capturing is true while the filter prompt is open
func (v *MovementsView) Capturing() bool {
	return v.list.SettingFilter()
}

// Selected returns the highlighted movement id
func (v *MovementsView) Selected() (string, bool) {
	item, ok := v.list.SelectedItem().(movementItem)
	if !ok {
		return "", false
	}
	return item.movement.ID, true
}

// Update applies rule toggles and forwards everything else to the list
func (v *MovementsView) Update(msg tea.Msg) (View, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		v.SetWidth(sizeMsg.Width)
		v.list.SetSize(v.width, max(8, sizeMsg.Height-16))
		return v, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !v.list.SettingFilter() {
		var kind draft.RuleKind
		switch {
		case key.Matches(keyMsg, Keys.HardYes):
			kind = draft.RuleHardYes
		case key.Matches(keyMsg, Keys.Preferred):
			kind = draft.RulePreferred
		case key.Matches(keyMsg, Keys.HardNo):
			kind = draft.RuleHardNo
		}
		if kind != "" {
			return v, v.toggle(kind)
		}
	}
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *MovementsView) toggle(kind draft.RuleKind) tea.Cmd {
	id, ok := v.Selected()
	if !ok {
		return nil
	}
	e := v.Engine()
	if !draft.ToggleRule(e, id, kind) {
		return nil
	}
	rule, has := e.Rule(id)
	for idx, m := range v.Context().Catalog.Movements {
		if m.ID == id {
			return v.list.SetItem(idx, movementItem{movement: m, rule: rule, hasRule: has})
		}
	}
	return nil
}

// View renders the list and the rule counts
func (v *MovementsView) View() string {
	d := v.Engine().Snapshot()
	counts := map[draft.RuleKind]int{}
	for _, r := range d.MovementRules() {
		counts[r.Value]++
	}
	var b strings.Builder
	b.WriteString(header(v.step.String(), "Optional. Mark movements you need, like or want to avoid."))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d must include · %d preferred · %d excluded",
		counts[draft.RuleHardYes], counts[draft.RulePreferred], counts[draft.RuleHardNo]))
	b.WriteString("\n\n" + HelpLine(Keys.HardYes, Keys.Preferred, Keys.HardNo) + hintStyle.Render(" · / filter"))
	return b.String()
}

func humanizeID(value string) string {
	parts := strings.Fields(strings.ReplaceAll(value, "_", " "))
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
