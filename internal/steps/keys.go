package steps

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap holds the in-step bindings shared by every view.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Increase  key.Binding
	Decrease  key.Binding
	Clear     key.Binding
	Toggle    key.Binding
	HardYes   key.Binding
	Preferred key.Binding
	HardNo    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

// Keys is the default key map.
var Keys = KeyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Increase:  key.NewBinding(key.WithKeys("right", "l", "+"), key.WithHelp("→/+", "more")),
	Decrease:  key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/-", "less")),
	Clear:     key.NewBinding(key.WithKeys("0", "backspace"), key.WithHelp("0", "clear")),
	Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	HardYes:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "must include")),
	Preferred: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preferred")),
	HardNo:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "exclude")),
	Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4D96FF"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD166"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#06D6A0"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// HelpLine renders "key action" pairs for the given bindings.
func HelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return hintStyle.Render(strings.Join(parts, " · "))
}

func header(title, hint string) string {
	if hint == "" {
		return titleStyle.Render(title)
	}
	return titleStyle.Render(title) + "\n" + hintStyle.Render(hint)
}

func cursorPrefix(selected bool) string {
	if selected {
		return cursorStyle.Render("›") + " "
	}
	return "  "
}

func meter(weight, total int) string {
	if weight < 0 {
		weight = 0
	}
	if weight > total {
		weight = total
	}
	return strings.Repeat("■", weight) + strings.Repeat("□", total-weight)
}

func padRight(value string, width int) string {
	if n := lipgloss.Width(value); n < width {
		return value + strings.Repeat(" ", width-n)
	}
	return value
}
