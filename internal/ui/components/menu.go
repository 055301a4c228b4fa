package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Hotkey, when set, selects and
// activates the item in one press.
type MenuItem struct {
	Label    string
	Hotkey   string
	Action   func() tea.Cmd
	Disabled bool
	Note     string // shown next to disabled items, e.g. "Pro"
}

// Menu is a vertical list that skips disabled items and wraps at
// either end.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.step(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// step walks from i in direction dir and returns the next enabled index,
// or -1 when every item is disabled.
func (m Menu) step(i, dir int) int {
	n := len(m.Items)
	for range n {
		i = (i + dir + n) % n
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch key := k.String(); key {
	case "up", "k", "shift+tab":
		if i := m.step(m.Selected, -1); i >= 0 {
			m.Selected = i
		}
	case "down", "j", "tab":
		if i := m.step(m.Selected, 1); i >= 0 {
			m.Selected = i
		}
	case "enter", "space":
		return m, m.activate(m.Selected)
	default:
		for i, item := range m.Items {
			if item.Hotkey != "" && strings.EqualFold(item.Hotkey, key) && !item.Disabled {
				m.Selected = i
				return m, m.activate(i)
			}
		}
	}
	return m, nil
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) label(item MenuItem) string {
	if item.Hotkey == "" {
		return item.Label
	}
	return "[" + strings.ToUpper(item.Hotkey) + "] " + item.Label
}

// View renders the menu as a plain list.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		line := "    " + m.label(item)
		switch {
		case item.Disabled:
			if item.Note != "" {
				line += "  (" + item.Note + ")"
			}
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)
		case i == m.Selected:
			line = theme.Selected.Render("  ▸ " + m.label(item))
		default:
			line = lipgloss.NewStyle().Foreground(theme.Text).Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// Buttons renders the menu as stacked buttons.
func (m Menu) Buttons() string {
	out := make([]string, len(m.Items))
	for i, item := range m.Items {
		label := item.Label
		if item.Disabled && item.Note != "" {
			label += " · " + item.Note
		}
		out[i] = Button(label, i == m.Selected, item.Disabled)
	}
	return lipgloss.JoinVertical(lipgloss.Center, out...)
}
