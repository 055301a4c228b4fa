package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector over a question's options.
// It does not know the right answer until Reveal is called.
type MultiChoice struct {
	Question string
	Options  []bank.Option
	Selected int

	revealed  bool
	chosenID  string
	correctID string
}

// NewMultiChoice creates a selector for q.
func NewMultiChoice(q bank.Question) MultiChoice {
	return MultiChoice{Question: q.Prompt, Options: q.Options}
}

// Label returns the letter shown for option i.
func Label(i int) string {
	return string(rune('A' + i))
}

// Update moves the cursor. It never submits; the caller decides when a
// key means "answer".
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.revealed {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	}
	return m, nil
}

// SelectedID returns the option under the cursor.
func (m MultiChoice) SelectedID() string {
	if m.Selected < 0 || m.Selected >= len(m.Options) {
		return ""
	}
	return m.Options[m.Selected].ID
}

// Select moves the cursor to option i if it exists.
func (m *MultiChoice) Select(i int) bool {
	if i < 0 || i >= len(m.Options) {
		return false
	}
	m.Selected = i
	return true
}

// Reveal marks the chosen and correct options.
func (m *MultiChoice) Reveal(chosenID, correctID string) {
	m.revealed = true
	m.chosenID = chosenID
	m.correctID = correctID
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, Label(i), opt.Text)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.revealed && opt.ID == m.correctID:
			style = theme.Correct
		case m.revealed && opt.ID == m.chosenID:
			style = theme.Incorrect
		case m.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		s += style.Render(line) + "\n"
	}
	return s
}
