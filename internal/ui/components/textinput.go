package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// TextInput is a single-line code field. Typed characters outside the
// allowed set are dropped before they reach the bubbles model.
type TextInput struct {
	Model textinput.Model

	// Allow reports whether a typed rune is accepted. Nil accepts all.
	Allow func(r rune) bool

	state inputState
}

type inputState int

const (
	inputEditing inputState = iota
	inputAccepted
	inputRejected
)

// CodeRune accepts letters, digits, '-' and '_'.
func CodeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return r == '-' || r == '_'
}

// NewTextInput creates a focused input limited to limit characters.
func NewTextInput(placeholder string, limit int, allow func(rune) bool) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return TextInput{Model: ti, Allow: allow}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && t.Allow != nil && k.Text != "" {
		for _, r := range k.Text {
			if !t.Allow(r) {
				return t, nil
			}
		}
	}
	if _, ok := msg.(tea.KeyPressMsg); ok {
		t.state = inputEditing
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	view := t.Model.View()
	switch t.state {
	case inputAccepted:
		view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	case inputRejected:
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

// Value returns the trimmed input.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Submit marks the current value accepted or rejected until the next
// keypress.
func (t *TextInput) Submit(valid bool) {
	if valid {
		t.state = inputAccepted
	} else {
		t.state = inputRejected
	}
}
