// Package assignment asks for an assignment code and starts the assigned
// session.
package assignment

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/screens"
	sessionscreen "github.com/abhisek/prepdeck/internal/screens/session"
	sess "github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/layout"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// codeLimit bounds the length of an assignment code.
const codeLimit = 40

// EntryScreen collects the assignment code.
type EntryScreen struct {
	deps   screens.Deps
	input  components.TextInput
	errMsg string
}

var _ screen.Screen = (*EntryScreen)(nil)
var _ screen.KeyHintProvider = (*EntryScreen)(nil)

// New creates an EntryScreen.
func New(deps screens.Deps) *EntryScreen {
	return &EntryScreen{
		deps:  deps,
		input: components.NewTextInput("assignment code", codeLimit, components.CodeRune),
	}
}

func (e *EntryScreen) Init() tea.Cmd {
	return e.input.Init()
}

func (e *EntryScreen) Title() string {
	return "Assignment"
}

func (e *EntryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (e *EntryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return e, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			code := e.input.Value()
			if code == "" {
				e.input.Submit(false)
				e.errMsg = "Enter the code your instructor gave you."
				return e, nil
			}
			e.input.Submit(true)
			e.errMsg = ""
			scr := sessionscreen.New(e.deps, sess.Request{Mode: catalog.ModeAssigned, AssignmentID: code})
			return e, func() tea.Msg { return router.ReplaceScreenMsg{Screen: scr} }
		}
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return e, cmd
}

func (e *EntryScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Centered(width, theme.Title, "Enter your assignment code"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, e.input.View()))
	b.WriteString("\n\n")
	if e.errMsg != "" {
		b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), e.errMsg))
	}
	return b.String()
}
