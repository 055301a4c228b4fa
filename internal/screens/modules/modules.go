// Package modules lets the user pick a module to practice.
package modules

import (
	"fmt"
	"strconv"
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

// PickerScreen lists the catalog for a practice session.
type PickerScreen struct {
	deps    screens.Deps
	modules []catalog.Module
	menu    components.Menu
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)

// New creates a PickerScreen.
func New(deps screens.Deps) *PickerScreen {
	p := &PickerScreen{deps: deps, modules: catalog.All()}
	items := make([]components.MenuItem, len(p.modules))
	for i, m := range p.modules {
		id := m.ID
		items[i] = components.MenuItem{
			Label:  m.Name,
			Hotkey: strconv.Itoa(i + 1),
			Action: func() tea.Cmd {
				scr := sessionscreen.New(deps, sess.Request{Mode: catalog.ModePractice, Module: id})
				return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
			},
		}
	}
	p.menu = components.NewMenu(items)
	return p
}

func (p *PickerScreen) Init() tea.Cmd {
	return nil
}

func (p *PickerScreen) Title() string {
	return "Practice"
}

func (p *PickerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "1-5", Description: "Quick start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}
	var cmd tea.Cmd
	p.menu, cmd = p.menu.Update(msg)
	return p, cmd
}

// Selected returns the highlighted module.
func (p *PickerScreen) Selected() catalog.Module {
	return p.modules[p.menu.Selected]
}

func (p *PickerScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Centered(width, theme.Title, "Choose a module"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, p.menu.View()))
	b.WriteString("\n")

	m := p.Selected()
	caps := p.deps.Sampler
	limit := "the full pool"
	if caps != nil {
		if n := caps.Caps().Cap(p.deps.User.Tier); n > 0 {
			limit = fmt.Sprintf("up to %d questions", n)
		}
	}
	b.WriteString(theme.Centered(width, theme.Hint,
		fmt.Sprintf("%s  ·  %s  ·  %d s per question", m.Name, limit, m.PerItemSeconds)))
	return b.String()
}
