// Package app hosts the terminal UI: a router of screens framed by a
// header and a footer.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/screens"
	"github.com/abhisek/prepdeck/internal/screens/home"
	"github.com/abhisek/prepdeck/internal/screens/welcome"
	"github.com/abhisek/prepdeck/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Deps screens.Deps

	// SkipSplash opens straight on the home screen.
	SkipSplash bool
}

type headerStatsMsg struct {
	streak int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   screens.Deps
	router *router.Router
	streak int
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	deps := opts.Deps
	var root screen.Screen
	if opts.SkipSplash {
		root = home.New(deps)
	} else {
		root = welcome.New(func() screen.Screen { return home.New(deps) })
	}
	return AppModel{
		deps:   deps,
		router: router.New(root),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.loadStreak())
}

func (m AppModel) loadStreak() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		st, err := deps.LoadStats(context.Background())
		if err != nil {
			return nil
		}
		return headerStatsMsg{streak: st.Streak}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case headerStatsMsg:
		m.streak = msg.streak
		return m, nil

	case router.PopToRootMsg:
		// A session just ended; the streak may have moved.
		return m, tea.Batch(m.router.Update(msg), m.loadStreak())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+z":
			return m, tea.Suspend
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, string(m.deps.User.Tier), m.streak, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
