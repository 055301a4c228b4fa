package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/screens"
	advicescreen "github.com/abhisek/prepdeck/internal/screens/advice"
	"github.com/abhisek/prepdeck/internal/screens/assignment"
	"github.com/abhisek/prepdeck/internal/screens/history"
	"github.com/abhisek/prepdeck/internal/screens/leaderboard"
	"github.com/abhisek/prepdeck/internal/screens/modules"
	"github.com/abhisek/prepdeck/internal/screens/notice"
	sessionscreen "github.com/abhisek/prepdeck/internal/screens/session"
	sess "github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/layout"
)

type statsLoadedMsg struct {
	Stats screens.Stats
	Err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps   screens.Deps
	menu   components.Menu
	stats  screens.Stats
	loaded bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screens.Deps) *HomeScreen {
	push := func(s screen.Screen) tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
	tier := deps.User.Tier

	items := []components.MenuItem{
		{Label: "PRACTICE", Hotkey: "p", Action: func() tea.Cmd {
			return push(modules.New(deps))
		}},
		{Label: "FULL SIMULATION", Hotkey: "f", Action: func() tea.Cmd {
			if catalog.CheckAccess(tier, catalog.ModeFullSimulation) != nil {
				return push(notice.Upgrade("Full Simulation"))
			}
			return push(sessionscreen.New(deps, sess.Request{Mode: catalog.ModeFullSimulation}))
		}},
		{Label: "ASSIGNMENT", Hotkey: "a", Note: "Pro", Disabled: catalog.CheckAccess(tier, catalog.ModeAssigned) != nil, Action: func() tea.Cmd {
			return push(assignment.New(deps))
		}},
		{Label: "STUDY ADVICE", Hotkey: "s", Action: func() tea.Cmd {
			return push(advicescreen.New(deps))
		}},
		{Label: "LEADERBOARD", Hotkey: "l", Action: func() tea.Cmd {
			return push(leaderboard.New(deps))
		}},
		{Label: "HISTORY", Hotkey: "h", Action: func() tea.Cmd {
			return push(history.New(deps))
		}},
		{Label: "EXIT", Hotkey: "q", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		deps: deps,
		menu: components.NewMenu(items),
	}
}

// Init reloads the stats. The router calls it again whenever the stack
// unwinds back to home.
func (h *HomeScreen) Init() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		st, err := deps.LoadStats(context.Background())
		return statsLoadedMsg{Stats: st, Err: err}
	}
}

func (h *HomeScreen) Refresh() tea.Cmd {
	return h.Init()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		if msg.Err == nil {
			h.stats = msg.Stats
		}
		h.loaded = true
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 90
	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.stats, h.loaded, cw, compact),
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.menu, cw))
	} else {
		sections = append(sections, renderMenu(h.menu, cw))
	}
	if h.deps.User.Tier == catalog.TierFree {
		sections = append(sections, renderTierNote("Free plan · practice only · Pro unlocks full simulations", cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "P/F/A/S/L/H", Description: "Jump"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
