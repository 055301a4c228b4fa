// Package notice shows a one-off message, such as an upgrade prompt for a
// mode the user's plan does not include.
package notice

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/ui/layout"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// NoticeScreen displays a heading and a message until dismissed.
type NoticeScreen struct {
	title   string
	heading string
	body    string
}

var _ screen.Screen = (*NoticeScreen)(nil)
var _ screen.KeyHintProvider = (*NoticeScreen)(nil)

// New creates a NoticeScreen.
func New(title, heading, body string) *NoticeScreen {
	return &NoticeScreen{title: title, heading: heading, body: body}
}

// Upgrade returns the prompt shown when a mode needs a higher tier.
func Upgrade(title string) *NoticeScreen {
	return New(title, "Available on Pro",
		"Full timed simulations run every module back to back\nwith the real exam clock.\n\nUpgrade to Pro to unlock them.")
}

func (p *NoticeScreen) Init() tea.Cmd {
	return nil
}

func (p *NoticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc", "enter", "q":
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return p, nil
}

func (p *NoticeScreen) View(width, height int) string {
	heading := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(p.heading)
	body := lipgloss.NewStyle().Foreground(theme.Text).Render(p.body)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(heading + "\n\n" + body)
}

func (p *NoticeScreen) Title() string {
	return p.title
}

func (p *NoticeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}
