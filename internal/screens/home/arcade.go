package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/screens"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

const titleFull = `╔═╗╦═╗╔═╗╔═╗╔╦╗╔═╗╔═╗╦╔═
╠═╝╠╦╝║╣ ╠═╝ ║║║╣ ║  ╠╩╗
╩  ╩╚═╚═╝╩  ═╩╝╚═╝╚═╝╩ ╩`

const titleCompact = "P · R · E · P · D · E · C · K"

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(st screens.Stats, loaded bool, cw int, compact bool) string {
	sessionStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	accStyle := lipgloss.NewStyle().Foreground(components.ColorFor(st.Accuracy)).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	switch {
	case !loaded:
		stats = dimStyle.Render("loading...")
	case st.Sessions == 0:
		stats = dimStyle.Render("No sessions yet. Pick a module to begin.")
	case compact:
		stats = fmt.Sprintf("%s %s %s",
			sessionStyle.Render(fmt.Sprintf("▣%d", st.Sessions)),
			accStyle.Render(fmt.Sprintf("%.0f%%", st.Accuracy)),
			streakStyle.Render(fmt.Sprintf("★%d", st.Streak)),
		)
	default:
		stats = fmt.Sprintf("%s  %s  %s",
			sessionStyle.Render(fmt.Sprintf("▣ %d SESSIONS", st.Sessions)),
			accStyle.Render(fmt.Sprintf("%.0f%% ACCURACY", st.Accuracy)),
			streakStyle.Render(fmt.Sprintf("★ %d DAY STREAK", st.Streak)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMenuCompact renders menu items as plain lines for terminals where
// bordered buttons would overflow.
func renderMenuCompact(menu components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(menu.View())
}

func renderMenu(menu components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(menu.Buttons())
}

func renderTierNote(note string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(note)
}
