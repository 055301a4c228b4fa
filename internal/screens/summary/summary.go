package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/layout"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func heading(sum session.Summary) string {
	switch {
	case sum.Expired:
		return "Time's up!"
	case sum.Phase == session.PhasePartial:
		return "Session ended early"
	}
	return "Session complete!"
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	b.WriteString(theme.Centered(width, theme.Title, heading(sum)))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Time in last module: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Questions: %d        Correct: %d        Accuracy: %.0f%%",
		sum.TotalQuestions, sum.TotalCorrect, sum.Accuracy)
	b.WriteString(theme.Centered(width, theme.Body, stats))
	b.WriteString("\n\n")

	if len(sum.Modules) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
		b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "Modules"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		barWidth := min(width-8, 60)
		for _, m := range sum.Modules {
			label := fmt.Sprintf("%-24s %2d/%-2d", m.Name, m.Score, m.Total)
			if m.IsPartial {
				label += " (partial)"
			}
			bar := components.AccuracyBar(label, m.Accuracy, barWidth)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
			b.WriteString("\n")
		}
	}

	if sum.Err != nil {
		b.WriteString("\n")
		b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
			"Your score could not be saved: "+sum.Err.Error()))
		b.WriteString("\n")
	}

	if sum.Upsell {
		b.WriteString("\n")
		b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
			"Want the real thing? Pro unlocks full timed simulations across every module."))
		b.WriteString("\n")
	}

	return b.String()
}
