package session

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/catalog"
	sess "github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case s.eng == nil || s.snap.Phase == sess.PhaseNotStarted:
		return renderLoading(width)
	case s.confirmQuit:
		return renderQuitConfirm(width)
	case s.snap.Phase == sess.PhaseIntro:
		return s.renderIntro(width)
	case s.snap.Phase == sess.PhaseActive, s.snap.Phase == sess.PhaseFeedback:
		return s.renderQuestion(width)
	}
	return renderLoading(width)
}

func formatClock(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func (s *SessionScreen) renderIntro(width int) string {
	snap := s.snap
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Centered(width, theme.Title, catalog.DisplayName(snap.Module)))
	b.WriteString("\n\n")
	if snap.ModuleCount > 1 {
		b.WriteString(theme.Centered(width, theme.Subtitle,
			fmt.Sprintf("Module %d of %d", snap.ModuleNumber, snap.ModuleCount)))
		b.WriteString("\n")
	}
	limit := snap.TimeLimit
	if limit == 0 {
		limit = snap.IntroTimeLimit
	}
	b.WriteString(theme.Centered(width, theme.Body,
		fmt.Sprintf("%d questions   ·   %s on the clock", snap.Items, formatClock(limit))))
	b.WriteString("\n\n")
	if len(snap.Results) > 0 {
		last := snap.Results[len(snap.Results)-1]
		b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Secondary),
			fmt.Sprintf("Previous module: %d/%d", last.Score, last.TotalQuestions)))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Centered(width, theme.Hint, "The timer starts when you press Enter."))
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Warning), s.notice))
	}
	return b.String()
}

func (s *SessionScreen) renderQuestion(width int) string {
	snap := s.snap
	var b strings.Builder

	timerStyle := lipgloss.NewStyle().Foreground(theme.Accent)
	if snap.Remaining < time.Minute {
		timerStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	}
	infoLeft := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render("  " + catalog.DisplayName(snap.Module))
	infoRight := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d  %s %d  ", snap.CurrentIndex+1, snap.Items,
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"), snap.Score)) +
		timerStyle.Render(formatClock(snap.Remaining))

	line := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(line)
	b.WriteString("\n")
	b.WriteString(components.StepBar(snap.CurrentIndex, snap.Items, width-4).View())
	b.WriteString("\n\n")

	block := lipgloss.NewStyle().Width(min(width-8, 80)).Render(s.mc.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
	b.WriteString("\n")

	if fb := snap.Feedback; fb != nil {
		if fb.Correct {
			b.WriteString(theme.Centered(width, theme.Correct, "Correct!"))
		} else {
			b.WriteString(theme.Centered(width, theme.Incorrect, "Not quite"))
		}
		b.WriteString("\n\n")
		if fb.Explanation != "" {
			exp := lipgloss.NewStyle().Width(min(width-8, 70)).Foreground(theme.Text).Render(fb.Explanation)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
			b.WriteString("\n\n")
		}
		b.WriteString(theme.Centered(width, theme.Hint, "Press any key to continue..."))
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Warning), s.notice))
	}
	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "End session early?"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
		"Answers so far are saved as a partial result."))
	b.WriteString("\n\n")
	b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}

func renderLoading(width int) string {
	return theme.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n\n  Drawing your questions...")
}

func renderError(width int, msg string) string {
	return theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
		fmt.Sprintf("\n\n\n  %s\n\n  Press any key to go back.", msg))
}
