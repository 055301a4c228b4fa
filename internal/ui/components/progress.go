package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// ProgressBar draws a filled track with eighth-cell precision.
type ProgressBar struct {
	Label   string
	Ratio   float64 // clamped to 0..1
	Caption string  // shown after the track, e.g. "7/10"
	Width   int     // total width including label and caption
	Color   color.Color
}

// AccuracyBar shows a percentage colored by ColorFor.
func AccuracyBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Ratio:   percent / 100,
		Caption: fmt.Sprintf("%3.0f%%", percent),
		Width:   width,
		Color:   ColorFor(percent),
	}
}

// StepBar shows how many of total items are done.
func StepBar(done, total, width int) ProgressBar {
	ratio := 0.0
	if total > 0 {
		ratio = float64(done) / float64(total)
	}
	return ProgressBar{
		Ratio:   ratio,
		Caption: fmt.Sprintf("%d/%d", done, total),
		Width:   width,
		Color:   theme.Primary,
	}
}

// ColorFor picks a bar color for an accuracy percentage. The thresholds
// match the advice status bands.
func ColorFor(percent float64) color.Color {
	switch {
	case percent >= 80:
		return theme.Success
	case percent >= 60:
		return theme.Secondary
	case percent >= 40:
		return theme.Warning
	}
	return theme.Error
}

var partials = []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

func (p ProgressBar) View() string {
	var label, caption string
	if p.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.Caption != "" {
		caption = "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Caption)
	}
	track := max(p.Width-lipgloss.Width(label)-lipgloss.Width(caption), 4)

	ratio := min(max(p.Ratio, 0), 1)
	eighths := int(ratio * float64(track*8))
	full, rem := eighths/8, eighths%8

	fill := p.Color
	if fill == nil {
		fill = theme.Secondary
	}
	var bar strings.Builder
	bar.WriteString(strings.Repeat("█", full))
	empty := track - full
	if rem > 0 {
		bar.WriteString(partials[rem])
		empty--
	}
	filled := lipgloss.NewStyle().Foreground(fill).Background(theme.Border).Render(bar.String())
	rest := lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))
	return label + filled + rest + caption
}
