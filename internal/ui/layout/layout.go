// Package layout renders the chrome around every screen: the header with
// the tier badge and day streak, and the footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// The smallest terminal a session question fits in.
const (
	MinWidth  = 72
	MinHeight = 22
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("PrepDeck needs at least %d×%d to show a question.\n\nThis terminal is %d×%d.",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(body))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader draws the brand on the left, the screen title centered and
// the tier badge plus streak on the right. The badge is dropped first
// when the row gets tight.
func RenderHeader(title, tier string, streak int, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("PrepDeck")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	var right []string
	if tier != "" {
		right = append(right, tierBadge(tier))
	}
	if streak > 0 {
		right = append(right, lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("★ %dd", streak)))
	}

	inner := max(width-4, 0)
	row := spread(brand, center, strings.Join(right, " "), inner)
	if lipgloss.Width(row) > inner && len(right) > 1 {
		row = spread(brand, center, right[len(right)-1], inner)
	}
	return bar.Width(width).Render(row)
}

func tierBadge(tier string) string {
	color := theme.TextDim
	switch tier {
	case "pro":
		color = theme.Accent
	case "assigned":
		color = theme.Secondary
	}
	return lipgloss.NewStyle().Foreground(theme.BgDark).Background(color).Padding(0, 1).Render(strings.ToUpper(tier))
}

// spread lays out left, center and right so center sits in the middle of
// width when there is room.
func spread(left, center, right string, width int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((width-cw)/2-lw, 1)
	rightGap := max(width-lw-leftGap-cw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

// RenderFooter renders key hints, dropping trailing hints that would wrap.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	inner := max(width-4, 0)
	var b strings.Builder
	for i, h := range hints {
		part := keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		sep := ""
		if i > 0 {
			sep = "   "
		}
		if lipgloss.Width(b.String())+len(sep)+lipgloss.Width(part) > inner {
			break
		}
		b.WriteString(sep + part)
	}
	return bar.Width(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, padding content to fill
// the height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
