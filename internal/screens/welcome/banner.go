package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██████╗ ███████╗██████╗ ██████╗ ███████╗ ██████╗██╗  ██╗
 ██╔══██╗██╔══██╗██╔════╝██╔══██╗██╔══██╗██╔════╝██╔════╝██║ ██╔╝
 ██████╔╝██████╔╝█████╗  ██████╔╝██║  ██║█████╗  ██║     █████╔╝
 ██╔═══╝ ██╔══██╗██╔══╝  ██╔═══╝ ██║  ██║██╔══╝  ██║     ██╔═██╗
 ██║     ██║  ██║███████╗██║     ██████╔╝███████╗╚██████╗██║  ██╗
 ╚═╝     ╚═╝  ╚═╝╚══════╝╚═╝     ╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝`

const bannerCompact = "P R E P D E C K"

// RenderBanner returns the PrepDeck banner in the primary color, falling
// back to spaced letters below 68 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 68 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
