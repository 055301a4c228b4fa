// Package screen holds the contract between the router and the screens
// it stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepdeck/internal/ui/layout"
)

// Screen is one page of the terminal app. The app draws the header and
// footer; View only fills the area between them.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string

	// Title is shown centered in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Refresher is implemented by screens whose data can go stale while
// another screen sits on top of them. Refresh runs when the screen
// becomes active again after a pop.
type Refresher interface {
	Refresh() tea.Cmd
}
