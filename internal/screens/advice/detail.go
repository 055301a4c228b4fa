package advice

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	recommend "github.com/abhisek/prepdeck/internal/advice"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/screens"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/layout"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// ModuleDetailScreen shows one module's aggregate and offers practice.
type ModuleDetailScreen struct {
	deps   screens.Deps
	row    row
	advice recommend.Advice
}

var _ screen.Screen = (*ModuleDetailScreen)(nil)
var _ screen.KeyHintProvider = (*ModuleDetailScreen)(nil)

func newModuleDetail(deps screens.Deps, r row, a recommend.Advice) *ModuleDetailScreen {
	return &ModuleDetailScreen{deps: deps, row: r, advice: a}
}

func (d *ModuleDetailScreen) Init() tea.Cmd { return nil }
func (d *ModuleDetailScreen) Title() string { return d.row.module.Name }

func (d *ModuleDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "p":
			return d, practice(d.deps, d.row.module.ID)
		case "esc", "q":
			return d, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return d, nil
}

func (d *ModuleDetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Practice"},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *ModuleDetailScreen) View(width, height int) string {
	m := d.row.module
	contentWidth := min(width-8, 70)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  " + m.Name))
	b.WriteString("\n\n")

	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	valStyle := lipgloss.NewStyle().Foreground(theme.Text)

	if !d.row.attempted {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("  No results for this module yet."))
		b.WriteString("\n\n")
	} else {
		sc := d.row.score
		b.WriteString(components.AccuracyBar("  Accuracy", sc.Value, contentWidth).View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("  Correct:   ") + valStyle.Render(fmt.Sprintf("%d of %d", sc.Score, sc.Total)) + "\n")
		b.WriteString(dimStyle.Render("  Sessions:  ") + valStyle.Render(fmt.Sprintf("%d", sc.Sessions)) + "\n")
		b.WriteString(dimStyle.Render("  Band:      ") + valStyle.Render(string(recommend.Band(sc.Value))) + "\n")
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("  Practice:  ") +
		valStyle.Render(fmt.Sprintf("%d questions, %d s each", m.DefaultItems, m.PerItemSeconds)) + "\n\n")

	if m.ID == d.advice.NextModule {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render("  Recommended next"))
		b.WriteString("\n")
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, "\n"+b.String())
}
