// Package advice shows the study recommendation and a per-module
// breakdown of the user's accuracy.
package advice

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	recommend "github.com/abhisek/prepdeck/internal/advice"
	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/screens"
	sessionscreen "github.com/abhisek/prepdeck/internal/screens/session"
	sess "github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/layout"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

type adviceLoadedMsg struct {
	Advice recommend.Advice
	Err    error
}

// row is one catalog module and its score, if attempted.
type row struct {
	module    catalog.Module
	score     recommend.ModuleScore
	attempted bool
}

// AdviceScreen displays the recommendation and module rows.
type AdviceScreen struct {
	deps   screens.Deps
	advice recommend.Advice
	rows   []row
	cursor int
	loaded bool
	errMsg string
}

var _ screen.Screen = (*AdviceScreen)(nil)
var _ screen.KeyHintProvider = (*AdviceScreen)(nil)
var _ screen.Refresher = (*AdviceScreen)(nil)

// New creates an AdviceScreen.
func New(deps screens.Deps) *AdviceScreen {
	return &AdviceScreen{deps: deps}
}

func (s *AdviceScreen) Init() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		results, err := deps.MyResults(context.Background())
		if err != nil {
			return adviceLoadedMsg{Err: err}
		}
		return adviceLoadedMsg{Advice: analyzer(deps).Analyze(results)}
	}
}

// Refresh reloads the advice when a practice session started from here
// returns without reaching the summary.
func (s *AdviceScreen) Refresh() tea.Cmd {
	return s.Init()
}

func analyzer(deps screens.Deps) recommend.Analyzer {
	if deps.Analyzer.Multiplier <= 0 {
		return recommend.New(0)
	}
	return deps.Analyzer
}

func (s *AdviceScreen) Title() string {
	return "Study Advice"
}

func (s *AdviceScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "p", Description: "Practice next"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AdviceScreen) setAdvice(a recommend.Advice) {
	s.advice = a
	s.rows = s.rows[:0]
	for _, m := range catalog.All() {
		r := row{module: m}
		for _, ms := range a.Modules {
			if ms.Module == m.ID {
				r.score, r.attempted = ms, true
			}
		}
		s.rows = append(s.rows, r)
	}
}

func (s *AdviceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case adviceLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.setAdvice(msg.Advice)
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.rows)-1 {
				s.cursor++
			}
		case "enter":
			if s.cursor < len(s.rows) {
				detail := newModuleDetail(s.deps, s.rows[s.cursor], s.advice)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: detail} }
			}
		case "p":
			if s.loaded && s.advice.NextModule != "" {
				return s, practice(s.deps, s.advice.NextModule)
			}
		}
	}
	return s, nil
}

func practice(deps screens.Deps, module catalog.ModuleID) tea.Cmd {
	scr := sessionscreen.New(deps, sess.Request{Mode: catalog.ModePractice, Module: module})
	return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
}

func (s *AdviceScreen) View(width, height int) string {
	if s.errMsg != "" {
		return theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
			fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return theme.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
			"\n\n  Crunching your results...")
	}

	cw := components.ContentWidth(width)
	a := s.advice

	var card strings.Builder
	card.WriteString(lipgloss.NewStyle().Foreground(statusColor(a.Status)).Bold(true).
		Render(strings.ToUpper(string(a.Status))))
	if a.HasData() {
		card.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("   mean %.1f%%   projected %.0f", a.MeanAccuracy, a.ProjectedScore)))
	}
	card.WriteString("\n\n")
	card.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 8).Render(a.Advice))
	card.WriteString("\n\n")
	card.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Width(cw - 8).Render("→ " + a.ActionStep))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(card.String(), cw)))
	b.WriteString("\n\n")

	for i, r := range s.rows {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderRow(r, i == s.cursor, cw)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *AdviceScreen) renderRow(r row, selected bool, cw int) string {
	prefix := "  "
	nameStyle := lipgloss.NewStyle().Foreground(theme.Text)
	if selected {
		prefix = "▸ "
		nameStyle = nameStyle.Foreground(theme.Primary).Bold(true)
	}
	name := nameStyle.Render(fmt.Sprintf("%s%-24s", prefix, r.module.Name))

	var tag string
	switch {
	case !r.attempted:
		tag = lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("not attempted")
	default:
		tag = lipgloss.NewStyle().Foreground(components.ColorFor(r.score.Value)).
			Render(fmt.Sprintf("%5.1f%%", r.score.Value))
		if r.module.ID == s.advice.Strength.Module && s.advice.Status != recommend.StatusNeutral {
			tag += lipgloss.NewStyle().Foreground(theme.Success).Render("  strongest")
		}
		if r.module.ID == s.advice.Critical.Module && s.advice.Status != recommend.StatusNeutral {
			tag += lipgloss.NewStyle().Foreground(theme.Error).Render("  focus")
		}
	}
	line := name + "  " + tag
	return lipgloss.NewStyle().Width(cw).Render(line)
}

func statusColor(st recommend.Status) color.Color {
	switch st {
	case recommend.StatusExcellent:
		return theme.Success
	case recommend.StatusGood:
		return theme.Secondary
	case recommend.StatusImproving:
		return theme.Accent
	case recommend.StatusCritical:
		return theme.Error
	}
	return theme.TextDim
}
