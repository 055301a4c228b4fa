// Package history lists the user's past sessions with their per-module
// results.
package history

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/screens"
	"github.com/abhisek/prepdeck/internal/store"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/layout"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// maxSessions caps how many sessions the list shows.
const maxSessions = 50

type historyLoadedMsg struct {
	Results []store.Result
	Err     error
}

// SessionRow groups the Results written by one session.
type SessionRow struct {
	SessionID string
	Mode      catalog.Mode
	At        time.Time
	Score     int
	Total     int
	Partial   bool
	Results   []store.Result
}

// Accuracy returns the pooled accuracy across the session's modules.
func (r SessionRow) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total) * 100
}

// GroupSessions folds results into one row per session, newest first.
func GroupSessions(results []store.Result) []SessionRow {
	index := make(map[string]int)
	var rows []SessionRow
	for _, r := range results {
		key := r.SessionID
		if key == "" {
			key = r.ID
		}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, SessionRow{SessionID: key, Mode: r.Mode})
		}
		row := &rows[i]
		row.Results = append(row.Results, r)
		row.Score += r.Score
		row.Total += r.TotalQuestions
		row.Partial = row.Partial || r.IsPartial
		if r.CompletedAt.After(row.At) {
			row.At = r.CompletedAt
		}
	}
	slices.SortStableFunc(rows, func(a, b SessionRow) int {
		return b.At.Compare(a.At)
	})
	if len(rows) > maxSessions {
		rows = rows[:maxSessions]
	}
	return rows
}

// HistoryScreen displays past sessions.
type HistoryScreen struct {
	deps     screens.Deps
	sessions []SessionRow
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(deps screens.Deps) *HistoryScreen {
	return &HistoryScreen{
		deps:     deps,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		results, err := deps.MyResults(context.Background())
		return historyLoadedMsg{Results: results, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = GroupSessions(msg.Results)
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
			fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return theme.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
			"\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return theme.Centered(width, theme.Hint, "\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, row := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		partial := ""
		if row.Partial {
			partial = "  (partial)"
		}
		line := fmt.Sprintf("%s%s  %-15s  %d/%d  %.0f%%%s",
			prefix, row.At.Format("Jan 02, 2006"), row.Mode, row.Score, row.Total, row.Accuracy(), partial)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, r := range row.Results {
				detail := fmt.Sprintf("    %-24s %d/%d", catalog.DisplayName(r.ModuleID), r.Score, r.TotalQuestions)
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(components.ColorFor(r.Accuracy())).Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}
