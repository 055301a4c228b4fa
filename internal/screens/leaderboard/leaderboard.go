// Package leaderboard shows every user ranked by points, with the current
// user's row highlighted.
package leaderboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	lb "github.com/abhisek/prepdeck/internal/leaderboard"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/screens"
	"github.com/abhisek/prepdeck/internal/ui/layout"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

type boardLoadedMsg struct {
	Entries []lb.Entry
	Err     error
}

// LeaderboardScreen displays the ranked board.
type LeaderboardScreen struct {
	deps         screens.Deps
	entries      []lb.Entry
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*LeaderboardScreen)(nil)
var _ screen.KeyHintProvider = (*LeaderboardScreen)(nil)

// New creates a new LeaderboardScreen.
func New(deps screens.Deps) *LeaderboardScreen {
	return &LeaderboardScreen{deps: deps}
}

func (s *LeaderboardScreen) Init() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		if deps.Results == nil {
			return boardLoadedMsg{Entries: lb.Rank(deps.Reference)}
		}
		results, err := deps.Results.ListAll(context.Background())
		if err != nil {
			return boardLoadedMsg{Err: err}
		}
		return boardLoadedMsg{Entries: lb.Board(deps.Reference, results, deps.Now())}
	}
}

func (s *LeaderboardScreen) Title() string {
	return "Leaderboard"
}

func (s *LeaderboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "m", Description: "Jump to me"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LeaderboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.entries = msg.Entries
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.entries)-1 {
				s.scrollOffset++
			}
		case "m":
			if me, ok := lb.Find(s.entries, s.deps.User.UserID); ok {
				s.scrollOffset = me.Rank - 1
			}
		}
	}
	return s, nil
}

func (s *LeaderboardScreen) View(width, height int) string {
	if s.errMsg != "" {
		return theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
			fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return theme.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
			"\n\n  Loading leaderboard...")
	}
	if len(s.entries) == 0 {
		return theme.Centered(width, theme.Hint, "\n\n  Nobody has scored yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	me, ranked := lb.Find(s.entries, s.deps.User.UserID)
	if ranked {
		b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
			fmt.Sprintf("You are #%d of %d with %d points", me.Rank, len(s.entries), me.Points)))
	} else {
		b.WriteString(theme.Centered(width, theme.Hint, "Finish a session to join the board."))
	}
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	maxVisible := max(height-10, 3)
	start := s.scrollOffset
	end := min(start+maxVisible, len(s.entries))

	for i := start; i < end; i++ {
		e := s.entries[i]
		line := fmt.Sprintf("  #%-4d %-24s %6d pts  ★ %d", e.Rank, truncate(e.DisplayName, 24), e.Points, e.Streak)
		style := rankStyle(e.Rank)
		if e.UserID == s.deps.User.UserID {
			style = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Accent).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if end < len(s.entries) {
		b.WriteString("\n")
		b.WriteString(theme.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
			fmt.Sprintf("... %d more", len(s.entries)-end)))
	}

	return b.String()
}

func rankStyle(rank int) lipgloss.Style {
	switch rank {
	case 1:
		return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	case 2, 3:
		return lipgloss.NewStyle().Foreground(theme.Secondary)
	}
	return lipgloss.NewStyle().Foreground(theme.Text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
