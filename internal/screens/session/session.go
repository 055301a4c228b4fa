package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/screens"
	"github.com/abhisek/prepdeck/internal/screens/summary"
	sess "github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/layout"
)

// SessionScreen runs one engine from intro to its terminal phase.
type SessionScreen struct {
	deps screens.Deps
	req  sess.Request

	eng  *sess.Engine
	snap sess.Snapshot

	mc         components.MultiChoice
	mcQuestion string

	confirmQuit bool
	finished    bool
	notice      string
	errMsg      string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen for req.
func New(deps screens.Deps, req sess.Request) *SessionScreen {
	return &SessionScreen{deps: deps, req: req}
}

func (s *SessionScreen) Init() tea.Cmd {
	eng, err := s.deps.NewEngine(s.req)
	if err != nil {
		s.errMsg = describeError(err)
		return nil
	}
	s.eng = eng
	return tea.Batch(s.load(), tickCmd())
}

func (s *SessionScreen) Title() string {
	if s.req.Mode == "" {
		return "Session"
	}
	return string(s.req.Mode)
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case s.snap.Phase == sess.PhaseIntro:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Begin"},
			{Key: "Esc", Description: "Leave"},
		}
	case s.snap.Phase == sess.PhaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SessionScreen) load() tea.Cmd {
	eng := s.eng
	return func() tea.Msg {
		return loadedMsg{Err: eng.Load(context.Background())}
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = describeError(msg.Err)
			return s, nil
		}
		s.refresh()
		return s, nil

	case timerTickMsg:
		if s.eng == nil || s.finished || s.errMsg != "" {
			return s, nil
		}
		s.eng.Tick()
		s.refresh()
		if s.snap.Phase.Terminal() {
			return s, s.finish()
		}
		return s, tickCmd()

	case tea.ResumeMsg:
		if s.eng == nil {
			return s, nil
		}
		if err := s.eng.Resume(); err != nil {
			s.notice = err.Error()
		}
		s.refresh()
		if s.snap.Phase.Terminal() {
			return s, s.finish()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// refresh copies the engine state and resets the selector when a new
// question comes up.
func (s *SessionScreen) refresh() {
	s.snap = s.eng.Snapshot()
	if s.snap.Current != nil && s.snap.Current.ID != s.mcQuestion {
		s.mc = components.NewMultiChoice(*s.snap.Current)
		s.mcQuestion = s.snap.Current.ID
	}
	if s.snap.Feedback != nil {
		s.mc.Reveal(s.snap.Feedback.SelectedID, s.snap.Feedback.CorrectOptionID)
	}
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.eng == nil || s.finished {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.exit()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.snap.Phase {
	case sess.PhaseIntro:
		switch key {
		case "enter", "space", " ":
			s.notice = ""
			if err := s.eng.Start(); err != nil {
				s.notice = err.Error()
			}
			s.refresh()
		case "esc":
			return s, s.exit()
		}

	case sess.PhaseActive:
		switch key {
		case "esc":
			s.confirmQuit = true
		case "enter":
			return s.answer()
		case "a", "b", "c", "d", "A", "B", "C", "D", "1", "2", "3", "4":
			if s.mc.Select(choiceIndex(key)) {
				return s.answer()
			}
		default:
			s.mc, _ = s.mc.Update(msg)
		}

	case sess.PhaseFeedback:
		if key == "esc" {
			s.confirmQuit = true
			return s, nil
		}
		if err := s.eng.Next(context.Background()); err != nil {
			s.notice = describeError(err)
		}
		s.refresh()
		if s.snap.Phase.Terminal() {
			return s, s.finish()
		}

	default:
		if s.snap.Phase.Terminal() {
			return s, s.finish()
		}
	}
	return s, nil
}

func (s *SessionScreen) answer() (screen.Screen, tea.Cmd) {
	_, err := s.eng.Answer(s.mc.SelectedID())
	s.refresh()
	if s.snap.Phase.Terminal() {
		return s, s.finish()
	}
	if err != nil {
		s.notice = err.Error()
	}
	return s, nil
}

// exit ends the session. With nothing recorded there is no summary to
// show, so the screen just closes.
func (s *SessionScreen) exit() tea.Cmd {
	_ = s.eng.Exit(context.Background())
	s.refresh()
	if len(s.snap.Results) == 0 && s.snap.Err == nil {
		s.finished = true
		s.eng.Close()
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s.finish()
}

func (s *SessionScreen) finish() tea.Cmd {
	if s.finished {
		return nil
	}
	s.finished = true
	s.eng.Close()
	sum := sess.BuildSummary(s.snap, s.deps.Now())
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func choiceIndex(key string) int {
	switch key {
	case "a", "A", "1":
		return 0
	case "b", "B", "2":
		return 1
	case "c", "C", "3":
		return 2
	case "d", "D", "4":
		return 3
	}
	return -1
}

func describeError(err error) string {
	var perr *sess.PersistenceError
	switch {
	case errors.Is(err, sess.ErrNotEntitled):
		return "Your plan does not include this mode. Upgrade to Pro to unlock it."
	case errors.Is(err, sess.ErrPoolExhausted):
		return "No questions are available for this module yet."
	case errors.Is(err, sess.ErrAssignmentNotFound):
		return "That assignment code was not found."
	case errors.As(err, &perr):
		return fmt.Sprintf("Your %s score (%d/%d) was kept but could not be saved.",
			catalog.DisplayName(perr.Result.ModuleID), perr.Result.Score, perr.Result.TotalQuestions)
	}
	return err.Error()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
