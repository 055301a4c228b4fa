package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/sampler"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/screens"
	sess "github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/store"
)

// memResults implements store.ResultRepo for testing. The first failN
// appends fail.
type memResults struct {
	results []store.Result
	failN   int
}

func (m *memResults) Append(_ context.Context, r store.Result) (string, error) {
	if m.failN > 0 {
		m.failN--
		return "", errors.New("disk full")
	}
	m.results = append(m.results, r)
	return r.ID, nil
}

func (m *memResults) ListByUser(_ context.Context, userID string) ([]store.Result, error) {
	var out []store.Result
	for _, r := range m.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memResults) ListAll(context.Context) ([]store.Result, error) {
	return m.results, nil
}

func testDeps(t *testing.T, n int, tier catalog.Tier) (screens.Deps, *memResults) {
	t.Helper()
	var qs []bank.Question
	for _, m := range catalog.Order() {
		for i := 0; i < n; i++ {
			qs = append(qs, bank.Question{
				ID:              fmt.Sprintf("%s-%d", m, i),
				ModuleID:        m,
				Prompt:          fmt.Sprintf("What is %d?", i),
				Options:         []bank.Option{{ID: "x", Text: "right"}, {ID: "y", Text: "wrong"}},
				CorrectOptionID: "x",
				Explanation:     "It just is.",
			})
		}
	}
	b, err := bank.NewMemoryBank(qs...)
	if err != nil {
		t.Fatal(err)
	}
	results := &memResults{}
	return screens.Deps{
		Sampler: sampler.New(sampler.Config{Bank: b}),
		Results: results,
		User:    sess.SessionContext{UserID: "u1", Tier: tier},
	}, results
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// started returns a screen that has loaded and shown its intro.
func started(t *testing.T, deps screens.Deps, req sess.Request) *SessionScreen {
	t.Helper()
	s := New(deps, req)
	if cmd := s.Init(); cmd == nil {
		t.Fatalf("expected init command, err=%q", s.errMsg)
	}
	s.Update(loadedMsg{Err: s.eng.Load(context.Background())})
	if s.snap.Phase != sess.PhaseIntro {
		t.Fatalf("phase = %v, want intro", s.snap.Phase)
	}
	return s
}

func TestSessionScreen_PracticeToSummary(t *testing.T) {
	deps, results := testDeps(t, 2, catalog.TierFree)
	s := started(t, deps, sess.Request{Mode: catalog.ModePractice, Module: catalog.ModuleReading})

	if !strings.Contains(s.View(100, 30), "Critical Reading") {
		t.Error("intro should name the module")
	}

	s.Update(specialKey(tea.KeyEnter))
	if s.snap.Phase != sess.PhaseActive {
		t.Fatalf("phase = %v, want active", s.snap.Phase)
	}

	var cmd tea.Cmd
	for i := 0; i < 2; i++ {
		s.Update(keyPress('a'))
		if s.snap.Phase != sess.PhaseFeedback {
			t.Fatalf("q%d: phase = %v, want feedback", i, s.snap.Phase)
		}
		if !strings.Contains(s.View(100, 30), "Correct!") {
			t.Errorf("q%d: expected correct feedback", i)
		}
		_, cmd = s.Update(keyPress(' '))
	}

	if cmd == nil {
		t.Fatal("expected navigation to summary")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Session Summary" {
		t.Errorf("replaced with %q", msg.Screen.Title())
	}
	if len(results.results) != 1 || results.results[0].Score != 2 {
		t.Errorf("results = %+v", results.results)
	}
}

func TestSessionScreen_WrongAnswerShowsFeedback(t *testing.T) {
	deps, _ := testDeps(t, 2, catalog.TierFree)
	s := started(t, deps, sess.Request{Mode: catalog.ModePractice, Module: catalog.ModuleWriting})
	s.Update(specialKey(tea.KeyEnter))

	s.Update(keyPress('b'))
	if s.snap.Feedback == nil || s.snap.Feedback.Correct {
		t.Fatal("expected incorrect feedback")
	}
	if !strings.Contains(s.View(100, 30), "Not quite") {
		t.Error("expected 'Not quite'")
	}
}

func TestSessionScreen_QuitConfirmWritesPartial(t *testing.T) {
	deps, results := testDeps(t, 3, catalog.TierFree)
	s := started(t, deps, sess.Request{Mode: catalog.ModePractice, Module: catalog.ModuleReading})
	s.Update(specialKey(tea.KeyEnter))
	s.Update(keyPress('a'))
	s.Update(keyPress(' '))

	s.Update(specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("expected quit confirm")
	}
	s.Update(keyPress('n'))
	if s.confirmQuit {
		t.Fatal("expected confirm dismissed")
	}

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected summary navigation")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg")
	}
	if len(results.results) != 1 || !results.results[0].IsPartial {
		t.Fatalf("results = %+v", results.results)
	}
	if results.results[0].Score != 1 || results.results[0].TotalQuestions != 3 {
		t.Errorf("partial = %d/%d", results.results[0].Score, results.results[0].TotalQuestions)
	}
}

func TestSessionScreen_LeaveFromIntroPops(t *testing.T) {
	deps, results := testDeps(t, 2, catalog.TierFree)
	s := started(t, deps, sess.Request{Mode: catalog.ModePractice, Module: catalog.ModuleReading})

	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if len(results.results) != 0 {
		t.Error("abandoning from the intro must not write a result")
	}
}

func TestSessionScreen_NotEntitled(t *testing.T) {
	deps, _ := testDeps(t, 2, catalog.TierFree)
	s := New(deps, sess.Request{Mode: catalog.ModeFullSimulation})
	if cmd := s.Init(); cmd != nil {
		t.Error("expected no command when the engine cannot be built")
	}
	if !strings.Contains(s.View(100, 30), "Upgrade to Pro") {
		t.Error("expected entitlement message")
	}
	var scr screen.Screen = s
	_, cmd := scr.Update(keyPress('x'))
	if cmd == nil {
		t.Fatal("expected pop on any key")
	}
}

func TestSessionScreen_EmptyPool(t *testing.T) {
	deps, _ := testDeps(t, 0, catalog.TierFree)
	s := New(deps, sess.Request{Mode: catalog.ModePractice, Module: catalog.ModuleReading})
	s.Init()
	s.Update(loadedMsg{Err: s.eng.Load(context.Background())})
	if !strings.Contains(s.View(100, 30), "No questions") {
		t.Error("expected empty pool message")
	}
}

func TestSessionScreen_FullSimulationShowsNextIntro(t *testing.T) {
	deps, results := testDeps(t, 1, catalog.TierPro)
	s := started(t, deps, sess.Request{Mode: catalog.ModeFullSimulation})
	s.Update(specialKey(tea.KeyEnter))
	s.Update(keyPress('a'))
	s.Update(keyPress(' '))

	if s.snap.Phase != sess.PhaseIntro || s.snap.ModuleNumber != 2 {
		t.Fatalf("phase=%v module=%d, want intro of module 2", s.snap.Phase, s.snap.ModuleNumber)
	}
	if !strings.Contains(s.View(100, 30), "Module 2 of") {
		t.Error("expected module counter")
	}
	if len(results.results) != 1 {
		t.Errorf("results = %d, want 1", len(results.results))
	}
}

func TestSessionScreen_FailedSaveWarnsAndContinues(t *testing.T) {
	deps, results := testDeps(t, 1, catalog.TierPro)
	results.failN = 2
	s := started(t, deps, sess.Request{Mode: catalog.ModeFullSimulation})
	s.Update(specialKey(tea.KeyEnter))
	s.Update(keyPress('a'))
	s.Update(keyPress(' '))

	if s.snap.Phase != sess.PhaseIntro || s.snap.ModuleNumber != 2 {
		t.Fatalf("phase=%v module=%d, want intro of module 2", s.snap.Phase, s.snap.ModuleNumber)
	}
	if !strings.Contains(s.View(100, 30), "could not be saved") {
		t.Error("expected save warning on the next intro")
	}
	if len(results.results) != 0 {
		t.Errorf("results = %d, want 0 stored", len(results.results))
	}

	s.Update(specialKey(tea.KeyEnter))
	if s.notice != "" {
		t.Errorf("notice = %q, want cleared once the module starts", s.notice)
	}
}

func TestChoiceIndex(t *testing.T) {
	cases := map[string]int{"a": 0, "B": 1, "3": 2, "d": 3, "z": -1}
	for key, want := range cases {
		if got := choiceIndex(key); got != want {
			t.Errorf("choiceIndex(%q) = %d, want %d", key, got, want)
		}
	}
}
