package summary

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/session"
)

func testSummary() session.Summary {
	return session.Summary{
		SessionID:      "s1",
		Phase:          session.PhaseCompleted,
		Duration:       15 * time.Minute,
		TotalQuestions: 20,
		TotalCorrect:   15,
		Accuracy:       75,
		Modules: []session.ModuleResult{
			{Module: catalog.ModuleQuantitative, Name: "Quantitative Reasoning", Score: 8, Total: 10, Accuracy: 80},
			{Module: catalog.ModuleReading, Name: "Critical Reading", Score: 7, Total: 10, Accuracy: 70},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary())
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary())
	view := s.View(100, 30)
	for _, want := range []string{"Session complete!", "Quantitative Reasoning", "Critical Reading"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Pro unlocks") {
		t.Error("upsell shown without flag")
	}
}

func TestSummaryScreen_Headings(t *testing.T) {
	sum := testSummary()
	sum.Expired = true
	if !strings.Contains(New(sum).View(100, 30), "Time's up!") {
		t.Error("expected expiry heading")
	}

	sum = testSummary()
	sum.Phase = session.PhasePartial
	sum.Modules[1].IsPartial = true
	view := New(sum).View(100, 30)
	if !strings.Contains(view, "ended early") || !strings.Contains(view, "(partial)") {
		t.Error("expected partial heading and marker")
	}
}

func TestSummaryScreen_UpsellAndError(t *testing.T) {
	sum := testSummary()
	sum.Upsell = true
	sum.Err = errors.New("disk full")
	view := New(sum).View(100, 30)
	if !strings.Contains(view, "Pro unlocks") {
		t.Error("expected upsell line")
	}
	if !strings.Contains(view, "disk full") {
		t.Error("expected persistence error")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, code := range []rune{tea.KeyEnter, tea.KeyEscape} {
		s := New(testSummary())
		_, cmd := s.Update(tea.KeyPressMsg{Code: code})
		if cmd == nil {
			t.Fatalf("expected a command for key %v", code)
		}
		if _, ok := cmd().(router.PopToRootMsg); !ok {
			t.Errorf("expected PopToRootMsg for key %v", code)
		}
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary())
	if hints := s.KeyHints(); len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
