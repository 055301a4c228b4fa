package assignment

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screens"
)

func typeText(e *EntryScreen, s string) {
	for _, r := range s {
		e.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestEntryScreen_EmptyCode(t *testing.T) {
	e := New(screens.Deps{})
	_, cmd := e.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty code should not start a session")
	}
	if !strings.Contains(e.View(80, 20), "Enter the code") {
		t.Error("expected prompt for a code")
	}
}

func TestEntryScreen_StartsAssignedSession(t *testing.T) {
	e := New(screens.Deps{})
	typeText(e, "hw-1")
	if got := e.input.Value(); got != "hw-1" {
		t.Fatalf("Value() = %q", got)
	}

	_, cmd := e.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "assigned" {
		t.Errorf("Title() = %q", msg.Screen.Title())
	}
}

func TestEntryScreen_DropsCharactersOutsideCodes(t *testing.T) {
	e := New(screens.Deps{})
	typeText(e, "a b!c")
	if got := e.input.Value(); got != "abc" {
		t.Errorf("Value() = %q, want abc", got)
	}
}
