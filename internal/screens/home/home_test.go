package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screens"
	"github.com/abhisek/prepdeck/internal/session"
)

func homeFor(tier catalog.Tier) *HomeScreen {
	return New(screens.Deps{User: session.SessionContext{UserID: "u1", Tier: tier}})
}

func down(h *HomeScreen, n int) {
	for range n {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
}

func enter(t *testing.T, h *HomeScreen) tea.Msg {
	t.Helper()
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestHome_StatsLoaded(t *testing.T) {
	h := homeFor(catalog.TierPro)
	h.Update(h.Init()())
	if !h.loaded {
		t.Fatal("expected stats loaded")
	}
	if !strings.Contains(h.View(120, 40), "No sessions yet") {
		t.Error("expected empty stats message")
	}

	h.Update(statsLoadedMsg{Stats: screens.Stats{Sessions: 3, Accuracy: 75, Streak: 2}})
	view := h.View(120, 40)
	if !strings.Contains(view, "3 SESSIONS") || !strings.Contains(view, "2 DAY STREAK") {
		t.Error("expected stats in view")
	}
}

func TestHome_FreeFullSimulationShowsUpgrade(t *testing.T) {
	h := homeFor(catalog.TierFree)
	down(h, 1)
	msg, ok := enter(t, h).(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if msg.Screen.Title() != "Full Simulation" {
		t.Errorf("pushed %q, want upgrade notice", msg.Screen.Title())
	}
	if !strings.Contains(h.View(120, 40), "Pro unlocks") {
		t.Error("expected free plan note")
	}
}

func TestHome_ProFullSimulationStartsSession(t *testing.T) {
	h := homeFor(catalog.TierPro)
	down(h, 1)
	msg := enter(t, h).(router.PushScreenMsg)
	if msg.Screen.Title() != string(catalog.ModeFullSimulation) {
		t.Errorf("pushed %q", msg.Screen.Title())
	}
}

func TestHome_AssignmentDisabledForFree(t *testing.T) {
	h := homeFor(catalog.TierFree)
	down(h, 2)
	// The disabled assignment item is skipped.
	if h.menu.Selected != 3 {
		t.Errorf("Selected = %d, want 3", h.menu.Selected)
	}
}

func TestHome_MenuTargets(t *testing.T) {
	want := []string{"Practice", "", "Assignment", "Study Advice", "Leaderboard", "History"}
	for i, title := range want {
		if title == "" {
			continue
		}
		h := homeFor(catalog.TierAssigned)
		down(h, i)
		msg, ok := enter(t, h).(router.PushScreenMsg)
		if !ok {
			t.Fatalf("item %d: expected PushScreenMsg", i)
		}
		if msg.Screen.Title() != title {
			t.Errorf("item %d pushed %q, want %q", i, msg.Screen.Title(), title)
		}
	}
}
