package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type picked string

func testMenu() Menu {
	item := func(label, key string, disabled bool) MenuItem {
		return MenuItem{
			Label: label, Hotkey: key, Disabled: disabled, Note: "Pro",
			Action: func() tea.Cmd { return func() tea.Msg { return picked(label) } },
		}
	}
	return NewMenu([]MenuItem{
		item("locked", "x", true),
		item("one", "o", false),
		item("two", "t", false),
	})
}

func press(m Menu, key tea.KeyPressMsg) (Menu, tea.Cmd) {
	return m.Update(key)
}

func TestMenu_StartsOnFirstEnabled(t *testing.T) {
	if m := testMenu(); m.Selected != 1 {
		t.Errorf("Selected = %d, want 1", m.Selected)
	}
}

func TestMenu_WrapsAndSkipsDisabled(t *testing.T) {
	m := testMenu()
	m, _ = press(m, tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Fatalf("Selected = %d, want 2", m.Selected)
	}
	m, _ = press(m, tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 1 {
		t.Errorf("down from the last item should wrap past the disabled one, got %d", m.Selected)
	}
	m, _ = press(m, tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 2 {
		t.Errorf("up from the first enabled item should wrap, got %d", m.Selected)
	}
}

func TestMenu_Hotkey(t *testing.T) {
	m := testMenu()
	m, cmd := press(m, tea.KeyPressMsg{Code: 't', Text: "t"})
	if cmd == nil || cmd() != picked("two") {
		t.Fatal("hotkey should activate its item")
	}
	if m.Selected != 2 {
		t.Errorf("Selected = %d, want 2", m.Selected)
	}

	_, cmd = press(m, tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd != nil {
		t.Error("disabled item must not activate by hotkey")
	}
}

func TestMenu_ViewShowsNoteOnDisabled(t *testing.T) {
	if v := testMenu().View(); !strings.Contains(v, "(Pro)") {
		t.Errorf("expected note in view:\n%s", v)
	}
}
