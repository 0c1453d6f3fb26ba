package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m MenuModel, key tea.KeyType) MenuModel {
	next, _ := m.Update(tea.KeyMsg{Type: key})
	return next.(MenuModel)
}

func TestMenuModel(t *testing.T) {
	m := NewMenuModel("Pick", []MenuOption{
		{Label: "First", Value: "a"},
		{Label: "Second", Value: "b"},
	})

	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown) // clamps at last option
	m = press(m, tea.KeyEnter)

	if m.Selected() != "b" {
		t.Errorf("Selected() = %q, want b", m.Selected())
	}
}

func TestMenuModel_Cancel(t *testing.T) {
	m := NewMenuModel("Pick", []MenuOption{{Label: "Only", Value: "a"}})
	m = press(m, tea.KeyEsc)

	if m.Selected() != "" {
		t.Errorf("Selected() = %q, want empty on cancel", m.Selected())
	}
}

func TestMenuModel_View(t *testing.T) {
	view := NewMenuModel("Pick one", []MenuOption{{Label: "Alpha", Value: "a"}}).View()

	for _, want := range []string{"Pick one", "Alpha", "> "} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}
