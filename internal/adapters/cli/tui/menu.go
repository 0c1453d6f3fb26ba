package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// MenuOption represents a menu choice
type MenuOption struct {
	Label string
	Value string
}

// MenuModel is the bubbletea model for a single-choice menu
type MenuModel struct {
	title    string
	options  []MenuOption
	cursor   int
	selected string
}

// NewMenuModel creates a new menu
func NewMenuModel(title string, options []MenuOption) MenuModel {
	return MenuModel{
		title:   title,
		options: options,
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.options) > 0 {
			m.selected = m.options[m.cursor].Value
		}
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) View() string {
	var b strings.Builder
	b.WriteString(Title("? "+m.title) + "\n\n")

	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString("> " + selectedStyle.Render(opt.Label) + "\n")
		} else {
			b.WriteString("  " + normalStyle.Render(opt.Label) + "\n")
		}
	}

	b.WriteString("\n" + Muted("(up/down to navigate, enter to select, q to quit)") + "\n")
	return b.String()
}

// Selected returns the selected value, empty if cancelled
func (m MenuModel) Selected() string {
	return m.selected
}

// RunMenu displays the menu and returns the selection
func RunMenu(title string, options []MenuOption) (string, error) {
	finalModel, err := tea.NewProgram(NewMenuModel(title, options)).Run()
	if err != nil {
		return "", err
	}
	return finalModel.(MenuModel).Selected(), nil
}
