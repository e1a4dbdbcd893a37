package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu, with the hint of the selected item beneath it.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteString("\n")
	}
	if m.Selected >= 0 && m.Selected < len(m.Items) && m.Items[m.Selected].Hint != "" {
		b.WriteString("\n" + theme.Hint.Render("  "+m.Items[m.Selected].Hint) + "\n")
	}
	return b.String()
}
