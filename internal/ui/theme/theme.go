package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/skillgraph"
)

// Color palette, tuned for a dark terminal.
var (
	Primary   = lipgloss.Color("#38BDF8") // Sky
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Section = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// SpecColor returns the specialization's display color, falling back to
// Secondary when the graph leaves it unset.
func SpecColor(hex string) lipgloss.Style {
	if hex == "" {
		return lipgloss.NewStyle().Foreground(Secondary)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// StateStyle colors a node state label: active green, unlocked teal,
// unlockable amber, locked dim.
func StateStyle(state skillgraph.NodeState) lipgloss.Style {
	switch state {
	case skillgraph.StateActive:
		return lipgloss.NewStyle().Foreground(Success)
	case skillgraph.StateUnlocked:
		return lipgloss.NewStyle().Foreground(Secondary)
	case skillgraph.StateUnlockable:
		return lipgloss.NewStyle().Foreground(Accent)
	default:
		return lipgloss.NewStyle().Foreground(TextDim)
	}
}
