package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/ui/theme"
)

const titleFull = `╔═╗┬ ┬┬ ┬┌─┐╦╔═╗
╠═╝├─┤└┬┘└─┐║║═╬╗
╩  ┴ ┴ ┴ └─┘╩╚═╝╚`

const titleCompact = "P · H · Y · S · I · Q"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

type stats struct {
	version     string
	unlocked    int
	total       int
	active      int
	specialists int
}

// renderStatsBar renders the player's standing in a bordered box.
func renderStatsBar(s stats, cw int, compact bool) string {
	unlockStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	activeStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	specStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			unlockStyle.Render(fmt.Sprintf("⭐%d/%d", s.unlocked, s.total)),
			activeStyle.Render(fmt.Sprintf("⚡%d", s.active)),
			specStyle.Render(fmt.Sprintf("✦%d", s.specialists)),
		)
	} else {
		line = fmt.Sprintf("%s  %s  %s",
			unlockStyle.Render(fmt.Sprintf("⭐ %d/%d UNLOCKED", s.unlocked, s.total)),
			activeStyle.Render(fmt.Sprintf("⚡ %d ACTIVE", s.active)),
			specStyle.Render(fmt.Sprintf("✦ %d SPECIALIZED", s.specialists)),
		)
	}
	if s.version != "" && !compact {
		line += "\n" + theme.Hint.Render("tree version "+s.version)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Render(line)
}

func renderFrame(content string, width, height int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
