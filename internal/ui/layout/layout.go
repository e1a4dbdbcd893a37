// Package layout draws the header, footer and frame around the active screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// CompactWidth is the width below which the header drops its labels.
	CompactWidth = 100
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the player to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The skill tree needs at least %d x %d.\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// bar wraps a single line of content in the rounded card used for both
// header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// spread places left at the start, center in the middle and right at the
// end of a line of the given inner width. Gaps never shrink below one cell.
func spread(left, center, right string, inner int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

// RenderHeader shows the app name, the active screen title and the
// player's reputation and skill points.
func RenderHeader(title string, reputation, skillPoints int, width int) string {
	repLabel, spLabel := " rep", " SP"
	if width < CompactWidth {
		repLabel, spLabel = "", ""
	}

	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  PhysIQ")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("✦ %d%s", reputation, repLabel)) +
		"   " +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("◈ %d%s", skillPoints, spLabel))

	return bar(spread(left, center, right, max(width-4, 0)), width)
}

// RenderFooter renders key hints, with an optional notice pushed to the
// right edge. A notice that does not fit is cut with an ellipsis.
func RenderFooter(hints []KeyHint, notice string, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}
	content := "  " + strings.Join(parts, "   ")

	inner := max(width-4, 0)
	room := inner - lipgloss.Width(content) - 2
	if notice != "" && room > 1 {
		if r := []rune(notice); len(r) > room {
			notice = string(r[:room-1]) + "…"
		}
		n := lipgloss.NewStyle().Foreground(theme.Accent).Render(notice)
		content += strings.Repeat(" ", inner-lipgloss.Width(content)-lipgloss.Width(n)) + n
	}
	return bar(content, width)
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
