package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label string
	// Current and Max are shown as "n/max" after the bar when Max > 0.
	Current, Max int
	Percent     float64
	Fill        color.Color
	Width       int
}

// NewCountBar creates a bar filled to current/max.
func NewCountBar(label string, current, max int, fill color.Color, width int) ProgressBar {
	p := ProgressBar{Label: label, Current: current, Max: max, Fill: fill, Width: width}
	if max > 0 {
		p.Percent = float64(current) / float64(max)
	}
	return p
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	countText := ""
	if p.Max > 0 {
		countText = fmt.Sprintf("  %d/%d", p.Current, p.Max)
	}

	barWidth := p.Width - labelWidth - len(countText)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	if countText != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(countText)
	}

	return result
}
