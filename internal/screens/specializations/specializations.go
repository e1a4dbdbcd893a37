package specializations

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/router"
	"github.com/abhisek/physiq/internal/screen"
	"github.com/abhisek/physiq/internal/specialization"
	"github.com/abhisek/physiq/internal/ui/components"
	"github.com/abhisek/physiq/internal/ui/layout"
	"github.com/abhisek/physiq/internal/ui/theme"
)

// Screen shows each specialization with bars towards its two milestones.
type Screen struct {
	eng *engine.Engine
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the specializations screen.
func New(eng *engine.Engine) *Screen {
	return &Screen{eng: eng}
}

func (s *Screen) Init() tea.Cmd  { return nil }
func (s *Screen) Title() string  { return "Specializations" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "q" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	tv, ok := s.eng.Tree()
	if !ok {
		return theme.Hint.Render("  The skill tree is not loaded.")
	}
	barWidth := width - 8
	if barWidth > 60 {
		barWidth = 60
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, sv := range tv.Specializations {
		style := theme.SpecColor(sv.Color).Bold(true)
		b.WriteString("  " + style.Render(sv.Name) + "  " + levelBadge(sv.Level) + "\n")
		if sv.Description != "" {
			b.WriteString(theme.Hint.Render("  "+sv.Description) + "\n")
		}
		fill := lipgloss.Color(sv.Color)
		if sv.Color == "" {
			fill = theme.Secondary
		}
		if sv.Threshold > 0 {
			b.WriteString("  " + components.NewCountBar("Specialist", sv.Count, sv.Threshold, fill, barWidth).View() + "\n")
		}
		if sv.MasteryThreshold > 0 {
			b.WriteString("  " + components.NewCountBar("Master    ", sv.Count, sv.MasteryThreshold, fill, barWidth).View() + "\n")
		}
		if sv.Threshold <= 0 && sv.MasteryThreshold <= 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %d unlocked", sv.Count)) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func levelBadge(l specialization.Level) string {
	switch l {
	case specialization.LevelMaster:
		return theme.Good.Render("★ MASTER")
	case specialization.LevelSpecialist:
		return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("✦ SPECIALIST")
	}
	return ""
}
