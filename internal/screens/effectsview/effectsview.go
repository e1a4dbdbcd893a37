package effectsview

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/effects"
	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/router"
	"github.com/abhisek/physiq/internal/screen"
	"github.com/abhisek/physiq/internal/ui/layout"
	"github.com/abhisek/physiq/internal/ui/theme"
)

// Screen lists aggregated effect values and the nodes feeding them.
type Screen struct {
	eng     *engine.Engine
	showAll bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the effects screen.
func New(eng *engine.Engine) *Screen {
	return &Screen{eng: eng}
}

func (s *Screen) Init() tea.Cmd { return nil }
func (s *Screen) Title() string { return "Active Effects" }

func (s *Screen) KeyHints() []layout.KeyHint {
	desc := "Show all"
	if s.showAll {
		desc = "Only active"
	}
	return []layout.KeyHint{
		{Key: "t", Description: desc},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "t":
		s.showAll = !s.showAll
	case "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

type line struct {
	t       effects.Type
	value   effects.Value
	sources []effects.Contribution
}

// lines returns the effect rows in display order. Types without an active
// contributor are included only when all is set.
func (s *Screen) lines() []line {
	var out []line
	for t, v := range s.eng.Effects() {
		contribs := s.eng.Contributions(t)
		if len(contribs) == 0 && !s.showAll {
			continue
		}
		out = append(out, line{t: t, value: v, sources: contribs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].t < out[j].t })
	return out
}

func (s *Screen) View(width, height int) string {
	if !s.eng.Ready() {
		return theme.Hint.Render("  The skill tree is not loaded.")
	}
	rows := s.lines()
	if len(rows) == 0 {
		return theme.Hint.Render("\n  No active effects. Activate skills in the skill tree.")
	}

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder
	b.WriteString("\n")
	shown := 1
	for _, r := range rows {
		if shown >= height {
			break
		}
		name := lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("  %-36s", r.t))
		val := theme.Good.Render(r.value.String())
		if len(r.sources) == 0 {
			val = dim.Render(r.value.String())
		}
		b.WriteString(name + " " + val + "\n")
		shown++
		if len(r.sources) > 0 && shown < height {
			ids := make([]string, 0, len(r.sources))
			for _, c := range r.sources {
				label := c.NodeID
				if n, ok := s.eng.NodeByID(c.NodeID); ok {
					label = n.Name
				}
				if c.Condition != "" {
					label += " (when " + c.Condition + ")"
				}
				ids = append(ids, label)
			}
			b.WriteString(dim.Render("    from "+strings.Join(ids, ", ")) + "\n")
			shown++
		}
	}
	return b.String()
}
