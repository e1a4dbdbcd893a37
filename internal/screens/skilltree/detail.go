package skilltree

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/progression"
	"github.com/abhisek/physiq/internal/screen"
	"github.com/abhisek/physiq/internal/skillgraph"
	"github.com/abhisek/physiq/internal/ui/layout"
	"github.com/abhisek/physiq/internal/ui/theme"
)

// DetailScreen shows one node: its effects, costs and neighbours.
type DetailScreen struct {
	eng    *engine.Engine
	id     string
	status string
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// NewDetail creates a DetailScreen for node id.
func NewDetail(eng *engine.Engine, id string) *DetailScreen {
	return &DetailScreen{eng: eng, id: id}
}

func (d *DetailScreen) Init() tea.Cmd { return nil }

func (d *DetailScreen) Title() string {
	if n, ok := d.eng.NodeByID(d.id); ok {
		return n.Name
	}
	return d.id
}

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "u", Description: "Unlock"},
		{Key: "a", Description: "Activate"},
		{Key: "d", Description: "Deactivate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch kmsg.String() {
	case "u":
		d.act("unlock", d.eng.Unlock)
	case "a":
		d.act("activate", d.eng.Activate)
	case "d":
		d.act("deactivate", d.eng.Deactivate)
	}
	return d, nil
}

func (d *DetailScreen) act(verb string, op func(string) progression.Result) {
	d.status = Describe(verb, d.Title(), op(d.id))
}

func (d *DetailScreen) View(width, height int) string {
	n, ok := d.eng.Node(d.id)
	if !ok {
		return theme.Hint.Render("  Unknown node " + d.id)
	}
	contentWidth := width - 8
	if contentWidth > 70 {
		contentWidth = 70
	}

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	val := lipgloss.NewStyle().Foreground(theme.Text)
	var b strings.Builder

	b.WriteString(theme.Selected.Render(fmt.Sprintf("  %s  %s", n.State.Icon(), n.Name)))
	b.WriteString("\n")
	b.WriteString(theme.StateStyle(n.State).Render("  " + n.State.Label()))
	if n.Blocked != progression.ReasonNone {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("  (" + ReasonText(n.Blocked) + ")"))
	}
	b.WriteString("\n\n")

	if n.Description != "" {
		b.WriteString(val.Width(contentWidth).PaddingLeft(2).Render(n.Description))
		b.WriteString("\n\n")
	}

	spec := n.SpecializationID()
	if sv, ok := d.eng.Specialization(spec); ok && sv.Name != "" {
		spec = sv.Name
	}
	b.WriteString(dim.Render("  Specialization: ") + val.Render(spec) + "\n")
	b.WriteString(dim.Render("  Tier:           ") + val.Render(fmt.Sprintf("%d", n.Tier)) + "\n")
	if !n.IsCore() {
		b.WriteString(dim.Render("  Unlock cost:    ") + val.Render(fmt.Sprintf("%d reputation", n.Cost.Reputation)) + "\n")
		b.WriteString(dim.Render("  Activate cost:  ") + val.Render(fmt.Sprintf("%d skill points", n.Cost.SkillPoints)) + "\n")
	}
	b.WriteString("\n")

	if len(n.Effects) > 0 {
		b.WriteString(theme.Section.Render("  Effects"))
		b.WriteString("\n")
		for _, e := range n.Effects {
			line := fmt.Sprintf("  %-34s %s", e.Type, e.Value.String())
			if e.Condition != "" {
				line += dim.Render("  when " + e.Condition)
			}
			b.WriteString(val.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	if len(n.Prerequisites) > 0 {
		b.WriteString(theme.Section.Render("  Prerequisites"))
		b.WriteString("\n")
		for _, id := range n.Prerequisites {
			b.WriteString(d.neighbour(id) + "\n")
		}
		b.WriteString("\n")
	}

	if len(n.Dependents) > 0 {
		b.WriteString(theme.Section.Render("  Leads to"))
		b.WriteString("\n")
		for _, id := range n.Dependents {
			b.WriteString(d.neighbour(id) + "\n")
		}
		b.WriteString("\n")
	}

	if n.State == skillgraph.StateActive {
		if stranded := d.eng.StrandedBy(d.id); len(stranded) > 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).
				Render("  Deactivating would strand: " + strings.Join(stranded, ", ")))
			b.WriteString("\n\n")
		}
	}

	if d.status != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("  " + d.status))
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, "\n"+b.String())
}

func (d *DetailScreen) neighbour(id string) string {
	name := id
	if n, ok := d.eng.NodeByID(id); ok {
		name = n.Name
	}
	state, _ := d.eng.NodeState(id)
	return theme.StateStyle(state).Render(fmt.Sprintf("  %s %s", state.Icon(), name))
}
