package skilltree

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/progression"
	"github.com/abhisek/physiq/internal/router"
	"github.com/abhisek/physiq/internal/screen"
	"github.com/abhisek/physiq/internal/skillgraph"
	"github.com/abhisek/physiq/internal/specialization"
	"github.com/abhisek/physiq/internal/ui/components"
	"github.com/abhisek/physiq/internal/ui/layout"
	"github.com/abhisek/physiq/internal/ui/theme"
)

type rowKind int

const (
	rowSpecHeader rowKind = iota
	rowNode
)

type row struct {
	kind rowKind
	spec engine.SpecializationView
	node engine.NodeView
}

// SkillTreeScreen lists the graph grouped by specialization and lets the
// player unlock, activate and deactivate nodes in place.
type SkillTreeScreen struct {
	eng          *engine.Engine
	rows         []row
	cursor       int
	scrollOffset int

	filter    components.TextInput
	filtering bool
	status    string
}

var _ screen.Screen = (*SkillTreeScreen)(nil)
var _ screen.KeyHintProvider = (*SkillTreeScreen)(nil)
var _ screen.Refresher = (*SkillTreeScreen)(nil)

// New creates a SkillTreeScreen over eng.
func New(eng *engine.Engine) *SkillTreeScreen {
	s := &SkillTreeScreen{
		eng:    eng,
		filter: components.NewTextInput("filter by name", false, 32),
	}
	s.filter.Blur()
	s.refresh("")
	return s
}

func (s *SkillTreeScreen) Init() tea.Cmd {
	return nil
}

func (s *SkillTreeScreen) Title() string {
	return "Skill Tree"
}

func (s *SkillTreeScreen) KeyHints() []layout.KeyHint {
	if s.filtering {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "u", Description: "Unlock"},
		{Key: "a", Description: "Activate"},
		{Key: "d", Description: "Deactivate"},
		{Key: "/", Description: "Filter"},
		{Key: "Enter", Description: "Details"},
	}
}

func (s *SkillTreeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if s.filtering {
		return s, s.updateFilter(kmsg)
	}

	switch kmsg.String() {
	case "up", "k":
		s.moveCursor(-1)
	case "down", "j":
		s.moveCursor(1)
	case "tab":
		s.nextSpec()
	case "/":
		s.filtering = true
		return s, s.filter.Focus()
	case "u":
		s.act("unlock", s.eng.Unlock)
	case "a":
		s.act("activate", s.eng.Activate)
	case "d":
		s.act("deactivate", s.eng.Deactivate)
	case "enter":
		if id := s.selectedID(); id != "" {
			detail := NewDetail(s.eng, id)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: detail} }
		}
	case "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *SkillTreeScreen) updateFilter(kmsg tea.KeyMsg) tea.Cmd {
	if kmsg.String() == "enter" {
		s.filtering = false
		s.filter.Blur()
		s.refresh(s.selectedID())
		return nil
	}
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(kmsg)
	s.refresh(s.selectedID())
	return cmd
}

// act runs a node operation on the selected node and records the outcome
// in the status line.
func (s *SkillTreeScreen) act(verb string, op func(string) progression.Result) {
	id := s.selectedID()
	if id == "" {
		return
	}
	name := s.rows[s.cursor].node.Name
	s.status = Describe(verb, name, op(id))
	s.refresh(id)
}

// Describe turns an operation result into a one-line status message.
func Describe(verb, name string, res progression.Result) string {
	switch {
	case res.Changed():
		return fmt.Sprintf("%s: %s", pastTense(verb), name)
	case res.OK:
		return fmt.Sprintf("%s: %s", name, ReasonText(res.Reason))
	default:
		return fmt.Sprintf("Cannot %s %s: %s", verb, name, ReasonText(res.Reason))
	}
}

func pastTense(verb string) string {
	switch verb {
	case "unlock":
		return "Unlocked"
	case "activate":
		return "Activated"
	case "deactivate":
		return "Deactivated"
	}
	return verb
}

// ReasonText renders a rejection reason for humans.
func ReasonText(r progression.Reason) string {
	return strings.ReplaceAll(string(r), "_", " ")
}

// refresh rebuilds the rows from the engine, keeping the cursor on keep
// when it is still listed.
// Refresh reloads rows after another screen changed node state.
func (s *SkillTreeScreen) Refresh() { s.refresh(s.selectedID()) }

func (s *SkillTreeScreen) refresh(keep string) {
	tv, ok := s.eng.Tree()
	if !ok {
		s.rows = nil
		s.cursor = 0
		return
	}

	query := strings.ToLower(strings.TrimSpace(s.filter.Value()))
	bySpec := make(map[string][]engine.NodeView)
	for _, n := range tv.Nodes {
		if query != "" && !strings.Contains(strings.ToLower(n.Name), query) && !strings.Contains(n.ID, query) {
			continue
		}
		sid := n.SpecializationID()
		bySpec[sid] = append(bySpec[sid], n)
	}

	var rows []row
	for _, sv := range tv.Specializations {
		nodes := bySpec[sv.ID]
		if len(nodes) == 0 {
			continue
		}
		sort.SliceStable(nodes, func(i, j int) bool {
			if nodes[i].Tier != nodes[j].Tier {
				return nodes[i].Tier < nodes[j].Tier
			}
			return nodes[i].Name < nodes[j].Name
		})
		rows = append(rows, row{kind: rowSpecHeader, spec: sv})
		for _, n := range nodes {
			rows = append(rows, row{kind: rowNode, spec: sv, node: n})
		}
	}
	s.rows = rows

	s.cursor = -1
	for i, r := range s.rows {
		if r.kind != rowNode {
			continue
		}
		if s.cursor < 0 || r.node.ID == keep {
			s.cursor = i
		}
		if r.node.ID == keep {
			break
		}
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *SkillTreeScreen) selectedID() string {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].kind != rowNode {
		return ""
	}
	return s.rows[s.cursor].node.ID
}

// moveCursor moves the cursor by delta, skipping specialization headers.
func (s *SkillTreeScreen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].kind == rowNode {
			s.cursor = next
			return
		}
		next += delta
	}
}

// nextSpec jumps to the first node of the next specialization, wrapping.
func (s *SkillTreeScreen) nextSpec() {
	if len(s.rows) == 0 {
		return
	}
	current := s.rows[s.cursor].spec.ID
	for i := 1; i <= len(s.rows); i++ {
		j := (s.cursor + i) % len(s.rows)
		if s.rows[j].kind == rowNode && s.rows[j].spec.ID != current {
			s.cursor = j
			return
		}
	}
}

// adjustScroll keeps the cursor and its header inside the viewport.
func (s *SkillTreeScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowSpecHeader {
		headerRow--
	}
	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *SkillTreeScreen) View(width, height int) string {
	var top []string
	if s.filtering || s.filter.Value() != "" {
		top = append(top, "  / "+s.filter.View())
	}
	var bottom []string
	if s.status != "" {
		bottom = append(bottom, "", lipgloss.NewStyle().Foreground(theme.Accent).Render("  "+s.status))
	}

	if len(s.rows) == 0 {
		msg := "  The skill tree is not loaded."
		if s.filter.Value() != "" {
			msg = "  No nodes match the filter."
		}
		return strings.Join(append(append(top, theme.Hint.Render(msg)), bottom...), "\n")
	}

	listHeight := height - len(top) - len(bottom)
	s.adjustScroll(listHeight)

	lines := top
	visible := 0
	for i := s.scrollOffset; i < len(s.rows) && visible < listHeight; i++ {
		r := s.rows[i]
		switch r.kind {
		case rowSpecHeader:
			lines = append(lines, renderSpecHeader(r.spec, width))
		case rowNode:
			lines = append(lines, renderNodeRow(r.node, i == s.cursor, width))
		}
		visible++
	}
	return strings.Join(append(lines, bottom...), "\n")
}

func renderSpecHeader(sv engine.SpecializationView, width int) string {
	name := strings.ToUpper(sv.Name)
	if name == "" {
		name = strings.ToUpper(sv.ID)
	}
	info := fmt.Sprintf("%d unlocked", sv.Count)
	if sv.Threshold > 0 {
		info = fmt.Sprintf("%d/%d", sv.Count, sv.Threshold)
	}
	if sv.Level != specialization.LevelNone {
		info += "  " + sv.Level.String()
	}
	return theme.SpecColor(sv.Color).Bold(true).Width(width).PaddingLeft(2).
		Render(name + "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(info))
}

func renderNodeRow(n engine.NodeView, selected bool, width int) string {
	cost := fmt.Sprintf("%3d rep %d SP", n.Cost.Reputation, n.Cost.SkillPoints)
	if n.IsCore() {
		cost = "core"
	}

	padding := 6
	tierWidth := 4
	costWidth := 12
	labelWidth := 10
	spacing := 8
	nameWidth := width - padding - tierWidth - costWidth - labelWidth - spacing
	if nameWidth < 10 {
		nameWidth = 10
	}
	name := n.Name
	if lipgloss.Width(name) > nameWidth {
		name = string([]rune(name)[:nameWidth-1]) + "…"
	}

	labelStyle := theme.StateStyle(n.State)
	nameStyle := lipgloss.NewStyle().Foreground(theme.Text)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	switch n.State {
	case skillgraph.StateActive:
		nameStyle = labelStyle
	case skillgraph.StateLocked:
		nameStyle = dim
	}
	cursor := "  "
	if selected {
		cursor = "▸ "
		nameStyle = theme.Selected
	}

	return fmt.Sprintf("  %s%s %s  %s  %s  %s",
		cursor,
		n.State.Icon(),
		nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		dim.Render(fmt.Sprintf("T%-3d", n.Tier)),
		dim.Render(fmt.Sprintf("%-*s", costWidth, cost)),
		labelStyle.Render(fmt.Sprintf("%*s", labelWidth, n.State.Label())),
	)
}
