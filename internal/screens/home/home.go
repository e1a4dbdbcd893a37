package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/router"
	"github.com/abhisek/physiq/internal/screen"
	"github.com/abhisek/physiq/internal/screens/effectsview"
	"github.com/abhisek/physiq/internal/screens/run"
	"github.com/abhisek/physiq/internal/screens/skilltree"
	"github.com/abhisek/physiq/internal/screens/specializations"
	"github.com/abhisek/physiq/internal/skillgraph"
	"github.com/abhisek/physiq/internal/specialization"
	"github.com/abhisek/physiq/internal/ui/components"
	"github.com/abhisek/physiq/internal/ui/theme"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	eng    *engine.Engine
	menu   components.Menu
	status string
}

var _ screen.Screen = (*HomeScreen)(nil)

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// New creates a new HomeScreen.
func New(eng *engine.Engine) *HomeScreen {
	h := &HomeScreen{eng: eng}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "SKILL TREE", Hint: "Unlock and activate skills", Action: func() tea.Cmd {
			return push(skilltree.New(eng))
		}},
		{Label: "SPECIALIZATIONS", Hint: "Progress towards specialist and master", Action: func() tea.Cmd {
			return push(specializations.New(eng))
		}},
		{Label: "ACTIVE EFFECTS", Hint: "What your active skills add up to", Action: func() tea.Cmd {
			return push(effectsview.New(eng))
		}},
		{Label: "START RUN", Hint: "Reset active skills for a new run", Action: func() tea.Cmd {
			return push(run.New(eng))
		}},
		{Label: "SAVE", Hint: "Write progress to disk now", Action: func() tea.Cmd {
			if id := eng.SaveProgress(); id != "" {
				h.status = "Save queued"
			} else {
				h.status = "Nothing to save yet"
			}
			return nil
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "q" {
		return h, tea.Quit
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	compact := height+6 < 30 || width < 100
	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if tv, ok := h.eng.Tree(); ok {
		sections = append(sections, renderStatsBar(summarize(tv), cw, compact))
	} else {
		sections = append(sections, theme.Hint.Render("Skill tree not loaded"))
	}
	sections = append(sections, lipgloss.NewStyle().Width(cw).Render(h.menu.View()))
	if h.status != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Render(h.status))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func summarize(tv engine.TreeView) stats {
	s := stats{version: tv.Version, total: len(tv.Nodes)}
	for _, n := range tv.Nodes {
		switch n.State {
		case skillgraph.StateActive:
			s.active++
			s.unlocked++
		case skillgraph.StateUnlocked:
			s.unlocked++
		}
	}
	for _, sv := range tv.Specializations {
		if sv.ID != skillgraph.CoreSpecialization && sv.Level != specialization.LevelNone {
			s.specialists++
		}
	}
	return s
}
