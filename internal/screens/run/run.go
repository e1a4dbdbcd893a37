package run

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/router"
	"github.com/abhisek/physiq/internal/screen"
	"github.com/abhisek/physiq/internal/screens/skilltree"
	"github.com/abhisek/physiq/internal/ui/components"
	"github.com/abhisek/physiq/internal/ui/layout"
	"github.com/abhisek/physiq/internal/ui/theme"
)

const maxLevel = 999

// Screen asks for the character level and starts a new run, clearing
// every non-core active skill.
type Screen struct {
	eng     *engine.Engine
	input   components.TextInput
	started *engine.Run
	err     string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the run screen.
func New(eng *engine.Engine) *Screen {
	return &Screen{
		eng:   eng,
		input: components.NewTextInput("character level", true, 3).WithBounds(1, maxLevel),
	}
}

func (s *Screen) Init() tea.Cmd { return s.input.Init() }
func (s *Screen) Title() string { return "Start Run" }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.started != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Choose skills"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// Started returns the run begun on this screen, if any.
func (s *Screen) Started() (engine.Run, bool) {
	if s.started == nil {
		return engine.Run{}, false
	}
	return *s.started, true
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if ok && kmsg.String() == "enter" {
		if s.started != nil {
			eng := s.eng
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: skilltree.New(eng)}
			}
		}
		s.start()
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) start() {
	level, err := s.input.Number()
	if err != nil {
		s.err = "Character level: " + err.Error()
		s.input.Submit(false)
		return
	}
	r, ok := s.eng.ResetActiveSkills(level)
	if !ok {
		s.err = "The skill tree is not loaded"
		s.input.Submit(false)
		return
	}
	s.err = ""
	s.started = &r
	s.input.Submit(true)
}

func (s *Screen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Body.Render("  Starting a run deactivates every non-core skill and"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render("  grants skill points for the character's level."))
	b.WriteString("\n\n")
	b.WriteString("  Level: " + s.input.View())
	b.WriteString("\n")

	if level, err := s.input.Number(); err == nil && s.started == nil {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  Would start with %d skill points", s.eng.StartingSkillPoints(level))))
		b.WriteString("\n")
	}
	if s.err != "" {
		b.WriteString("\n" + theme.Bad.Render("  "+s.err) + "\n")
	}
	if s.started != nil {
		b.WriteString("\n")
		b.WriteString(theme.Good.Render(fmt.Sprintf("  Run started at level %d with %d skill points", s.started.CharacterLevel, s.started.SkillPoints)))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  run " + s.started.ID))
		b.WriteString("\n")
	}
	return b.String()
}
