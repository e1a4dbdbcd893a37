package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/events"
	"github.com/abhisek/physiq/internal/router"
	"github.com/abhisek/physiq/internal/screen"
	"github.com/abhisek/physiq/internal/screens/home"
	"github.com/abhisek/physiq/internal/ui/layout"
)

const noticeBuffer = 64

// eventMsg carries a bus event into the Bubble Tea loop.
type eventMsg events.Event

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	eng    *engine.Engine
	notes  chan events.Event
	notice string
	width  int
	height int
}

// newAppModel creates an AppModel with the home screen. Bus events are
// queued on a buffered channel; the bus delivers while the engine lock is
// held, so the handler never blocks.
func newAppModel(eng *engine.Engine) (AppModel, events.Subscription) {
	m := AppModel{
		router: router.New(home.New(eng)),
		eng:    eng,
		notes:  make(chan events.Event, noticeBuffer),
	}
	sub := eng.Bus().SubscribeAll(func(e events.Event) {
		select {
		case m.notes <- e:
		default:
		}
	})
	return m, sub
}

func (m AppModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-m.notes)
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case eventMsg:
		if n := Notice(events.Event(msg)); n != "" {
			m.notice = n
		}
		return m, m.waitForEvent()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	rep, sp := 0, 0
	if rec, ok := m.eng.Record(); ok {
		rep, sp = rec.Reputation, rec.SkillPointsAvailable
	}
	header := layout.RenderHeader(title, rep, sp, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.notice, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program over eng.
func Run(eng *engine.Engine) error {
	model, sub := newAppModel(eng)
	defer eng.Bus().Unsubscribe(sub)

	p := tea.NewProgram(model)
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
