package run

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/physiq/internal/engine/enginetest"
	"github.com/abhisek/physiq/internal/router"
	"github.com/abhisek/physiq/internal/screens/skilltree"
	"github.com/abhisek/physiq/internal/skillgraph"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestRunScreen_StartsRun(t *testing.T) {
	eng := enginetest.New(t, 100)
	eng.Unlock("radiation_detection")
	eng.Activate("radiation_detection")

	s := New(eng)
	s.Update(keyPress('4'))
	if !strings.Contains(s.View(80, 20), "Would start with 6 skill points") {
		t.Error("expected skill point preview")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	r, ok := s.Started()
	if !ok {
		t.Fatalf("expected run to start, err = %q", s.err)
	}
	if r.CharacterLevel != 4 || r.SkillPoints != 6 {
		t.Errorf("run = %+v, want level 4 with 6 skill points", r)
	}
	if r.ID == "" {
		t.Error("expected run id")
	}
	if state, _ := eng.NodeState("radiation_detection"); state != skillgraph.StateUnlocked {
		t.Errorf("state = %v, want unlocked after reset", state)
	}
	if state, _ := eng.NodeState("radiation_physics"); state != skillgraph.StateActive {
		t.Errorf("core state = %v, want active", state)
	}
}

func TestRunScreen_RejectsEmptyLevel(t *testing.T) {
	s := New(enginetest.New(t, 0))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := s.Started(); ok {
		t.Error("expected no run without a level")
	}
	if s.err == "" {
		t.Error("expected an error message")
	}
}

func TestRunScreen_IgnoresLetters(t *testing.T) {
	s := New(enginetest.New(t, 0))
	s.Update(keyPress('x'))
	if s.input.Value() != "" {
		t.Errorf("input = %q, want empty", s.input.Value())
	}
}

func TestRunScreen_EnterAfterStartOpensSkillTree(t *testing.T) {
	s := New(enginetest.New(t, 0))
	s.Update(keyPress('2'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := s.Started(); !ok {
		t.Fatal("expected run to start")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("got %T, want router.ReplaceScreenMsg", cmd())
	}
	if _, ok := msg.Screen.(*skilltree.SkillTreeScreen); !ok {
		t.Errorf("replacement = %T, want skill tree", msg.Screen)
	}
}
