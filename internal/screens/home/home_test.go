package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/physiq/internal/engine/enginetest"
	"github.com/abhisek/physiq/internal/router"
	"github.com/abhisek/physiq/internal/screens/skilltree"
)

func TestHome_View(t *testing.T) {
	h := New(enginetest.New(t, 0))
	view := h.View(100, 40)
	for _, want := range []string{"SKILL TREE", "4/17 UNLOCKED", "4 ACTIVE"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHome_OpenSkillTree(t *testing.T) {
	h := New(enginetest.New(t, 0))
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := msg.Screen.(*skilltree.SkillTreeScreen); !ok {
		t.Errorf("pushed %T, want skill tree", msg.Screen)
	}
}

func TestHome_Save(t *testing.T) {
	h := New(enginetest.New(t, 0))
	for range 4 {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if h.status != "Save queued" {
		t.Errorf("status = %q, want Save queued", h.status)
	}
}
