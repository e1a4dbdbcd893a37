package skilltree

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/physiq/internal/engine/enginetest"
	"github.com/abhisek/physiq/internal/progression"
	"github.com/abhisek/physiq/internal/router"
	"github.com/abhisek/physiq/internal/skillgraph"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func typeText(s *SkillTreeScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func TestSkillTree_GroupsBySpecialization(t *testing.T) {
	s := New(enginetest.New(t, 100))

	if s.rows[0].kind != rowSpecHeader || s.rows[0].spec.ID != skillgraph.CoreSpecialization {
		t.Fatalf("first row = %+v, want core header", s.rows[0])
	}
	if got := s.selectedID(); got != "medical_instrumentation" {
		t.Errorf("selected = %q, want medical_instrumentation", got)
	}

	headers := 0
	for _, r := range s.rows {
		if r.kind == rowSpecHeader {
			headers++
		}
	}
	if headers != 5 {
		t.Errorf("headers = %d, want 5", headers)
	}
}

func TestSkillTree_FilterAndUnlock(t *testing.T) {
	eng := enginetest.New(t, 100)
	s := New(eng)

	s.Update(keyPress('/'))
	if !s.filtering {
		t.Fatal("expected filter mode after /")
	}
	typeText(s, "quantum")
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.filtering {
		t.Fatal("expected filter mode to end on enter")
	}
	if got := s.selectedID(); got != "quantum_comprehension" {
		t.Fatalf("selected = %q, want quantum_comprehension", got)
	}

	s.Update(keyPress('u'))
	if state, _ := eng.NodeState("quantum_comprehension"); state != skillgraph.StateUnlocked {
		t.Errorf("state = %v, want unlocked", state)
	}
	if !strings.Contains(s.status, "Unlocked") {
		t.Errorf("status = %q", s.status)
	}

	s.Update(keyPress('a'))
	if state, _ := eng.NodeState("quantum_comprehension"); state != skillgraph.StateActive {
		t.Errorf("state = %v, want active", state)
	}

	view := s.View(100, 30)
	if !strings.Contains(view, "Quantum Comprehension") {
		t.Error("expected filtered node in view")
	}
	if strings.Contains(view, "Bedside Manner") {
		t.Error("expected other nodes to be filtered out")
	}
}

func TestSkillTree_RejectionShownInStatus(t *testing.T) {
	s := New(enginetest.New(t, 0))
	s.Update(keyPress('/'))
	typeText(s, "quantum")
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	s.Update(keyPress('u'))
	if !strings.Contains(s.status, "insufficient reputation") {
		t.Errorf("status = %q, want insufficient reputation", s.status)
	}
}

func TestSkillTree_Navigation(t *testing.T) {
	s := New(enginetest.New(t, 10))
	first := s.selectedID()

	s.Update(keyPress('j'))
	if s.selectedID() == first {
		t.Error("expected cursor to move down")
	}
	s.Update(keyPress('k'))
	if s.selectedID() != first {
		t.Error("expected cursor to return")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.rows[s.cursor].spec.ID == skillgraph.CoreSpecialization {
		t.Error("expected tab to leave the core specialization")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Error("expected enter to push the detail screen")
	}
}

func TestDetail_View(t *testing.T) {
	eng := enginetest.New(t, 100)
	d := NewDetail(eng, "dosimetry_theory")

	if d.Title() != "Dosimetry Theory" {
		t.Errorf("Title = %q", d.Title())
	}
	view := d.View(100, 40)
	for _, want := range []string{"insight_gain_flat", "Prerequisites", "Quantum Comprehension", "prerequisites not met"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDetail_Actions(t *testing.T) {
	eng := enginetest.New(t, 100)
	d := NewDetail(eng, "radiation_detection")

	d.Update(keyPress('u'))
	d.Update(keyPress('a'))
	if state, _ := eng.NodeState("radiation_detection"); state != skillgraph.StateActive {
		t.Errorf("state = %v, want active", state)
	}

	d.Update(keyPress('a'))
	if !strings.Contains(d.status, "already active") {
		t.Errorf("status = %q, want already active", d.status)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		res  progression.Result
		want string
	}{
		{progression.Result{OK: true}, "Unlocked: X"},
		{progression.Result{OK: true, Reason: progression.ReasonAlreadyUnlocked}, "X: already unlocked"},
		{progression.Result{Reason: progression.ReasonNotReady}, "Cannot unlock X: not ready"},
	}
	for _, tt := range tests {
		if got := Describe("unlock", "X", tt.res); got != tt.want {
			t.Errorf("Describe(%+v) = %q, want %q", tt.res, got, tt.want)
		}
	}
}

func TestSkillTree_RefreshAfterDetail(t *testing.T) {
	eng := enginetest.New(t, 100)
	r := router.New(New(eng))

	r.Update(router.PushScreenMsg{Screen: NewDetail(eng, "quantum_comprehension")})
	r.Update(keyPress('u'))
	r.Update(router.PopScreenMsg{})

	tree := r.Active().(*SkillTreeScreen)
	for _, row := range tree.rows {
		if row.kind == rowNode && row.node.ID == "quantum_comprehension" {
			if row.node.State != skillgraph.StateUnlocked {
				t.Errorf("row state = %v, want unlocked", row.node.State)
			}
			return
		}
	}
	t.Fatal("quantum_comprehension row not found")
}
