package effectsview

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/physiq/internal/engine/enginetest"
)

func TestView_ShowsActiveEffects(t *testing.T) {
	eng := enginetest.New(t, 100)
	eng.Unlock("quantum_comprehension")
	eng.Activate("quantum_comprehension")

	s := New(eng)
	view := s.View(120, 40)
	for _, want := range []string{"insight_gain_flat", "Radiation Physics", "Quantum Comprehension", "when question_category"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "funding_multiplier") {
		t.Error("expected inactive effect types to be hidden")
	}
}

func TestView_ToggleShowAll(t *testing.T) {
	s := New(enginetest.New(t, 0))
	before := len(s.lines())
	s.Update(tea.KeyPressMsg{Code: 't', Text: "t"})
	if after := len(s.lines()); after <= before {
		t.Errorf("lines = %d after toggle, want more than %d", after, before)
	}
}
