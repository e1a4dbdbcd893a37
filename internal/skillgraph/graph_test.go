package skillgraph

import (
	"slices"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default graph invalid: %v", err)
	}
}

func TestNode_Exists(t *testing.T) {
	gr := New(Default())
	n, ok := gr.Node("quantum_comprehension")
	if !ok {
		t.Fatal("quantum_comprehension not found")
	}
	if n.SpecializationID() != "theory" {
		t.Errorf("got specialization %q, want theory", n.SpecializationID())
	}
	if n.Cost != (Cost{Reputation: 10, SkillPoints: 2}) {
		t.Errorf("got cost %+v", n.Cost)
	}
	if n.Effects[0].Condition != "question_category == 'quantum'" {
		t.Errorf("got condition %q", n.Effects[0].Condition)
	}
}

func TestNode_NotFound(t *testing.T) {
	gr := New(Default())
	if _, ok := gr.Node("nonexistent"); ok {
		t.Fatal("expected miss for nonexistent node")
	}
}

func TestMustNode_Panics(t *testing.T) {
	gr := New(Default())
	defer func() {
		if recover() == nil {
			t.Error("MustNode did not panic on unknown id")
		}
	}()
	gr.MustNode("nonexistent")
}

func TestPrerequisitesAndDependents(t *testing.T) {
	gr := New(Default())

	pre := gr.Prerequisites("medical_science")
	slices.Sort(pre)
	if want := []string{"medical_instrumentation", "patient_care"}; !slices.Equal(pre, want) {
		t.Errorf("Prerequisites(medical_science): got %v, want %v", pre, want)
	}

	dep := gr.Dependents("radiation_physics")
	slices.Sort(dep)
	want := []string{"medical_instrumentation", "patient_care", "quantum_comprehension", "radiation_detection"}
	if !slices.Equal(dep, want) {
		t.Errorf("Dependents(radiation_physics): got %v, want %v", dep, want)
	}

	if got := gr.Prerequisites("radiation_physics"); len(got) != 0 {
		t.Errorf("radiation_physics should be a root, got prerequisites %v", got)
	}
}

func TestNew_DeduplicatesEdges(t *testing.T) {
	gr := New(Data{
		Nodes:       []Node{{ID: "a"}, {ID: "b", Tier: 1}},
		Connections: []Connection{{"a", "b"}, {"a", "b"}},
	})
	if got := gr.Prerequisites("b"); len(got) != 1 {
		t.Errorf("got %v, want one prerequisite", got)
	}
	if got := len(gr.Connections()); got != 1 {
		t.Errorf("got %d connections, want 1", got)
	}
}

func TestNew_AddsCoreSpecialization(t *testing.T) {
	gr := New(Data{Nodes: []Node{{ID: "a"}}})
	s, ok := gr.Specialization(CoreSpecialization)
	if !ok {
		t.Fatal("core specialization missing")
	}
	if s.Threshold != 4 || s.MasteryThreshold != 4 {
		t.Errorf("got thresholds %d/%d, want 4/4", s.Threshold, s.MasteryThreshold)
	}
	if specs := gr.Specializations(); specs[0].ID != CoreSpecialization {
		t.Errorf("core not listed first: %v", specs)
	}
}

func TestPrerequisitesMet_AnyOf(t *testing.T) {
	gr := New(Default())
	held := map[string]bool{"diagnostic_intuition": true}
	has := func(id string) bool { return held[id] }

	tests := []struct {
		id   string
		want bool
	}{
		{"treatment_planning", true}, // bedside_manner OR diagnostic_intuition
		{"dosimetry_theory", false},
		{"radiation_physics", true}, // no prerequisites
	}
	for _, tt := range tests {
		if got := gr.PrerequisitesMet(tt.id, has); got != tt.want {
			t.Errorf("PrerequisitesMet(%q): got %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestCoreIDs(t *testing.T) {
	gr := New(Default())
	got := gr.CoreIDs()
	slices.Sort(got)
	want := slices.Clone(CoreClusterIDs)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBySpecialization(t *testing.T) {
	gr := New(Default())
	tests := []struct {
		spec string
		want int
	}{
		{"core", 4},
		{"theory", 3},
		{"clinical", 4},
		{"technical", 3},
		{"research", 3},
	}
	for _, tt := range tests {
		if got := len(gr.BySpecialization(tt.spec)); got != tt.want {
			t.Errorf("BySpecialization(%q): got %d nodes, want %d", tt.spec, got, tt.want)
		}
	}
}

func TestNodes_SortedByTier(t *testing.T) {
	nodes := New(Default()).Nodes()
	for i := 1; i < len(nodes); i++ {
		if nodes[i].Tier < nodes[i-1].Tier {
			t.Errorf("node %q (tier %d) appears after %q (tier %d)",
				nodes[i].ID, nodes[i].Tier, nodes[i-1].ID, nodes[i-1].Tier)
		}
	}
}

func TestNodeState_String(t *testing.T) {
	tests := []struct {
		s    NodeState
		want string
	}{
		{StateLocked, "locked"},
		{StateUnlockable, "unlockable"},
		{StateUnlocked, "unlocked"},
		{StateActive, "active"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}
