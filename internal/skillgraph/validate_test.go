package skillgraph

import (
	"strings"
	"testing"
)

func TestValidate_DetectsCycle(t *testing.T) {
	data := Data{
		Nodes: []Node{
			{ID: "root"},
			{ID: "a", Specialization: "theory", Tier: 1},
			{ID: "b", Specialization: "theory", Tier: 1},
		},
		Connections:     []Connection{{"root", "a"}, {"a", "b"}, {"b", "a"}},
		Specializations: []Specialization{{ID: "theory", Threshold: 5, MasteryThreshold: 8}},
	}
	err := Validate(data)
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error should mention cycle: %v", err)
	}
}

func TestValidate_DetectsDuplicateID(t *testing.T) {
	data := Data{Nodes: []Node{{ID: "a"}, {ID: "a"}}}
	err := Validate(data)
	if err == nil {
		t.Fatal("expected duplicate error, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error should mention duplicate: %v", err)
	}
}

func TestValidate_DetectsDanglingEdge(t *testing.T) {
	data := Data{
		Nodes:       []Node{{ID: "a"}},
		Connections: []Connection{{"a", "nonexistent"}},
	}
	err := Validate(data)
	if err == nil {
		t.Fatal("expected dangling edge error, got nil")
	}
	if !strings.Contains(err.Error(), "nonexistent") {
		t.Errorf("error should mention nonexistent: %v", err)
	}
}

func TestValidate_RequiresCoreNode(t *testing.T) {
	data := Data{
		Nodes:           []Node{{ID: "a", Specialization: "theory", Tier: 1}},
		Specializations: []Specialization{{ID: "theory", Threshold: 5, MasteryThreshold: 8}},
	}
	err := Validate(data)
	if err == nil || !strings.Contains(err.Error(), "no core nodes") {
		t.Errorf("got %v, want no core nodes error", err)
	}
}

func TestValidate_FieldChecks(t *testing.T) {
	tests := []struct {
		name string
		data Data
		want string
	}{
		{
			name: "negative cost",
			data: Data{Nodes: []Node{{ID: "a", Cost: Cost{Reputation: -1}}}},
			want: "cost must be >= 0",
		},
		{
			name: "unknown specialization",
			data: Data{Nodes: []Node{{ID: "a"}, {ID: "b", Tier: 1, Specialization: "alchemy"}}},
			want: "unknown specialization",
		},
		{
			name: "tier 0 outside core",
			data: Data{
				Nodes:           []Node{{ID: "a", Specialization: "theory"}},
				Specializations: []Specialization{{ID: "theory", Threshold: 5, MasteryThreshold: 8}},
			},
			want: "reserved for the core",
		},
		{
			name: "mastery below threshold",
			data: Data{
				Nodes:           []Node{{ID: "a"}},
				Specializations: []Specialization{{ID: "theory", Threshold: 5, MasteryThreshold: 2}},
			},
			want: "mastery_threshold",
		},
		{
			name: "bad color",
			data: Data{
				Nodes:           []Node{{ID: "a"}},
				Specializations: []Specialization{{ID: "theory", Color: "blue", Threshold: 5, MasteryThreshold: 8}},
			},
			want: "hex color",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.data)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}
