package migrate

import (
	"slices"
	"testing"

	"github.com/abhisek/physiq/internal/persistence"
	"github.com/abhisek/physiq/internal/skillgraph"
)

func defaultGraph() *skillgraph.Graph { return skillgraph.New(skillgraph.Default()) }

func TestProgress_LegacyCoreReplaced(t *testing.T) {
	doc := persistence.Document{
		Reputation:     25,
		UnlockedSkills: []string{"core_physics", "bedside_manner"},
		ActiveSkills:   []string{"core_physics"},
	}
	report := Progress(&doc, defaultGraph(), DefaultPolicy())

	if !report.LegacyRemoved {
		t.Error("LegacyRemoved: got false, want true")
	}
	if slices.Contains(doc.UnlockedSkills, "core_physics") || slices.Contains(doc.ActiveSkills, "core_physics") {
		t.Errorf("legacy id still present: %v / %v", doc.UnlockedSkills, doc.ActiveSkills)
	}
	for _, id := range skillgraph.CoreClusterIDs {
		if !slices.Contains(doc.UnlockedSkills, id) {
			t.Errorf("unlocked missing core id %q", id)
		}
		if !slices.Contains(doc.ActiveSkills, id) {
			t.Errorf("active missing core id %q", id)
		}
	}
	if !slices.Contains(doc.UnlockedSkills, "bedside_manner") {
		t.Error("bedside_manner lost")
	}
	if doc.FormatVersion != persistence.FormatVersion {
		t.Errorf("got version %q, want %q", doc.FormatVersion, persistence.FormatVersion)
	}
	if report.FromVersion != "v1.0.0" {
		t.Errorf("got from version %q, want v1.0.0", report.FromVersion)
	}
}

func TestProgress_CoreEnsuredWithoutLegacy(t *testing.T) {
	doc := persistence.Document{UnlockedSkills: []string{"patient_care"}}
	report := Progress(&doc, defaultGraph(), DefaultPolicy())
	if report.LegacyRemoved {
		t.Error("LegacyRemoved: got true, want false")
	}
	if len(report.CoreAdded) != 3 {
		t.Errorf("got %d core ids added, want 3", len(report.CoreAdded))
	}
	if len(doc.ActiveSkills) != 4 {
		t.Errorf("got active %v, want the four core ids", doc.ActiveSkills)
	}
}

func TestProgress_Idempotent(t *testing.T) {
	doc := persistence.Document{
		UnlockedSkills: []string{"core_physics", "diagnostic_intuition"},
		ActiveSkills:   []string{"core_physics", "diagnostic_intuition"},
	}
	g := defaultGraph()
	Progress(&doc, g, DefaultPolicy())
	first := doc.Clone()

	report := Progress(&doc, g, DefaultPolicy())
	if report.Changed() {
		t.Errorf("second run changed document: %s", report)
	}
	if !slices.Equal(first.UnlockedSkills, doc.UnlockedSkills) || !slices.Equal(first.ActiveSkills, doc.ActiveSkills) {
		t.Errorf("second run altered sets: %v -> %v", first, doc)
	}
}

func TestProgress_KeepsUnknownUnlockedAndRestoresSubset(t *testing.T) {
	doc := persistence.Document{
		FormatVersion:  persistence.FormatVersion,
		UnlockedSkills: []string{"ghost", "bedside_manner"},
		ActiveSkills:   []string{"bedside_manner", "treatment_planning", "phantom"},
	}
	report := Progress(&doc, defaultGraph(), DefaultPolicy())

	if !slices.Equal(report.UnknownIDs, []string{"ghost"}) {
		t.Errorf("unknown: got %v", report.UnknownIDs)
	}
	if !slices.Equal(report.DroppedActive, []string{"phantom"}) {
		t.Errorf("dropped active: got %v", report.DroppedActive)
	}
	if !slices.Contains(doc.UnlockedSkills, "ghost") {
		t.Errorf("unlocked %v lost unknown id ghost", doc.UnlockedSkills)
	}
	if !slices.Equal(report.Deactivated, []string{"treatment_planning"}) {
		t.Errorf("deactivated: got %v", report.Deactivated)
	}
	for _, id := range doc.ActiveSkills {
		if !slices.Contains(doc.UnlockedSkills, id) {
			t.Errorf("active %q not unlocked", id)
		}
	}
}

func TestProgress_UnknownUnlockedAloneIsNotAChange(t *testing.T) {
	doc := persistence.Document{
		FormatVersion:  persistence.FormatVersion,
		UnlockedSkills: append(slices.Clone(skillgraph.CoreClusterIDs), "custom_advanced_node"),
		ActiveSkills:   slices.Clone(skillgraph.CoreClusterIDs),
	}
	report := Progress(&doc, defaultGraph(), DefaultPolicy())

	if report.Changed() {
		t.Errorf("expected no change, got %s", report)
	}
	if !slices.Equal(report.UnknownIDs, []string{"custom_advanced_node"}) {
		t.Errorf("unknown: got %v", report.UnknownIDs)
	}
}

func TestNeedsMigration(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"", true},
		{"garbage", true},
		{"v1.0.0", true},
		{"v1.9.3", true},
		{persistence.FormatVersion, false},
		{"v2.1.0", false},
	}
	for _, tt := range tests {
		if got := NeedsMigration(tt.version); got != tt.want {
			t.Errorf("NeedsMigration(%q): got %v, want %v", tt.version, got, tt.want)
		}
	}
}

func TestGraph_ReplacesLegacyNode(t *testing.T) {
	data := skillgraph.Data{
		Nodes: []skillgraph.Node{
			{ID: "core_physics", Name: "Core Physics"},
			{ID: "quantum_comprehension", Specialization: "theory", Tier: 1},
		},
		Connections: []skillgraph.Connection{
			{Source: "core_physics", Target: "quantum_comprehension"},
		},
		Specializations: []skillgraph.Specialization{{ID: "theory", Threshold: 5, MasteryThreshold: 8}},
	}
	out, changed := Graph(data, DefaultPolicy())
	if !changed {
		t.Fatal("changed: got false, want true")
	}
	gr := skillgraph.New(out)
	if gr.Has("core_physics") {
		t.Error("legacy node still present")
	}
	pre := gr.Prerequisites("quantum_comprehension")
	slices.Sort(pre)
	want := slices.Clone(skillgraph.CoreClusterIDs)
	slices.Sort(want)
	if !slices.Equal(pre, want) {
		t.Errorf("prerequisites: got %v, want %v", pre, want)
	}
	if err := skillgraph.Validate(out); err != nil {
		t.Errorf("migrated graph invalid: %v", err)
	}
}

func TestGraph_NoLegacyUnchanged(t *testing.T) {
	data := skillgraph.Default()
	_, changed := Graph(data, DefaultPolicy())
	if changed {
		t.Error("default graph reported as changed")
	}
}
