package skillgraph

import (
	"encoding/json"

	"github.com/abhisek/physiq/internal/effects"
)

// DefaultVersion is the tree_version of the built-in graph.
const DefaultVersion = "1.0"

var defaultCoreSpecialization = Specialization{
	ID:               CoreSpecialization,
	Name:             "Core Competencies",
	Description:      "Fundamental medical physics knowledge",
	Color:            "#777777",
	Threshold:        4,
	MasteryThreshold: 4,
}

// CoreClusterIDs are the ids of the built-in core cluster, in display order.
var CoreClusterIDs = []string{
	"radiation_physics",
	"medical_instrumentation",
	"patient_care",
	"medical_science",
}

// Default returns the built-in graph used when no graph data can be loaded.
// Each call returns a fresh copy.
func Default() Data {
	return Data{
		Version: DefaultVersion,
		Specializations: []Specialization{
			defaultCoreSpecialization,
			{ID: "theory", Name: "Theory Specialist", Description: "Focus on physics principles and mathematical understanding", Color: "#4287f5", Threshold: 5, MasteryThreshold: 8},
			{ID: "clinical", Name: "Clinical Expert", Description: "Focus on patient care and treatment application", Color: "#42f575", Threshold: 5, MasteryThreshold: 8},
			{ID: "technical", Name: "Technical Specialist", Description: "Focus on equipment operation and quality assurance", Color: "#f59142", Threshold: 5, MasteryThreshold: 8},
			{ID: "research", Name: "Research Scientist", Description: "Focus on advancement and innovation in the field", Color: "#a142f5", Threshold: 5, MasteryThreshold: 8},
		},
		Nodes:       append(CoreCluster(), defaultNodes()...),
		Connections: defaultConnections(),
	}
}

// CoreCluster returns the four tier-0 nodes that make up the core cluster.
func CoreCluster() []Node {
	return []Node{
		core("radiation_physics", "Radiation Physics", "Understanding of radiation behavior and interactions with matter.", "zap", 370, 280,
			effects.Effect{Type: "insight_gain_flat", Value: effects.Number(2)}),
		core("medical_instrumentation", "Medical Instrumentation", "Knowledge of medical imaging and therapy devices.", "tool", 430, 280,
			effects.Effect{Type: "equipment_cost_reduction", Value: effects.Number(0.1)}),
		core("patient_care", "Patient Care", "Fundamentals of patient care and safety protocols.", "heart", 370, 320,
			effects.Effect{Type: "patient_outcome_multiplier", Value: effects.Number(1.1)}),
		core("medical_science", "Medical Science", "Scientific principles underlying medical physics.", "book", 430, 320,
			effects.Effect{Type: "insight_gain_multiplier", Value: effects.Number(1.05)}),
	}
}

// CoreConnections returns the edges inside the core cluster and from it to
// the first tier of each specialization.
func CoreConnections() []Connection {
	return []Connection{
		{"radiation_physics", "medical_instrumentation"},
		{"radiation_physics", "patient_care"},
		{"medical_instrumentation", "medical_science"},
		{"patient_care", "medical_science"},
		{"radiation_physics", "quantum_comprehension"},
		{"radiation_physics", "radiation_detection"},
		{"medical_instrumentation", "calibration_expert"},
		{"medical_instrumentation", "machine_whisperer"},
		{"patient_care", "bedside_manner"},
		{"patient_care", "diagnostic_intuition"},
		{"medical_science", "literature_review"},
		{"medical_science", "scholarly_memory"},
	}
}

func core(id, name, desc, icon string, x, y float64, eff effects.Effect) Node {
	return Node{
		ID:             id,
		Name:           name,
		Specialization: CoreSpecialization,
		Tier:           0,
		Description:    desc,
		Effects:        []effects.Effect{eff},
		Position:       &Position{X: x, Y: y},
		Visual:         &Visual{Size: "minor", Icon: icon},
	}
}

func node(id, name, spec string, tier int, desc string, rep, sp int, effs ...effects.Effect) Node {
	return Node{
		ID:             id,
		Name:           name,
		Specialization: spec,
		Tier:           tier,
		Description:    desc,
		Effects:        effs,
		Cost:           Cost{Reputation: rep, SkillPoints: sp},
		Visual:         &Visual{Size: "minor"},
	}
}

func defaultNodes() []Node {
	num := effects.Number
	on := effects.Bool(true)
	return []Node{
		node("quantum_comprehension", "Quantum Comprehension", "theory", 1,
			"Deeper understanding of quantum effects in radiation interactions.", 10, 2,
			effects.Effect{Type: "insight_gain_multiplier", Value: num(1.25), Condition: "question_category == 'quantum'"}),
		node("radiation_detection", "Radiation Detection", "theory", 1,
			"Spot anomalies in measured radiation fields.", 10, 1,
			effects.Effect{Type: "auto_detect_radiation_anomalies", Value: on}),
		node("calibration_expert", "Calibration Expert", "technical", 1,
			"Calibrations succeed more often.", 10, 2,
			effects.Effect{Type: "calibration_success", Value: num(0.25)}),
		node("machine_whisperer", "Machine Whisperer", "technical", 1,
			"Equipment malfunctions hurt less.", 10, 1,
			effects.Effect{Type: "malfunction_penalty_reduction", Value: num(0.3)}),
		node("bedside_manner", "Bedside Manner", "clinical", 1,
			"Patients respond better to treatment.", 10, 2,
			effects.Effect{Type: "patient_outcome_multiplier", Value: num(1.15)}),
		node("diagnostic_intuition", "Diagnostic Intuition", "clinical", 1,
			"Reveal one extra patient parameter.", 10, 1,
			effects.Effect{Type: "reveal_patient_parameter", Value: num(1)}),
		node("literature_review", "Literature Review", "research", 1,
			"Convert part of gained insight into reputation.", 10, 2,
			effects.Effect{Type: "insight_to_reputation_conversion", Value: num(0.1)}),
		node("scholarly_memory", "Scholarly Memory", "research", 1,
			"Recall similar questions seen before.", 10, 1,
			effects.Effect{Type: "recall_similar_questions", Value: on}),
		node("dosimetry_theory", "Dosimetry Theory", "theory", 2,
			"Flat insight bonus on every correct answer.", 20, 2,
			effects.Effect{Type: "insight_gain_flat", Value: num(3)}),
		node("qa_automation", "QA Automation", "technical", 2,
			"Quality assurance issues are flagged automatically.", 20, 2,
			effects.Effect{Type: "auto_detect_qa_issues", Value: on}),
		node("treatment_planning", "Treatment Planning", "clinical", 2,
			"Treatments are more effective.", 20, 3,
			effects.Effect{Type: "treatment_effectiveness_multiplier", Value: num(1.2)}),
		node("emergency_kit", "Emergency Kit", "clinical", 2,
			"Start each run with an emergency kit.", 15, 1,
			effects.Effect{Type: "start_with_items", Value: effects.Raw(json.RawMessage(`{"items":["emergency_kit"]}`))}),
		node("grant_writing", "Grant Writing", "research", 2,
			"More funding from every source.", 20, 2,
			effects.Effect{Type: "funding_multiplier", Value: num(1.25)}),
	}
}

func defaultConnections() []Connection {
	return append(CoreConnections(),
		Connection{"quantum_comprehension", "dosimetry_theory"},
		Connection{"radiation_detection", "dosimetry_theory"},
		Connection{"calibration_expert", "qa_automation"},
		Connection{"bedside_manner", "treatment_planning"},
		Connection{"diagnostic_intuition", "treatment_planning"},
		Connection{"diagnostic_intuition", "emergency_kit"},
		Connection{"literature_review", "grant_writing"},
	)
}
