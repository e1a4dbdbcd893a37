package graphfile

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/abhisek/physiq/internal/effects"
	"github.com/abhisek/physiq/internal/skillgraph"
)

// hclGraphFile is the top-level structure of an HCL graph document:
//
//	tree_version = "1.0"
//
//	specialization "theory" {
//	  name              = "Theory"
//	  threshold         = 3
//	  mastery_threshold = 6
//	}
//
//	node "quantum_comprehension" {
//	  name           = "Quantum Comprehension"
//	  specialization = "theory"
//	  tier           = 1
//	  cost {
//	    reputation   = 10
//	    skill_points = 1
//	  }
//	  effect "insight_gain_flat" {
//	    value = 2
//	  }
//	}
//
//	connection {
//	  source = "radiation_physics"
//	  target = "quantum_comprehension"
//	}
type hclGraphFile struct {
	Version         string               `hcl:"tree_version,optional"`
	Specializations []*hclSpecialization `hcl:"specialization,block"`
	Nodes           []*hclNode           `hcl:"node,block"`
	Connections     []*hclConnection     `hcl:"connection,block"`
}

type hclSpecialization struct {
	ID               string `hcl:"id,label"`
	Name             string `hcl:"name"`
	Description      string `hcl:"description,optional"`
	Color            string `hcl:"color,optional"`
	Threshold        int    `hcl:"threshold,optional"`
	MasteryThreshold int    `hcl:"mastery_threshold,optional"`
}

type hclNode struct {
	ID             string       `hcl:"id,label"`
	Name           string       `hcl:"name"`
	Specialization string       `hcl:"specialization,optional"`
	Tier           int          `hcl:"tier"`
	Description    string       `hcl:"description,optional"`
	Cost           *hclCost     `hcl:"cost,block"`
	Position       *hclPosition `hcl:"position,block"`
	Visual         *hclVisual   `hcl:"visual,block"`
	Effects        []*hclEffect `hcl:"effect,block"`
}

type hclCost struct {
	Reputation  int `hcl:"reputation,optional"`
	SkillPoints int `hcl:"skill_points,optional"`
}

type hclPosition struct {
	X float64 `hcl:"x"`
	Y float64 `hcl:"y"`
}

type hclVisual struct {
	Size string `hcl:"size,optional"`
	Icon string `hcl:"icon,optional"`
}

type hclEffect struct {
	Type      string    `hcl:"type,label"`
	Value     cty.Value `hcl:"value,optional"`
	Condition string    `hcl:"condition,optional"`
}

type hclConnection struct {
	Source string `hcl:"source"`
	Target string `hcl:"target"`
}

func parseHCL(b []byte, name string) (skillgraph.Data, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(b, name)
	if diags.HasErrors() {
		return skillgraph.Data{}, fmt.Errorf("failed to parse HCL graph %s: %w", name, diags)
	}

	var parsed hclGraphFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return skillgraph.Data{}, fmt.Errorf("failed to decode HCL graph %s: %w", name, diags)
	}

	data := skillgraph.Data{Version: parsed.Version}
	for _, s := range parsed.Specializations {
		data.Specializations = append(data.Specializations, skillgraph.Specialization{
			ID:               s.ID,
			Name:             s.Name,
			Description:      s.Description,
			Color:            s.Color,
			Threshold:        s.Threshold,
			MasteryThreshold: s.MasteryThreshold,
		})
	}
	for _, n := range parsed.Nodes {
		node, err := n.toNode()
		if err != nil {
			return skillgraph.Data{}, fmt.Errorf("node %q in %s: %w", n.ID, name, err)
		}
		data.Nodes = append(data.Nodes, node)
	}
	for _, c := range parsed.Connections {
		data.Connections = append(data.Connections, skillgraph.Connection{Source: c.Source, Target: c.Target})
	}
	return data, nil
}

func (n *hclNode) toNode() (skillgraph.Node, error) {
	node := skillgraph.Node{
		ID:             n.ID,
		Name:           n.Name,
		Specialization: n.Specialization,
		Tier:           n.Tier,
		Description:    n.Description,
	}
	if n.Cost != nil {
		node.Cost = skillgraph.Cost{Reputation: n.Cost.Reputation, SkillPoints: n.Cost.SkillPoints}
	}
	if n.Position != nil {
		node.Position = &skillgraph.Position{X: n.Position.X, Y: n.Position.Y}
	}
	if n.Visual != nil {
		node.Visual = &skillgraph.Visual{Size: n.Visual.Size, Icon: n.Visual.Icon}
	}
	for _, e := range n.Effects {
		v, err := effectValue(e.Value)
		if err != nil {
			return skillgraph.Node{}, fmt.Errorf("effect %q: %w", e.Type, err)
		}
		node.Effects = append(node.Effects, effects.Effect{
			Type:      effects.Type(e.Type),
			Value:     v,
			Condition: e.Condition,
		})
	}
	return node, nil
}

// effectValue maps an HCL expression result onto the effect value union:
// numbers and bools directly, everything else as a raw JSON payload.
func effectValue(v cty.Value) (effects.Value, error) {
	if v.IsNull() {
		return effects.Value{}, nil
	}
	if !v.IsWhollyKnown() {
		return effects.Value{}, fmt.Errorf("value is not known")
	}
	switch v.Type() {
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return effects.Number(f), nil
	case cty.Bool:
		return effects.Bool(v.True()), nil
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return effects.Value{}, fmt.Errorf("encode value: %w", err)
	}
	return effects.Raw(json.RawMessage(b)), nil
}
