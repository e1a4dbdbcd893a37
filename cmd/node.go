package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/progression"
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Inspect and change skill nodes",
}

var nodeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List nodes (optionally filtered by specialization or state)",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, _ := cmd.Flags().GetString("spec")
		state, _ := cmd.Flags().GetString("state")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		tv, ok := s.engine.Tree()
		if !ok {
			return fmt.Errorf("skill tree not loaded")
		}

		fmt.Printf("%-28s  %-30s  %-10s  %4s  %6s  %-10s\n",
			"ID", "Name", "Spec", "Tier", "Cost", "State")
		fmt.Println(strings.Repeat("─", 100))

		n := 0
		for _, v := range tv.Nodes {
			if spec != "" && v.SpecializationID() != spec {
				continue
			}
			if state != "" && v.State.String() != state {
				continue
			}
			name := v.Name
			if len(name) > 30 {
				name = name[:27] + "..."
			}
			fmt.Printf("%-28s  %-30s  %-10s  %4d  %3d/%-2d  %-10s\n",
				v.ID, name, v.SpecializationID(), v.Tier,
				v.Cost.Reputation, v.Cost.SkillPoints, v.State)
			n++
		}
		fmt.Printf("\n%d nodes  reputation %d  skill points %d\n", n, tv.Reputation, tv.SkillPoints)
		return nil
	},
}

var nodeShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one node with its state and neighbours",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		v, ok := s.engine.Node(args[0])
		if !ok {
			return fmt.Errorf("unknown node %q", args[0])
		}
		return printYAML(nodeDoc(v))
	},
}

// nodeDocument is the human-facing shape of a node for `node show`.
type nodeDocument struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Specialization string   `yaml:"specialization"`
	Tier           int      `yaml:"tier"`
	State          string   `yaml:"state"`
	BlockedBy      string   `yaml:"blocked_by,omitempty"`
	Description    string   `yaml:"description,omitempty"`
	Reputation     int      `yaml:"unlock_cost"`
	SkillPoints    int      `yaml:"activate_cost"`
	Effects        []string `yaml:"effects,omitempty"`
	Prerequisites  []string `yaml:"prerequisites,omitempty"`
	Dependents     []string `yaml:"dependents,omitempty"`
}

func nodeDoc(v engine.NodeView) nodeDocument {
	d := nodeDocument{
		ID:             v.ID,
		Name:           v.Name,
		Specialization: v.SpecializationID(),
		Tier:           v.Tier,
		State:          v.State.String(),
		BlockedBy:      string(v.Blocked),
		Description:    v.Description,
		Reputation:     v.Cost.Reputation,
		SkillPoints:    v.Cost.SkillPoints,
		Prerequisites:  v.Prerequisites,
		Dependents:     v.Dependents,
	}
	for _, e := range v.Effects {
		line := fmt.Sprintf("%s = %s", e.Type, e.Value)
		if e.Condition != "" {
			line += " when " + e.Condition
		}
		d.Effects = append(d.Effects, line)
	}
	return d
}

// printJSONAsYAML prints v as YAML using its JSON field names.
func printJSONAsYAML(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	return printYAML(doc)
}

func printYAML(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// nodeActionCmd builds the unlock, activate and deactivate subcommands.
func nodeActionCmd(verb string, op func(*engine.Engine, string) progression.Result) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			return report(verb+" "+args[0], op(s.engine, args[0]))
		},
	}
}

// report prints the outcome of an operation and turns a rejection into an
// error so the exit status reflects it.
func report(what string, res progression.Result) error {
	switch {
	case res.Changed():
		fmt.Println(what + ": ok")
	case res.OK:
		fmt.Printf("%s: nothing to do (%s)\n", what, res.Reason)
	default:
		return fmt.Errorf("%s: %s", what, res.Reason)
	}
	return nil
}

func init() {
	nodeListCmd.Flags().String("spec", "", "Only nodes of this specialization")
	nodeListCmd.Flags().String("state", "", "Only nodes in this state: locked, unlockable, unlocked, active")

	nodeCmd.AddCommand(nodeListCmd)
	nodeCmd.AddCommand(nodeShowCmd)
	nodeCmd.AddCommand(nodeActionCmd("unlock", (*engine.Engine).Unlock))
	nodeCmd.AddCommand(nodeActionCmd("activate", (*engine.Engine).Activate))
	nodeCmd.AddCommand(nodeActionCmd("deactivate", (*engine.Engine).Deactivate))
}
