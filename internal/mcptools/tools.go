// Package mcptools exposes the engine as MCP tools so an agent can inspect
// and drive a player's skill tree over stdio.
package mcptools

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abhisek/physiq/internal/effects"
	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/progression"
)

// Tools owns the MCP server and the engine it drives.
type Tools struct {
	engine    *engine.Engine
	mcpServer *server.MCPServer
}

// New creates the MCP server with every tool registered.
func New(eng *engine.Engine, version string) *Tools {
	t := &Tools{engine: eng}
	t.mcpServer = server.NewMCPServer(
		"physiq",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(`physiq - skill progression for a medical physics residency game.

Nodes are unlocked permanently with reputation and activated per run with
skill points. A node can be unlocked when one of its prerequisites is
unlocked, and activated when one of its prerequisites is active.

AVAILABLE TOOLS:
- skill_tree: every node with its state and the player's currencies
- node_info: one node with prerequisites, dependents and what blocks it
- unlock_node / activate_node / deactivate_node: change a node
- start_run: begin a new run for a character level
- effect_value: aggregated value of an effect type
- save_progress: persist the current state`),
	)
	t.registerTools()
	return t
}

// Server returns the MCP server for ServeStdio.
func (t *Tools) Server() *server.MCPServer { return t.mcpServer }

// HTTPHandler serves the tools over streamable HTTP.
func (t *Tools) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(t.mcpServer)
}

// ServeStdio serves the tools on stdin/stdout until EOF.
func (t *Tools) ServeStdio() error {
	return server.ServeStdio(t.mcpServer)
}

func nodeIDSchema(desc string) mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"node_id": map[string]any{
				"type":        "string",
				"description": desc,
			},
		},
		Required: []string{"node_id"},
	}
}

func (t *Tools) registerTools() {
	t.mcpServer.AddTool(mcp.Tool{
		Name:        "skill_tree",
		Description: "List every node with its state, plus reputation and skill points",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"specialization": map[string]any{
					"type":        "string",
					"description": "Only list nodes of this specialization (optional)",
				},
			},
		},
	}, t.handleSkillTree)

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "node_info",
		Description: "Describe one node: cost, effects, state, prerequisites and dependents",
		InputSchema: nodeIDSchema("Node id"),
	}, t.handleNodeInfo)

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "unlock_node",
		Description: "Permanently unlock a node, paying its reputation cost",
		InputSchema: nodeIDSchema("Node id to unlock"),
	}, t.nodeAction("unlock", t.engine.Unlock))

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "activate_node",
		Description: "Activate an unlocked node for this run, paying its skill point cost",
		InputSchema: nodeIDSchema("Node id to activate"),
	}, t.nodeAction("activate", t.engine.Activate))

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "deactivate_node",
		Description: "Deactivate a node and refund its skill points",
		InputSchema: nodeIDSchema("Node id to deactivate"),
	}, t.nodeAction("deactivate", t.engine.Deactivate))

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "start_run",
		Description: "Start a new run: only core nodes stay active and skill points are recomputed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"character_level": map[string]any{
					"type":        "integer",
					"minimum":     0,
					"description": "Character level; every two levels add one skill point",
				},
			},
			Required: []string{"character_level"},
		},
	}, t.handleStartRun)

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "effect_value",
		Description: "Read the aggregated value of an effect type and which nodes contribute to it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"effect_type": map[string]any{
					"type":        "string",
					"description": "Effect type, e.g. insight_gain_flat",
				},
			},
			Required: []string{"effect_type"},
		},
	}, t.handleEffectValue)

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "save_progress",
		Description: "Persist the current progression",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, t.handleSave)
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	return args
}

func (t *Tools) handleSkillTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, _ := arguments(request)["specialization"].(string)

	tree, ok := t.engine.Tree()
	if !ok {
		return mcp.NewToolResultError("engine not ready"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Reputation: %d  Skill points: %d\n\n", tree.Reputation, tree.SkillPoints)
	for _, n := range tree.Nodes {
		if spec != "" && n.SpecializationID() != spec {
			continue
		}
		fmt.Fprintf(&b, "%s %-28s tier %d  %-10s rep %-3d sp %d  [%s]\n",
			n.State.Icon(), n.ID, n.Tier, n.SpecializationID(), n.Cost.Reputation, n.Cost.SkillPoints, n.State)
	}
	b.WriteString("\nSpecializations:\n")
	for _, s := range tree.Specializations {
		fmt.Fprintf(&b, "- %s: %d/%d (%s)\n", s.ID, s.Count, s.Threshold, s.Level)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *Tools) handleNodeInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := arguments(request)["node_id"].(string)
	if !t.engine.Ready() {
		return mcp.NewToolResultError("engine not ready"), nil
	}
	n, ok := t.engine.Node(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown node %q", id)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", n.Name, n.ID)
	fmt.Fprintf(&b, "Specialization: %s  Tier: %d\n", n.SpecializationID(), n.Tier)
	if n.Description != "" {
		fmt.Fprintf(&b, "%s\n", n.Description)
	}
	fmt.Fprintf(&b, "Cost: %d reputation to unlock, %d skill points to activate\n", n.Cost.Reputation, n.Cost.SkillPoints)
	fmt.Fprintf(&b, "State: %s\n", n.State)
	if n.Blocked != "" {
		fmt.Fprintf(&b, "Blocked by: %s\n", n.Blocked)
	}
	if len(n.Prerequisites) > 0 {
		fmt.Fprintf(&b, "Prerequisites (any one): %s\n", strings.Join(n.Prerequisites, ", "))
	}
	if len(n.Dependents) > 0 {
		fmt.Fprintf(&b, "Leads to: %s\n", strings.Join(n.Dependents, ", "))
	}
	for _, e := range n.Effects {
		fmt.Fprintf(&b, "Effect: %s = %s", e.Type, e.Value)
		if e.Condition != "" {
			fmt.Fprintf(&b, " when %s", e.Condition)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *Tools) nodeAction(verb string, op func(string) progression.Result) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, _ := arguments(request)["node_id"].(string)
		if id == "" {
			return mcp.NewToolResultError("node_id is required"), nil
		}
		res := op(id)
		if !res.OK {
			return mcp.NewToolResultError(fmt.Sprintf("cannot %s %s: %s", verb, id, res.Reason)), nil
		}
		if res.Reason != progression.ReasonNone {
			return mcp.NewToolResultText(fmt.Sprintf("%s: nothing to do (%s)", id, res.Reason)), nil
		}
		state, _ := t.engine.NodeState(id)
		return mcp.NewToolResultText(fmt.Sprintf("%s: %s ok, now %s", id, verb, state)), nil
	}
}

func (t *Tools) handleStartRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level, _ := arguments(request)["character_level"].(float64)
	if level < 0 {
		return mcp.NewToolResultError("character_level must not be negative"), nil
	}
	run, ok := t.engine.ResetActiveSkills(int(level))
	if !ok {
		return mcp.NewToolResultError("engine not ready"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Run %s started at level %d with %d skill points", run.ID, run.CharacterLevel, run.SkillPoints)), nil
}

func (t *Tools) handleEffectValue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := arguments(request)["effect_type"].(string)
	if name == "" {
		return mcp.NewToolResultError("effect_type is required"), nil
	}
	if !t.engine.Ready() {
		return mcp.NewToolResultError("engine not ready"), nil
	}
	typ := effects.Type(name)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) = %s\n", typ, t.engine.Catalog().Category(typ), t.engine.EffectValue(typ))
	for _, c := range t.engine.Contributions(typ) {
		fmt.Fprintf(&b, "- %s: %s", c.NodeID, c.Value)
		if c.Condition != "" {
			fmt.Fprintf(&b, " when %s", c.Condition)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *Tools) handleSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.engine.SaveProgressSync(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
	}
	return mcp.NewToolResultText("Progress saved"), nil
}
