package engine

import (
	"github.com/abhisek/physiq/internal/effects"
	"github.com/abhisek/physiq/internal/progression"
	"github.com/abhisek/physiq/internal/skillgraph"
	"github.com/abhisek/physiq/internal/specialization"
)

// NodeView is a node together with its derived state.
type NodeView struct {
	skillgraph.Node
	State         skillgraph.NodeState `json:"state"`
	Prerequisites []string             `json:"prerequisites"`
	Dependents    []string             `json:"dependents"`
	// Blocked explains why the next step (unlock for a locked node,
	// activate for an unlocked one) is not possible.
	Blocked progression.Reason `json:"blocked_by,omitempty"`
}

// SpecializationView is a specialization with the player's standing.
type SpecializationView struct {
	skillgraph.Specialization
	Count int                  `json:"count"`
	Level specialization.Level `json:"level"`
}

// TreeView is the whole graph as the player sees it.
type TreeView struct {
	Version         string                  `json:"tree_version,omitempty"`
	Nodes           []NodeView              `json:"nodes"`
	Connections     []skillgraph.Connection `json:"connections"`
	Specializations []SpecializationView    `json:"specializations"`
	Reputation      int                     `json:"reputation"`
	SkillPoints     int                     `json:"skill_points"`
}

// Tree returns every node with its state. ok is false before the engine
// is ready.
func (e *Engine) Tree() (TreeView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return TreeView{}, false
	}
	tv := TreeView{
		Version:     e.graph.Version(),
		Connections: e.graph.Connections(),
		Reputation:  e.mgr.Reputation(),
		SkillPoints: e.mgr.SkillPoints(),
	}
	for _, n := range e.graph.Nodes() {
		tv.Nodes = append(tv.Nodes, e.nodeViewLocked(n))
	}
	for _, s := range e.graph.Specializations() {
		tv.Specializations = append(tv.Specializations, e.specViewLocked(s))
	}
	return tv, true
}

// Node returns one node with its state.
func (e *Engine) Node(id string) (NodeView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return NodeView{}, false
	}
	n, ok := e.graph.Node(id)
	if !ok {
		return NodeView{}, false
	}
	return e.nodeViewLocked(n), true
}

// NodeByID returns the static node definition.
func (e *Engine) NodeByID(id string) (skillgraph.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return skillgraph.Node{}, false
	}
	return e.graph.Node(id)
}

// NodeState derives the state of a node.
func (e *Engine) NodeState(id string) (skillgraph.NodeState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return skillgraph.StateLocked, false
	}
	return e.mgr.NodeState(id)
}

// Prerequisites returns the direct prerequisites of a node.
func (e *Engine) Prerequisites(id string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return nil
	}
	return e.graph.Prerequisites(id)
}

// Dependents returns the nodes that list id as a prerequisite.
func (e *Engine) Dependents(id string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return nil
	}
	return e.graph.Dependents(id)
}

// EffectValue reads the aggregated value of an effect type. Before the
// engine is ready it is the zero Value.
func (e *Engine) EffectValue(t effects.Type) effects.Value {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return effects.Value{}
	}
	return e.mgr.Aggregator().Read(t)
}

// Effects returns the aggregated value of every non-opaque effect type.
func (e *Engine) Effects() map[effects.Type]effects.Value {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return nil
	}
	return e.mgr.Aggregator().Snapshot()
}

// Contributions lists which active nodes feed an effect type.
func (e *Engine) Contributions(t effects.Type) []effects.Contribution {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return nil
	}
	return e.mgr.Aggregator().Contributions(t)
}

// SpecializationLevel returns the player's standing in a specialization.
func (e *Engine) SpecializationLevel(id string) specialization.Level {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return specialization.LevelNone
	}
	return e.mgr.Tracker().Level(id)
}

// Specialization returns a specialization with the player's standing.
func (e *Engine) Specialization(id string) (SpecializationView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return SpecializationView{}, false
	}
	s, ok := e.graph.Specialization(id)
	if !ok {
		return SpecializationView{}, false
	}
	return e.specViewLocked(s), true
}

// Record returns a copy of the progression record.
func (e *Engine) Record() (progression.Record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return progression.Record{}, false
	}
	return e.mgr.Record(), true
}

// StrandedBy lists active nodes that would lose their last active
// prerequisite if id were deactivated.
func (e *Engine) StrandedBy(id string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return nil
	}
	return e.mgr.StrandedBy(id)
}

// StartingSkillPoints previews the allowance a run at level would get.
func (e *Engine) StartingSkillPoints(characterLevel int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return 0
	}
	return e.mgr.StartingSkillPoints(characterLevel)
}

func (e *Engine) nodeViewLocked(n skillgraph.Node) NodeView {
	state, _ := e.mgr.NodeState(n.ID)
	v := NodeView{
		Node:          n,
		State:         state,
		Prerequisites: e.graph.Prerequisites(n.ID),
		Dependents:    e.graph.Dependents(n.ID),
	}
	switch state {
	case skillgraph.StateLocked:
		v.Blocked = e.mgr.CheckUnlock(n.ID)
	case skillgraph.StateUnlocked:
		v.Blocked = e.mgr.CheckActivate(n.ID)
	}
	return v
}

func (e *Engine) specViewLocked(s skillgraph.Specialization) SpecializationView {
	return SpecializationView{
		Specialization: s,
		Count:          e.mgr.Tracker().Count(s.ID),
		Level:          e.mgr.Tracker().Level(s.ID),
	}
}
