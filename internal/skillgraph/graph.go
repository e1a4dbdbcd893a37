package skillgraph

import (
	"fmt"
	"slices"
	"sort"
)

// Graph holds the skill nodes with precomputed prerequisite and dependent
// indices. A Graph is immutable after New.
type Graph struct {
	version     string
	nodes       []Node
	byID        map[string]*Node
	prereqs     map[string][]string
	dependents  map[string][]string
	connections []Connection
	specs       map[string]Specialization
	specOrder   []string
	bySpec      map[string][]string
}

// New builds the graph indices in O(nodes + edges). It does not check for
// cycles or dangling edges; see Validate.
func New(data Data) *Graph {
	gr := &Graph{
		version:    data.Version,
		nodes:      slices.Clone(data.Nodes),
		byID:       make(map[string]*Node, len(data.Nodes)),
		prereqs:    make(map[string][]string),
		dependents: make(map[string][]string),
		specs:      make(map[string]Specialization, len(data.Specializations)+1),
		bySpec:     make(map[string][]string),
	}

	// Tier then id, so listings are stable across loads
	sort.SliceStable(gr.nodes, func(i, j int) bool {
		if gr.nodes[i].Tier != gr.nodes[j].Tier {
			return gr.nodes[i].Tier < gr.nodes[j].Tier
		}
		return gr.nodes[i].ID < gr.nodes[j].ID
	})
	for i := range gr.nodes {
		gr.byID[gr.nodes[i].ID] = &gr.nodes[i]
	}

	seen := make(map[Connection]bool, len(data.Connections))
	for _, c := range data.Connections {
		if seen[c] {
			continue
		}
		seen[c] = true
		gr.connections = append(gr.connections, c)
		gr.prereqs[c.Target] = append(gr.prereqs[c.Target], c.Source)
		gr.dependents[c.Source] = append(gr.dependents[c.Source], c.Target)
	}

	for _, s := range data.Specializations {
		if _, dup := gr.specs[s.ID]; !dup {
			gr.specOrder = append(gr.specOrder, s.ID)
		}
		gr.specs[s.ID] = s
	}
	if _, ok := gr.specs[CoreSpecialization]; !ok {
		gr.specs[CoreSpecialization] = defaultCoreSpecialization
		gr.specOrder = append([]string{CoreSpecialization}, gr.specOrder...)
	}

	for i := range gr.nodes {
		sid := gr.nodes[i].SpecializationID()
		gr.bySpec[sid] = append(gr.bySpec[sid], gr.nodes[i].ID)
	}
	return gr
}

// Version returns the tree_version of the source document.
func (gr *Graph) Version() string { return gr.version }

// Len returns the number of nodes.
func (gr *Graph) Len() int { return len(gr.nodes) }

// Node returns a node by id.
func (gr *Graph) Node(id string) (Node, bool) {
	n, ok := gr.byID[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// MustNode returns a node by id and panics if it does not exist. Use it only
// where the id comes from trusted internal state.
func (gr *Graph) MustNode(id string) Node {
	n, ok := gr.byID[id]
	if !ok {
		panic(fmt.Sprintf("skillgraph: unknown node %q", id))
	}
	return *n
}

// Has reports whether id names a node.
func (gr *Graph) Has(id string) bool {
	_, ok := gr.byID[id]
	return ok
}

// Nodes returns all nodes ordered by tier then id.
func (gr *Graph) Nodes() []Node {
	return slices.Clone(gr.nodes)
}

// Connections returns the de-duplicated edge list.
func (gr *Graph) Connections() []Connection {
	return slices.Clone(gr.connections)
}

// Prerequisites returns the ids of a node's direct prerequisites.
func (gr *Graph) Prerequisites(id string) []string {
	return slices.Clone(gr.prereqs[id])
}

// Dependents returns the ids of nodes that directly depend on id.
func (gr *Graph) Dependents(id string) []string {
	return slices.Clone(gr.dependents[id])
}

// PrerequisitesMet reports whether a node has no prerequisites or at least
// one of them is in held. Only direct edges are consulted.
func (gr *Graph) PrerequisitesMet(id string, held func(string) bool) bool {
	pre := gr.prereqs[id]
	if len(pre) == 0 {
		return true
	}
	for _, p := range pre {
		if held(p) {
			return true
		}
	}
	return false
}

// CoreNodes returns the tier-0 nodes.
func (gr *Graph) CoreNodes() []Node {
	var out []Node
	for _, n := range gr.nodes {
		if n.IsCore() {
			out = append(out, n)
		}
	}
	return out
}

// CoreIDs returns the ids of the tier-0 nodes.
func (gr *Graph) CoreIDs() []string {
	var ids []string
	for _, n := range gr.nodes {
		if n.IsCore() {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Specializations returns every specialization in declaration order, with
// core first when it was not declared.
func (gr *Graph) Specializations() []Specialization {
	out := make([]Specialization, 0, len(gr.specOrder))
	for _, id := range gr.specOrder {
		out = append(out, gr.specs[id])
	}
	return out
}

// Specialization returns a specialization by id.
func (gr *Graph) Specialization(id string) (Specialization, bool) {
	s, ok := gr.specs[id]
	return s, ok
}

// BySpecialization returns the nodes of one specialization, ordered by tier
// then id.
func (gr *Graph) BySpecialization(id string) []Node {
	ids := gr.bySpec[id]
	out := make([]Node, 0, len(ids))
	for _, nid := range ids {
		out = append(out, *gr.byID[nid])
	}
	return out
}

// Data returns the graph back in document form.
func (gr *Graph) Data() Data {
	return Data{
		Version:         gr.version,
		Nodes:           gr.Nodes(),
		Connections:     gr.Connections(),
		Specializations: gr.Specializations(),
	}
}
