// Package migrate reconciles persisted data written by older builds with
// the current graph before the engine starts.
package migrate

import (
	"fmt"
	"slices"

	"golang.org/x/mod/semver"

	"github.com/abhisek/physiq/internal/persistence"
	"github.com/abhisek/physiq/internal/skillgraph"
)

// LegacyCoreID is the single node that the core cluster replaced.
const LegacyCoreID = "core_physics"

// Policy configures the reconciliation.
type Policy struct {
	LegacyCoreID string
	// CoreIDs are the ids that replace the legacy node. When empty the
	// graph's tier-0 nodes are used.
	CoreIDs []string
}

// DefaultPolicy replaces core_physics with the built-in core cluster.
func DefaultPolicy() Policy {
	return Policy{LegacyCoreID: LegacyCoreID, CoreIDs: slices.Clone(skillgraph.CoreClusterIDs)}
}

// Report lists what Progress changed.
type Report struct {
	FromVersion   string
	LegacyRemoved bool
	CoreAdded     []string
	// UnknownIDs are unlocked ids the graph does not contain. They are
	// kept in the document.
	UnknownIDs    []string
	DroppedActive []string
	Deactivated   []string
}

// Changed reports whether the document was modified.
func (r Report) Changed() bool {
	return r.LegacyRemoved || len(r.CoreAdded) > 0 || len(r.DroppedActive) > 0 || len(r.Deactivated) > 0 ||
		r.FromVersion != persistence.FormatVersion
}

func (r Report) String() string {
	return fmt.Sprintf("from=%s legacy=%v core_added=%v unknown=%v dropped_active=%v deactivated=%v",
		r.FromVersion, r.LegacyRemoved, r.CoreAdded, r.UnknownIDs, r.DroppedActive, r.Deactivated)
}

// NeedsMigration reports whether a document's format version predates the
// current one. Documents without a valid version always need it.
func NeedsMigration(version string) bool {
	if !semver.IsValid(version) {
		return true
	}
	return semver.Compare(version, persistence.FormatVersion) < 0
}

// Progress upgrades doc in place against graph. The legacy core id is
// replaced by the core cluster wherever it appears, the core ids are then
// ensured in both sets regardless, unlocked ids unknown to the graph are
// kept but reported, unknown active ids are dropped and active nodes that
// are not unlocked are deactivated. It is idempotent.
func Progress(doc *persistence.Document, graph *skillgraph.Graph, p Policy) Report {
	report := Report{FromVersion: doc.FormatVersion}
	if report.FromVersion == "" {
		report.FromVersion = "v1.0.0"
	}

	core := coreIDs(graph, p)
	legacy := p.LegacyCoreID != "" && !graph.Has(p.LegacyCoreID)

	var unlocked, active []string
	if legacy && (slices.Contains(doc.UnlockedSkills, p.LegacyCoreID) || slices.Contains(doc.ActiveSkills, p.LegacyCoreID)) {
		report.LegacyRemoved = true
	}
	for _, id := range doc.UnlockedSkills {
		if legacy && id == p.LegacyCoreID {
			continue
		}
		unlocked = appendUnique(unlocked, id)
	}
	for _, id := range doc.ActiveSkills {
		if legacy && id == p.LegacyCoreID {
			continue
		}
		active = appendUnique(active, id)
	}

	for _, id := range core {
		if !slices.Contains(unlocked, id) {
			report.CoreAdded = append(report.CoreAdded, id)
		}
		unlocked = appendUnique(unlocked, id)
		active = appendUnique(active, id)
	}

	for _, id := range unlocked {
		if !graph.Has(id) {
			report.UnknownIDs = append(report.UnknownIDs, id)
		}
	}
	active = slices.DeleteFunc(active, func(id string) bool {
		switch {
		case !graph.Has(id):
			report.DroppedActive = append(report.DroppedActive, id)
		case !slices.Contains(unlocked, id):
			report.Deactivated = append(report.Deactivated, id)
		default:
			return false
		}
		return true
	})

	doc.UnlockedSkills = unlocked
	doc.ActiveSkills = active
	if NeedsMigration(doc.FormatVersion) {
		doc.FormatVersion = persistence.FormatVersion
	}
	return report
}

// Graph replaces a legacy core node in graph data with the core cluster.
// Edges from the legacy node are rewired to start from every core node
// and edges into it are dropped. Data without the legacy node is returned
// unchanged.
func Graph(data skillgraph.Data, p Policy) (skillgraph.Data, bool) {
	idx := slices.IndexFunc(data.Nodes, func(n skillgraph.Node) bool { return n.ID == p.LegacyCoreID })
	if p.LegacyCoreID == "" || idx < 0 {
		return data, false
	}

	nodes := slices.Delete(slices.Clone(data.Nodes), idx, idx+1)
	have := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		have[n.ID] = true
	}
	var coreIDs []string
	for _, n := range skillgraph.CoreCluster() {
		if !slices.Contains(p.CoreIDs, n.ID) && len(p.CoreIDs) > 0 {
			continue
		}
		coreIDs = append(coreIDs, n.ID)
		if !have[n.ID] {
			nodes = append(nodes, n)
		}
	}

	var conns []skillgraph.Connection
	for _, c := range data.Connections {
		switch {
		case c.Target == p.LegacyCoreID:
			continue
		case c.Source == p.LegacyCoreID:
			for _, id := range coreIDs {
				conns = append(conns, skillgraph.Connection{Source: id, Target: c.Target})
			}
		default:
			conns = append(conns, c)
		}
	}
	for _, c := range skillgraph.CoreConnections() {
		if slices.Contains(coreIDs, c.Source) && slices.Contains(coreIDs, c.Target) {
			conns = append(conns, c)
		}
	}

	data.Nodes = nodes
	data.Connections = conns
	return data, true
}

func coreIDs(graph *skillgraph.Graph, p Policy) []string {
	var ids []string
	for _, id := range p.CoreIDs {
		if n, ok := graph.Node(id); ok && n.IsCore() {
			ids = append(ids, id)
		}
	}
	for _, id := range graph.CoreIDs() {
		ids = appendUnique(ids, id)
	}
	return ids
}

func appendUnique(s []string, id string) []string {
	if slices.Contains(s, id) {
		return s
	}
	return append(s, id)
}
