// Package specialization counts unlocked nodes per specialization and
// announces milestone crossings.
package specialization

import (
	"maps"

	"github.com/abhisek/physiq/internal/events"
	"github.com/abhisek/physiq/internal/skillgraph"
)

// Level is a player's standing in one specialization.
type Level int

const (
	LevelNone Level = iota
	LevelSpecialist
	LevelMaster
)

func (l Level) String() string {
	switch l {
	case LevelSpecialist:
		return "specialist"
	case LevelMaster:
		return "master"
	default:
		return "none"
	}
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Tracker holds per-specialization unlock counts.
type Tracker struct {
	graph  *skillgraph.Graph
	bus    *events.Bus
	counts map[string]int
}

// NewTracker returns a tracker with every known specialization at zero.
func NewTracker(graph *skillgraph.Graph, bus *events.Bus) *Tracker {
	t := &Tracker{graph: graph, bus: bus, counts: make(map[string]int)}
	for _, s := range graph.Specializations() {
		t.counts[s.ID] = 0
	}
	return t
}

// Recount rebuilds every count from the unlocked set without publishing
// anything. Used at load time.
func (t *Tracker) Recount(unlocked []string) {
	for id := range t.counts {
		t.counts[id] = 0
	}
	for _, id := range unlocked {
		if n, ok := t.graph.Node(id); ok {
			t.counts[n.SpecializationID()]++
		}
	}
}

// NodeUnlocked recomputes the count of the node's specialization from the
// unlocked predicate and publishes milestone events for any threshold the
// new count crosses.
func (t *Tracker) NodeUnlocked(nodeID string, unlocked func(string) bool) {
	n := t.graph.MustNode(nodeID)
	sid := n.SpecializationID()

	count := 0
	for _, member := range t.graph.BySpecialization(sid) {
		if unlocked(member.ID) {
			count++
		}
	}
	old := t.counts[sid]
	t.counts[sid] = count
	if count == old {
		return
	}

	t.publish(events.Event{
		Type:           events.SpecializationUpdated,
		Specialization: sid,
		NodeID:         nodeID,
		Delta:          &events.Delta{Old: old, New: count, Change: count - old},
	})

	spec, ok := t.graph.Specialization(sid)
	if !ok {
		return
	}
	if old < spec.Threshold && count >= spec.Threshold {
		t.publish(events.Event{Type: events.SpecializationAchieved, Specialization: sid, NodeID: nodeID})
	}
	if old < spec.MasteryThreshold && count >= spec.MasteryThreshold {
		t.publish(events.Event{Type: events.SpecializationMasteryAchieved, Specialization: sid, NodeID: nodeID})
	}
}

// Count returns the unlock count of a specialization.
func (t *Tracker) Count(id string) int { return t.counts[id] }

// Progress returns a copy of all counts.
func (t *Tracker) Progress() map[string]int { return maps.Clone(t.counts) }

// Level returns the player's standing in a specialization. Unknown
// specializations are LevelNone.
func (t *Tracker) Level(id string) Level {
	spec, ok := t.graph.Specialization(id)
	if !ok {
		return LevelNone
	}
	c := t.counts[id]
	switch {
	case c >= spec.MasteryThreshold:
		return LevelMaster
	case c >= spec.Threshold:
		return LevelSpecialist
	default:
		return LevelNone
	}
}

// Achieved returns the specializations at or above their threshold, core
// included.
func (t *Tracker) Achieved() []string {
	var out []string
	for _, s := range t.graph.Specializations() {
		if t.Level(s.ID) >= LevelSpecialist {
			out = append(out, s.ID)
		}
	}
	return out
}

func (t *Tracker) publish(e events.Event) {
	if t.bus != nil {
		t.bus.Publish(e)
	}
}
