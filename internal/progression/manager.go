// Package progression owns the player's unlocked and active skills and
// both currencies, and enforces the legality of every change to them.
package progression

import (
	"log/slog"
	"slices"

	"github.com/abhisek/physiq/internal/effects"
	"github.com/abhisek/physiq/internal/events"
	"github.com/abhisek/physiq/internal/skillgraph"
	"github.com/abhisek/physiq/internal/specialization"
)

// Config holds the tunables of the progression rules.
type Config struct {
	// BaseSkillPoints is the per-run allowance before level and
	// specialization bonuses.
	BaseSkillPoints int
	Defaults        Defaults
}

// DefaultConfig returns the standard rules.
func DefaultConfig() Config {
	return Config{BaseSkillPoints: 3, Defaults: DefaultDefaults()}
}

// Options wires a Manager to its collaborators. Every field is optional.
type Options struct {
	Bus     *events.Bus
	Catalog *effects.Catalog
	Logger  *slog.Logger
	// Save is called whenever a change should be persisted.
	Save func()
}

// Manager is the single mutator of a player's progression. It is not safe
// for concurrent use; callers serialize access.
type Manager struct {
	cfg      Config
	graph    *skillgraph.Graph
	rep      int
	sp       int
	unlocked *idSet
	active   *idSet
	// foreign holds unlocked ids the graph does not know. They are never
	// offered or counted but are written back on every save.
	foreign  []string
	agg      *effects.Aggregator
	tracker  *specialization.Tracker
	bus      *events.Bus
	log      *slog.Logger
	save     func()
}

// New builds a manager from a loaded record. The record is normalized so
// that every invariant holds: unknown unlocked ids are set aside and kept
// for saving, unknown active ids are dropped, core nodes are
// unlocked and active, active is a subset of unlocked, currencies are
// non-negative and specialization progress is recounted. Effects of the
// active nodes are applied in active order.
func New(graph *skillgraph.Graph, rec Record, cfg Config, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		cfg:     cfg,
		graph:   graph,
		agg:     effects.NewAggregator(opts.Catalog),
		tracker: specialization.NewTracker(graph, opts.Bus),
		bus:     opts.Bus,
		log:     log,
		save:    opts.Save,
	}
	m.load(rec)
	return m
}

func (m *Manager) load(rec Record) {
	m.rep = max(rec.Reputation, 0)
	m.sp = max(rec.SkillPointsAvailable, 0)

	m.unlocked = newIDSet(nil)
	m.active = newIDSet(nil)
	m.foreign = nil
	for _, id := range m.graph.CoreIDs() {
		m.unlocked.add(id)
		m.active.add(id)
	}
	for _, id := range rec.UnlockedSkills {
		if !m.graph.Has(id) {
			if !slices.Contains(m.foreign, id) {
				m.log.Warn("keeping unlocked skill unknown to the graph", "node", id)
				m.foreign = append(m.foreign, id)
			}
			continue
		}
		m.unlocked.add(id)
	}
	for _, id := range rec.ActiveSkills {
		if !m.unlocked.contains(id) {
			m.log.Warn("dropping active skill that is not unlocked", "node", id)
			continue
		}
		m.active.add(id)
	}

	m.tracker.Recount(m.unlocked.list())
	m.agg.Reset()
	for _, id := range m.active.list() {
		m.applyEffects(id)
	}
}

// Graph returns the graph the manager validates against.
func (m *Manager) Graph() *skillgraph.Graph { return m.graph }

// Aggregator exposes the effect table of the active nodes.
func (m *Manager) Aggregator() *effects.Aggregator { return m.agg }

// Tracker exposes specialization counts and levels.
func (m *Manager) Tracker() *specialization.Tracker { return m.tracker }

// Record returns a copy of the current state.
func (m *Manager) Record() Record {
	return Record{
		Reputation:             m.rep,
		SkillPointsAvailable:   m.sp,
		UnlockedSkills:         append(m.unlocked.list(), m.foreign...),
		ActiveSkills:           m.active.list(),
		SpecializationProgress: m.tracker.Progress(),
	}
}

// Reputation returns the current reputation.
func (m *Manager) Reputation() int { return m.rep }

// SkillPoints returns the skill points available this run.
func (m *Manager) SkillPoints() int { return m.sp }

// Foreign returns the saved unlocked ids that the graph does not contain.
func (m *Manager) Foreign() []string { return slices.Clone(m.foreign) }

// IsUnlocked reports whether id is permanently unlocked.
func (m *Manager) IsUnlocked(id string) bool { return m.unlocked.contains(id) }

// IsActive reports whether id is active this run.
func (m *Manager) IsActive(id string) bool { return m.active.contains(id) }

// NodeState derives the node's state. The second result is false for
// unknown ids.
func (m *Manager) NodeState(id string) (skillgraph.NodeState, bool) {
	if !m.graph.Has(id) {
		return skillgraph.StateLocked, false
	}
	switch {
	case m.active.contains(id):
		return skillgraph.StateActive, true
	case m.unlocked.contains(id):
		return skillgraph.StateUnlocked, true
	case m.CanUnlock(id):
		return skillgraph.StateUnlockable, true
	default:
		return skillgraph.StateLocked, true
	}
}

// States derives the state of every node.
func (m *Manager) States() map[string]skillgraph.NodeState {
	out := make(map[string]skillgraph.NodeState, m.graph.Len())
	for _, n := range m.graph.Nodes() {
		out[n.ID], _ = m.NodeState(n.ID)
	}
	return out
}

func (m *Manager) publish(e events.Event) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

func (m *Manager) scheduleSave() {
	if m.save != nil {
		m.save()
	}
}

func (m *Manager) applyEffects(id string) {
	n := m.graph.MustNode(id)
	for _, e := range m.agg.Apply(id, n.Effects) {
		m.publish(events.Event{
			Type:       events.EffectPayload,
			NodeID:     id,
			EffectType: string(e.Type),
			Payload:    mustJSON(e.Value),
		})
	}
}
